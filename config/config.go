/*
Copyright 2025 Reckon Authors.

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

	http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/

package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"os"
	"strings"
	"sync/atomic"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/kelseyhightower/envconfig"
	"github.com/sirupsen/logrus"
	"github.com/wacul/ptr"
)

const (
	// DEFAULT_EXCHANGE_RATE is the fixed INR-per-USD conversion rate applied to
	// parsed amounts. It is configuration, not a live rate.
	DEFAULT_EXCHANGE_RATE = 83.5

	// DEFAULT_VISION_TIMEOUT_SECONDS bounds a single vision backend call so a
	// slow model cannot hold the originating webhook open.
	DEFAULT_VISION_TIMEOUT_SECONDS = 10

	// DEFAULT_MAX_MESSAGE_TOKENS is the pre-filter cutoff: messages longer than
	// this are assumed not to be expense submissions.
	DEFAULT_MAX_MESSAGE_TOKENS = 10
)

var ConfigStore atomic.Value

// ParserConfig controls the text expense parser.
type ParserConfig struct {
	MaxMessageTokens int     `json:"max_message_tokens" envconfig:"RECKON_PARSER_MAX_MESSAGE_TOKENS"`
	DefaultPurpose   string  `json:"default_purpose" envconfig:"RECKON_PARSER_DEFAULT_PURPOSE"`
	DefaultPerson    string  `json:"default_person" envconfig:"RECKON_PARSER_DEFAULT_PERSON"`
	INRPerUSD        float64 `json:"inr_per_usd" envconfig:"RECKON_PARSER_INR_PER_USD"`
}

// VisionConfig selects and configures the receipt extraction backend.
type VisionConfig struct {
	Backend        string `json:"backend" envconfig:"RECKON_VISION_BACKEND"`
	BaseURL        string `json:"base_url" envconfig:"RECKON_VISION_BASE_URL"`
	Model          string `json:"model" envconfig:"RECKON_VISION_MODEL"`
	APIKey         string `json:"api_key" envconfig:"RECKON_VISION_API_KEY"`
	TimeoutSeconds int    `json:"timeout_seconds" envconfig:"RECKON_VISION_TIMEOUT_SECONDS"`
}

// MatcherConfig holds the reconciliation tolerances and weights. Pointer
// fields distinguish "not set" from an explicit zero.
type MatcherConfig struct {
	AmountTolerance        *float64 `json:"amount_tolerance" envconfig:"RECKON_MATCHER_AMOUNT_TOLERANCE"`
	AmountTolerancePercent *float64 `json:"amount_tolerance_percent" envconfig:"RECKON_MATCHER_AMOUNT_TOLERANCE_PERCENT"`
	MinConfidence          *float64 `json:"min_confidence" envconfig:"RECKON_MATCHER_MIN_CONFIDENCE"`
	AmountWeight           *float64 `json:"amount_weight" envconfig:"RECKON_MATCHER_AMOUNT_WEIGHT"`
	DescriptionWeight      *float64 `json:"description_weight" envconfig:"RECKON_MATCHER_DESCRIPTION_WEIGHT"`
}

// CategoryRule maps a category name to the keywords that select it. Rules are
// evaluated in declaration order and the first keyword hit wins, so the order
// of a table is part of its behavior.
type CategoryRule struct {
	Name     string   `json:"name"`
	Keywords []string `json:"keywords"`
}

// RosterConfig is the fixed team roster: canonical member names, free-text
// alias variants, and the phone-number book used to resolve message senders.
type RosterConfig struct {
	Members   []string          `json:"members"`
	Aliases   map[string]string `json:"aliases"`
	PhoneBook map[string]string `json:"phone_book"`
}

type Configuration struct {
	ProjectName      string         `json:"project_name" envconfig:"RECKON_PROJECT_NAME"`
	Parser           ParserConfig   `json:"parser"`
	Vision           VisionConfig   `json:"vision"`
	Matcher          MatcherConfig  `json:"matcher"`
	Roster           RosterConfig   `json:"roster"`
	Categories       []CategoryRule `json:"categories"`
	VendorCategories []CategoryRule `json:"vendor_categories"`
}

func loadConfigFromFile(file string) error {
	var cnf Configuration
	_, err := os.Stat(file)
	if err == nil {
		f, err := os.Open(file)
		if err != nil {
			return err
		}
		defer f.Close()
		err = json.NewDecoder(f).Decode(&cnf)
		if err != nil {
			return err
		}
	} else if errors.Is(err, os.ErrNotExist) {
		log.Println("config json not passed, will use env variables")
	}

	// override config from environment variables
	err = envconfig.Process("reckon", &cnf)
	if err != nil {
		return err
	}

	err = cnf.validateAndAddDefaults()
	if err != nil {
		return err
	}

	ConfigStore.Store(&cnf)
	return err
}

func InitConfig(configFile string) error {
	logger()
	return loadConfigFromFile(configFile)
}

func Fetch() (*Configuration, error) {
	config := ConfigStore.Load()
	c, ok := config.(*Configuration)
	if !ok {
		return nil, errors.New("config not loaded from file. Create a json file called reckon.json with your config ❌")
	}
	return c, nil
}

func (cnf *Configuration) validateAndAddDefaults() error {
	if cnf.ProjectName == "" {
		log.Println("Warning: Project name is empty. Setting a default name.")
		cnf.ProjectName = "Reckon"
	}
	cnf.ProjectName = strings.TrimSpace(cnf.ProjectName)

	if cnf.Parser.MaxMessageTokens == 0 {
		cnf.Parser.MaxMessageTokens = DEFAULT_MAX_MESSAGE_TOKENS
	}
	if cnf.Parser.DefaultPurpose == "" {
		cnf.Parser.DefaultPurpose = "Expense"
	}
	if cnf.Parser.DefaultPerson == "" {
		cnf.Parser.DefaultPerson = "Office"
	}
	if cnf.Parser.INRPerUSD == 0 {
		cnf.Parser.INRPerUSD = DEFAULT_EXCHANGE_RATE
	}

	if cnf.Vision.Backend == "" {
		cnf.Vision.Backend = "ollama"
	}
	if cnf.Vision.BaseURL == "" {
		cnf.Vision.BaseURL = "http://localhost:11434"
	}
	if cnf.Vision.Model == "" {
		cnf.Vision.Model = "llama3.2-vision"
	}
	if cnf.Vision.TimeoutSeconds == 0 {
		cnf.Vision.TimeoutSeconds = DEFAULT_VISION_TIMEOUT_SECONDS
	}

	if cnf.Matcher.AmountTolerance == nil {
		cnf.Matcher.AmountTolerance = ptr.Float64(1.0)
	}
	if cnf.Matcher.AmountTolerancePercent == nil {
		cnf.Matcher.AmountTolerancePercent = ptr.Float64(1.0)
	}
	if cnf.Matcher.MinConfidence == nil {
		cnf.Matcher.MinConfidence = ptr.Float64(0.6)
	}
	if cnf.Matcher.AmountWeight == nil {
		cnf.Matcher.AmountWeight = ptr.Float64(0.7)
	}
	if cnf.Matcher.DescriptionWeight == nil {
		cnf.Matcher.DescriptionWeight = ptr.Float64(0.3)
	}

	if len(cnf.Roster.Members) == 0 {
		cnf.Roster = DefaultRoster()
	}
	if len(cnf.Categories) == 0 {
		cnf.Categories = DefaultCategories()
	}
	if len(cnf.VendorCategories) == 0 {
		cnf.VendorCategories = DefaultVendorCategories()
	}

	return cnf.validate()
}

// validate rejects malformed configuration outright. A broken lookup table is
// a configuration bug, not a data-quality issue, so loading fails loudly
// instead of degrading at parse time.
func (cnf *Configuration) validate() error {
	err := validation.ValidateStruct(&cnf.Parser,
		validation.Field(&cnf.Parser.INRPerUSD, validation.Required, validation.Min(0.0001)),
		validation.Field(&cnf.Parser.MaxMessageTokens, validation.Required, validation.Min(2)),
	)
	if err != nil {
		return fmt.Errorf("parser config: %w", err)
	}

	err = validation.ValidateStruct(&cnf.Vision,
		validation.Field(&cnf.Vision.Backend, validation.Required, validation.In("ollama", "gemini")),
		validation.Field(&cnf.Vision.TimeoutSeconds, validation.Required, validation.Min(1)),
	)
	if err != nil {
		return fmt.Errorf("vision config: %w", err)
	}

	if *cnf.Matcher.MinConfidence < 0 || *cnf.Matcher.MinConfidence > 1 {
		return errors.New("matcher config: min_confidence must be between 0 and 1")
	}

	for i, rule := range cnf.Categories {
		if err := rule.validate(); err != nil {
			return fmt.Errorf("categories[%d]: %w", i, err)
		}
	}
	for i, rule := range cnf.VendorCategories {
		if err := rule.validate(); err != nil {
			return fmt.Errorf("vendor_categories[%d]: %w", i, err)
		}
	}

	for alias, member := range cnf.Roster.Aliases {
		if alias == "" || member == "" {
			return errors.New("roster config: empty alias mapping")
		}
	}

	return nil
}

func (r CategoryRule) validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Name, validation.Required),
		validation.Field(&r.Keywords, validation.Required, validation.Length(1, 0)),
	)
}

// MockConfig sets a mock configuration for testing purposes.
func MockConfig(mockConfig *Configuration) {
	if err := mockConfig.validateAndAddDefaults(); err != nil {
		logrus.Errorf("invalid mock config: %v", err)
	}
	ConfigStore.Store(mockConfig)
}

func logger() {
	logger := logrus.New()
	log.SetOutput(logger.Writer())
}
