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

package reckon

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"regexp"
	"strings"
	"time"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/opsdeck/reckon/internal/vision"
	"github.com/opsdeck/reckon/model"
)

// extractionPrompt is the fixed instruction sent with every receipt image.
// The strict-JSON demands are load-bearing: everything downstream assumes a
// single object and defends against the model ignoring the instructions.
const extractionPrompt = `You are reading a photo of a purchase receipt or bill.
Extract the total paid and respond with STRICT JSON only - a single object:
{"amount": <number>, "date": "YYYY-MM-DD", "vendor": "<string>", "items": ["<string>"], "confidence": "high"|"medium"|"low"}
Do NOT wrap the response in code fences. Do NOT add any text outside the object.
If a field cannot be read from the image, use null.`

// ErrExtractionFailed marks a vision extraction that produced no usable
// expense, after which the caption fallback (if any) takes over.
var ErrExtractionFailed = errors.New("receipt extraction failed")

var jsonObjectPattern = regexp.MustCompile(`(?s)\{.*\}`)

// ImageInput is an inbound receipt image with its chat context.
type ImageInput struct {
	Data     []byte
	MIMEType string
	Caption  string
	Sender   string
}

// visionExtraction mirrors the JSON object requested by extractionPrompt.
// Amount is a pointer so a null from the model stays distinguishable from 0.
type visionExtraction struct {
	Amount     *float64 `json:"amount"`
	Date       string   `json:"date"`
	Vendor     string   `json:"vendor"`
	Items      []string `json:"items"`
	Confidence string   `json:"confidence"`
}

// extractJSONBlock defensively pulls the JSON object out of raw model output:
// strip markdown fences, then take the first '{' through the last '}'.
func extractJSONBlock(raw string) (string, bool) {
	s := strings.TrimSpace(raw)
	if strings.HasPrefix(s, "```") {
		if idx := strings.Index(s, "\n"); idx != -1 {
			s = s[idx+1:]
		}
		if idx := strings.LastIndex(s, "```"); idx != -1 {
			s = s[:idx]
		}
		s = strings.TrimSpace(s)
	}
	block := jsonObjectPattern.FindString(s)
	if block == "" {
		return "", false
	}
	return block, true
}

// ExtractReceipt runs the vision backend over the image and validates the
// result. Failures never throw: the raw model text is kept on the result for
// diagnostics and the Success flag tells the caller what happened. An absent,
// non-positive or NaN amount is extraction failure, never a zero-amount record.
func (r *Reckon) ExtractReceipt(ctx context.Context, img ImageInput) model.ExtractionResult {
	raw, err := r.vision.ExtractText(ctx, vision.Image{Data: img.Data, MIMEType: img.MIMEType}, extractionPrompt)
	if err != nil {
		logrus.Errorf("vision extraction failed: %v", err)
		return model.ExtractionResult{Success: false, RawExtraction: raw}
	}

	block, ok := extractJSONBlock(raw)
	if !ok {
		logrus.Warnf("no JSON object in model output (%d bytes)", len(raw))
		return model.ExtractionResult{Success: false, RawExtraction: raw}
	}

	var extracted visionExtraction
	if err := json.Unmarshal([]byte(block), &extracted); err != nil {
		logrus.Warnf("malformed JSON in model output: %v", err)
		return model.ExtractionResult{Success: false, RawExtraction: raw}
	}

	if extracted.Amount == nil || math.IsNaN(*extracted.Amount) || *extracted.Amount <= 0 {
		return model.ExtractionResult{Success: false, RawExtraction: raw}
	}

	return model.ExtractionResult{
		Success:       true,
		Amount:        *extracted.Amount,
		Date:          extracted.Date,
		Vendor:        extracted.Vendor,
		Items:         extracted.Items,
		Confidence:    extracted.Confidence,
		RawExtraction: raw,
	}
}

// extractionStrategy is one step of the image fallback chain. Strategies run
// in declaration order and the first success wins.
type extractionStrategy struct {
	name string
	run  func(ctx context.Context, img ImageInput) (*model.ParsedExpense, error)
}

func (r *Reckon) imageStrategies() []extractionStrategy {
	return []extractionStrategy{
		{name: "vision", run: r.parseImageWithVision},
		{name: "caption", run: r.parseImageCaption},
	}
}

// ProcessExpenseImage turns a receipt image (plus optional caption and sender
// context) into a ParsedExpense: vision extraction first, then re-parsing the
// caption as text, then failure. The last strategy's error surfaces when the
// whole chain comes up empty.
func (r *Reckon) ProcessExpenseImage(ctx context.Context, img ImageInput) (*model.ParsedExpense, error) {
	var lastErr error
	for _, strategy := range r.imageStrategies() {
		expense, err := strategy.run(ctx, img)
		if err == nil {
			return expense, nil
		}
		logrus.Warnf("image strategy %q failed: %v", strategy.name, err)
		lastErr = err
	}
	return nil, lastErr
}

func (r *Reckon) parseImageWithVision(ctx context.Context, img ImageInput) (*model.ParsedExpense, error) {
	result := r.ExtractReceipt(ctx, img)
	if !result.Success {
		return nil, ErrExtractionFailed
	}
	return r.expenseFromExtraction(result, img), nil
}

func (r *Reckon) parseImageCaption(_ context.Context, img ImageInput) (*model.ParsedExpense, error) {
	if strings.TrimSpace(img.Caption) == "" {
		return nil, errors.New("no caption to fall back to")
	}
	return r.ParseTextExpenseWithSender(img.Caption, img.Sender)
}

// expenseFromExtraction builds the expense record out of a successful vision
// extraction, applying the vendor-keyed category table and the same default
// rules as the text parser.
func (r *Reckon) expenseFromExtraction(result model.ExtractionResult, img ImageInput) *model.ParsedExpense {
	var parseErrors []string

	purpose := titleCase(result.Vendor)
	if purpose == "" && len(result.Items) > 0 {
		purpose = titleCase(strings.Join(result.Items, ", "))
	}
	if purpose == "" {
		purpose = r.config.Parser.DefaultPurpose
		parseErrors = append(parseErrors, fmt.Sprintf("no vendor or items on receipt, recorded as %q", purpose))
	}

	person := r.config.Parser.DefaultPerson
	if member, ok := r.ResolveSender(img.Sender); ok {
		person = member
	} else {
		parseErrors = append(parseErrors, fmt.Sprintf("sender not on roster, defaulting to %q", person))
	}

	expenseDate := time.Now().Format("2006-01-02")
	if result.Date != "" {
		if _, err := time.Parse("2006-01-02", result.Date); err == nil {
			expenseDate = result.Date
		} else {
			parseErrors = append(parseErrors, fmt.Sprintf("unreadable receipt date %q, using today", result.Date))
		}
	}

	if result.Confidence == string(model.ConfidenceLow) {
		parseErrors = append(parseErrors, "model reported low extraction confidence")
	}

	return &model.ParsedExpense{
		Purpose:           purpose,
		AmountINR:         result.Amount,
		AmountUSD:         convertINRToUSD(result.Amount, r.config.Parser.INRPerUSD),
		Category:          r.DetectVendorCategory(result.Vendor + " " + strings.Join(result.Items, " ")),
		PersonResponsible: person,
		ExpenseDate:       expenseDate,
		RawMessage:        result.RawExtraction,
		Confidence:        model.ConfidenceForErrors(len(parseErrors)),
		ParseErrors:       parseErrors,
	}
}
