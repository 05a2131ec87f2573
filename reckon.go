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
	"time"

	"github.com/opsdeck/reckon/config"
	"github.com/opsdeck/reckon/internal/vision"
)

// Reckon wires the expense message parser, receipt extraction and the
// transaction reconciliation matcher together over the loaded configuration.
// All parsing operations are pure functions over the injected lookup tables;
// the vision backend is the only outbound collaborator.
type Reckon struct {
	config *config.Configuration
	vision vision.Backend
}

// NewReckon initializes a new instance of Reckon from the loaded
// configuration and builds the configured vision backend.
//
// Returns:
// - *Reckon: A pointer to the newly created Reckon instance.
// - error: An error if configuration is missing or the backend is unknown.
func NewReckon() (*Reckon, error) {
	configuration, err := config.Fetch()
	if err != nil {
		return nil, err
	}
	backend, err := vision.NewBackend(
		configuration.Vision.Backend,
		configuration.Vision.BaseURL,
		configuration.Vision.Model,
		configuration.Vision.APIKey,
		time.Duration(configuration.Vision.TimeoutSeconds)*time.Second,
	)
	if err != nil {
		return nil, err
	}
	return &Reckon{config: configuration, vision: backend}, nil
}
