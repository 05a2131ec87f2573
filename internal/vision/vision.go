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

// Package vision abstracts the two interchangeable vision-model backends used
// for receipt extraction: a self-hosted model spoken to over a streaming chat
// completion endpoint, and a hosted vision API. Backends return the raw model
// text; all JSON extraction and validation happens in the caller.
package vision

import (
	"context"
	"time"

	"github.com/pkg/errors"
)

// Image is the raw payload handed to a backend.
type Image struct {
	Data     []byte
	MIMEType string
}

// Backend is a vision-capable model that can read an image and answer a
// prompt with plain text. Implementations must honor the context deadline.
type Backend interface {
	ExtractText(ctx context.Context, img Image, prompt string) (string, error)
}

// NewBackend builds the configured backend. An unknown backend name is a
// configuration bug and fails loudly at construction time.
func NewBackend(backend, baseURL, model, apiKey string, timeout time.Duration) (Backend, error) {
	switch backend {
	case "ollama":
		return NewOllamaBackend(baseURL, model, timeout), nil
	case "gemini":
		return NewGeminiBackend(apiKey, model, timeout), nil
	}
	return nil, errors.Errorf("unknown vision backend %q", backend)
}
