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

package vision

import (
	"context"
	"time"

	"github.com/pkg/errors"
	"google.golang.org/genai"
)

// GeminiBackend sends the receipt to the hosted vision API. Unlike the
// self-hosted backend the response arrives in one piece, so only the deadline
// handling is shared.
type GeminiBackend struct {
	apiKey  string
	model   string
	timeout time.Duration
}

func NewGeminiBackend(apiKey, model string, timeout time.Duration) *GeminiBackend {
	return &GeminiBackend{apiKey: apiKey, model: model, timeout: timeout}
}

func (g *GeminiBackend) ExtractText(ctx context.Context, img Image, prompt string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, g.timeout)
	defer cancel()

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:      g.apiKey,
		HTTPOptions: genai.HTTPOptions{APIVersion: "v1"},
	})
	if err != nil {
		return "", errors.Wrap(err, "create genai client")
	}

	contents := []*genai.Content{
		{
			Role: "user",
			Parts: []*genai.Part{
				{Text: prompt},
				{
					InlineData: &genai.Blob{
						MIMEType: img.MIMEType,
						Data:     img.Data,
					},
				},
			},
		},
	}

	resp, err := client.Models.GenerateContent(ctx, g.model, contents, nil)
	if err != nil {
		return "", errors.Wrap(err, "generate content")
	}
	text := resp.Text()
	if text == "" {
		return "", errors.New("empty response from model")
	}
	return text, nil
}
