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
	"bufio"
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/pkg/errors"

	"github.com/opsdeck/reckon/internal/request"
)

// OllamaBackend talks to a self-hosted vision model over its streaming chat
// completion endpoint.
type OllamaBackend struct {
	baseURL string
	model   string
	timeout time.Duration
	client  *http.Client
}

func NewOllamaBackend(baseURL, model string, timeout time.Duration) *OllamaBackend {
	return &OllamaBackend{
		baseURL: strings.TrimRight(baseURL, "/"),
		model:   model,
		timeout: timeout,
		client:  &http.Client{},
	}
}

type ollamaChatMessage struct {
	Role    string   `json:"role"`
	Content string   `json:"content"`
	Images  []string `json:"images,omitempty"`
}

type ollamaChatRequest struct {
	Model    string              `json:"model"`
	Messages []ollamaChatMessage `json:"messages"`
	Stream   bool                `json:"stream"`
}

// streamFragment is one newline-delimited JSON chunk of a streaming response.
// Depending on the endpoint generation the text lives in message.content,
// content or response; they are checked in that priority order.
type streamFragment struct {
	Message struct {
		Content string `json:"content"`
	} `json:"message"`
	Content  string `json:"content"`
	Response string `json:"response"`
	Done     bool   `json:"done"`
}

func (f streamFragment) text() string {
	if f.Message.Content != "" {
		return f.Message.Content
	}
	if f.Content != "" {
		return f.Content
	}
	return f.Response
}

// ExtractText sends the image and prompt with streaming enabled and
// reassembles the fragments into the full model answer. Streaming keeps
// upstream gateways from timing out while the model is still generating; the
// client-side deadline bounds the whole call instead.
func (o *OllamaBackend) ExtractText(ctx context.Context, img Image, prompt string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, o.timeout)
	defer cancel()

	req, err := request.NewJSONPost(ctx, o.baseURL+"/api/chat", &ollamaChatRequest{
		Model: o.model,
		Messages: []ollamaChatMessage{{
			Role:    "user",
			Content: prompt,
			Images:  []string{base64.StdEncoding.EncodeToString(img.Data)},
		}},
		Stream: true,
	})
	if err != nil {
		return "", err
	}

	resp, err := o.client.Do(req)
	if err != nil {
		return "", errors.Wrap(err, "vision backend unreachable")
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return "", errors.Errorf("vision backend returned %d: %s", resp.StatusCode, string(body))
	}

	var full strings.Builder
	scanner := bufio.NewScanner(resp.Body)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		line := bytes.TrimSpace(scanner.Bytes())
		if len(line) == 0 {
			continue
		}
		var fragment streamFragment
		if err := json.Unmarshal(line, &fragment); err != nil {
			// Tolerate keep-alive noise between fragments.
			continue
		}
		full.WriteString(fragment.text())
		if fragment.Done {
			break
		}
	}
	if err := scanner.Err(); err != nil {
		return full.String(), errors.Wrap(err, "reading model stream")
	}
	return full.String(), nil
}
