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

package model

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGenerateUUIDWithSuffix(t *testing.T) {
	id := GenerateUUIDWithSuffix("exp")
	assert.True(t, strings.HasPrefix(id, "exp_"))
	assert.NotEqual(t, id, GenerateUUIDWithSuffix("exp"))
}

func TestConfidenceForErrors(t *testing.T) {
	assert.Equal(t, ConfidenceHigh, ConfidenceForErrors(0))
	assert.Equal(t, ConfidenceMedium, ConfidenceForErrors(1))
	assert.Equal(t, ConfidenceLow, ConfidenceForErrors(2))
	assert.Equal(t, ConfidenceLow, ConfidenceForErrors(5))
}

func TestMatchStatusTransitions(t *testing.T) {
	tests := []struct {
		from, to MatchStatus
		allowed  bool
	}{
		{MatchStatusUnmatched, MatchStatusAutoMatched, true},
		{MatchStatusUnmatched, MatchStatusConfirmed, true},
		{MatchStatusUnmatched, MatchStatusIgnored, true},
		{MatchStatusAutoMatched, MatchStatusConfirmed, true},
		{MatchStatusAutoMatched, MatchStatusIgnored, false},
		{MatchStatusAutoMatched, MatchStatusUnmatched, false},
		{MatchStatusConfirmed, MatchStatusIgnored, false},
		{MatchStatusConfirmed, MatchStatusUnmatched, false},
		{MatchStatusIgnored, MatchStatusConfirmed, false},
		{MatchStatusIgnored, MatchStatusAutoMatched, false},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.allowed, tt.from.CanTransitionTo(tt.to), "%s -> %s", tt.from, tt.to)
	}
}

func TestSubscriptionMatchIsManual(t *testing.T) {
	assert.True(t, (&SubscriptionMatch{Confidence: 1.0}).IsManual())
	assert.False(t, (&SubscriptionMatch{Confidence: 0.99}).IsManual())
}

func TestManualMatchReason(t *testing.T) {
	assert.Equal(t, "Manually matched with Netflix", ManualMatchReason("Netflix"))
}

func TestParseErrorError(t *testing.T) {
	err := &ParseError{Code: ErrNoAmountFound, Message: "no amount found in message"}
	assert.Equal(t, "NO_AMOUNT_FOUND: no amount found in message", err.Error())
}
