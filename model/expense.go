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

import "fmt"

// Confidence is a coarse three-level indicator of how many default or fallback
// substitutions were required to produce a ParsedExpense. It is not a
// statistical probability.
type Confidence string

const (
	ConfidenceHigh   Confidence = "high"   // No defaults or fallbacks were needed.
	ConfidenceMedium Confidence = "medium" // Exactly one ambiguity was resolved by default.
	ConfidenceLow    Confidence = "low"    // More than one ambiguity was resolved by default.
)

// ConfidenceForErrors derives the confidence level from the number of recorded
// parse ambiguities.
func ConfidenceForErrors(count int) Confidence {
	switch {
	case count == 0:
		return ConfidenceHigh
	case count == 1:
		return ConfidenceMedium
	default:
		return ConfidenceLow
	}
}

// ParsedExpense is the structured output of text or image expense parsing.
// It is constructed once per inbound message, persisted by the caller and
// never mutated afterwards; corrections happen by creating a new record.
type ParsedExpense struct {
	ExpenseID         string     `json:"expense_id"`
	Purpose           string     `json:"purpose"`
	AmountINR         float64    `json:"amount_inr"`
	AmountUSD         float64    `json:"amount_usd"`
	Category          string     `json:"category"`
	PersonResponsible string     `json:"person_responsible"`
	ExpenseDate       string     `json:"expense_date"`
	RawMessage        string     `json:"raw_message"`
	Confidence        Confidence `json:"confidence"`
	ParseErrors       []string   `json:"parse_errors,omitempty"`
}

// ParseErrorCode identifies a structural parse failure.
type ParseErrorCode string

const (
	ErrMessageTooShort ParseErrorCode = "MESSAGE_TOO_SHORT"
	ErrMessageTooLong  ParseErrorCode = "MESSAGE_TOO_LONG"
	ErrNoAmountFound   ParseErrorCode = "NO_AMOUNT_FOUND"
)

// ParseError is a structural parse failure: the message could not produce an
// expense record at all. Soft ambiguities never surface as a ParseError; they
// are resolved by defaults and recorded on the ParsedExpense itself.
type ParseError struct {
	Code        ParseErrorCode `json:"code"`
	Message     string         `json:"message"`
	Suggestions []string       `json:"suggestions,omitempty"`
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// ExtractionResult is the outcome of running a vision backend over a receipt
// image. A failed extraction keeps the raw model output for diagnostics
// instead of discarding it.
type ExtractionResult struct {
	Success       bool     `json:"success"`
	Amount        float64  `json:"amount"`
	Date          string   `json:"date,omitempty"`
	Vendor        string   `json:"vendor,omitempty"`
	Items         []string `json:"items,omitempty"`
	Confidence    string   `json:"confidence,omitempty"`
	RawExtraction string   `json:"raw_extraction,omitempty"`
}
