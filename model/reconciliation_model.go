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
	"fmt"
	"time"
)

// MatchStatus tracks where a bank transaction sits in the reconciliation
// lifecycle. Confirmed and ignored are terminal within this component;
// reversal, if supported at all, is an external administrative action.
type MatchStatus string

const (
	MatchStatusUnmatched   MatchStatus = "unmatched"
	MatchStatusAutoMatched MatchStatus = "auto_matched"
	MatchStatusConfirmed   MatchStatus = "confirmed"
	MatchStatusIgnored     MatchStatus = "ignored"
)

// CanTransitionTo reports whether moving from s to next is a legal lifecycle
// transition: unmatched -> auto_matched -> confirmed, unmatched -> confirmed,
// or unmatched -> ignored.
func (s MatchStatus) CanTransitionTo(next MatchStatus) bool {
	switch s {
	case MatchStatusUnmatched:
		return next == MatchStatusAutoMatched || next == MatchStatusConfirmed || next == MatchStatusIgnored
	case MatchStatusAutoMatched:
		return next == MatchStatusConfirmed
	}
	return false
}

// BankTransaction is a single line from an uploaded bank statement.
type BankTransaction struct {
	TransactionID string             `json:"transaction_id"`
	Amount        float64            `json:"amount"`
	Description   string             `json:"description"`
	Date          time.Time          `json:"date"`
	Status        MatchStatus        `json:"status"`
	Match         *SubscriptionMatch `json:"match,omitempty"`
}

// Subscription is a known recurring charge against which statement lines are
// reconciled.
type Subscription struct {
	SubscriptionID string  `json:"subscription_id"`
	Platform       string  `json:"platform"`
	ExpectedAmount float64 `json:"expected_amount"`
}

// SubscriptionMatch links a transaction to a subscription. Confidence 1.0
// denotes a manual confirmation; automatic matches always score below 1.0.
// A match is an immutable snapshot of a decision at a point in time: manual
// confirmation replaces it rather than editing it.
type SubscriptionMatch struct {
	MatchID        string    `json:"match_id"`
	TransactionID  string    `json:"transaction_id"`
	SubscriptionID string    `json:"subscription_id"`
	Platform       string    `json:"platform"`
	Confidence     float64   `json:"confidence"`
	Reason         string    `json:"reason"`
	MatchedAt      time.Time `json:"matched_at"`
}

// IsManual reports whether the match came from a human confirmation.
func (m *SubscriptionMatch) IsManual() bool {
	return m.Confidence == 1.0
}

// ManualMatchReason renders the fixed reason string recorded on manual
// confirmations.
func ManualMatchReason(platform string) string {
	return fmt.Sprintf("Manually matched with %s", platform)
}

// ReconciliationSummary aggregates the outcome of reconciling one statement.
type ReconciliationSummary struct {
	ReconciliationID string     `json:"reconciliation_id"`
	Matched          int        `json:"matched"`
	Unmatched        int        `json:"unmatched"`
	StartedAt        time.Time  `json:"started_at"`
	CompletedAt      *time.Time `json:"completed_at,omitempty"`
}
