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
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/texttheater/golang-levenshtein/levenshtein"

	"github.com/opsdeck/reckon/model"
)

// maxAutoConfidence caps automatic matches; 1.0 is reserved for manual
// confirmation so the two are distinguishable in storage.
const maxAutoConfidence = 0.99

// MatchTransaction scores the transaction against every candidate
// subscription and, when the best candidate clears the configured minimum
// confidence, attaches an automatic match and moves the transaction to
// auto_matched. It returns nil when the transaction stays unmatched and
// should be surfaced to a human reviewer.
func (r *Reckon) MatchTransaction(txn *model.BankTransaction, subs []model.Subscription) *model.SubscriptionMatch {
	var best *model.SubscriptionMatch
	for _, sub := range subs {
		confidence, reason := r.scoreCandidate(txn, sub)
		if best == nil || confidence > best.Confidence {
			best = &model.SubscriptionMatch{
				SubscriptionID: sub.SubscriptionID,
				Platform:       sub.Platform,
				Confidence:     confidence,
				Reason:         reason,
			}
		}
	}
	if best == nil || best.Confidence < *r.config.Matcher.MinConfidence {
		return nil
	}
	if best.Confidence > maxAutoConfidence {
		best.Confidence = maxAutoConfidence
	}
	best.MatchID = model.GenerateUUIDWithSuffix("match")
	best.TransactionID = txn.TransactionID
	best.MatchedAt = time.Now()
	txn.Match = best
	txn.Status = model.MatchStatusAutoMatched
	return best
}

// scoreCandidate combines amount proximity (dominant weight) with
// description similarity (secondary weight) into a 0..1 confidence plus a
// reason string recording both components.
func (r *Reckon) scoreCandidate(txn *model.BankTransaction, sub model.Subscription) (float64, string) {
	amountScore := r.amountProximity(txn.Amount, sub.ExpectedAmount)
	descScore := descriptionSimilarity(txn.Description, sub.Platform)
	confidence := *r.config.Matcher.AmountWeight*amountScore + *r.config.Matcher.DescriptionWeight*descScore

	var reason string
	if amountScore > 0 {
		reason = fmt.Sprintf("amount %.2f matches %s expected %.2f; description similarity %.2f",
			txn.Amount, sub.Platform, sub.ExpectedAmount, descScore)
	} else {
		reason = fmt.Sprintf("description similarity %.2f with %s; amount %.2f differs from expected %.2f",
			descScore, sub.Platform, txn.Amount, sub.ExpectedAmount)
	}
	return confidence, reason
}

// amountProximity returns 1 when the transaction amount falls within the
// configured absolute or relative tolerance of the expected recurring amount,
// 0 otherwise. Statement debits may carry a sign, so magnitudes are compared.
func (r *Reckon) amountProximity(amount, expected float64) float64 {
	diff := math.Abs(math.Abs(amount) - math.Abs(expected))
	if diff <= *r.config.Matcher.AmountTolerance {
		return 1
	}
	if expected != 0 && (diff/math.Abs(expected))*100 <= *r.config.Matcher.AmountTolerancePercent {
		return 1
	}
	return 0
}

// descriptionSimilarity scores how well a statement description resembles a
// subscription platform name: containment wins outright, otherwise the better
// of token overlap and Levenshtein similarity.
func descriptionSimilarity(description, platform string) float64 {
	desc := strings.ToLower(strings.TrimSpace(description))
	plat := strings.ToLower(strings.TrimSpace(platform))
	if desc == "" || plat == "" {
		return 0
	}
	if strings.Contains(desc, plat) || strings.Contains(plat, desc) {
		return 1
	}

	overlap := tokenOverlap(desc, plat)

	distance := levenshtein.DistanceForStrings([]rune(desc), []rune(plat), levenshtein.DefaultOptions)
	maxLength := float64(max(len(desc), len(plat)))
	levScore := 1 - float64(distance)/maxLength
	if levScore < 0 {
		levScore = 0
	}

	return math.Max(overlap, levScore)
}

// tokenOverlap is the Jaccard index over whitespace tokens.
func tokenOverlap(a, b string) float64 {
	aTokens := strings.Fields(a)
	bTokens := strings.Fields(b)
	if len(aTokens) == 0 || len(bTokens) == 0 {
		return 0
	}
	seen := make(map[string]bool, len(aTokens))
	for _, t := range aTokens {
		seen[t] = true
	}
	shared := 0
	for _, t := range bTokens {
		if seen[t] {
			shared++
		}
	}
	union := len(aTokens) + len(bTokens) - shared
	return float64(shared) / float64(union)
}

// ConfirmMatch records a human decision: confidence is exactly 1.0 and the
// reason is the fixed manual-match string, overwriting any prior automatic
// match. Only unmatched and auto-matched transactions can be confirmed.
func (r *Reckon) ConfirmMatch(txn *model.BankTransaction, sub model.Subscription) (*model.SubscriptionMatch, error) {
	if !txn.Status.CanTransitionTo(model.MatchStatusConfirmed) {
		return nil, fmt.Errorf("cannot confirm %s transaction %s", txn.Status, txn.TransactionID)
	}
	match := &model.SubscriptionMatch{
		MatchID:        model.GenerateUUIDWithSuffix("match"),
		TransactionID:  txn.TransactionID,
		SubscriptionID: sub.SubscriptionID,
		Platform:       sub.Platform,
		Confidence:     1.0,
		Reason:         model.ManualMatchReason(sub.Platform),
		MatchedAt:      time.Now(),
	}
	txn.Match = match
	txn.Status = model.MatchStatusConfirmed
	return match, nil
}

// IgnoreTransaction dismisses an unmatched transaction. Terminal within this
// component; reversal is an external administrative action.
func (r *Reckon) IgnoreTransaction(txn *model.BankTransaction) error {
	if !txn.Status.CanTransitionTo(model.MatchStatusIgnored) {
		return fmt.Errorf("cannot ignore %s transaction %s", txn.Status, txn.TransactionID)
	}
	txn.Status = model.MatchStatusIgnored
	txn.Match = nil
	return nil
}

// ReconcileTransactions runs the matcher over a statement sequentially. Each
// transaction's outcome is independent of the others; iteration order is
// whatever the caller chose. Already-processed transactions are left alone.
func (r *Reckon) ReconcileTransactions(txns []*model.BankTransaction, subs []model.Subscription) model.ReconciliationSummary {
	summary := model.ReconciliationSummary{
		ReconciliationID: model.GenerateUUIDWithSuffix("recon"),
		StartedAt:        time.Now(),
	}
	for _, txn := range txns {
		if txn.Status != model.MatchStatusUnmatched {
			continue
		}
		if match := r.MatchTransaction(txn, subs); match != nil {
			summary.Matched++
		} else {
			summary.Unmatched++
		}
	}
	completedAt := time.Now()
	summary.CompletedAt = &completedAt
	logrus.Infof("reconciliation %s completed. Matches: %d, Unmatched: %d",
		summary.ReconciliationID, summary.Matched, summary.Unmatched)
	return summary
}
