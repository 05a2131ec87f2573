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
	"strings"
	"testing"
	"time"

	"github.com/brianvoe/gofakeit/v6"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/opsdeck/reckon/model"
)

func testSubscriptions() []model.Subscription {
	return []model.Subscription{
		{SubscriptionID: "sub_netflix", Platform: "Netflix", ExpectedAmount: 649},
		{SubscriptionID: "sub_spotify", Platform: "Spotify", ExpectedAmount: 119},
		{SubscriptionID: "sub_aws", Platform: "Amazon Web Services", ExpectedAmount: 4200},
	}
}

func unmatchedTxn(amount float64, description string) *model.BankTransaction {
	return &model.BankTransaction{
		TransactionID: model.GenerateUUIDWithSuffix("txn"),
		Amount:        amount,
		Description:   description,
		Date:          time.Now(),
		Status:        model.MatchStatusUnmatched,
	}
}

func TestMatchTransactionExactAmountAndDescription(t *testing.T) {
	r := newTestReckon(t)

	txn := unmatchedTxn(649, "NETFLIX.COM AMSTERDAM")
	match := r.MatchTransaction(txn, testSubscriptions())

	require.NotNil(t, match)
	assert.Equal(t, "sub_netflix", match.SubscriptionID)
	assert.Equal(t, model.MatchStatusAutoMatched, txn.Status)
	assert.Equal(t, match, txn.Match)
	assert.Less(t, match.Confidence, 1.0, "automatic matches must stay below manual confidence")
	assert.GreaterOrEqual(t, match.Confidence, 0.9)
	assert.Contains(t, match.Reason, "Netflix")
	assert.False(t, match.IsManual())
}

func TestMatchTransactionWithinRelativeTolerance(t *testing.T) {
	r := newTestReckon(t)

	// 654 is 0.77% off the expected 649: inside the 1% band.
	txn := unmatchedTxn(654, "NETFLIX SUBSCRIPTION")
	match := r.MatchTransaction(txn, testSubscriptions())

	require.NotNil(t, match)
	assert.Equal(t, "sub_netflix", match.SubscriptionID)
	assert.Contains(t, match.Reason, "matches")
}

func TestMatchTransactionAmountOnly(t *testing.T) {
	r := newTestReckon(t)

	txn := unmatchedTxn(119, "POS 448812 CHENNAI")
	match := r.MatchTransaction(txn, testSubscriptions())

	require.NotNil(t, match)
	assert.Equal(t, "sub_spotify", match.SubscriptionID)
}

func TestMatchTransactionDescriptionAloneIsNotEnough(t *testing.T) {
	r := newTestReckon(t)

	// Perfect description, amount nowhere near: stays unmatched for review.
	txn := unmatchedTxn(200, "Netflix")
	match := r.MatchTransaction(txn, testSubscriptions())

	assert.Nil(t, match)
	assert.Equal(t, model.MatchStatusUnmatched, txn.Status)
	assert.Nil(t, txn.Match)
}

func TestMatchTransactionNegativeStatementAmount(t *testing.T) {
	r := newTestReckon(t)

	// Statement debits often arrive signed.
	txn := unmatchedTxn(-649, "NETFLIX.COM")
	match := r.MatchTransaction(txn, testSubscriptions())

	require.NotNil(t, match)
	assert.Equal(t, "sub_netflix", match.SubscriptionID)
}

func TestMatchTransactionPicksBestCandidate(t *testing.T) {
	r := newTestReckon(t)

	subs := []model.Subscription{
		{SubscriptionID: "sub_a", Platform: "Acme Cloud", ExpectedAmount: 649},
		{SubscriptionID: "sub_b", Platform: "Netflix", ExpectedAmount: 649},
	}
	txn := unmatchedTxn(649, "NETFLIX.COM AMSTERDAM")
	match := r.MatchTransaction(txn, subs)

	require.NotNil(t, match)
	assert.Equal(t, "sub_b", match.SubscriptionID)
}

func TestConfirmMatchOverridesAutomaticMatch(t *testing.T) {
	r := newTestReckon(t)

	subs := testSubscriptions()
	txn := unmatchedTxn(649, "NETFLIX.COM")
	auto := r.MatchTransaction(txn, subs)
	require.NotNil(t, auto)

	confirmed, err := r.ConfirmMatch(txn, subs[0])
	require.NoError(t, err)

	assert.Equal(t, 1.0, confirmed.Confidence)
	assert.True(t, confirmed.IsManual())
	assert.Equal(t, "Manually matched with Netflix", confirmed.Reason)
	assert.True(t, strings.HasPrefix(confirmed.Reason, "Manually matched with"))
	assert.Equal(t, model.MatchStatusConfirmed, txn.Status)
	assert.Equal(t, confirmed, txn.Match)
	assert.NotEqual(t, auto.MatchID, confirmed.MatchID, "confirmation replaces the snapshot, it does not edit it")
}

func TestConfirmMatchOnUnmatchedTransaction(t *testing.T) {
	r := newTestReckon(t)

	txn := unmatchedTxn(4200, "AWS EMEA")
	confirmed, err := r.ConfirmMatch(txn, testSubscriptions()[2])
	require.NoError(t, err)

	assert.Equal(t, 1.0, confirmed.Confidence)
	assert.Equal(t, model.MatchStatusConfirmed, txn.Status)
}

func TestConfirmMatchRejectsTerminalStates(t *testing.T) {
	r := newTestReckon(t)
	subs := testSubscriptions()

	ignored := unmatchedTxn(100, "whatever")
	require.NoError(t, r.IgnoreTransaction(ignored))
	_, err := r.ConfirmMatch(ignored, subs[0])
	assert.Error(t, err)

	confirmed := unmatchedTxn(649, "NETFLIX.COM")
	_, err = r.ConfirmMatch(confirmed, subs[0])
	require.NoError(t, err)
	_, err = r.ConfirmMatch(confirmed, subs[1])
	assert.Error(t, err)
}

func TestIgnoreTransaction(t *testing.T) {
	r := newTestReckon(t)

	txn := unmatchedTxn(75, "ATM FEE")
	require.NoError(t, r.IgnoreTransaction(txn))
	assert.Equal(t, model.MatchStatusIgnored, txn.Status)

	// Terminal: cannot ignore twice, cannot auto-match afterwards.
	assert.Error(t, r.IgnoreTransaction(txn))
}

func TestIgnoreRejectsAutoMatched(t *testing.T) {
	r := newTestReckon(t)

	txn := unmatchedTxn(649, "NETFLIX.COM")
	require.NotNil(t, r.MatchTransaction(txn, testSubscriptions()))
	assert.Error(t, r.IgnoreTransaction(txn))
}

func TestReconcileTransactions(t *testing.T) {
	r := newTestReckon(t)

	txns := []*model.BankTransaction{
		unmatchedTxn(649, "NETFLIX.COM AMSTERDAM"),
		unmatchedTxn(119, "SPOTIFY AB STOCKHOLM"),
		unmatchedTxn(838, "SALARY ADVANCE"),
	}
	summary := r.ReconcileTransactions(txns, testSubscriptions())

	assert.Equal(t, 2, summary.Matched)
	assert.Equal(t, 1, summary.Unmatched)
	assert.True(t, strings.HasPrefix(summary.ReconciliationID, "recon_"))
	require.NotNil(t, summary.CompletedAt)

	assert.Equal(t, model.MatchStatusAutoMatched, txns[0].Status)
	assert.Equal(t, model.MatchStatusAutoMatched, txns[1].Status)
	assert.Equal(t, model.MatchStatusUnmatched, txns[2].Status)
}

func TestReconcileTransactionsSkipsProcessed(t *testing.T) {
	r := newTestReckon(t)
	subs := testSubscriptions()

	txn := unmatchedTxn(649, "NETFLIX.COM")
	require.NoError(t, r.IgnoreTransaction(txn))

	summary := r.ReconcileTransactions([]*model.BankTransaction{txn}, subs)
	assert.Equal(t, 0, summary.Matched)
	assert.Equal(t, 0, summary.Unmatched)
	assert.Equal(t, model.MatchStatusIgnored, txn.Status)
}

func TestReconcileTransactionsBulk(t *testing.T) {
	r := newTestReckon(t)
	gofakeit.Seed(7)

	subs := testSubscriptions()
	var txns []*model.BankTransaction
	for i := 0; i < 50; i++ {
		txns = append(txns, unmatchedTxn(
			gofakeit.Price(10, 10000),
			gofakeit.Company(),
		))
	}

	summary := r.ReconcileTransactions(txns, subs)
	assert.Equal(t, len(txns), summary.Matched+summary.Unmatched)

	for _, txn := range txns {
		switch txn.Status {
		case model.MatchStatusAutoMatched:
			require.NotNil(t, txn.Match)
			assert.Less(t, txn.Match.Confidence, 1.0)
			assert.GreaterOrEqual(t, txn.Match.Confidence, 0.6)
		case model.MatchStatusUnmatched:
			assert.Nil(t, txn.Match)
		default:
			t.Fatalf("unexpected status %s", txn.Status)
		}
	}
}

func TestDescriptionSimilarity(t *testing.T) {
	assert.Equal(t, 1.0, descriptionSimilarity("NETFLIX.COM AMSTERDAM", "Netflix"))
	assert.Equal(t, 1.0, descriptionSimilarity("spotify", "Spotify AB"))
	assert.Equal(t, 0.0, descriptionSimilarity("", "Netflix"))
	assert.Greater(t, descriptionSimilarity("netflx", "netflix"), 0.7)
	assert.Less(t, descriptionSimilarity("SALARY ADVANCE", "Netflix"), 0.4)
}
