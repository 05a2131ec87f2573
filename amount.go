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
	"math"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

// currencyMarkers are stripped from a token before attempting to parse it as
// a monetary amount. Longer markers come first so "rs." is removed before
// "rs" gets a chance to leave the dot behind.
var currencyMarkers = []string{"rs.", "rs", "inr", "₹", "$", ","}

// parseAmountToken attempts to read a single whitespace token as a positive
// monetary amount. Zero, negative, and non-numeric tokens are rejected; a
// missing amount is a hard parse failure upstream, never a zero-amount record.
func parseAmountToken(token string) (float64, bool) {
	cleaned := strings.ToLower(strings.TrimSpace(token))
	for _, marker := range currencyMarkers {
		cleaned = strings.ReplaceAll(cleaned, marker, "")
	}
	if cleaned == "" {
		return 0, false
	}
	amount, err := strconv.ParseFloat(cleaned, 64)
	if err != nil || math.IsNaN(amount) || math.IsInf(amount, 0) || amount <= 0 {
		return 0, false
	}
	return amount, true
}

// convertINRToUSD applies the fixed configured exchange rate, rounded to two
// decimal places.
func convertINRToUSD(amountINR, inrPerUSD float64) float64 {
	usd := decimal.NewFromFloat(amountINR).Div(decimal.NewFromFloat(inrPerUSD))
	return usd.Round(2).InexactFloat64()
}
