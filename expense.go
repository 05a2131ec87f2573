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
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/opsdeck/reckon/model"
)

// exampleMessages are the corrective examples shown on every structural
// parse failure.
func exampleMessages() []string {
	return []string{"tea 50", "lunch 200 Dhana", "petrol 500 Veera"}
}

// ParseTextExpense converts one line of free text into a ParsedExpense using
// the "[purpose] [amount] [optional person]" convention.
//
// The first token (scanning left to right) that reads as a positive monetary
// amount is the amount; everything before it is the purpose, everything after
// it is the person. Structural problems (too short, too long, no amount)
// return a *model.ParseError. Soft ambiguities are resolved by defaults,
// recorded in ParseErrors and reflected as degraded confidence.
func (r *Reckon) ParseTextExpense(message string) (*model.ParsedExpense, error) {
	return r.parseTextExpense(message, "")
}

// ParseTextExpenseWithSender is the context-aware variant: when the person
// would default to the office bucket and the sender resolves against the
// roster, the sender becomes the responsible person and the related
// ambiguities are dropped, restoring confidence.
func (r *Reckon) ParseTextExpenseWithSender(message, sender string) (*model.ParsedExpense, error) {
	return r.parseTextExpense(message, sender)
}

func (r *Reckon) parseTextExpense(message, sender string) (*model.ParsedExpense, error) {
	tokens := strings.Fields(message)
	if len(tokens) < 2 {
		return nil, &model.ParseError{
			Code:        model.ErrMessageTooShort,
			Message:     `message too short: expected "[purpose] [amount] [person]"`,
			Suggestions: exampleMessages(),
		}
	}
	if len(tokens) > r.config.Parser.MaxMessageTokens {
		return nil, &model.ParseError{
			Code:        model.ErrMessageTooLong,
			Message:     fmt.Sprintf("message too long: expense submissions have at most %d words", r.config.Parser.MaxMessageTokens),
			Suggestions: exampleMessages(),
		}
	}

	amountIdx := -1
	var amount float64
	for i, token := range tokens {
		if value, ok := parseAmountToken(token); ok {
			amountIdx = i
			amount = value
			break
		}
	}
	if amountIdx == -1 {
		return nil, &model.ParseError{
			Code:        model.ErrNoAmountFound,
			Message:     "no amount found in message",
			Suggestions: exampleMessages(),
		}
	}

	var parseErrors []string

	purpose := titleCase(strings.Join(tokens[:amountIdx], " "))
	if purpose == "" {
		purpose = r.config.Parser.DefaultPurpose
		parseErrors = append(parseErrors, fmt.Sprintf("no purpose given, recorded as %q", purpose))
	}

	person := r.config.Parser.DefaultPerson
	var personErrors []string
	personTokens := tokens[amountIdx+1:]
	if len(personTokens) > 0 {
		raw := strings.Join(personTokens, " ")
		if member, ok := r.NormalizeName(raw); ok {
			person = member
		} else {
			person = titleCase(raw)
			personErrors = append(personErrors, fmt.Sprintf("unrecognized name %q, kept as written", person))
		}
	} else {
		// Two distinct ambiguities: the message named nobody, and ownership
		// could not be established at all. Sender context below may clear both.
		personErrors = append(personErrors,
			fmt.Sprintf("no person mentioned, defaulting to %q", person),
			"expense owner could not be determined from message context",
		)
		if sender != "" {
			if member, ok := r.ResolveSender(sender); ok {
				person = member
				personErrors = nil
			}
		}
	}
	parseErrors = append(parseErrors, personErrors...)

	return &model.ParsedExpense{
		Purpose:           purpose,
		AmountINR:         amount,
		AmountUSD:         convertINRToUSD(amount, r.config.Parser.INRPerUSD),
		Category:          r.DetectCategory(purpose),
		PersonResponsible: person,
		ExpenseDate:       time.Now().Format("2006-01-02"),
		RawMessage:        message,
		Confidence:        model.ConfidenceForErrors(len(parseErrors)),
		ParseErrors:       parseErrors,
	}, nil
}

// IsExpenseMessage is a cheap pre-filter run before attempting a full parse:
// at least two tokens, at most the configured maximum, and something that
// looks numeric. It may admit messages the full parse later rejects (e.g. a
// malformed amount token); the converse never happens.
func (r *Reckon) IsExpenseMessage(message string) bool {
	tokens := strings.Fields(message)
	if len(tokens) < 2 || len(tokens) > r.config.Parser.MaxMessageTokens {
		return false
	}
	for _, token := range tokens {
		if strings.ContainsAny(token, "0123456789") {
			return true
		}
	}
	return false
}

// FormatExpenseConfirmation renders a recorded expense into the reply sent
// back over the originating chat channel, including the running pending
// balance owed by the responsible person. Presentation only.
func (r *Reckon) FormatExpenseConfirmation(expense *model.ParsedExpense, pendingINR float64) string {
	var b strings.Builder
	b.WriteString("✅ Expense recorded\n\n")
	fmt.Fprintf(&b, "📝 %s\n", expense.Purpose)
	fmt.Fprintf(&b, "💰 ₹%.2f ($%.2f)\n", expense.AmountINR, expense.AmountUSD)
	fmt.Fprintf(&b, "🏷️ %s\n", expense.Category)
	fmt.Fprintf(&b, "👤 %s\n", expense.PersonResponsible)
	fmt.Fprintf(&b, "📅 %s\n", expense.ExpenseDate)
	fmt.Fprintf(&b, "\n⏳ Pending for %s: ₹%.2f\n", expense.PersonResponsible, pendingINR)
	if expense.Confidence != model.ConfidenceHigh {
		b.WriteString("\n⚠️ Recorded with assumptions:\n")
		for _, note := range expense.ParseErrors {
			fmt.Fprintf(&b, "• %s\n", note)
		}
	}
	return b.String()
}

// FormatParseFailure renders a structural parse failure into a corrective
// reply with concrete examples. Never a stack trace or a bare error code.
func (r *Reckon) FormatParseFailure(err error) string {
	var b strings.Builder
	b.WriteString("❌ Couldn't read that as an expense.\n\n")
	var parseErr *model.ParseError
	if errors.As(err, &parseErr) {
		fmt.Fprintf(&b, "%s\n", parseErr.Message)
		if len(parseErr.Suggestions) > 0 {
			b.WriteString("\nTry one of:\n")
			for _, suggestion := range parseErr.Suggestions {
				fmt.Fprintf(&b, "• %s\n", suggestion)
			}
		}
	} else {
		b.WriteString("Something went wrong while recording the expense. Please try again.\n")
	}
	return b.String()
}
