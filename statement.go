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
	"bytes"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/opsdeck/reckon/model"
)

// ParseStatement reads an uploaded bank statement, detects CSV or JSON from
// the content, and returns an upload ID plus the transactions ready for
// reconciliation. Every transaction starts unmatched.
func ParseStatement(reader io.Reader) (string, []*model.BankTransaction, error) {
	uploadID := model.GenerateUUIDWithSuffix("stmt")

	var buf bytes.Buffer
	if _, err := io.Copy(&buf, reader); err != nil {
		return "", nil, fmt.Errorf("error reading statement: %w", err)
	}

	fileType, err := detectFileType(buf.Bytes())
	if err != nil {
		return "", nil, err
	}

	var txns []*model.BankTransaction
	switch fileType {
	case "json":
		txns, err = parseJSONStatement(&buf)
	case "csv":
		txns, err = parseCSVStatement(&buf)
	}
	if err != nil {
		return "", nil, err
	}
	return uploadID, txns, nil
}

// detectFileType sniffs the statement format. JSON is checked first: a JSON
// array's first line usually contains commas too, so the CSV heuristic alone
// would misfire on it.
func detectFileType(data []byte) (string, error) {
	if looksLikeJSON(data) {
		return "json", nil
	}
	if looksLikeCSV(data) {
		return "csv", nil
	}
	return "", fmt.Errorf("unable to detect file type")
}

func looksLikeCSV(data []byte) bool {
	// Simple heuristic: check if the first line contains commas
	firstLine := bytes.SplitN(data, []byte("\n"), 2)[0]
	return bytes.Count(firstLine, []byte(",")) > 0
}

func looksLikeJSON(data []byte) bool {
	return json.Valid(data)
}

// statementEntry is the wire shape of one statement line in a JSON upload.
type statementEntry struct {
	ID          string  `json:"id"`
	Amount      float64 `json:"amount"`
	Description string  `json:"description"`
	Date        string  `json:"date"`
}

func (e statementEntry) toTransaction() *model.BankTransaction {
	id := e.ID
	if id == "" {
		id = model.GenerateUUIDWithSuffix("txn")
	}
	return &model.BankTransaction{
		TransactionID: id,
		Amount:        e.Amount,
		Description:   e.Description,
		Date:          parseStatementDate(e.Date),
		Status:        model.MatchStatusUnmatched,
	}
}

func parseJSONStatement(reader io.Reader) ([]*model.BankTransaction, error) {
	var entries []statementEntry
	if err := json.NewDecoder(reader).Decode(&entries); err != nil {
		return nil, fmt.Errorf("error parsing JSON statement: %w", err)
	}
	txns := make([]*model.BankTransaction, len(entries))
	for i, entry := range entries {
		txns[i] = entry.toTransaction()
	}
	return txns, nil
}

// parseCSVStatement expects a header row followed by date,description,amount
// records. An unparseable amount fails the whole upload: silently coercing a
// statement line to zero would corrupt reconciliation.
func parseCSVStatement(reader io.Reader) ([]*model.BankTransaction, error) {
	records, err := csv.NewReader(reader).ReadAll()
	if err != nil {
		return nil, fmt.Errorf("error parsing CSV statement: %w", err)
	}
	if len(records) < 2 {
		return nil, fmt.Errorf("CSV statement has no data rows")
	}

	txns := make([]*model.BankTransaction, 0, len(records)-1)
	for i, record := range records[1:] {
		if len(record) < 3 {
			return nil, fmt.Errorf("CSV row %d: expected date,description,amount", i+2)
		}
		amount, err := strconv.ParseFloat(record[2], 64)
		if err != nil {
			return nil, fmt.Errorf("CSV row %d: bad amount %q: %w", i+2, record[2], err)
		}
		txns = append(txns, &model.BankTransaction{
			TransactionID: model.GenerateUUIDWithSuffix("txn"),
			Amount:        amount,
			Description:   record[1],
			Date:          parseStatementDate(record[0]),
			Status:        model.MatchStatusUnmatched,
		})
	}
	return txns, nil
}

// parseStatementDate is lenient: the matcher does not use dates, so an
// unreadable one becomes the zero time instead of failing the upload.
func parseStatementDate(s string) time.Time {
	for _, layout := range []string{"2006-01-02", time.RFC3339, "02/01/2006"} {
		if t, err := time.Parse(layout, s); err == nil {
			return t
		}
	}
	return time.Time{}
}
