package accounts

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	"github.com/shopspring/decimal"

	"github.com/cleared-dev/elmledger/internal/model"
)

const (
	numFields   = 6
	colSlot     = 0
	colName     = 1
	colKind     = 2
	colBalance  = 3
	colTxnCount = 4
	colSubtitle = 5
)

// SummaryRow is one line of the account summary export.
type SummaryRow struct {
	Slot         model.Slot
	Name         string
	Kind         model.Kind
	Balance      decimal.NullDecimal
	Transactions int
	Subtitle     string
}

// Summarize builds a summary row from an entry.
func Summarize(e Entry) SummaryRow {
	return SummaryRow{
		Slot:         e.Slot,
		Name:         e.Account.Name,
		Kind:         e.Account.Kind,
		Balance:      e.Account.Balance,
		Transactions: len(e.Account.Transactions),
		Subtitle:     e.Account.Subtitle,
	}
}

// WriteSummary writes one CSV row per entry.
func WriteSummary(w io.Writer, entries []Entry) error {
	cw := csv.NewWriter(w)

	if err := cw.Write([]string{"slot", "name", "kind", "balance", "transactions", "subtitle"}); err != nil {
		return fmt.Errorf("writing header: %w", err)
	}

	for i, e := range entries {
		if err := cw.Write(MarshalRow(Summarize(e))); err != nil {
			return fmt.Errorf("writing row %d: %w", i+2, err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// ReadSummary reads rows written by WriteSummary.
func ReadSummary(r io.Reader) ([]SummaryRow, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = numFields

	records, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("reading summary CSV: %w", err)
	}

	if len(records) == 0 {
		return nil, nil
	}

	var rows []SummaryRow
	for i, rec := range records[1:] {
		row, err := UnmarshalRow(rec)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i+2, err)
		}
		rows = append(rows, row)
	}
	return rows, nil
}

// MarshalRow converts a SummaryRow to CSV fields. A null balance is empty.
func MarshalRow(row SummaryRow) []string {
	rec := make([]string, numFields)
	rec[colSlot] = string(row.Slot)
	rec[colName] = row.Name
	rec[colKind] = string(row.Kind)
	if row.Balance.Valid {
		rec[colBalance] = row.Balance.Decimal.StringFixed(2)
	}
	rec[colTxnCount] = strconv.Itoa(row.Transactions)
	rec[colSubtitle] = row.Subtitle
	return rec
}

// UnmarshalRow converts CSV fields to a SummaryRow.
func UnmarshalRow(record []string) (SummaryRow, error) {
	if len(record) != numFields {
		return SummaryRow{}, fmt.Errorf("expected %d fields, got %d", numFields, len(record))
	}

	slot, err := model.ParseSlot(record[colSlot])
	if err != nil {
		return SummaryRow{}, err
	}

	var bal decimal.NullDecimal
	if record[colBalance] != "" {
		v, err := decimal.NewFromString(record[colBalance])
		if err != nil {
			return SummaryRow{}, fmt.Errorf("parsing balance %q: %w", record[colBalance], err)
		}
		bal = decimal.NewNullDecimal(v)
	}

	count, err := strconv.Atoi(record[colTxnCount])
	if err != nil {
		return SummaryRow{}, fmt.Errorf("parsing transactions %q: %w", record[colTxnCount], err)
	}

	return SummaryRow{
		Slot:         slot,
		Name:         record[colName],
		Kind:         model.Kind(record[colKind]),
		Balance:      bal,
		Transactions: count,
		Subtitle:     record[colSubtitle],
	}, nil
}
