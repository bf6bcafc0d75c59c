// Package activity keeps an append-only CSV record of changes made to the
// saved accounts.
package activity

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/cleared-dev/elmledger/internal/model"
)

// Actions recorded by the CLI.
const (
	ActionRefresh = "refresh"
	ActionRename  = "rename"
	ActionTerms   = "terms"
)

// FileName is the log file kept next to the store.
const FileName = "activity.csv"

// Header is the CSV header of the log file.
const Header = "timestamp,run_id,action,slot,details"

const (
	numFields    = 5
	colTimestamp = 0
	colRunID     = 1
	colAction    = 2
	colSlot      = 3
	colDetails   = 4
)

// Entry is one row of the log. Slot is empty for actions that touch every
// account.
type Entry struct {
	Timestamp time.Time
	RunID     string
	Action    string
	Slot      model.Slot
	Details   string
}

// NewEntry stamps an entry with the current time and a fresh run id.
func NewEntry(action string, slot model.Slot, details string) Entry {
	return Entry{
		Timestamp: time.Now().UTC(),
		RunID:     uuid.NewString(),
		Action:    action,
		Slot:      slot,
		Details:   details,
	}
}

// MarshalEntry converts an Entry to a CSV row.
func MarshalEntry(e Entry) []string {
	row := make([]string, numFields)
	row[colTimestamp] = e.Timestamp.Format(time.RFC3339)
	row[colRunID] = e.RunID
	row[colAction] = e.Action
	row[colSlot] = string(e.Slot)
	row[colDetails] = e.Details
	return row
}

// UnmarshalEntry converts a CSV row to an Entry.
func UnmarshalEntry(record []string) (Entry, error) {
	if len(record) != numFields {
		return Entry{}, fmt.Errorf("expected %d fields, got %d", numFields, len(record))
	}

	ts, err := time.Parse(time.RFC3339, record[colTimestamp])
	if err != nil {
		return Entry{}, fmt.Errorf("parsing timestamp %q: %w", record[colTimestamp], err)
	}

	var slot model.Slot
	if record[colSlot] != "" {
		slot, err = model.ParseSlot(record[colSlot])
		if err != nil {
			return Entry{}, err
		}
	}

	return Entry{
		Timestamp: ts,
		RunID:     record[colRunID],
		Action:    record[colAction],
		Slot:      slot,
		Details:   record[colDetails],
	}, nil
}

// Append writes entries to path, creating the file and header if needed.
func Append(path string, entries ...Entry) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating log dir: %w", err)
	}

	needsHeader := false
	if _, err := os.Stat(path); errors.Is(err, fs.ErrNotExist) {
		needsHeader = true
	}

	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("opening activity log: %w", err)
	}
	defer f.Close()

	cw := csv.NewWriter(f)
	if needsHeader {
		if err := cw.Write(strings.Split(Header, ",")); err != nil {
			return fmt.Errorf("writing header: %w", err)
		}
	}
	for i, e := range entries {
		if err := cw.Write(MarshalEntry(e)); err != nil {
			return fmt.Errorf("writing entry %d: %w", i, err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// Read returns every entry in path, oldest first. A missing file is empty.
func Read(path string) ([]Entry, error) {
	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("opening activity log: %w", err)
	}
	defer f.Close()

	return readEntries(f)
}

func readEntries(r io.Reader) ([]Entry, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = numFields

	records, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("reading activity log: %w", err)
	}
	if len(records) <= 1 {
		return nil, nil
	}

	entries := make([]Entry, 0, len(records)-1)
	for i, rec := range records[1:] {
		e, err := UnmarshalEntry(rec)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i+2, err)
		}
		entries = append(entries, e)
	}
	return entries, nil
}
