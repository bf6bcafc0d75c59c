package activity

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cleared-dev/elmledger/internal/model"
)

var testTime = time.Date(2025, 4, 1, 9, 15, 0, 0, time.UTC)

func testEntry() Entry {
	return Entry{
		Timestamp: testTime,
		RunID:     "7d0c3f1e-3b4a-4f65-9a51-0c4e7b9a2d11",
		Action:    ActionRename,
		Slot:      model.SlotLLCBank,
		Details:   `name "Operating"`,
	}
}

func TestAppend_NewFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "data", FileName)
	require.NoError(t, Append(path, testEntry()))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(data), Header+"\n"))

	entries, err := Read(path)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	want := testEntry()
	assert.True(t, want.Timestamp.Equal(entries[0].Timestamp))
	assert.Equal(t, want.RunID, entries[0].RunID)
	assert.Equal(t, want.Slot, entries[0].Slot)
	assert.Equal(t, want.Details, entries[0].Details)
}

func TestAppend_ExistingFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), FileName)
	require.NoError(t, Append(path, testEntry()))

	refresh := testEntry()
	refresh.Action = ActionRefresh
	refresh.Slot = ""
	refresh.Details = "9 accounts, 1 live"
	require.NoError(t, Append(path, refresh))

	entries, err := Read(path)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, ActionRename, entries[0].Action)
	assert.Equal(t, ActionRefresh, entries[1].Action)
	assert.Empty(t, entries[1].Slot)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, 1, strings.Count(string(data), Header), "header written once")
}

func TestRead_NotFound(t *testing.T) {
	entries, err := Read(filepath.Join(t.TempDir(), FileName))
	require.NoError(t, err)
	assert.Nil(t, entries)
}

func TestRead_HeaderOnly(t *testing.T) {
	path := filepath.Join(t.TempDir(), FileName)
	require.NoError(t, os.WriteFile(path, []byte(Header+"\n"), 0o644))

	entries, err := Read(path)
	require.NoError(t, err)
	assert.Nil(t, entries)
}

func TestUnmarshalEntry_Errors(t *testing.T) {
	_, err := UnmarshalEntry([]string{"one", "two"})
	assert.ErrorContains(t, err, "expected 5 fields")

	row := MarshalEntry(testEntry())
	row[colTimestamp] = "yesterday"
	_, err = UnmarshalEntry(row)
	assert.ErrorContains(t, err, "parsing timestamp")

	row = MarshalEntry(testEntry())
	row[colSlot] = "llcCredit"
	_, err = UnmarshalEntry(row)
	assert.Error(t, err)
}

func TestMarshalEntry_Timestamp(t *testing.T) {
	row := MarshalEntry(testEntry())
	assert.Equal(t, "2025-04-01T09:15:00Z", row[colTimestamp])
}

func TestNewEntry(t *testing.T) {
	e := NewEntry(ActionTerms, model.SlotMemberLoan, "principal 15000")
	_, err := uuid.Parse(e.RunID)
	assert.NoError(t, err)
	assert.Equal(t, time.UTC, e.Timestamp.Location())
	assert.WithinDuration(t, time.Now(), e.Timestamp, time.Minute)
}
