package history

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/S-4-Sidra/heart-disease/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func entryAt(minute int, tier domain.Tier, p float64, sex domain.Sex) domain.HistoryEntry {
	return domain.HistoryEntry{
		Timestamp:   time.Date(2025, 3, 14, 9, minute, 0, 0, time.UTC),
		Tier:        tier,
		Probability: p,
		Age:         40 + minute,
		Sex:         sex,
	}
}

func TestLog_PreservesOrderAndLength(t *testing.T) {
	l := NewLog()
	for i := 0; i < 5; i++ {
		l.Append(entryAt(i, domain.TierLow, 0.1, domain.SexMale))
	}
	require.Equal(t, 5, l.Len())
	for i, e := range l.Entries() {
		assert.Equal(t, 40+i, e.Age)
	}
}

func TestLog_EntriesIsCopy(t *testing.T) {
	l := NewLog()
	l.Append(entryAt(0, domain.TierLow, 0.1, domain.SexMale))
	got := l.Entries()
	got[0].Age = 99
	assert.Equal(t, 40, l.Entries()[0].Age)
}

func TestRestore_CopiesInput(t *testing.T) {
	src := []domain.HistoryEntry{entryAt(1, domain.TierHigh, 0.7, domain.SexFemale)}
	l := Restore(src)
	src[0].Age = 1
	assert.Equal(t, 41, l.Entries()[0].Age)
}

func TestExportCSV(t *testing.T) {
	l := NewLog()
	l.Append(entryAt(5, domain.TierLow, 0.25, domain.SexMale))
	l.Append(entryAt(6, domain.TierHigh, 0.6789, domain.SexFemale))

	var buf bytes.Buffer
	require.NoError(t, l.ExportCSV(&buf))

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, "Date,Risk Level,Probability,Age,Sex", lines[0])
	assert.Equal(t, "2025-03-14 09:05,Low Risk,25.00%,45,Male", lines[1])
	assert.Equal(t, "2025-03-14 09:06,High Risk,67.89%,46,Female", lines[2])
}

func TestExportCSV_Empty(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, NewLog().ExportCSV(&buf))
	assert.Equal(t, "Date,Risk Level,Probability,Age,Sex\n", buf.String())
}

func TestExportXLSX(t *testing.T) {
	l := NewLog()
	l.Append(entryAt(5, domain.TierMedium, 0.45, domain.SexMale))

	data, err := l.ExportXLSX()
	require.NoError(t, err)

	f, err := excelize.OpenReader(bytes.NewReader(data))
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows(SheetName)
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, Header, rows[0])
	assert.Equal(t, []string{"2025-03-14 09:05", "Medium Risk", "45.00%", "45", "Male"}, rows[1])
}

func TestTrend(t *testing.T) {
	l := NewLog()
	l.Append(entryAt(1, domain.TierLow, 0.1, domain.SexMale))
	assert.Nil(t, l.Trend())

	l.Append(entryAt(2, domain.TierHigh, 0.9, domain.SexMale))
	l.Append(entryAt(3, domain.TierMedium, 0.5, domain.SexMale))
	trend := l.Trend()
	require.Len(t, trend, 3)
	assert.Equal(t, []int{1, 3, 2}, []int{trend[0].Level, trend[1].Level, trend[2].Level})
}

func TestFormatPercent(t *testing.T) {
	assert.Equal(t, "0.00%", FormatPercent(0))
	assert.Equal(t, "100.00%", FormatPercent(1))
	assert.Equal(t, "33.33%", FormatPercent(1.0/3))
}
