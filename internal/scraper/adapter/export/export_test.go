package export

import (
	"encoding/csv"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bankrates/internal/entities"
)

func sp(s string) *string { return &s }

func testRecords() []entities.ExchangeRateRecord {
	return []entities.ExchangeRateRecord{
		{Bank: "BankA", Currency: "USD", CashBuy: sp("27.5"), CashSell: sp("27.9"), UpdateTime: sp("12:00")},
		{Bank: "BankB", Currency: "USD", CardBuy: sp("27.2"), CardSell: sp("28.0")},
	}
}

func newTestStore(t *testing.T) *Store {
	t.Helper()

	s := NewStore(t.TempDir())
	s.now = func() time.Time {
		return time.Date(2025, 1, 5, 9, 30, 0, 0, time.UTC)
	}

	return s
}

func TestStore_SaveCSV(t *testing.T) {
	s := newTestStore(t)

	path, err := s.SaveCSV(testRecords(), "usd")
	require.NoError(t, err)

	assert.Equal(t, "20250105_093000_usd_exchange_rates.csv", filepath.Base(path))

	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()

	rows, err := csv.NewReader(f).ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, 3)

	assert.Equal(t, []string{"bank", "currency", "cash_buy", "cash_sell", "card_buy", "card_sell", "update_time"}, rows[0])
	assert.Equal(t, []string{"BankA", "USD", "27.5", "27.9", "", "", "12:00"}, rows[1])
	assert.Equal(t, []string{"BankB", "USD", "", "", "27.2", "28.0", ""}, rows[2])
}

func TestStore_SaveJSON(t *testing.T) {
	s := newTestStore(t)

	records := testRecords()

	path, err := s.SaveJSON(records, "usd")
	require.NoError(t, err)

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	var got []entities.ExchangeRateRecord
	require.NoError(t, json.Unmarshal(data, &got))

	assert.Equal(t, records, got)
}

func TestStore_SkipsEmptyData(t *testing.T) {
	dir := t.TempDir()
	s := NewStore(dir)

	path, err := s.SaveCSV(nil, "usd")
	require.NoError(t, err)
	assert.Empty(t, path)

	path, err = s.SaveJSON(nil, "usd")
	require.NoError(t, err)
	assert.Empty(t, path)

	files, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Empty(t, files)
}
