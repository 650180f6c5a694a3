package export

import (
	"encoding/csv"
	"encoding/json"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/pkg/errors"

	"bankrates/internal/entities"
)

// Store writes best-effort timestamped rate snapshots to a directory.
// Export failures never affect the fetch or notification paths.
type Store struct {
	dir string
	now func() time.Time
}

func NewStore(dir string) *Store {
	return &Store{dir: dir, now: time.Now}
}

// SaveCSV writes records as a CSV snapshot and returns the file path.
// An empty record set is skipped with a warning.
func (s *Store) SaveCSV(records []entities.ExchangeRateRecord, currency string) (string, error) {
	const op = "export.SaveCSV"

	if len(records) == 0 {
		slog.Warn("no data to export", "op", op, "currency", currency)
		return "", nil
	}

	path := s.snapshotPath(currency, "csv")

	f, err := s.create(path)
	if err != nil {
		return "", errors.Wrap(err, op)
	}
	defer f.Close()

	w := csv.NewWriter(f)

	header := []string{"bank", "currency", "cash_buy", "cash_sell", "card_buy", "card_sell", "update_time"}
	if err := w.Write(header); err != nil {
		return "", errors.Wrap(err, op)
	}

	for _, rec := range records {
		row := []string{
			rec.Bank,
			rec.Currency,
			deref(rec.CashBuy),
			deref(rec.CashSell),
			deref(rec.CardBuy),
			deref(rec.CardSell),
			deref(rec.UpdateTime),
		}
		if err := w.Write(row); err != nil {
			return "", errors.Wrap(err, op)
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return "", errors.Wrap(err, op)
	}

	slog.Info("exported rates snapshot", "path", path, "banks", len(records))

	return path, nil
}

// SaveJSON writes records as a JSON snapshot and returns the file path.
func (s *Store) SaveJSON(records []entities.ExchangeRateRecord, currency string) (string, error) {
	const op = "export.SaveJSON"

	if len(records) == 0 {
		slog.Warn("no data to export", "op", op, "currency", currency)
		return "", nil
	}

	data, err := json.MarshalIndent(records, "", "    ")
	if err != nil {
		return "", errors.Wrap(err, op)
	}

	path := s.snapshotPath(currency, "json")

	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return "", errors.Wrap(err, op)
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", errors.Wrap(err, op)
	}

	slog.Info("exported rates snapshot", "path", path, "banks", len(records))

	return path, nil
}

func (s *Store) snapshotPath(currency, ext string) string {
	name := s.now().Format("20060102_150405") + "_" + currency + "_exchange_rates." + ext
	return filepath.Join(s.dir, name)
}

func (s *Store) create(path string) (*os.File, error) {
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return nil, err
	}
	return os.Create(path)
}

func deref(v *string) string {
	if v == nil {
		return ""
	}
	return *v
}
