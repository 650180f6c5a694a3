package scraper

import (
	"log/slog"
	"sort"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/pkg/errors"

	"bankrates/internal/entities"
)

// The source page carries many tables; the bank rates table is recognized
// by one of these two markers, whichever table comes first in document order.
const (
	ratesTableID    = "smTable"
	ratesTableClass = "mfcur-table-sm-banks"
)

// Column positions are fixed by the source layout on purpose. Inferring
// them from header text risks silently misattributing fields when the
// page shifts, so a layout change degrades to dropped rows instead.
const (
	colBank       = 0
	colCashBuy    = 1
	colCashSell   = 3
	colCardBuy    = 4
	colCardSell   = 6
	colUpdateTime = 7

	minRowCells = 5
)

const placeholder = "-"

// findRatesTable returns the first table matching the known id or class
// marker, or nil when the page has none. A missing table is a normal
// outcome for unsupported city/currency pairs, not an error.
func findRatesTable(doc *goquery.Document) *goquery.Selection {
	var table *goquery.Selection

	doc.Find("table").EachWithBreak(func(_ int, sel *goquery.Selection) bool {
		if id, _ := sel.Attr("id"); id == ratesTableID {
			table = sel
			return false
		}
		if sel.HasClass(ratesTableClass) {
			table = sel
			return false
		}
		return true
	})

	return table
}

// extractRecords turns the located table's body rows into typed records,
// sorted ascending by numeric cash sell rate.
func extractRecords(table *goquery.Selection, currency string) []entities.ExchangeRateRecord {
	logTableHeader(table)

	var records []entities.ExchangeRateRecord

	table.Find("tbody tr").Each(func(i int, row *goquery.Selection) {
		cells := cellTexts(row)
		if len(cells) < minRowCells {
			return
		}

		rec, err := recordFromCells(cells, currency)
		if err != nil {
			slog.Error("dropping malformed rates row", "row", i, "error", err)
			return
		}

		records = append(records, rec)
	})

	sortRecords(records)

	return records
}

// logTableHeader reads the two header rows for the log only. Headers do
// not drive the column mapping.
func logTableHeader(table *goquery.Selection) {
	headRows := table.Find("thead tr")
	if headRows.Length() < 2 {
		slog.Warn("rates table header has unexpected shape", "rows", headRows.Length())
		return
	}

	header := cellTexts(headRows.Eq(0))
	subheader := cellTexts(headRows.Eq(1))
	slog.Debug("rates table header", "header", header, "subheader", subheader)

	if len(subheader) <= colUpdateTime {
		slog.Warn("rates table columns differ from the expected layout",
			"columns", len(subheader), "expected", colUpdateTime+1)
	}
}

func recordFromCells(cells []string, currency string) (entities.ExchangeRateRecord, error) {
	if cells[colBank] == "" {
		return entities.ExchangeRateRecord{}, errors.New("empty bank name")
	}

	return entities.ExchangeRateRecord{
		Bank:       cells[colBank],
		Currency:   strings.ToUpper(currency),
		CashBuy:    optCell(cells, colCashBuy),
		CashSell:   optCell(cells, colCashSell),
		CardBuy:    optCell(cells, colCardBuy),
		CardSell:   optCell(cells, colCardSell),
		UpdateTime: optCell(cells, colUpdateTime),
	}, nil
}

// optCell normalizes a placeholder or missing cell to absent.
func optCell(cells []string, idx int) *string {
	if idx >= len(cells) {
		return nil
	}

	v := cells[idx]
	if v == "" || v == placeholder {
		return nil
	}

	return &v
}

func cellTexts(row *goquery.Selection) []string {
	var cells []string
	row.Find("td, th").Each(func(_ int, cell *goquery.Selection) {
		cells = append(cells, strings.TrimSpace(cell.Text()))
	})
	return cells
}

// sortRecords orders records ascending by numeric cash sell rate. Records
// whose cash sell is absent or unparsable keep their relative order at
// the end of the list.
func sortRecords(records []entities.ExchangeRateRecord) {
	sort.SliceStable(records, func(i, j int) bool {
		a, aok := records[i].CashSellValue()
		b, bok := records[j].CashSellValue()

		if aok && bok {
			return a.LessThan(b)
		}

		return aok && !bok
	})
}
