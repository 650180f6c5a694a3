package entities

import "github.com/shopspring/decimal"

// ExchangeRateRecord is one bank's quoted rates for one currency at fetch
// time. Optional fields are nil when the source rendered a placeholder.
type ExchangeRateRecord struct {
	Bank       string  `json:"bank"`
	Currency   string  `json:"currency"`
	CashBuy    *string `json:"cash_buy"`
	CashSell   *string `json:"cash_sell"`
	CardBuy    *string `json:"card_buy"`
	CardSell   *string `json:"card_sell"`
	UpdateTime *string `json:"update_time"`
}

// CashSellValue returns the numeric cash sell rate. ok is false when the
// value is absent or does not parse; such records sort after all others.
func (r ExchangeRateRecord) CashSellValue() (decimal.Decimal, bool) {
	if r.CashSell == nil {
		return decimal.Decimal{}, false
	}

	d, err := decimal.NewFromString(*r.CashSell)
	if err != nil {
		return decimal.Decimal{}, false
	}

	return d, true
}

// HasCashRates reports whether both cash quotes are present.
func (r ExchangeRateRecord) HasCashRates() bool {
	return r.CashBuy != nil && r.CashSell != nil
}

// HasCardRates reports whether both card quotes are present.
func (r ExchangeRateRecord) HasCardRates() bool {
	return r.CardBuy != nil && r.CardSell != nil
}
