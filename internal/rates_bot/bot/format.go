package bot

import (
	"fmt"
	"strings"
	"time"

	"bankrates/internal/entities"
)

// maxBanksPerMessage caps the message at the best-priced banks so it
// stays within messenger length limits.
const maxBanksPerMessage = 15

// FormatExchangeRates renders records as an HTML notification message.
func FormatExchangeRates(records []entities.ExchangeRateRecord, currency string, now time.Time) string {
	currency = strings.ToUpper(currency)

	if len(records) == 0 {
		return fmt.Sprintf("No exchange rate data available for %s", currency)
	}

	if len(records) > maxBanksPerMessage {
		records = records[:maxBanksPerMessage]
	}

	var b strings.Builder

	fmt.Fprintf(&b, "🏦 <b>Exchange Rates for %s</b>\n\n", currency)
	fmt.Fprintf(&b, "<i>Last updated: %s</i>\n\n", now.Format("2006-01-02 15:04"))

	for _, rec := range records {
		fmt.Fprintf(&b, "<b>%s</b>\n", rec.Bank)

		if rec.HasCashRates() {
			fmt.Fprintf(&b, "💵 Cash: Buy %s / Sell %s\n", *rec.CashBuy, *rec.CashSell)
		}

		if rec.HasCardRates() {
			fmt.Fprintf(&b, "💳 Card: Buy %s / Sell %s\n", *rec.CardBuy, *rec.CardSell)
		}

		updated := "N/A"
		if rec.UpdateTime != nil {
			updated = *rec.UpdateTime
		}
		fmt.Fprintf(&b, "⏱ Updated: %s\n\n", updated)
	}

	b.WriteString("<i>Data from minfin.com.ua</i>")

	return b.String()
}
