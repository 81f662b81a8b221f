package domain

import "time"

// CurrencyRate is one protected market data record. Change24h is the
// percentage move of Rate against OpenPrice.
type CurrencyRate struct {
	Symbol      string
	Rate        float64
	OpenPrice   float64
	Change24h   float64
	LastUpdated time.Time
}
