package models

// Bank holds one row as extracted from the source table. The market cap is
// kept verbatim, footnote markers and all, until the transform stage.
type Bank struct {
	Name         string
	RawMarketCap string
}

// ConvertedBank is the widened record ready for the CSV and database sinks.
// USD carries the cleaned numeric metric; the other three are derived from
// the exchange-rate table.
type ConvertedBank struct {
	Name string
	USD  float64
	GBP  float64
	EUR  float64
	INR  float64
}

// ExchangeRates maps a currency code (e.g. "GBP") to its USD multiplier.
// Loaded once per run from the reference file and never mutated afterwards.
type ExchangeRates map[string]float64

// SummaryReport holds the post-load summary over the GBP column.
type SummaryReport struct {
	Count   int
	MeanGBP float64
	MinGBP  float64
	MaxGBP  float64
}
