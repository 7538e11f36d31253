package services

import (
	"encoding/csv"
	"fmt"
	"math"
	"os"
	"strconv"
	"strings"

	"marketcap-etl/models"
	"marketcap-etl/utils"
)

var requiredCurrencies = []string{"GBP", "EUR", "INR"}

// Transformer widens extracted bank records with currency conversions.
type Transformer struct {
	logger *utils.Logger
}

// NewTransformer creates a Transformer with the given logger.
func NewTransformer(logger *utils.Logger) *Transformer {
	return &Transformer{logger: logger}
}

// LoadRates reads the exchange-rate reference CSV into a currency → rate
// map. The file must have a header row with Currency and Rate columns (any
// column order) and carry rows for GBP, EUR and INR.
func (t *Transformer) LoadRates(path string) (models.ExchangeRates, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("transform: open rates file: %w", err)
	}
	defer f.Close()

	records, err := csv.NewReader(f).ReadAll()
	if err != nil {
		return nil, fmt.Errorf("transform: read rates file %q: %w", path, err)
	}
	if len(records) < 2 {
		return nil, fmt.Errorf("transform: rates file %q has no data rows", path)
	}

	currencyCol, rateCol := -1, -1
	for i, name := range records[0] {
		switch strings.TrimSpace(name) {
		case "Currency":
			currencyCol = i
		case "Rate":
			rateCol = i
		}
	}
	if currencyCol < 0 || rateCol < 0 {
		return nil, fmt.Errorf("transform: rates file %q is missing Currency/Rate columns", path)
	}

	rates := make(models.ExchangeRates, len(records)-1)
	for _, rec := range records[1:] {
		code := strings.TrimSpace(rec[currencyCol])
		rate, err := strconv.ParseFloat(strings.TrimSpace(rec[rateCol]), 64)
		if err != nil {
			return nil, fmt.Errorf("transform: bad rate for %q: %w", code, err)
		}
		if rate <= 0 {
			return nil, fmt.Errorf("transform: rate for %q must be positive, got %v", code, rate)
		}
		rates[code] = rate
	}

	for _, code := range requiredCurrencies {
		if _, ok := rates[code]; !ok {
			return nil, fmt.Errorf("transform: rates file %q has no row for %s", path, code)
		}
	}

	t.logger.Info("[transform] Loaded %d exchange rates from %s", len(rates), path)
	return rates, nil
}

// CleanMetric turns a raw market-cap cell into a number: everything after
// the first newline is a footnote and is dropped, thousands separators are
// removed, and the remainder must parse as a float.
func (t *Transformer) CleanMetric(raw string) (float64, error) {
	cleaned := strings.SplitN(raw, "\n", 2)[0]
	cleaned = strings.ReplaceAll(cleaned, ",", "")
	v, err := strconv.ParseFloat(strings.TrimSpace(cleaned), 64)
	if err != nil {
		return 0, fmt.Errorf("metric %q is not numeric", raw)
	}
	return v, nil
}

// Convert cleans every record's metric and widens it with GBP, EUR and INR
// values, rounded to two decimal places. Input order is preserved and no
// record is dropped; a non-numeric metric fails the whole batch.
func (t *Transformer) Convert(extracted []models.Bank, rates models.ExchangeRates) ([]models.ConvertedBank, error) {
	converted := make([]models.ConvertedBank, 0, len(extracted))
	for _, b := range extracted {
		usd, err := t.CleanMetric(b.RawMarketCap)
		if err != nil {
			return nil, fmt.Errorf("transform: %s: %w", b.Name, err)
		}
		converted = append(converted, models.ConvertedBank{
			Name: b.Name,
			USD:  usd,
			GBP:  round2(usd * rates["GBP"]),
			EUR:  round2(usd * rates["EUR"]),
			INR:  round2(usd * rates["INR"]),
		})
	}

	t.logger.Info("[transform] Converted %d records into GBP/EUR/INR", len(converted))
	return converted, nil
}

// round2 rounds half away from zero.
func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
