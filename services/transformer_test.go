package services

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"marketcap-etl/models"
	"marketcap-etl/utils"
)

func newTestLogger() *utils.Logger { return utils.NewLogger() }

func writeRatesFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "exchange_rate.csv")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestCleanMetric(t *testing.T) {
	tr := NewTransformer(newTestLogger())

	tests := []struct {
		raw     string
		want    float64
		wantErr bool
	}{
		{"1,234.5\nfootnote", 1234.5, false},
		{"100,000\n", 100000, false},
		{"35.674", 35.674, false},
		{"231.52\n[7]", 231.52, false},
		{"n/a", 0, true},
		{"", 0, true},
	}

	for _, tt := range tests {
		got, err := tr.CleanMetric(tt.raw)
		if tt.wantErr {
			assert.Error(t, err, "CleanMetric(%q)", tt.raw)
			continue
		}
		require.NoError(t, err, "CleanMetric(%q)", tt.raw)
		assert.Equal(t, tt.want, got, "CleanMetric(%q)", tt.raw)
	}
}

func TestConvertRoundTrip(t *testing.T) {
	tr := NewTransformer(newTestLogger())
	rates := models.ExchangeRates{"GBP": 0.8, "EUR": 0.9, "INR": 80}

	extracted := []models.Bank{
		{Name: "Bank A", RawMarketCap: "100,000\n"},
		{Name: "Bank B", RawMarketCap: "35.674"},
	}

	converted, err := tr.Convert(extracted, rates)
	require.NoError(t, err)
	require.Len(t, converted, 2)

	assert.Equal(t, "Bank A", converted[0].Name)
	assert.Equal(t, 100000.0, converted[0].USD)
	assert.Equal(t, 80000.0, converted[0].GBP)
	assert.Equal(t, 90000.0, converted[0].EUR)
	assert.Equal(t, 8000000.0, converted[0].INR)

	// rounded to 2 decimal places
	assert.InDelta(t, 28.54, converted[1].GBP, 1e-9)
	assert.InDelta(t, 32.11, converted[1].EUR, 1e-9)
	assert.InDelta(t, 2853.92, converted[1].INR, 1e-9)
}

func TestConvertNonNumericMetricFails(t *testing.T) {
	tr := NewTransformer(newTestLogger())
	rates := models.ExchangeRates{"GBP": 0.8, "EUR": 0.9, "INR": 80}

	_, err := tr.Convert([]models.Bank{{Name: "Bank X", RawMarketCap: "unknown"}}, rates)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Bank X")
}

func TestLoadRates(t *testing.T) {
	path := writeRatesFile(t, "Currency,Rate\nEUR,0.93\nGBP,0.8\nINR,82.95\n")
	tr := NewTransformer(newTestLogger())

	rates, err := tr.LoadRates(path)
	require.NoError(t, err)
	assert.Equal(t, 0.8, rates["GBP"])
	assert.Equal(t, 0.93, rates["EUR"])
	assert.Equal(t, 82.95, rates["INR"])
}

func TestLoadRatesColumnOrderIrrelevant(t *testing.T) {
	path := writeRatesFile(t, "Rate,Currency\n0.8,GBP\n0.9,EUR\n80,INR\n")
	rates, err := NewTransformer(newTestLogger()).LoadRates(path)
	require.NoError(t, err)
	assert.Equal(t, 0.8, rates["GBP"])
}

func TestLoadRatesMissingCurrency(t *testing.T) {
	path := writeRatesFile(t, "Currency,Rate\nGBP,0.8\nEUR,0.9\n")
	_, err := NewTransformer(newTestLogger()).LoadRates(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "INR")
}

func TestLoadRatesBadRate(t *testing.T) {
	path := writeRatesFile(t, "Currency,Rate\nGBP,zero\nEUR,0.9\nINR,80\n")
	_, err := NewTransformer(newTestLogger()).LoadRates(path)
	require.Error(t, err)
}

func TestLoadRatesMissingFile(t *testing.T) {
	_, err := NewTransformer(newTestLogger()).LoadRates(filepath.Join(t.TempDir(), "nope.csv"))
	require.Error(t, err)
}
