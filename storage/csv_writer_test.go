package storage

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"marketcap-etl/models"
)

var sampleConverted = []models.ConvertedBank{
	{Name: "Bank A", USD: 100000, GBP: 80000, EUR: 90000, INR: 8000000},
	{Name: "Bank B", USD: 231.52, GBP: 185.22, EUR: 208.37, INR: 18520.33},
}

func writeDataset(t *testing.T, path string, converted []models.ConvertedBank) {
	t.Helper()
	w, err := NewCSVWriter(path)
	require.NoError(t, err)
	require.NoError(t, w.Write(converted))
	require.NoError(t, w.Close())
}

func TestCSVWriterOutput(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out", "largest_banks.csv")
	writeDataset(t, path, sampleConverted)

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	want := ",Name,MC_USD_Billion,MC_GBP_Billion,MC_EUR_Billion,MC_INR_Billion\n" +
		"0,Bank A,100000,80000,90000,8000000\n" +
		"1,Bank B,231.52,185.22,208.37,18520.33\n"
	assert.Equal(t, want, string(data))
}

func TestCSVWriterIdempotent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.csv")

	writeDataset(t, path, sampleConverted)
	first, err := os.ReadFile(path)
	require.NoError(t, err)

	writeDataset(t, path, sampleConverted)
	second, err := os.ReadFile(path)
	require.NoError(t, err)

	assert.Equal(t, first, second, "rewriting the same dataset must be byte-identical")
}

func TestCSVWriterOverwritesPreviousRun(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.csv")

	writeDataset(t, path, sampleConverted)
	writeDataset(t, path, sampleConverted[:1])

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.NotContains(t, string(data), "Bank B")
}
