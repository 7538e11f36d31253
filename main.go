package main

import (
	"context"
	"fmt"
	"os"
	"strings"

	"marketcap-etl/config"
	"marketcap-etl/models"
	"marketcap-etl/scraper/banks"
	"marketcap-etl/services"
	"marketcap-etl/storage"
	"marketcap-etl/utils"
)

func main() {
	logger := utils.NewLogger()

	cfg, err := config.Load()
	if err != nil {
		logger.Error("Failed to load config: %v", err)
		os.Exit(1)
	}

	logger.Info("=== Market cap ETL starting ===")
	logger.Info("Config — url: %s | store: %s | table: %s", cfg.URL, cfg.DBDriver, cfg.TableName)

	if err := run(cfg, logger, utils.NewProgressLog(cfg.LogPath)); err != nil {
		logger.Error("%v", err)
		os.Exit(1)
	}

	logger.Info("Done. CSV → %s | table %s → %s", cfg.OutputPath, cfg.TableName, cfg.DSN())
}

// run is the whole pipeline: extract → transform → CSV → DB load → query →
// summary, one stage after another, milestones recorded between stages.
func run(cfg *config.Config, logger *utils.Logger, progress utils.ProgressLogger) error {
	ctx := context.Background()

	if err := progress.Record("Preliminaries complete. Initiating ETL process"); err != nil {
		return err
	}

	scraper := banks.New(cfg, logger)
	extracted, err := scraper.Scrape(ctx)
	if err != nil {
		return err
	}
	printExtracted(cfg.TableAttributes, extracted)

	if err := progress.Record("Data extraction complete. Initiating Transformation process"); err != nil {
		return err
	}

	transformer := services.NewTransformer(logger)
	rates, err := transformer.LoadRates(cfg.RatesCSVPath)
	if err != nil {
		return err
	}
	converted, err := transformer.Convert(extracted, rates)
	if err != nil {
		return err
	}
	printConverted(converted)

	if err := progress.Record("Data transformation complete. Initiating loading process"); err != nil {
		return err
	}

	csvWriter, err := storage.NewCSVWriter(cfg.OutputPath)
	if err != nil {
		return err
	}
	if err := csvWriter.Write(converted); err != nil {
		_ = csvWriter.Close()
		return err
	}
	if err := csvWriter.Close(); err != nil {
		return err
	}
	logger.Info("Dataset saved to %s", cfg.OutputPath)

	if err := progress.Record("Data saved to CSV file"); err != nil {
		return err
	}

	store, err := storage.Open(cfg.DBDriver, cfg.DSN())
	if err != nil {
		return err
	}
	// released on every exit path, including mid-pipeline failure
	defer store.Close()

	if err := progress.Record("SQL Connection initiated"); err != nil {
		return err
	}

	if err := store.Append(cfg.TableName, converted); err != nil {
		return err
	}
	logger.Info("Dataset loaded into table %s", cfg.TableName)

	if err := progress.Record("Data loaded to Database as table"); err != nil {
		return err
	}
	if err := progress.Record("Running the query"); err != nil {
		return err
	}

	statement := fmt.Sprintf("SELECT AVG(MC_GBP_Billion) FROM %s", cfg.TableName)
	fmt.Println(statement)
	result, err := store.Query(statement)
	if err != nil {
		return err
	}
	fmt.Println(result)

	insights := services.NewInsightService(logger)
	report, err := insights.Summarize(converted)
	if err != nil {
		return err
	}
	insights.Print(report)

	return progress.Record("Process Complete.")
}

func printExtracted(columns []string, extracted []models.Bank) {
	fmt.Printf("%-40s %s\n", columns[0], columns[1])
	for _, b := range extracted {
		fmt.Printf("%-40s %s\n", b.Name, strings.TrimSpace(b.RawMarketCap))
	}
}

func printConverted(converted []models.ConvertedBank) {
	fmt.Printf("%-40s %12s %12s %12s %14s\n", "Name", "USD", "GBP", "EUR", "INR")
	for _, b := range converted {
		fmt.Printf("%-40s %12.2f %12.2f %12.2f %14.2f\n", b.Name, b.USD, b.GBP, b.EUR, b.INR)
	}
}
