package cmd

import (
	"context"
	"fmt"

	"github.com/giygas/openbnf/config"
	"github.com/giygas/openbnf/entities"
	"github.com/giygas/openbnf/interfaces"
	"github.com/giygas/openbnf/logging"
	"github.com/giygas/openbnf/store"
	"github.com/giygas/openbnf/validation"
)

// openStore returns the configured record store and the function that
// releases it.
func openStore(ctx context.Context, cfg *config.Config) (interfaces.RecordStore, func() error, error) {
	if cfg.StoreBackend == config.BackendMemory {
		drugs, err := store.LoadDrugs(cfg.SeedFile)
		if err != nil {
			return nil, nil, err
		}

		var codes []entities.CodeMapping
		if cfg.SeedCodesFile != "" {
			if codes, err = store.LoadCodes(cfg.SeedCodesFile); err != nil {
				return nil, nil, err
			}
		}

		logDataQuality(validation.NewDataValidator().ReportDataQuality(drugs, codes))
		logging.Info("Loaded in-memory store", "seed_file", cfg.SeedFile, "drugs", len(drugs), "codes", len(codes))
		return store.NewMemoryStore(drugs, codes), func() error { return nil }, nil
	}

	ms, err := openMongo(ctx, cfg)
	if err != nil {
		return nil, nil, err
	}
	return ms, ms.Close, nil
}

func openMongo(ctx context.Context, cfg *config.Config) (*store.MongoStore, error) {
	ms, err := store.NewMongoStore(ctx, store.MongoOptions{
		URI:             cfg.MongoURI,
		Database:        cfg.MongoDatabase,
		DrugsCollection: cfg.DrugsCollection,
		CodesCollection: cfg.CodesCollection,
		QueryTimeout:    cfg.MongoQueryTimeout,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open the record store: %w", err)
	}
	return ms, nil
}

// logDataQuality warns about each problem found in a data set.
func logDataQuality(report *interfaces.DataQualityReport) {
	clean := true
	if len(report.DuplicateNames) > 0 {
		clean = false
		logging.Warn("Duplicate drug names, exact lookups return the first", "names", report.DuplicateNames)
	}
	if len(report.DuplicateCodes) > 0 {
		clean = false
		logging.Warn("Duplicate BNF codes", "codes", report.DuplicateCodes)
	}
	if report.DrugsWithoutDoses > 0 {
		clean = false
		logging.Warn("Drugs without doses", "count", report.DrugsWithoutDoses, "sample", report.DrugsWithoutDosesNames)
	}
	if report.DanglingCodes > 0 {
		clean = false
		logging.Warn("Codes naming no known drug", "count", report.DanglingCodes, "sample", report.DanglingCodesList)
	}
	if clean {
		logging.Info("Data quality check passed")
	}
}
