package cmd

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/giygas/openbnf/config"
	"github.com/giygas/openbnf/entities"
	"github.com/giygas/openbnf/logging"
	"github.com/giygas/openbnf/store"
	"github.com/giygas/openbnf/validation"
)

var (
	importDrugsFile string
	importCodesFile string
	importDrop      bool
)

var importCmd = &cobra.Command{
	Use:   "import",
	Short: "Import seed JSON into MongoDB",
	Long: `Import a JSON array of drug documents, and optionally a JSON array of
{code, name} mappings, into the configured MongoDB collections. Files that
are not UTF-8 are read as ISO-8859-1. Documents without a valid name are
skipped.`,
	Args: cobra.NoArgs,
	RunE: runImport,
}

func init() {
	importCmd.Flags().StringVarP(&importDrugsFile, "drugs", "d", "", "drug documents to import (required)")
	importCmd.Flags().StringVarP(&importCodesFile, "codes", "c", "", "BNF code mappings to import")
	importCmd.Flags().BoolVar(&importDrop, "drop", false, "empty the collections before importing")
	_ = importCmd.MarkFlagRequired("drugs")
}

func runImport(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	logging.InitLoggerWithOptions(logging.Options{Env: cfg.Env, Level: cfg.LogLevel})

	docs, drugs, err := loadImportDocuments(importDrugsFile)
	if err != nil {
		return err
	}

	var codes []entities.CodeMapping
	if importCodesFile != "" {
		if codes, err = store.LoadCodes(importCodesFile); err != nil {
			return err
		}
	}
	logDataQuality(validation.NewDataValidator().ReportDataQuality(drugs, codes))

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	ms, err := openMongo(ctx, cfg)
	if err != nil {
		return err
	}
	defer func() { _ = ms.Close() }()

	inserted, err := ms.ImportDrugs(ctx, docs, importDrop)
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Imported %d drugs into %s.%s\n", inserted, cfg.MongoDatabase, cfg.DrugsCollection)

	if len(codes) > 0 {
		n, err := ms.ImportCodes(ctx, codes, importDrop)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Imported %d codes into %s.%s\n", n, cfg.MongoDatabase, cfg.CodesCollection)
	}

	return ms.EnsureIndexes(ctx)
}

// loadImportDocuments reads the raw documents of path and drops the ones
// that do not hold a valid drug. It also returns the decoded drugs of the
// documents it keeps.
func loadImportDocuments(path string) ([]map[string]any, []entities.Drug, error) {
	raw, err := store.LoadDocuments(path)
	if err != nil {
		return nil, nil, err
	}

	validator := validation.NewDataValidator()
	docs := make([]map[string]any, 0, len(raw))
	drugs := make([]entities.Drug, 0, len(raw))
	skipped := 0

	for i, doc := range raw {
		drug, err := drugFromDocument(doc)
		if err == nil {
			err = validator.ValidateDrug(&drug)
		}
		if err != nil {
			skipped++
			logging.Debug("Skipping document", "index", i, "error", err)
			continue
		}
		docs = append(docs, doc)
		drugs = append(drugs, drug)
	}

	if skipped > 0 {
		logging.Warn("Skipped invalid drug documents", "path", path, "count", skipped)
	}
	if len(docs) == 0 {
		return nil, nil, fmt.Errorf("no valid drug documents in %s", path)
	}
	return docs, drugs, nil
}

func drugFromDocument(doc map[string]any) (entities.Drug, error) {
	var d entities.Drug
	data, err := json.Marshal(doc)
	if err != nil {
		return d, fmt.Errorf("failed to encode document: %w", err)
	}
	if err := json.Unmarshal(data, &d); err != nil {
		return d, fmt.Errorf("failed to decode document: %w", err)
	}
	return d, nil
}
