package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/giygas/openbnf/config"
	"github.com/giygas/openbnf/logging"
	"github.com/giygas/openbnf/search"
)

var namesCount bool

var namesCmd = &cobra.Command{
	Use:   "names",
	Short: "Print the drug name index",
	Long:  "Build the name index from the configured record store and print one name per line, in index order.",
	Args:  cobra.NoArgs,
	RunE:  runNames,
}

func init() {
	namesCmd.Flags().BoolVar(&namesCount, "count", false, "print only the number of names")
}

func runNames(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	logging.InitLoggerWithOptions(logging.Options{Env: cfg.Env, Level: cfg.LogLevel})

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	st, closeStore, err := openStore(ctx, cfg)
	if err != nil {
		return err
	}
	defer func() { _ = closeStore() }()

	index, err := search.BuildNameIndex(ctx, st)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if namesCount {
		fmt.Fprintln(out, index.Len())
		return nil
	}
	for _, name := range index.Names() {
		fmt.Fprintln(out, name)
	}
	return nil
}
