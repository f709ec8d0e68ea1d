package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"showreel/internal/config"
	"showreel/internal/source"
)

var forceInit bool

var importCmd = &cobra.Command{
	Use:   "import <portfolio.yaml> <portfolio.db>",
	Short: "Copy a YAML portfolio into a SQLite database",
	Long: `import reads every project and certificate from a YAML portfolio and
replaces the contents of the SQLite database with them. List order in the
file becomes the display order.`,
	Args: cobra.ExactArgs(2),
	RunE: runImport,
}

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Write a config file with the default settings",
	Args:  cobra.NoArgs,
	RunE:  runInit,
}

func init() {
	initCmd.Flags().BoolVarP(&forceInit, "force", "f", false, "Overwrite an existing config file")
}

func runImport(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	items, err := source.NewFileSource(args[0], source.CollectionAll).Fetch(ctx)
	if err != nil {
		return err
	}

	db, err := source.OpenSQLite(args[1], source.CollectionAll)
	if err != nil {
		return err
	}
	defer db.Close()

	if err := db.Replace(ctx, items); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Imported %d items into %s\n", len(items), args[1])
	return nil
}

func runInit(cmd *cobra.Command, args []string) error {
	svc := configService()
	if _, err := os.Stat(svc.Path()); err == nil && !forceInit {
		return fmt.Errorf("%s already exists (use --force to overwrite)", svc.Path())
	} else if err != nil && !errors.Is(err, os.ErrNotExist) {
		return err
	}

	if err := svc.Save(config.DefaultConfig()); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s\n", svc.Path())
	return nil
}
