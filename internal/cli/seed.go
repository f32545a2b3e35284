package cli

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var seedFile string

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Replace the candidate directory",
	Long: "Load the candidate directory from a YAML file, or from the built-in sample " +
		"directory when no file is given. Every record is validated before anything is written.",
	RunE: runSeed,
}

func init() {
	seedCmd.Flags().StringVarP(&seedFile, "file", "f", "", "directory YAML file (default: built-in sample)")
}

func runSeed(cmd *cobra.Command, args []string) error {
	db, err := openDB()
	if err != nil {
		return err
	}
	defer db.Close()

	path := seedFile
	if path == "" {
		path = cfg.Database.SeedFile
	}

	n, err := db.SeedCandidates(path)
	if err != nil {
		return fmt.Errorf("seed: %w", err)
	}

	source := path
	if source == "" {
		source = "built-in"
	}
	log.Debug("seeded directory", zap.String("source", source), zap.Int("candidates", n))
	fmt.Fprintf(cmd.OutOrStdout(), "Loaded %d candidates from %s into %s\n", n, source, db.Path)
	return nil
}
