package cli

import (
	"fmt"
	"io/fs"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/lazypower/bangapda/internal/auth"
	"github.com/lazypower/bangapda/internal/config"
	"github.com/lazypower/bangapda/internal/engine"
	"github.com/lazypower/bangapda/internal/logging"
	"github.com/lazypower/bangapda/internal/match"
	"github.com/lazypower/bangapda/internal/metrics"
	"github.com/lazypower/bangapda/internal/store"
)

var (
	v          = config.New()
	cfg        = config.Default()
	log        = zap.NewNop()
	configPath string
	bundledWeb fs.FS
)

var rootCmd = &cobra.Command{
	Use:   "bangapda",
	Short: "Find old friends by what you both remember",
	Long: "Bangapda ranks a directory of people by how well they match a remembered year, " +
		"school period, place and keywords. Single Go binary with an HTTP API and a CLI.",
	SilenceUsage:      true,
	PersistentPreRunE: loadConfig,
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		log.Sync()
	},
}

// Execute runs the root command. web is the browser client compiled into
// the binary; it may be nil.
func Execute(web fs.FS) error {
	bundledWeb = web
	return rootCmd.Execute()
}

func init() {
	flags := rootCmd.PersistentFlags()
	flags.StringVar(&configPath, "config", "", "config file (default ./bangapda.toml or ~/.bangapda/bangapda.toml)")
	flags.Bool("debug", false, "enable debug logging")
	flags.Bool("json", false, "log as JSON")
	flags.String("db", "", "database path (default ~/.bangapda/bangapda.db)")

	v.BindPFlag("log.debug", flags.Lookup("debug"))
	v.BindPFlag("log.json", flags.Lookup("json"))
	v.BindPFlag("database.path", flags.Lookup("db"))

	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(searchCmd)
	rootCmd.AddCommand(seedCmd)
	rootCmd.AddCommand(candidatesCmd)
}

func loadConfig(cmd *cobra.Command, args []string) error {
	loaded, err := config.Load(v, configPath)
	if err != nil {
		return err
	}
	cfg = loaded

	logger, err := logging.New(cfg.Log.JSON, cfg.Log.Debug)
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	log = logger
	return nil
}

// openDB opens the configured database, falling back to the default path.
func openDB() (*store.DB, error) {
	dbPath := cfg.Database.Path
	if dbPath == "" {
		var err error
		dbPath, err = store.DefaultDBPath()
		if err != nil {
			return nil, fmt.Errorf("resolve db path: %w", err)
		}
	}
	db, err := store.Open(dbPath)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	return db, nil
}

// newEngine builds an engine over db configured from cfg.
func newEngine(db *store.DB) (*engine.Engine, error) {
	eng := engine.New(db, log)
	eng.Opts = match.Options{
		MinScore:    cfg.Match.MinScore,
		MaxResults:  cfg.Match.MaxResults,
		BrowseScore: cfg.Match.BrowseScore,
	}
	eng.SetMetrics(metrics.New())

	iss, err := auth.NewIssuer(cfg.Auth.Secret, cfg.Auth.Issuer, cfg.Auth.TokenTTL)
	if err != nil {
		return nil, fmt.Errorf("token issuer: %w", err)
	}
	eng.SetIssuer(iss)
	return eng, nil
}
