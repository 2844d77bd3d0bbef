package commands

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/clarkeh/go-time-ledger/internal/config"
	"github.com/clarkeh/go-time-ledger/internal/core/ledger"
	"github.com/clarkeh/go-time-ledger/internal/data/store"
	"github.com/clarkeh/go-time-ledger/internal/server"
	"github.com/clarkeh/go-time-ledger/internal/util"
)

var (
	// Logging related
	debug bool

	// Overrides for config values
	dataDir    string
	serverPort string
	timezone   string
	staticDir  string

	rootCmd = &cobra.Command{
		Use:   "go-time-ledger",
		Short: "Personal time-tracking ledger over monthly CSV files",
		Long: `go-time-ledger runs a small local web server for marking START/END
events and task checkboxes through the day, persisting them to one CSV file
per calendar month in the reference timezone.

Examples:
  go-time-ledger                                  # Serve with settings from .env
  go-time-ledger --data-dir ~/Dropbox --port 5000 # Serve over an explicit ledger directory
  go-time-ledger report --days 14 --output csv    # Offline daily totals report
  go-time-ledger convert --file old_ledger.csv    # One-time UTC to local conversion
  go-time-ledger extract --file ledger.csv --month 2025-11`,
		RunE:          runServe,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
)

func init() {
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false,
		"Enable debug mode")
	rootCmd.PersistentFlags().StringVar(&dataDir, "data-dir", "",
		"Ledger directory (overrides DATA_DIR)")
	rootCmd.PersistentFlags().StringVar(&timezone, "timezone", "",
		"Reference timezone (overrides TIMEZONE)")

	rootCmd.Flags().StringVar(&serverPort, "port", "",
		"Listen port (overrides SERVER_PORT)")
	rootCmd.Flags().StringVar(&staticDir, "static-dir", "",
		"Directory with the browser front end (overrides STATIC_DIR)")
}

func Execute() error {
	return rootCmd.Execute()
}

// setup loads configuration, applies flag overrides, and initializes the
// logger. Every command goes through it.
func setup() (config.Config, error) {
	cfg, err := config.Load(".")
	if err != nil {
		return config.Config{}, err
	}
	if dataDir != "" {
		cfg.DataDir = dataDir
	}
	if timezone != "" {
		cfg.Timezone = timezone
	}
	if serverPort != "" {
		cfg.ServerPort = serverPort
	}
	if staticDir != "" {
		cfg.StaticDir = staticDir
	}
	cfg.DataDir = expandPath(cfg.DataDir)

	logLevel := cfg.LogLevel
	if debug {
		logLevel = "debug"
	}
	logFile := expandPath(cfg.LogFile)
	if err := os.MkdirAll(filepath.Dir(logFile), 0755); err != nil {
		logFile = ""
	}
	util.InitLogger(logLevel, logFile, debug)

	return cfg, nil
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := setup()
	if err != nil {
		return err
	}

	loc, err := util.LoadReferenceZone(cfg.Timezone)
	if err != nil {
		return err
	}

	if err := os.MkdirAll(cfg.DataDir, 0755); err != nil {
		return err
	}

	cached, err := store.NewCached(store.New(cfg.DataDir), true)
	if err != nil {
		return err
	}
	defer cached.Close()

	led := ledger.New(cached, loc)
	srv := server.New(led, loc, cfg.HistoryDays, expandPath(cfg.StaticDir))

	util.LogInfo("time ledger starting",
		util.F("dataDir", cfg.DataDir), util.F("zone", loc.String()))
	return srv.Run(":" + cfg.ServerPort)
}

func expandPath(path string) string {
	if strings.HasPrefix(path, "~/") {
		home, _ := os.UserHomeDir()
		path = filepath.Join(home, path[2:])
	}
	if path == "" {
		return path
	}
	absPath, err := filepath.Abs(path)
	if err != nil {
		return path
	}
	return absPath
}
