package cmd

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"fraudview/internal/loader"
	"fraudview/internal/logging"
	"fraudview/internal/model"

	"github.com/joho/godotenv"
)

// Config holds CLI configuration.
type Config struct {
	File        string
	Predict     bool
	PageSize    int // 0 keeps the saved preference
	SampleRows  int
	Seed        int64
	Metrics     bool
	LogFile     string // empty disables logging
	LogLevel    logging.Level
	LoadTimeout time.Duration
	ConfigDir   string
	PrefsPath   string
	ShowVersion bool
}

// SampleOptions returns the sample generator settings from the config.
func (c *Config) SampleOptions() loader.SampleOptions {
	opts := loader.DefaultSampleOptions()
	opts.Rows = c.SampleRows
	opts.Seed = c.Seed
	opts.Metrics = c.Metrics
	return opts
}

var dotEnvFiles = []string{".env", ".env.local"}

// ParseFlags parses command-line flags and returns configuration.
func ParseFlags(version string) (*Config, error) {
	return Parse(os.Args[1:], version, os.Stderr)
}

// Parse is ParseFlags over explicit arguments.
func Parse(args []string, version string, output io.Writer) (*Config, error) {
	// Load .env files first so env-based defaults work with flag parsing.
	// Variables already present in the environment win.
	for _, f := range dotEnvFiles {
		if err := godotenv.Load(f); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("failed to load %s: %w", f, err)
		}
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return nil, fmt.Errorf("failed to get home directory: %w", err)
	}
	config := &Config{ConfigDir: filepath.Join(home, ".fraudview")}

	defaultLog := filepath.Join(config.ConfigDir, "fraudview.log")
	if v, ok := os.LookupEnv("FRAUDVIEW_LOG_FILE"); ok {
		defaultLog = strings.TrimSpace(v)
	}
	defaultPageSize, err := envInt("FRAUDVIEW_PAGE_SIZE", 0)
	if err != nil {
		return nil, err
	}

	var level string
	sample := loader.DefaultSampleOptions()

	flags := flag.NewFlagSet("fraudview", flag.ContinueOnError)
	flags.SetOutput(output)
	flags.StringVar(&config.File, "file", os.Getenv("FRAUDVIEW_FILE"), "CSV or XLSX results file (or set FRAUDVIEW_FILE); empty shows sample data")
	flags.BoolVar(&config.Predict, "predict", false, "Label the loaded transaction IDs with the placeholder predictor")
	flags.IntVar(&config.PageSize, "page-size", defaultPageSize, "Rows per page: 10, 25, 50 or 100 (default: last used)")
	flags.IntVar(&config.SampleRows, "sample-rows", sample.Rows, "Rows in generated sample data")
	flags.Int64Var(&config.Seed, "seed", sample.Seed, "Seed for generated sample data")
	flags.BoolVar(&config.Metrics, "metrics", false, "Add precision/recall/f1_score/auc_roc columns to sample data")
	flags.StringVar(&config.LogFile, "log-file", defaultLog, `Log file path; "" disables logging`)
	flags.StringVar(&level, "log-level", os.Getenv("LOG_LEVEL"), "Log level: error, warn, info, debug (or set LOG_LEVEL)")
	flags.DurationVar(&config.LoadTimeout, "load-timeout", 30*time.Second, "Timeout for loading a file or running predictions")
	flags.BoolVar(&config.ShowVersion, "version", false, "Print version and exit")
	flags.Usage = func() {
		fmt.Fprintf(flags.Output(), "fraudview %s\n\nUsage: fraudview [flags]\n\n", version)
		flags.PrintDefaults()
	}
	if err := flags.Parse(args); err != nil {
		return nil, err
	}
	if flags.NArg() > 0 && config.File == "" {
		config.File = flags.Arg(0)
	}

	if config.LogLevel, err = logging.ParseLevel(level); err != nil {
		return nil, fmt.Errorf("invalid -log-level: %w", err)
	}
	if err := config.validate(); err != nil {
		return nil, err
	}

	config.File = strings.TrimSpace(config.File)
	config.PrefsPath = filepath.Join(config.ConfigDir, "ui_prefs.json")
	if err := os.MkdirAll(config.ConfigDir, 0700); err != nil {
		return nil, fmt.Errorf("failed to create config directory: %w", err)
	}
	return config, nil
}

func (c *Config) validate() error {
	if c.PageSize != 0 && !validPageSize(c.PageSize) {
		return fmt.Errorf("invalid -page-size %d: must be one of %s", c.PageSize, pageSizeList())
	}
	if c.SampleRows < 0 {
		return fmt.Errorf("invalid -sample-rows %d: must not be negative", c.SampleRows)
	}
	if c.LoadTimeout < 0 {
		return fmt.Errorf("invalid -load-timeout %s: must not be negative", c.LoadTimeout)
	}
	return nil
}

func validPageSize(n int) bool {
	for _, s := range model.PageSizes {
		if s == n {
			return true
		}
	}
	return false
}

func pageSizeList() string {
	parts := make([]string, len(model.PageSizes))
	for i, s := range model.PageSizes {
		parts[i] = strconv.Itoa(s)
	}
	return strings.Join(parts, ", ")
}

func envInt(key string, fallback int) (int, error) {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q: %w", key, v, err)
	}
	return n, nil
}
