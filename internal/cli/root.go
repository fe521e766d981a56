// Package cli implements the faveday CLI commands.
package cli

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/goccy/go-json"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/rcliao/faveday/internal/config"
	"github.com/rcliao/faveday/internal/model"
	"github.com/rcliao/faveday/internal/score"
	"github.com/rcliao/faveday/internal/store"
	"github.com/rcliao/faveday/internal/watch"
	"github.com/rcliao/faveday/internal/widgets"
)

var (
	configPath  string
	dataDir     string
	storageFlag string
	dbPath      string
	formatFlag  string
	logLevel    string
	nowFlag     string
)

// RootCmd is the top-level command.
var RootCmd = &cobra.Command{
	Use:   "faveday",
	Short: "A mood diary: one score and a few notes per day",
	Long: "faveday keeps a daily score (1-5) with free-text notes, tags notes with #topics and @people,\n" +
		"and computes dashboard analytics: trends, streaks, coverage, trending tags and more.",
}

func init() {
	pf := RootCmd.PersistentFlags()
	pf.StringVarP(&configPath, "config", "c", "", "Config file (default: $FAVEDAY_CONFIG or ~/.faveday/config.yaml)")
	pf.StringVar(&dataDir, "data-dir", "", "Directory of score files (overrides config)")
	pf.StringVar(&storageFlag, "storage", "", "Storage backend: files or sqlite (overrides config)")
	pf.StringVarP(&dbPath, "db", "d", "", "SQLite database path (overrides config)")
	pf.StringVarP(&formatFlag, "format", "f", "json", "Output format: json or text")
	pf.StringVar(&logLevel, "log-level", "", "Log level: debug, info, warn, error (overrides config)")
	pf.StringVar(&nowFlag, "now", "", "Treat this date (YYYY-MM-DD) as today")
}

func getConfigPath() string {
	if configPath != "" {
		return configPath
	}
	return config.DefaultPath()
}

func loadManager() *config.Manager {
	m, err := config.NewManager(getConfigPath())
	if err != nil {
		exitErr("load config", err)
	}
	return m
}

// loadConfig returns the effective configuration: file, then environment,
// then flags.
func loadConfig() *config.Config {
	cfg := loadManager().Current()
	if dataDir != "" {
		cfg.DataDir = dataDir
	}
	if storageFlag != "" {
		cfg.Storage = storageFlag
	}
	if dbPath != "" {
		cfg.DBPath = dbPath
	}
	if logLevel != "" {
		cfg.LogLevel = logLevel
	}
	if err := cfg.Validate(); err != nil {
		exitErr("config", err)
	}
	return cfg
}

func newLogger(cfg *config.Config) zerolog.Logger {
	level, err := zerolog.ParseLevel(strings.ToLower(cfg.LogLevel))
	if err != nil || cfg.LogLevel == "" {
		level = zerolog.WarnLevel
	}
	return zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen}).
		Level(level).
		With().Timestamp().Logger()
}

// env bundles what most commands need.
type env struct {
	cfg   *config.Config
	log   zerolog.Logger
	store store.Store
}

func openEnv() *env {
	cfg := loadConfig()
	log := newLogger(cfg)
	s, err := store.Open(cfg, log)
	if err != nil {
		exitErr("open store", err)
	}
	return &env{cfg: cfg, log: log, store: s}
}

func (e *env) Close() {
	e.store.Close()
}

func (e *env) rebuilder() *watch.Rebuilder {
	r := watch.NewRebuilder(e.store, e.cfg.TagCacheFile(), e.log)
	r.SetClock(today)
	return r
}

// engine loads every entry and the tag cache into a widget engine.
func (e *env) engine(cmd *cobra.Command) *widgets.Engine {
	entries, err := e.store.All(cmd.Context())
	if err != nil {
		exitErr("load entries", err)
	}
	table, err := e.rebuilder().Load(cmd.Context())
	if err != nil {
		exitErr("load tag cache", err)
	}
	return widgets.NewEngine(entries, table, score.NewCalculator(e.cfg.Scoring), e.cfg.Widgets())
}

// today returns --now when set, else the current local calendar day keyed
// like stored entries.
func today() time.Time {
	if nowFlag == "" {
		return model.Day(time.Now())
	}
	t, err := model.ParseDate(nowFlag)
	if err != nil {
		exitErr("parse --now", err)
	}
	return t
}

// dateArg parses args[i] as a date, defaulting to today.
func dateArg(args []string, i int) time.Time {
	if len(args) <= i {
		return model.Day(today())
	}
	d, err := model.ParseDate(args[i])
	if err != nil {
		exitErr("parse date", err)
	}
	return d
}

func textFormat() bool {
	return formatFlag == "text"
}

func printJSON(v interface{}) {
	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		exitErr("encode output", err)
	}
	fmt.Println(string(b))
}

func exitErr(msg string, err error) {
	fmt.Fprintf(os.Stderr, "error: %s: %v\n", msg, err)
	os.Exit(1)
}
