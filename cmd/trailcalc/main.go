package main

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/komsit37/trailcalc/pkg/tc/estimate"
	"github.com/komsit37/trailcalc/pkg/tc/present"
	"github.com/komsit37/trailcalc/pkg/tc/sanitize"
	"github.com/komsit37/trailcalc/pkg/tc/trigger"
)

const defaultEnvFile = ".env"

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var (
		cfgFile string
		envFile string
		verbose bool
	)
	rootCmd := &cobra.Command{
		Use:          "trailcalc",
		Short:        "Estimate book value and accessible finance from trail commission",
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			setupLogging(verbose)
			if err := loadEnvFile(envFile); err != nil {
				return err
			}
			return initConfig(cmd, cfgFile)
		},
	}

	pf := rootCmd.PersistentFlags()
	pf.StringVar(&cfgFile, "config", "", "config file (default $HOME/.trailcalc.yaml)")
	pf.StringVar(&envFile, "env-file", defaultEnvFile, "dotenv file loaded before reading TRAILCALC_* variables")
	pf.BoolVarP(&verbose, "verbose", "v", false, "debug logging to stderr")
	pf.String("currency", "USD", "ISO currency code used for display")
	pf.String("locale", "en", "BCP 47 locale for number grouping")
	pf.Float64("default-multiple", sanitize.DefaultMultiple, "multiple used when none or an invalid one is given")
	pf.Duration("debounce", trigger.DefaultDelay, "quiet period before a live edit recomputes")
	pf.Bool("color", true, "colorize output")
	pf.StringP("output", "o", "table", "output format: table, json or lines")
	pf.Bool("pretty", false, "indent JSON output")

	rootCmd.AddCommand(newEstimateCmd(), newScenariosCmd(), newInteractiveCmd())
	return rootCmd
}

func setupLogging(verbose bool) {
	lvl := slog.LevelWarn
	if verbose {
		lvl = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: lvl})))
}

// loadEnvFile loads a dotenv file. A missing default file is fine; a missing
// file the user asked for is not.
func loadEnvFile(path string) error {
	if path == "" {
		return nil
	}
	err := godotenv.Load(path)
	if err == nil {
		slog.Debug("loaded env file", "path", path)
		return nil
	}
	if errors.Is(err, fs.ErrNotExist) && path == defaultEnvFile {
		return nil
	}
	return fmt.Errorf("load env file %s: %w", path, err)
}

// initConfig layers flags over TRAILCALC_* environment variables over the
// config file over defaults.
func initConfig(cmd *cobra.Command, cfgFile string) error {
	viper.SetEnvPrefix("TRAILCALC")
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	viper.AutomaticEnv()
	if err := viper.BindPFlags(cmd.Flags()); err != nil {
		return err
	}

	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil
		}
		viper.SetConfigFile(filepath.Join(home, ".trailcalc.yaml"))
	}
	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if cfgFile == "" && (errors.As(err, &notFound) || errors.Is(err, fs.ErrNotExist)) {
			return nil
		}
		return fmt.Errorf("read config: %w", err)
	}
	slog.Debug("loaded config", "file", viper.ConfigFileUsed())
	return nil
}

// settings is the resolved configuration for one command run.
type settings struct {
	Currency        string
	Locale          string
	DefaultMultiple float64
	Debounce        time.Duration
	Color           bool
	Output          string
	Pretty          bool
}

func loadSettings() settings {
	return settings{
		Currency:        viper.GetString("currency"),
		Locale:          viper.GetString("locale"),
		DefaultMultiple: viper.GetFloat64("default-multiple"),
		Debounce:        viper.GetDuration("debounce"),
		Color:           viper.GetBool("color"),
		Output:          strings.ToLower(viper.GetString("output")),
		Pretty:          viper.GetBool("pretty"),
	}
}

func (s settings) formatter() *present.Formatter {
	return present.NewFormatter(s.Locale, s.Currency)
}

func (s settings) estimateOptions() estimate.Options {
	return estimate.Options{DefaultMultiple: s.DefaultMultiple}
}

// chartWidth is the terminal width, or zero to let the chart pick.
func chartWidth() int {
	w := detectTerminalWidth()
	if w > 100 {
		w = 100
	}
	return w
}
