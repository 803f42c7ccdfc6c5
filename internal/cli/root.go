// Package cli implements the mbs-clarity CLI commands.
package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/mbsclarity/mbs-clarity/internal/config"
	"github.com/mbsclarity/mbs-clarity/internal/extract"
	"github.com/mbsclarity/mbs-clarity/internal/logging"
	"github.com/mbsclarity/mbs-clarity/internal/store"
)

var (
	cfgFile    string
	formatFlag string
)

// RootCmd is the top-level command.
var RootCmd = &cobra.Command{
	Use:   "mbs-clarity",
	Short: "Structured MBS schedule data",
	Long: `Loads the Medicare Benefits Schedule from its CSV or XML release, extracts
item relations and constraints from the descriptions, and answers lookups
from a local SQLite store.`,
}

func init() {
	cobra.OnInitialize(initConfig)

	flags := RootCmd.PersistentFlags()
	flags.StringVar(&cfgFile, "config", "", "Config file (default: $HOME/.mbs-clarity/config.yaml)")
	flags.StringP("db", "d", "", "Database path (default: $MBS_CLARITY_DB or ~/.mbs-clarity/mbs.db)")
	flags.String("log-level", "info", "Log level: debug, info, warn, error")
	flags.String("log-format", "console", "Log format: console or json")
	flags.String("vocab", "", "YAML file extending the location/provider vocabulary")
	flags.StringVarP(&formatFlag, "format", "f", "json", "Output format: json or text")

	for _, key := range []string{config.KeyDB, config.KeyLogLevel, config.KeyLogFormat, config.KeyVocab} {
		_ = viper.BindPFlag(key, flags.Lookup(key))
	}
}

// initConfig reads in config file and ENV variables
func initConfig() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else if home, err := os.UserHomeDir(); err == nil {
		viper.AddConfigPath(filepath.Join(home, ".mbs-clarity"))
		viper.SetConfigType("yaml")
		viper.SetConfigName("config")
	}

	config.SetDefaults(viper.GetViper())

	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if cfgFile != "" || !errors.As(err, &notFound) {
			exitErr("read config", err)
		}
	}
}

func settings() config.Settings {
	return config.FromViper(viper.GetViper())
}

func getDBPath() string {
	return settings().DBPath
}

func openStore() (*store.SQLiteStore, error) {
	return store.NewSQLiteStore(getDBPath())
}

func newLogger() *zap.Logger {
	s := settings()
	log, err := logging.New(s.LogLevel, s.LogFormat)
	if err != nil {
		exitErr("logger", err)
	}
	return log
}

func library() *extract.Library {
	lib, err := settings().Library()
	if err != nil {
		exitErr("load vocabulary", err)
	}
	return lib
}

func printJSON(v interface{}) {
	b, _ := json.MarshalIndent(v, "", "  ")
	fmt.Println(string(b))
}

func textOutput() bool {
	return formatFlag == "text"
}

func exitErr(msg string, err error) {
	fmt.Fprintf(os.Stderr, "error: %s: %v\n", msg, err)
	os.Exit(1)
}
