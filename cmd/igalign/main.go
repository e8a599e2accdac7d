// Package main provides the igalign command-line tool.
package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

// Exit codes
const (
	ExitSuccess = 0
	ExitError   = 1
	ExitUsage   = 2
)

// Version information (set at build time)
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

// usageError marks errors caused by bad arguments.
type usageError struct{ msg string }

func (e *usageError) Error() string { return e.msg }

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(args []string) int {
	a := &app{logger: zap.NewNop()}
	root := newRootCmd(a)
	root.SetArgs(args)

	err := root.Execute()
	a.logger.Sync()
	if err == nil {
		return ExitSuccess
	}
	fmt.Fprintf(os.Stderr, "Error: %v\n", err)
	if _, ok := err.(*usageError); ok {
		return ExitUsage
	}
	return ExitError
}

// app carries state shared by all subcommands.
type app struct {
	cfgFile  string
	logLevel string
	logger   *zap.Logger
}

func newRootCmd(a *app) *cobra.Command {
	root := &cobra.Command{
		Use:   "igalign",
		Short: "Align Ig domains by strand numbering",
		Long: `igalign lays out Ig domains of protein structures by their strand numbering,
as a 1D table (one row per domain) or as 2D topology diagrams side by side.`,
		Version:       fmt.Sprintf("%s (%s) built %s", version, commit, date),
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if err := initConfig(viper.GetViper(), a.cfgFile); err != nil {
				return err
			}
			if a.logLevel != "" {
				viper.Set("log.level", a.logLevel)
			}
			logger, err := newLogger(loadLogSettings(viper.GetViper()))
			if err != nil {
				return err
			}
			a.logger = logger
			return nil
		},
	}

	root.PersistentFlags().StringVar(&a.cfgFile, "config", "", "Config file (default: ~/.igalign.yaml)")
	root.PersistentFlags().StringVar(&a.logLevel, "log-level", "", "Log level: debug, info, warn, error")

	root.AddCommand(newAlignCmd(a))
	root.AddCommand(newFetchCmd(a))
	root.AddCommand(newCacheCmd(a))
	root.AddCommand(newServeCmd(a))
	root.AddCommand(newConfigCmd())
	return root
}

// initConfig reads the config file, if any, into v and binds IGALIGN_*
// environment variables.
func initConfig(v *viper.Viper, cfgFile string) error {
	setDefaults(v)
	v.SetEnvPrefix("IGALIGN")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil
		}
		v.SetConfigFile(filepath.Join(home, ".igalign.yaml"))
	}

	if err := v.ReadInConfig(); err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			return nil
		}
		return fmt.Errorf("reading config %s: %w", v.ConfigFileUsed(), err)
	}
	return nil
}
