package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

func newConfigCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Manage igalign configuration",
		Long:  "Show, get, or set configuration values. Config is stored in ~/.igalign.yaml.",
		Example: `  igalign config                                  # show effective config
  igalign config set paths.templates /data/igstrand_template
  igalign config set templates.sizes.IgC1.rows 40
  igalign config get numbering.scheme`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return showConfig(cmd.OutOrStdout(), viper.GetViper())
		},
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "set <key> <value>",
		Short: "Set a configuration value",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			path, err := setConfig(viper.GetViper(), args[0], args[1])
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Set %s = %s in %s\n", args[0], args[1], path)
			return nil
		},
	})
	cmd.AddCommand(&cobra.Command{
		Use:   "get <key>",
		Short: "Get a configuration value",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return getConfig(cmd.OutOrStdout(), viper.GetViper(), args[0])
		},
	})
	return cmd
}

func showConfig(w io.Writer, v *viper.Viper) error {
	out, err := yaml.Marshal(v.AllSettings())
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	fmt.Fprintf(w, "# Config file: %s\n", configPath(v))
	_, err = w.Write(out)
	return err
}

// setConfig stores value under key and writes the config file, returning
// its path. Booleans and integers are stored typed.
func setConfig(v *viper.Viper, key, value string) (string, error) {
	switch value {
	case "true", "yes", "on":
		v.Set(key, true)
	case "false", "no", "off":
		v.Set(key, false)
	default:
		if n, err := strconv.Atoi(value); err == nil {
			v.Set(key, n)
		} else {
			v.Set(key, value)
		}
	}

	path := configPath(v)
	if path == "" {
		return "", fmt.Errorf("cannot determine config file location")
	}
	if err := v.WriteConfigAs(path); err != nil {
		return "", fmt.Errorf("writing config: %w", err)
	}
	return path, nil
}

func getConfig(w io.Writer, v *viper.Viper, key string) error {
	if !v.IsSet(key) {
		return fmt.Errorf("key %q is not set", key)
	}
	val := v.Get(key)
	switch val.(type) {
	case map[string]any:
		out, err := yaml.Marshal(val)
		if err != nil {
			return fmt.Errorf("marshaling %s: %w", key, err)
		}
		_, err = w.Write(out)
		return err
	}
	_, err := fmt.Fprintln(w, val)
	return err
}

func configPath(v *viper.Viper) string {
	if f := v.ConfigFileUsed(); f != "" {
		return f
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".igalign.yaml")
}
