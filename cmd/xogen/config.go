package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/xostack/xogen/config"
	"github.com/xostack/xogen/provider"
)

func newConfigCmd(g *globalOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Manage the xogen configuration file",
	}
	cmd.AddCommand(newConfigInitCmd(g), newConfigPathCmd(g), newConfigShowCmd(g))
	return cmd
}

func (g *globalOptions) configPath() (string, error) {
	if g.configFile != "" {
		return g.configFile, nil
	}
	return config.GetConfigFilePath()
}

func newConfigInitCmd(g *globalOptions) *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Write a default configuration file",
		Long: `Write a default configuration file to --config or the XDG path.
Files ending in .yaml or .yml are written as YAML, anything else as TOML.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			path, err := g.configPath()
			if err != nil {
				return err
			}

			if _, err := os.Stat(path); err == nil && !force {
				return fmt.Errorf("config file already exists at %s (use --force to overwrite)", path)
			} else if err != nil && !errors.Is(err, os.ErrNotExist) {
				return fmt.Errorf("failed to check %s: %w", path, err)
			}

			if err := config.Save(path, config.Default()); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Configuration written to %s\n", path)
			return nil
		},
	}

	cmd.Flags().BoolVarP(&force, "force", "f", false, "overwrite an existing file")
	return cmd
}

func newConfigPathCmd(g *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "path",
		Short: "Print the configuration file path",
		RunE: func(cmd *cobra.Command, args []string) error {
			path, err := g.configPath()
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), path)
			return nil
		},
	}
}

func newConfigShowCmd(g *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Print the effective configuration with API keys redacted",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := g.loadConfig()
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "default_provider: %s\n", cfg.DefaultProvider)
			fmt.Fprintf(out, "request_timeout_seconds: %d\n", cfg.RequestTimeoutSeconds)
			for _, name := range cfg.Providers() {
				c := cfg.LLMs[name]
				fmt.Fprintf(out, "%s:\n", name)
				if c.BaseURL != "" {
					fmt.Fprintf(out, "  base_url: %s\n", c.BaseURL)
				}
				if c.Model != "" {
					fmt.Fprintf(out, "  model: %s\n", c.Model)
				}
				if c.APIKey != "" {
					fmt.Fprintf(out, "  api_key: %s\n", provider.Secret(c.APIKey))
				}
				if c.Referer != "" {
					fmt.Fprintf(out, "  referer: %s\n", c.Referer)
				}
			}
			return nil
		},
	}
}
