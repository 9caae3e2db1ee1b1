package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/xostack/xogen"
	"github.com/xostack/xogen/config"
	"github.com/xostack/xogen/provider"
)

type generateOptions struct {
	provider    string
	model       string
	temperature float64
	maxTokens   int
	topP        float64
	timeout     time.Duration
	stats       bool
}

func newGenerateCmd(g *globalOptions) *cobra.Command {
	o := &generateOptions{}

	cmd := &cobra.Command{
		Use:   "generate [prompt]",
		Short: "Send a prompt to a provider and print the response",
		Long: `Send a prompt to the default provider (or --provider) and print the response.

When no prompt argument is given the prompt is read from standard input.`,
		Example: `  xogen generate "Write a haiku about channels"
  echo "Summarize this" | xogen generate --provider ollama --model llama3`,
		Args: cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			prompt, err := readPrompt(cmd.InOrStdin(), args)
			if err != nil {
				return err
			}

			cfg, err := g.loadConfig()
			if err != nil {
				return err
			}
			if o.provider != "" {
				cfg.DefaultProvider = string(provider.Normalize(o.provider))
				if _, ok := cfg.GetLLMConfig(cfg.DefaultProvider); !ok {
					cfg.SetLLMConfig(cfg.DefaultProvider, config.LLMConfig{})
				}
			}
			if o.model != "" {
				section, _ := cfg.GetLLMConfig(cfg.DefaultProvider)
				section.Model = o.model
				cfg.SetLLMConfig(cfg.DefaultProvider, section)
			}

			client, err := xogen.GetClient(cfg, g.debug, g.clientOptions()...)
			if err != nil {
				return err
			}
			defer client.Close()

			var genOpts []xogen.GenerateOption
			flags := cmd.Flags()
			if flags.Changed("temperature") {
				genOpts = append(genOpts, xogen.WithTemperature(o.temperature))
			}
			if flags.Changed("max-tokens") {
				genOpts = append(genOpts, xogen.WithMaxTokens(o.maxTokens))
			}
			if flags.Changed("top-p") {
				genOpts = append(genOpts, xogen.WithTopP(o.topP))
			}
			if flags.Changed("timeout") {
				genOpts = append(genOpts, xogen.WithTimeout(o.timeout))
			}

			text, genErr := client.Generate(cmd.Context(), prompt, genOpts...)
			if genErr == nil {
				fmt.Fprintln(cmd.OutOrStdout(), text)
			}

			if o.stats {
				enc := json.NewEncoder(cmd.ErrOrStderr())
				enc.SetIndent("", "  ")
				if err := enc.Encode(client.Stats()); err != nil {
					return fmt.Errorf("failed to encode stats: %w", err)
				}
			}
			return genErr
		},
	}

	f := cmd.Flags()
	f.StringVarP(&o.provider, "provider", "p", "", "provider to use instead of default_provider")
	f.StringVarP(&o.model, "model", "m", "", "model override")
	f.Float64Var(&o.temperature, "temperature", 0.7, "sampling temperature (0-2)")
	f.IntVar(&o.maxTokens, "max-tokens", 4000, "maximum tokens to generate")
	f.Float64Var(&o.topP, "top-p", 0.9, "nucleus sampling (0-1)")
	f.DurationVar(&o.timeout, "timeout", 0, "per-call timeout (default from config, else 2m)")
	f.BoolVar(&o.stats, "stats", false, "print generation stats as JSON to stderr")

	return cmd
}

func readPrompt(stdin io.Reader, args []string) (string, error) {
	if len(args) > 0 {
		return strings.Join(args, " "), nil
	}
	data, err := io.ReadAll(stdin)
	if err != nil {
		return "", fmt.Errorf("failed to read prompt from stdin: %w", err)
	}
	prompt := strings.TrimSpace(string(data))
	if prompt == "" {
		return "", errors.New("no prompt given: pass it as an argument or on stdin")
	}
	return prompt, nil
}
