package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"

	"github.com/xostack/xogen"
	"github.com/xostack/xogen/config"
	"github.com/xostack/xogen/metrics"
)

// globalOptions are the persistent flags shared by every subcommand.
type globalOptions struct {
	configFile  string
	envFile     string
	debug       bool
	metricsAddr string

	recorder *metrics.Recorder
	server   *http.Server
}

func newRootCmd(g *globalOptions) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "xogen",
		Short: "Unified text generation across local and hosted LLM providers",
		Long: `xogen sends prompts to Ollama, LM Studio, GitHub Models, Groq, OpenRouter,
OpenAI and Gemini through one interface.

Configuration is read from $XDG_CONFIG_HOME/xogen/config.toml (or --config),
then overridden by environment variables such as GROQ_API_KEY or XOGEN_PROVIDER.`,
		Version:       Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if err := config.LoadDotEnv(g.envFile); err != nil {
				return err
			}
			level := slog.LevelWarn
			if g.debug {
				level = slog.LevelDebug
			}
			slog.SetDefault(slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: level})))
			return g.startMetrics()
		},
	}

	rootCmd.PersistentFlags().StringVarP(&g.configFile, "config", "c", "", "config file path (default $XDG_CONFIG_HOME/xogen/config.toml)")
	rootCmd.PersistentFlags().StringVar(&g.envFile, "env-file", ".env", "dotenv file loaded before reading the environment")
	rootCmd.PersistentFlags().BoolVarP(&g.debug, "debug", "d", false, "debug logging")
	rootCmd.PersistentFlags().StringVar(&g.metricsAddr, "metrics-addr", "", "serve Prometheus metrics on this address while the command runs, e.g. :9090")

	rootCmd.AddCommand(
		newGenerateCmd(g),
		newProbeCmd(g),
		newProvidersCmd(g),
		newConfigCmd(g),
		newVersionCmd(),
	)
	return rootCmd
}

// Execute runs the root command.
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	g := &globalOptions{}
	if err := execute(ctx, newRootCmd(g), g); err != nil {
		stop()
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

// execute runs cmd and stops the metrics server afterwards, whether or not the command failed.
func execute(ctx context.Context, cmd *cobra.Command, g *globalOptions) (err error) {
	defer func() {
		if stopErr := g.stopMetrics(); stopErr != nil && err == nil {
			err = fmt.Errorf("failed to stop metrics server: %w", stopErr)
		}
	}()
	return cmd.ExecuteContext(ctx)
}

// loadConfig reads the config file and applies the environment on top.
func (g *globalOptions) loadConfig() (config.Config, error) {
	cfg, err := config.Load(g.configFile)
	if err != nil {
		return config.Config{}, err
	}
	if err := config.ApplyEnv(&cfg); err != nil {
		return config.Config{}, err
	}
	return cfg, nil
}

// clientOptions are the options every command passes to the client constructors.
func (g *globalOptions) clientOptions() []xogen.ClientOption {
	opts := []xogen.ClientOption{xogen.WithLogger(slog.Default())}
	if g.recorder != nil {
		opts = append(opts, xogen.WithMetrics(g.recorder))
	}
	return opts
}

func (g *globalOptions) startMetrics() error {
	if g.metricsAddr == "" {
		return nil
	}

	reg := prometheus.NewRegistry()
	g.recorder = metrics.NewRecorder(reg)

	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))
	g.server = &http.Server{
		Addr:              g.metricsAddr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		if err := g.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("metrics server failed", "addr", g.metricsAddr, "error", err)
		}
	}()
	slog.Debug("serving metrics", "addr", g.metricsAddr)
	return nil
}

func (g *globalOptions) stopMetrics() error {
	if g.server == nil {
		return nil
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return g.server.Shutdown(ctx)
}
