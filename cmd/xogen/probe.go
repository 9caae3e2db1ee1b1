package main

import (
	"context"
	"fmt"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/xostack/xogen"
	"github.com/xostack/xogen/config"
	"github.com/xostack/xogen/provider"
)

// probeResult is one row of the probe table.
type probeResult struct {
	Provider string
	Model    string
	OK       bool
	Elapsed  time.Duration
	Detail   string
}

func newProbeCmd(g *globalOptions) *cobra.Command {
	var parallel int

	cmd := &cobra.Command{
		Use:   "probe [provider...]",
		Short: "Check that configured providers answer a short prompt",
		Long: `Send "Hello, respond with 'OK'" to every configured provider (or the ones named)
concurrently and print which ones answered.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := g.loadConfig()
			if err != nil {
				return err
			}

			names := args
			if len(names) == 0 {
				names = cfg.Providers()
			}

			results := probeAll(cmd.Context(), cfg, names, parallel, g.clientOptions())

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "PROVIDER\tMODEL\tSTATUS\tTIME\tDETAIL")
			failed := 0
			for _, r := range results {
				status := "ok"
				if !r.OK {
					status = "failed"
					failed++
				}
				fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n", r.Provider, r.Model, status, r.Elapsed.Round(time.Millisecond), r.Detail)
			}
			if err := w.Flush(); err != nil {
				return err
			}

			if failed > 0 {
				return fmt.Errorf("%d of %d providers did not answer", failed, len(results))
			}
			return nil
		},
	}

	cmd.Flags().IntVar(&parallel, "parallel", 4, "maximum concurrent probes")
	return cmd
}

// probeAll runs TestConnection for each name. Results keep the order of names.
func probeAll(ctx context.Context, cfg config.Config, names []string, parallel int, opts []xogen.ClientOption) []probeResult {
	if ctx == nil {
		ctx = context.Background()
	}
	results := make([]probeResult, len(names))

	eg, egCtx := errgroup.WithContext(ctx)
	if parallel > 0 {
		eg.SetLimit(parallel)
	}
	for i, name := range names {
		eg.Go(func() error {
			results[i] = probeOne(egCtx, cfg, name, opts)
			return nil
		})
	}
	_ = eg.Wait()

	return results
}

func probeOne(ctx context.Context, cfg config.Config, name string, opts []xogen.ClientOption) probeResult {
	res := probeResult{Provider: name}

	llmCfg, _ := cfg.GetLLMConfig(name)
	client, err := xogen.NewClientWithDefaults(name, xogen.Config{
		Endpoint:   llmCfg.BaseURL,
		Model:      llmCfg.Model,
		Credential: provider.Secret(llmCfg.APIKey),
		Referer:    llmCfg.Referer,
	}, opts...)
	if err != nil {
		res.Detail = err.Error()
		return res
	}
	defer client.Close()

	res.Model = client.Config().Model
	res.OK = client.TestConnection(ctx)
	if history := client.History(); len(history) > 0 {
		last := history[len(history)-1]
		res.Elapsed = last.Duration
		if !res.OK {
			res.Detail = last.Error
		}
	}
	if !res.OK && res.Detail == "" {
		res.Detail = "empty response"
	}
	return res
}
