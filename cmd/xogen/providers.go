package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/xostack/xogen/provider"
)

func newProvidersCmd(g *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "providers",
		Short: "List supported providers and their defaults",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := g.loadConfig()
			if err != nil {
				return err
			}

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "PROVIDER\tSHAPE\tDEFAULT MODEL\tENDPOINT\tCREDENTIAL\tCONFIGURED")
			for _, p := range provider.All() {
				endpoint := p.DefaultEndpoint
				if endpoint == "" {
					endpoint = "-"
				}
				credential := "no"
				if p.CredentialRequired {
					credential = "required"
				}
				configured := "no"
				if _, ok := cfg.GetLLMConfig(string(p.ID)); ok {
					configured = "yes"
					if p.ID == provider.Normalize(cfg.DefaultProvider) {
						configured = "default"
					}
				}
				fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\n", p.ID, p.Shape, p.DefaultModel, endpoint, credential, configured)
			}
			return w.Flush()
		},
	}
}
