package cli

import (
	"encoding/json"
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/dgallion1/corepassmd/internal/coreid"
)

func newValidateCmd(root *rootFlags) *cobra.Command {
	var jsonOutput bool
	cmd := &cobra.Command{
		Use:   "validate <id...>",
		Short: "Check identifiers and show how they would be rendered",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts, err := root.options(cmd)
			if err != nil {
				return err
			}

			results := make([]coreid.Inspection, 0, len(args))
			ok := true
			for _, arg := range args {
				in := coreid.Inspect(arg, opts)
				ok = ok && in.Valid
				results = append(results, in)
			}

			if jsonOutput {
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				if err := enc.Encode(results); err != nil {
					return err
				}
			} else {
				printInspections(cmd, results)
			}
			if !ok {
				return ErrInvalid
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Output results in JSON format")
	return cmd
}

func printInspections(cmd *cobra.Command, results []coreid.Inspection) {
	tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
	for _, in := range results {
		if !in.Recognized {
			fmt.Fprintf(tw, "%s\tunrecognized\n", in.Input)
			continue
		}
		network := in.Network
		if network == "" {
			network = "-"
		}
		url := in.URL
		if url == "" {
			url = "-"
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n", in.Label, in.Form, in.Outcome, network, url)
		if in.Suggested != "" {
			fmt.Fprintf(tw, "\tcheck digits should read\t%s\t\t\n", in.Suggested)
		}
	}
	tw.Flush()
}
