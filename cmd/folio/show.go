package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/eringen/folio/blocks"
	"github.com/eringen/folio/content"
)

var showHTML bool

var showCmd = &cobra.Command{
	Use:   "show post|project <id>",
	Short: "Resolve one item and print its summary and render outcome",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		kind, ok := content.ParseKind(args[0])
		if !ok {
			return fmt.Errorf("unknown kind %q, want post or project", args[0])
		}
		f := newFetcher(appConfig, cliLogger())
		st := f.Page(cmd.Context(), kind, args[1])

		out := cmd.OutOrStdout()
		report := struct {
			Outcome string           `yaml:"outcome"`
			Summary *content.Summary `yaml:"summary,omitempty"`
			Content string           `yaml:"content_error,omitempty"`
		}{Outcome: st.Outcome().String()}
		if st.Found {
			report.Summary = &st.Summary
		}
		if st.ContentErr != nil {
			report.Content = st.ContentErr.Error()
		}
		enc := yaml.NewEncoder(out)
		enc.SetIndent(2)
		if err := enc.Encode(report); err != nil {
			return err
		}
		if err := enc.Close(); err != nil {
			return err
		}

		if showHTML && st.Outcome() == content.OutcomeFull {
			fmt.Fprintln(out, "---")
			if err := blocks.Render(st.Detail).Render(cmd.Context(), out); err != nil {
				return err
			}
			fmt.Fprintln(out)
		}
		if st.Outcome() == content.OutcomeNotFound {
			return fmt.Errorf("%s %s not found", kind, args[1])
		}
		return nil
	},
}

func init() {
	showCmd.Flags().BoolVar(&showHTML, "html", false, "also print the rendered body")
	rootCmd.AddCommand(showCmd)
}
