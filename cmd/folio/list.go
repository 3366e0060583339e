package main

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/eringen/folio"
	"github.com/eringen/folio/content"
	"github.com/eringen/folio/internal/logger"
)

var listFormat string

var listCmd = &cobra.Command{
	Use:       "list posts|projects",
	Short:     "List posts or projects as the site would show them",
	Args:      cobra.ExactArgs(1),
	ValidArgs: []string{"posts", "projects"},
	RunE: func(cmd *cobra.Command, args []string) error {
		kind, ok := content.ParseKind(args[0])
		if !ok {
			return fmt.Errorf("unknown kind %q, want posts or projects", args[0])
		}
		f := newFetcher(appConfig, cliLogger())
		listing := f.ListResult(cmd.Context(), kind)
		if listing.Fallback {
			fmt.Fprintln(cmd.ErrOrStderr(), "note: showing placeholder content")
		}
		return writeSummaries(cmd.OutOrStdout(), listing.Items, listFormat)
	},
}

func init() {
	listCmd.Flags().StringVarP(&listFormat, "output", "o", "table", "output format: table or yaml")
	rootCmd.AddCommand(listCmd)
}

// cliLogger keeps recovered-failure logs out of command output unless the
// user asked for them.
func cliLogger() logger.Logger {
	if logLevel == "" {
		return logger.NewLogger("error")
	}
	return logger.NewLogger(logLevel)
}

func writeSummaries(w io.Writer, items []content.Summary, format string) error {
	switch format {
	case "yaml":
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		defer enc.Close()
		return enc.Encode(items)
	case "table", "":
		tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
		fmt.Fprintln(tw, "ID\tDATE\tTITLE\tTAGS")
		for _, s := range items {
			fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", s.ID, s.Date, s.Title, folio.JoinTags(s.Tags))
		}
		return tw.Flush()
	default:
		return fmt.Errorf("unknown output format %q", format)
	}
}
