package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/eringen/folio/scaffold"
)

var (
	initName   string
	initURL    string
	initAuthor string
)

var initCmd = &cobra.Command{
	Use:               "init [dir]",
	Short:             "Write a starter folio.yaml and .env.example",
	Args:              cobra.MaximumNArgs(1),
	PersistentPreRunE: skipConfig,
	RunE: func(cmd *cobra.Command, args []string) error {
		dir := "."
		if len(args) == 1 {
			dir = args[0]
		}
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
		name := initName
		if name == "" {
			name = toTitle(baseName(dir))
		}

		created, err := scaffold.Write(dir, scaffold.Data{SiteName: name, SiteURL: initURL, Author: initAuthor})
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		for _, p := range created {
			fmt.Fprintf(out, "  created %s\n", p)
		}
		fmt.Fprintln(out)
		fmt.Fprintln(out, "Done! Next steps:")
		fmt.Fprintln(out, "  cp .env.example .env and fill in WORKSPACE_AUTH_TOKEN and the database ids")
		fmt.Fprintln(out, "  folio serve")
		return nil
	},
}

func init() {
	initCmd.Flags().StringVar(&initName, "name", "", "site name (default derived from the directory)")
	initCmd.Flags().StringVar(&initURL, "url", "http://localhost:3000", "canonical site URL")
	initCmd.Flags().StringVar(&initAuthor, "author", "", "author name")
	rootCmd.AddCommand(initCmd)
}

func baseName(dir string) string {
	if dir == "." || dir == "" {
		if wd, err := os.Getwd(); err == nil {
			dir = wd
		}
	}
	dir = strings.TrimRight(dir, "/")
	if idx := strings.LastIndex(dir, "/"); idx >= 0 {
		dir = dir[idx+1:]
	}
	return dir
}

// toTitle converts a hyphenated or lowercase name to a title-case string.
// e.g. "my-site" -> "My Site", "folio" -> "Folio"
func toTitle(s string) string {
	parts := strings.Split(s, "-")
	for i, p := range parts {
		if len(p) > 0 {
			parts[i] = strings.ToUpper(p[:1]) + p[1:]
		}
	}
	return strings.Join(parts, " ")
}
