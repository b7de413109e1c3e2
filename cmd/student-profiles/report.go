package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/aanand-mishra/student-profiles/internal/http/handlers/report"
	"github.com/aanand-mishra/student-profiles/internal/search"
)

var reportFormat string

var reportCmd = &cobra.Command{
	Use:       "report <whitelist|blacklist>",
	Short:     "Show whitelisted or blacklisted students",
	Args:      cobra.ExactArgs(1),
	ValidArgs: []string{string(search.Whitelist), string(search.Blacklist)},
	RunE:      runReport,
}

func init() {
	reportCmd.Flags().StringVar(&reportFormat, "format", "text", "output format: text or yaml")
}

func runReport(cmd *cobra.Command, args []string) error {
	kind, err := search.ParseReportKind(args[0])
	if err != nil {
		return err
	}
	if reportFormat != "text" && reportFormat != "yaml" {
		return fmt.Errorf("unknown format %q (want text or yaml)", reportFormat)
	}

	st, err := openState()
	if err != nil {
		return err
	}
	defer st.Close()

	out := cmd.OutOrStdout()
	doc := report.NewDocument(kind, st.profiles.Report(kind))

	if reportFormat == "yaml" {
		enc := yaml.NewEncoder(out)
		enc.SetIndent(2)
		if err := enc.Encode(doc); err != nil {
			return err
		}
		return enc.Close()
	}

	fmt.Fprintln(out, doc.Title)
	if doc.Count == 0 {
		fmt.Fprintln(out, "No students match the selected report.")
		return nil
	}
	writeProfileTable(out, doc.Students)
	fmt.Fprintf(out, "\nShowing %d student(s) marked as %s.\n", doc.Count, kind)
	return nil
}
