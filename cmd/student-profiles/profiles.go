package main

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/aanand-mishra/student-profiles/internal/comments"
	"github.com/aanand-mishra/student-profiles/internal/search"
	"github.com/aanand-mishra/student-profiles/internal/types"
)

var searchFlags search.Criteria

var profilesCmd = &cobra.Command{
	Use:   "profiles",
	Short: "Search, inspect, comment on and delete student profiles",
	Long: `Work with stored student profiles.

Subcommands:
  list     - List profiles, optionally filtered
  show     - Show one profile with its comment history
  comment  - Add a dated comment to a profile
  delete   - Delete a profile`,
	RunE: runProfilesList,
}

var profilesListCmd = &cobra.Command{
	Use:   "list",
	Short: "List profiles, optionally filtered",
	Args:  cobra.NoArgs,
	RunE:  runProfilesList,
}

var profilesShowCmd = &cobra.Command{
	Use:   "show <full name>",
	Short: "Show one profile",
	Args:  cobra.ExactArgs(1),
	RunE:  runProfilesShow,
}

var profilesCommentCmd = &cobra.Command{
	Use:   "comment <full name> <text...>",
	Short: "Add a comment stamped with today's date",
	Args:  cobra.MinimumNArgs(2),
	RunE:  runProfilesComment,
}

var profilesDeleteCmd = &cobra.Command{
	Use:   "delete <full name>",
	Short: "Delete a profile",
	Args:  cobra.ExactArgs(1),
	RunE:  runProfilesDelete,
}

func init() {
	for _, c := range []*cobra.Command{profilesCmd, profilesListCmd} {
		f := c.Flags()
		f.StringVar(&searchFlags.Name, "name", "", "part of the full name")
		f.StringVar(&searchFlags.Status, "status", "", "academic status")
		f.StringVar(&searchFlags.Language, "language", "", "programming language")
		f.StringVar(&searchFlags.Database, "database", "", "database")
		f.StringVar(&searchFlags.Role, "role", "", "preferred role")
	}

	profilesCmd.AddCommand(profilesListCmd)
	profilesCmd.AddCommand(profilesShowCmd)
	profilesCmd.AddCommand(profilesCommentCmd)
	profilesCmd.AddCommand(profilesDeleteCmd)
}

func runProfilesList(cmd *cobra.Command, args []string) error {
	st, err := openState()
	if err != nil {
		return err
	}
	defer st.Close()

	out := cmd.OutOrStdout()
	found := st.profiles.Search(searchFlags)
	if len(found) == 0 {
		if searchFlags.Empty() {
			fmt.Fprintln(out, "No stored profiles yet.")
		} else {
			fmt.Fprintln(out, "No profiles match the current filters.")
		}
		return nil
	}

	writeProfileTable(out, found)
	fmt.Fprintf(out, "\nShowing %d profile(s).\n", len(found))
	return nil
}

func runProfilesShow(cmd *cobra.Command, args []string) error {
	st, err := openState()
	if err != nil {
		return err
	}
	defer st.Close()

	p, err := st.profiles.Get(args[0])
	if err != nil {
		return err
	}
	writeProfile(cmd.OutOrStdout(), p)
	return nil
}

func runProfilesComment(cmd *cobra.Command, args []string) error {
	st, err := openState()
	if err != nil {
		return err
	}
	defer st.Close()

	p, err := st.profiles.AddComment(args[0], strings.Join(args[1:], " "))
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Added comment for %s.\n", p.FullName)
	return nil
}

func runProfilesDelete(cmd *cobra.Command, args []string) error {
	st, err := openState()
	if err != nil {
		return err
	}
	defer st.Close()

	if err := st.profiles.Delete(args[0]); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Deleted profile for %s.\n", strings.TrimSpace(args[0]))
	return nil
}

// writeProfileTable prints one row per profile.
func writeProfileTable(out io.Writer, profiles []types.StudentProfile) {
	tw := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "NAME\tSTATUS\tJOB\tLANGUAGES\tDATABASES\tROLE\tFLAG")
	for _, p := range profiles {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\t%s\n",
			p.FullName,
			p.AcademicStatus,
			p.JobStatusLabel(),
			p.FormatLanguages(),
			p.FormatDatabases(),
			p.PreferredRole,
			p.FlagLabel(),
		)
	}
	tw.Flush()
}

// writeProfile prints every field of p followed by its comments.
func writeProfile(out io.Writer, p types.StudentProfile) {
	tw := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintf(tw, "Full Name:\t%s\n", p.FullName)
	fmt.Fprintf(tw, "Academic Status:\t%s\n", p.AcademicStatus)
	fmt.Fprintf(tw, "Job Status:\t%s\n", p.JobStatusLabel())
	fmt.Fprintf(tw, "Job Details:\t%s\n", p.JobDetailsDisplay())
	fmt.Fprintf(tw, "Languages:\t%s\n", p.FormatLanguages())
	fmt.Fprintf(tw, "Databases:\t%s\n", p.FormatDatabases())
	fmt.Fprintf(tw, "Preferred Role:\t%s\n", p.PreferredRole)
	fmt.Fprintf(tw, "Whitelist:\t%s\n", p.WhitelistLabel())
	fmt.Fprintf(tw, "Blacklist:\t%s\n", p.BlacklistLabel())
	tw.Flush()

	entries := comments.Entries(p.Comments)
	if len(entries) == 0 {
		fmt.Fprintln(out, "\nNo comments recorded yet.")
		return
	}
	fmt.Fprintln(out, "\nComments:")
	fmt.Fprintln(out, p.FormatComments())
}
