package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var languagesCmd = &cobra.Command{
	Use:   "languages",
	Short: "List or define programming languages",
	Long: `List and define the programming languages students can be profiled with.

Subcommands:
  list   - List defined languages
  add    - Define a new language`,
	RunE: runLanguagesList,
}

var languagesListCmd = &cobra.Command{
	Use:   "list",
	Short: "List defined languages",
	Args:  cobra.NoArgs,
	RunE:  runLanguagesList,
}

var languagesAddCmd = &cobra.Command{
	Use:   "add <name>",
	Short: "Define a new programming language",
	Args:  cobra.ExactArgs(1),
	RunE:  runLanguagesAdd,
}

func init() {
	languagesCmd.AddCommand(languagesListCmd)
	languagesCmd.AddCommand(languagesAddCmd)
}

func runLanguagesList(cmd *cobra.Command, args []string) error {
	st, err := openState()
	if err != nil {
		return err
	}
	defer st.Close()

	out := cmd.OutOrStdout()
	names := st.languages.Names()
	if len(names) == 0 {
		fmt.Fprintln(out, "No languages defined.")
		return nil
	}
	for _, name := range names {
		fmt.Fprintln(out, name)
	}
	return nil
}

func runLanguagesAdd(cmd *cobra.Command, args []string) error {
	st, err := openState()
	if err != nil {
		return err
	}
	defer st.Close()

	lang, err := st.languages.Add(args[0])
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Saved programming language: %s\n", lang.Name)
	return nil
}
