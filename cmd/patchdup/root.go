package main

import (
	"github.com/spf13/cobra"
)

var (
	outputFormat string // text, table, markdown, github
	repoPath     string
	configPath   string
)

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "patchdup",
		Short: "Detect duplicated code introduced by a patch or commit range",
		Long: `patchdup analyzes the files changed by a pull request for duplicated
or near-duplicated code blocks introduced by the change itself, without
scanning the rest of the repository.`,
	}

	root.PersistentFlags().StringVar(&repoPath, "repo", ".", "path to the git repository")
	root.PersistentFlags().StringVar(&configPath, "config", "", "path to a patchdup.yaml config file (defaults to auto-discovery)")
	root.PersistentFlags().StringVar(&outputFormat, "format", "text", "output format: text, table, markdown, github")

	root.AddCommand(newScanCmd())
	root.AddCommand(newCompareCmd())
	return root
}
