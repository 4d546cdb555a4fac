package main

import (
	"fmt"
	"os"

	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"

	dupcache "github.com/patchdup/patchdup/internal/cache"
	"github.com/patchdup/patchdup/internal/config"
	"github.com/patchdup/patchdup/internal/gitdiff"
	"github.com/patchdup/patchdup/internal/render"
	"github.com/patchdup/patchdup/pkg/dup"
)

func newScanCmd() *cobra.Command {
	var baseRef string

	cmd := &cobra.Command{
		Use:   "scan [head-ref]",
		Short: "Analyze the files changed between a base ref and a head ref",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			headRef := "HEAD"
			if len(args) == 1 {
				headRef = args[0]
			}
			return runScan(repoPath, baseRef, headRef)
		},
	}

	cmd.Flags().StringVar(&baseRef, "base", "HEAD~1", "base ref to diff against")
	return cmd
}

func runScan(repoPath, baseRef, headRef string) error {
	cfg := config.LoadOrDefault(repoPath)
	if configPath != "" {
		loaded, err := config.Load(configPath)
		if err != nil {
			return err
		}
		cfg = loaded
	}

	bar := progressbar.NewOptions(-1,
		progressbar.OptionSetDescription("diffing "+baseRef+".."+headRef),
		progressbar.OptionSpinnerType(14),
	)
	files, err := gitdiff.Diff(repoPath, baseRef, headRef)
	_ = bar.Finish()
	if err != nil {
		return fmt.Errorf("scan: %w", err)
	}

	fileCache := dupcache.Load(repoPath, headRef)
	files, hits := dupcache.Reconcile(fileCache, files)
	if hits > 0 {
		fmt.Fprintf(os.Stderr, "%d/%d files unchanged since last run\n", hits, len(files))
	}
	dupcache.Save(repoPath, headRef, files)

	report := dup.New(cfg.Options()...).Analyze(files)
	report.DuplicateBlocks = config.FilterIgnored(report.DuplicateBlocks, cfg.IgnoreSet())

	return renderReport(report)
}

func renderReport(report dup.DuplicationReport) error {
	switch outputFormat {
	case "table":
		render.Table(os.Stdout, report)
		return nil
	case "markdown":
		return render.Markdown(os.Stdout, report, "go")
	case "github":
		render.GitHubAnnotations(os.Stdout, report, "warning", nil)
		return nil
	default:
		render.Summary(os.Stdout, report)
		return nil
	}
}
