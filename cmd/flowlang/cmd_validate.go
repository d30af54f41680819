// File path: cmd/flowlang/cmd_validate.go
package main

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/nicodishanthj/flowlang/internal/diag"
	"github.com/nicodishanthj/flowlang/internal/pipeline"
	"github.com/nicodishanthj/flowlang/internal/schema"
)

func runValidate(cmd *cobra.Command, args []string) {
	ref := args[0]
	data, name, err := pipeline.Load(context.Background(), ref, int64(maxDocBytes))
	if err != nil {
		issue := pipeline.LoadIssue(err)
		printIssue("error", issue)
		os.Exit(1)
	}

	report, analysis := pipeline.Validate(data, schema.Options{MaxBytes: maxDocBytes})

	fmt.Printf("%s: dialect %s, %d node(s), %d edge(s)\n",
		name, report.Version.Version, report.NodeCount, report.EdgeCount)
	if analysis != nil && analysis.Valid {
		if len(analysis.EntryPoints) > 0 {
			fmt.Printf("entry points: %s\n", strings.Join(analysis.EntryPoints, ", "))
		}
		fmt.Printf("complexity: %s\n", analysis.Complexity)
	}

	for _, issue := range report.Errors {
		printIssue("error", issue)
	}
	for _, issue := range report.Warnings {
		printIssue("warning", issue)
	}

	if !report.Valid {
		fmt.Printf("invalid: %d error(s)\n", len(report.Errors))
		os.Exit(1)
	}
	fmt.Printf("valid: %d warning(s)\n", len(report.Warnings))
}

func printIssue(severity string, issue diag.Issue) {
	loc := issue.NodeID
	if loc == "" {
		loc = issue.Path
	}
	if loc == "" {
		loc = "-"
	}
	fmt.Printf("%-8s %-12s %-22s %-24s %s\n",
		severity, issue.Kind, issue.Code, loc, issue.Message)
	if issue.Suggestion != "" {
		fmt.Printf("%-8s %s\n", "", issue.Suggestion)
	}
}
