// File path: cmd/flowlang/cmd_runs.go
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/nicodishanthj/flowlang/internal/catalog"
	"github.com/nicodishanthj/flowlang/internal/common"
)

func runRuns(cmd *cobra.Command, args []string) {
	logger := common.Logger()

	store, err := catalog.Open(runsCatalog)
	if err != nil {
		logger.Error("flowlang: catalog open failed", "path", runsCatalog, "error", err)
		fmt.Println("catalog error:", err)
		os.Exit(1)
	}
	defer store.Close()

	ctx := context.Background()

	if runsPrune > 0 {
		removed, err := store.Prune(ctx, runsPrune)
		if err != nil {
			fmt.Println("prune error:", err)
			os.Exit(1)
		}
		fmt.Printf("pruned %d run(s), kept the newest %d\n", removed, runsPrune)
		return
	}

	if runsStats {
		stats, err := store.Stats(ctx)
		if err != nil {
			fmt.Println("stats error:", err)
			os.Exit(1)
		}
		if len(stats) == 0 {
			fmt.Println("no runs recorded")
			return
		}
		fmt.Printf("%-12s %-6s %-9s %-10s %s\n", "TARGET", "RUNS", "SUCCESS", "AVG NODES", "AVG ELAPSED")
		for _, s := range stats {
			fmt.Printf("%-12s %-6d %-9d %-10.1f %.1fms\n",
				s.Target, s.Total, s.Succeeded, s.AvgNodes, s.AvgElapsedMS)
		}
		return
	}

	runs, err := store.ListRuns(ctx, runsLimit)
	if err != nil {
		fmt.Println("list error:", err)
		os.Exit(1)
	}
	if len(runs) == 0 {
		fmt.Println("no runs recorded")
		return
	}
	fmt.Printf("%-36s %-20s %-16s %-10s %-6s %-5s %s\n",
		"ID", "CREATED", "FLOW", "TARGET", "NODES", "OK", "ELAPSED")
	for _, run := range runs {
		flow := run.FlowName
		if flow == "" {
			flow = "-"
		}
		ok := "yes"
		if !run.Success {
			ok = "no"
		}
		fmt.Printf("%-36s %-20s %-16s %-10s %-6d %-5s %dms\n",
			run.ID, run.CreatedAt.Format("2006-01-02 15:04:05"), flow,
			run.Target, run.NodeCount, ok, run.ElapsedMS)
	}
}
