// File path: cmd/flowlang/cmd_watch.go
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/nicodishanthj/flowlang/internal/catalog"
	"github.com/nicodishanthj/flowlang/internal/common"
	"github.com/nicodishanthj/flowlang/internal/watch"
)

func runWatch(cmd *cobra.Command, args []string) {
	logger := common.Logger()

	target, err := parseTarget(langName)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}
	if !validOutputFormat(outputFormat) {
		fmt.Fprintf(os.Stderr, "unknown format %q (use code, json, or deps)\n", outputFormat)
		os.Exit(2)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigCh
		cancel()
	}()

	store := openHistory(historyPath)
	if store != nil {
		defer store.Close()
	}

	handler := func(paths []string) {
		for _, p := range paths {
			res := convertRef(ctx, p, target)
			if store != nil {
				if recErr := store.RecordRun(ctx, catalog.NewRun("watch", res)); recErr != nil {
					logger.Warn("flowlang: history not recorded", "path", p, "error", recErr)
				}
			}
			reportResult(p, res)
			if renderErr := renderResult(p, res, target); renderErr != nil {
				fmt.Fprintln(os.Stderr, renderErr)
			}
		}
	}

	watcher, err := watch.New(args[0], handler, &watch.Options{Debounce: watchDebounce})
	if err != nil {
		logger.Error("flowlang: watch setup failed", "root", args[0], "error", err)
		fmt.Println("watch error:", err)
		os.Exit(1)
	}
	if err := watcher.Start(ctx); err != nil {
		logger.Error("flowlang: watch start failed", "root", args[0], "error", err)
		fmt.Println("watch error:", err)
		os.Exit(1)
	}
	defer watcher.Stop()

	logger.Info("flowlang: watching for changes", "root", args[0], "debounce", watchDebounce)
	fmt.Printf("Watching %s (Ctrl+C to stop)\n", args[0])
	<-ctx.Done()
	fmt.Println("watch stopped")
}
