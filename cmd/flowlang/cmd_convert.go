// File path: cmd/flowlang/cmd_convert.go
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io/fs"
	"os"
	"os/signal"
	"path/filepath"
	"sort"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/nicodishanthj/flowlang/internal/catalog"
	"github.com/nicodishanthj/flowlang/internal/common"
	"github.com/nicodishanthj/flowlang/internal/emitter"
	"github.com/nicodishanthj/flowlang/internal/ir"
	"github.com/nicodishanthj/flowlang/internal/llm"
	"github.com/nicodishanthj/flowlang/internal/pipeline"
	"github.com/nicodishanthj/flowlang/internal/review"
	"github.com/nicodishanthj/flowlang/internal/schema"
)

func runConvert(cmd *cobra.Command, args []string) {
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

	refs, err := collectFlowRefs(args)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	if len(refs) == 0 {
		fmt.Println("no flow documents found")
		os.Exit(1)
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
	var reviewer *review.Reviewer
	if withReview {
		provider := llm.NewProvider()
		logger.Info("flowlang: review provider ready", "provider", provider.Name())
		reviewer = review.NewReviewer(provider)
	}

	workers := workerCount
	if workers < 1 {
		workers = 1
	}
	results := make([]*pipeline.Result, len(refs))
	eg, egctx := errgroup.WithContext(ctx)
	eg.SetLimit(workers)
	for i, ref := range refs {
		i, ref := i, ref
		eg.Go(func() error {
			if err := egctx.Err(); err != nil {
				return err
			}
			results[i] = convertRef(egctx, ref, target)
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		logger.Warn("flowlang: conversion batch interrupted", "error", err)
	}

	failed := 0
	for i, ref := range refs {
		res := results[i]
		if res == nil {
			failed++
			continue
		}
		ok := res.Success && (!strictMode || len(res.Warnings) == 0)
		if !ok {
			failed++
		}
		if reviewer != nil && res.Success {
			notes, reviewErr := reviewer.Review(ctx, res)
			if reviewErr != nil {
				logger.Warn("flowlang: review skipped", "ref", ref, "error", reviewErr)
			} else {
				res.Warnings = append(res.Warnings, notes...)
			}
		}
		if store != nil {
			if recErr := store.RecordRun(ctx, catalog.NewRun("cli", res)); recErr != nil {
				logger.Warn("flowlang: history not recorded", "ref", ref, "error", recErr)
			}
		}
		reportResult(ref, res)
		if err := renderResult(ref, res, target); err != nil {
			fmt.Fprintln(os.Stderr, err)
			failed++
		}
	}

	if failed > 0 {
		fmt.Fprintf(os.Stderr, "%d of %d document(s) failed\n", failed, len(refs))
		os.Exit(1)
	}
}

// convertRef loads one document reference and runs the pipeline on
// it. Load failures come back as a failed result so callers handle
// both shapes the same way.
func convertRef(ctx context.Context, ref string, target ir.Target) *pipeline.Result {
	data, name, err := pipeline.Load(ctx, ref, int64(maxDocBytes))
	if err != nil {
		res := &pipeline.Result{}
		res.Errors = append(res.Errors, pipeline.LoadIssue(err))
		res.Metadata.FlowName = flowNameFor(name)
		res.Metadata.Target = target
		return res
	}
	return pipeline.Convert(data, pipeline.Options{
		Target:     target,
		FlowName:   flowNameFor(name),
		Validation: schema.Options{MaxBytes: maxDocBytes},
	})
}

// collectFlowRefs expands the argument list into concrete document
// references: URLs pass through, files are kept as given, directories
// contribute every .json file underneath them.
func collectFlowRefs(args []string) ([]string, error) {
	var refs []string
	for _, arg := range args {
		if strings.Contains(arg, "://") {
			refs = append(refs, arg)
			continue
		}
		info, err := os.Stat(arg)
		if err != nil {
			return nil, fmt.Errorf("stat %s: %w", arg, err)
		}
		if !info.IsDir() {
			refs = append(refs, arg)
			continue
		}
		var found []string
		err = filepath.WalkDir(arg, func(p string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if d.IsDir() {
				if strings.HasPrefix(d.Name(), ".") && p != arg {
					return filepath.SkipDir
				}
				return nil
			}
			if strings.EqualFold(filepath.Ext(p), ".json") {
				found = append(found, p)
			}
			return nil
		})
		if err != nil {
			return nil, fmt.Errorf("walk %s: %w", arg, err)
		}
		sort.Strings(found)
		refs = append(refs, found...)
	}
	return refs, nil
}

// reportResult prints the one-line status for a document.
func reportResult(ref string, res *pipeline.Result) {
	status := "ok"
	if !res.Success {
		status = "failed"
	}
	fmt.Fprintf(os.Stderr, "%s: %s (%d/%d nodes, %d error(s), %d warning(s), %s)\n",
		ref, status,
		res.Metadata.Converted, res.Metadata.Total,
		len(res.Errors), len(res.Warnings),
		res.Metadata.Elapsed.Round(time.Microsecond))
	for _, issue := range res.Errors {
		fmt.Fprintf(os.Stderr, "  error   %-20s %s\n", issue.Code, issue.Message)
	}
	for _, issue := range res.Warnings {
		fmt.Fprintf(os.Stderr, "  warning %-20s %s\n", issue.Code, issue.Message)
	}
}

func validOutputFormat(f string) bool {
	return f == "code" || f == "json" || f == "deps"
}

// renderResult writes the generated code, the full result as JSON, or
// the dependency manifest to stdout or to a per-document file under
// the output directory.
func renderResult(ref string, res *pipeline.Result, target ir.Target) error {
	var payload []byte
	switch outputFormat {
	case "json":
		encoded, err := json.MarshalIndent(res, "", "  ")
		if err != nil {
			return fmt.Errorf("encode result for %s: %w", ref, err)
		}
		payload = append(encoded, '\n')
	case "deps":
		manifest := emitter.Dependencies(res.Dependencies, target)
		if manifest == "" {
			return nil
		}
		payload = []byte(manifest)
	default:
		if res.Code == "" {
			return nil
		}
		payload = []byte(res.Code)
	}

	if outDir == "" {
		_, err := os.Stdout.Write(payload)
		return err
	}
	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return fmt.Errorf("create output dir: %w", err)
	}
	out := filepath.Join(outDir, outputName(ref, target))
	if err := os.WriteFile(out, payload, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", out, err)
	}
	fmt.Fprintf(os.Stderr, "  wrote %s\n", out)
	return nil
}

func outputName(ref string, target ir.Target) string {
	base := flowNameFor(filepath.Base(ref))
	if base == "" {
		base = "flow"
	}
	switch outputFormat {
	case "json":
		return base + ".result.json"
	case "deps":
		if target == ir.TargetPython {
			return base + ".requirements.txt"
		}
		return base + ".package.json"
	}
	if target == ir.TargetPython {
		return base + ".py"
	}
	return base + ".ts"
}

func flowNameFor(name string) string {
	return strings.TrimSuffix(name, filepath.Ext(name))
}

func parseTarget(lang string) (ir.Target, error) {
	switch strings.ToLower(strings.TrimSpace(lang)) {
	case "", "typescript", "ts":
		return ir.TargetTypeScript, nil
	case "python", "py":
		return ir.TargetPython, nil
	default:
		return "", fmt.Errorf("unknown language %q (use typescript or python)", lang)
	}
}

// openHistory opens the run catalog when a path was given. Failures
// disable history instead of aborting the conversion.
func openHistory(path string) *catalog.Store {
	trimmed := strings.TrimSpace(path)
	if trimmed == "" {
		return nil
	}
	store, err := catalog.Open(trimmed)
	if err != nil {
		common.Logger().Warn("flowlang: history disabled", "path", trimmed, "error", err)
		return nil
	}
	return store
}
