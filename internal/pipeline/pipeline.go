// File path: internal/pipeline/pipeline.go
package pipeline

import (
	"fmt"
	"strings"
	"time"

	"github.com/nicodishanthj/flowlang/internal/common"
	"github.com/nicodishanthj/flowlang/internal/converter"
	"github.com/nicodishanthj/flowlang/internal/diag"
	"github.com/nicodishanthj/flowlang/internal/emitter"
	"github.com/nicodishanthj/flowlang/internal/graph"
	"github.com/nicodishanthj/flowlang/internal/ir"
	"github.com/nicodishanthj/flowlang/internal/schema"
)

// Options configures one conversion run. The zero value converts to
// TypeScript with default validation and the built-in registry.
type Options struct {
	Target     ir.Target
	Validation schema.Options
	Registry   *converter.Registry
	FlowName   string
}

// Metadata summarizes a run for callers that never look at the code.
type Metadata struct {
	FlowName   string           `json:"flow_name,omitempty"`
	Version    schema.Version   `json:"version"`
	Target     ir.Target        `json:"target"`
	NodeCount  int              `json:"node_count"`
	EdgeCount  int              `json:"edge_count"`
	Complexity graph.Complexity `json:"complexity,omitempty"`
	Converted  int              `json:"converted"`
	Total      int              `json:"total"`
	Elapsed    time.Duration    `json:"elapsed"`
}

// Result is the caller-facing outcome of a conversion. Success is
// false whenever Errors is non-empty; Warnings never block. On a
// partial conversion the code covers the nodes that did convert and
// Errors names the rest.
type Result struct {
	Success      bool          `json:"success"`
	Code         string        `json:"code,omitempty"`
	Dependencies []string      `json:"dependencies,omitempty"`
	Fragments    []ir.Fragment `json:"fragments,omitempty"`
	Errors       []diag.Issue  `json:"errors,omitempty"`
	Warnings     []diag.Issue  `json:"warnings,omitempty"`
	Metadata     Metadata      `json:"metadata"`
}

// Convert runs the full pipeline on raw document bytes: validate,
// detect the dialect, analyze the graph, assemble fragments, emit
// source text. Each call is self-contained, so concurrent conversions
// need no coordination.
func Convert(data []byte, opts Options) *Result {
	start := time.Now()
	logger := common.Logger()

	target := opts.Target
	if target == "" {
		target = ir.TargetTypeScript
	}
	res := &Result{Metadata: Metadata{FlowName: opts.FlowName, Target: target}}
	finish := func() *Result {
		res.Metadata.Elapsed = time.Since(start)
		res.Success = len(res.Errors) == 0
		return res
	}

	doc, report := schema.Validate(data, opts.Validation)
	res.Metadata.Version = report.Version.Version
	res.Metadata.NodeCount = report.NodeCount
	res.Metadata.EdgeCount = report.EdgeCount
	res.Warnings = append(res.Warnings, report.Warnings...)
	if !report.Valid || doc == nil {
		res.Errors = append(res.Errors, report.Errors...)
		logger.Warn("pipeline: validation failed",
			"flow", opts.FlowName, "errors", len(res.Errors))
		return finish()
	}

	g := graph.FromDocument(doc)
	analysis := graph.Analyze(g)
	res.Metadata.Complexity = analysis.Complexity
	if !analysis.Valid {
		res.Errors = append(res.Errors, structureIssues(analysis)...)
		diag.Sort(res.Errors)
		logger.Warn("pipeline: structural analysis failed",
			"flow", opts.FlowName,
			"cycles", len(analysis.Cycles),
			"dangling", len(analysis.Dangling),
			"orphans", len(analysis.OrphanedNodes))
		return finish()
	}
	if analysis.Complexity == graph.ComplexityComplex {
		res.Warnings = append(res.Warnings, diag.New(diag.KindStructure, diag.CodeComplexFlow,
			fmt.Sprintf("flow has %d nodes and %d edges; consider splitting it",
				analysis.NodeCount, analysis.EdgeCount)))
	}

	registry := opts.Registry
	if registry == nil {
		registry = converter.Default()
	}
	gctx := ir.NewContext(g, report.Version.Version, target)
	asm, err := ir.Assemble(g, registry, gctx)
	res.Fragments = asm.Fragments
	res.Dependencies = asm.Dependencies
	res.Metadata.Converted = asm.Converted
	res.Metadata.Total = asm.Total
	res.Warnings = append(res.Warnings, gctx.Warnings()...)
	if err != nil {
		res.Errors = append(res.Errors, asm.Issues...)
		logger.Warn("pipeline: assembly incomplete",
			"flow", opts.FlowName,
			"converted", asm.Converted, "total", asm.Total, "error", err)
	}
	if len(asm.Fragments) > 0 {
		res.Code = emitter.Emit(asm, emitter.Options{Target: target, FlowName: opts.FlowName})
	}
	if err == nil {
		logger.Info("pipeline: conversion complete",
			"flow", opts.FlowName,
			"nodes", asm.Total,
			"target", string(target),
			"elapsed", time.Since(start))
	}
	return finish()
}

// Validate runs only the schema and structural stages, for callers
// that want diagnostics without generation.
func Validate(data []byte, opts schema.Options) (*schema.Report, *graph.Analysis) {
	doc, report := schema.Validate(data, opts)
	if !report.Valid || doc == nil {
		return report, nil
	}
	g := graph.FromDocument(doc)
	analysis := graph.Analyze(g)
	if !analysis.Valid {
		report.Errors = append(report.Errors, structureIssues(analysis)...)
		report.Valid = false
		diag.Sort(report.Errors)
	}
	return report, analysis
}

// structureIssues converts the analyzer's findings into diagnostics,
// one per cycle, dangling edge, and orphaned node.
func structureIssues(analysis *graph.Analysis) []diag.Issue {
	var out []diag.Issue
	for _, cycle := range analysis.Cycles {
		issue := diag.New(diag.KindStructure, diag.CodeCycle,
			fmt.Sprintf("cycle detected: %s", strings.Join(cycle, " -> ")))
		issue.NodeID = cycle[0]
		out = append(out, issue)
	}
	for _, d := range analysis.Dangling {
		missing := d.Target
		if d.MissingSource {
			missing = d.Source
		}
		issue := diag.New(diag.KindStructure, diag.CodeDanglingEdge,
			fmt.Sprintf("edge %q references missing node %q", d.EdgeID, missing))
		issue.NodeID = missing
		out = append(out, issue)
	}
	for _, id := range analysis.OrphanedNodes {
		issue := diag.New(diag.KindStructure, diag.CodeOrphanNode,
			fmt.Sprintf("node %q is not connected to the rest of the flow", id))
		issue.NodeID = id
		out = append(out, issue)
	}
	return out
}
