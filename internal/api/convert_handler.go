// File path: internal/api/convert_handler.go
package api

import (
	"encoding/json"
	"io"
	"net/http"
	"time"

	"github.com/nicodishanthj/flowlang/internal/catalog"
	"github.com/nicodishanthj/flowlang/internal/common"
	"github.com/nicodishanthj/flowlang/internal/ir"
	"github.com/nicodishanthj/flowlang/internal/pipeline"
	"github.com/nicodishanthj/flowlang/internal/schema"
)

func (s *Server) handleConvert(w http.ResponseWriter, r *http.Request) {
	logger := common.Logger()
	ctx := r.Context()
	var req convertRequest
	if err := json.NewDecoder(io.LimitReader(r.Body, int64(s.cfg.MaxDocumentBytes)+4096)).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	if err := req.Validate(); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	target := ir.Target(req.Target)
	if target == "" {
		target = ir.TargetTypeScript
	}
	logger.Info("api: convert request", "flow", req.FlowName, "target", string(target),
		"bytes", len(req.Flow), "review", req.Review)

	start := time.Now()
	res := pipeline.Convert(req.Flow, pipeline.Options{
		Target:     target,
		FlowName:   req.FlowName,
		Registry:   s.registry,
		Validation: schema.Options{MaxBytes: s.cfg.MaxDocumentBytes},
	})
	observeConversion(string(target), res.Success, time.Since(start))

	if req.Review && s.reviewer != nil && res.Success {
		notes, err := s.reviewer.Review(ctx, res)
		if err != nil {
			logger.Warn("api: review failed", "error", err)
		} else {
			res.Warnings = append(res.Warnings, notes...)
		}
	}
	if s.catalog != nil {
		if err := s.catalog.RecordRun(ctx, catalog.NewRun("api", res)); err != nil {
			logger.Warn("api: record run failed", "error", err)
		}
	}
	writeJSON(w, http.StatusOK, res)
}

func (s *Server) handleValidate(w http.ResponseWriter, r *http.Request) {
	var req validateRequest
	if err := json.NewDecoder(io.LimitReader(r.Body, int64(s.cfg.MaxDocumentBytes)+4096)).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	if err := req.Validate(); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	report, analysis := pipeline.Validate(req.Flow, schema.Options{MaxBytes: s.cfg.MaxDocumentBytes})
	writeJSON(w, http.StatusOK, validateResponse{Report: report, Analysis: analysis})
}
