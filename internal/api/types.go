// File path: internal/api/types.go
package api

import (
	"encoding/json"

	"github.com/go-playground/validator/v10"

	"github.com/nicodishanthj/flowlang/internal/graph"
	"github.com/nicodishanthj/flowlang/internal/schema"
)

var validate = validator.New()

type convertRequest struct {
	Flow     json.RawMessage `json:"flow" validate:"required"`
	FlowName string          `json:"flow_name" validate:"omitempty,max=128"`
	Target   string          `json:"target" validate:"omitempty,oneof=typescript python"`
	Review   bool            `json:"review"`
}

func (r *convertRequest) Validate() error { return validate.Struct(r) }

type validateRequest struct {
	Flow json.RawMessage `json:"flow" validate:"required"`
}

func (r *validateRequest) Validate() error { return validate.Struct(r) }

type validateResponse struct {
	Report   *schema.Report  `json:"report"`
	Analysis *graph.Analysis `json:"analysis,omitempty"`
}
