// File path: internal/schema/version.go
package schema

import (
	"fmt"
	"strings"

	"github.com/nicodishanthj/flowlang/internal/common"
)

// Version identifies the schema dialect a document was exported from.
type Version string

const (
	VersionV1      Version = "v1"
	VersionV2      Version = "v2"
	VersionUnknown Version = "unknown"
)

// lowConfidence is the cutoff below which a detection result is
// reported as unknown and the permissive schema applies.
const lowConfidence = 0.3

// VersionInfo is the advisory output of dialect detection. It never
// blocks validation; Conflict records that structural evidence
// disagreed with an explicit marker.
type VersionInfo struct {
	Version    Version  `json:"version"`
	Confidence float64  `json:"confidence"`
	Indicators []string `json:"indicators,omitempty"`
	Conflict   bool     `json:"conflict,omitempty"`
}

// Node types introduced by the sequential-agent dialect. Their
// presence anywhere in a document is structural evidence for v2.
var v2OnlyTypes = map[string]struct{}{
	"seqAgent":       {},
	"conditionAgent": {},
	"loopAgent":      {},
	"agentMemory":    {},
	"humanInput":     {},
	"executeFlow":    {},
}

const capabilityTag = "agentflow"

// DetectVersion classifies the dialect of a parsed document. An
// explicit numeric marker on the first node is authoritative; weaker
// heuristics only add confidence or, when no marker exists, pick the
// dialect. Detection never fails: any internal error downgrades the
// result to unknown.
func DetectVersion(doc *Document) (info VersionInfo) {
	defer func() {
		if r := recover(); r != nil {
			common.Logger().Error("schema: version detection failed", "component", "schema", "panic", fmt.Sprint(r))
			info = VersionInfo{Version: VersionUnknown}
		}
	}()

	info = VersionInfo{Version: VersionUnknown}
	if doc == nil || len(doc.Nodes) == 0 {
		return info
	}

	score := 0.0
	explicit := false
	first := &doc.Nodes[0]

	if first.Data.HasVersion {
		switch {
		case first.Data.Version >= 2:
			info.Version = VersionV2
			explicit = true
			score += 0.7
			info.Indicators = append(info.Indicators,
				fmt.Sprintf("explicit version marker %g on node %q", first.Data.Version, first.ID))
		case first.Data.Version == 1:
			info.Version = VersionV1
			explicit = true
			score += 0.7
			info.Indicators = append(info.Indicators,
				fmt.Sprintf("explicit version marker 1 on node %q", first.ID))
		}
	}

	if !explicit {
		if tag, ok := capabilityTagOn(first); ok {
			score += 0.2
			if info.Version == VersionUnknown {
				info.Version = VersionV2
			}
			info.Indicators = append(info.Indicators,
				fmt.Sprintf("capability tag %q on first node", tag))
		}
	}

	if typ, ok := v2OnlyTypePresent(doc); ok {
		score += 0.3
		if info.Version == VersionUnknown {
			info.Version = VersionV2
		}
		if explicit && info.Version == VersionV1 {
			info.Conflict = true
			info.Indicators = append(info.Indicators,
				fmt.Sprintf("node type %q is a v2 construct but the explicit marker says v1", typ))
			common.Logger().Warn("schema: version heuristics disagree",
				"component", "schema", "explicit", string(VersionV1), "structural", string(VersionV2))
		} else {
			info.Indicators = append(info.Indicators,
				fmt.Sprintf("v2-only node type %q present", typ))
		}
	}

	if hasExtendedMetadata(doc) {
		score += 0.1
		info.Indicators = append(info.Indicators, "document carries creation or update timestamps")
	}

	if score > 1.0 {
		score = 1.0
	}
	info.Confidence = score
	if info.Confidence <= lowConfidence {
		info.Version = VersionUnknown
	}
	return info
}

func capabilityTagOn(node *Node) (string, bool) {
	for _, tag := range node.Data.Tags {
		if strings.Contains(strings.ToLower(tag), capabilityTag) {
			return tag, true
		}
	}
	return "", false
}

func v2OnlyTypePresent(doc *Document) (string, bool) {
	for i := range doc.Nodes {
		typ := doc.Nodes[i].EffectiveType()
		if _, ok := v2OnlyTypes[typ]; ok {
			return typ, true
		}
	}
	return "", false
}

func hasExtendedMetadata(doc *Document) bool {
	if doc.Extra == nil {
		return false
	}
	if _, ok := doc.Extra["createdDate"]; ok {
		return true
	}
	_, ok := doc.Extra["updatedDate"]
	return ok
}
