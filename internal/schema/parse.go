// File path: internal/schema/parse.go
package schema

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/nicodishanthj/flowlang/internal/diag"
)

// Parse decodes raw bytes into a Document. Decoding is total: every
// decode problem is collected and the well-formed parts of the
// document are kept, so validation can report a complete list in one
// pass. A syntax failure is the only case that yields a nil document.
func Parse(data []byte) (*Document, []diag.Issue) {
	doc, shape, deep := parse(data)
	return doc, append(shape, deep...)
}

// parse splits issues into shape problems (root layout, element kinds,
// identity fields) and deep problems (per-field type checks). Deep
// issues are dropped by the validator when the schema in effect is
// minimal or permissive.
func parse(data []byte) (*Document, []diag.Issue, []diag.Issue) {
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, []diag.Issue{diag.New(diag.KindSyntax, diag.CodeMalformedJSON, "document is empty")}, nil
	}

	var root map[string]json.RawMessage
	if err := json.Unmarshal(data, &root); err != nil {
		var syn *json.SyntaxError
		if errors.As(err, &syn) {
			issue := diag.New(diag.KindSyntax, diag.CodeMalformedJSON, fmt.Sprintf("malformed JSON: %v", err))
			issue.Line, issue.Column = lineColumn(data, syn.Offset)
			return nil, []diag.Issue{issue}, nil
		}
		var typ *json.UnmarshalTypeError
		if errors.As(err, &typ) {
			return nil, []diag.Issue{diag.New(diag.KindValidation, diag.CodeInvalidRoot, "document root must be a JSON object")}, nil
		}
		return nil, []diag.Issue{diag.New(diag.KindSyntax, diag.CodeMalformedJSON, fmt.Sprintf("cannot decode document: %v", err))}, nil
	}
	if root == nil {
		return nil, []diag.Issue{diag.New(diag.KindValidation, diag.CodeInvalidRoot, "document root must be a JSON object")}, nil
	}

	var shape, deep []diag.Issue
	doc := &Document{}

	rawNodes, ok := root["nodes"]
	if !ok {
		shape = append(shape, issueAt(diag.CodeMissingField, "nodes", "document must declare a nodes array"))
	} else {
		var elems []json.RawMessage
		if err := json.Unmarshal(rawNodes, &elems); err != nil {
			shape = append(shape, issueAt(diag.CodeWrongType, "nodes", "nodes must be an array"))
		} else {
			for i, elem := range elems {
				if node, ok := decodeNode(elem, i, &shape, &deep); ok {
					doc.Nodes = append(doc.Nodes, node)
				}
			}
		}
	}

	rawEdges, ok := root["edges"]
	if !ok {
		shape = append(shape, issueAt(diag.CodeMissingField, "edges", "document must declare an edges array"))
	} else {
		var elems []json.RawMessage
		if err := json.Unmarshal(rawEdges, &elems); err != nil {
			shape = append(shape, issueAt(diag.CodeWrongType, "edges", "edges must be an array"))
		} else {
			for i, elem := range elems {
				if edge, ok := decodeEdge(elem, i, &shape, &deep); ok {
					doc.Edges = append(doc.Edges, edge)
				}
			}
		}
	}

	for key, raw := range root {
		if key == "nodes" || key == "edges" {
			continue
		}
		if doc.Extra == nil {
			doc.Extra = make(map[string]json.RawMessage)
		}
		doc.Extra[key] = raw
	}
	return doc, shape, deep
}

func decodeNode(raw json.RawMessage, index int, shape, deep *[]diag.Issue) (Node, bool) {
	path := fmt.Sprintf("nodes.%d", index)
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(raw, &fields); err != nil || fields == nil {
		*shape = append(*shape, issueAt(diag.CodeWrongType, path, "node must be a JSON object"))
		return Node{}, false
	}

	var node Node
	if rawID, ok := fields["id"]; ok {
		if err := json.Unmarshal(rawID, &node.ID); err != nil {
			*shape = append(*shape, issueAt(diag.CodeWrongType, path+".id", "node id must be a string"))
		} else if strings.TrimSpace(node.ID) == "" {
			*shape = append(*shape, issueAt(diag.CodeEmptyNodeID, path+".id", "node id must not be empty"))
		}
	} else {
		*shape = append(*shape, issueAt(diag.CodeMissingField, path+".id", "node is missing an id"))
	}
	if rawType, ok := fields["type"]; ok {
		if err := json.Unmarshal(rawType, &node.Type); err != nil {
			*deep = append(*deep, issueAt(diag.CodeWrongType, path+".type", "node type must be a string"))
		}
	}
	if rawPos, ok := fields["position"]; ok {
		if err := json.Unmarshal(rawPos, &node.Position); err != nil {
			*deep = append(*deep, issueAt(diag.CodeWrongType, path+".position", "position must be an object with numeric x and y"))
		}
	}
	if rawData, ok := fields["data"]; ok {
		node.Data = decodeData(rawData, path+".data", deep)
	}
	for key, value := range fields {
		switch key {
		case "id", "type", "position", "data":
			continue
		}
		if node.Extra == nil {
			node.Extra = make(map[string]json.RawMessage)
		}
		node.Extra[key] = value
	}
	return node, true
}

func decodeData(raw json.RawMessage, path string, deep *[]diag.Issue) NodeData {
	var data NodeData
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(raw, &fields); err != nil || fields == nil {
		*deep = append(*deep, issueAt(diag.CodeWrongType, path, "data must be a JSON object"))
		return data
	}

	stringField := func(key string, target *string) {
		rawField, ok := fields[key]
		if !ok {
			return
		}
		if err := json.Unmarshal(rawField, target); err != nil {
			*deep = append(*deep, issueAt(diag.CodeWrongType, path+"."+key, key+" must be a string"))
		}
	}
	stringField("id", &data.ID)
	stringField("name", &data.Name)
	stringField("label", &data.Label)
	stringField("type", &data.Type)
	stringField("category", &data.Category)
	stringField("description", &data.Description)
	stringField("credential", &data.Credential)

	if rawVersion, ok := fields["version"]; ok {
		if err := json.Unmarshal(rawVersion, &data.Version); err != nil {
			*deep = append(*deep, issueAt(diag.CodeWrongType, path+".version", "version must be a number"))
		} else {
			data.HasVersion = true
		}
	}
	if rawClasses, ok := fields["baseClasses"]; ok {
		if err := json.Unmarshal(rawClasses, &data.BaseClasses); err != nil {
			*deep = append(*deep, issueAt(diag.CodeWrongType, path+".baseClasses", "baseClasses must be an array of strings"))
		}
	}
	if rawTags, ok := fields["tags"]; ok {
		if err := json.Unmarshal(rawTags, &data.Tags); err != nil {
			*deep = append(*deep, issueAt(diag.CodeWrongType, path+".tags", "tags must be an array of strings"))
		}
	}
	if rawInputs, ok := fields["inputs"]; ok {
		if err := json.Unmarshal(rawInputs, &data.Inputs); err != nil {
			*deep = append(*deep, issueAt(diag.CodeWrongType, path+".inputs", "inputs must be an object"))
		}
	}
	if rawOutputs, ok := fields["outputs"]; ok {
		if err := json.Unmarshal(rawOutputs, &data.Outputs); err != nil {
			*deep = append(*deep, issueAt(diag.CodeWrongType, path+".outputs", "outputs must be an object"))
		}
	}
	anchorField := func(key string, target *[]Anchor) {
		rawField, ok := fields[key]
		if !ok {
			return
		}
		if err := json.Unmarshal(rawField, target); err != nil {
			*deep = append(*deep, issueAt(diag.CodeWrongType, path+"."+key, key+" must be an array of anchors"))
		}
	}
	anchorField("inputAnchors", &data.InputAnchors)
	anchorField("inputParams", &data.InputParams)
	anchorField("outputAnchors", &data.OutputAnchors)

	for key, value := range fields {
		switch key {
		case "id", "name", "label", "type", "category", "description", "credential",
			"version", "baseClasses", "tags", "inputs", "outputs",
			"inputAnchors", "inputParams", "outputAnchors":
			continue
		}
		if data.Extra == nil {
			data.Extra = make(map[string]json.RawMessage)
		}
		data.Extra[key] = value
	}
	return data
}

func decodeEdge(raw json.RawMessage, index int, shape, deep *[]diag.Issue) (Edge, bool) {
	path := fmt.Sprintf("edges.%d", index)
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(raw, &fields); err != nil || fields == nil {
		*shape = append(*shape, issueAt(diag.CodeWrongType, path, "edge must be a JSON object"))
		return Edge{}, false
	}

	var edge Edge
	endpoint := func(key string, target *string) {
		rawField, ok := fields[key]
		if !ok {
			*shape = append(*shape, issueAt(diag.CodeMissingField, path+"."+key, "edge is missing a "+key+" node id"))
			return
		}
		if err := json.Unmarshal(rawField, target); err != nil {
			*shape = append(*shape, issueAt(diag.CodeWrongType, path+"."+key, "edge "+key+" must be a string"))
		} else if strings.TrimSpace(*target) == "" {
			*shape = append(*shape, issueAt(diag.CodeMissingField, path+"."+key, "edge "+key+" must not be empty"))
		}
	}
	endpoint("source", &edge.Source)
	endpoint("target", &edge.Target)

	optional := func(key string, target *string) {
		rawField, ok := fields[key]
		if !ok {
			return
		}
		if err := json.Unmarshal(rawField, target); err != nil {
			*deep = append(*deep, issueAt(diag.CodeWrongType, path+"."+key, key+" must be a string"))
		}
	}
	optional("id", &edge.ID)
	optional("sourceHandle", &edge.SourceHandle)
	optional("targetHandle", &edge.TargetHandle)
	optional("type", &edge.Type)

	for key, value := range fields {
		switch key {
		case "id", "source", "target", "sourceHandle", "targetHandle", "type":
			continue
		}
		if edge.Extra == nil {
			edge.Extra = make(map[string]json.RawMessage)
		}
		edge.Extra[key] = value
	}
	return edge, true
}

func issueAt(code, path, message string) diag.Issue {
	kind := diag.KindValidation
	issue := diag.New(kind, code, message)
	issue.Path = path
	return issue
}

// lineColumn converts a byte offset from the JSON decoder into a
// one-based line and column pair.
func lineColumn(data []byte, offset int64) (int, int) {
	if offset < 0 {
		return 0, 0
	}
	if offset > int64(len(data)) {
		offset = int64(len(data))
	}
	prefix := data[:offset]
	line := 1 + bytes.Count(prefix, []byte{'\n'})
	last := bytes.LastIndexByte(prefix, '\n')
	column := int(offset) - last
	return line, column
}
