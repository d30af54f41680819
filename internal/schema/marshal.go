// File path: internal/schema/marshal.go
package schema

import "encoding/json"

// Custom marshalling folds the retained Extra fields back into the
// serialized object so that re-serializing a parsed document does not
// change what a second validation pass would see.

func (d *Document) MarshalJSON() ([]byte, error) {
	out := make(map[string]json.RawMessage, len(d.Extra)+2)
	nodes := d.Nodes
	if nodes == nil {
		nodes = []Node{}
	}
	edges := d.Edges
	if edges == nil {
		edges = []Edge{}
	}
	if err := putJSON(out, "nodes", nodes); err != nil {
		return nil, err
	}
	if err := putJSON(out, "edges", edges); err != nil {
		return nil, err
	}
	for key, raw := range d.Extra {
		out[key] = raw
	}
	return json.Marshal(out)
}

func (n Node) MarshalJSON() ([]byte, error) {
	out := make(map[string]json.RawMessage, len(n.Extra)+4)
	if err := putJSON(out, "id", n.ID); err != nil {
		return nil, err
	}
	if n.Type != "" {
		if err := putJSON(out, "type", n.Type); err != nil {
			return nil, err
		}
	}
	if err := putJSON(out, "position", n.Position); err != nil {
		return nil, err
	}
	if err := putJSON(out, "data", n.Data); err != nil {
		return nil, err
	}
	for key, raw := range n.Extra {
		out[key] = raw
	}
	return json.Marshal(out)
}

func (d NodeData) MarshalJSON() ([]byte, error) {
	type alias NodeData
	base, err := json.Marshal(alias(d))
	if err != nil {
		return nil, err
	}
	var out map[string]json.RawMessage
	if err := json.Unmarshal(base, &out); err != nil {
		return nil, err
	}
	if d.HasVersion {
		if err := putJSON(out, "version", d.Version); err != nil {
			return nil, err
		}
	}
	for key, raw := range d.Extra {
		out[key] = raw
	}
	return json.Marshal(out)
}

func (e Edge) MarshalJSON() ([]byte, error) {
	out := make(map[string]json.RawMessage, len(e.Extra)+5)
	if e.ID != "" {
		if err := putJSON(out, "id", e.ID); err != nil {
			return nil, err
		}
	}
	if err := putJSON(out, "source", e.Source); err != nil {
		return nil, err
	}
	if err := putJSON(out, "target", e.Target); err != nil {
		return nil, err
	}
	if e.SourceHandle != "" {
		if err := putJSON(out, "sourceHandle", e.SourceHandle); err != nil {
			return nil, err
		}
	}
	if e.TargetHandle != "" {
		if err := putJSON(out, "targetHandle", e.TargetHandle); err != nil {
			return nil, err
		}
	}
	if e.Type != "" {
		if err := putJSON(out, "type", e.Type); err != nil {
			return nil, err
		}
	}
	for key, raw := range e.Extra {
		out[key] = raw
	}
	return json.Marshal(out)
}

func putJSON(out map[string]json.RawMessage, key string, value interface{}) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return err
	}
	out[key] = raw
	return nil
}
