// Package lspconv converts the loosely typed result shapes LSP servers send
// into go.lsp.dev/protocol values.
package lspconv

import (
	"encoding/json"
	"fmt"

	"go.lsp.dev/protocol"

	"lsp-navigator/src/utils/jsonutil"
)

// wireLocation accepts both Location and LocationLink items
type wireLocation struct {
	URI                  protocol.DocumentURI `json:"uri"`
	Range                *protocol.Range      `json:"range"`
	TargetURI            protocol.DocumentURI `json:"targetUri"`
	TargetRange          *protocol.Range      `json:"targetRange"`
	TargetSelectionRange *protocol.Range      `json:"targetSelectionRange"`
}

func (w wireLocation) toLocation() (protocol.Location, bool) {
	switch {
	case w.URI != "" && w.Range != nil:
		return protocol.Location{URI: w.URI, Range: *w.Range}, true
	case w.TargetURI != "" && w.TargetSelectionRange != nil:
		return protocol.Location{URI: w.TargetURI, Range: *w.TargetSelectionRange}, true
	case w.TargetURI != "" && w.TargetRange != nil:
		return protocol.Location{URI: w.TargetURI, Range: *w.TargetRange}, true
	default:
		return protocol.Location{}, false
	}
}

// ParseLocations decodes a definition-style result: null, a single
// Location, Location[] or LocationLink[]. A LocationLink maps to its target
// selection range. Malformed items are dropped; an error is returned only
// when the payload as a whole has none of the accepted shapes.
func ParseLocations(raw json.RawMessage) ([]protocol.Location, error) {
	if jsonutil.IsNull(raw) {
		return nil, nil
	}

	switch jsonutil.FirstByte(raw) {
	case '{':
		var single wireLocation
		if err := json.Unmarshal(raw, &single); err != nil {
			return nil, fmt.Errorf("malformed location: %w", err)
		}
		loc, ok := single.toLocation()
		if !ok {
			return nil, fmt.Errorf("malformed location: missing uri or range")
		}
		return []protocol.Location{loc}, nil
	case '[':
		var items []json.RawMessage
		if err := json.Unmarshal(raw, &items); err != nil {
			return nil, fmt.Errorf("malformed location list: %w", err)
		}
		out := make([]protocol.Location, 0, len(items))
		for _, item := range items {
			var w wireLocation
			if err := json.Unmarshal(item, &w); err != nil {
				continue
			}
			if loc, ok := w.toLocation(); ok {
				out = append(out, loc)
			}
		}
		return out, nil
	default:
		return nil, fmt.Errorf("unexpected location result: %.64s", string(raw))
	}
}

// ParseHighlights decodes a documentHighlight result. Items without a range
// are dropped.
func ParseHighlights(raw json.RawMessage) ([]protocol.DocumentHighlight, error) {
	if jsonutil.IsNull(raw) {
		return nil, nil
	}

	var items []map[string]interface{}
	if err := json.Unmarshal(raw, &items); err != nil {
		return nil, fmt.Errorf("malformed highlight list: %w", err)
	}
	out := make([]protocol.DocumentHighlight, 0, len(items))
	for _, item := range items {
		if _, ok := item["range"].(map[string]interface{}); !ok {
			continue
		}
		highlight, err := jsonutil.Convert[protocol.DocumentHighlight](item)
		if err != nil {
			continue
		}
		if highlight.Kind == 0 {
			highlight.Kind = protocol.DocumentHighlightKindText
		}
		out = append(out, highlight)
	}
	return out, nil
}
