// Package flowfile reads and writes workflow documents: plain JSON, the
// zipped .flow bundle that also carries the editor view, and the draft
// list.
package flowfile

import (
	"fmt"

	"github.com/goccy/go-json"

	"github.com/ha1tch/flowcanvas/pkg/workflow"
)

// ParseJSON parses a workflow document. Missing collections become empty
// and connections with a missing endpoint are dropped.
func ParseJSON(data []byte) (*workflow.Document, error) {
	var doc workflow.Document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parse workflow: %w", err)
	}
	doc.Normalize()
	return &doc, nil
}

// ToJSON converts a document to JSON.
func ToJSON(doc *workflow.Document, pretty bool) ([]byte, error) {
	if pretty {
		return json.MarshalIndent(doc, "", "  ")
	}
	return json.Marshal(doc)
}
