package flowfile

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/ha1tch/flowcanvas/pkg/workflow"
)

// File extensions.
const (
	ExtJSON   = ".json"
	ExtBundle = ".flow"
)

// Load reads a document from a .json or .flow file. The view is nil for
// plain JSON files and for bundles saved without one.
func Load(path string) (*workflow.Document, *View, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ExtBundle:
		doc, view, err := ReadBundleFile(path)
		if err != nil {
			return nil, nil, fmt.Errorf("load %s: %w", path, err)
		}
		return doc, view, nil
	default:
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, nil, fmt.Errorf("load %s: %w", path, err)
		}
		doc, err := ParseJSON(data)
		if err != nil {
			return nil, nil, fmt.Errorf("load %s: %w", path, err)
		}
		return doc, nil, nil
	}
}

// Save writes a document to path, choosing the format by extension. The
// view is only kept by bundles.
func Save(path string, doc *workflow.Document, view *View) error {
	if strings.ToLower(filepath.Ext(path)) == ExtBundle {
		if err := WriteBundleFile(path, doc, view); err != nil {
			return fmt.Errorf("save %s: %w", path, err)
		}
		return nil
	}
	data, err := ToJSON(doc, true)
	if err != nil {
		return fmt.Errorf("save %s: %w", path, err)
	}
	if err := os.WriteFile(path, append(data, '\n'), 0o644); err != nil {
		return fmt.Errorf("save %s: %w", path, err)
	}
	return nil
}
