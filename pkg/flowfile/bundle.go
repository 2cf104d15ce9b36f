package flowfile

import (
	"archive/zip"
	"bytes"
	"fmt"
	"io"
	"os"

	"github.com/BurntSushi/toml"

	"github.com/ha1tch/flowcanvas/pkg/geometry"
	"github.com/ha1tch/flowcanvas/pkg/viewport"
	"github.com/ha1tch/flowcanvas/pkg/workflow"
)

// Bundle member names.
const (
	bundleWorkflow = "workflow.json"
	bundleView     = "view.toml"
)

// View is the editor state stored next to a workflow in a bundle.
type View struct {
	Version  int      `toml:"version"`
	Zoom     float64  `toml:"zoom"`
	PanX     float64  `toml:"pan_x"`
	PanY     float64  `toml:"pan_y"`
	Selected []string `toml:"selected,omitempty"`
}

// ViewOf captures a viewport and selection.
func ViewOf(v viewport.Viewport, selected []string) View {
	return View{Version: 1, Zoom: v.Zoom, PanX: v.Pan.X, PanY: v.Pan.Y, Selected: selected}
}

// Viewport returns the stored viewport with the zoom clamped.
func (v View) Viewport() viewport.Viewport {
	vp := viewport.Viewport{Zoom: 1, Pan: geometry.Pt(v.PanX, v.PanY)}
	if v.Zoom != 0 {
		vp.SetZoom(v.Zoom)
	}
	return vp
}

// WriteBundleFile writes a document and its view to a .flow file.
func WriteBundleFile(path string, doc *workflow.Document, view *View) error {
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer file.Close()

	return WriteBundle(file, doc, view)
}

// WriteBundle writes a zip holding workflow.json and, when view is not
// nil, view.toml.
func WriteBundle(w io.Writer, doc *workflow.Document, view *View) error {
	zw := zip.NewWriter(w)

	data, err := ToJSON(doc, true)
	if err != nil {
		return err
	}
	jw, err := zw.Create(bundleWorkflow)
	if err != nil {
		return err
	}
	if _, err := jw.Write(data); err != nil {
		return err
	}

	if view != nil {
		vw, err := zw.Create(bundleView)
		if err != nil {
			return err
		}
		if err := toml.NewEncoder(vw).Encode(view); err != nil {
			return fmt.Errorf("encode view: %w", err)
		}
	}

	return zw.Close()
}

// ReadBundleFile reads a .flow file.
func ReadBundleFile(path string) (*workflow.Document, *View, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, nil, err
	}
	defer file.Close()

	info, err := file.Stat()
	if err != nil {
		return nil, nil, err
	}

	return ReadBundle(file, info.Size())
}

// ReadBundleBytes reads a bundle held in memory.
func ReadBundleBytes(data []byte) (*workflow.Document, *View, error) {
	return ReadBundle(bytes.NewReader(data), int64(len(data)))
}

// ReadBundle reads a document and its optional view from a zip.
func ReadBundle(r io.ReaderAt, size int64) (*workflow.Document, *View, error) {
	zr, err := zip.NewReader(r, size)
	if err != nil {
		return nil, nil, err
	}

	var docData, viewData []byte
	for _, f := range zr.File {
		if f.Name != bundleWorkflow && f.Name != bundleView {
			continue
		}
		rc, err := f.Open()
		if err != nil {
			return nil, nil, err
		}
		data, err := io.ReadAll(rc)
		rc.Close()
		if err != nil {
			return nil, nil, err
		}
		if f.Name == bundleWorkflow {
			docData = data
		} else {
			viewData = data
		}
	}

	if docData == nil {
		return nil, nil, fmt.Errorf("%s not found in archive", bundleWorkflow)
	}
	doc, err := ParseJSON(docData)
	if err != nil {
		return nil, nil, err
	}

	var view *View
	if viewData != nil {
		view = &View{}
		if _, err := toml.Decode(string(viewData), view); err != nil {
			return nil, nil, fmt.Errorf("parse %s: %w", bundleView, err)
		}
	}
	return doc, view, nil
}
