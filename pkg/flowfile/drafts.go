package flowfile

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"strconv"
	"time"

	"github.com/goccy/go-json"

	"github.com/ha1tch/flowcanvas/pkg/workflow"
)

// ErrDraftNotFound is returned when no draft has the requested id.
var ErrDraftNotFound = errors.New("draft not found")

// DraftsFile is the name of the draft list inside the drafts directory.
const DraftsFile = "drafts.json"

// Drafts is the saved-drafts list, newest first, kept as one JSON file.
type Drafts struct {
	path string
	now  func() time.Time
	log  *slog.Logger
}

// NewDrafts opens the draft list in dir. The directory is created on first
// save.
func NewDrafts(dir string, logger *slog.Logger) *Drafts {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Drafts{
		path: filepath.Join(dir, DraftsFile),
		now:  time.Now,
		log:  logger,
	}
}

// Path returns the file backing the list.
func (d *Drafts) Path() string {
	return d.path
}

// List returns every draft, newest first. A missing file is an empty list;
// so is an unreadable one, which is logged and left in place.
func (d *Drafts) List() ([]workflow.Document, error) {
	data, err := os.ReadFile(d.path)
	if errors.Is(err, os.ErrNotExist) {
		return []workflow.Document{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read drafts: %w", err)
	}

	var list []workflow.Document
	if err := json.Unmarshal(data, &list); err != nil {
		d.log.Warn("ignoring unreadable drafts file", "path", d.path, "error", err)
		return []workflow.Document{}, nil
	}
	for i := range list {
		list[i].Normalize()
	}
	return list, nil
}

// Save stores a copy of doc as a new draft at the front of the list and
// returns it.
func (d *Drafts) Save(doc *workflow.Document) (*workflow.Document, error) {
	list, err := d.List()
	if err != nil {
		return nil, err
	}

	now := d.now()
	draft := doc.Copy()
	draft.ID = workflow.PrefixDraft + "-" + strconv.FormatInt(now.UnixMilli(), 10)
	for slices.ContainsFunc(list, func(x workflow.Document) bool { return x.ID == draft.ID }) {
		now = now.Add(time.Millisecond)
		draft.ID = workflow.PrefixDraft + "-" + strconv.FormatInt(now.UnixMilli(), 10)
	}
	draft.SavedAt = now.UTC().Truncate(time.Millisecond)

	list = slices.Insert(list, 0, *draft)
	if err := d.write(list); err != nil {
		return nil, err
	}
	d.log.Info("draft saved", "id", draft.ID, "name", draft.Name)
	return draft, nil
}

// Get returns the draft with the given id.
func (d *Drafts) Get(id string) (*workflow.Document, error) {
	list, err := d.List()
	if err != nil {
		return nil, err
	}
	for i := range list {
		if list[i].ID == id {
			return &list[i], nil
		}
	}
	return nil, fmt.Errorf("draft %q: %w", id, ErrDraftNotFound)
}

// Delete removes the draft with the given id.
func (d *Drafts) Delete(id string) error {
	list, err := d.List()
	if err != nil {
		return err
	}
	n := len(list)
	list = slices.DeleteFunc(list, func(x workflow.Document) bool { return x.ID == id })
	if len(list) == n {
		return fmt.Errorf("draft %q: %w", id, ErrDraftNotFound)
	}
	if err := d.write(list); err != nil {
		return err
	}
	d.log.Info("draft deleted", "id", id)
	return nil
}

func (d *Drafts) write(list []workflow.Document) error {
	if err := os.MkdirAll(filepath.Dir(d.path), 0o755); err != nil {
		return fmt.Errorf("create drafts dir: %w", err)
	}
	data, err := json.MarshalIndent(list, "", "  ")
	if err != nil {
		return fmt.Errorf("encode drafts: %w", err)
	}
	tmp := d.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("write drafts: %w", err)
	}
	if err := os.Rename(tmp, d.path); err != nil {
		return fmt.Errorf("write drafts: %w", err)
	}
	return nil
}
