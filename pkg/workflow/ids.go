package workflow

import (
	"strconv"
	"sync/atomic"

	"github.com/google/uuid"
)

// Id prefixes.
const (
	PrefixNode       = "node"
	PrefixConnection = "conn"
	PrefixDraft      = "draft"
	PrefixWorkflow   = "wf"
)

// IDGenerator returns a fresh id carrying the given prefix.
type IDGenerator func(prefix string) string

// NewID is the default generator: "<prefix>-<uuid>".
func NewID(prefix string) string {
	return prefix + "-" + uuid.NewString()
}

// SequentialIDs returns a generator producing "<prefix>-1", "<prefix>-2", ...
// with one counter shared across prefixes. Handy for tests and fixtures.
func SequentialIDs() IDGenerator {
	var n atomic.Int64
	return func(prefix string) string {
		return prefix + "-" + strconv.FormatInt(n.Add(1), 10)
	}
}
