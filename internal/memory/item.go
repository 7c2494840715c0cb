// Package memory loads, validates, and staleness-checks the curated memory
// graph stored under .ai/memory/ at a commit snapshot.
package memory

// Root is the reserved directory holding all memory items.
const Root = ".ai/memory"

// AllowedTypes enumerates the valid memory item types.
var AllowedTypes = map[string]bool{
	"task":          true,
	"adr":           true,
	"constraint":    true,
	"runbook":       true,
	"component_map": true,
}

// EvidenceKinds enumerates the valid evidence reference kinds.
var EvidenceKinds = map[string]bool{
	"repo_path": true,
	"pr":        true,
	"issue":     true,
	"url":       true,
	"run":       true,
	"chat":      true,
}

// TypeDir maps an item type to its directory under Root.
var TypeDir = map[string]string{
	"task":          "tasks",
	"adr":           "adr",
	"constraint":    "constraints",
	"runbook":       "runbooks",
	"component_map": "component_maps",
}

// activeStatus designates, per type, the status that marks an item active.
var activeStatus = map[string]string{
	"task":          "active",
	"adr":           "accepted",
	"constraint":    "active",
	"runbook":       "active",
	"component_map": "active",
}

// Item is one structured memory record at a commit. Meta carries the full
// parsed metadata object; the body, when present, is an opaque blob.
type Item struct {
	ID       string
	Type     string
	Status   string
	Title    string
	Meta     map[string]any
	MetaPath string
	BodyPath string // empty when the entry has no body.md
}

// Active reports whether the item's status is the designated active value
// for its type (active for most types, accepted for adrs).
func (it *Item) Active() bool {
	want, ok := activeStatus[it.Type]
	return ok && it.Status == want
}
