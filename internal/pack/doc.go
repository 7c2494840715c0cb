// Package pack builds and verifies self-identifying context packs.
//
// A pack is the exact set of bytes an external agent must see to perform a
// task: the task's metadata and body, every active constraint, the task's
// declared includes, and all repo_path evidence, each carried inline with
// its git blob id and sha256. The pack id pins the document to a repository
// snapshot; anyone holding the pack can re-derive the id and check every
// item against the live repository.
package pack

// Version is the pack document schema version.
const Version = 1

// Item kinds. Within a pack, items sort by kind name bytewise: evidence,
// memory_body, memory_meta, repo_file.
const (
	KindMemoryMeta = "memory_meta"
	KindMemoryBody = "memory_body"
	KindEvidence   = "evidence"
	KindRepoFile   = "repo_file"
)

// ItemKinds enumerates the valid pack item kinds.
var ItemKinds = map[string]bool{
	KindMemoryMeta: true,
	KindMemoryBody: true,
	KindEvidence:   true,
	KindRepoFile:   true,
}

// Item is one file carried by a pack.
type Item struct {
	Kind       string `json:"kind"`
	Path       string `json:"path"`
	GitBlob    string `json:"git_blob"`
	SHA256     string `json:"sha256"`
	Size       int    `json:"size"`
	ContentB64 string `json:"content_b64"`
}

// Inputs records what the pack closure was derived from.
type Inputs struct {
	IncludeMemoryIDs        []string `json:"include_memory_ids"`
	IncludePaths            []string `json:"include_paths"`
	AutoIncludedConstraints []string `json:"auto_included_constraints"`
}

// Document is the full pack, emitted as canonical JSON.
type Document struct {
	PackVersion int     `json:"pack_version"`
	PackID      string  `json:"pack_id"`
	TaskID      string  `json:"task_id"`
	RepoCommit  string  `json:"repo_commit"`
	MemoryTree  *string `json:"memory_tree"`
	Inputs      Inputs  `json:"inputs"`
	Items       []Item  `json:"items"`
}
