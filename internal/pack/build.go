package pack

import (
	"encoding/base64"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/opencontainers/go-digest"

	"github.com/si978/memctl/internal/git"
	"github.com/si978/memctl/internal/memory"
	"github.com/si978/memctl/internal/paths"
)

// Build failure kinds. The builder is fail-fast: its output must be
// well-formed or absent, so the first problem aborts the build.
var (
	ErrTaskNotFound          = errors.New("task not found")
	ErrPackDependencyMissing = errors.New("pack includes missing memory id")
	ErrPackIncludeMissing    = errors.New("include_paths entry missing")
	ErrNotABlob              = errors.New("pack path is not a file/blob")
)

type fileKey struct {
	kind string
	path string
}

// Build computes the inclusion closure for a task and materializes the pack
// document. The closure starts from the task itself, adds every active
// constraint (sorted by id), then the task's declared memory includes, and
// finally the task's include_paths; repo_path evidence on every included
// item is expanded, with directory refs pulled in recursively.
//
// For identical (commit, taskID) and repository state the result is
// byte-identical once encoded: inputs are sorted at every stage and paths
// are canonicalized at ingress.
func Build(repo git.Repo, commit, taskID string, items []*memory.Item, byID map[string]*memory.Item) (*Document, error) {
	resolved, err := repo.ResolveCommit(commit)
	if err != nil {
		return nil, err
	}

	task := byID[taskID]
	if task == nil || task.Type != "task" {
		return nil, fmt.Errorf("%w: %s", ErrTaskNotFound, taskID)
	}

	includeMemoryIDs, includePaths := taskPackInputs(task)

	var constraints []string
	for _, it := range items {
		if it.Type == "constraint" && it.Active() && it.ID != "" {
			constraints = append(constraints, it.ID)
		}
	}
	sort.Strings(constraints)

	var memoryIDs []string
	seenID := make(map[string]bool)
	for _, mid := range append(append([]string{taskID}, constraints...), includeMemoryIDs...) {
		if mid != "" && !seenID[mid] {
			seenID[mid] = true
			memoryIDs = append(memoryIDs, mid)
		}
	}

	var fileOrder []fileKey
	seenFile := make(map[fileKey]bool)
	addFile := func(kind, path string) error {
		norm, err := paths.Normalize(path)
		if err != nil {
			return err
		}
		key := fileKey{kind, norm}
		if !seenFile[key] {
			seenFile[key] = true
			fileOrder = append(fileOrder, key)
		}
		return nil
	}

	for _, mid := range memoryIDs {
		mi := byID[mid]
		if mi == nil {
			return nil, fmt.Errorf("%w: %s", ErrPackDependencyMissing, mid)
		}
		if err := addFile(KindMemoryMeta, mi.MetaPath); err != nil {
			return nil, err
		}
		if mi.BodyPath != "" {
			if err := addFile(KindMemoryBody, mi.BodyPath); err != nil {
				return nil, err
			}
		}
		for _, ref := range repoPathEvidence(mi) {
			refPath, err := paths.Normalize(ref)
			if err != nil {
				return nil, err
			}
			switch repo.Type(resolved, refPath) {
			case git.ObjectBlob:
				if err := addFile(KindEvidence, refPath); err != nil {
					return nil, err
				}
			case git.ObjectTree:
				files, err := repo.ListTree(resolved, refPath)
				if err != nil {
					return nil, err
				}
				for _, fp := range files {
					if err := addFile(KindEvidence, fp); err != nil {
						return nil, err
					}
				}
			}
			// Missing refs are skipped here; Validate reports them.
		}
	}

	for _, p := range includePaths {
		norm, err := paths.Normalize(p)
		if err != nil {
			return nil, err
		}
		switch repo.Type(resolved, norm) {
		case git.ObjectBlob:
			if err := addFile(KindRepoFile, norm); err != nil {
				return nil, err
			}
		case git.ObjectTree:
			files, err := repo.ListTree(resolved, norm)
			if err != nil {
				return nil, err
			}
			if len(files) == 0 {
				return nil, fmt.Errorf("%w: not found as file/dir at %s: %s", ErrPackIncludeMissing, resolved, norm)
			}
			for _, fp := range files {
				if err := addFile(KindRepoFile, fp); err != nil {
					return nil, err
				}
			}
		case git.ObjectNone:
			return nil, fmt.Errorf("%w: not found as file/dir at %s: %s", ErrPackIncludeMissing, resolved, norm)
		}
	}

	sort.Slice(fileOrder, func(i, j int) bool {
		if fileOrder[i].kind != fileOrder[j].kind {
			return fileOrder[i].kind < fileOrder[j].kind
		}
		return fileOrder[i].path < fileOrder[j].path
	})

	packItems := make([]Item, 0, len(fileOrder))
	var manifest strings.Builder
	for _, key := range fileOrder {
		if objType := repo.Type(resolved, key.path); objType != git.ObjectBlob {
			return nil, fmt.Errorf("%w at %s: %s (got %s)", ErrNotABlob, resolved, key.path, typeName(objType))
		}
		data, err := repo.ReadBlob(resolved, key.path)
		if err != nil {
			return nil, err
		}
		blob, err := repo.BlobSHA(resolved, key.path)
		if err != nil {
			return nil, err
		}
		packItems = append(packItems, Item{
			Kind:       key.kind,
			Path:       key.path,
			GitBlob:    blob,
			SHA256:     digest.SHA256.FromBytes(data).Encoded(),
			Size:       len(data),
			ContentB64: base64.StdEncoding.EncodeToString(data),
		})
		fmt.Fprintf(&manifest, "%s\n%s\n", key.path, blob)
	}

	var memoryTree *string
	tree := repo.TreeSHA(resolved, memory.Root)
	if tree != "" {
		memoryTree = &tree
	}

	return &Document{
		PackVersion: Version,
		PackID:      ComputeID(resolved, tree, manifest.String()),
		TaskID:      taskID,
		RepoCommit:  resolved,
		MemoryTree:  memoryTree,
		Inputs: Inputs{
			IncludeMemoryIDs:        includeMemoryIDs,
			IncludePaths:            includePaths,
			AutoIncludedConstraints: emptyIfNil(constraints),
		},
		Items: packItems,
	}, nil
}

// ComputeID derives the pack identity from the commit, the memory tree id
// (empty when absent), and the sorted manifest of "path\nblob\n" lines.
func ComputeID(commit, memoryTree, manifest string) string {
	return digest.SHA256.FromString(commit + "\n" + memoryTree + "\n" + manifest).Encoded()
}

// taskPackInputs pulls the user-specified inclusion lists off a task,
// keeping only non-empty strings.
func taskPackInputs(task *memory.Item) (memoryIDs, includePaths []string) {
	memoryIDs = []string{}
	includePaths = []string{}
	packMeta, _ := task.Meta["pack"].(map[string]any)
	if ids, ok := packMeta["include_memory_ids"].([]any); ok {
		for _, v := range ids {
			if s, ok := v.(string); ok && strings.TrimSpace(s) != "" {
				memoryIDs = append(memoryIDs, s)
			}
		}
	}
	if ps, ok := packMeta["include_paths"].([]any); ok {
		for _, v := range ps {
			if s, ok := v.(string); ok && strings.TrimSpace(s) != "" {
				includePaths = append(includePaths, s)
			}
		}
	}
	return memoryIDs, includePaths
}

// repoPathEvidence returns the non-empty repo_path refs on an item.
func repoPathEvidence(item *memory.Item) []string {
	var refs []string
	evidence, _ := item.Meta["evidence"].([]any)
	for _, ev := range evidence {
		evMap, ok := ev.(map[string]any)
		if !ok {
			continue
		}
		if kind, _ := evMap["kind"].(string); kind != "repo_path" {
			continue
		}
		if ref, ok := evMap["ref"].(string); ok && strings.TrimSpace(ref) != "" {
			refs = append(refs, ref)
		}
	}
	return refs
}

func typeName(t git.ObjectType) string {
	if t == git.ObjectNone {
		return "none"
	}
	return string(t)
}

func emptyIfNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
