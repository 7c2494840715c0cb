// Package gittest provides a deterministic in-memory Repo for tests.
//
// A Fake holds a linear history of full-tree snapshots. Blob ids are real
// git blob SHA-1s so hashes computed against a Fake match what the git
// binary would produce for the same bytes.
package gittest

import (
	"crypto/sha1"
	"encoding/hex"
	"fmt"
	"sort"
	"strings"

	"github.com/si978/memctl/internal/git"
)

// Fake is an in-memory git.Repo over a linear commit history.
type Fake struct {
	order   []string
	commits map[string]map[string][]byte
	aliases map[string]string
}

var _ git.Repo = (*Fake)(nil)

// NewFake returns an empty history. Use AddCommit to append snapshots.
func NewFake() *Fake {
	return &Fake{
		commits: make(map[string]map[string][]byte),
		aliases: make(map[string]string),
	}
}

// AddCommit appends a full-tree snapshot under the given id and points HEAD
// at it. Later commits descend from all earlier ones.
func (f *Fake) AddCommit(id string, files map[string]string) {
	snap := make(map[string][]byte, len(files))
	for p, content := range files {
		snap[p] = []byte(content)
	}
	f.commits[id] = snap
	f.order = append(f.order, id)
	f.aliases["HEAD"] = id
}

// Alias maps a commit-ish name (branch, tag) to a commit id.
func (f *Fake) Alias(name, id string) {
	f.aliases[name] = id
}

func (f *Fake) snapshot(commit string) (map[string][]byte, bool) {
	snap, ok := f.commits[commit]
	return snap, ok
}

func (f *Fake) index(commit string) int {
	for i, id := range f.order {
		if id == commit {
			return i
		}
	}
	return -1
}

func (f *Fake) ResolveCommit(commitish string) (string, error) {
	if id, ok := f.aliases[commitish]; ok {
		return id, nil
	}
	if _, ok := f.commits[commitish]; ok {
		return commitish, nil
	}
	return "", fmt.Errorf("unknown revision %q", commitish)
}

func (f *Fake) PathExists(commit, path string) bool {
	return f.Type(commit, path) != git.ObjectNone
}

func (f *Fake) Type(commit, path string) git.ObjectType {
	snap, ok := f.snapshot(commit)
	if !ok {
		return git.ObjectNone
	}
	if _, ok := snap[path]; ok {
		return git.ObjectBlob
	}
	prefix := path + "/"
	for p := range snap {
		if strings.HasPrefix(p, prefix) {
			return git.ObjectTree
		}
	}
	return git.ObjectNone
}

func (f *Fake) ReadBlob(commit, path string) ([]byte, error) {
	snap, ok := f.snapshot(commit)
	if !ok {
		return nil, fmt.Errorf("unknown commit %q", commit)
	}
	data, ok := snap[path]
	if !ok {
		return nil, fmt.Errorf("path %q does not exist in %q", path, commit)
	}
	return data, nil
}

// BlobSHA hashes the blob exactly as git does: sha1("blob <len>\x00" + data).
func (f *Fake) BlobSHA(commit, path string) (string, error) {
	data, err := f.ReadBlob(commit, path)
	if err != nil {
		return "", err
	}
	return BlobID(data), nil
}

// BlobID returns the git object id for a blob with the given content.
func BlobID(data []byte) string {
	h := sha1.New()
	fmt.Fprintf(h, "blob %d\x00", len(data))
	h.Write(data)
	return hex.EncodeToString(h.Sum(nil))
}

func (f *Fake) TreeSHA(commit, dirpath string) string {
	snap, ok := f.snapshot(commit)
	if !ok || f.Type(commit, dirpath) != git.ObjectTree {
		return ""
	}
	// Not a real git tree hash, but stable for identical directory contents.
	prefix := dirpath + "/"
	var entries []string
	for p, data := range snap {
		if strings.HasPrefix(p, prefix) {
			entries = append(entries, p+"\x00"+BlobID(data))
		}
	}
	sort.Strings(entries)
	h := sha1.New()
	fmt.Fprintf(h, "tree %s\x00", dirpath)
	for _, e := range entries {
		h.Write([]byte(e))
	}
	return hex.EncodeToString(h.Sum(nil))
}

func (f *Fake) ListTree(commit, path string) ([]string, error) {
	snap, ok := f.snapshot(commit)
	if !ok {
		return nil, nil
	}
	if _, ok := snap[path]; ok {
		return []string{path}, nil
	}
	prefix := path + "/"
	var files []string
	for p := range snap {
		if strings.HasPrefix(p, prefix) {
			files = append(files, p)
		}
	}
	sort.Strings(files)
	return files, nil
}

func (f *Fake) LastTouch(commit, path string) string {
	upto := f.index(commit)
	if upto < 0 {
		return ""
	}
	for i := upto; i >= 0; i-- {
		cur, _ := f.snapshot(f.order[i])
		curData, curOK := cur[path]
		var prevData []byte
		var prevOK bool
		if i > 0 {
			prev, _ := f.snapshot(f.order[i-1])
			prevData, prevOK = prev[path]
		}
		if curOK != prevOK || (curOK && string(curData) != string(prevData)) {
			return f.order[i]
		}
	}
	return ""
}

func (f *Fake) IsAncestor(ancestor, descendant string) bool {
	a, d := f.index(ancestor), f.index(descendant)
	return a >= 0 && d >= 0 && a <= d
}

func (f *Fake) DiffNames(from, to string, pathspecs []string) ([]string, error) {
	fromSnap, ok := f.snapshot(from)
	if !ok {
		return nil, fmt.Errorf("unknown commit %q", from)
	}
	toSnap, ok := f.snapshot(to)
	if !ok {
		return nil, fmt.Errorf("unknown commit %q", to)
	}
	seen := make(map[string]bool)
	for p := range fromSnap {
		seen[p] = true
	}
	for p := range toSnap {
		seen[p] = true
	}
	var changed []string
	for p := range seen {
		if !matchesAny(p, pathspecs) {
			continue
		}
		a, aOK := fromSnap[p]
		b, bOK := toSnap[p]
		if aOK != bOK || string(a) != string(b) {
			changed = append(changed, p)
		}
	}
	sort.Strings(changed)
	return changed, nil
}

func matchesAny(path string, pathspecs []string) bool {
	if len(pathspecs) == 0 {
		return true
	}
	for _, spec := range pathspecs {
		if path == spec || strings.HasPrefix(path, spec+"/") {
			return true
		}
	}
	return false
}
