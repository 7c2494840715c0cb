// Package git abstracts the version-controlled store as a set of commit
// snapshots. Exec is the production implementation and shells out to the git
// binary; everything above this package is a pure function of Repo outputs.
package git

// ObjectType classifies what a path resolves to inside a commit tree.
type ObjectType string

const (
	// ObjectBlob is a regular file.
	ObjectBlob ObjectType = "blob"
	// ObjectTree is a directory.
	ObjectTree ObjectType = "tree"
	// ObjectNone means the path does not resolve at the commit.
	ObjectNone ObjectType = ""
)

// Repo is the narrow version-control interface the engine consumes.
// Implementations must be read-only; nothing in memctl mutates history.
type Repo interface {
	// ResolveCommit normalizes a commit-ish (branch, tag, short hash) to a
	// full object id.
	ResolveCommit(commitish string) (string, error)

	// PathExists reports whether path resolves to any object at commit.
	PathExists(commit, path string) bool

	// Type returns the object type of path at commit, or ObjectNone.
	Type(commit, path string) ObjectType

	// ReadBlob returns the raw bytes of the blob at path.
	ReadBlob(commit, path string) ([]byte, error)

	// BlobSHA returns the 40-hex git object id of the blob at path.
	BlobSHA(commit, path string) (string, error)

	// TreeSHA returns the 40-hex git object id of the tree at dirpath,
	// or "" when the directory does not exist at commit.
	TreeSHA(commit, dirpath string) string

	// ListTree returns every file path under path at commit, recursively.
	// Missing paths yield an empty slice.
	ListTree(commit, path string) ([]string, error)

	// LastTouch returns the most recent commit at or before commit that
	// modified path, or "" when no such commit exists.
	LastTouch(commit, path string) string

	// IsAncestor reports whether ancestor is an ancestor of descendant.
	IsAncestor(ancestor, descendant string) bool

	// DiffNames returns the paths whose contents differ between from and
	// to, restricted to the given pathspecs.
	DiffNames(from, to string, pathspecs []string) ([]string, error)
}
