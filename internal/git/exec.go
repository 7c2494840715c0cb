package git

import (
	"fmt"
	"os/exec"
	"strings"

	"github.com/si978/memctl/internal/debug"
)

// Exec implements Repo by shelling out to the git binary. Commands run in
// the directory given to NewExec, or in the process working directory when
// that is empty.
type Exec struct {
	dir string
}

var _ Repo = (*Exec)(nil)

// NewExec returns an Exec rooted at dir. An empty dir uses the process
// working directory.
func NewExec(dir string) *Exec {
	return &Exec{dir: dir}
}

// run executes git with the given arguments and returns raw stdout.
func (e *Exec) run(args ...string) ([]byte, error) {
	cmd := exec.Command("git", args...)
	if e.dir != "" {
		cmd.Dir = e.dir
	}
	var stderr strings.Builder
	cmd.Stderr = &stderr
	out, err := cmd.Output()
	debug.Logf("git", "git %s", strings.Join(args, " "))
	if err != nil {
		msg := strings.TrimSpace(stderr.String())
		if msg == "" {
			msg = fmt.Sprintf("git %s failed", strings.Join(args, " "))
		}
		return nil, fmt.Errorf("%s", msg)
	}
	return out, nil
}

// ok runs git and reports only whether it exited zero.
func (e *Exec) ok(args ...string) bool {
	cmd := exec.Command("git", args...)
	if e.dir != "" {
		cmd.Dir = e.dir
	}
	return cmd.Run() == nil
}

func (e *Exec) ResolveCommit(commitish string) (string, error) {
	out, err := e.run("rev-parse", commitish)
	if err != nil {
		return "", fmt.Errorf("cannot resolve %q: %w", commitish, err)
	}
	return strings.TrimSpace(string(out)), nil
}

func (e *Exec) PathExists(commit, path string) bool {
	return e.ok("cat-file", "-e", commit+":"+path)
}

func (e *Exec) Type(commit, path string) ObjectType {
	out, err := e.run("cat-file", "-t", commit+":"+path)
	if err != nil {
		return ObjectNone
	}
	switch t := strings.TrimSpace(string(out)); t {
	case "blob":
		return ObjectBlob
	case "tree":
		return ObjectTree
	default:
		return ObjectNone
	}
}

func (e *Exec) ReadBlob(commit, path string) ([]byte, error) {
	return e.run("show", commit+":"+path)
}

func (e *Exec) BlobSHA(commit, path string) (string, error) {
	out, err := e.run("rev-parse", commit+":"+path)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(string(out)), nil
}

func (e *Exec) TreeSHA(commit, dirpath string) string {
	if e.Type(commit, dirpath) != ObjectTree {
		return ""
	}
	out, err := e.run("rev-parse", commit+":"+dirpath)
	if err != nil {
		return ""
	}
	return strings.TrimSpace(string(out))
}

func (e *Exec) ListTree(commit, path string) ([]string, error) {
	out, err := e.run("ls-tree", "-r", "--name-only", commit, "--", path)
	if err != nil {
		return nil, err
	}
	var files []string
	for _, line := range strings.Split(string(out), "\n") {
		if line = strings.TrimSpace(line); line != "" {
			files = append(files, line)
		}
	}
	return files, nil
}

func (e *Exec) LastTouch(commit, path string) string {
	out, err := e.run("log", "-1", "--format=%H", commit, "--", path)
	if err != nil {
		return ""
	}
	return strings.TrimSpace(string(out))
}

func (e *Exec) IsAncestor(ancestor, descendant string) bool {
	return e.ok("merge-base", "--is-ancestor", ancestor, descendant)
}

func (e *Exec) DiffNames(from, to string, pathspecs []string) ([]string, error) {
	args := append([]string{"diff", "--name-only", from + ".." + to, "--"}, pathspecs...)
	out, err := e.run(args...)
	if err != nil {
		return nil, err
	}
	var files []string
	for _, line := range strings.Split(string(out), "\n") {
		if line = strings.TrimSpace(line); line != "" {
			files = append(files, line)
		}
	}
	return files, nil
}
