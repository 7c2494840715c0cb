package pack

import (
	"bytes"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"github.com/opencontainers/go-digest"

	"github.com/si978/memctl/internal/git"
	"github.com/si978/memctl/internal/memory"
	"github.com/si978/memctl/internal/paths"
	"github.com/si978/memctl/internal/utils"
)

// Verify re-derives the identity of a received pack document and checks
// every item against the live repository. The document is taken as decoded
// JSON (not the typed Document) so that malformed and tampered packs can be
// examined field by field. Every problem is accumulated; an empty result
// means the pack is intact and matches the repository.
func Verify(repo git.Repo, data map[string]any, expectTaskID string) []string {
	var errors []string
	errf := func(format string, args ...any) {
		errors = append(errors, fmt.Sprintf(format, args...))
	}

	if data == nil {
		return []string{"pack must be a JSON object"}
	}

	if v, ok := intValue(data["pack_version"]); !ok || v != Version {
		errf("pack_version must be %d", Version)
	}

	packID, _ := data["pack_id"].(string)
	if !utils.IsHex(packID, 64) {
		errf("pack_id must be 64-hex sha256 string")
	}

	taskID, _ := data["task_id"].(string)
	if strings.TrimSpace(taskID) == "" {
		errf("task_id must be non-empty string")
	}
	if expectTaskID != "" && taskID != expectTaskID {
		errf("task_id mismatch: expect %q, got %q", expectTaskID, taskID)
	}

	repoCommit := ""
	if raw, _ := data["repo_commit"].(string); strings.TrimSpace(raw) == "" {
		errf("repo_commit must be non-empty string")
	} else {
		resolved, err := repo.ResolveCommit(strings.TrimSpace(raw))
		if err != nil {
			errf("repo_commit invalid: %v", err)
		} else {
			repoCommit = resolved
		}
	}

	declaredTree := ""
	switch v := data["memory_tree"].(type) {
	case nil:
	case string:
		if strings.TrimSpace(v) != "" && !utils.IsHexRange(v, 7, 40) {
			errf("memory_tree must be 7-40 hex string, null, or empty string")
		}
		if strings.TrimSpace(v) != "" {
			declaredTree = v
		}
	default:
		errf("memory_tree must be 7-40 hex string, null, or empty string")
	}

	actualTree := ""
	if repoCommit != "" {
		actualTree = repo.TreeSHA(repoCommit, memory.Root)
		if actualTree != declaredTree {
			errf("memory_tree mismatch: expect %q, got %q", actualTree, declaredTree)
		}
	}

	itemsRaw, ok := data["items"].([]any)
	if !ok {
		errf("items must be list")
		return errors
	}

	type manifestRow struct {
		kind, path, blob string
	}
	seen := make(map[fileKey]bool)
	var lastKey *fileKey
	var manifest []manifestRow
	manifestOK := true

	for idx, raw := range itemsRaw {
		it, ok := raw.(map[string]any)
		if !ok {
			errf("items[%d] must be object", idx)
			continue
		}

		kind, _ := it["kind"].(string)
		if strings.TrimSpace(kind) == "" {
			errf("items[%d].kind must be non-empty string", idx)
			manifestOK = false
			continue
		}
		if !ItemKinds[kind] {
			errf("items[%d].kind must be one of [evidence memory_body memory_meta repo_file]", idx)
			manifestOK = false
		}

		path, _ := it["path"].(string)
		if strings.TrimSpace(path) == "" {
			errf("items[%d].path must be non-empty string", idx)
			manifestOK = false
			continue
		}
		pathNorm, err := paths.Normalize(path)
		if err != nil {
			errf("items[%d].path invalid: %v", idx, err)
			manifestOK = false
			continue
		}
		if pathNorm != path {
			errf("items[%d].path must be canonical (got %q, normalized %q)", idx, path, pathNorm)
			manifestOK = false
		}

		key := fileKey{kind, pathNorm}
		if lastKey != nil && keyLess(key, *lastKey) {
			errf("items must be sorted by (kind, path) for canonical pack output")
		}
		lastKey = &key
		if seen[key] {
			errf("duplicate item (kind,path) at items[%d]: (%s, %s)", idx, kind, pathNorm)
		} else {
			seen[key] = true
		}

		blob, _ := it["git_blob"].(string)
		if !utils.IsHex(blob, 40) {
			errf("items[%d].git_blob must be 40-hex string", idx)
			manifestOK = false
		}
		sha, _ := it["sha256"].(string)
		if !utils.IsHex(sha, 64) {
			errf("items[%d].sha256 must be 64-hex string", idx)
			manifestOK = false
		}
		size, sizeOK := intValue(it["size"])
		if !sizeOK || size < 0 {
			errf("items[%d].size must be non-negative integer", idx)
			manifestOK = false
		}
		contentB64, _ := it["content_b64"].(string)
		if contentB64 == "" {
			errf("items[%d].content_b64 must be non-empty string", idx)
			manifestOK = false
		}

		var decoded []byte
		if contentB64 != "" {
			decoded, err = base64.StdEncoding.Strict().DecodeString(contentB64)
			if err != nil {
				errf("items[%d].content_b64 invalid base64: %v", idx, err)
				decoded = nil
				manifestOK = false
			}
		}

		if decoded != nil {
			if sizeOK && size != int64(len(decoded)) {
				errf("items[%d].size mismatch: expect %d, got %d", idx, len(decoded), size)
			}
			if utils.IsHex(sha, 64) {
				if actual := digest.SHA256.FromBytes(decoded).Encoded(); actual != sha {
					errf("items[%d].sha256 mismatch: expect %s, got %s", idx, actual, sha)
				}
			}
		}

		if repoCommit != "" && utils.IsHex(blob, 40) {
			if objType := repo.Type(repoCommit, pathNorm); objType != git.ObjectBlob {
				errf("items[%d].path is not a file/blob at %s: %s (got %s)", idx, repoCommit, pathNorm, typeName(objType))
			} else {
				actualBlob, blobErr := repo.BlobSHA(repoCommit, pathNorm)
				if blobErr != nil {
					errf("items[%d] cannot verify against git: %v", idx, blobErr)
				} else if actualBlob != blob {
					errf("items[%d].git_blob mismatch: expect %s, got %s", idx, actualBlob, blob)
				}
				if decoded != nil {
					actualData, readErr := repo.ReadBlob(repoCommit, pathNorm)
					if readErr != nil {
						errf("items[%d] cannot verify against git: %v", idx, readErr)
					} else if !bytes.Equal(actualData, decoded) {
						errf("items[%d].content mismatch vs git at %s: %s", idx, repoCommit, pathNorm)
					}
				}
			}
		}

		if utils.IsHex(blob, 40) {
			manifest = append(manifest, manifestRow{kind, pathNorm, blob})
		}
	}

	if repoCommit != "" && len(manifest) > 0 && manifestOK {
		sort.Slice(manifest, func(i, j int) bool {
			if manifest[i].kind != manifest[j].kind {
				return manifest[i].kind < manifest[j].kind
			}
			return manifest[i].path < manifest[j].path
		})
		var b strings.Builder
		for _, row := range manifest {
			fmt.Fprintf(&b, "%s\n%s\n", row.path, row.blob)
		}
		actualID := ComputeID(repoCommit, actualTree, b.String())
		if utils.IsHex(packID, 64) && actualID != packID {
			errf("pack_id mismatch: expect %s, got %s", actualID, packID)
		}
	}

	return errors
}

func keyLess(a, b fileKey) bool {
	if a.kind != b.kind {
		return a.kind < b.kind
	}
	return a.path < b.path
}

// intValue reads an integral JSON value however the decoder represented it.
// Floats with a fractional part are not integers.
func intValue(v any) (int64, bool) {
	switch n := v.(type) {
	case json.Number:
		if strings.ContainsAny(n.String(), ".eE") {
			return 0, false
		}
		i, err := n.Int64()
		if err != nil {
			return 0, false
		}
		return i, true
	case float64:
		if n != float64(int64(n)) {
			return 0, false
		}
		return int64(n), true
	case int:
		return int64(n), true
	default:
		return 0, false
	}
}
