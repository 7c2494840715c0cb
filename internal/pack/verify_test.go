package pack

import (
	"bytes"
	"encoding/base64"
	"encoding/json"
	"strings"
	"testing"

	"github.com/si978/memctl/internal/git/gittest"
)

// docToMap round-trips a built document through its canonical encoding into
// the decoded-JSON form the verifier consumes.
func docToMap(t *testing.T, doc *Document) map[string]any {
	t.Helper()
	raw, err := Encode(doc)
	if err != nil {
		t.Fatal(err)
	}
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	var data map[string]any
	if err := dec.Decode(&data); err != nil {
		t.Fatal(err)
	}
	return data
}

func buildFixturePack(t *testing.T) (*gittest.Fake, map[string]any) {
	t.Helper()
	repo, commit, items, byID := packFixture(t)
	doc, err := Build(repo, commit, "TASK-0001", items, byID)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	return repo, docToMap(t, doc)
}

func hasError(errs []string, sub string) bool {
	for _, e := range errs {
		if strings.Contains(e, sub) {
			return true
		}
	}
	return false
}

func TestVerifyRoundTrip(t *testing.T) {
	repo, data := buildFixturePack(t)
	if errs := Verify(repo, data, "TASK-0001"); len(errs) != 0 {
		t.Errorf("Verify = %v, want no errors", errs)
	}
}

func TestVerifyTamperedContent(t *testing.T) {
	repo, data := buildFixturePack(t)
	items := data["items"].([]any)
	item := items[0].(map[string]any)
	item["content_b64"] = base64.StdEncoding.EncodeToString([]byte("tampered\n"))

	errs := Verify(repo, data, "")
	if !hasError(errs, "sha256 mismatch") && !hasError(errs, "content mismatch") {
		t.Errorf("Verify = %v, want sha256 or content mismatch", errs)
	}
}

func TestVerifyUnsortedItems(t *testing.T) {
	repo, data := buildFixturePack(t)
	items := data["items"].([]any)
	for i, j := 0, len(items)-1; i < j; i, j = i+1, j-1 {
		items[i], items[j] = items[j], items[i]
	}

	errs := Verify(repo, data, "")
	if !hasError(errs, "items must be sorted") {
		t.Errorf("Verify = %v, want items must be sorted", errs)
	}
}

func TestVerifyDuplicateItem(t *testing.T) {
	repo, data := buildFixturePack(t)
	items := data["items"].([]any)
	data["items"] = append(items, items[len(items)-1])

	errs := Verify(repo, data, "")
	if !hasError(errs, "duplicate item (kind,path)") {
		t.Errorf("Verify = %v, want duplicate item error", errs)
	}
}

func TestVerifyTaskIDMismatch(t *testing.T) {
	repo, data := buildFixturePack(t)
	errs := Verify(repo, data, "TASK-9999")
	if !hasError(errs, "task_id mismatch") {
		t.Errorf("Verify = %v, want task_id mismatch", errs)
	}
}

func TestVerifyPackIDMismatch(t *testing.T) {
	repo, data := buildFixturePack(t)
	data["pack_id"] = strings.Repeat("0", 64)
	errs := Verify(repo, data, "")
	if !hasError(errs, "pack_id mismatch") {
		t.Errorf("Verify = %v, want pack_id mismatch", errs)
	}
}

func TestVerifyMemoryTreeMismatch(t *testing.T) {
	repo, data := buildFixturePack(t)
	data["memory_tree"] = strings.Repeat("a", 40)
	errs := Verify(repo, data, "")
	if !hasError(errs, "memory_tree mismatch") {
		t.Errorf("Verify = %v, want memory_tree mismatch", errs)
	}
}

func TestVerifySizeMismatch(t *testing.T) {
	repo, data := buildFixturePack(t)
	item := data["items"].([]any)[0].(map[string]any)
	item["size"] = json.Number("99999")
	errs := Verify(repo, data, "")
	if !hasError(errs, "size mismatch") {
		t.Errorf("Verify = %v, want size mismatch", errs)
	}
}

func TestVerifyNonCanonicalPath(t *testing.T) {
	repo, data := buildFixturePack(t)
	item := data["items"].([]any)[0].(map[string]any)
	item["path"] = "/" + item["path"].(string)
	errs := Verify(repo, data, "")
	if !hasError(errs, "path must be canonical") {
		t.Errorf("Verify = %v, want canonical path error", errs)
	}
}

func TestVerifyTraversalPathRejected(t *testing.T) {
	repo, data := buildFixturePack(t)
	item := data["items"].([]any)[0].(map[string]any)
	item["path"] = "../../etc/passwd"
	errs := Verify(repo, data, "")
	if !hasError(errs, "path invalid") {
		t.Errorf("Verify = %v, want path invalid error", errs)
	}
}

func TestVerifyStructuralErrors(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(map[string]any)
		wantSub string
	}{
		{"bad version", func(d map[string]any) { d["pack_version"] = json.Number("2") }, "pack_version must be 1"},
		{"bad pack_id", func(d map[string]any) { d["pack_id"] = "xyz" }, "pack_id must be 64-hex"},
		{"empty task_id", func(d map[string]any) { d["task_id"] = " " }, "task_id must be non-empty"},
		{"missing repo_commit", func(d map[string]any) { d["repo_commit"] = "" }, "repo_commit must be non-empty"},
		{"unresolvable repo_commit", func(d map[string]any) { d["repo_commit"] = "feedfacefeedfacefeedfacefeedfacefeedface" }, "repo_commit invalid"},
		{"items not list", func(d map[string]any) { d["items"] = "nope" }, "items must be list"},
		{"bad memory_tree", func(d map[string]any) { d["memory_tree"] = "zz" }, "memory_tree must be 7-40 hex"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo, data := buildFixturePack(t)
			tt.mutate(data)
			errs := Verify(repo, data, "")
			if !hasError(errs, tt.wantSub) {
				t.Errorf("Verify = %v, want %q", errs, tt.wantSub)
			}
		})
	}
}

func TestVerifyItemFieldErrors(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(map[string]any)
		wantSub string
	}{
		{"bad kind", func(it map[string]any) { it["kind"] = "mystery" }, "kind must be one of"},
		{"bad blob", func(it map[string]any) { it["git_blob"] = "short" }, "git_blob must be 40-hex"},
		{"bad sha", func(it map[string]any) { it["sha256"] = "short" }, "sha256 must be 64-hex"},
		{"negative size", func(it map[string]any) { it["size"] = json.Number("-1") }, "size must be non-negative"},
		{"fractional size", func(it map[string]any) { it["size"] = json.Number("1.5") }, "size must be non-negative"},
		{"empty content", func(it map[string]any) { it["content_b64"] = "" }, "content_b64 must be non-empty"},
		{"invalid base64", func(it map[string]any) { it["content_b64"] = "!!!" }, "invalid base64"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo, data := buildFixturePack(t)
			item := data["items"].([]any)[0].(map[string]any)
			tt.mutate(item)
			errs := Verify(repo, data, "")
			if !hasError(errs, tt.wantSub) {
				t.Errorf("Verify = %v, want %q", errs, tt.wantSub)
			}
		})
	}
}

func TestVerifyGitBlobMismatch(t *testing.T) {
	repo, data := buildFixturePack(t)
	item := data["items"].([]any)[0].(map[string]any)
	item["git_blob"] = strings.Repeat("1", 40)
	errs := Verify(repo, data, "")
	if !hasError(errs, "git_blob mismatch") {
		t.Errorf("Verify = %v, want git_blob mismatch", errs)
	}
}
