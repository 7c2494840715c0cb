package memory

import (
	"strings"
	"testing"

	"github.com/si978/memctl/internal/git/gittest"
)

func TestLoadEmptyWithoutMemoryDir(t *testing.T) {
	repo := gittest.NewFake()
	repo.AddCommit("c1", map[string]string{"README.md": "hi\n"})

	items, byID, err := Load(repo, "c1")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(items) != 0 || len(byID) != 0 {
		t.Errorf("expected empty load, got %d items, %d ids", len(items), len(byID))
	}
}

func TestLoadOrdersByMetaPath(t *testing.T) {
	repo := gittest.NewFake()
	repo.AddCommit("c1", map[string]string{
		".ai/memory/tasks/TASK-0002/meta.json":            metaJSON(t, taskMeta("TASK-0002", "", nil)),
		".ai/memory/constraints/CONSTRAINT-0001/meta.json": metaJSON(t, constraintMeta("CONSTRAINT-0001", "K1", "", nil)),
		".ai/memory/tasks/TASK-0001/meta.json":            metaJSON(t, taskMeta("TASK-0001", "", nil)),
		".ai/memory/tasks/TASK-0001/body.md":              "body\n",
	})

	items, byID, err := Load(repo, "c1")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(items) != 3 {
		t.Fatalf("got %d items, want 3", len(items))
	}
	var got []string
	for _, it := range items {
		got = append(got, it.MetaPath)
	}
	for i := 1; i < len(got); i++ {
		if got[i-1] >= got[i] {
			t.Errorf("items not ordered by meta_path: %v", got)
		}
	}
	if byID["TASK-0001"].BodyPath != ".ai/memory/tasks/TASK-0001/body.md" {
		t.Errorf("body_path = %q", byID["TASK-0001"].BodyPath)
	}
	if byID["TASK-0002"].BodyPath != "" {
		t.Errorf("TASK-0002 should have no body, got %q", byID["TASK-0002"].BodyPath)
	}
}

func TestLoadDuplicateIDFirstWins(t *testing.T) {
	repo := gittest.NewFake()
	first := taskMeta("TASK-0001", "", map[string]any{"title": "first"})
	second := taskMeta("TASK-0001", "", map[string]any{"title": "second"})
	// Meta paths sort bytewise and '-' sorts before '/', so the -copy entry
	// is the first occurrence.
	repo.AddCommit("c1", map[string]string{
		".ai/memory/tasks/TASK-0001-copy/meta.json": metaJSON(t, first),
		".ai/memory/tasks/TASK-0001/meta.json":      metaJSON(t, second),
	})

	items, byID, err := Load(repo, "c1")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(items) != 2 {
		t.Fatalf("got %d items, want 2 (duplicates stay in the list)", len(items))
	}
	if byID["TASK-0001"].Title != "first" {
		t.Errorf("by_id should keep the first occurrence, got title %q", byID["TASK-0001"].Title)
	}
}

func TestLoadRejectsNonObjectMeta(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"array", "[1,2,3]\n"},
		{"scalar", "42\n"},
		{"null", "null\n"},
		{"garbage", "{not json\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := gittest.NewFake()
			repo.AddCommit("c1", map[string]string{
				".ai/memory/tasks/TASK-0001/meta.json": tt.content,
			})
			_, _, err := Load(repo, "c1")
			if err == nil || !strings.Contains(err.Error(), "invalid json") {
				t.Errorf("Load = %v, want invalid json error", err)
			}
		})
	}
}

func TestLoadResolvesCommitish(t *testing.T) {
	repo := gittest.NewFake()
	repo.AddCommit("c1", map[string]string{
		".ai/memory/tasks/TASK-0001/meta.json": metaJSON(t, taskMeta("TASK-0001", "", nil)),
	})

	items, _, err := Load(repo, "HEAD")
	if err != nil {
		t.Fatalf("Load(HEAD): %v", err)
	}
	if len(items) != 1 {
		t.Errorf("got %d items, want 1", len(items))
	}
	if _, _, err := Load(repo, "nope"); err == nil {
		t.Error("Load with unknown commitish should fail")
	}
}
