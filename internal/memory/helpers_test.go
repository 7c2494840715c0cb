package memory

import (
	"encoding/json"
	"strings"
	"testing"
)

// metaJSON renders a metadata map the way the fixtures in a real repository
// are written: indented JSON with a trailing newline.
func metaJSON(t *testing.T, meta map[string]any) string {
	t.Helper()
	raw, err := json.MarshalIndent(meta, "", "  ")
	if err != nil {
		t.Fatal(err)
	}
	return string(raw) + "\n"
}

func taskMeta(id, evidenceRef string, extra map[string]any) map[string]any {
	meta := map[string]any{
		"schema_version": 1,
		"id":             id,
		"type":           "task",
		"status":         "active",
		"title":          "Test Task",
		"evidence":       []any{map[string]any{"kind": "repo_path", "ref": evidenceRef}},
		"pack":           map[string]any{"include_memory_ids": []any{}, "include_paths": []any{}},
	}
	for k, v := range extra {
		meta[k] = v
	}
	return meta
}

func constraintMeta(id, key, evidenceRef string, extra map[string]any) map[string]any {
	meta := map[string]any{
		"schema_version": 1,
		"id":             id,
		"type":           "constraint",
		"status":         "active",
		"title":          "Test Constraint",
		"key":            key,
		"evidence":       []any{map[string]any{"kind": "repo_path", "ref": evidenceRef}},
	}
	for k, v := range extra {
		meta[k] = v
	}
	return meta
}

func adrMeta(id, topic, evidenceRef string) map[string]any {
	return map[string]any{
		"schema_version": 1,
		"id":             id,
		"type":           "adr",
		"status":         "accepted",
		"title":          "Test Decision",
		"topic":          topic,
		"evidence":       []any{map[string]any{"kind": "repo_path", "ref": evidenceRef}},
	}
}

func containsSubstring(list []string, sub string) bool {
	for _, s := range list {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}
