package memory

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"github.com/si978/memctl/internal/git"
)

// Load enumerates every meta.json under Root at commit and returns the items
// ordered by meta_path plus an id index. A repository without Root yields an
// empty set. Unparseable metadata aborts the load: the snapshot is
// unreadable and nothing downstream can be trusted.
//
// Duplicate ids can legitimately appear in a broken snapshot; the first
// occurrence wins in the index while every occurrence stays in the item list
// so the validator can report the conflict.
func Load(repo git.Repo, commit string) ([]*Item, map[string]*Item, error) {
	resolved, err := repo.ResolveCommit(commit)
	if err != nil {
		return nil, nil, err
	}
	if !repo.PathExists(resolved, Root) {
		return nil, map[string]*Item{}, nil
	}

	files, err := repo.ListTree(resolved, Root)
	if err != nil {
		return nil, nil, err
	}
	var metaPaths []string
	for _, p := range files {
		if strings.HasSuffix(p, "/meta.json") {
			metaPaths = append(metaPaths, p)
		}
	}
	sort.Strings(metaPaths)

	var items []*Item
	byID := make(map[string]*Item)

	for _, metaPath := range metaPaths {
		raw, err := repo.ReadBlob(resolved, metaPath)
		if err != nil {
			return nil, nil, fmt.Errorf("invalid json: %s: %w", metaPath, err)
		}
		var meta map[string]any
		dec := json.NewDecoder(bytes.NewReader(raw))
		dec.UseNumber()
		if err := dec.Decode(&meta); err != nil {
			return nil, nil, fmt.Errorf("invalid json: %s: %v", metaPath, err)
		}
		if meta == nil {
			return nil, nil, fmt.Errorf("invalid json: %s: meta must be object", metaPath)
		}

		entryDir := strings.TrimSuffix(metaPath, "/meta.json")
		bodyPath := ""
		if repo.PathExists(resolved, entryDir+"/body.md") {
			bodyPath = entryDir + "/body.md"
		}

		item := &Item{
			ID:       strings.TrimSpace(metaString(meta, "id")),
			Type:     strings.TrimSpace(metaString(meta, "type")),
			Status:   strings.TrimSpace(metaString(meta, "status")),
			Title:    strings.TrimSpace(metaString(meta, "title")),
			Meta:     meta,
			MetaPath: metaPath,
			BodyPath: bodyPath,
		}
		items = append(items, item)
		if item.ID != "" {
			if _, taken := byID[item.ID]; !taken {
				byID[item.ID] = item
			}
		}
	}
	return items, byID, nil
}

// metaString fetches a string field from parsed metadata; non-string values
// read as empty and are reported by the validator, not here.
func metaString(meta map[string]any, key string) string {
	s, _ := meta[key].(string)
	return s
}
