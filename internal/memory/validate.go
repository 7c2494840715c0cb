package memory

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/si978/memctl/internal/git"
	"github.com/si978/memctl/internal/paths"
)

// Validate runs every schema and cross-item check over the loaded snapshot
// and returns the full error list. It never short-circuits: one run surfaces
// every problem. An empty result means the memory set is valid.
func Validate(repo git.Repo, commit string, items []*Item, byID map[string]*Item) []string {
	var errors []string
	err := func(format string, args ...any) {
		errors = append(errors, fmt.Sprintf(format, args...))
	}

	seenIDs := make(map[string]string)
	constraintByKey := make(map[string]string)
	adrByTopic := make(map[string]string)

	for _, item := range items {
		meta := item.Meta

		if v, ok := intField(meta, "schema_version"); !ok || v != 1 {
			err("%s: schema_version must be 1", item.MetaPath)
		}

		if item.ID == "" {
			err("%s: missing id", item.MetaPath)
		}
		if item.Type == "" {
			err("%s: missing type", item.MetaPath)
		}
		if item.Type != "" && !AllowedTypes[item.Type] {
			err("%s: invalid type=%q", item.MetaPath, item.Type)
		}
		if item.Status == "" {
			err("%s: missing status", item.MetaPath)
		}
		if item.Title == "" {
			err("%s: missing title", item.MetaPath)
		}

		// Location: .ai/memory/<dir(type)>/<id>.../meta.json
		parts := strings.Split(item.MetaPath, "/")
		if len(parts) >= 5 && parts[0] == ".ai" && parts[1] == "memory" {
			typeDir, entryDir := parts[2], parts[3]
			if expected := TypeDir[item.Type]; expected != "" && typeDir != expected {
				err("%s: type=%q must live under .ai/memory/%s/ (found %s/)", item.MetaPath, item.Type, expected, typeDir)
			}
			if item.ID != "" && !strings.HasPrefix(entryDir, item.ID) {
				err("%s: entry dir must start with id (%s); found %s", item.MetaPath, item.ID, entryDir)
			}
		}

		if item.ID != "" {
			if prev, ok := seenIDs[item.ID]; ok && prev != item.MetaPath {
				err("duplicate id %s: %s and %s", item.ID, prev, item.MetaPath)
			} else {
				seenIDs[item.ID] = item.MetaPath
			}
		}

		if scope, present := meta["scope"]; present && scope != nil {
			scopeMap, ok := scope.(map[string]any)
			if !ok {
				err("%s: scope must be object", item.MetaPath)
			} else {
				for _, k := range []string{"paths", "components"} {
					if v, ok := scopeMap[k]; ok {
						if _, isList := v.([]any); !isList {
							err("%s: scope.%s must be list", item.MetaPath, k)
						}
					}
				}
			}
		}

		if wp, present := meta["watch_paths"]; present && wp != nil {
			if _, isList := wp.([]any); !isList {
				err("%s: watch_paths must be list", item.MetaPath)
			}
		}

		evidence, evidenceIsList := meta["evidence"].([]any)
		if item.Active() {
			if !evidenceIsList || len(evidence) == 0 {
				err("%s: active/accepted items must have non-empty evidence[]", item.MetaPath)
			}
		}
		if evidenceIsList {
			for i, ev := range evidence {
				evMap, ok := ev.(map[string]any)
				if !ok {
					err("%s: evidence[%d] must be object", item.MetaPath, i)
					continue
				}
				kind, _ := evMap["kind"].(string)
				ref, refIsString := evMap["ref"].(string)
				if !EvidenceKinds[kind] {
					err("%s: evidence[%d].kind invalid: %q", item.MetaPath, i, kind)
				}
				if !refIsString || strings.TrimSpace(ref) == "" {
					err("%s: evidence[%d].ref must be non-empty string", item.MetaPath, i)
				}
				if kind == "repo_path" && refIsString && strings.TrimSpace(ref) != "" {
					refPath, normErr := paths.Normalize(ref)
					if normErr != nil {
						err("%s: evidence[%d].ref invalid repo_path: %v", item.MetaPath, i, normErr)
						continue
					}
					switch repo.Type(commit, refPath) {
					case git.ObjectBlob, git.ObjectTree:
					case git.ObjectNone:
						err("%s: evidence[%d].ref repo_path not found as file/dir at %s: %s", item.MetaPath, i, commit, refPath)
					}
				}
			}
		}

		if sup, present := meta["supersedes"]; present && sup != nil {
			supList, isList := sup.([]any)
			if !isList {
				err("%s: supersedes must be list", item.MetaPath)
			}
			for _, sid := range supList {
				s, isString := sid.(string)
				if !isString || strings.TrimSpace(s) == "" {
					err("%s: supersedes contains non-string/empty id", item.MetaPath)
				} else if _, ok := byID[s]; !ok {
					err("%s: supersedes references missing id: %s", item.MetaPath, s)
				}
			}
		}

		if item.Type == "constraint" && item.Active() {
			key, _ := meta["key"].(string)
			if strings.TrimSpace(key) == "" {
				err("%s: constraint must have non-empty key", item.MetaPath)
			} else {
				if prev, ok := constraintByKey[key]; ok {
					err("constraint.key conflict: %q in %s and %s", key, prev, item.MetaPath)
				}
				constraintByKey[key] = item.MetaPath
			}
		}

		if item.Type == "adr" && item.Active() {
			topic, _ := meta["topic"].(string)
			if strings.TrimSpace(topic) == "" {
				err("%s: adr must have non-empty topic", item.MetaPath)
			} else {
				if prev, ok := adrByTopic[topic]; ok {
					err("adr.topic conflict: %q in %s and %s", topic, prev, item.MetaPath)
				}
				adrByTopic[topic] = item.MetaPath
			}
		}

		if item.Type == "task" {
			validateTaskPack(repo, commit, item, byID, err)
		}
	}

	return errors
}

// validateTaskPack checks the task-only pack block: every include_memory_ids
// entry must resolve in the id index and every include_paths entry must
// normalize and resolve to a blob or tree at the commit.
func validateTaskPack(repo git.Repo, commit string, item *Item, byID map[string]*Item, err func(string, ...any)) {
	packRaw, present := item.Meta["pack"]
	if !present || packRaw == nil {
		return
	}
	pack, ok := packRaw.(map[string]any)
	if !ok {
		err("%s: pack must be object", item.MetaPath)
		return
	}

	if ids, present := pack["include_memory_ids"]; present && ids != nil {
		idList, isList := ids.([]any)
		if !isList {
			err("%s: pack.include_memory_ids must be list", item.MetaPath)
		}
		for j, mid := range idList {
			s, isString := mid.(string)
			if !isString || strings.TrimSpace(s) == "" {
				err("%s: pack.include_memory_ids[%d] must be non-empty string", item.MetaPath, j)
			} else if _, ok := byID[s]; !ok {
				err("%s: pack.include_memory_ids[%d] references missing id: %s", item.MetaPath, j, s)
			}
		}
	}

	if ps, present := pack["include_paths"]; present && ps != nil {
		pathList, isList := ps.([]any)
		if !isList {
			err("%s: pack.include_paths must be list", item.MetaPath)
		}
		for j, p := range pathList {
			s, isString := p.(string)
			if !isString || strings.TrimSpace(s) == "" {
				err("%s: pack.include_paths[%d] must be non-empty string", item.MetaPath, j)
				continue
			}
			norm, normErr := paths.Normalize(s)
			if normErr != nil {
				err("%s: pack.include_paths[%d] invalid path: %v", item.MetaPath, j, normErr)
				continue
			}
			switch repo.Type(commit, norm) {
			case git.ObjectBlob, git.ObjectTree:
			case git.ObjectNone:
				err("%s: pack.include_paths[%d] not found as file/dir at %s: %s", item.MetaPath, j, commit, norm)
			}
		}
	}
}

// intField reads an integral metadata field regardless of how the JSON
// number was decoded.
func intField(meta map[string]any, key string) (int64, bool) {
	switch v := meta[key].(type) {
	case json.Number:
		if strings.ContainsAny(v.String(), ".eE") {
			return 0, false
		}
		n, err := v.Int64()
		if err != nil {
			return 0, false
		}
		return n, true
	case float64:
		if v != float64(int64(v)) {
			return 0, false
		}
		return int64(v), true
	case int:
		return int64(v), true
	default:
		return 0, false
	}
}
