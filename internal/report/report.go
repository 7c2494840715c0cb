// Package report validates an agent's post-run report. The checks are
// purely syntactic; the repository is never consulted.
package report

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/si978/memctl/internal/paths"
	"github.com/si978/memctl/internal/utils"
)

var changeActions = map[string]bool{
	"add":    true,
	"modify": true,
	"delete": true,
	"rename": true,
}

var validationStatuses = map[string]bool{
	"pass":    true,
	"fail":    true,
	"skipped": true,
}

var memoryUpdateActions = map[string]bool{
	"add":    true,
	"modify": true,
	"none":   true,
}

// Verify checks a decoded agent report and returns every problem found.
// When expectTaskID is non-empty the report must name exactly that task.
func Verify(data map[string]any, expectTaskID string) []string {
	var errors []string
	errf := func(format string, args ...any) {
		errors = append(errors, fmt.Sprintf(format, args...))
	}

	if data == nil {
		return []string{"report must be a JSON object"}
	}

	if v, ok := intValue(data["schema_version"]); !ok || v != 1 {
		errf("schema_version must be 1")
	}

	for _, k := range []string{"run_id", "agent_id", "task_id"} {
		v, _ := data[k].(string)
		if strings.TrimSpace(v) == "" {
			errf("%s must be non-empty string", k)
		}
	}

	if expectTaskID != "" {
		if got, _ := data["task_id"].(string); got != expectTaskID {
			errf("task_id mismatch: expect %q, got %q", expectTaskID, got)
		}
	}

	ctx, ok := data["context"].(map[string]any)
	if !ok {
		errf("context must be object")
		return errors
	}

	if packID, _ := ctx["pack_id"].(string); !utils.IsHex(packID, 64) {
		errf("context.pack_id must be 64-hex sha256 string")
	}
	if repoCommit, _ := ctx["repo_commit"].(string); !utils.IsHexRange(repoCommit, 7, 40) {
		errf("context.repo_commit must be 7-40 hex git sha string")
	}
	switch v := ctx["memory_tree"].(type) {
	case nil:
	case string:
		if v != "" && !utils.IsHexRange(v, 7, 40) {
			errf("context.memory_tree must be 7-40 hex git sha string, null, or empty string")
		}
	default:
		errf("context.memory_tree must be 7-40 hex git sha string, null, or empty string")
	}

	if changes, ok := data["changes"].([]any); !ok {
		errf("changes must be list")
	} else {
		for i, raw := range changes {
			ch, ok := raw.(map[string]any)
			if !ok {
				errf("changes[%d] must be object", i)
				continue
			}
			path, _ := ch["path"].(string)
			if strings.TrimSpace(path) == "" {
				errf("changes[%d].path must be non-empty string", i)
			} else if _, err := paths.Normalize(path); err != nil {
				errf("changes[%d].path invalid: %v", i, err)
			}
			if action, _ := ch["action"].(string); !changeActions[action] {
				errf("changes[%d].action must be one of add/modify/delete/rename", i)
			}
		}
	}

	if validation, ok := data["validation"].([]any); !ok {
		errf("validation must be list")
	} else {
		for i, raw := range validation {
			v, ok := raw.(map[string]any)
			if !ok {
				errf("validation[%d] must be object", i)
				continue
			}
			name, _ := v["name"].(string)
			if strings.TrimSpace(name) == "" {
				errf("validation[%d].name must be non-empty string", i)
			}
			if status, _ := v["status"].(string); !validationStatuses[status] {
				errf("validation[%d].status must be one of pass/fail/skipped", i)
			}
			if ec, present := v["exit_code"]; present && ec != nil {
				if _, ok := intValue(ec); !ok {
					errf("validation[%d].exit_code must be integer when present", i)
				}
			}
		}
	}

	if mu, present := data["memory_updates"]; present && mu != nil {
		updates, ok := mu.([]any)
		if !ok {
			errf("memory_updates must be list when present")
		} else {
			for i, raw := range updates {
				u, ok := raw.(map[string]any)
				if !ok {
					errf("memory_updates[%d] must be object", i)
					continue
				}
				id, _ := u["id"].(string)
				if strings.TrimSpace(id) == "" {
					errf("memory_updates[%d].id must be non-empty string", i)
				}
				if action, _ := u["action"].(string); !memoryUpdateActions[action] {
					errf("memory_updates[%d].action must be one of add/modify/none", i)
				}
			}
		}
	}

	return errors
}

// intValue reads an integral JSON value however the decoder represented it.
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
