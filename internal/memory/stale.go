package memory

import (
	"fmt"
	"strings"

	"github.com/si978/memctl/internal/git"
	"github.com/si978/memctl/internal/paths"
)

// CheckStale compares each item's watched paths against the commit it was
// last verified at and classifies the item as clean, warned, or stale.
//
// The verified commit is meta.verified_commit when set, otherwise the commit
// that last touched the item's meta.json. A stale item with a non-empty
// stale_exemption.reason downgrades to a warning; it never produces an
// error.
func CheckStale(repo git.Repo, commit string, items []*Item) (errors, warnings []string) {
	for _, item := range items {
		watchRaw, _ := item.Meta["watch_paths"].([]any)
		if len(watchRaw) == 0 {
			continue
		}

		verified, err := verifiedCommit(repo, commit, item)
		if err != nil {
			errors = append(errors, err.Error())
			continue
		}
		if !repo.IsAncestor(verified, commit) {
			errors = append(errors, fmt.Sprintf("%s: verified_commit %s is not an ancestor of %s", item.MetaPath, verified, commit))
			continue
		}

		var watchPaths []string
		badPath := false
		for _, wp := range watchRaw {
			s, ok := wp.(string)
			if !ok || strings.TrimSpace(s) == "" {
				continue
			}
			norm, normErr := paths.Normalize(s)
			if normErr != nil {
				errors = append(errors, fmt.Sprintf("%s: invalid watch_paths: %v", item.MetaPath, normErr))
				badPath = true
				break
			}
			watchPaths = append(watchPaths, norm)
		}
		if badPath || len(watchPaths) == 0 {
			continue
		}

		changed, diffErr := repo.DiffNames(verified, commit, watchPaths)
		if diffErr != nil {
			errors = append(errors, fmt.Sprintf("%s: cannot diff watch_paths: %v", item.MetaPath, diffErr))
			continue
		}
		if len(changed) == 0 {
			continue
		}

		diff := strings.Join(changed, "\n")
		if reason := exemptionReason(item); reason != "" {
			warnings = append(warnings, fmt.Sprintf("%s: STALE but exempted (reason=%q). Changed:\n%s", item.MetaPath, reason, diff))
		} else {
			errors = append(errors, fmt.Sprintf("%s: STALE. Changed since %s:\n%s", item.MetaPath, verified, diff))
		}
	}
	return errors, warnings
}

// verifiedCommit resolves the commit watch_paths are evaluated against.
func verifiedCommit(repo git.Repo, commit string, item *Item) (string, error) {
	if v, ok := item.Meta["verified_commit"].(string); ok && strings.TrimSpace(v) != "" {
		resolved, err := repo.ResolveCommit(strings.TrimSpace(v))
		if err != nil {
			return "", fmt.Errorf("%s: verified_commit invalid: %v", item.MetaPath, err)
		}
		return resolved, nil
	}
	last := repo.LastTouch(commit, item.MetaPath)
	if last == "" {
		return "", fmt.Errorf("%s: cannot determine last-touch commit for stale check", item.MetaPath)
	}
	return last, nil
}

// exemptionReason returns the stale_exemption reason, or "" when the item
// carries no usable exemption.
func exemptionReason(item *Item) string {
	exemption, _ := item.Meta["stale_exemption"].(map[string]any)
	reason, _ := exemption["reason"].(string)
	return strings.TrimSpace(reason)
}
