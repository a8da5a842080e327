package sync

import (
	"sort"

	"github.com/mckayc/task-donegeon-sub006/internal/models"
)

// mergeByID folds incoming items into an existing collection, last write
// wins per id. Pre-existing items keep their positions, unseen ids are
// appended in arrival order, and no id ever appears twice.
func mergeByID[T any](existing, incoming []T, id func(T) string) []T {
	if len(incoming) == 0 {
		return existing
	}

	index := make(map[string]int, len(existing))
	merged := make([]T, len(existing))
	copy(merged, existing)
	for i, item := range merged {
		index[id(item)] = i
	}

	for _, item := range incoming {
		if i, ok := index[id(item)]; ok {
			merged[i] = item
		} else {
			index[id(item)] = len(merged)
			merged = append(merged, item)
		}
	}
	return merged
}

// removeByID filters out every item whose id is in the removal set.
func removeByID[T any](existing []T, ids []string, id func(T) string) []T {
	if len(ids) == 0 {
		return existing
	}

	drop := make(map[string]bool, len(ids))
	for _, removed := range ids {
		drop[removed] = true
	}

	kept := existing[:0:0]
	for _, item := range existing {
		if !drop[id(item)] {
			kept = append(kept, item)
		}
	}
	return kept
}

// mergeSettings shallow-merges key/value settings; nil incoming leaves the
// existing map untouched.
func mergeSettings(existing, incoming map[string]string) map[string]string {
	if incoming == nil {
		return existing
	}
	merged := make(map[string]string, len(existing)+len(incoming))
	for key, value := range existing {
		merged[key] = value
	}
	for key, value := range incoming {
		merged[key] = value
	}
	return merged
}

// collectTags rebuilds the deduplicated tag index from the quest collection.
func collectTags(quests []models.Quest) []string {
	seen := make(map[string]bool)
	var tags []string
	for _, quest := range quests {
		for _, tag := range quest.Tags {
			if !seen[tag] {
				seen[tag] = true
				tags = append(tags, tag)
			}
		}
	}
	sort.Strings(tags)
	return tags
}
