// Package intake reads task declarations supplied as JSON, for example on
// stdin from a script.
//
// Input is either a single declaration object or an array of them. Field
// values are accepted loosely: scalars are converted to their string form
// and isRecurring may be a boolean or the string "true". Validation is left
// to task.Draft.Build.
package intake

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/JamesPrial/taskflow/internal/task"
)

// ReadDrafts decodes one or more declarations from r. Every array element
// must be a JSON object; the error for one that is not names its 1-based
// position.
func ReadDrafts(r io.Reader) ([]task.Draft, error) {
	var raw json.RawMessage
	if err := json.NewDecoder(r).Decode(&raw); err != nil {
		return nil, fmt.Errorf("failed to decode task input: %w", err)
	}

	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) > 0 && trimmed[0] == '[' {
		var items []any
		if err := json.Unmarshal(trimmed, &items); err != nil {
			return nil, fmt.Errorf("failed to decode task list: %w", err)
		}
		drafts := make([]task.Draft, 0, len(items))
		for i, item := range items {
			obj, ok := item.(map[string]any)
			if !ok {
				return nil, fmt.Errorf("task input element %d: expected a JSON object", i+1)
			}
			drafts = append(drafts, DraftFromMap(obj))
		}
		return drafts, nil
	}

	var obj map[string]any
	if err := json.Unmarshal(trimmed, &obj); err != nil || obj == nil {
		return nil, fmt.Errorf("task input must be a JSON object or array of objects")
	}
	return []task.Draft{DraftFromMap(obj)}, nil
}

// DraftFromMap converts a decoded JSON object into a Draft using the
// persisted field names.
func DraftFromMap(m map[string]any) task.Draft {
	return task.Draft{
		Title:              stringField(m, "title"),
		Description:        stringField(m, "description"),
		Priority:           stringField(m, "priority"),
		Category:           stringField(m, "category"),
		DueDate:            stringField(m, "dueDate"),
		IsRecurring:        boolField(m, "isRecurring"),
		RecurringPattern:   stringField(m, "recurringPattern"),
		RecurringStartDate: stringField(m, "recurringStartDate"),
		RecurringEndDate:   stringField(m, "recurringEndDate"),
		Tags:               tagsField(m, "tags"),
	}
}

func stringField(m map[string]any, key string) string {
	v, ok := m[key]
	if !ok || v == nil {
		return ""
	}
	return scalarString(v)
}

// scalarString renders a decoded JSON scalar. Numbers keep their plain
// decimal form, so 20240101 stays "20240101".
func scalarString(v any) string {
	switch v := v.(type) {
	case string:
		return v
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	default:
		return fmt.Sprintf("%v", v)
	}
}

func boolField(m map[string]any, key string) bool {
	switch v := m[key].(type) {
	case bool:
		return v
	case string:
		return strings.EqualFold(strings.TrimSpace(v), "true")
	default:
		return false
	}
}

// tagsField returns nil when the key is absent so that edits keep the
// existing tags.
func tagsField(m map[string]any, key string) []string {
	switch v := m[key].(type) {
	case []any:
		tags := make([]string, 0, len(v))
		for _, item := range v {
			if item == nil {
				continue
			}
			tags = append(tags, scalarString(item))
		}
		return tags
	case string:
		return SplitTags(v)
	default:
		return nil
	}
}

// SplitTags splits a comma-separated tag list, dropping blanks.
func SplitTags(s string) []string {
	tags := make([]string, 0)
	for _, part := range strings.Split(s, ",") {
		if tag := strings.TrimSpace(part); tag != "" {
			tags = append(tags, tag)
		}
	}
	return tags
}
