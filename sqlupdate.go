package hikeusers

import (
	"fmt"
	"sort"
	"strings"
)

// PartialUpdate builds the SET fragment of an UPDATE statement from a
// sparse field map. Keys present in toSQL are translated to their
// column name; unknown keys pass through unchanged. Returns the clause
// with $N placeholders and the matching argument slice.
//
// Keys are iterated in sorted order so the clause, and therefore the
// placeholder numbering, is deterministic.
func PartialUpdate(data map[string]any, toSQL map[string]string) (string, []any, error) {
	if len(data) == 0 {
		return "", nil, ErrNoUpdateData
	}

	keys := make([]string, 0, len(data))
	for k := range data {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	assignments := make([]string, 0, len(keys))
	values := make([]any, 0, len(keys))

	for i, key := range keys {
		col := key
		if mapped, ok := toSQL[key]; ok {
			col = mapped
		}
		assignments = append(assignments, fmt.Sprintf("%q=$%d", col, i+1))
		values = append(values, data[key])
	}

	return strings.Join(assignments, ", "), values, nil
}
