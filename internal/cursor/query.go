package cursor

import (
	"fmt"
	"strings"

	"github.com/23A91A0565/polystreamx/internal/model"
)

// BuildQuery composes the projected SELECT for an export request. Every
// source identifier is looked up in model.ValidSources — the fixed
// allow-list equal to Record's attributes — before being written into the
// query text, per spec.md §3's injection-defense invariant. rowLimit of 0
// means unbounded.
func BuildQuery(columns []model.ColumnMapping, rowLimit int64) (query string, sourceOrder []string, err error) {
	seen := make(map[string]bool, len(columns))
	sourceOrder = make([]string, 0, len(columns))
	for _, col := range columns {
		sqlName, ok := model.ValidSources[col.Source]
		if !ok {
			return "", nil, fmt.Errorf("cursor: unmapped source %q", col.Source)
		}
		if !seen[sqlName] {
			seen[sqlName] = true
			sourceOrder = append(sourceOrder, sqlName)
		}
	}

	var b strings.Builder
	b.WriteString("SELECT ")
	b.WriteString(strings.Join(sourceOrder, ", "))
	b.WriteString(" FROM records")
	if rowLimit > 0 {
		fmt.Fprintf(&b, " LIMIT %d", rowLimit)
	}
	return b.String(), sourceOrder, nil
}
