package model

import (
	"slices"
	"strings"

	"golang.org/x/text/cases"
)

// FilterAndSort là logic của dashboard: lọc theo query rồi sort theo tên
// Không sửa list đầu vào
func FilterAndSort(list []*Employee, query string) []*Employee {
	fold := cases.Fold()
	q := fold.String(strings.TrimSpace(query))

	out := make([]*Employee, 0, len(list))
	for _, e := range list {
		if e == nil {
			continue
		}
		if q == "" ||
			strings.Contains(fold.String(e.Email), q) ||
			strings.Contains(fold.String(e.FullName), q) {
			out = append(out, e)
		}
	}

	keys := make(map[*Employee]string, len(out))
	for _, e := range out {
		keys[e] = fold.String(strings.TrimSpace(e.FullName))
	}

	slices.SortStableFunc(out, func(a, b *Employee) int {
		if c := strings.Compare(keys[a], keys[b]); c != 0 {
			return c
		}
		if c := strings.Compare(a.Email, b.Email); c != 0 {
			return c
		}
		return strings.Compare(a.ID.String(), b.ID.String())
	})

	return out
}
