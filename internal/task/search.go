package task

import "strings"

// Filter returns a new list of the tasks whose name contains query, compared
// literally and case-sensitively. src is left untouched.
func Filter(src *List, query string) *List {
	out := &List{}
	for _, t := range src.tasks {
		if strings.Contains(t.Name, query) {
			out.Add(t)
		}
	}
	return out
}
