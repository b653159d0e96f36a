package core

import (
	"strings"

	"golang.org/x/text/cases"
)

// DefaultRule is used when an account has no rules, since the action prompt
// needs at least one
const DefaultRule = "Any other classification requires manual intervention."

// FolderSet is the set of folder names referenced by a rule set.
// A folder is referenced by wrapping its name in back ticks, e.g. `Newsletters`.
type FolderSet struct {
	names map[string]string
	order []string
}

// ParseFolderSet extracts the back-tick delimited folder names from rules.
// Back ticks pair up in order within each rule; empty tokens are ignored.
func ParseFolderSet(rules []string) FolderSet {
	fold := cases.Fold()
	set := FolderSet{names: make(map[string]string)}

	for _, rule := range rules {
		parts := strings.Split(rule, "`")
		// odd indexes are between a pair of back ticks; the last part never is
		for i := 1; i < len(parts)-1; i += 2 {
			name := parts[i]
			if name == "" {
				continue
			}
			key := fold.String(name)
			if _, ok := set.names[key]; ok {
				continue
			}
			set.names[key] = name
			set.order = append(set.order, name)
		}
	}

	return set
}

// Contains reports whether name matches a referenced folder, ignoring case
func (s FolderSet) Contains(name string) bool {
	if name == "" {
		return false
	}
	_, ok := s.names[cases.Fold().String(name)]
	return ok
}

// Names returns the referenced folders in the order they first appear
func (s FolderSet) Names() []string {
	return append([]string(nil), s.order...)
}

// Len returns the number of distinct folders
func (s FolderSet) Len() int {
	return len(s.order)
}

// containsFold reports whether substr occurs in s, ignoring case
func containsFold(s, substr string) bool {
	fold := cases.Fold()
	return strings.Contains(fold.String(s), fold.String(substr))
}
