// Package selector implements the attendee picker for an expense draft: a
// combobox that searches individuals or whole teams, adds and removes them,
// and supports keyboard navigation over the suggestion list.
//
// The Selector is an explicit state machine driven by event methods. All
// derived views (the suggestion list, the selected-id set) are recomputed
// from current state on demand rather than cached, so they can never go
// stale relative to the query or the selection.
package selector

import (
	"strings"

	"github.com/socialbudget/backend/internal/models"
	"github.com/socialbudget/backend/internal/roster"
)

// EntryKind discriminates suggestion entries.
type EntryKind int

const (
	// EntryTeam suggests adding every unselected member of a team.
	EntryTeam EntryKind = iota
	// EntryPerson suggests adding a single employee.
	EntryPerson
)

// Entry is one row of the suggestion list: either a whole team or a single
// employee.
type Entry struct {
	Kind     EntryKind
	Team     string          // set when Kind == EntryTeam
	Employee models.Employee // set when Kind == EntryPerson
}

// Selector holds the combobox state: query text, open/closed, the
// highlighted suggestion, and the ordered attendee selection.
//
// The selection is kept as an ordered id sequence (display order, LIFO
// removal) with membership checked against a set maintained alongside it;
// both are mutated only through AddPerson/AddTeam/Remove so they cannot
// diverge.
type Selector struct {
	idx *roster.Index

	query     string
	open      bool
	highlight int

	// closePending models the grace period between losing focus and the
	// dropdown actually closing. A selection event in between cancels it,
	// so a click on a suggestion always lands before the close applies.
	closePending bool

	selected    []string
	selectedSet map[string]struct{}

	lastCount int
}

// New creates a closed, empty selector over the given roster index.
func New(idx *roster.Index) *Selector {
	s := &Selector{
		idx:         idx,
		selectedSet: make(map[string]struct{}),
	}
	s.lastCount = len(s.Suggestions())
	return s
}

// IsOpen reports whether the suggestion dropdown is showing.
func (s *Selector) IsOpen() bool { return s.open }

// Query returns the current search text.
func (s *Selector) Query() string { return s.query }

// HighlightIndex returns the index of the highlighted suggestion.
func (s *Selector) HighlightIndex() int { return s.highlight }

// Selection returns the selected employee IDs in the order they were added.
func (s *Selector) Selection() []string {
	out := make([]string, len(s.selected))
	copy(out, s.selected)
	return out
}

// Selected reports whether the employee is already in the selection.
func (s *Selector) Selected(id string) bool {
	_, ok := s.selectedSet[id]
	return ok
}

// Suggestions derives the current suggestion list: teams with at least one
// unselected member first (first-appearance order), then unselected
// employees (roster order). Matching is case-insensitive; teams match on
// their name, employees on "name team".
func (s *Selector) Suggestions() []Entry {
	query := strings.ToLower(strings.TrimSpace(s.query))

	var entries []Entry
	for _, team := range s.idx.TeamNames() {
		if !s.teamHasUnselected(team) {
			continue
		}
		if query != "" && !strings.Contains(strings.ToLower(team), query) {
			continue
		}
		entries = append(entries, Entry{Kind: EntryTeam, Team: team})
	}
	for _, employee := range s.idx.Employees() {
		if s.Selected(employee.ID) {
			continue
		}
		if query != "" && !strings.Contains(strings.ToLower(employee.Name+" "+employee.Team), query) {
			continue
		}
		entries = append(entries, Entry{Kind: EntryPerson, Employee: employee})
	}
	return entries
}

// Focus opens the dropdown and cancels any pending close.
func (s *Selector) Focus() {
	s.open = true
	s.closePending = false
}

// Click on the input behaves like focus.
func (s *Selector) Click() {
	s.Focus()
}

// SetQuery replaces the search text and opens the dropdown.
func (s *Selector) SetQuery(query string) {
	changed := query != s.query
	s.query = query
	s.open = true
	s.closePending = false
	s.syncHighlight(changed)
}

// Escape closes the dropdown, keeping the query.
func (s *Selector) Escape() {
	s.open = false
}

// ArrowDown moves the highlight down, clamped to the last suggestion.
// No-op when the suggestion list is empty.
func (s *Selector) ArrowDown() {
	s.open = true
	count := len(s.Suggestions())
	if count == 0 {
		return
	}
	if s.highlight < count-1 {
		s.highlight++
	}
}

// ArrowUp moves the highlight up, clamped to the first suggestion.
func (s *Selector) ArrowUp() {
	s.open = true
	if len(s.Suggestions()) == 0 {
		return
	}
	if s.highlight > 0 {
		s.highlight--
	}
}

// Enter activates the current input: an exact team-name match (trimmed,
// case-insensitive) adds that whole team and takes priority over the
// highlighted entry; otherwise the highlighted suggestion is activated.
// With nothing to activate, Enter does nothing.
func (s *Selector) Enter() {
	if !s.open {
		return
	}

	query := strings.ToLower(strings.TrimSpace(s.query))
	if query != "" {
		for _, team := range s.idx.TeamNames() {
			if strings.ToLower(team) == query {
				s.AddTeam(team)
				return
			}
		}
	}

	entries := s.Suggestions()
	if len(entries) == 0 || s.highlight >= len(entries) {
		return
	}
	entry := entries[s.highlight]
	if entry.Kind == EntryTeam {
		s.AddTeam(entry.Team)
	} else {
		s.AddPerson(entry.Employee.ID)
	}
}

// Backspace with an empty query removes the most recently added attendee,
// so a run of additions can be unwound without the pointer.
func (s *Selector) Backspace() {
	if s.query != "" || len(s.selected) == 0 {
		return
	}
	s.Remove(s.selected[len(s.selected)-1])
}

// AddPerson appends one employee to the selection, clears the query and
// keeps the dropdown open so further picks can be chained. Unknown or
// already-selected IDs are ignored.
func (s *Selector) AddPerson(id string) {
	if _, ok := s.idx.Lookup(id); !ok {
		return
	}
	if s.Selected(id) {
		return
	}
	s.selected = append(s.selected, id)
	s.selectedSet[id] = struct{}{}
	s.afterSelection()
}

// AddTeam appends every currently unselected member of the team, in roster
// order. Invoked on a fully selected team it adds nothing.
func (s *Selector) AddTeam(team string) {
	for _, id := range s.idx.MembersOf(team) {
		if s.Selected(id) {
			continue
		}
		s.selected = append(s.selected, id)
		s.selectedSet[id] = struct{}{}
	}
	s.afterSelection()
}

// Remove drops the employee from the selection. Removing an ID that is not
// selected is a no-op.
func (s *Selector) Remove(id string) {
	if !s.Selected(id) {
		return
	}
	kept := s.selected[:0]
	for _, selectedID := range s.selected {
		if selectedID != id {
			kept = append(kept, selectedID)
		}
	}
	s.selected = kept
	delete(s.selectedSet, id)
	s.syncHighlight(false)
}

// Blur marks the dropdown for closing. The close is not applied until
// CompleteBlur so that a selection click racing the blur still registers;
// any selection or refocus in between cancels it.
func (s *Selector) Blur() {
	s.closePending = true
}

// CompleteBlur applies a pending close, if one is still pending.
func (s *Selector) CompleteBlur() {
	if s.closePending {
		s.closePending = false
		s.open = false
	}
}

func (s *Selector) afterSelection() {
	queryChanged := s.query != ""
	s.query = ""
	s.open = true
	s.closePending = false
	s.syncHighlight(queryChanged)
}

// syncHighlight re-derives the highlight after a state change: reset to 0
// when the query or the suggestion count changed, clamped into
// [0, count-1] regardless.
func (s *Selector) syncHighlight(queryChanged bool) {
	count := len(s.Suggestions())
	if queryChanged || count != s.lastCount {
		s.highlight = 0
	}
	s.lastCount = count
	if count == 0 {
		s.highlight = 0
	} else if s.highlight > count-1 {
		s.highlight = count - 1
	}
}

func (s *Selector) teamHasUnselected(team string) bool {
	for _, id := range s.idx.MembersOf(team) {
		if !s.Selected(id) {
			return true
		}
	}
	return false
}
