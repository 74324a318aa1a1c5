// Package intent holds the operator-adjustable view state: text filter,
// thread visibility, hierarchy, sort method, pause flag and selection.
//
// The foreground consumer is the only writer. The background refresher reads
// the pause flag through [Store.ContinueRefreshing].
package intent

import "sync"

// State is a value copy of the view state, safe to use without locking.
type State struct {
	SelectedPID  int32
	HasSelection bool

	Filter             string
	ShowThreads        bool
	Hierarchical       bool
	Sort               SortMethod
	ContinueRefreshing bool
}

// DefaultState is the state of a fresh install: hierarchical, no threads,
// CPU descending, refreshing.
func DefaultState() State {
	return State{
		Hierarchical:       true,
		Sort:               DefaultSortMethod(),
		ContinueRefreshing: true,
	}
}

// Selected returns the selected pid, if any.
func (s State) Selected() (int32, bool) {
	return s.SelectedPID, s.HasSelection
}

// PIDSet reports whether a pid is present in the current snapshot.
type PIDSet interface {
	Contains(pid int32) bool
}

// Store guards a State with a reader/writer lock.
type Store struct {
	mu sync.RWMutex
	st State
}

// NewStore returns a store holding initial.
func NewStore(initial State) *Store {
	return &Store{st: initial}
}

// State returns a copy of the current state.
func (s *Store) State() State {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.st
}

// ContinueRefreshing reports whether the periodic refresh is active.
func (s *Store) ContinueRefreshing() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.st.ContinueRefreshing
}

func (s *Store) update(fn func(*State)) State {
	s.mu.Lock()
	defer s.mu.Unlock()
	fn(&s.st)
	return s.st
}

// SetFilter replaces the process filter text.
func (s *Store) SetFilter(text string) {
	s.update(func(st *State) { st.Filter = text })
}

// ClearFilter empties the process filter.
func (s *Store) ClearFilter() {
	s.SetFilter("")
}

// ToggleThreads flips thread visibility and returns the new value.
func (s *Store) ToggleThreads() bool {
	return s.update(func(st *State) { st.ShowThreads = !st.ShowThreads }).ShowThreads
}

// SetShowThreads sets thread visibility.
func (s *Store) SetShowThreads(show bool) {
	s.update(func(st *State) { st.ShowThreads = show })
}

// ToggleHierarchical flips between tree and flat view and returns the new
// value.
func (s *Store) ToggleHierarchical() bool {
	return s.update(func(st *State) { st.Hierarchical = !st.Hierarchical }).Hierarchical
}

// SetHierarchical selects tree (true) or flat (false) view.
func (s *Store) SetHierarchical(on bool) {
	s.update(func(st *State) { st.Hierarchical = on })
}

// SetSort replaces the sort method.
func (s *Store) SetSort(m SortMethod) {
	s.update(func(st *State) { st.Sort = m })
}

// ClickSortColumn applies a header click and returns the resulting method.
func (s *Store) ClickSortColumn(c SortCategory) SortMethod {
	return s.update(func(st *State) { st.Sort = st.Sort.Click(c) }).Sort
}

// SetSelectedPID selects a process.
func (s *Store) SetSelectedPID(pid int32) {
	s.update(func(st *State) { st.SelectedPID, st.HasSelection = pid, true })
}

// ClearSelection drops the selection.
func (s *Store) ClearSelection() {
	s.update(func(st *State) { st.SelectedPID, st.HasSelection = 0, false })
}

// SetContinueRefreshing pauses (false) or resumes (true) periodic refresh.
func (s *Store) SetContinueRefreshing(on bool) {
	s.update(func(st *State) { st.ContinueRefreshing = on })
}

// TogglePause flips the pause flag and returns true when now paused.
func (s *Store) TogglePause() bool {
	return !s.update(func(st *State) { st.ContinueRefreshing = !st.ContinueRefreshing }).ContinueRefreshing
}

// ReconcileSelection clears the selection when its pid is not in pids and
// reports whether it did so.
func (s *Store) ReconcileSelection(pids PIDSet) bool {
	cleared := false
	s.update(func(st *State) {
		if st.HasSelection && !pids.Contains(st.SelectedPID) {
			st.SelectedPID, st.HasSelection = 0, false
			cleared = true
		}
	})
	return cleared
}

// Prefs is the persisted subset of State. The selection is not persisted.
type Prefs struct {
	Filter             string     `json:"process_filter" yaml:"process_filter"`
	ShowThreads        bool       `json:"show_thread_processes" yaml:"show_thread_processes"`
	Hierarchical       bool       `json:"hierarchical_view" yaml:"hierarchical_view"`
	Sort               SortMethod `json:"sort_method" yaml:"sort_method"`
	ContinueRefreshing bool       `json:"continue_refreshing" yaml:"continue_refreshing"`
}

// Prefs returns the persistable part of the current state.
func (s *Store) Prefs() Prefs {
	st := s.State()
	return Prefs{
		Filter:             st.Filter,
		ShowThreads:        st.ShowThreads,
		Hierarchical:       st.Hierarchical,
		Sort:               st.Sort,
		ContinueRefreshing: st.ContinueRefreshing,
	}
}

// ApplyPrefs overwrites the persisted fields, leaving the selection alone.
func (s *Store) ApplyPrefs(p Prefs) {
	s.update(func(st *State) {
		st.Filter = p.Filter
		st.ShowThreads = p.ShowThreads
		st.Hierarchical = p.Hierarchical
		st.Sort = p.Sort
		st.ContinueRefreshing = p.ContinueRefreshing
	})
}

// DefaultPrefs returns the persisted fields of DefaultState.
func DefaultPrefs() Prefs {
	return NewStore(DefaultState()).Prefs()
}
