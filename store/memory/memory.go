// Package memory provides in-memory provider implementations (for testing/dev).
package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/warp/payroll-engine/payroll"
)

// =============================================================================
// PROFILE PROVIDER - In-memory CompensationProfile source
// =============================================================================

type ProfileStore struct {
	mu       sync.RWMutex
	profiles map[string]payroll.CompensationProfile
}

func NewProfileStore() *ProfileStore {
	return &ProfileStore{profiles: make(map[string]payroll.CompensationProfile)}
}

func (s *ProfileStore) Put(p payroll.CompensationProfile) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.profiles[p.EmployeeID] = p
}

func (s *ProfileStore) Profile(_ context.Context, employeeID string) (payroll.CompensationProfile, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	p, ok := s.profiles[employeeID]
	if !ok {
		return payroll.CompensationProfile{}, &payroll.ValidationError{
			EmployeeID: employeeID, Field: "employeeId", Reason: "unknown employee",
		}
	}
	return p, nil
}

// All returns every stored profile, ordered by employee id.
func (s *ProfileStore) All() []payroll.CompensationProfile {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]payroll.CompensationProfile, 0, len(s.profiles))
	for _, p := range s.profiles {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].EmployeeID < out[j].EmployeeID })
	return out
}

// Compile-time check against the provider interface.
var _ payroll.ProfileProvider = (*ProfileStore)(nil)

// =============================================================================
// TIME ENTRY PROVIDER - In-memory attendance source
// =============================================================================

type TimeEntryStore struct {
	mu      sync.RWMutex
	entries map[string][]payroll.TimeEntry
}

func NewTimeEntryStore() *TimeEntryStore {
	return &TimeEntryStore{entries: make(map[string][]payroll.TimeEntry)}
}

func (s *TimeEntryStore) Add(employeeID string, entries ...payroll.TimeEntry) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries[employeeID] = append(s.entries[employeeID], entries...)
}

func (s *TimeEntryStore) Entries(_ context.Context, employeeID string, from, to payroll.Date) ([]payroll.TimeEntry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []payroll.TimeEntry
	for _, e := range s.entries[employeeID] {
		if e.Date.AfterOrEqual(from) && e.Date.BeforeOrEqual(to) {
			out = append(out, e)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ClockIn.Before(out[j].ClockIn) })
	return out, nil
}

var _ payroll.TimeEntryProvider = (*TimeEntryStore)(nil)
