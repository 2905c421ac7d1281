package offer

import (
	"errors"
	"fmt"
)

var ErrStatusAlreadySettled = errors.New("source status already settled")

type SourceStatus string

const (
	StatusPending   SourceStatus = "pending"
	StatusSucceeded SourceStatus = "succeeded"
	StatusFailed    SourceStatus = "failed"
)

// StatusMap holds one status per provider. It is a value type; Settle returns a new map.
type StatusMap struct {
	entries [len(allProviders)]SourceStatus
}

func NewStatusMap() StatusMap {
	var m StatusMap
	for i := range m.entries {
		m.entries[i] = StatusPending
	}
	return m
}

// Settle moves provider p out of pending. A status never changes twice.
func (m StatusMap) Settle(p Provider, status SourceStatus) (StatusMap, error) {
	idx := p.index()
	if idx < 0 {
		return m, fmt.Errorf("%w: %q", ErrUnknownProvider, p)
	}
	if status != StatusSucceeded && status != StatusFailed {
		return m, fmt.Errorf("cannot settle %s as %q", p, status)
	}
	if cur := m.get(idx); cur != StatusPending {
		return m, fmt.Errorf("%w: %s is %s", ErrStatusAlreadySettled, p, cur)
	}
	m.entries[idx] = status
	return m, nil
}

func (m StatusMap) Get(p Provider) SourceStatus {
	idx := p.index()
	if idx < 0 {
		return ""
	}
	return m.get(idx)
}

func (m StatusMap) get(idx int) SourceStatus {
	if m.entries[idx] == "" {
		return StatusPending
	}
	return m.entries[idx]
}

func (m StatusMap) AllSettled() bool {
	for i := range m.entries {
		if m.get(i) == StatusPending {
			return false
		}
	}
	return true
}

// Map returns the statuses keyed by provider.
func (m StatusMap) Map() map[Provider]SourceStatus {
	out := make(map[Provider]SourceStatus, len(m.entries))
	for i, p := range allProviders {
		out[p] = m.get(i)
	}
	return out
}

type StatusSummary struct {
	Total     int
	Pending   int
	Succeeded int
	Failed    int
}

func (m StatusMap) Summary() StatusSummary {
	s := StatusSummary{Total: len(m.entries)}
	for i := range m.entries {
		switch m.get(i) {
		case StatusSucceeded:
			s.Succeeded++
		case StatusFailed:
			s.Failed++
		default:
			s.Pending++
		}
	}
	return s
}
