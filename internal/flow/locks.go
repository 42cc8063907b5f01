package flow

import "sync"

// applicantLocks serializes update handling per applicant, so a burst of
// messages from one chat cannot interleave read-modify-write cycles.
// Entries are never evicted; the map is bounded by the applicant count.
type applicantLocks struct {
	mu    sync.Mutex
	locks map[int64]*sync.Mutex
}

func newApplicantLocks() *applicantLocks {
	return &applicantLocks{locks: make(map[int64]*sync.Mutex)}
}

func (l *applicantLocks) forApplicant(telegramID int64) *sync.Mutex {
	l.mu.Lock()
	defer l.mu.Unlock()
	m, ok := l.locks[telegramID]
	if !ok {
		m = &sync.Mutex{}
		l.locks[telegramID] = m
	}
	return m
}
