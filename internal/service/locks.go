package service

import "sync"

// sessionLocks serializes read-modify-write cycles on one visitor's device
// storage. Different visitors never wait on each other.
type sessionLocks struct {
	m sync.Map
}

func (l *sessionLocks) lock(sessionID string) func() {
	v, _ := l.m.LoadOrStore(sessionID, &sync.Mutex{})
	mu := v.(*sync.Mutex)
	mu.Lock()
	return mu.Unlock
}
