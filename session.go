package ui

import (
	"context"
	"slices"
	"sync"
)

// Session serializes access to a state tree. Nodes are not safe for
// concurrent use: every read or mutation of the tree, synchronization
// included, has to go through Access or a function queued with Enqueue.
type Session struct {
	mu   sync.Mutex
	tree *StateTree

	qmu     sync.Mutex
	pending []func(*StateTree)
	wake    chan struct{}
}

func NewSession(tree *StateTree) *Session {
	return &Session{
		tree: tree,
		wake: make(chan struct{}, 1),
	}
}

// Tree returns the tree of the session. It must only be used from within
// Access or a queued function.
func (s *Session) Tree() *StateTree { return s.tree }

// Access runs fn with exclusive access to the tree.
func (s *Session) Access(fn func(tree *StateTree)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	fn(s.tree)
}

// Enqueue schedules fn to be run by Run, after the functions queued before
// it. It does not block the caller.
func (s *Session) Enqueue(fn func(tree *StateTree)) {
	s.qmu.Lock()
	s.pending = append(s.pending, fn)
	s.qmu.Unlock()
	select {
	case s.wake <- struct{}{}:
	default:
	}
}

func (s *Session) takePending() []func(*StateTree) {
	s.qmu.Lock()
	defer s.qmu.Unlock()
	work := s.pending
	s.pending = nil
	return work
}

// Run executes queued functions in order under the session lock until ctx is
// done. Functions still queued at that point stay queued for the next Run.
func (s *Session) Run(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-s.wake:
		}
		work := s.takePending()
		for i, fn := range work {
			if ctx.Err() != nil {
				s.requeue(work[i:])
				return ctx.Err()
			}
			s.Access(fn)
		}
	}
}

func (s *Session) requeue(work []func(*StateTree)) {
	s.qmu.Lock()
	s.pending = append(slices.Clone(work), s.pending...)
	s.qmu.Unlock()
	select {
	case s.wake <- struct{}{}:
	default:
	}
}

// Sync collects the pending changes of the tree under the session lock.
func (s *Session) Sync() []NodeChange {
	var changes []NodeChange
	s.Access(func(tree *StateTree) {
		tree.CollectChanges(func(c NodeChange) {
			changes = append(changes, c)
		})
	})
	return changes
}
