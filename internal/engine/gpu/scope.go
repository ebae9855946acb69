package gpu

import (
	"io"
	"sync"

	"go.uber.org/multierr"
)

type closerFunc func() error

func (f closerFunc) Close() error { return f() }

// Scope owns GPU objects and releases them in reverse order of acquisition.
type Scope struct {
	mu      sync.Mutex
	closers []io.Closer
}

// NewScope returns an empty scope.
func NewScope() *Scope {
	return &Scope{}
}

// Add takes ownership of c.
func (s *Scope) Add(c io.Closer) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closers = append(s.closers, c)
}

// AddFunc takes ownership of a release function.
func (s *Scope) AddFunc(f func() error) {
	s.Add(closerFunc(f))
}

// Child returns a scope released together with s, or earlier on its own.
func (s *Scope) Child() *Scope {
	c := NewScope()
	s.Add(c)
	return c
}

// Len returns the number of owned objects.
func (s *Scope) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.closers)
}

// Close releases everything LIFO and combines the errors. A closed scope can
// be reused; closing twice releases nothing the second time.
func (s *Scope) Close() error {
	s.mu.Lock()
	closers := s.closers
	s.closers = nil
	s.mu.Unlock()

	var err error
	for i := len(closers) - 1; i >= 0; i-- {
		err = multierr.Append(err, closers[i].Close())
	}
	return err
}
