package gpu

import (
	"errors"
	"testing"

	"go.uber.org/multierr"
)

func TestScopeReleasesInReverseOrder(t *testing.T) {
	var order []int
	s := NewScope()
	for i := 0; i < 3; i++ {
		s.AddFunc(func() error {
			order = append(order, i)
			return nil
		})
	}

	if err := s.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}
	want := []int{2, 1, 0}
	for i := range want {
		if order[i] != want[i] {
			t.Fatalf("release order = %v, want %v", order, want)
		}
	}
	if s.Len() != 0 {
		t.Errorf("Len() after Close = %d, want 0", s.Len())
	}
}

func TestScopeCombinesErrors(t *testing.T) {
	errA := errors.New("a")
	errB := errors.New("b")
	s := NewScope()
	s.AddFunc(func() error { return errA })
	s.AddFunc(func() error { return nil })
	s.AddFunc(func() error { return errB })

	err := s.Close()
	if got := len(multierr.Errors(err)); got != 2 {
		t.Fatalf("got %d errors, want 2", got)
	}
	if !errors.Is(err, errA) || !errors.Is(err, errB) {
		t.Errorf("Close() = %v, want both errors", err)
	}
}

func TestScopeChildClosesWithParent(t *testing.T) {
	parent := NewScope()
	child := parent.Child()
	released := false
	child.AddFunc(func() error {
		released = true
		return nil
	})

	if err := parent.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}
	if !released {
		t.Error("child scope not released with parent")
	}
}
