package scope

import (
	"testing"

	"github.com/cwbudde/rubycore/internal/intern"
)

func TestDeclareAndLookupInSameScope(t *testing.T) {
	pool := intern.New(64)
	id := pool.InsertShared([]byte("x"))

	s := New(nil, true)
	s.Declare(id, 0)

	owner, local := s.Lookup(id)
	if owner != s {
		t.Fatalf("expected lookup to find the declaring scope")
	}
	if local.Name != id {
		t.Fatalf("expected local name id %d, got %d", id, local.Name)
	}
}

func TestRedeclareReturnsExistingRecord(t *testing.T) {
	pool := intern.New(64)
	id := pool.InsertShared([]byte("x"))

	s := New(nil, true)
	first := s.Declare(id, 0)
	second := s.Declare(id, 10)

	if first.Location != second.Location {
		t.Fatalf("expected redeclaration to leave the original record (location %d) unchanged, got %d", first.Location, second.Location)
	}
	if len(s.Locals()) != 1 {
		t.Fatalf("expected exactly 1 local after redeclaration, got %d", len(s.Locals()))
	}
}

func TestLookupCrossesTransparentBlockScope(t *testing.T) {
	pool := intern.New(64)
	id := pool.InsertShared([]byte("x"))

	outer := New(nil, true)
	outer.Declare(id, 0)

	block := New(outer, false) // block scopes are transparent
	owner, local := block.Lookup(id)
	if owner != outer {
		t.Fatalf("expected lookup from a transparent block scope to find the outer declaring scope")
	}
	if local == nil {
		t.Fatalf("expected a local record")
	}
}

func TestLookupStopsAtClosedScope(t *testing.T) {
	pool := intern.New(64)
	id := pool.InsertShared([]byte("x"))

	outer := New(nil, true)
	outer.Declare(id, 0)

	method := New(outer, true) // closed: opaque to outer locals
	owner, local := method.Lookup(id)
	if owner != nil || local != nil {
		t.Fatalf("expected lookup from a closed scope to not see outer locals, got owner=%v local=%v", owner, local)
	}
}

func TestLookupUndeclaredReturnsNil(t *testing.T) {
	pool := intern.New(64)
	id := pool.InsertShared([]byte("never_declared"))

	s := New(nil, true)
	owner, local := s.Lookup(id)
	if owner != nil || local != nil {
		t.Fatalf("expected (nil, nil) for an undeclared name")
	}
}

func TestLookupIncrementsReadCount(t *testing.T) {
	pool := intern.New(64)
	id := pool.InsertShared([]byte("x"))

	s := New(nil, true)
	s.Declare(id, 0)
	s.Lookup(id)
	s.Lookup(id)

	_, local := s.Lookup(id)
	if local.Reads != 3 {
		t.Fatalf("expected 3 reads, got %d", local.Reads)
	}
}

func TestDeclareBeyondCompactThresholdStillLooksUp(t *testing.T) {
	pool := intern.New(256)
	s := New(nil, true)

	var ids []intern.ID
	for i := 0; i < compactThreshold+4; i++ {
		id := pool.InsertShared([]byte{byte('a' + i)})
		ids = append(ids, id)
		s.Declare(id, i)
	}

	for i, id := range ids {
		owner, local := s.Lookup(id)
		if owner != s || local == nil {
			t.Fatalf("expected local %d to be found after switching to hash index", i)
		}
	}
}

func TestImplicitParameterRetraction(t *testing.T) {
	s := New(nil, true)
	s.AddImplicitParameter("_1", 5)
	s.ParamState |= NumberedFound

	s.RetractImplicitParameters()

	if len(s.ImplicitParameters) != 0 {
		t.Fatalf("expected implicit parameters to be cleared")
	}
	if s.ParamState&NumberedFound != 0 {
		t.Fatalf("expected NumberedFound flag to be cleared")
	}
}
