package intern

import "testing"

func TestInsertSharedDeduplicates(t *testing.T) {
	p := New(64)
	a := p.InsertShared([]byte("foo"))
	b := p.InsertShared([]byte("foo"))
	c := p.InsertShared([]byte("bar"))
	if a != b {
		t.Fatalf("expected identical content to intern to the same id, got %d and %d", a, b)
	}
	if a == c {
		t.Fatalf("expected distinct content to intern to distinct ids")
	}
	if p.Len() != 2 {
		t.Fatalf("expected 2 distinct entries, got %d", p.Len())
	}
}

func TestInsertOwnedCopiesBytes(t *testing.T) {
	p := New(64)
	buf := []byte("escaped")
	id := p.InsertOwned(buf)
	buf[0] = 'X'
	if got := p.String(id); got != "escaped" {
		t.Fatalf("expected owned entry to be unaffected by later mutation of source buffer, got %q", got)
	}
}

func TestInsertConstant(t *testing.T) {
	p := New(0)
	id := p.InsertConstant("<missing>")
	if p.Class(id) != Constant {
		t.Fatalf("expected Constant class, got %v", p.Class(id))
	}
	if p.String(id) != "<missing>" {
		t.Fatalf("expected \"<missing>\", got %q", p.String(id))
	}
}

func TestClassTracksStorageDiscipline(t *testing.T) {
	p := New(64)
	shared := p.InsertShared([]byte("a"))
	owned := p.InsertOwned([]byte("b"))
	constant := p.InsertConstant("c")
	if p.Class(shared) != Shared {
		t.Fatalf("expected Shared, got %v", p.Class(shared))
	}
	if p.Class(owned) != Owned {
		t.Fatalf("expected Owned, got %v", p.Class(owned))
	}
	if p.Class(constant) != Constant {
		t.Fatalf("expected Constant, got %v", p.Class(constant))
	}
}

func TestBytesReturnsInternedContent(t *testing.T) {
	p := New(64)
	id := p.InsertShared([]byte("hello"))
	if got := string(p.Bytes(id)); got != "hello" {
		t.Fatalf("expected %q, got %q", "hello", got)
	}
}

func TestCrossClassSameContentDeduplicates(t *testing.T) {
	// lookupOrAppend dedups purely on byte content, regardless of which
	// Insert* call is used, so the first writer's class wins.
	p := New(64)
	shared := p.InsertShared([]byte("dup"))
	owned := p.InsertOwned([]byte("dup"))
	if shared != owned {
		t.Fatalf("expected same id across Insert variants for identical content")
	}
	if p.Class(shared) != Shared {
		t.Fatalf("expected first-writer class (Shared) to win, got %v", p.Class(shared))
	}
}
