// Package intern implements the constant pool described in spec.md §3/§4.2:
// an append-only interner mapping a byte slice to a stable integer id,
// tracking the storage class of each entry for cleanup purposes.
package intern

// Class is the storage discipline of an interned entry. Go's garbage
// collector makes the distinction moot for memory safety, but the pool
// still records it: it is what an AST-serializer downstream (out of
// scope here, per spec.md §1) needs to know which entries may reference
// caller-owned buffers.
type Class int

const (
	// Shared entries point into the source buffer; they are valid as long
	// as the source is kept alive.
	Shared Class = iota
	// Owned entries point into a pool-private copy (used when the bytes
	// were assembled by the escape decoder and don't exist contiguously
	// in the source, e.g. a string literal with escapes).
	Owned
	// Constant entries point at a Go string literal compiled into the
	// program (e.g. synthesized names like "<missing>").
	Constant
)

// ID is a dense small integer referencing an interned entry.
type ID int

// entry records one interned name.
type entry struct {
	bytes []byte
	class Class
}

// Pool is the interner. The zero value is ready to use.
type Pool struct {
	entries []entry
	index   map[string]ID
}

// New creates a Pool sized for source of approximately sourceSize bytes.
// Capacity scales from source size the way spec.md §4.2 specifies,
// assuming roughly one identifier per 12 bytes of source.
func New(sourceSize int) *Pool {
	cap := sourceSize/12 + 16
	return &Pool{
		entries: make([]entry, 0, cap),
		index:   make(map[string]ID, cap),
	}
}

// lookupOrAppend is the shared body of the three Insert* operations:
// content-based lookup first, append on miss.
func (p *Pool) lookupOrAppend(b []byte, class Class) ID {
	if p.index == nil {
		p.index = make(map[string]ID)
	}
	if id, ok := p.index[string(b)]; ok {
		return id
	}
	id := ID(len(p.entries))
	p.entries = append(p.entries, entry{bytes: b, class: class})
	p.index[string(b)] = id
	return id
}

// InsertShared interns b, which must remain valid (i.e. point into the
// source buffer) for the lifetime of the pool.
func (p *Pool) InsertShared(b []byte) ID { return p.lookupOrAppend(b, Shared) }

// InsertOwned interns a copy of b, so later changes to b do not affect
// the entry. Used for escape-decoded content that doesn't exist
// contiguously in the source.
func (p *Pool) InsertOwned(b []byte) ID { return p.lookupOrAppend(append([]byte(nil), b...), Owned) }

// InsertConstant interns a static program string, e.g. synthesized
// identifiers produced by error recovery.
func (p *Pool) InsertConstant(s string) ID { return p.lookupOrAppend([]byte(s), Constant) }

// Bytes returns the interned bytes for id. The returned slice must not be
// retained past the pool's lifetime if id's class is Shared.
func (p *Pool) Bytes(id ID) []byte { return p.entries[id].bytes }

// String returns the interned bytes for id as a string copy.
func (p *Pool) String(id ID) string { return string(p.entries[id].bytes) }

// Class reports the storage class of id.
func (p *Pool) Class(id ID) Class { return p.entries[id].class }

// Len returns the number of distinct interned entries.
func (p *Pool) Len() int { return len(p.entries) }
