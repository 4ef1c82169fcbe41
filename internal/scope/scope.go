// Package scope implements the scope stack of spec.md §3: one frame per
// method/block/class/module/lambda boundary, tracking local variables,
// parameter-forwarding flags, and numbered/implicit-parameter state.
package scope

import "github.com/cwbudde/rubycore/internal/intern"

// ForwardingFlag records which parameter-forwarding shorthand a scope has
// declared.
type ForwardingFlag uint8

const (
	ForwardRest ForwardingFlag = 1 << iota
	ForwardKeyword
	ForwardBlock
	ForwardAll // `...`
)

// ParamState tracks numbered-parameter bookkeeping, per spec.md §3.
type ParamState uint8

const (
	NumberedFound ParamState = 1 << iota
	NumberedInner
	ImplicitDisallowed
	ItFound
)

// Shareable mirrors the `shareable_constant_value:` magic comment
// pragma (spec.md §6).
type Shareable int

const (
	ShareableNone Shareable = iota
	ShareableLiteral
	ShareableExperimentalEverything
	ShareableExperimentalCopy
)

// Local is one entry in a scope's local-variable table.
type Local struct {
	Name     intern.ID
	Index    int
	Reads    int
	Location int // byte offset of the declaring occurrence
}

// compactThreshold is the number of locals a scope holds in its
// insertion-ordered slice before switching lookups to the hash index.
// Below this, linear scan is cheaper than hashing (spec.md §3: "backed
// by a compact array below a fixed threshold and a linear-probe hash
// table above it").
const compactThreshold = 8

// Scope is one frame of the scope stack.
type Scope struct {
	Previous *Scope

	order []Local              // insertion order, always maintained
	index map[intern.ID]int    // populated once len(order) > compactThreshold

	Parameters          ForwardingFlag
	ParamState          ParamState
	ImplicitParameters  []ImplicitParam
	ShareableConstant   Shareable
	// Closed scopes (method/class/module/lambda) are opaque to outer
	// locals; block scopes (Closed == false) are transparent, so a read
	// that misses here should continue the walk via Previous.
	Closed bool
}

// ImplicitParam is a synthesized read for _1.._9 or `it`, retractable if
// the scope turns out to declare ordinary parameters (spec.md §3).
type ImplicitParam struct {
	Name     string
	Location int
}

// New creates a scope frame nested inside previous. closed selects
// whether outer locals are visible (false) or opaque (true).
func New(previous *Scope, closed bool) *Scope {
	return &Scope{Previous: previous, Closed: closed}
}

// Declare adds name as a new local at location, returning its Local
// record. If name is already declared in this scope, the existing
// record is returned unchanged (redeclaration is not itself an error at
// this layer).
func (s *Scope) Declare(name intern.ID, location int) *Local {
	if i, ok := s.lookupLocal(name); ok {
		return &s.order[i]
	}
	idx := len(s.order)
	s.order = append(s.order, Local{Name: name, Index: idx, Location: location})
	if len(s.order) > compactThreshold {
		s.ensureIndex()
	}
	if s.index != nil {
		s.index[name] = idx
	}
	return &s.order[idx]
}

func (s *Scope) ensureIndex() {
	if s.index != nil {
		return
	}
	s.index = make(map[intern.ID]int, len(s.order)*2)
	for i, l := range s.order {
		s.index[l.Name] = i
	}
}

func (s *Scope) lookupLocal(name intern.ID) (int, bool) {
	if s.index != nil {
		i, ok := s.index[name]
		return i, ok
	}
	for i, l := range s.order {
		if l.Name == name {
			return i, true
		}
	}
	return 0, false
}

// Lookup finds name starting at s and walking outward through
// transparent (non-Closed) ancestors, per spec.md §3. It returns the
// owning scope and the local record, or (nil, nil) if undeclared.
func (s *Scope) Lookup(name intern.ID) (*Scope, *Local) {
	for cur := s; cur != nil; cur = cur.Previous {
		if i, ok := cur.lookupLocal(name); ok {
			cur.order[i].Reads++
			return cur, &cur.order[i]
		}
		if cur.Closed {
			break
		}
	}
	return nil, nil
}

// Locals returns this scope's locals in declaration order, the order
// the AST emitter (out of scope here) needs to preserve.
func (s *Scope) Locals() []Local { return s.order }

// AddImplicitParameter records a synthesized _1.._9/it read so it can be
// retracted later if this scope turns out to use explicit parameters.
func (s *Scope) AddImplicitParameter(name string, location int) {
	s.ImplicitParameters = append(s.ImplicitParameters, ImplicitParam{Name: name, Location: location})
}

// RetractImplicitParameters discards any synthesized numbered/it reads,
// used when the parser discovers (after the fact) that the block
// declares ordinary parameters.
func (s *Scope) RetractImplicitParameters() {
	s.ImplicitParameters = nil
	s.ParamState &^= NumberedFound | ItFound
}
