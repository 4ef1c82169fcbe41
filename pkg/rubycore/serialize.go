package rubycore

import "github.com/cwbudde/rubycore/pkg/ast"

// Serializer is the boundary to the AST serialization component. The
// binary format is owned entirely by the implementing side; this module
// only defines the call shape so embedders can plug a serializer in
// next to the Engine without the parser depending on one.
type Serializer interface {
	// Serialize writes a binary form of the tree rooted at root into
	// out. Implementations may require the original source bytes to
	// resolve node spans.
	Serialize(root ast.Node, source []byte, out *[]byte) error
}
