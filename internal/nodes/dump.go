package nodes

import (
	"fmt"
	"strings"

	"github.com/cwbudde/rubycore/pkg/ast"
)

// Dump renders n as an indented s-expression-like tree, used by
// cmd/rubycore's `parse --dump-ast` and by the snapshot tests.
func Dump(n ast.Node) string {
	var sb strings.Builder
	dump(&sb, n, 0)
	return sb.String()
}

func dump(sb *strings.Builder, n ast.Node, depth int) {
	indent := strings.Repeat("  ", depth)
	if n == nil {
		sb.WriteString(indent + "nil\n")
		return
	}
	gn, ok := n.(*GenericNode)
	if !ok {
		fmt.Fprintf(sb, "%s%s\n", indent, n.Kind())
		return
	}
	fmt.Fprintf(sb, "%s(%s", indent, gn.kind)
	if gn.Str != "" {
		fmt.Fprintf(sb, " %q", gn.Str)
	}
	if len(gn.Bytes) > 0 {
		fmt.Fprintf(sb, " %q", string(gn.Bytes))
	}
	if gn.Num != 0 {
		fmt.Fprintf(sb, " num=%d", gn.Num)
	}
	if gn.Bool {
		sb.WriteString(" true")
	}
	sb.WriteString(")\n")
	for _, c := range []ast.Node{gn.Child, gn.Child2, gn.Child3} {
		if c != nil {
			dump(sb, c, depth+1)
		}
	}
	for _, c := range gn.Children {
		dump(sb, c, depth+1)
	}
}
