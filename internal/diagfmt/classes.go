package diagfmt

import (
	"fmt"
	"io"
	"strings"

	"github.com/mattn/go-runewidth"

	"coolc/internal/ast"
	"coolc/internal/sema"
)

type treeNode struct {
	label    string
	detail   string
	children []*treeNode
}

func buildClassNode(b *ast.Builder, h *sema.Hierarchy, id ast.ClassID) *treeNode {
	cls := b.Classes.Get(id)
	node := &treeNode{
		label: b.Label(cls.Type),
		detail: fmt.Sprintf("%s  %d attrs, %d methods",
			b.Files.Format(cls.Span), len(b.Attrs(id)), len(b.Methods(id))),
	}
	for _, child := range h.Children(cls.Type) {
		node.children = append(node.children, buildClassNode(b, h, child))
	}
	return node
}

type treeLine struct{ prefix, label, detail string }

func flatten(n *treeNode, prefix, childPrefix string, out []treeLine) []treeLine {
	out = append(out, treeLine{prefix: prefix, label: n.label, detail: n.detail})
	for i, c := range n.children {
		if i == len(n.children)-1 {
			out = flatten(c, childPrefix+"└── ", childPrefix+"    ", out)
		} else {
			out = flatten(c, childPrefix+"├── ", childPrefix+"│   ", out)
		}
	}
	return out
}

// ClassTree prints the inheritance tree rooted at Object, one class per
// line, with details aligned in a column.
func ClassTree(w io.Writer, b *ast.Builder, h *sema.Hierarchy) error {
	if !h.Root.IsValid() {
		return nil
	}
	lines := flatten(buildClassNode(b, h, h.Root), "", "", nil)
	width := 0
	for _, l := range lines {
		width = max(width, runewidth.StringWidth(l.prefix+l.label))
	}
	var sb strings.Builder
	for _, l := range lines {
		sb.WriteString(runewidth.FillRight(l.prefix+l.label, width))
		sb.WriteString("  ")
		sb.WriteString(l.detail)
		sb.WriteByte('\n')
	}
	_, err := io.WriteString(w, sb.String())
	return err
}
