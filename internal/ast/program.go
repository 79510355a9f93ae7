package ast

import (
	"coolc/internal/source"
)

// Program is the tree root. Its class list holds user classes in
// declaration order; hierarchy construction appends the built-ins.
type Program struct {
	Span    source.Span
	Classes []ClassID
}

func (p *Program) AddClass(id ClassID) {
	p.Classes = append(p.Classes, id)
}
