package ast

import (
	"coolc/internal/source"
	"coolc/internal/types"
)

type Class struct {
	Type     types.ClassType
	Parent   types.ClassType // types.Object when omitted; types.NoType for Object itself
	Features []FeatureID
	Span     source.Span
	Builtin  bool

	// derived lazily by Builder.Methods / Builder.Attrs
	derived bool
	methods map[source.StringID]FeatureID
	attrs   []FeatureID
}

type Classes struct {
	Arena *Arena[Class]
}

func NewClasses(capHint uint) *Classes {
	return &Classes{Arena: NewArena[Class](capHint)}
}

func (c *Classes) New(span source.Span, typ, parent types.ClassType) ClassID {
	return ClassID(c.Arena.Allocate(Class{
		Type:   typ,
		Parent: parent,
		Span:   span,
	}))
}

func (c *Classes) Get(id ClassID) *Class {
	return c.Arena.Get(uint32(id))
}
