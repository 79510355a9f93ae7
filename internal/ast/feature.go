package ast

import (
	"coolc/internal/source"
	"coolc/internal/types"
)

type FeatureKind uint8

const (
	FeatureMethod FeatureKind = iota + 1
	FeatureAttr
)

func (k FeatureKind) String() string {
	switch k {
	case FeatureMethod:
		return "method"
	case FeatureAttr:
		return "attr"
	default:
		return "invalid"
	}
}

// Feature is a method or an attribute of a class.
type Feature struct {
	Kind FeatureKind
	Name source.StringID
	// Type is the declared return type of a method or the declared type of
	// an attribute.
	Type    types.ClassType
	Formals []FormalID // methods only
	// Expr is the method body or the attribute initializer (NoExprID when
	// the attribute is uninitialized).
	Expr ExprID
	Span source.Span
}

type Formal struct {
	Name source.StringID
	Type types.ClassType
	Span source.Span
}

type Features struct {
	Arena   *Arena[Feature]
	Formals *Arena[Formal]
}

func NewFeatures(capHint uint) *Features {
	return &Features{
		Arena:   NewArena[Feature](capHint),
		Formals: NewArena[Formal](capHint),
	}
}

func (f *Features) NewMethod(span source.Span, name source.StringID, formals []FormalID, ret types.ClassType, body ExprID) FeatureID {
	return FeatureID(f.Arena.Allocate(Feature{
		Kind:    FeatureMethod,
		Name:    name,
		Type:    ret,
		Formals: formals,
		Expr:    body,
		Span:    span,
	}))
}

func (f *Features) NewAttr(span source.Span, name source.StringID, typ types.ClassType, init ExprID) FeatureID {
	return FeatureID(f.Arena.Allocate(Feature{
		Kind: FeatureAttr,
		Name: name,
		Type: typ,
		Expr: init,
		Span: span,
	}))
}

func (f *Features) NewFormal(span source.Span, name source.StringID, typ types.ClassType) FormalID {
	return FormalID(f.Formals.Allocate(Formal{Name: name, Type: typ, Span: span}))
}

func (f *Features) Get(id FeatureID) *Feature {
	return f.Arena.Get(uint32(id))
}

func (f *Features) Formal(id FormalID) *Formal {
	return f.Formals.Get(uint32(id))
}
