package types

import (
	"fmt"

	"coolc/internal/source"
)

// Kind enumerates the closed set of class type variants.
type Kind uint8

const (
	// KindNone is the "no type" sentinel left on expressions that failed.
	KindNone Kind = iota
	KindSelf
	KindObject
	KindIO
	KindBool
	KindInt
	KindString
	KindMain
	// KindDefined is a user class other than Main; only it carries a name.
	KindDefined
)

func (k Kind) String() string {
	switch k {
	case KindNone:
		return "none"
	case KindSelf:
		return "self"
	case KindObject:
		return "object"
	case KindIO:
		return "io"
	case KindBool:
		return "bool"
	case KindInt:
		return "int"
	case KindString:
		return "string"
	case KindMain:
		return "main"
	case KindDefined:
		return "defined"
	default:
		return fmt.Sprintf("Kind(%d)", k)
	}
}

// ClassType is a comparable class type value. Equality is structural, so
// ClassType can be used directly as a map key.
type ClassType struct {
	Kind Kind
	Name source.StringID // only for KindDefined
}

var (
	NoType   = ClassType{Kind: KindNone}
	SelfType = ClassType{Kind: KindSelf}
	Object   = ClassType{Kind: KindObject}
	IO       = ClassType{Kind: KindIO}
	Bool     = ClassType{Kind: KindBool}
	Int      = ClassType{Kind: KindInt}
	String   = ClassType{Kind: KindString}
	Main     = ClassType{Kind: KindMain}
)

// Reserved type names as they appear in source.
const (
	NameSelfType = "SELF_TYPE"
	NameObject   = "Object"
	NameIO       = "IO"
	NameBool     = "Bool"
	NameInt      = "Int"
	NameString   = "String"
	NameMain     = "Main"
	NameNoType   = "_no_type"
)

// Builtins lists the built-in classes in injection order.
var Builtins = []ClassType{Object, IO, Int, Bool, String}

func Defined(name source.StringID) ClassType {
	return ClassType{Kind: KindDefined, Name: name}
}

// FromName classifies a source-level type name; id is its interned handle
// and is only kept for user classes.
func FromName(name string, id source.StringID) ClassType {
	switch name {
	case NameSelfType:
		return SelfType
	case NameObject:
		return Object
	case NameIO:
		return IO
	case NameBool:
		return Bool
	case NameInt:
		return Int
	case NameString:
		return String
	case NameMain:
		return Main
	case "", NameNoType:
		return NoType
	default:
		return Defined(id)
	}
}

func (t ClassType) IsNone() bool { return t.Kind == KindNone }
func (t ClassType) IsSelf() bool { return t.Kind == KindSelf }

// IsConstant reports whether t cannot be inherited from.
func (t ClassType) IsConstant() bool {
	switch t.Kind {
	case KindBool, KindInt, KindString:
		return true
	}
	return false
}

// IsBuiltin reports whether t is predefined and cannot be redeclared.
func (t ClassType) IsBuiltin() bool {
	switch t.Kind {
	case KindObject, KindIO, KindBool, KindInt, KindString:
		return true
	}
	return false
}

// IsInheritable reports whether a class of type t may appear as a parent.
func (t ClassType) IsInheritable() bool {
	return !t.IsNone() && !t.IsSelf() && !t.IsConstant()
}

// Label renders the source-level name; names of defined classes are
// resolved through strs.
func (t ClassType) Label(strs *source.Interner) string {
	switch t.Kind {
	case KindNone:
		return NameNoType
	case KindSelf:
		return NameSelfType
	case KindObject:
		return NameObject
	case KindIO:
		return NameIO
	case KindBool:
		return NameBool
	case KindInt:
		return NameInt
	case KindString:
		return NameString
	case KindMain:
		return NameMain
	case KindDefined:
		if strs != nil {
			if s, ok := strs.Lookup(t.Name); ok && s != "" {
				return s
			}
		}
		return fmt.Sprintf("class#%d", t.Name)
	default:
		return t.Kind.String()
	}
}

func (t ClassType) String() string {
	return t.Label(nil)
}
