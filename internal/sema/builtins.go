package sema

import (
	"coolc/internal/ast"
	"coolc/internal/source"
	"coolc/internal/types"
)

var basicClassSpan = source.Span{File: source.BasicClassFile, Line: 0}

type builtinMethod struct {
	name    string
	ret     types.ClassType
	formals []builtinFormal
}

type builtinFormal struct {
	name string
	typ  types.ClassType
}

type builtinAttr struct {
	name string
	typ  types.ClassType // types.NoType marks a primitive slot
}

type builtinClass struct {
	typ     types.ClassType
	parent  types.ClassType
	attrs   []builtinAttr
	methods []builtinMethod
}

var builtinClasses = []builtinClass{
	{
		typ:    types.Object,
		parent: types.NoType,
		methods: []builtinMethod{
			{name: "abort", ret: types.Object},
			{name: "type_name", ret: types.String},
			{name: "copy", ret: types.SelfType},
		},
	},
	{
		typ:    types.IO,
		parent: types.Object,
		methods: []builtinMethod{
			{name: "out_string", ret: types.SelfType, formals: []builtinFormal{{"x", types.String}}},
			{name: "out_int", ret: types.SelfType, formals: []builtinFormal{{"x", types.Int}}},
			{name: "in_string", ret: types.String},
			{name: "in_int", ret: types.Int},
		},
	},
	{
		typ:    types.Int,
		parent: types.Object,
		attrs:  []builtinAttr{{"_val", types.NoType}},
	},
	{
		typ:    types.Bool,
		parent: types.Object,
		attrs:  []builtinAttr{{"_val", types.NoType}},
	},
	{
		typ:    types.String,
		parent: types.Object,
		attrs:  []builtinAttr{{"_val", types.Int}, {"_str_field", types.NoType}},
		methods: []builtinMethod{
			{name: "length", ret: types.Int},
			{name: "concat", ret: types.String, formals: []builtinFormal{{"s", types.String}}},
			{name: "substr", ret: types.String, formals: []builtinFormal{{"i", types.Int}, {"l", types.Int}}},
		},
	},
}

// injectBuiltins appends Object, IO, Int, Bool and String to prog and
// returns their ids in that order. Method bodies are NoExprID: built-ins
// are never body-checked.
func injectBuiltins(b *ast.Builder, prog *ast.Program) []ast.ClassID {
	ids := make([]ast.ClassID, 0, len(builtinClasses))
	for _, bc := range builtinClasses {
		id := b.NewClass(prog, basicClassSpan, bc.typ, bc.parent)
		b.Classes.Get(id).Builtin = true
		for _, a := range bc.attrs {
			b.PushFeature(id, b.Features.NewAttr(basicClassSpan, b.Name(a.name), a.typ, ast.NoExprID))
		}
		for _, m := range bc.methods {
			formals := make([]ast.FormalID, 0, len(m.formals))
			for _, f := range m.formals {
				formals = append(formals, b.Features.NewFormal(basicClassSpan, b.Name(f.name), f.typ))
			}
			b.PushFeature(id, b.Features.NewMethod(basicClassSpan, b.Name(m.name), formals, m.ret, ast.NoExprID))
		}
		ids = append(ids, id)
	}
	return ids
}
