package astio

import "coolc/internal/ast"

const (
	tagProgram  = "_program"
	tagClass    = "_class"
	tagAttr     = "_attr"
	tagMethod   = "_method"
	tagFormal   = "_formal"
	tagBranch   = "_branch"
	tagNoExpr   = "_no_expr"
	tagBool     = "_bool"
	tagString   = "_string"
	tagInt      = "_int"
	tagNeg      = "_neg"
	tagIsVoid   = "_isvoid"
	tagComp     = "_comp"
	tagDispatch = "_dispatch"
	tagStatic   = "_static_dispatch"
	tagAssign   = "_assign"
	tagObject   = "_object"
	tagNew      = "_new"
	tagCond     = "_cond"
	tagLoop     = "_loop"
	tagCase     = "_typcase"
	tagBlock    = "_block"
	tagLet      = "_let"

	noType = "_no_type"
)

var binaryTags = map[string]ast.BinaryOp{
	"_plus":   ast.OpAdd,
	"_sub":    ast.OpSub,
	"_mul":    ast.OpMul,
	"_divide": ast.OpDiv,
	"_eq":     ast.OpEq,
	"_lt":     ast.OpLt,
	"_leq":    ast.OpLe,
}

var binaryNames = func() map[ast.BinaryOp]string {
	m := make(map[ast.BinaryOp]string, len(binaryTags))
	for tag, op := range binaryTags {
		m[op] = tag
	}
	return m
}()

var unaryTags = map[string]ast.ExprKind{
	tagNeg:    ast.ExprNeg,
	tagIsVoid: ast.ExprIsVoid,
	tagComp:   ast.ExprNot,
}

// isExprTag reports whether tag opens an expression node.
func isExprTag(tag string) bool {
	if _, ok := binaryTags[tag]; ok {
		return true
	}
	if _, ok := unaryTags[tag]; ok {
		return true
	}
	switch tag {
	case tagNoExpr, tagBool, tagString, tagInt, tagDispatch, tagStatic, tagAssign,
		tagObject, tagNew, tagCond, tagLoop, tagCase, tagBlock, tagLet:
		return true
	}
	return false
}

func unaryTag(kind ast.ExprKind) string {
	switch kind {
	case ast.ExprNeg:
		return tagNeg
	case ast.ExprIsVoid:
		return tagIsVoid
	default:
		return tagComp
	}
}
