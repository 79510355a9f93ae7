package ast

import (
	"coolc/internal/source"
	"coolc/internal/types"
)

type ExprKind uint8

const (
	ExprNoOp ExprKind = iota
	ExprBool
	ExprString
	ExprInt
	ExprNeg
	ExprIsVoid
	ExprNot
	ExprDispatch
	ExprArith
	ExprCompare
	ExprAssign
	ExprObject
	ExprNew
	ExprCond
	ExprLoop
	ExprCase
	ExprBlock
	ExprLet
)

func (k ExprKind) String() string {
	switch k {
	case ExprNoOp:
		return "no_expr"
	case ExprBool:
		return "bool"
	case ExprString:
		return "string"
	case ExprInt:
		return "int"
	case ExprNeg:
		return "neg"
	case ExprIsVoid:
		return "isvoid"
	case ExprNot:
		return "not"
	case ExprDispatch:
		return "dispatch"
	case ExprArith:
		return "arith"
	case ExprCompare:
		return "compare"
	case ExprAssign:
		return "assign"
	case ExprObject:
		return "object"
	case ExprNew:
		return "new"
	case ExprCond:
		return "cond"
	case ExprLoop:
		return "loop"
	case ExprCase:
		return "case"
	case ExprBlock:
		return "block"
	case ExprLet:
		return "let"
	default:
		return "invalid"
	}
}

type Expr struct {
	Kind    ExprKind
	Span    source.Span
	Payload PayloadID
}

type BinaryOp uint8

const (
	OpAdd BinaryOp = iota + 1
	OpSub
	OpMul
	OpDiv
	OpEq
	OpLt
	OpLe
)

func (op BinaryOp) String() string {
	switch op {
	case OpAdd:
		return "+"
	case OpSub:
		return "-"
	case OpMul:
		return "*"
	case OpDiv:
		return "/"
	case OpEq:
		return "="
	case OpLt:
		return "<"
	case OpLe:
		return "<="
	default:
		return "?"
	}
}

// IsArith reports whether op belongs to ExprArith nodes.
func (op BinaryOp) IsArith() bool {
	return op >= OpAdd && op <= OpDiv
}

// ExprLiteralData holds string/int literal text (interned in the
// builder's Strings or Ints interner) or a bool value.
type ExprLiteralData struct {
	Value source.StringID
	Bool  bool
}

// ExprUnaryData is shared by neg, isvoid and not.
type ExprUnaryData struct {
	Operand ExprID
}

type ExprBinaryData struct {
	Op    BinaryOp
	Left  ExprID
	Right ExprID
}

// ExprDispatchData covers ordinary, self and static dispatch. Static is
// types.NoType unless the call was written expr@T.m(...).
type ExprDispatchData struct {
	Receiver ExprID
	Static   types.ClassType
	Method   source.StringID
	Args     []ExprID
}

func (d *ExprDispatchData) IsStatic() bool {
	return !d.Static.IsNone()
}

type ExprAssignData struct {
	Name  source.StringID
	Value ExprID
}

type ExprObjectData struct {
	Name source.StringID
}

type ExprNewData struct {
	Type types.ClassType
}

type ExprCondData struct {
	Pred ExprID
	Then ExprID
	Else ExprID
}

type ExprLoopData struct {
	Pred ExprID
	Body ExprID
}

type CaseBranch struct {
	Name source.StringID
	Type types.ClassType
	Body ExprID
	Span source.Span
}

type ExprCaseData struct {
	Scrutinee ExprID
	Branches  []CaseBranch
}

type ExprBlockData struct {
	Exprs []ExprID
}

// ExprLetData binds exactly one name; multi-binding lets nest.
type ExprLetData struct {
	Name source.StringID
	Type types.ClassType
	Init ExprID // NoExprID when uninitialized
	Body ExprID
}

// LetBinding is one name of a multi-binding let, see Exprs.NewLetChain.
type LetBinding struct {
	Span source.Span
	Name source.StringID
	Type types.ClassType
	Init ExprID
}
