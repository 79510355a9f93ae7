package diag

import (
	"fmt"
)

type Code uint16

const (
	// Неизвестная ошибка
	UnknownCode Code = 0

	// Ошибки чтения дампа AST (внешний парсер)
	SynInfo          Code = 2000
	SynMalformedDump Code = 2001
	SynUnknownNode   Code = 2002
	SynUnexpectedEOF Code = 2003
	SynBadLiteral    Code = 2004

	SemInfo Code = 3000

	// Иерархия классов (проход 1)
	SemClassSelfTypeName     Code = 3101
	SemClassBuiltinRedefined Code = 3102
	SemClassInheritsSelf     Code = 3103
	SemClassInheritsConstant Code = 3104
	SemClassRedefined        Code = 3105
	SemMainUndefined         Code = 3106
	SemParentUndefined       Code = 3107
	SemInheritanceCycle      Code = 3108

	// Признаки классов: атрибуты и методы
	SemAttrTypeUndefined     Code = 3201
	SemAttrSelfName          Code = 3202
	SemAttrRedefined         Code = 3203
	SemAttrInitMismatch      Code = 3204
	SemMethodReturnUndefined Code = 3205
	SemMethodSelfName        Code = 3206
	SemMethodRedefined       Code = 3207
	SemMethodBodyMismatch    Code = 3208
	SemFormalTypeUndefined   Code = 3209
	SemFormalSelfName        Code = 3210
	SemFormalSelfType        Code = 3211
	SemFormalDuplicate       Code = 3212
	SemOverrideReturn        Code = 3213
	SemOverrideParams        Code = 3214
	SemMainMethodMissing     Code = 3215

	// Выражения (проход 2)
	SemArithOperand           Code = 3301
	SemCompareBasic           Code = 3302
	SemCompareOperand         Code = 3303
	SemNotOperand             Code = 3304
	SemNegOperand             Code = 3305
	SemUndefinedVar           Code = 3306
	SemAssignSelf             Code = 3307
	SemAssignMismatch         Code = 3308
	SemNewUndefined           Code = 3309
	SemPredicateNotBool       Code = 3310
	SemLetSelf                Code = 3311
	SemLetTypeUndefined       Code = 3312
	SemLetInitMismatch        Code = 3313
	SemCaseSelf               Code = 3314
	SemCaseTypeUndefined      Code = 3315
	SemCaseDuplicateBranch    Code = 3316
	SemStaticTypeUndefined    Code = 3317
	SemStaticDispatchMismatch Code = 3318
	SemNoMatchingMethod       Code = 3319

	IOInfo       Code = 4000
	IOLoadFailed Code = 4001
)

var (
	codeDescription = map[Code]string{
		UnknownCode: "Unknown error",

		SynInfo:          "Syntax information",
		SynMalformedDump: "Malformed AST dump",
		SynUnknownNode:   "Unknown AST node",
		SynUnexpectedEOF: "Unexpected end of AST dump",
		SynBadLiteral:    "Malformed literal in AST dump",

		SemInfo:                  "Semantic information",
		SemClassSelfTypeName:     "SELF_TYPE used as a class name",
		SemClassBuiltinRedefined: "Built-in class redefined",
		SemClassInheritsSelf:     "Class inherits from itself",
		SemClassInheritsConstant: "Class inherits from a constant class",
		SemClassRedefined:        "Class already defined",
		SemMainUndefined:         "Class Main is not defined",
		SemParentUndefined:       "Parent class is not defined",
		SemInheritanceCycle:      "Inheritance cycle",

		SemAttrTypeUndefined:     "Attribute type is undefined",
		SemAttrSelfName:          "self used as an attribute name",
		SemAttrRedefined:         "Attribute redefined",
		SemAttrInitMismatch:      "Attribute initializer does not conform",
		SemMethodReturnUndefined: "Method return type is undefined",
		SemMethodSelfName:        "self used as a method name",
		SemMethodRedefined:       "Method redefined in the same class",
		SemMethodBodyMismatch:    "Method body does not conform to return type",
		SemFormalTypeUndefined:   "Parameter type is undefined",
		SemFormalSelfName:        "self used as a parameter name",
		SemFormalSelfType:        "SELF_TYPE used as a parameter type",
		SemFormalDuplicate:       "Duplicate parameter name",
		SemOverrideReturn:        "Override changes the return type",
		SemOverrideParams:        "Override changes the parameters",
		SemMainMethodMissing:     "Class Main has no main method",

		SemArithOperand:           "Non-Int arithmetic operand",
		SemCompareBasic:           "Illegal comparison with a basic type",
		SemCompareOperand:         "Non-Int comparison operand",
		SemNotOperand:             "Non-Bool operand of not",
		SemNegOperand:             "Non-Int operand of negation",
		SemUndefinedVar:           "Undefined identifier",
		SemAssignSelf:             "Assignment to self",
		SemAssignMismatch:         "Assigned value does not conform",
		SemNewUndefined:           "new of an undefined class",
		SemPredicateNotBool:       "Predicate is not Bool",
		SemLetSelf:                "self bound in let",
		SemLetTypeUndefined:       "let type is undefined",
		SemLetInitMismatch:        "let initializer does not conform",
		SemCaseSelf:               "self bound in case branch",
		SemCaseTypeUndefined:      "case branch type is undefined",
		SemCaseDuplicateBranch:    "Duplicate case branch type",
		SemStaticTypeUndefined:    "Static dispatch type is undefined",
		SemStaticDispatchMismatch: "Receiver does not conform to static dispatch type",
		SemNoMatchingMethod:       "No matching method",

		IOInfo:       "I/O information",
		IOLoadFailed: "Failed to load input",
	}
)

func (c Code) ID() string {
	switch ic := int(c); {
	case ic >= 2000 && ic < 3000:
		return fmt.Sprintf("SYN%04d", ic)
	case ic >= 3000 && ic < 4000:
		return fmt.Sprintf("SEM%04d", ic)
	case ic >= 4000 && ic < 5000:
		return fmt.Sprintf("IO%04d", ic)
	}
	return "E0000"
}

func (c Code) Title() string {
	desc, ok := codeDescription[c]
	if !ok {
		return codeDescription[UnknownCode]
	}
	return desc
}

// IsHierarchy reports whether c is raised while building the class
// hierarchy.
func (c Code) IsHierarchy() bool {
	return c >= 3100 && c < 3200
}

func (c Code) String() string {
	return fmt.Sprintf("[%s]: %s", c.ID(), c.Title())
}
