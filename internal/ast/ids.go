package ast

type (
	ClassID   uint32
	FeatureID uint32
	FormalID  uint32
	ExprID    uint32
	// индекс в арене payload'а конкретного вида выражения
	PayloadID uint32
)

const (
	NoClassID   ClassID   = 0
	NoFeatureID FeatureID = 0
	NoFormalID  FormalID  = 0
	// NoExprID is the "no expression" sentinel: an attribute without an
	// initializer, a let without one.
	NoExprID    ExprID    = 0
	NoPayloadID PayloadID = 0
)

func (id ClassID) IsValid() bool   { return id != NoClassID }
func (id FeatureID) IsValid() bool { return id != NoFeatureID }
func (id FormalID) IsValid() bool  { return id != NoFormalID }
func (id ExprID) IsValid() bool    { return id != NoExprID }
func (id PayloadID) IsValid() bool { return id != NoPayloadID }
