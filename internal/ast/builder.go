package ast

import (
	"coolc/internal/source"
	"coolc/internal/types"
)

type Hints struct{ Classes, Features, Exprs uint }

// Builder owns every node arena of one compilation together with the
// interners the nodes refer to.
type Builder struct {
	Classes  *Classes
	Features *Features
	Exprs    *Exprs

	// Idents interns identifiers and type names, Strings string literal
	// contents, Ints integer literal text.
	Idents  *source.Interner
	Strings *source.Interner
	Ints    *source.Interner
	Files   *source.FileSet
}

func NewBuilder(files *source.FileSet, hints Hints) *Builder {
	if hints.Classes == 0 {
		hints.Classes = 1 << 4
	}
	if hints.Features == 0 {
		hints.Features = 1 << 6
	}
	if hints.Exprs == 0 {
		hints.Exprs = 1 << 8
	}
	if files == nil {
		files = source.NewFileSet()
	}
	return &Builder{
		Classes:  NewClasses(hints.Classes),
		Features: NewFeatures(hints.Features),
		Exprs:    NewExprs(hints.Exprs),
		Idents:   source.NewInterner(),
		Strings:  source.NewInterner(),
		Ints:     source.NewInterner(),
		Files:    files,
	}
}

// Name interns an identifier.
func (b *Builder) Name(s string) source.StringID {
	return b.Idents.Intern(s)
}

// Type resolves a source-level type name to a ClassType.
func (b *Builder) Type(name string) types.ClassType {
	return types.FromName(name, b.Idents.Intern(name))
}

// Label renders a ClassType with this builder's identifiers.
func (b *Builder) Label(t types.ClassType) string {
	return t.Label(b.Idents)
}

// NameOf returns the text of an interned identifier.
func (b *Builder) NameOf(id source.StringID) string {
	s, _ := b.Idents.Lookup(id)
	return s
}

func (b *Builder) NewProgram(span source.Span) *Program {
	return &Program{Span: span}
}

// NewClass allocates a class and appends it to prog.
func (b *Builder) NewClass(prog *Program, span source.Span, typ, parent types.ClassType) ClassID {
	id := b.Classes.New(span, typ, parent)
	if prog != nil {
		prog.AddClass(id)
	}
	return id
}

// PushFeature appends a feature to a class. Features added after the
// class's method map was derived are not seen by Methods/Attrs.
func (b *Builder) PushFeature(class ClassID, feature FeatureID) {
	c := b.Classes.Get(class)
	c.Features = append(c.Features, feature)
}

// Methods returns the class's methods keyed by name. The map is derived
// once; when a name is declared twice the first declaration wins.
func (b *Builder) Methods(class ClassID) map[source.StringID]FeatureID {
	b.derive(class)
	return b.Classes.Get(class).methods
}

// Attrs returns the class's attributes in declaration order.
func (b *Builder) Attrs(class ClassID) []FeatureID {
	b.derive(class)
	return b.Classes.Get(class).attrs
}

func (b *Builder) derive(class ClassID) {
	c := b.Classes.Get(class)
	if c == nil || c.derived {
		return
	}
	c.derived = true
	c.methods = make(map[source.StringID]FeatureID)
	for _, fid := range c.Features {
		f := b.Features.Get(fid)
		switch f.Kind {
		case FeatureMethod:
			if _, dup := c.methods[f.Name]; !dup {
				c.methods[f.Name] = fid
			}
		case FeatureAttr:
			c.attrs = append(c.attrs, fid)
		}
	}
}

// FormalTypes returns the declared parameter types of a method.
func (b *Builder) FormalTypes(method FeatureID) []types.ClassType {
	f := b.Features.Get(method)
	out := make([]types.ClassType, 0, len(f.Formals))
	for _, p := range f.Formals {
		out = append(out, b.Features.Formal(p).Type)
	}
	return out
}
