// Package ir defines the intermediate representation shared by the
// resolver and the emitter. This is the Go equivalent of tsgonest's
// metadata.Metadata — a normalized representation of surface-language
// types suitable for code generation, specialized here for a two-stage
// resolve-then-render pipeline instead of a single walk.
package ir

// Kind identifies which field of ResolvedType is populated. Exactly
// one tag is ever set on a given value.
type Kind string

const (
	KindPrimitive    Kind = "primitive"
	KindArray        Kind = "array"
	KindTuple        Kind = "tuple"
	KindRecord       Kind = "record"
	KindMap          Kind = "map"
	KindSet          Kind = "set"
	KindOption       Kind = "option"
	KindBox          Kind = "box"
	KindLiteral      Kind = "literal"
	KindJSONValue    Kind = "json_value"
	KindStructRef    Kind = "struct_ref"
	KindTypeParamRef Kind = "type_parameter"
	KindInlineStruct Kind = "inline_struct"
)

// Primitive enumerates the atomic ground types a ResolvedType can carry.
type Primitive string

const (
	PrimitiveString    Primitive = "string"
	PrimitiveNumber    Primitive = "number"
	PrimitiveBoolean   Primitive = "boolean"
	PrimitiveNull      Primitive = "null"
	PrimitiveUndefined Primitive = "undefined"
)

// ResolvedType is a tagged IR type node (spec §3.1). Only the field(s)
// relevant to Kind are meaningful; the rest are zero values.
type ResolvedType struct {
	Kind Kind

	// KindPrimitive
	Primitive Primitive

	// KindArray, KindSet: element type.
	Element *ResolvedType

	// KindTuple: ordered, fixed-length element types.
	Elements []ResolvedType

	// KindRecord, KindMap: key/value types.
	Key   *ResolvedType
	Value *ResolvedType

	// KindOption, KindBox: inner type. Invariant: for KindOption, Inner
	// is never itself KindOption (normal form, spec §3.2 inv. 2).
	Inner *ResolvedType

	// KindLiteral
	LiteralValue any // string | float64 | bool

	// KindStructRef, KindTypeParamRef
	Name string

	// KindInlineStruct: an unnamed struct resolved field-by-field at its
	// use site (spec §4.2.5 rule 13, §9 open question 3 — "inline object
	// literals are emitted inline and not named or deduplicated").
	// Distinct from KindStructRef, which looks a name up in the
	// collected map; an inline struct carries its own fields directly
	// since nothing is registered under name="".
	InlineFields []Field
}

// Primitive constructors (small, but keep call sites in the resolver
// free of literal struct boilerplate and typos in the Kind tag).

func Prim(p Primitive) ResolvedType { return ResolvedType{Kind: KindPrimitive, Primitive: p} }

func Array(elem ResolvedType) ResolvedType { return ResolvedType{Kind: KindArray, Element: &elem} }

func TupleOf(elems ...ResolvedType) ResolvedType { return ResolvedType{Kind: KindTuple, Elements: elems} }

func Record(key, value ResolvedType) ResolvedType {
	return ResolvedType{Kind: KindRecord, Key: &key, Value: &value}
}

func MapOf(key, value ResolvedType) ResolvedType {
	return ResolvedType{Kind: KindMap, Key: &key, Value: &value}
}

func SetOf(elem ResolvedType) ResolvedType { return ResolvedType{Kind: KindSet, Element: &elem} }

// Option wraps t in option, collapsing to normal form per spec §3.2 inv. 2:
// option(option(X)) is never constructed.
func Option(t ResolvedType) ResolvedType {
	if t.Kind == KindOption {
		return t
	}
	return ResolvedType{Kind: KindOption, Inner: &t}
}

func Box(t ResolvedType) ResolvedType { return ResolvedType{Kind: KindBox, Inner: &t} }

func StringLit(v string) ResolvedType { return ResolvedType{Kind: KindLiteral, LiteralValue: v} }
func NumberLit(v float64) ResolvedType { return ResolvedType{Kind: KindLiteral, LiteralValue: v} }
func BoolLit(v bool) ResolvedType     { return ResolvedType{Kind: KindLiteral, LiteralValue: v} }

func JSONValue() ResolvedType { return ResolvedType{Kind: KindJSONValue} }

func StructRef(name string) ResolvedType { return ResolvedType{Kind: KindStructRef, Name: name} }

func TypeParam(name string) ResolvedType { return ResolvedType{Kind: KindTypeParamRef, Name: name} }

func InlineStruct(fields []Field) ResolvedType {
	return ResolvedType{Kind: KindInlineStruct, InlineFields: fields}
}

// IsOption reports whether t is already in option form.
func (t ResolvedType) IsOption() bool { return t.Kind == KindOption }

// ContainsStructRefUnboxed reports whether name is reachable from t without
// passing through any of option/array/box/record/map/set — the
// indirection constructs named in spec §3.2 inv. 3 and §8.1 inv. 2.
// A caller walking the fields of a struct uses this, rooted at each
// field's resolved type, to decide whether a self-reference needs
// boxing; it must NOT be used to walk through the indirection
// constructs themselves (those already supply indirection).
func (t ResolvedType) ContainsStructRefUnboxed(name string) bool {
	switch t.Kind {
	case KindStructRef:
		return t.Name == name
	case KindTuple:
		for _, e := range t.Elements {
			if e.ContainsStructRefUnboxed(name) {
				return true
			}
		}
		return false
	case KindInlineStruct:
		for _, f := range t.InlineFields {
			if f.Type.ContainsStructRefUnboxed(name) {
				return true
			}
		}
		return false
	default:
		// array, record, map, set, option, box all supply indirection
		// and are not recursed into.
		return false
	}
}

// CollectedKind identifies the shape of a top-level CollectedType.
type CollectedKind string

const (
	CollectedStruct     CollectedKind = "struct"
	CollectedEnum       CollectedKind = "enum"
	CollectedUnion      CollectedKind = "union"
	CollectedTypeAlias  CollectedKind = "type_alias"
)

// Field is a single struct member (spec §3.1).
type Field struct {
	Name          string
	Type          ResolvedType
	Optional      bool
	Documentation string
}

// EnumVariant is a single enum member (spec §3.1).
type EnumVariant struct {
	Name          string
	Value         any // string | float64, nil if unset
	Documentation string
}

// UnionVariant is a single discriminated- or plain-union member.
type UnionVariant struct {
	Name              string
	Type              *ResolvedType // nil for a unit (payload-less) variant
	DiscriminatorValue any          // string | float64 | bool, nil if none
	Documentation     string
}

// CollectedType is a top-level, emittable IR declaration (spec §3.1).
// Exactly one of Struct/Enum/Union/Alias payload applies, selected by Kind.
type CollectedType struct {
	Kind CollectedKind
	Name string

	Documentation  string
	TypeParameters []string

	// CollectedStruct
	Fields []Field

	// CollectedEnum
	Variants     []EnumVariant
	IsStringEnum bool

	// CollectedUnion
	UnionVariants []UnionVariant
	Discriminator string // property name; empty means no discriminator

	// CollectedTypeAlias
	Aliased *ResolvedType
}
