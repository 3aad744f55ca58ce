package hostquery

import (
	"github.com/microsoft/typescript-go/shim/ast"
	shimchecker "github.com/microsoft/typescript-go/shim/checker"
)

// Type wraps a checker type behind the narrow predicate/accessor
// surface spec §4.1 grants the Resolver.
type Type struct {
	host *Host
	t    *shimchecker.Type
}

func (h *Host) wrapType(t *shimchecker.Type) *Type {
	if t == nil {
		return nil
	}
	return &Type{host: h, t: t}
}

func (t *Type) flags() shimchecker.TypeFlags { return t.t.Flags() }

func (t *Type) IsString() bool  { return t.flags()&shimchecker.TypeFlagsString != 0 }
func (t *Type) IsNumber() bool  { return t.flags()&shimchecker.TypeFlagsNumber != 0 }
func (t *Type) IsBoolean() bool { return t.flags()&shimchecker.TypeFlagsBoolean != 0 }
func (t *Type) IsNull() bool    { return t.flags()&shimchecker.TypeFlagsNull != 0 }
func (t *Type) IsUndefined() bool {
	return t.flags()&shimchecker.TypeFlagsUndefined != 0
}
func (t *Type) IsAny() bool     { return t.flags()&shimchecker.TypeFlagsAny != 0 }
func (t *Type) IsUnknown() bool { return t.flags()&shimchecker.TypeFlagsUnknown != 0 }

func (t *Type) IsStringLiteral() bool {
	return t.flags()&shimchecker.TypeFlagsStringLiteral != 0
}
func (t *Type) IsNumberLiteral() bool {
	return t.flags()&shimchecker.TypeFlagsNumberLiteral != 0
}
func (t *Type) IsBooleanLiteral() bool {
	return t.flags()&shimchecker.TypeFlagsBooleanLiteral != 0
}

func (t *Type) IsArray() bool {
	return t.flags()&shimchecker.TypeFlagsObject != 0 && shimchecker.Checker_isArrayType(t.host.checker, t.t)
}

func (t *Type) IsTuple() bool {
	return t.flags()&shimchecker.TypeFlagsObject != 0 && shimchecker.IsTupleType(t.t)
}

func (t *Type) IsUnion() bool { return t.flags()&shimchecker.TypeFlagsUnion != 0 }

func (t *Type) IsObject() bool {
	if t.flags()&shimchecker.TypeFlagsObject == 0 {
		return false
	}
	return !t.IsArray() && !t.IsTuple()
}

func (t *Type) IsTypeParameter() bool {
	return t.flags()&shimchecker.TypeFlagsTypeParameter != 0
}

// LiteralValue returns the literal value for a literal Type, or nil
// with ok=false otherwise.
func (t *Type) LiteralValue() (v any, ok bool) {
	lit := t.t.AsLiteralType()
	if lit == nil {
		return nil, false
	}
	switch {
	case t.IsStringLiteral():
		s, k := lit.Value().(string)
		return s, k
	case t.IsNumberLiteral():
		return toFloat64(lit.Value()), true
	case t.IsBooleanLiteral():
		b, k := lit.Value().(bool)
		return b, k
	}
	return nil, false
}

// ArrayElement returns the element type of an array type.
func (t *Type) ArrayElement() *Type {
	args := shimchecker.Checker_getTypeArguments(t.host.checker, t.t)
	if len(args) == 0 {
		return nil
	}
	return t.host.wrapType(args[0])
}

// TupleElements returns the ordered element types of a tuple type.
func (t *Type) TupleElements() []*Type {
	args := shimchecker.Checker_getTypeArguments(t.host.checker, t.t)
	out := make([]*Type, len(args))
	for i, a := range args {
		out[i] = t.host.wrapType(a)
	}
	return out
}

// UnionMembers returns the member types of a union type.
func (t *Type) UnionMembers() []*Type {
	members := t.t.Types()
	out := make([]*Type, len(members))
	for i, m := range members {
		out[i] = t.host.wrapType(m)
	}
	return out
}

// TypeArguments returns the generic type arguments applied at this
// occurrence (e.g. K, V for Record<K, V>).
func (t *Type) TypeArguments() []*Type {
	args := shimchecker.Checker_getTypeArguments(t.host.checker, t.t)
	out := make([]*Type, len(args))
	for i, a := range args {
		out[i] = t.host.wrapType(a)
	}
	return out
}

// StringIndexValueType returns the value type of a string index
// signature, or nil if the type has none.
func (t *Type) StringIndexValueType() *Type {
	for _, info := range shimchecker.Checker_getIndexInfosOfType(t.host.checker, t.t) {
		key := shimchecker.IndexInfo_keyType(info)
		if key != nil && key.Flags()&shimchecker.TypeFlagsString != 0 {
			return t.host.wrapType(shimchecker.IndexInfo_valueType(info))
		}
	}
	return nil
}

// NumberIndexValueType returns the value type of a number index
// signature, or nil if the type has none.
func (t *Type) NumberIndexValueType() *Type {
	for _, info := range shimchecker.Checker_getIndexInfosOfType(t.host.checker, t.t) {
		key := shimchecker.IndexInfo_keyType(info)
		if key != nil && key.Flags()&shimchecker.TypeFlagsNumber != 0 {
			return t.host.wrapType(shimchecker.IndexInfo_valueType(info))
		}
	}
	return nil
}

// HasOwnProperties reports whether the type has any properties at
// all, used to distinguish a bare index signature (spec §4.2.5 rule 9)
// from an object that mixes named properties with an index signature.
func (t *Type) HasOwnProperties() bool {
	return len(shimchecker.Checker_getPropertiesOfType(t.host.checker, t.t)) > 0
}

// PropertyNames returns the own property names of an object type, in
// declaration order.
func (t *Type) PropertyNames() []string {
	props := shimchecker.Checker_getPropertiesOfType(t.host.checker, t.t)
	names := make([]string, len(props))
	for i, p := range props {
		names[i] = p.Name
	}
	return names
}

// PropertyType returns the resolved type of the named property, or
// nil if the type has no such property.
func (t *Type) PropertyType(name string) *Type {
	for _, p := range shimchecker.Checker_getPropertiesOfType(t.host.checker, t.t) {
		if p.Name == name {
			return t.host.wrapType(shimchecker.Checker_getTypeOfSymbol(t.host.checker, p))
		}
	}
	return nil
}

// PropertyIsOptional reports whether the named property is declared
// optional (`name?: T`).
func (t *Type) PropertyIsOptional(name string) bool {
	for _, p := range shimchecker.Checker_getPropertiesOfType(t.host.checker, t.t) {
		if p.Name == name {
			return p.Flags&ast.SymbolFlagsOptional != 0
		}
	}
	return false
}

// Properties returns the type's own properties (name, type, optional),
// without syntactic nodes, for contexts that have no node to refine
// against.
func (t *Type) Properties() []Property {
	names := t.PropertyNames()
	out := make([]Property, 0, len(names))
	for _, name := range names {
		out = append(out, Property{
			Name:     name,
			Type:     t.PropertyType(name),
			Optional: t.PropertyIsOptional(name),
		})
	}
	return out
}

// PropertiesWithNodes returns the type's own properties paired with
// their property-signature syntax nodes when one can be found on the
// type's declaring symbol (an object type literal or interface body),
// for the "resolve_type_with_node" entry points of spec §4.2.5 (the
// type-alias object case, and rules 10/13 of resolve_type) that need
// the syntactic nullable-reference refinement. Falls back to a nil
// Node per property when no member list is available, in which case
// callers resolve without the refinement.
func (t *Type) PropertiesWithNodes() []Property {
	members := map[string]*ast.Node{}
	sym := t.t.Symbol()
	if sym != nil {
		for _, decl := range sym.Declarations {
			var list *ast.NodeList
			switch decl.Kind {
			case ast.KindTypeLiteral:
				list = decl.AsTypeLiteralNode().Members
			case ast.KindInterfaceDeclaration:
				list = decl.AsInterfaceDeclaration().Members
			}
			if list == nil {
				continue
			}
			for _, member := range list.Nodes {
				if member.Kind != ast.KindPropertySignature {
					continue
				}
				members[member.AsPropertySignatureDeclaration().Name().Text()] = member
			}
		}
	}
	names := t.PropertyNames()
	out := make([]Property, 0, len(names))
	for _, name := range names {
		out = append(out, Property{
			Name:     name,
			Type:     t.PropertyType(name),
			Optional: t.PropertyIsOptional(name),
			Node:     members[name],
		})
	}
	return out
}

// AliasSymbolName returns the name of the alias symbol this
// occurrence was written through (e.g. `UserRole` in `role: UserRole`),
// set only when the type node was a reference to a named alias, not a
// structurally-equal anonymous type (spec §4.1: "alias_symbol is set
// only when the type was written as a reference to a named alias").
func (t *Type) AliasSymbolName() (string, bool) {
	alias := shimchecker.Type_alias(t.t)
	if alias == nil {
		return "", false
	}
	sym := alias.Symbol()
	if sym == nil || sym.Name == "" {
		return "", false
	}
	return sym.Name, true
}

// SymbolName returns the type's own declaration symbol name (set for
// named interfaces, classes, and enum types), distinct from
// AliasSymbolName which only fires for type-alias references.
func (t *Type) SymbolName() (string, bool) {
	sym := t.t.Symbol()
	if sym == nil || sym.Name == "" {
		return "", false
	}
	if isInternalSymbolName(sym.Name) {
		return "", false
	}
	return sym.Name, true
}

func isInternalSymbolName(name string) bool {
	if name == "" || name == "__type" || name == "__object" || name == "__function" {
		return true
	}
	return name[0] == '\xfe'
}

// IsAnonymousObject reports whether this is an unnamed object literal
// type (e.g. an inline `{ x: number }`), as opposed to a named
// interface/class instance.
func (t *Type) IsAnonymousObject() bool {
	return shimchecker.Type_objectFlags(t.t)&shimchecker.ObjectFlagsAnonymous != 0
}

// DeclaredOutsideUserSources reports whether this type's declaring
// symbol lives outside the program's own source files (e.g. in
// node_modules/@types or the TypeScript lib), used by resolve_type
// rule 10 of spec §4.2.5 to decide whether a named external-package
// object should be materialized structurally under its bare symbol
// name. Grounded on the same declaration→source-file walk tsgonest's
// decorator_origin.go performs for import provenance, applied here to
// a type's own symbol instead of a decorator's callee symbol.
func (t *Type) DeclaredOutsideUserSources(userRoot string) bool {
	sym := t.t.Symbol()
	if sym == nil {
		return false
	}
	for _, decl := range sym.Declarations {
		sf := ast.GetSourceFileOfNode(decl)
		if sf == nil {
			continue
		}
		if !withinRoot(sf.FileName(), userRoot) {
			return true
		}
	}
	return false
}

func withinRoot(path, root string) bool {
	if root == "" {
		return true
	}
	if len(path) < len(root) {
		return false
	}
	return path[:len(root)] == root
}

// WellKnownName returns the built-in alias name this occurrence
// refers to (Array, ReadonlyArray, Record, Map, Set, Date, Promise,
// Object, Function) if any, for the dispatch table of spec §4.2.5
// rule 11. It consults the alias symbol first, then the type's own
// symbol, matching "well-known symbol names" resolution order.
func (t *Type) WellKnownName() (string, bool) {
	if name, ok := t.AliasSymbolName(); ok {
		if isWellKnown(name) {
			return name, true
		}
	}
	if name, ok := t.SymbolName(); ok {
		if isWellKnown(name) {
			return name, true
		}
	}
	return "", false
}

func isWellKnown(name string) bool {
	switch name {
	case "Array", "ReadonlyArray", "Record", "Map", "Set", "Date", "Promise", "Object", "Function":
		return true
	}
	return len(name) >= 2 && name[:2] == "__"
}
