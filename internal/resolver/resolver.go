// Package resolver implements the Type Resolver (spec §4.2): it walks
// the surface type graph reachable from an entry module and a set of
// root names, normalizing every declaration into the ir package's
// tagged representation. It depends only on the hostquery.Host query
// surface — the surface-language parser is a collaborator behind that
// interface, never touched directly here — mirroring how tsgonest's
// internal/analyzer.TypeWalker drives everything through
// shimchecker.Checker_* calls instead of walking raw AST nodes itself.
package resolver

import (
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"
	"unicode"

	"github.com/microsoft/typescript-go/shim/ast"

	"github.com/ts2rs/ts2rs/internal/hostquery"
	"github.com/ts2rs/ts2rs/internal/ir"
	"github.com/ts2rs/ts2rs/internal/rusterr"
)

// Options configures a Resolver run (spec §6.2's resolution-affecting
// subset; output/rendering options live in rustconfig instead).
type Options struct {
	// TypeNames, if non-empty, limits resolution roots to these names.
	// Empty means every exported declaration of the entry module.
	TypeNames []string
	// Strict disallows every fallback to json_value; the resolver
	// raises a *rusterr.TypeConversionError instead (spec §4.2.10).
	Strict bool
	// UserSourceRoot is the path prefix distinguishing the user's own
	// source tree from node_modules/lib declarations, consulted by
	// resolve_type rule 10 (external-package object materialization).
	// Empty disables the distinction — every declaration is treated as
	// a user source.
	UserSourceRoot string
}

// Resolver owns the mutable state of one conversion run (spec §4.2.1).
// It is not reused across runs — Convert constructs a fresh one per
// call, mirroring spec §5 ("no shared mutable state exists across
// runs").
type Resolver struct {
	host *hostquery.Host
	opts Options

	collected map[string]*ir.CollectedType
	order     []string

	// processing is the cycle sentinel (spec §4.2.1/§4.2.2): names
	// currently on the resolution stack. A struct_ref to a processing
	// name is returned immediately without re-entering resolve_by_name.
	processing map[string]bool

	// unresolvable marks named union aliases that resolve_type_alias
	// declined to collect because one of their variants fell back to
	// json_value (spec §4.2.4 item 3, §8.4 scenario 6). Subsequent
	// references to the name resolve to json_value with a warning
	// instead of struct_ref.
	unresolvable map[string]bool

	warnings *rusterr.Warnings
}

// New constructs a Resolver bound to host for one run.
func New(host *hostquery.Host, opts Options) *Resolver {
	return &Resolver{
		host:         host,
		opts:         opts,
		collected:    make(map[string]*ir.CollectedType),
		processing:   make(map[string]bool),
		unresolvable: make(map[string]bool),
		warnings:     rusterr.NewWarnings(opts.Strict),
	}
}

// Warnings returns the accumulated warnings in occurrence order.
func (r *Resolver) Warnings() []string { return r.warnings.All() }

// Resolve drives the entry point of spec §4.2.1 and returns the
// collected types in insertion order.
func (r *Resolver) Resolve(entryModule string) ([]*ir.CollectedType, error) {
	if len(r.opts.TypeNames) > 0 {
		for _, name := range r.opts.TypeNames {
			if err := r.resolveByName(entryModule, name); err != nil {
				return nil, err
			}
		}
	} else {
		decls, err := r.host.ExportedDeclarations(entryModule)
		if err != nil {
			return nil, &rusterr.HostQueryError{Err: err}
		}
		for _, decl := range decls {
			if err := r.resolveByName(entryModule, decl.Name); err != nil {
				return nil, err
			}
		}
	}
	out := make([]*ir.CollectedType, 0, len(r.order))
	for _, name := range r.order {
		out = append(out, r.collected[name])
	}
	return out, nil
}

// register inserts ct under its own name, honoring the uniqueness
// invariant (spec §3.2 inv. 1, §8.1 inv. 3): re-collection is a no-op.
func (r *Resolver) register(ct *ir.CollectedType) {
	if _, ok := r.collected[ct.Name]; ok {
		return
	}
	r.collected[ct.Name] = ct
	r.order = append(r.order, ct.Name)
}

// resolveByName is spec §4.2.2.
func (r *Resolver) resolveByName(module, name string) error {
	if _, ok := r.collected[name]; ok {
		return nil
	}
	if r.processing[name] {
		return nil
	}
	decl, err := r.host.FindDeclaration(module, name)
	if err != nil {
		return &rusterr.HostQueryError{Err: err}
	}
	if decl == nil {
		return &rusterr.TypeNotFoundError{Name: name}
	}
	r.processing[name] = true
	defer delete(r.processing, name)

	switch decl.Kind {
	case hostquery.DeclInterface:
		return r.resolveInterface(decl)
	case hostquery.DeclTypeAlias:
		return r.resolveTypeAlias(decl)
	case hostquery.DeclEnum:
		return r.resolveEnum(decl)
	}
	return nil
}

// resolveInterface is spec §4.2.3.
func (r *Resolver) resolveInterface(decl *hostquery.Declaration) error {
	var fields []ir.Field
	index := map[string]int{}
	upsert := func(f ir.Field) {
		if i, ok := index[f.Name]; ok {
			fields[i] = f
			return
		}
		index[f.Name] = len(fields)
		fields = append(fields, f)
	}

	for _, ext := range decl.ExtendsList {
		for _, name := range ext.PropertyNames() {
			resolved, err := r.resolveType(ext.PropertyType(name), decl.SourcePath)
			if err != nil {
				return err
			}
			resolved = r.boxRecursive(resolved)
			optional := ext.PropertyIsOptional(name)
			if optional && !resolved.IsOption() {
				resolved = ir.Option(resolved)
			}
			upsert(ir.Field{Name: name, Type: resolved, Optional: optional})
		}
	}

	for _, prop := range decl.OwnProperties {
		if prop.Type == nil {
			continue
		}
		resolved, err := r.resolveType(prop.Type, decl.SourcePath)
		if err != nil {
			return err
		}
		resolved = r.boxRecursive(resolved)
		if prop.Optional && !resolved.IsOption() {
			resolved = ir.Option(resolved)
		}
		upsert(ir.Field{Name: prop.Name, Type: resolved, Optional: prop.Optional, Documentation: prop.Documentation})
	}

	r.register(&ir.CollectedType{
		Kind:           ir.CollectedStruct,
		Name:           decl.Name,
		Documentation:  decl.Documentation,
		TypeParameters: decl.TypeParameters,
		Fields:         fields,
	})
	return nil
}

// resolveTypeAlias is spec §4.2.4, checked in priority order.
func (r *Resolver) resolveTypeAlias(decl *hostquery.Declaration) error {
	t := decl.AliasedType

	switch {
	case t.IsTuple():
		resolved, err := r.resolveTupleType(t, decl.SourcePath)
		if err != nil {
			return err
		}
		r.register(&ir.CollectedType{
			Kind: ir.CollectedTypeAlias, Name: decl.Name,
			Documentation: decl.Documentation, Aliased: &resolved,
		})
		return nil

	case !t.IsArray() && t.IsObject() && t.HasOwnProperties():
		fields, err := r.resolvePropertiesWithNodes(t, decl.SourcePath)
		if err != nil {
			return err
		}
		r.register(&ir.CollectedType{
			Kind: ir.CollectedStruct, Name: decl.Name,
			Documentation: decl.Documentation, TypeParameters: decl.TypeParameters,
			Fields: fields,
		})
		return nil

	case t.IsUnion():
		return r.resolveUnionAlias(decl, t)

	default:
		resolved, err := r.resolveType(t, decl.SourcePath)
		if err != nil {
			return err
		}
		r.register(&ir.CollectedType{
			Kind: ir.CollectedTypeAlias, Name: decl.Name,
			Documentation: decl.Documentation, Aliased: &resolved,
		})
		return nil
	}
}

func (r *Resolver) resolveTupleType(t *hostquery.Type, module string) (ir.ResolvedType, error) {
	elems := t.TupleElements()
	out := make([]ir.ResolvedType, 0, len(elems))
	for _, e := range elems {
		resolved, err := r.resolveType(e, module)
		if err != nil {
			return ir.ResolvedType{}, err
		}
		out = append(out, resolved)
	}
	return ir.TupleOf(out...), nil
}

// resolveUnionAlias dispatches a named union alias's members across
// the literal-enum / discriminated / general branches of §4.2.4 item 3.
func (r *Resolver) resolveUnionAlias(decl *hostquery.Declaration, t *hostquery.Type) error {
	members := t.UnionMembers()

	if allLiteralOrNullish(members) {
		return r.resolveLiteralUnionAsEnum(decl.Name, decl.Documentation, members)
	}

	if discriminant, ok := r.detectDiscriminant(members); ok {
		return r.resolveDiscriminatedUnion(decl.Name, decl.Documentation, discriminant, members, decl.SourcePath)
	}

	variants, unresolvable, err := r.resolveGeneralUnion(members, decl.SourcePath)
	if err != nil {
		return err
	}
	if unresolvable {
		r.unresolvable[decl.Name] = true
		r.warnings.Add("%s: not collected — at least one union variant is unresolvable; uses fall back to json_value", decl.Name)
		return nil
	}
	r.register(&ir.CollectedType{
		Kind: ir.CollectedUnion, Name: decl.Name,
		Documentation: decl.Documentation, UnionVariants: variants,
	})
	return nil
}

func allLiteralOrNullish(members []*hostquery.Type) bool {
	for _, m := range members {
		if m.IsNull() || m.IsUndefined() {
			continue
		}
		if m.IsStringLiteral() || m.IsNumberLiteral() || m.IsBooleanLiteral() {
			continue
		}
		return false
	}
	return true
}

// resolveLiteralUnionAsEnum is spec §4.2.4 item 3a / §4.2.9's sibling
// for literal unions: null/undefined members are stripped, string
// literals set is_string_enum, numeric literals get Value<n> names.
func (r *Resolver) resolveLiteralUnionAsEnum(name, doc string, members []*hostquery.Type) error {
	var variants []ir.EnumVariant
	isString := false
	for _, m := range members {
		if m.IsNull() || m.IsUndefined() {
			continue
		}
		v, ok := m.LiteralValue()
		if !ok {
			continue
		}
		switch val := v.(type) {
		case string:
			isString = true
			variants = append(variants, ir.EnumVariant{Name: toVariantName(val), Value: val})
		case float64:
			variants = append(variants, ir.EnumVariant{Name: "Value" + numberVariantSuffix(val), Value: val})
		case bool:
			label := "False"
			if val {
				label = "True"
			}
			variants = append(variants, ir.EnumVariant{Name: label, Value: val})
		}
	}
	r.register(&ir.CollectedType{
		Kind: ir.CollectedEnum, Name: name, Documentation: doc,
		Variants: variants, IsStringEnum: isString,
	})
	return nil
}

// detectDiscriminant is spec §4.2.6. Returns the first property name,
// in the first object member's declaration order, whose type is a
// literal in every object member of the union.
func (r *Resolver) detectDiscriminant(members []*hostquery.Type) (string, bool) {
	var objMembers []*hostquery.Type
	for _, m := range members {
		if m.IsNull() || m.IsUndefined() {
			continue
		}
		if !m.IsObject() {
			return "", false
		}
		objMembers = append(objMembers, m)
	}
	if len(objMembers) < 2 {
		return "", false
	}
	for _, candidate := range objMembers[0].PropertyNames() {
		ok := true
		for _, m := range objMembers {
			pt := m.PropertyType(candidate)
			if pt == nil || !(pt.IsStringLiteral() || pt.IsNumberLiteral() || pt.IsBooleanLiteral()) {
				ok = false
				break
			}
		}
		if ok {
			return candidate, true
		}
	}
	return "", false
}

// resolveDiscriminatedUnion is spec §4.2.8.
func (r *Resolver) resolveDiscriminatedUnion(name, doc, discriminant string, members []*hostquery.Type, module string) error {
	var variants []ir.UnionVariant
	for _, m := range members {
		if m.IsNull() || m.IsUndefined() {
			continue
		}
		discType := m.PropertyType(discriminant)
		litVal, _ := discType.LiteralValue()
		omitDiscriminator := discType.IsStringLiteral()
		variantName := toVariantName(fmt.Sprint(litVal))

		var payload []ir.Field
		for _, p := range m.PropertiesWithNodes() {
			if p.Name == discriminant && omitDiscriminator {
				continue
			}
			if p.Type == nil {
				continue
			}
			resolved, err := r.resolveTypeWithNode(p.Type, p.Node, module)
			if err != nil {
				return err
			}
			resolved = r.boxRecursive(resolved)
			if p.Optional && !resolved.IsOption() {
				resolved = ir.Option(resolved)
			}
			payload = append(payload, ir.Field{Name: p.Name, Type: resolved, Optional: p.Optional})
		}

		var variantType *ir.ResolvedType
		if len(payload) > 0 {
			inline := ir.InlineStruct(payload)
			variantType = &inline
		}
		variants = append(variants, ir.UnionVariant{Name: variantName, Type: variantType, DiscriminatorValue: litVal})
	}
	r.register(&ir.CollectedType{
		Kind: ir.CollectedUnion, Name: name, Documentation: doc,
		UnionVariants: variants, Discriminator: discriminant,
	})
	return nil
}

// resolveGeneralUnion resolves a non-literal, non-discriminated named
// union member-by-member. unresolvable reports whether any variant
// fell back to json_value, the signal resolveUnionAlias uses to
// decline collection entirely (spec §4.2.4 item 3, §9 open question 1).
func (r *Resolver) resolveGeneralUnion(members []*hostquery.Type, module string) (variants []ir.UnionVariant, unresolvable bool, err error) {
	i := 0
	for _, m := range members {
		if m.IsNull() || m.IsUndefined() {
			continue
		}
		i++
		resolved, err := r.resolveType(m, module)
		if err != nil {
			return nil, false, err
		}
		resolved = r.boxRecursive(resolved)
		if resolved.Kind == ir.KindJSONValue {
			unresolvable = true
		}
		name := fmt.Sprintf("Variant%d", i)
		if resolved.Kind == ir.KindStructRef {
			name = resolved.Name
		}
		rt := resolved
		variants = append(variants, ir.UnionVariant{Name: name, Type: &rt})
	}
	return variants, unresolvable, nil
}

// resolveEnum is spec §4.2.9.
func (r *Resolver) resolveEnum(decl *hostquery.Declaration) error {
	var variants []ir.EnumVariant
	isString := false
	for _, m := range decl.EnumMembers {
		if _, ok := m.Value.(string); ok {
			isString = true
		}
		variants = append(variants, ir.EnumVariant{Name: m.Name, Value: m.Value, Documentation: m.Documentation})
	}
	r.register(&ir.CollectedType{
		Kind: ir.CollectedEnum, Name: decl.Name, Documentation: decl.Documentation,
		Variants: variants, IsStringEnum: isString,
	})
	return nil
}

// resolveType is the core dispatcher of spec §4.2.5, checked in this
// fixed order; the first matching rule wins.
func (r *Resolver) resolveType(t *hostquery.Type, module string) (ir.ResolvedType, error) {
	if t == nil {
		return r.fallbackType("<missing type>", "no type information available")
	}

	// Rule 1: type parameter occurrence.
	if t.IsTypeParameter() {
		label := "<type parameter>"
		if name, ok := t.SymbolName(); ok {
			label = name
		}
		if r.opts.Strict {
			return ir.ResolvedType{}, &rusterr.TypeConversionError{TypeName: label, Reason: "type parameter unresolved"}
		}
		r.warnings.Add("type parameter '%s' unresolved", label)
		return ir.JSONValue(), nil
	}

	// Rule 2: user-named alias reference. A generic alias occurrence
	// (type arguments present) falls through to later rules instead,
	// per §4.2.7 item 1's parenthetical.
	if aliasName, ok := t.AliasSymbolName(); ok && !isWellKnownBuiltinName(aliasName) && len(t.TypeArguments()) == 0 {
		return r.resolveNamedReference(aliasName, module)
	}

	// Rule 3: null / undefined.
	if t.IsNull() {
		return ir.Prim(ir.PrimitiveNull), nil
	}
	if t.IsUndefined() {
		return ir.Prim(ir.PrimitiveUndefined), nil
	}

	// Rule 4: primitive string/number/boolean, collapsing literals.
	if t.IsString() || t.IsStringLiteral() {
		return ir.Prim(ir.PrimitiveString), nil
	}
	if t.IsNumber() || t.IsNumberLiteral() {
		return ir.Prim(ir.PrimitiveNumber), nil
	}
	if t.IsBoolean() || t.IsBooleanLiteral() {
		return ir.Prim(ir.PrimitiveBoolean), nil
	}

	// Rule 5: any/unknown, explicit fallback without a warning.
	if t.IsAny() || t.IsUnknown() {
		return ir.JSONValue(), nil
	}

	// Rule 6: array.
	if t.IsArray() {
		elem, err := r.resolveType(t.ArrayElement(), module)
		if err != nil {
			return ir.ResolvedType{}, err
		}
		return ir.Array(elem), nil
	}

	// Rule 7: tuple.
	if t.IsTuple() {
		return r.resolveTupleType(t, module)
	}

	// Rule 8: union.
	if t.IsUnion() {
		return r.resolveInlineUnion(t, module)
	}

	// Rule 9: index signature without own properties.
	if !t.HasOwnProperties() {
		if v := t.StringIndexValueType(); v != nil {
			resolved, err := r.resolveType(v, module)
			if err != nil {
				return ir.ResolvedType{}, err
			}
			return ir.Record(ir.Prim(ir.PrimitiveString), resolved), nil
		}
		if v := t.NumberIndexValueType(); v != nil {
			resolved, err := r.resolveType(v, module)
			if err != nil {
				return ir.ResolvedType{}, err
			}
			return ir.Record(ir.Prim(ir.PrimitiveNumber), resolved), nil
		}
	}

	// Rule 10: named object declared outside the user's own sources —
	// materialize it structurally by value (only interface/class
	// symbols reach here; alias references were already handled by
	// rule 2).
	if name, ok := t.SymbolName(); ok && t.HasOwnProperties() && t.DeclaredOutsideUserSources(r.opts.UserSourceRoot) {
		return r.materializeExternalStruct(name, t, module)
	}

	// Rule 11: well-known built-in alias names.
	if wk, ok := t.WellKnownName(); ok {
		if rt, err, handled := r.resolveWellKnown(wk, t, module); handled {
			return rt, err
		}
	}

	// Rule 12: other named nominal type from the user's own sources.
	if name, ok := t.SymbolName(); ok {
		if err := r.resolveByName(module, name); err != nil {
			return ir.ResolvedType{}, err
		}
		return ir.StructRef(name), nil
	}

	// Rule 13: anonymous object with properties.
	if t.IsAnonymousObject() && t.HasOwnProperties() {
		fields, err := r.resolvePropertiesWithNodes(t, module)
		if err != nil {
			return ir.ResolvedType{}, err
		}
		return ir.InlineStruct(fields), nil
	}

	// Rule 14: fallthrough.
	return r.fallbackType(typeLabel(t), "construct has no representable shape")
}

// resolveWellKnown handles resolve_type rule 11's dispatch table.
// handled reports whether wk matched a known name at all; callers
// should not treat handled=false as an error, just an unmatched name
// (defensive — WellKnownName's own list should make this unreachable).
func (r *Resolver) resolveWellKnown(wk string, t *hostquery.Type, module string) (ir.ResolvedType, error, bool) {
	switch wk {
	case "Array", "ReadonlyArray":
		args := t.TypeArguments()
		if len(args) == 0 {
			rt, err := r.fallbackType(wk, "missing type argument")
			return rt, err, true
		}
		elem, err := r.resolveType(args[0], module)
		if err != nil {
			return ir.ResolvedType{}, err, true
		}
		return ir.Array(elem), nil, true

	case "Record":
		args := t.TypeArguments()
		if len(args) < 2 {
			rt, err := r.fallbackType(wk, "missing type arguments")
			return rt, err, true
		}
		key, err := r.resolveType(args[0], module)
		if err != nil {
			return ir.ResolvedType{}, err, true
		}
		val, err := r.resolveType(args[1], module)
		if err != nil {
			return ir.ResolvedType{}, err, true
		}
		return ir.Record(key, val), nil, true

	case "Map":
		args := t.TypeArguments()
		if len(args) < 2 {
			rt, err := r.fallbackType(wk, "missing type arguments")
			return rt, err, true
		}
		key, err := r.resolveType(args[0], module)
		if err != nil {
			return ir.ResolvedType{}, err, true
		}
		val, err := r.resolveType(args[1], module)
		if err != nil {
			return ir.ResolvedType{}, err, true
		}
		return ir.MapOf(key, val), nil, true

	case "Set":
		args := t.TypeArguments()
		if len(args) == 0 {
			rt, err := r.fallbackType(wk, "missing type argument")
			return rt, err, true
		}
		elem, err := r.resolveType(args[0], module)
		if err != nil {
			return ir.ResolvedType{}, err, true
		}
		return ir.SetOf(elem), nil, true

	case "Date":
		return ir.Prim(ir.PrimitiveString), nil, true

	case "Promise":
		return ir.ResolvedType{}, &rusterr.NonSerializableError{Name: "Promise"}, true

	case "Object", "Function":
		rt, err := r.fallbackType(wk, "not serializable; using dynamic value")
		return rt, err, true
	}

	if strings.HasPrefix(wk, "__") {
		rt, err := r.fallbackType(wk, "internal type; using dynamic value")
		return rt, err, true
	}
	return ir.ResolvedType{}, nil, false
}

// resolveNamedReference backs rule 2 of resolve_type and rule 1 of
// resolve_inline_union: both recurse into a named declaration and
// return struct_ref(name), except when name was previously marked
// unresolvable by resolveUnionAlias (spec §8.4 scenario 6).
func (r *Resolver) resolveNamedReference(name, module string) (ir.ResolvedType, error) {
	if r.unresolvable[name] {
		return r.fallbackType(name, "referenced alias has an unresolvable union variant")
	}
	if err := r.resolveByName(module, name); err != nil {
		return ir.ResolvedType{}, err
	}
	if r.unresolvable[name] {
		return r.fallbackType(name, "referenced alias has an unresolvable union variant")
	}
	return ir.StructRef(name), nil
}

// materializeExternalStruct backs rule 10: an external-package named
// object is resolved structurally by value and registered as a fresh
// Struct keyed by its bare symbol name (spec §9: "collisions with user
// types are possible... producing a qualified name is a recommended
// hardening" — not implemented here, matching observed behavior).
func (r *Resolver) materializeExternalStruct(name string, t *hostquery.Type, module string) (ir.ResolvedType, error) {
	if _, ok := r.collected[name]; ok {
		return ir.StructRef(name), nil
	}
	if r.processing[name] {
		return ir.StructRef(name), nil
	}
	r.processing[name] = true
	defer delete(r.processing, name)

	fields, err := r.resolvePropertiesWithNodes(t, module)
	if err != nil {
		return ir.ResolvedType{}, err
	}
	r.register(&ir.CollectedType{Kind: ir.CollectedStruct, Name: name, Fields: fields})
	return ir.StructRef(name), nil
}

// resolveInlineUnion is spec §4.2.7.
func (r *Resolver) resolveInlineUnion(t *hostquery.Type, module string) (ir.ResolvedType, error) {
	if aliasName, ok := t.AliasSymbolName(); ok && len(t.TypeArguments()) == 0 && !isWellKnownBuiltinName(aliasName) {
		return r.resolveNamedReference(aliasName, module)
	}

	var nonNullish []*hostquery.Type
	sawNullish := false
	for _, m := range t.UnionMembers() {
		if m.IsNull() || m.IsUndefined() {
			sawNullish = true
			continue
		}
		nonNullish = append(nonNullish, m)
	}

	switch {
	case len(nonNullish) == 0:
		// Boundary case, spec §8.3: a union of only null/undefined.
		rt, err := r.fallbackType("<inline union>", "union of only null/undefined members; using dynamic value")
		if err != nil {
			return ir.ResolvedType{}, err
		}
		return ir.Option(rt), nil
	case len(nonNullish) == 1:
		inner, err := r.resolveType(nonNullish[0], module)
		if err != nil {
			return ir.ResolvedType{}, err
		}
		inner = r.boxRecursive(inner)
		return ir.Option(inner), nil
	case sawNullish:
		rt, err := r.fallbackType("<inline union>", "inline union with multiple non-null variants cannot be named; using dynamic value")
		if err != nil {
			return ir.ResolvedType{}, err
		}
		return ir.Option(rt), nil
	default:
		return r.fallbackType("<inline union>", "anonymous multi-variant union must be a named type")
	}
}

// resolveTypeWithNode is resolve_type_with_node (spec §4.2.5's
// syntactic refinement): at a property-field entry point, a
// syntactically `T | null` (or `T[] | null`) declared type resolves
// directly to option(struct_ref(T)) (resp. option(array(...))),
// bypassing ordinary union splitting so a named reference survives a
// nullable wrapper even if the checker would otherwise have widened
// or unified it.
func (r *Resolver) resolveTypeWithNode(t *hostquery.Type, node *ast.Node, module string) (ir.ResolvedType, error) {
	if node != nil && node.Kind == ast.KindPropertySignature {
		node = node.AsPropertySignatureDeclaration().Type
	}
	if node != nil && node.Kind == ast.KindUnionType {
		if name, isArray, ok := syntacticNullableNamedRef(node); ok {
			if err := r.resolveByName(module, name); err != nil {
				return ir.ResolvedType{}, err
			}
			inner := r.boxRecursive(ir.StructRef(name))
			if isArray {
				inner = ir.Array(inner)
			}
			return ir.Option(inner), nil
		}
	}
	return r.resolveType(t, module)
}

// resolvePropertiesWithNodes resolves every own property of an object
// type via resolve_type_with_node, applying the recursion-box rule
// and optional wrapping uniformly — used by the type-alias object
// case of §4.2.4 item 2 and rules 10/13 of §4.2.5, all three of which
// the spec calls out as sharing this entry point.
func (r *Resolver) resolvePropertiesWithNodes(t *hostquery.Type, module string) ([]ir.Field, error) {
	var fields []ir.Field
	for _, p := range t.PropertiesWithNodes() {
		if p.Type == nil {
			continue
		}
		resolved, err := r.resolveTypeWithNode(p.Type, p.Node, module)
		if err != nil {
			return nil, err
		}
		resolved = r.boxRecursive(resolved)
		if p.Optional && !resolved.IsOption() {
			resolved = ir.Option(resolved)
		}
		fields = append(fields, ir.Field{Name: p.Name, Type: resolved, Optional: p.Optional, Documentation: p.Documentation})
	}
	return fields, nil
}

// boxRecursive applies the recursion rule (spec §3.2 inv. 3, §8.1
// inv. 2): any struct_ref to a name currently on the processing stack,
// reachable without passing through option/array/box/record/map/set,
// is wrapped in box. Tuple and inline-struct members are the only
// composite shapes that do NOT supply indirection on their own, so
// they are the only ones recursed into; the container kinds are
// returned unchanged since they already break the cycle.
func (r *Resolver) boxRecursive(t ir.ResolvedType) ir.ResolvedType {
	switch t.Kind {
	case ir.KindStructRef:
		if r.processing[t.Name] {
			return ir.Box(t)
		}
		return t
	case ir.KindTuple:
		elems := make([]ir.ResolvedType, len(t.Elements))
		for i, e := range t.Elements {
			elems[i] = r.boxRecursive(e)
		}
		return ir.ResolvedType{Kind: ir.KindTuple, Elements: elems}
	case ir.KindInlineStruct:
		fields := make([]ir.Field, len(t.InlineFields))
		for i, f := range t.InlineFields {
			nf := f
			nf.Type = r.boxRecursive(f.Type)
			fields[i] = nf
		}
		return ir.ResolvedType{Kind: ir.KindInlineStruct, InlineFields: fields}
	default:
		return t
	}
}

// fallbackType runs the fallback policy of spec §4.2.10: strict mode
// raises, otherwise a warning is recorded and json_value returned.
func (r *Resolver) fallbackType(label, reason string) (ir.ResolvedType, error) {
	if err := r.warnings.Fallback(label, reason); err != nil {
		return ir.ResolvedType{}, err
	}
	return ir.JSONValue(), nil
}

func isWellKnownBuiltinName(name string) bool {
	switch name {
	case "Array", "ReadonlyArray", "Record", "Map", "Set", "Date", "Promise", "Object", "Function":
		return true
	}
	return len(name) >= 2 && name[:2] == "__"
}

func typeLabel(t *hostquery.Type) string {
	if name, ok := t.AliasSymbolName(); ok {
		return name
	}
	if name, ok := t.SymbolName(); ok {
		return name
	}
	return "<anonymous type>"
}

var variantNameSplit = regexp.MustCompile(`[-_\s]+`)

// toVariantName is spec §4.2.8's to_variant_name: split on
// [-_\s]+, upper-case the first letter of each part, lower-case the
// remainder, concatenate.
func toVariantName(s string) string {
	var sb strings.Builder
	for _, part := range variantNameSplit.Split(s, -1) {
		if part == "" {
			continue
		}
		runes := []rune(strings.ToLower(part))
		runes[0] = unicode.ToUpper(runes[0])
		sb.WriteString(string(runes))
	}
	return sb.String()
}

// numberVariantSuffix formats a numeric literal for the Value<n> enum
// variant naming of spec §4.2.4 item 3a.
func numberVariantSuffix(v float64) string {
	if v == math.Trunc(v) && !math.IsInf(v, 0) {
		return strconv.FormatInt(int64(v), 10)
	}
	return strings.NewReplacer(".", "_", "-", "Neg").Replace(strconv.FormatFloat(v, 'f', -1, 64))
}

// syntacticNullableNamedRef inspects a union type node for the exact
// shape resolve_type_with_node refines: at least one null/undefined
// branch and exactly one other branch that is a bare type reference
// or an array of one.
func syntacticNullableNamedRef(node *ast.Node) (name string, isArray bool, ok bool) {
	union := node.AsUnionTypeNode()
	if union == nil || union.Types == nil {
		return "", false, false
	}
	var nonNull *ast.Node
	nullCount := 0
	multi := false
	for _, member := range union.Types.Nodes {
		// `null` in a type position parses as a literal type node
		// wrapping the null keyword; `undefined` is a keyword type.
		if member.Kind == ast.KindNullKeyword || member.Kind == ast.KindUndefinedKeyword ||
			(member.Kind == ast.KindLiteralType && member.AsLiteralTypeNode().Literal.Kind == ast.KindNullKeyword) {
			nullCount++
			continue
		}
		if nonNull != nil {
			multi = true
		}
		nonNull = member
	}
	if nullCount == 0 || multi || nonNull == nil {
		return "", false, false
	}
	return namedRefOrArrayOfNamed(nonNull)
}

func namedRefOrArrayOfNamed(node *ast.Node) (name string, isArray bool, ok bool) {
	switch node.Kind {
	case ast.KindTypeReference:
		tr := node.AsTypeReferenceNode()
		if tr.TypeName != nil {
			return tr.TypeName.Text(), false, true
		}
	case ast.KindArrayType:
		elem := node.AsArrayTypeNode().ElementType
		if elem != nil && elem.Kind == ast.KindTypeReference {
			tr := elem.AsTypeReferenceNode()
			if tr.TypeName != nil {
				return tr.TypeName.Text(), true, true
			}
		}
	}
	return "", false, false
}
