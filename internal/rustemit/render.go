package rustemit

import (
	"fmt"
	"strconv"

	"github.com/ts2rs/ts2rs/internal/ir"
	"github.com/ts2rs/ts2rs/internal/rustconfig"
)

// renderer carries emit-time options across one file's worth of
// CollectedType rendering — the Rust analogue of tsgonest's
// serializeCtx, minus the recursion guard (the IR's box wrapping
// already breaks cycles before rendering ever sees them).
//
// pending accumulates synthesized struct definitions for
// ir.KindInlineStruct types met outside a union variant (an ordinary
// field or a type alias target): Rust has no literal anonymous struct
// type, so each such occurrence gets its own named nested struct,
// queued here and flushed by Emit right after the CollectedType that
// referenced it. Per spec §9 open question 3, these are never deduped
// — two structurally-identical inline objects at two use sites still
// produce two independent struct definitions.
type renderer struct {
	opts    Options
	pending []pendingInline
}

// pendingInline is one synthesized struct awaiting emission, named
// from the field/alias path that produced it (e.g. "ConfigMeta" for
// field "meta" on struct "Config").
type pendingInline struct {
	name   string
	doc    string
	fields []ir.Field
}

// inlineStructName derives a Rust struct name for an inline object
// found at hint (already a PascalCase path built up by the caller),
// falling back to a positional name if hint is empty (Emit's own
// render paths always pass a hint built from the enclosing type's
// name, so the fallback only applies to a caller passing "").
func (r *renderer) inlineStructName(hint string) string {
	if hint != "" {
		return hint
	}
	return fmt.Sprintf("Inline%d", len(r.pending)+1)
}

func (r *renderer) renderType(e *Emitter, ct *ir.CollectedType) {
	switch ct.Kind {
	case ir.CollectedStruct:
		r.renderStruct(e, ct)
	case ir.CollectedEnum:
		r.renderEnum(e, ct)
	case ir.CollectedUnion:
		r.renderUnion(e, ct)
	case ir.CollectedTypeAlias:
		r.renderAlias(e, ct)
	}
}

func (r *renderer) attributeBlock(e *Emitter, derive string) {
	for _, a := range r.opts.CustomTypeAnnotations {
		e.Line("%s", a)
	}
	e.Line("#[derive(%s)]", derive)
}

func (r *renderer) renderStruct(e *Emitter, ct *ir.CollectedType) {
	docComment(e, ct.Documentation)
	r.attributeBlock(e, "Debug, Clone, Serialize, Deserialize")
	e.Line("#[serde(rename_all = \"camelCase\")]")
	e.Block("pub struct %s", ct.Name)
	for _, f := range ct.Fields {
		r.renderField(e, ct.Name, f)
	}
	e.EndBlock()
}

// renderField renders one struct field, including any per-field
// attributes contributed by a custom_type_mapping (spec §6.2) and the
// "skip serializing if empty" rule for option fields (spec §4.3).
// parentHint names the enclosing struct/variant, used to name any
// inline struct this field's type contains.
func (r *renderer) renderField(e *Emitter, parentHint string, f ir.Field) {
	docComment(e, f.Documentation)
	if mapping, ok := r.mappingFor(&f.Type); ok {
		for _, a := range mapping.FieldAnnotations {
			e.Line("%s", a)
		}
	}
	if f.Type.Kind == ir.KindOption {
		e.Line("#[serde(skip_serializing_if = \"Option::is_none\")]")
	}
	hint := parentHint + capitalizeFirst(f.Name)
	e.Line("pub %s: %s,", toSnakeCase(f.Name), r.renderTypeRef(&f.Type, hint))
}

// mappingFor reports the custom_type_mapping entry that applies to t,
// if t (at any level of option/box wrapping) is a struct_ref whose
// name is mapped.
func (r *renderer) mappingFor(t *ir.ResolvedType) (rustconfig.TypeMapping, bool) {
	cur := t
	for cur != nil {
		if cur.Kind == ir.KindStructRef {
			m, exists := r.opts.CustomTypeMappings[cur.Name]
			return m, exists
		}
		cur = cur.Inner
	}
	return rustconfig.TypeMapping{}, false
}

func (r *renderer) renderEnum(e *Emitter, ct *ir.CollectedType) {
	docComment(e, ct.Documentation)
	if ct.IsStringEnum {
		r.attributeBlock(e, "Debug, Clone, Copy, PartialEq, Eq, Serialize, Deserialize")
	} else {
		r.attributeBlock(e, "Debug, Clone, Copy, PartialEq, Eq, Serialize_repr, Deserialize_repr")
		e.Line("#[repr(i64)]")
	}
	e.Block("pub enum %s", ct.Name)
	for _, v := range ct.Variants {
		docComment(e, v.Documentation)
		if ct.IsStringEnum {
			if s, ok := v.Value.(string); ok {
				e.Line("#[serde(rename = %q)]", s)
			}
			e.Line("%s,", v.Name)
		} else {
			n, _ := v.Value.(float64)
			e.Line("%s = %s,", v.Name, strconv.FormatFloat(n, 'f', -1, 64))
		}
	}
	e.EndBlock()
}

func (r *renderer) renderUnion(e *Emitter, ct *ir.CollectedType) {
	docComment(e, ct.Documentation)
	r.attributeBlock(e, "Debug, Clone, Serialize, Deserialize")
	if ct.Discriminator != "" {
		e.Line("#[serde(tag = %q)]", ct.Discriminator)
	}
	e.Block("pub enum %s", ct.Name)
	for _, v := range ct.UnionVariants {
		docComment(e, v.Documentation)
		switch {
		case v.Type == nil:
			e.Line("%s,", v.Name)
		case v.Type.Kind == ir.KindInlineStruct:
			e.Line("#[serde(rename_all = \"camelCase\")]")
			e.Block("%s", v.Name)
			for _, f := range v.Type.InlineFields {
				r.renderField(e, ct.Name+v.Name, f)
			}
			e.EndBlockSuffix(",")
		default:
			e.Line("%s(%s),", v.Name, r.renderTypeRef(v.Type, ct.Name+v.Name))
		}
	}
	e.EndBlock()
}

// renderAlias renders a TypeAlias. An alias whose target is itself an
// inline object ("type Foo = { a: string }") has no literal Rust
// syntax — a type alias cannot name an anonymous struct — so it is
// rendered as the struct directly under the alias's own name instead
// of a "pub type Foo = ...;" line.
func (r *renderer) renderAlias(e *Emitter, ct *ir.CollectedType) {
	if ct.Aliased != nil && ct.Aliased.Kind == ir.KindInlineStruct {
		docComment(e, ct.Documentation)
		r.renderPendingInline(e, pendingInline{name: ct.Name, fields: ct.Aliased.InlineFields})
		return
	}
	docComment(e, ct.Documentation)
	e.Line("pub type %s = %s;", ct.Name, r.renderTypeRef(ct.Aliased, ct.Name))
}

// renderPendingInline renders one synthesized struct for an
// ir.KindInlineStruct met outside a union variant.
func (r *renderer) renderPendingInline(e *Emitter, p pendingInline) {
	docComment(e, p.doc)
	r.attributeBlock(e, "Debug, Clone, Serialize, Deserialize")
	e.Line("#[serde(rename_all = \"camelCase\")]")
	e.Block("pub struct %s", p.name)
	for _, f := range p.fields {
		r.renderField(e, p.name, f)
	}
	e.EndBlock()
}

// renderTypeRef renders a ResolvedType per the render_type table of
// spec §4.3, honoring a custom_type_mapping override for struct_ref(N).
// hint is the PascalCase name path built up from the enclosing
// field/alias, used only to name an ir.KindInlineStruct found here —
// every other case ignores it.
func (r *renderer) renderTypeRef(t *ir.ResolvedType, hint string) string {
	if t == nil {
		return "Value"
	}
	if t.Kind == ir.KindStructRef {
		if m, ok := r.opts.CustomTypeMappings[t.Name]; ok {
			return m.RustType
		}
	}

	switch t.Kind {
	case ir.KindPrimitive:
		switch t.Primitive {
		case ir.PrimitiveString:
			return "String"
		case ir.PrimitiveNumber:
			return "f64"
		case ir.PrimitiveBoolean:
			return "bool"
		default:
			// null/undefined do not occur in the final IR (spec §4.3's
			// render_type table) — reachable only via a defensive
			// fallback, never through a well-formed Resolve() output.
			return "Value"
		}
	case ir.KindArray:
		return fmt.Sprintf("Vec<%s>", r.renderTypeRef(t.Element, hint+"Item"))
	case ir.KindTuple:
		parts := make([]string, len(t.Elements))
		for i := range t.Elements {
			parts[i] = r.renderTypeRef(&t.Elements[i], fmt.Sprintf("%sItem%d", hint, i))
		}
		return "(" + joinComma(parts) + ")"
	case ir.KindRecord, ir.KindMap:
		return fmt.Sprintf("HashMap<%s, %s>", r.renderTypeRef(t.Key, hint+"Key"), r.renderTypeRef(t.Value, hint+"Value"))
	case ir.KindSet:
		return fmt.Sprintf("HashSet<%s>", r.renderTypeRef(t.Element, hint+"Item"))
	case ir.KindOption:
		return fmt.Sprintf("Option<%s>", r.renderTypeRef(t.Inner, hint))
	case ir.KindBox:
		return fmt.Sprintf("Box<%s>", r.renderTypeRef(t.Inner, hint))
	case ir.KindLiteral:
		switch t.LiteralValue.(type) {
		case string:
			return "String"
		case float64:
			return "f64"
		case bool:
			return "bool"
		default:
			return "Value"
		}
	case ir.KindStructRef:
		return t.Name
	case ir.KindJSONValue:
		return "Value"
	case ir.KindTypeParamRef:
		// Generics are erased at emission (spec §4.3, §9 design notes).
		return "Value"
	case ir.KindInlineStruct:
		// An anonymous object met as an ordinary field or alias target
		// (resolver rule 13) has no literal Rust spelling, unlike a
		// union variant's own struct-like-variant syntax (handled
		// directly in renderUnion) — so it is queued here as a
		// separately named struct and flushed by Emit right after the
		// CollectedType currently rendering, then referenced by name.
		name := r.inlineStructName(hint)
		r.pending = append(r.pending, pendingInline{name: name, fields: t.InlineFields})
		return name
	default:
		return "Value"
	}
}

func joinComma(parts []string) string {
	out := ""
	for i, p := range parts {
		if i > 0 {
			out += ", "
		}
		out += p
	}
	return out
}
