package rustemit

import (
	"strings"
	"testing"

	"github.com/ts2rs/ts2rs/internal/ir"
	"github.com/ts2rs/ts2rs/internal/rustconfig"
)

// Spec §8.4 scenario 3, emitted.
func TestEmit_DiscriminatedUnion(t *testing.T) {
	radius := ir.Prim(ir.PrimitiveNumber)
	width := ir.Prim(ir.PrimitiveNumber)
	height := ir.Prim(ir.PrimitiveNumber)
	shape := &ir.CollectedType{
		Kind:          ir.CollectedUnion,
		Name:          "Shape",
		Discriminator: "kind",
		UnionVariants: []ir.UnionVariant{
			{
				Name:               "Circle",
				DiscriminatorValue: "circle",
				Type:               typePtr(ir.InlineStruct([]ir.Field{{Name: "radius", Type: radius}})),
			},
			{
				Name:               "Rectangle",
				DiscriminatorValue: "rectangle",
				Type: typePtr(ir.InlineStruct([]ir.Field{
					{Name: "width", Type: width},
					{Name: "height", Type: height},
				})),
			},
			{Name: "Point", DiscriminatorValue: "point", Type: nil},
		},
	}

	text, _ := Emit([]*ir.CollectedType{shape}, Options{})

	if !strings.Contains(text, `#[serde(tag = "kind")]`) {
		t.Errorf("missing tag attribute:\n%s", text)
	}
	if !strings.Contains(text, "pub enum Shape {") {
		t.Errorf("missing enum decl:\n%s", text)
	}
	if !strings.Contains(text, "Circle {") || !strings.Contains(text, "pub radius: f64,") {
		t.Errorf("missing Circle variant:\n%s", text)
	}
	if !strings.Contains(text, "Point,") {
		t.Errorf("missing unit Point variant:\n%s", text)
	}
}

func TestEmit_StructWithOptionAndRecursion(t *testing.T) {
	node := &ir.CollectedType{
		Kind: ir.CollectedStruct,
		Name: "Node",
		Fields: []ir.Field{
			{Name: "value", Type: ir.Prim(ir.PrimitiveString)},
			{Name: "child", Type: ir.Option(ir.Box(ir.StructRef("Node")))},
			{Name: "metadata", Type: ir.Option(ir.Record(ir.Prim(ir.PrimitiveString), ir.JSONValue()))},
		},
	}

	text, _ := Emit([]*ir.CollectedType{node}, Options{})

	if !strings.Contains(text, "use std::collections::HashMap;") {
		t.Errorf("expected a HashMap import:\n%s", text)
	}
	if !strings.Contains(text, "use serde_json::Value;") {
		t.Errorf("expected a Value import:\n%s", text)
	}
	if !strings.Contains(text, "pub child: Option<Box<Node>>,") {
		t.Errorf("missing recursive field:\n%s", text)
	}
	if !strings.Contains(text, "#[serde(skip_serializing_if = \"Option::is_none\")]") {
		t.Errorf("missing skip_serializing_if attribute:\n%s", text)
	}
}

func TestEmit_CustomTypeMapping(t *testing.T) {
	user := &ir.CollectedType{
		Kind: ir.CollectedStruct,
		Name: "User",
		Fields: []ir.Field{
			{Name: "id", Type: ir.StructRef("UUID")},
		},
	}

	textUnmapped, _ := Emit([]*ir.CollectedType{user}, Options{})
	if !strings.Contains(textUnmapped, "pub id: UUID,") {
		t.Errorf("expected unmapped struct_ref to render as its bare name:\n%s", textUnmapped)
	}

	mapped, _ := Emit([]*ir.CollectedType{user}, Options{
		CustomTypeMappings: map[string]rustconfig.TypeMapping{
			"UUID": {RustType: "uuid::Uuid", FieldAnnotations: []string{"#[serde(with = \"uuid_str\")]"}},
		},
	})
	if !strings.Contains(mapped, "pub id: uuid::Uuid,") {
		t.Errorf("expected mapped struct_ref to render as the override:\n%s", mapped)
	}
	if !strings.Contains(mapped, `#[serde(with = "uuid_str")]`) {
		t.Errorf("expected field annotation from the mapping:\n%s", mapped)
	}
}

func TestEmit_StringEnum(t *testing.T) {
	status := &ir.CollectedType{
		Kind:         ir.CollectedEnum,
		Name:         "Status",
		IsStringEnum: true,
		Variants: []ir.EnumVariant{
			{Name: "Active", Value: "active"},
			{Name: "PendingReview", Value: "pending-review"},
		},
	}
	text, _ := Emit([]*ir.CollectedType{status}, Options{})
	if !strings.Contains(text, `#[serde(rename = "pending-review")]`) {
		t.Errorf("missing rename attribute:\n%s", text)
	}
	if !strings.Contains(text, "PendingReview,") {
		t.Errorf("missing variant identifier:\n%s", text)
	}
}

// Spec §4.2.5 rule 13 / §9 open question 3: an inline object literal
// reached through an ordinary field (not a union variant) still needs
// to render every nested field, not fall back to Value.
func TestEmit_InlineStructField(t *testing.T) {
	config := &ir.CollectedType{
		Kind: ir.CollectedStruct,
		Name: "Config",
		Fields: []ir.Field{
			{Name: "meta", Type: ir.InlineStruct([]ir.Field{
				{Name: "enabled", Type: ir.Prim(ir.PrimitiveBoolean)},
				{Name: "label", Type: ir.Prim(ir.PrimitiveString)},
			})},
		},
	}

	text, _ := Emit([]*ir.CollectedType{config}, Options{})

	if !strings.Contains(text, "pub meta: ConfigMeta,") {
		t.Errorf("expected field to reference a synthesized struct, not Value:\n%s", text)
	}
	if !strings.Contains(text, "pub struct ConfigMeta {") {
		t.Errorf("expected a synthesized ConfigMeta struct:\n%s", text)
	}
	if !strings.Contains(text, "pub enabled: bool,") || !strings.Contains(text, "pub label: String,") {
		t.Errorf("expected ConfigMeta's own fields to render:\n%s", text)
	}
}

// Two structurally-identical inline objects at two use sites each get
// their own independent synthesized struct — no dedup (§9 open
// question 3).
func TestEmit_InlineStructField_NoDedup(t *testing.T) {
	shape := ir.InlineStruct([]ir.Field{{Name: "x", Type: ir.Prim(ir.PrimitiveNumber)}})
	pair := &ir.CollectedType{
		Kind: ir.CollectedStruct,
		Name: "Pair",
		Fields: []ir.Field{
			{Name: "first", Type: shape},
			{Name: "second", Type: shape},
		},
	}

	text, _ := Emit([]*ir.CollectedType{pair}, Options{})

	if !strings.Contains(text, "pub struct PairFirst {") {
		t.Errorf("expected a PairFirst struct:\n%s", text)
	}
	if !strings.Contains(text, "pub struct PairSecond {") {
		t.Errorf("expected a PairSecond struct:\n%s", text)
	}
}

// A type alias target that is itself an inline object has no literal
// Rust spelling as "pub type X = ...;" — it renders as a struct named
// after the alias directly.
func TestEmit_TypeAliasToInlineStruct(t *testing.T) {
	settings := &ir.CollectedType{
		Kind: ir.CollectedTypeAlias,
		Name: "Settings",
		Aliased: typePtr(ir.InlineStruct([]ir.Field{
			{Name: "verbose", Type: ir.Prim(ir.PrimitiveBoolean)},
		})),
	}

	text, _ := Emit([]*ir.CollectedType{settings}, Options{})

	if strings.Contains(text, "pub type Settings") {
		t.Errorf("alias-to-inline-struct should not render as a type alias:\n%s", text)
	}
	if !strings.Contains(text, "pub struct Settings {") {
		t.Errorf("expected Settings to render as a struct:\n%s", text)
	}
	if !strings.Contains(text, "pub verbose: bool,") {
		t.Errorf("expected Settings's own field to render:\n%s", text)
	}
}

func typePtr(t ir.ResolvedType) *ir.ResolvedType { return &t }
