package resolver_test

import (
	"testing"

	"github.com/ts2rs/ts2rs/internal/ir"
	"github.com/ts2rs/ts2rs/internal/resolver"
	"github.com/ts2rs/ts2rs/internal/testts"
)

func collect(t *testing.T, source string, typeNames ...string) (map[string]*ir.CollectedType, []string) {
	t.Helper()
	env := testts.New(t, map[string]string{"index.ts": source})
	defer env.Host.Release()

	r := resolver.New(env.Host, resolver.Options{TypeNames: typeNames})
	types, err := r.Resolve("index.ts")
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	out := make(map[string]*ir.CollectedType, len(types))
	for _, ct := range types {
		out[ct.Name] = ct
	}
	return out, r.Warnings()
}

func field(t *testing.T, fields []ir.Field, name string) ir.Field {
	t.Helper()
	for _, f := range fields {
		if f.Name == name {
			return f
		}
	}
	t.Fatalf("field %q not found", name)
	return ir.Field{}
}

// Spec §8.4 scenario 1.
func TestResolve_Primitives(t *testing.T) {
	collected, warnings := collect(t, `
		export interface BasicTypes {
			name: string;
			age: number;
			isActive: boolean;
			data: any;
			metadata: unknown;
		}
	`)
	ct, ok := collected["BasicTypes"]
	if !ok {
		t.Fatal("BasicTypes not collected")
	}
	if len(ct.Fields) != 5 {
		t.Fatalf("got %d fields, want 5", len(ct.Fields))
	}
	if got := field(t, ct.Fields, "data").Type.Kind; got != ir.KindJSONValue {
		t.Errorf("data kind = %v, want json_value", got)
	}
	if got := field(t, ct.Fields, "metadata").Type.Kind; got != ir.KindJSONValue {
		t.Errorf("metadata kind = %v, want json_value", got)
	}
	if len(warnings) != 0 {
		t.Errorf("unexpected warnings: %v", warnings)
	}
}

// Spec §8.4 scenario 2.
func TestResolve_OptionalAndNullable(t *testing.T) {
	collected, _ := collect(t, `
		export interface OptionalFields {
			required: string;
			optional?: string;
			nullableRequired: string | null;
			nullableOptional?: string | null;
		}
	`)
	ct := collected["OptionalFields"]
	if got := field(t, ct.Fields, "required").Type.Kind; got != ir.KindPrimitive {
		t.Errorf("required kind = %v, want primitive", got)
	}
	for _, name := range []string{"optional", "nullableRequired", "nullableOptional"} {
		f := field(t, ct.Fields, name)
		if f.Type.Kind != ir.KindOption {
			t.Errorf("%s kind = %v, want option", name, f.Type.Kind)
		}
		if f.Type.Inner.Kind != ir.KindPrimitive || f.Type.Inner.Primitive != ir.PrimitiveString {
			t.Errorf("%s inner = %+v, want primitive(string)", name, f.Type.Inner)
		}
	}
}

// Spec §8.4 scenario 3.
func TestResolve_DiscriminatedUnion(t *testing.T) {
	collected, _ := collect(t, `
		export type Shape =
			| { kind: "circle"; radius: number }
			| { kind: "rectangle"; width: number; height: number }
			| { kind: "point" };
	`)
	ct, ok := collected["Shape"]
	if !ok {
		t.Fatal("Shape not collected")
	}
	if ct.Kind != ir.CollectedUnion {
		t.Fatalf("Shape kind = %v, want union", ct.Kind)
	}
	if ct.Discriminator != "kind" {
		t.Fatalf("discriminator = %q, want kind", ct.Discriminator)
	}
	byName := map[string]ir.UnionVariant{}
	for _, v := range ct.UnionVariants {
		byName[v.Name] = v
	}
	circle, ok := byName["Circle"]
	if !ok || circle.Type == nil || circle.Type.Kind != ir.KindInlineStruct {
		t.Fatalf("Circle variant = %+v", circle)
	}
	if len(circle.Type.InlineFields) != 1 || circle.Type.InlineFields[0].Name != "radius" {
		t.Fatalf("Circle fields = %+v, want just radius (kind omitted, string tag)", circle.Type.InlineFields)
	}
	point, ok := byName["Point"]
	if !ok || point.Type != nil {
		t.Fatalf("Point variant = %+v, want a unit variant", point)
	}
}

// Spec §8.4 scenario 4.
func TestResolve_Recursion(t *testing.T) {
	collected, _ := collect(t, `
		export interface Node {
			value: string;
			child: Node | null;
			metadata?: Record<string, any>;
		}
	`)
	ct := collected["Node"]
	child := field(t, ct.Fields, "child")
	if child.Type.Kind != ir.KindOption {
		t.Fatalf("child kind = %v, want option", child.Type.Kind)
	}
	if child.Type.Inner.Kind != ir.KindBox {
		t.Fatalf("child inner kind = %v, want box", child.Type.Inner.Kind)
	}
	if child.Type.Inner.Inner.Kind != ir.KindStructRef || child.Type.Inner.Inner.Name != "Node" {
		t.Fatalf("child inner-inner = %+v, want struct_ref(Node)", child.Type.Inner.Inner)
	}

	metadata := field(t, ct.Fields, "metadata")
	if metadata.Type.Kind != ir.KindOption || metadata.Type.Inner.Kind != ir.KindRecord {
		t.Fatalf("metadata = %+v, want option(record(...))", metadata.Type)
	}
}

// Spec §8.4 scenario 6.
func TestResolve_UnresolvableNamedUnion(t *testing.T) {
	collected, warnings := collect(t, `
		export type MixedType = string | number | bigint | symbol;
		export interface UsesMixed {
			value: MixedType;
		}
	`)
	if _, ok := collected["MixedType"]; ok {
		t.Fatal("MixedType should not be collected")
	}
	ct := collected["UsesMixed"]
	if got := field(t, ct.Fields, "value").Type.Kind; got != ir.KindJSONValue {
		t.Errorf("value kind = %v, want json_value", got)
	}
	if len(warnings) == 0 {
		t.Error("expected a warning naming the unresolvable alias")
	}
}

func TestResolve_StringEnumFromLiteralUnion(t *testing.T) {
	collected, _ := collect(t, `
		export type Status = "active" | "inactive" | "pending-review";
	`)
	ct, ok := collected["Status"]
	if !ok {
		t.Fatal("Status not collected")
	}
	if ct.Kind != ir.CollectedEnum || !ct.IsStringEnum {
		t.Fatalf("Status = %+v, want a string enum", ct)
	}
	names := map[string]bool{}
	for _, v := range ct.Variants {
		names[v.Name] = true
	}
	if !names["Active"] || !names["Inactive"] || !names["PendingReview"] {
		t.Fatalf("variants = %+v, want Active/Inactive/PendingReview", ct.Variants)
	}
}

func TestResolve_TypeNamesLimitsRoots(t *testing.T) {
	collected, _ := collect(t, `
		export interface A { x: string }
		export interface B { y: string }
	`, "A")
	if _, ok := collected["A"]; !ok {
		t.Fatal("A should be collected")
	}
	if _, ok := collected["B"]; ok {
		t.Fatal("B should not be collected when type_names=[A]")
	}
}
