package rustemit

import "testing"

func TestEmitterBlock(t *testing.T) {
	e := NewEmitter()
	e.Block("pub struct Foo")
	e.Line("pub bar: String,")
	e.EndBlock()
	expected := "pub struct Foo {\n    pub bar: String,\n}\n"
	if got := e.String(); got != expected {
		t.Errorf("got %q, want %q", got, expected)
	}
}

func TestEmitterBlank(t *testing.T) {
	e := NewEmitter()
	e.Line("a")
	e.Blank()
	e.Line("b")
	if got := e.String(); got != "a\n\nb\n" {
		t.Errorf("got %q", got)
	}
}

func TestEmitterEndBlockSuffix(t *testing.T) {
	e := NewEmitter()
	e.Block("Circle")
	e.Line("pub radius: f64,")
	e.EndBlockSuffix(",")
	if got := e.String(); got != "Circle {\n    pub radius: f64,\n},\n" {
		t.Errorf("got %q", got)
	}
}

func TestToSnakeCase(t *testing.T) {
	cases := map[string]string{
		"name":             "name",
		"isActive":         "is_active",
		"nullableOptional": "nullable_optional",
		"userRole":         "user_role",
	}
	for in, want := range cases {
		if got := toSnakeCase(in); got != want {
			t.Errorf("toSnakeCase(%q) = %q, want %q", in, got, want)
		}
	}
}
