// Package rustemit renders a collected set of IR types (spec §3) into
// a single Rust source file annotated for serde-based JSON
// serialization (spec §4.3). The indentation buffer is a direct port
// of tsgonest's internal/codegen.Emitter, generalized from emitting
// JavaScript companions to emitting Rust items.
package rustemit

import (
	"fmt"
	"strings"

	"github.com/ts2rs/ts2rs/internal/ir"
	"github.com/ts2rs/ts2rs/internal/rustconfig"
)

// Emitter builds Rust source code with proper indentation.
type Emitter struct {
	buf    strings.Builder
	indent int
}

// NewEmitter creates a new Rust code emitter.
func NewEmitter() *Emitter {
	return &Emitter{}
}

// Line writes a single line of code at the current indentation level.
func (e *Emitter) Line(format string, args ...any) {
	line := fmt.Sprintf(format, args...)
	if line == "" {
		e.buf.WriteByte('\n')
		return
	}
	for i := 0; i < e.indent; i++ {
		e.buf.WriteString("    ")
	}
	e.buf.WriteString(line)
	e.buf.WriteByte('\n')
}

// Raw writes a raw string without indentation or newline.
func (e *Emitter) Raw(s string) {
	e.buf.WriteString(s)
}

// Blank writes an empty line.
func (e *Emitter) Blank() {
	e.buf.WriteByte('\n')
}

// Block opens a block (appends " {" to the line and increases indent).
func (e *Emitter) Block(format string, args ...any) {
	line := fmt.Sprintf(format, args...)
	for i := 0; i < e.indent; i++ {
		e.buf.WriteString("    ")
	}
	e.buf.WriteString(line)
	e.buf.WriteString(" {\n")
	e.indent++
}

// EndBlock closes a block (decreases indent and writes "}").
func (e *Emitter) EndBlock() {
	e.indent--
	for i := 0; i < e.indent; i++ {
		e.buf.WriteString("    ")
	}
	e.buf.WriteString("}\n")
}

// EndBlockSuffix closes a block with a suffix (e.g. ",").
func (e *Emitter) EndBlockSuffix(suffix string) {
	e.indent--
	for i := 0; i < e.indent; i++ {
		e.buf.WriteString("    ")
	}
	e.buf.WriteString("}")
	e.buf.WriteString(suffix)
	e.buf.WriteByte('\n')
}

// Indent increases the indentation level.
func (e *Emitter) Indent() {
	e.indent++
}

// Dedent decreases the indentation level.
func (e *Emitter) Dedent() {
	if e.indent > 0 {
		e.indent--
	}
}

// String returns the accumulated source code.
func (e *Emitter) String() string {
	return e.buf.String()
}

// Len returns the current byte length.
func (e *Emitter) Len() int {
	return e.buf.Len()
}

// Options configures rendering (spec §6.2's emit-time options).
type Options struct {
	CustomTypeMappings    map[string]rustconfig.TypeMapping
	CustomHeader          string
	CustomFooter          string
	CustomTypeAnnotations []string
}

// imports tracks which Rust std/serde_json imports the rendered file
// needs, computed from the set of IR tags actually used (spec §4.3).
type imports struct {
	hashMap   bool
	hashSet   bool
	jsonValue bool
}

// Emit renders collected into a single Rust source file. Warnings
// accumulated while rendering (currently none — all fallibility lives
// in the resolver) are returned for symmetry with the façade's
// {text, emitted_names, warnings} contract.
func Emit(collected []*ir.CollectedType, opts Options) (text string, warnings []string) {
	var imp imports
	for _, ct := range collected {
		scanImports(ct, &imp)
	}

	e := NewEmitter()
	e.Line("// Code generated by ts2rs. DO NOT EDIT.")
	e.Blank()
	if imp.hashMap {
		e.Line("use std::collections::HashMap;")
	}
	if imp.hashSet {
		e.Line("use std::collections::HashSet;")
	}
	if imp.jsonValue {
		e.Line("use serde_json::Value;")
	}
	if imp.hashMap || imp.hashSet || imp.jsonValue {
		e.Blank()
	}
	e.Line("use serde::{Deserialize, Serialize};")
	e.Blank()

	if opts.CustomHeader != "" {
		e.Raw(opts.CustomHeader)
		if !strings.HasSuffix(opts.CustomHeader, "\n") {
			e.Blank()
		}
		e.Blank()
	}

	r := &renderer{opts: opts}
	wroteAny := false
	emitSeparated := func(render func()) {
		if wroteAny {
			e.Blank()
		}
		wroteAny = true
		render()
	}
	for _, ct := range collected {
		emitSeparated(func() { r.renderType(e, ct) })
		// A CollectedType's fields/variants can themselves contain
		// ir.KindInlineStruct values, which renderTypeRef queues onto
		// r.pending instead of rendering inline (Rust has no literal
		// anonymous struct type); flush those here, immediately after
		// the type that referenced them, and keep draining since a
		// flushed struct's own fields may queue further nested ones.
		for len(r.pending) > 0 {
			p := r.pending[0]
			r.pending = r.pending[1:]
			emitSeparated(func() { r.renderPendingInline(e, p) })
		}
	}

	if opts.CustomFooter != "" {
		e.Blank()
		e.Raw(opts.CustomFooter)
		if !strings.HasSuffix(opts.CustomFooter, "\n") {
			e.Blank()
		}
	}

	return e.String(), warnings
}

func scanImports(ct *ir.CollectedType, imp *imports) {
	switch ct.Kind {
	case ir.CollectedStruct:
		for _, f := range ct.Fields {
			scanTypeImports(&f.Type, imp)
		}
	case ir.CollectedUnion:
		for _, v := range ct.UnionVariants {
			if v.Type != nil {
				scanTypeImports(v.Type, imp)
			}
		}
	case ir.CollectedTypeAlias:
		if ct.Aliased != nil {
			scanTypeImports(ct.Aliased, imp)
		}
	}
}

func scanTypeImports(t *ir.ResolvedType, imp *imports) {
	if t == nil {
		return
	}
	switch t.Kind {
	case ir.KindRecord, ir.KindMap:
		imp.hashMap = true
		scanTypeImports(t.Key, imp)
		scanTypeImports(t.Value, imp)
	case ir.KindSet:
		imp.hashSet = true
		scanTypeImports(t.Element, imp)
	case ir.KindJSONValue:
		imp.jsonValue = true
	case ir.KindArray:
		scanTypeImports(t.Element, imp)
	case ir.KindTuple:
		for i := range t.Elements {
			scanTypeImports(&t.Elements[i], imp)
		}
	case ir.KindOption, ir.KindBox:
		scanTypeImports(t.Inner, imp)
	case ir.KindInlineStruct:
		for i := range t.InlineFields {
			scanTypeImports(&t.InlineFields[i].Type, imp)
		}
	}
}
