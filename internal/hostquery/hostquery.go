// Package hostquery implements the Host Query API (spec §4.1): the
// narrow surface the Resolver depends on to ask a structurally-typed
// surface-language checker about declarations and types. This
// implementation is backed by the real TypeScript checker via
// microsoft/typescript-go's shim packages — the same collaborator
// tsgonest's internal/analyzer drives directly — so the Resolver never
// has to parse TypeScript itself.
package hostquery

import (
	"fmt"
	"strings"

	"github.com/microsoft/typescript-go/shim/ast"
	shimchecker "github.com/microsoft/typescript-go/shim/checker"
	shimcompiler "github.com/microsoft/typescript-go/shim/compiler"
)

// DeclKind classifies a Declaration (spec §4.1).
type DeclKind string

const (
	DeclInterface DeclKind = "interface"
	DeclTypeAlias DeclKind = "type_alias"
	DeclEnum      DeclKind = "enum"
)

// EnumMember is one member of an enum declaration.
type EnumMember struct {
	Name          string
	Value         any // string | float64
	Documentation string
}

// Property is one own property of an interface or object-literal type
// alias, in textual declaration order.
type Property struct {
	Name     string
	Type     *Type
	Optional bool
	// Node is the syntactic property-signature node. The resolver uses
	// it exactly once, for the nullable-named-reference refinement of
	// spec §4.2.5 ("syntactic refinement").
	Node          *ast.Node
	Documentation string
}

// Declaration is a named interface, type alias, or enum, as queried
// from the surface program (spec §4.1).
type Declaration struct {
	Kind           DeclKind
	Name           string
	Documentation  string
	SourcePath     string
	TypeParameters []string

	// Interface-only.
	ExtendsList   []*Type
	OwnProperties []Property

	// Type-alias-only.
	AliasedType     *Type
	AliasedTypeNode *ast.Node

	// Enum-only.
	EnumMembers []EnumMember
}

// Host is the concrete Host Query API implementation for one program.
type Host struct {
	program *shimcompiler.Program
	checker *shimchecker.Checker
	release func()

	// loaded tracks modules already added to the program so repeat
	// LoadModule calls are no-ops, mirroring spec's "adds a module to
	// the project so subsequent queries see it".
	loaded map[string]bool
}

// New wraps an already-built program and its checker behind the Host
// Query API. Callers own the program's lifetime; Release must be
// called once the Host is no longer needed to free the checker.
func New(program *shimcompiler.Program, checker *shimchecker.Checker, release func()) *Host {
	return &Host{program: program, checker: checker, release: release, loaded: make(map[string]bool)}
}

// Release frees the underlying type checker.
func (h *Host) Release() {
	if h.release != nil {
		h.release()
	}
}

// LoadModule adds path to the set of modules the host is aware of.
// Source files reachable from the program's root are already bound;
// this is primarily a cache of "have we already resolved imports
// through this module" for resolve_type's cross-module lookups.
func (h *Host) LoadModule(path string) {
	h.loaded[path] = true
}

// LoadedModules returns every module path touched by FindDeclaration/
// ExportedDeclarations calls made against this Host so far — the
// modules those calls were given plus every imported module a
// declaration search walked into. A caller that wants to know exactly which files a Resolve()
// pass depended on (cmd/ts2rs's watch mode, to re-run on the real
// module graph rather than on every .ts file in a directory) reads
// this right after the pass completes.
func (h *Host) LoadedModules() []string {
	modules := make([]string, 0, len(h.loaded))
	for path := range h.loaded {
		modules = append(modules, path)
	}
	return modules
}

// FindDeclaration searches module, its transitive imports, and
// previously-loaded modules for the first interface/type-alias/enum
// named name (spec §4.1).
func (h *Host) FindDeclaration(module, name string) (*Declaration, error) {
	sf := h.program.GetSourceFile(module)
	if sf == nil {
		return nil, fmt.Errorf("module not found: %s", module)
	}
	h.LoadModule(module)

	if decl := h.findInFile(sf, name); decl != nil {
		return decl, nil
	}

	// Search transitively-imported modules of sf, then every
	// previously-loaded module, mirroring "searches the module, its
	// transitive imports, and previously-loaded modules".
	seen := map[string]bool{sf.FileName(): true}
	if decl := h.searchImports(sf, name, seen); decl != nil {
		return decl, nil
	}
	for path := range h.loaded {
		if seen[path] {
			continue
		}
		other := h.program.GetSourceFile(path)
		if other == nil {
			continue
		}
		seen[path] = true
		if decl := h.findInFile(other, name); decl != nil {
			return decl, nil
		}
	}

	return nil, nil
}

// searchImports walks sf's import declarations, loading and searching
// each imported module's source file for name.
func (h *Host) searchImports(sf *ast.SourceFile, name string, seen map[string]bool) *Declaration {
	for _, stmt := range sf.Statements.Nodes {
		if stmt.Kind != ast.KindImportDeclaration {
			continue
		}
		spec := stmt.AsImportDeclaration().ModuleSpecifier
		if spec == nil || spec.Kind != ast.KindStringLiteral {
			continue
		}
		resolved := h.resolveImportPath(sf.FileName(), spec.AsStringLiteral().Text)
		if resolved == "" || seen[resolved] {
			continue
		}
		seen[resolved] = true
		other := h.program.GetSourceFile(resolved)
		if other == nil {
			continue
		}
		h.LoadModule(resolved)
		if decl := h.findInFile(other, name); decl != nil {
			return decl
		}
		if decl := h.searchImports(other, name, seen); decl != nil {
			return decl
		}
	}
	return nil
}

// resolveImportPath resolves an import specifier — relative or
// tsconfig "paths"-aliased — against the program's own module
// resolution cache. Since tsprogram.Open builds the Program from the
// project's parsed tsconfig (paths included), GetResolvedModule
// already applies alias mapping; there is no separate alias-resolution
// step to perform here.
func (h *Host) resolveImportPath(fromFile, specifier string) string {
	resolved := h.program.GetResolvedModule(fromFile, specifier)
	if resolved == nil {
		return ""
	}
	return resolved.ResolvedFileName
}

func (h *Host) findInFile(sf *ast.SourceFile, name string) *Declaration {
	for _, stmt := range sf.Statements.Nodes {
		switch stmt.Kind {
		case ast.KindInterfaceDeclaration:
			decl := stmt.AsInterfaceDeclaration()
			if decl.Name().Text() == name {
				return h.declFromInterface(stmt, decl, sf.FileName())
			}
		case ast.KindTypeAliasDeclaration:
			decl := stmt.AsTypeAliasDeclaration()
			if decl.Name().Text() == name {
				return h.declFromTypeAlias(stmt, decl, sf.FileName())
			}
		case ast.KindEnumDeclaration:
			decl := stmt.AsEnumDeclaration()
			if decl.Name().Text() == name {
				return h.declFromEnum(stmt, decl, sf.FileName())
			}
		}
	}
	return nil
}

// ExportedDeclarations returns every exported interface, type alias,
// and enum declared directly in module, used by resolve() when
// options.type_names is empty (spec §4.2.1).
func (h *Host) ExportedDeclarations(module string) ([]*Declaration, error) {
	sf := h.program.GetSourceFile(module)
	if sf == nil {
		return nil, fmt.Errorf("module not found: %s", module)
	}
	h.LoadModule(module)

	var out []*Declaration
	for _, stmt := range sf.Statements.Nodes {
		if !hasExportModifier(stmt) {
			continue
		}
		switch stmt.Kind {
		case ast.KindInterfaceDeclaration:
			decl := stmt.AsInterfaceDeclaration()
			out = append(out, h.declFromInterface(stmt, decl, sf.FileName()))
		case ast.KindTypeAliasDeclaration:
			decl := stmt.AsTypeAliasDeclaration()
			out = append(out, h.declFromTypeAlias(stmt, decl, sf.FileName()))
		case ast.KindEnumDeclaration:
			decl := stmt.AsEnumDeclaration()
			out = append(out, h.declFromEnum(stmt, decl, sf.FileName()))
		}
	}
	return out, nil
}

func hasExportModifier(node *ast.Node) bool {
	mods := node.Modifiers()
	if mods == nil {
		return false
	}
	for _, m := range mods.Nodes {
		if m.Kind == ast.KindExportKeyword {
			return true
		}
	}
	return false
}

func (h *Host) declFromInterface(node *ast.Node, decl *ast.InterfaceDeclaration, sourcePath string) *Declaration {
	d := &Declaration{
		Kind:          DeclInterface,
		Name:          decl.Name().Text(),
		Documentation: leadingDoc(node),
		SourcePath:    sourcePath,
	}
	if decl.TypeParameters != nil {
		for _, tp := range decl.TypeParameters.Nodes {
			d.TypeParameters = append(d.TypeParameters, tp.Name().Text())
		}
	}
	if decl.HeritageClauses != nil {
		for _, clause := range decl.HeritageClauses.Nodes {
			hc := clause.AsHeritageClause()
			if hc.Token != ast.KindExtendsKeyword {
				continue
			}
			for _, expr := range hc.Types.Nodes {
				t := shimchecker.Checker_getTypeFromTypeNode(h.checker, expr)
				d.ExtendsList = append(d.ExtendsList, h.wrapType(t))
			}
		}
	}
	if decl.Members != nil {
		for _, member := range decl.Members.Nodes {
			if member.Kind != ast.KindPropertySignature {
				continue
			}
			d.OwnProperties = append(d.OwnProperties, h.propertyFromSignature(member))
		}
	}
	return d
}

func (h *Host) propertyFromSignature(node *ast.Node) Property {
	sig := node.AsPropertySignatureDeclaration()
	name := sig.Name().Text()
	optional := sig.QuestionToken != nil
	var t *Type
	if sig.Type != nil {
		rt := shimchecker.Checker_getTypeFromTypeNode(h.checker, sig.Type)
		t = h.wrapType(rt)
	} else {
		sym := h.checker.GetSymbolAtLocation(sig.Name())
		if sym != nil {
			rt := shimchecker.Checker_getTypeOfSymbol(h.checker, sym)
			t = h.wrapType(rt)
		}
	}
	return Property{
		Name:          name,
		Type:          t,
		Optional:      optional,
		Node:          node,
		Documentation: leadingDoc(node),
	}
}

func (h *Host) declFromTypeAlias(node *ast.Node, decl *ast.TypeAliasDeclaration, sourcePath string) *Declaration {
	d := &Declaration{
		Kind:          DeclTypeAlias,
		Name:          decl.Name().Text(),
		Documentation: leadingDoc(node),
		SourcePath:    sourcePath,
	}
	if decl.TypeParameters != nil {
		for _, tp := range decl.TypeParameters.Nodes {
			d.TypeParameters = append(d.TypeParameters, tp.Name().Text())
		}
	}
	rt := shimchecker.Checker_getTypeFromTypeNode(h.checker, decl.Type)
	d.AliasedType = h.wrapType(rt)
	d.AliasedTypeNode = decl.Type
	return d
}

func (h *Host) declFromEnum(node *ast.Node, decl *ast.EnumDeclaration, sourcePath string) *Declaration {
	d := &Declaration{
		Kind:          DeclEnum,
		Name:          decl.Name().Text(),
		Documentation: leadingDoc(node),
		SourcePath:    sourcePath,
	}
	if decl.Members != nil {
		for _, member := range decl.Members.Nodes {
			em := member.AsEnumMember()
			name := em.Name().Text()
			var value any
			sym := h.checker.GetSymbolAtLocation(em.Name())
			if sym != nil {
				t := shimchecker.Checker_getTypeOfSymbol(h.checker, sym)
				value = literalValueOf(t)
			}
			d.EnumMembers = append(d.EnumMembers, EnumMember{
				Name:          name,
				Value:         value,
				Documentation: leadingDoc(member),
			})
		}
	}
	return d
}

// leadingDoc extracts the JSDoc comment body text immediately above a
// declaration, or "" if none. Tag parsing is intentionally not done
// here — spec's IR only carries free-text documentation, not
// validation or OpenAPI annotations (those are this tool's Non-goals).
func leadingDoc(node *ast.Node) string {
	jsdocs := node.JSDoc(nil)
	if len(jsdocs) == 0 {
		return ""
	}
	jsdoc := jsdocs[len(jsdocs)-1].AsJSDoc()
	if jsdoc.Comment == nil {
		return ""
	}
	var sb strings.Builder
	for _, c := range jsdoc.Comment.Nodes {
		switch c.Kind {
		case ast.KindJSDocText, ast.KindJSDocLink, ast.KindJSDocLinkCode, ast.KindJSDocLinkPlain:
			sb.WriteString(c.Text())
		}
	}
	return strings.TrimSpace(sb.String())
}

func literalValueOf(t *shimchecker.Type) any {
	flags := t.Flags()
	lit := t.AsLiteralType()
	if lit == nil {
		return nil
	}
	switch {
	case flags&shimchecker.TypeFlagsStringLiteral != 0:
		if s, ok := lit.Value().(string); ok {
			return s
		}
	case flags&shimchecker.TypeFlagsNumberLiteral != 0:
		return toFloat64(lit.Value())
	}
	return nil
}

func toFloat64(v any) float64 {
	switch n := v.(type) {
	case float64:
		return n
	case int:
		return float64(n)
	default:
		var f float64
		fmt.Sscanf(fmt.Sprintf("%v", v), "%g", &f)
		return f
	}
}
