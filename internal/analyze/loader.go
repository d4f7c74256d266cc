package analyze

import (
	"context"
	"fmt"
	"go/types"
	"reflect"

	"golang.org/x/tools/go/packages"

	"fixed-format/schema"
)

// LoadMode specifies what information to load from packages.
const LoadMode = packages.NeedName |
	packages.NeedTypes |
	packages.NeedTypesInfo |
	packages.NeedImports

// Analyzer loads Go packages and builds a type graph.
type Analyzer struct {
	dir   string
	graph *TypeGraph
}

// NewAnalyzer creates a new Analyzer. Package patterns are resolved relative
// to dir; an empty dir means the current directory.
func NewAnalyzer(dir string) *Analyzer {
	return &Analyzer{
		dir:   dir,
		graph: NewTypeGraph(),
	}
}

// LoadPackages loads the specified packages and adds their exported named
// types to the graph. Patterns are standard Go package patterns
// (e.g., "./model", "fixed-format/internal/analyze/testdata/bank").
func (a *Analyzer) LoadPackages(ctx context.Context, patterns ...string) (*TypeGraph, error) {
	cfg := &packages.Config{
		Context: ctx,
		Dir:     a.dir,
		Mode:    LoadMode,
	}

	pkgs, err := packages.Load(cfg, patterns...)
	if err != nil {
		return nil, fmt.Errorf("failed to load packages: %w", err)
	}

	var errs []error
	for _, pkg := range pkgs {
		for _, e := range pkg.Errors {
			errs = append(errs, e)
		}
	}

	if len(errs) > 0 {
		return nil, fmt.Errorf("package errors: %v", errs)
	}

	for _, pkg := range pkgs {
		a.graph.Packages[pkg.PkgPath] = &PackageInfo{Path: pkg.PkgPath, Name: pkg.Name}
	}

	for _, pkg := range pkgs {
		a.processPackage(pkg)
	}

	return a.graph, nil
}

// Graph returns the current type graph.
func (a *Analyzer) Graph() *TypeGraph {
	return a.graph
}

func (a *Analyzer) processPackage(pkg *packages.Package) {
	pkgInfo := a.graph.Packages[pkg.PkgPath]

	scope := pkg.Types.Scope()
	for _, name := range scope.Names() {
		typeName, ok := scope.Lookup(name).(*types.TypeName)
		if !ok || !typeName.Exported() || typeName.IsAlias() {
			continue
		}

		id := TypeID{PkgPath: pkg.PkgPath, Name: name}
		info := &TypeInfo{ID: id, GoType: typeName.Type()}

		switch ut := typeName.Type().Underlying().(type) {
		case *types.Struct:
			info.Kind = TypeKindStruct
			info.Fields = a.structFields(ut, 0)
			info.HasPattern = hasPatternMethod(typeName.Type())
		case *types.Interface:
			info.Kind = TypeKindInterface
		default:
			info.Kind = TypeKindOther
		}

		a.graph.Types[id] = info
		pkgInfo.Types = append(pkgInfo.Types, id)
	}
}

// maxEmbedding bounds the promotion of fields through embedded structs.
const maxEmbedding = 8

// structFields lists the visible fields of st. Fields of embedded structs
// without a name of their own are promoted; a field declared closer to st
// hides a promoted field with the same logical name.
func (a *Analyzer) structFields(st *types.Struct, depth int) []FieldInfo {
	var (
		own      []FieldInfo
		promoted []FieldInfo
	)

	for i := range st.NumFields() {
		field := st.Field(i)
		raw := reflect.StructTag(st.Tag(i)).Get(schema.TagKey)

		tag, tagErr := schema.ParseTag(raw)
		if tag.Skip {
			continue
		}

		if field.Embedded() && tag.Name == "" && !tag.Container {
			if est, ok := derefStruct(field.Type()); ok && depth < maxEmbedding {
				for _, pf := range a.structFields(est, depth+1) {
					pf.Promoted = true
					promoted = append(promoted, pf)
				}

				continue
			}
		}

		if !field.Exported() {
			continue
		}

		fi := FieldInfo{
			GoName: field.Name(),
			Name:   tag.Name,
			Type:   TypeString(field.Type()),
			Tag:    tag,
			TagErr: tagErr,
		}

		if fi.Name == "" {
			fi.Name = schema.LogicalName(field.Name())
		}

		if tag.Container {
			fi.Elem, fi.Collection = containerElem(field.Type())
		}

		own = append(own, fi)
	}

	seen := make(map[string]struct{}, len(own))
	for _, f := range own {
		seen[f.Name] = struct{}{}
	}

	for _, f := range promoted {
		if _, hidden := seen[f.Name]; hidden {
			continue
		}

		seen[f.Name] = struct{}{}
		own = append(own, f)
	}

	return own
}

func derefStruct(t types.Type) (*types.Struct, bool) {
	if p, ok := t.(*types.Pointer); ok {
		t = p.Elem()
	}

	st, ok := t.Underlying().(*types.Struct)

	return st, ok
}

// containerElem strips pointers, slices, arrays and maps from t and returns
// the named type found underneath.
func containerElem(t types.Type) (TypeID, bool) {
	collection := false

	for {
		switch tt := t.(type) {
		case *types.Pointer:
			t = tt.Elem()
			continue
		case *types.Slice:
			t, collection = tt.Elem(), true
			continue
		case *types.Array:
			t, collection = tt.Elem(), true
			continue
		case *types.Map:
			t, collection = tt.Elem(), true
			continue
		case *types.Named:
			obj := tt.Obj()
			if obj.Pkg() == nil {
				return TypeID{}, collection
			}

			return TypeID{PkgPath: obj.Pkg().Path(), Name: obj.Name()}, collection
		}

		return TypeID{}, collection
	}
}

func hasPatternMethod(t types.Type) bool {
	obj, _, _ := types.LookupFieldOrMethod(t, true, nil, "FixedPattern")
	fn, ok := obj.(*types.Func)

	return ok && fn.Exported()
}

// GetStruct returns the TypeInfo for a named struct.
func (a *Analyzer) GetStruct(pkgPath, typeName string) (*TypeInfo, error) {
	id := TypeID{PkgPath: pkgPath, Name: typeName}

	info := a.graph.GetType(id)
	if info == nil {
		return nil, fmt.Errorf("type %s not found", id)
	}

	if info.Kind != TypeKindStruct {
		return nil, fmt.Errorf("type %s is not a struct (kind: %s)", id, info.Kind)
	}

	return info, nil
}
