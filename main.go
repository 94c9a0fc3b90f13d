package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/gofrs/flock"
	"github.com/tilelang/tilec/ast"
	"github.com/tilelang/tilec/codegen"
	"github.com/tilelang/tilec/ir"
	"tlog.app/go/tlog"
)

var IR_SUFFIX = ".tir"

// defaultTCCache returns the IR output directory: TCCACHE if set,
// otherwise a tilec subdirectory of the user cache.
func defaultTCCache() string {
	if env := os.Getenv("TCCACHE"); env != "" {
		return env
	}
	dir, err := os.UserCacheDir()
	if err != nil {
		return filepath.Join(os.TempDir(), "tilec")
	}
	return filepath.Join(dir, "tilec")
}

// writeIR dumps the module text under the cache directory. A file lock
// serializes concurrent drivers writing the same unit.
func writeIR(cacheDir, unit string, mod *ir.Module) (string, error) {
	if err := os.MkdirAll(cacheDir, 0755); err != nil {
		return "", fmt.Errorf("create cache dir: %w", err)
	}

	lock := flock.New(filepath.Join(cacheDir, ".lock"))
	if err := lock.Lock(); err != nil {
		return "", fmt.Errorf("acquire cache lock: %w", err)
	}
	defer lock.Unlock()

	outPath := filepath.Join(cacheDir, unit+IR_SUFFIX)
	if err := os.WriteFile(outPath, []byte(mod.String()), 0644); err != nil {
		return "", fmt.Errorf("write IR to %s: %w", outPath, err)
	}
	return outPath, nil
}

// demoUnit builds a small translation unit by hand: a scalar saxpy, a
// tile scale kernel and an elementwise relu. The front end that will
// produce these trees from source lives elsewhere; until it lands this
// exercises the full lowering path.
func demoUnit() *ast.TranslationUnit {
	f32 := &ast.ArithmType{Kind: ast.Float}
	tile := &ast.TileType{Elem: f32, Shape: []int64{16, 16}}

	obj := func(name string, t ast.Type, attrs ...ast.Attr) *ast.Object {
		return &ast.Object{Name: name, Typ: t, Attrs: attrs}
	}
	id := func(name string) *ast.Identifier { return &ast.Identifier{Name: name} }

	// float saxpy(float a, float x, float y) { return a * x + y; }
	saxpy := &ast.FuncDef{
		Name: "saxpy",
		Typ:  &ast.FuncType{Ret: f32, Params: []ast.Type{f32, f32, f32}},
		Params: []*ast.Object{
			obj("a", f32), obj("x", f32), obj("y", f32),
		},
		Body: &ast.CompoundStmt{Stmts: []ast.Statement{
			&ast.ReturnStmt{Expr: &ast.BinaryOp{
				Op: ast.Add,
				Lhs: &ast.BinaryOp{
					Op: ast.Mul, Lhs: id("a"), Rhs: id("x"),
				},
				Rhs: id("y"),
			}},
		}},
	}

	// float<16,16> scale(float<16,16> t, float s) { return t * s; }
	scale := &ast.FuncDef{
		Name: "scale",
		Typ:  &ast.FuncType{Ret: tile, Params: []ast.Type{tile, f32}},
		Params: []*ast.Object{
			obj("t", tile, ast.Attr{Kind: ast.MultipleOf, Arg: 16}),
			obj("s", f32),
		},
		Body: &ast.CompoundStmt{Stmts: []ast.Statement{
			&ast.ReturnStmt{Expr: &ast.BinaryOp{
				Op: ast.Mul, Lhs: id("t"), Rhs: id("s"),
			}},
		}},
	}

	// float<16,16> relu(float<16,16> t) { return t > 0 ? t : 0; }
	relu := &ast.FuncDef{
		Name:   "relu",
		Typ:    &ast.FuncType{Ret: tile, Params: []ast.Type{tile}},
		Params: []*ast.Object{obj("t", tile)},
		Body: &ast.CompoundStmt{Stmts: []ast.Statement{
			&ast.ReturnStmt{Expr: &ast.ConditionalOp{
				Cond: &ast.BinaryOp{
					Op: ast.Gt, Lhs: id("t"),
					Rhs: &ast.Constant{IsFloat: true, F: 0, Width: 32},
				},
				Then: id("t"),
				Else: &ast.Constant{IsFloat: true, F: 0, Width: 32},
			}},
		}},
	}

	return &ast.TranslationUnit{Decls: []ast.Node{saxpy, scale, relu}}
}

func main() {
	unit := "demo"
	if len(os.Args) > 1 {
		unit = os.Args[1]
	}

	cacheDir := defaultTCCache()
	tlog.Printw("lowering", "unit", unit, "cache", cacheDir)

	gen := codegen.NewGenerator(ir.NewContext(), unit)
	mod, err := gen.Gen(demoUnit())
	if err != nil {
		fmt.Printf("Error lowering %s: %v\n", unit, err)
		os.Exit(1)
	}

	outPath, err := writeIR(cacheDir, unit, mod)
	if err != nil {
		fmt.Printf("Error writing %s: %v\n", unit, err)
		os.Exit(1)
	}
	fmt.Printf("Wrote IR for %s to %s\n", unit, outPath)
	fmt.Print(mod.String())
}
