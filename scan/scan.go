// Package scan finds static-string macro calls in Go sources and parses
// their arguments.
package scan

import (
	"context"
	"fmt"
	"go/ast"
	"go/parser"
	"go/token"
	"os"
	"path/filepath"
	"runtime"

	"github.com/tliron/commonlog"
	"golang.org/x/sync/errgroup"
	"golang.org/x/tools/go/ast/inspector"
	"golang.org/x/tools/go/packages"

	"github.com/chazu/anchor/invocation"
)

// log is looked up per call so a backend registered after this package is
// initialized still takes effect.
func log() commonlog.Logger { return commonlog.GetLogger("anchor.scan") }

// DefaultMacros are the callees recognized when none are configured.
var DefaultMacros = []string{"anchor.Shutdown"}

// Site is one macro call. Exactly one of Invocation and Err is set.
type Site struct {
	Macro string
	// Pos is the position of the call expression.
	Pos        token.Position
	Invocation *invocation.Invocation
	Err        error
}

// Package groups the sites found in one Go package.
type Package struct {
	Name    string
	PkgPath string
	Dir     string
	Sites   []Site
}

// Failed returns the sites whose arguments did not parse.
func (p *Package) Failed() []Site {
	var out []Site
	for _, s := range p.Sites {
		if s.Err != nil {
			out = append(out, s)
		}
	}
	return out
}

// Scanner locates calls to a fixed set of macros. A macro is named as it
// appears at the call site: "pkg.Func" for a qualified call, "Func" for a
// bare one.
type Scanner struct {
	Macros  []string
	Printer invocation.Printer
	// Workers bounds concurrent argument parsing; zero means GOMAXPROCS.
	Workers int
}

// New returns a Scanner for macros, or DefaultMacros if none are given.
func New(macros ...string) *Scanner {
	if len(macros) == 0 {
		macros = DefaultMacros
	}
	return &Scanner{Macros: macros}
}

// call is a matched call expression awaiting argument parsing.
type call struct {
	macro string
	pos   token.Position
	base  token.Position
	args  []byte
}

// Load loads the packages matching patterns, relative to dir, and scans
// every file in them.
func (s *Scanner) Load(ctx context.Context, dir string, patterns ...string) ([]*Package, error) {
	cfg := &packages.Config{
		Context: ctx,
		Dir:     dir,
		Mode:    packages.NeedName | packages.NeedFiles | packages.NeedSyntax,
	}

	pkgs, err := packages.Load(cfg, patterns...)
	if err != nil {
		return nil, fmt.Errorf("loading %v: %w", patterns, err)
	}
	if len(pkgs) == 0 {
		return nil, fmt.Errorf("no packages found for %v", patterns)
	}

	var out []*Package
	for _, pkg := range pkgs {
		if len(pkg.Errors) > 0 {
			return nil, fmt.Errorf("package %s: %v", pkg.PkgPath, pkg.Errors)
		}

		sources := make(map[string][]byte, len(pkg.Syntax))
		for _, f := range pkg.Syntax {
			name := pkg.Fset.File(f.Pos()).Name()
			data, err := os.ReadFile(name)
			if err != nil {
				return nil, fmt.Errorf("reading %s: %w", name, err)
			}
			sources[name] = data
		}

		sites, err := s.scanFiles(ctx, pkg.Fset, pkg.Syntax, sources)
		if err != nil {
			return nil, err
		}

		p := &Package{Name: pkg.Name, PkgPath: pkg.PkgPath, Sites: sites}
		if len(pkg.GoFiles) > 0 {
			p.Dir = filepath.Dir(pkg.GoFiles[0])
		}
		log().Debugf("%s: %d invocation(s)", pkg.PkgPath, len(sites))
		out = append(out, p)
	}
	return out, nil
}

// ScanFile parses one Go source file and scans it.
func (s *Scanner) ScanFile(ctx context.Context, fset *token.FileSet, filename string, src []byte) ([]Site, error) {
	f, err := parser.ParseFile(fset, filename, src, parser.SkipObjectResolution)
	if err != nil {
		return nil, fmt.Errorf("parsing %s: %w", filename, err)
	}
	return s.scanFiles(ctx, fset, []*ast.File{f}, map[string][]byte{filename: src})
}

func (s *Scanner) scanFiles(ctx context.Context, fset *token.FileSet, files []*ast.File, sources map[string][]byte) ([]Site, error) {
	want := make(map[string]bool, len(s.Macros))
	for _, m := range s.Macros {
		want[m] = true
	}

	var calls []call
	insp := inspector.New(files)
	insp.Preorder([]ast.Node{(*ast.CallExpr)(nil)}, func(n ast.Node) {
		ce := n.(*ast.CallExpr)
		name := calleeName(ce.Fun)
		if name == "" || !want[name] || !ce.Rparen.IsValid() {
			return
		}
		// Source lookup and offsets ignore //line directives; positions
		// reported to the user honour them.
		file := fset.File(ce.Lparen)
		src, ok := sources[file.Name()]
		if !ok {
			return
		}
		calls = append(calls, call{
			macro: name,
			pos:   fset.Position(ce.Pos()),
			base:  fset.Position(ce.Lparen + 1),
			args:  src[file.Offset(ce.Lparen)+1 : file.Offset(argsEnd(ce))],
		})
	})

	return s.parseAll(ctx, calls)
}

// argsEnd returns where the argument source of ce ends: after the last
// argument, so the trailing comma of a call whose closing paren sits on its
// own line is not part of the clock expression.
func argsEnd(ce *ast.CallExpr) token.Pos {
	if len(ce.Args) == 0 || ce.Ellipsis.IsValid() {
		return ce.Rparen
	}
	return ce.Args[len(ce.Args)-1].End()
}

// parseAll parses every call's arguments independently. A syntax error is
// recorded on its own Site; only cancellation fails the whole scan.
func (s *Scanner) parseAll(ctx context.Context, calls []call) ([]Site, error) {
	sites := make([]Site, len(calls))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(s.workers())
	for i, c := range calls {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			inv, err := invocation.Parse(c.base, c.args, s.Printer)
			sites[i] = Site{Macro: c.macro, Pos: c.pos, Invocation: inv, Err: err}
			if err != nil {
				log().Debugf("%v", err)
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return sites, nil
}

func (s *Scanner) workers() int {
	if s.Workers > 0 {
		return s.Workers
	}
	return runtime.GOMAXPROCS(0)
}

// calleeName renders fun as "x.Sel" or "Name"; other callees give "".
func calleeName(fun ast.Expr) string {
	switch f := fun.(type) {
	case *ast.Ident:
		return f.Name
	case *ast.SelectorExpr:
		if x, ok := f.X.(*ast.Ident); ok {
			return x.Name + "." + f.Sel.Name
		}
	case *ast.ParenExpr:
		return calleeName(f.X)
	}
	return ""
}
