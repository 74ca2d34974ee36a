package scan

import (
	"context"
	"errors"
	"go/ast"
	"go/parser"
	"go/token"
	"testing"

	"github.com/chazu/anchor/invocation"
)

const firmwareSrc = `package stepper

import "github.com/chazu/anchor"

func check(status Status, clock Clock) {
	if clock.Overdue() {
		anchor.Shutdown("Timer too close", clock.Now())
	}
	anchor.Shutdown(status, clock.Now())
	anchor.Shutdown("Timer too close", clock.Now())
	anchor.Shutdown("no clock")
	Shutdown("bare", clock)
	other.Shutdown("ignored", clock)
}
`

func TestScanFile(t *testing.T) {
	s := New()
	fset := token.NewFileSet()
	sites, err := s.ScanFile(context.Background(), fset, "stepper.go", []byte(firmwareSrc))
	if err != nil {
		t.Fatalf("scan: %v", err)
	}
	if len(sites) != 4 {
		t.Fatalf("got %d sites, want 4", len(sites))
	}

	first := sites[0]
	if first.Err != nil {
		t.Fatalf("site 0: %v", first.Err)
	}
	if first.Pos.Line != 7 || first.Pos.Column != 3 {
		t.Errorf("site 0 position = %d:%d, want 7:3", first.Pos.Line, first.Pos.Column)
	}
	if !first.Invocation.Message.IsLiteral() || first.Invocation.Message.Text() != "Timer too close" {
		t.Errorf("site 0 message = %v", first.Invocation)
	}
	if first.Invocation.ClockSource != "clock.Now()" {
		t.Errorf("site 0 clock = %q", first.Invocation.ClockSource)
	}

	second := sites[1]
	if second.Err != nil || !second.Invocation.Message.IsExpression() {
		t.Fatalf("site 1 = %+v", second)
	}
	if second.Invocation.Message.Source() != "status" {
		t.Errorf("site 1 source = %q", second.Invocation.Message.Source())
	}

	// A malformed call is recorded without disturbing its neighbours.
	bad := sites[3]
	var serr *invocation.SyntaxError
	if !errors.As(bad.Err, &serr) {
		t.Fatalf("site 3: expected *SyntaxError, got %v", bad.Err)
	}
	if serr.Pos.Filename != "stepper.go" || serr.Pos.Line != 11 {
		t.Errorf("site 3 error position = %v", serr.Pos)
	}
	if bad.Invocation != nil {
		t.Error("site 3 should have no invocation")
	}
}

func TestScanFileBareMacro(t *testing.T) {
	s := New("Shutdown")
	sites, err := s.ScanFile(context.Background(), token.NewFileSet(), "stepper.go", []byte(firmwareSrc))
	if err != nil {
		t.Fatalf("scan: %v", err)
	}
	if len(sites) != 1 {
		t.Fatalf("got %d sites, want 1", len(sites))
	}
	if sites[0].Macro != "Shutdown" || sites[0].Invocation.Message.Text() != "bare" {
		t.Errorf("site = %+v", sites[0])
	}
}

func TestScanFileMultiline(t *testing.T) {
	src := `package fw

func f() {
	anchor.Shutdown(
		"Timer too close",
		clk,
	)
	anchor.Shutdown(
		status.Reason(
			1,
		),
		clock.Now(), // deadline
	)
}
`
	sites, err := New().ScanFile(context.Background(), token.NewFileSet(), "fw.go", []byte(src))
	if err != nil {
		t.Fatalf("scan: %v", err)
	}
	if len(sites) != 2 {
		t.Fatalf("got %d sites, want 2", len(sites))
	}
	tests := []struct {
		source string
		clock  string
	}{
		{"Timer too close", "clk"},
		{"status.Reason(1)", "clock.Now()"},
	}
	for i, tt := range tests {
		site := sites[i]
		if site.Err != nil {
			t.Fatalf("site %d: %v", i, site.Err)
		}
		if got := site.Invocation.Message.Source(); got != tt.source {
			t.Errorf("site %d source = %q, want %q", i, got, tt.source)
		}
		if got := site.Invocation.ClockSource; got != tt.clock {
			t.Errorf("site %d clock = %q, want %q", i, got, tt.clock)
		}
	}
}

func TestScanFileLineDirective(t *testing.T) {
	src := `package fw

func f() {
	anchor.Shutdown("before directive", clk)
//line gen.rl:10
	anchor.Shutdown("after directive", clk)
	anchor.Shutdown("missing clock")
}
`
	sites, err := New().ScanFile(context.Background(), token.NewFileSet(), "fw.go", []byte(src))
	if err != nil {
		t.Fatalf("scan: %v", err)
	}
	if len(sites) != 3 {
		t.Fatalf("got %d sites, want 3", len(sites))
	}

	after := sites[1]
	if after.Err != nil {
		t.Fatalf("site 1: %v", after.Err)
	}
	if after.Invocation.Message.Text() != "after directive" {
		t.Errorf("site 1 message = %v", after.Invocation)
	}
	if after.Pos.Filename != "gen.rl" || after.Pos.Line != 10 {
		t.Errorf("site 1 position = %v, want gen.rl:10", after.Pos)
	}

	var serr *invocation.SyntaxError
	if !errors.As(sites[2].Err, &serr) {
		t.Fatalf("site 2: expected *SyntaxError, got %v", sites[2].Err)
	}
	if serr.Pos.Filename != "gen.rl" || serr.Pos.Line != 11 {
		t.Errorf("site 2 error position = %v, want gen.rl:11", serr.Pos)
	}
}

func TestScanFileInvalidGo(t *testing.T) {
	_, err := New().ScanFile(context.Background(), token.NewFileSet(), "bad.go", []byte(`package x; func f() { anchor.Shutdown("a" b) }`))
	if err == nil {
		t.Fatal("expected parse error for invalid Go source")
	}
}

func TestScanFileCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := New().ScanFile(ctx, token.NewFileSet(), "stepper.go", []byte(firmwareSrc))
	if !errors.Is(err, context.Canceled) {
		t.Errorf("err = %v, want context.Canceled", err)
	}
}

func TestPackageFailed(t *testing.T) {
	sites, err := New().ScanFile(context.Background(), token.NewFileSet(), "stepper.go", []byte(firmwareSrc))
	if err != nil {
		t.Fatalf("scan: %v", err)
	}
	p := &Package{Name: "stepper", Sites: sites}
	if got := len(p.Failed()); got != 1 {
		t.Errorf("failed = %d, want 1", got)
	}
}

func TestCalleeName(t *testing.T) {
	tests := []struct {
		src  string
		want string
	}{
		{"f(x)", "f"},
		{"anchor.Shutdown(x)", "anchor.Shutdown"},
		{"(anchor.Shutdown)(x)", "anchor.Shutdown"},
		{"a.b.c(x)", ""},
		{"fns[0](x)", ""},
	}
	for _, tt := range tests {
		expr, err := parser.ParseExpr(tt.src)
		if err != nil {
			t.Fatalf("parse %q: %v", tt.src, err)
		}
		ce, ok := expr.(*ast.CallExpr)
		if !ok {
			t.Fatalf("%q: expected *ast.CallExpr, got %T", tt.src, expr)
		}
		if got := calleeName(ce.Fun); got != tt.want {
			t.Errorf("calleeName(%q) = %q, want %q", tt.src, got, tt.want)
		}
	}
}
