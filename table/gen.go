package table

import (
	"bytes"
	"fmt"

	"github.com/dave/jennifer/jen"

	"github.com/chazu/anchor/invocation"
)

// RuntimePath is the import path generated code refers to.
const RuntimePath = "github.com/chazu/anchor"

// Header is the first line of every generated file.
const Header = "Code generated by anchorgen. DO NOT EDIT."

// GenerateGo renders entries as a Go file in package pkgName: one pointer
// variable per entry, named by its identifier, and a StaticStrings table
// listing them in ID order.
func GenerateGo(pkgName string, entries []Entry) ([]byte, error) {
	f := jen.NewFile(pkgName)
	f.HeaderComment(Header)

	defs := make([]jen.Code, 0, len(entries))
	refs := make([]jen.Code, 0, len(entries))
	for _, e := range entries {
		fields := jen.Dict{jen.Id("ID"): jen.Lit(int(e.ID))}
		switch e.Kind {
		case invocation.KindLiteral:
			fields[jen.Id("Text")] = jen.Lit(e.Text)
		case invocation.KindExpression:
			fields[jen.Id("Expr")] = jen.Lit(e.Text)
		}
		defs = append(defs, jen.Id(string(e.Identifier)).Op("=").Op("&").Qual(RuntimePath, "StaticString").Values(fields))
		refs = append(refs, jen.Id(string(e.Identifier)))
	}

	if len(defs) > 0 {
		f.Var().Defs(defs...)
	}
	f.Comment("StaticStrings lists the entries of this package in ID order.")
	f.Var().Id("StaticStrings").Op("=").Qual(RuntimePath, "Table").Values(refs...)

	var buf bytes.Buffer
	if err := f.Render(&buf); err != nil {
		return nil, fmt.Errorf("rendering package %s: %w", pkgName, err)
	}
	return buf.Bytes(), nil
}
