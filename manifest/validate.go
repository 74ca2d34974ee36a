package manifest

import (
	_ "embed"
	"fmt"
	"strings"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	cueerrors "cuelang.org/go/cue/errors"
)

//go:embed schema.cue
var schemaSource string

// ValidationError lists every field of a manifest that fails the schema.
type ValidationError struct {
	File   string
	Issues []string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: invalid configuration: %s", e.File, strings.Join(e.Issues, "; "))
}

// Validate checks the manifest, with defaults applied, against schema.cue.
func (m *Manifest) Validate() error {
	ctx := cuecontext.New()
	schema := ctx.CompileString(schemaSource).LookupPath(cue.ParsePath("#Manifest"))
	if err := schema.Err(); err != nil {
		return fmt.Errorf("manifest schema: %w", err)
	}

	v := schema.Unify(ctx.Encode(m))
	err := v.Validate(cue.Concrete(true))
	if err == nil {
		return nil
	}

	verr := &ValidationError{File: FileName}
	if m.Dir != "" {
		verr.File = m.Dir + "/" + FileName
	}
	for _, e := range cueerrors.Errors(err) {
		format, args := e.Msg()
		issue := fmt.Sprintf(format, args...)
		if path := e.Path(); len(path) > 0 {
			issue = strings.Join(path, ".") + ": " + issue
		}
		verr.Issues = append(verr.Issues, issue)
	}
	return verr
}
