package project

import (
	_ "embed"
	"fmt"
	"strings"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	cueerrors "cuelang.org/go/cue/errors"
)

//go:embed schema.cue
var schemaCUE []byte

// Validator checks configuration documents against the embedded CUE schema.
type Validator struct {
	ctx    *cue.Context
	schema cue.Value
}

// NewValidator compiles the embedded schema.
func NewValidator() (*Validator, error) {
	ctx := cuecontext.New()

	compiled := ctx.CompileBytes(schemaCUE, cue.Filename("schema.cue"))
	if compiled.Err() != nil {
		return nil, fmt.Errorf("compiling schema: %w", compiled.Err())
	}

	schema := compiled.LookupPath(cue.ParsePath("#Config"))
	if !schema.Exists() {
		return nil, fmt.Errorf("schema has no #Config definition")
	}

	return &Validator{ctx: ctx, schema: schema}, nil
}

// ValidateJSON checks a JSON document against the schema. Every violation
// is reported as a ValidationError.
func (v *Validator) ValidateJSON(data []byte, filename string) error {
	value := v.ctx.CompileBytes(data, cue.Filename(filename))
	if err := value.Err(); err != nil {
		return ValidationErrors{{Message: fmt.Sprintf("malformed document: %v", err)}}
	}

	unified := v.schema.Unify(value)
	if err := unified.Validate(cue.Concrete(true)); err != nil {
		return toValidationErrors(err)
	}
	return nil
}

func toValidationErrors(err error) ValidationErrors {
	var errs ValidationErrors
	seen := make(map[string]bool)
	for _, e := range cueerrors.Errors(err) {
		field := strings.Join(e.Path(), ".")
		format, args := e.Msg()
		msg := fmt.Sprintf(format, args...)

		key := field + "\x00" + msg
		if seen[key] {
			continue
		}
		seen[key] = true
		errs = append(errs, ValidationError{Field: field, Message: msg})
	}
	if len(errs) == 0 {
		errs = append(errs, ValidationError{Message: err.Error()})
	}
	return errs
}
