// SPDX-License-Identifier: MPL-2.0

package cueutil

import (
	"fmt"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
)

// Schema is a compiled CUE definition that user documents are unified with.
// A Schema is not safe for concurrent use because cue.Context is not.
type Schema struct {
	ctx *cue.Context
	def cue.Value
}

// Compile compiles src and looks up the definition at defPath (for example
// "#Config").
func Compile(src, defPath string) (*Schema, error) {
	ctx := cuecontext.New()
	root := ctx.CompileString(src)
	if root.Err() != nil {
		return nil, fmt.Errorf("compile schema: %w", root.Err())
	}
	def := root.LookupPath(cue.ParsePath(defPath))
	if def.Err() != nil {
		return nil, fmt.Errorf("schema definition %s: %w", defPath, def.Err())
	}
	return &Schema{ctx: ctx, def: def}, nil
}

// Definition returns the compiled definition value.
func (s *Schema) Definition() cue.Value {
	return s.def
}

// Validate compiles data, unifies it with the definition and validates the
// result.
func (s *Schema) Validate(data []byte, opts ...Option) (cue.Value, error) {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}

	if err := CheckFileSize(data, o.maxFileSize, o.filename); err != nil {
		return cue.Value{}, err
	}

	user := s.ctx.CompileBytes(data, cue.Filename(o.filename))
	if user.Err() != nil {
		return cue.Value{}, FormatError(user.Err(), o.filename)
	}

	unified := s.def.Unify(user)
	if err := unified.Validate(cue.Concrete(o.concrete)); err != nil {
		return cue.Value{}, FormatError(err, o.filename)
	}
	return unified, nil
}

// Decode validates data against s and decodes the unified value into a T.
func Decode[T any](s *Schema, data []byte, opts ...Option) (T, error) {
	var out T

	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}

	unified, err := s.Validate(data, opts...)
	if err != nil {
		return out, err
	}
	if err := unified.Decode(&out); err != nil {
		return out, FormatError(err, o.filename)
	}
	return out, nil
}
