// SPDX-License-Identifier: MPL-2.0

package cueutil

// DefaultMaxFileSize bounds the documents Decode accepts. Configuration files
// are tiny; anything larger is almost certainly the wrong file.
const DefaultMaxFileSize int64 = 1 << 20

type (
	// Option customizes a Decode call.
	Option func(*options)

	options struct {
		filename    string
		concrete    bool
		maxFileSize int64
	}
)

func defaultOptions() options {
	return options{
		filename:    "<input>",
		maxFileSize: DefaultMaxFileSize,
	}
}

// WithFilename names the document in error messages.
func WithFilename(name string) Option {
	return func(o *options) {
		if name != "" {
			o.filename = name
		}
	}
}

// WithConcrete requires every field of the unified value to be concrete.
// Schemas made of optional fields leave this off.
func WithConcrete(concrete bool) Option {
	return func(o *options) {
		o.concrete = concrete
	}
}

// WithMaxFileSize overrides DefaultMaxFileSize.
func WithMaxFileSize(n int64) Option {
	return func(o *options) {
		o.maxFileSize = n
	}
}
