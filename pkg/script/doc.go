// SPDX-License-Identifier: MPL-2.0

// Package script classifies and parses Cleanitol script lines.
//
// A script is plain text, one rule per line. Classification is a pure function
// of the line text and never fails: anything that is not a comment, a heading
// or a dependency declaration is a removal pattern.
//
//	; script comment, never shown
//	> narrative text shown to the user
//	>#Heading shown to the user
//	*.bak                                   removal pattern
//	SomeMod.dat; Some Mod http://example.com/mod          dependency
//	Foo.dat ?? Bar.dat; Foo pack http://example.com/foo   conditional dependency
//
// Dependency items may be file names or TGIs ("0x..., 0x..., 0x...").
package script
