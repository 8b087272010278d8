// SPDX-License-Identifier: MPL-2.0

// Package tgi defines the resource identifier used inside DBPF package files.
//
// A TGI is a (type, group, instance) triple of unsigned 32-bit integers. Its
// canonical textual form is three zero-padded hex fields separated by a comma
// and a space:
//
//	0x6534284A, 0x4A3E1D2B, 0x00000001
//
// Scripts may use any separator between the fields; Parse accepts them all and
// String always renders the canonical form, so normalized text can be compared
// for equality. Slices of TGIs sorted with Sort support binary-search
// membership tests through Contains.
package tgi
