// SPDX-License-Identifier: MPL-2.0

// Package dbpf reads the resource index of DBPF package files.
//
// Only the header and the index table are decoded; resource payloads are never
// read. This is all the catalog needs to answer "which TGIs does this plugin
// provide". Parser satisfies the catalog's package parser contract.
package dbpf
