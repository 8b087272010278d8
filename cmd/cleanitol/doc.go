// SPDX-License-Identifier: MPL-2.0

// Package cmd contains the cleanitol command line interface.
//
// Every command is built by a constructor that receives the *App composition
// root, so tests can run the command tree against a static configuration and
// in-memory output streams.
package cmd
