// SPDX-License-Identifier: MPL-2.0

//go:build !windows

package watch

import "syscall"

// fatalErrnos exhaust the inotify watch budget (ENOSPC) or the file
// descriptor table (EMFILE, ENFILE). A large plugins tree can hit the first.
var fatalErrnos = []error{syscall.ENOSPC, syscall.EMFILE, syscall.ENFILE}
