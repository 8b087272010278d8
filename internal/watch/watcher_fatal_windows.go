// SPDX-License-Identifier: MPL-2.0

//go:build windows

package watch

import "syscall"

// fatalErrnos leave ReadDirectoryChangesW unusable: too many open files, an
// invalid handle (watched folder deleted or unmounted) and out of memory.
var fatalErrnos = []error{syscall.Errno(4), syscall.Errno(6), syscall.Errno(8)}
