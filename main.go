// SPDX-License-Identifier: MPL-2.0

package main

import cmd "github.com/sc4cleanitol/cleanitol/cmd/cleanitol"

func main() {
	cmd.Execute()
}
