// SPDX-License-Identifier: MPL-2.0

// Command juv manages reproducible Jupyter notebooks.
package main

import cmd "github.com/juvnb/juv/cmd/juv"

func main() {
	cmd.Execute()
}
