// SPDX-License-Identifier: MPL-2.0

// Command jsmod resolves and loads script modules from the command line.
package main

import cmd "github.com/jsmod/jsmod/cmd/jsmod"

func main() {
	cmd.Execute()
}
