// SPDX-License-Identifier: MPL-2.0

package main

import cmd "github.com/rpdk/rpdk-python/cmd/rpdk-python"

func main() {
	cmd.Execute()
}
