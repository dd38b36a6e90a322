package main

import (
	"github.com/cvm-sh/cvm/src/cmd"

	// Import plugins to register them
	_ "github.com/cvm-sh/cvm/src/plugins/doctor"
	_ "github.com/cvm-sh/cvm/src/plugins/history"
)

func main() {
	cmd.Execute()
}
