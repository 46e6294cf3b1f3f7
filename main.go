package main

import (
	"github.com/avasilev/inboxzero/cmd"
)

// version is set by the linker during release builds.
var version = "dev"

func main() {
	cmd.SetVersion(version)
	cmd.Execute()
}
