package main

import "github.com/iwvelando/networth-forecast/internal/commands"

// version is set at build time with -ldflags "-X main.version=...".
var version = "dev"

func main() {
	commands.Execute(version)
}
