package main

import (
	"github.com/battlesnakeio/gravitysnake/cmd/gravitysnake/commands"
)

func main() {
	commands.Execute()
}
