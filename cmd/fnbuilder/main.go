package main

import (
	"github.com/Gamify-IT/functionbuilder/internal/cli"
)

func main() {
	cli.Execute()
}
