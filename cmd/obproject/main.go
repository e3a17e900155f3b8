package main

import (
	"github.com/obproject/obproject/cmd/obproject/cmd"
)

func main() {
	cmd.Execute()
}
