package main

import (
	"daxsim/internal/cli"
)

func main() {
	cli.Execute()
}
