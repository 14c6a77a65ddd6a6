package main

import "github.com/Italoh18/silence-cut-ia/internal/cli"

func main() {
	cli.Main()
}
