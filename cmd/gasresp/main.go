package main

import "github.com/cwbudde/algo-gas/internal/cli"

func main() {
	cli.Execute()
}
