package main

import "github.com/barsweep/barsweep/cmd/barsweep/cmd"

func main() {
	cmd.Execute()
}
