package main

import "github.com/jotuel/cosmic-fprint/internal/cli"

func main() {
	cli.Execute()
}
