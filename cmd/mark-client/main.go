package main

import "github.com/35C4n0r/cord-mark/internal/cli"

func main() {
	cli.Execute()
}
