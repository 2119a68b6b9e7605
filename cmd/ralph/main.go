package main

import "github.com/ralph-dev/ralph/internal/cli"

func main() {
	cli.Execute()
}
