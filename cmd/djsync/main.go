package main

import "github.com/currentspace/djsync/internal/cli"

func main() {
	cli.Execute()
}
