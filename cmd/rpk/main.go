package main

import "rpk/internal/cli"

func main() {
	cli.Execute()
}
