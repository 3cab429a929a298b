package main

import "github.com/rungdb/rung/internal/cli"

func main() {
	cli.Execute()
}
