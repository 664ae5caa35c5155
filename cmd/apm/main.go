package main

import "github.com/apm-run/apm/internal/cli"

func main() {
	cli.Execute()
}
