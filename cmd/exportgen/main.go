package main

import "github.com/mvp-joe/exportgen/internal/cli"

func main() {
	cli.Execute()
}
