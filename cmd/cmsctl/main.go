package main

import "github.com/getmentor/contentbridge/internal/cli"

func main() {
	cli.Execute()
}
