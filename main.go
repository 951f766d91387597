package main

import "github.com/shandysiswandi/seedkeeper/internal/cli"

func main() {
	cli.Execute()
}
