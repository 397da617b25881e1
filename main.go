package main

import "github.com/corecanvas/canvas-cli/cmd"

func main() {
	cmd.Execute()
}
