package main

import "prompt-console/cmd"

func main() {
	cmd.Execute()
}
