package main

import "github.com/ghtools-se/gh-archive/cmd"

func main() {
	cmd.Execute()
}
