package main

import "github.com/RamXX/backplan/cmd"

func main() {
	cmd.Execute()
}
