package main

import "github.com/Alturino/bagstore/cmd"

func main() {
	cmd.Start()
}
