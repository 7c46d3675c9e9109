package main

import "github.com/depadopt/depadopt/cmd"

func main() {
	cmd.Run()
}
