package main

import "github.com/curaious/companion/cmd"

func main() {
	cmd.Execute()
}
