package main

import "github.com/papapumpkin/siderea/cmd"

func main() {
	cmd.Execute()
}
