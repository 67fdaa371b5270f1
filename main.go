package main

import "github.com/papapumpkin/pivot/cmd"

func main() {
	cmd.Execute()
}
