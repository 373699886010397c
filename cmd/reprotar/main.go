package main

import "github.com/anchore/reprotar/cmd"

func main() {
	cmd.Execute()
}
