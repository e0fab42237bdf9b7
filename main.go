package main

import "github.com/FReptar0/EvoSystems/cmd"

func main() {
	cmd.Execute()
}
