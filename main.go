package main

import "github.com/RobinJoby/food-surplus-platform/cmd"

func main() {
	cmd.Run()
}
