package main

import "github.com/payoffhq/payoff/cmd"

func main() {
	cmd.Execute()
}
