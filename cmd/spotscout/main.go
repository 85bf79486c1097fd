package main

import "spotscout/internal/cli"

func main() {
	cli.Execute()
}
