package main

import "github.com/powderhq/powder/internal/cli"

func main() {
	cli.Execute()
}
