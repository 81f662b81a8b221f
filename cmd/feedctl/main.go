package main

import "github.com/aussiebroadwan/cryptofeed/internal/cli"

func main() {
	cli.Execute()
}
