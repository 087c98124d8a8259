package main

import (
	"os"

	"MarketTemp/cmd/markettemp/commands"
)

func main() {
	if err := commands.Execute(); err != nil {
		os.Exit(1)
	}
}
