package main

import (
	"os"

	"github.com/yiranlandtour/solana-move/cmd/ccaudit/commands"
)

func main() {
	if err := commands.Execute(); err != nil {
		os.Exit(2)
	}
}
