package main

import (
	"os"

	"github.com/bch0w/misfitlens/cmd/misfitlens/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
