package main

import (
	"os"

	"github.com/vendorguard/helpassist/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
