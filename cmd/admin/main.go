package main

import (
	"os"
)

func main() {
	if err := newRootCmd(openContainer).Execute(); err != nil {
		os.Exit(1)
	}
}
