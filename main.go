package main

import (
	"os"

	"github.com/hakaaaa22/alrakeen-teltonika-can-v3/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
