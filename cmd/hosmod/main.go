package main

import (
	"os"

	"github.com/hos-modding/hosmod/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
