package main

import (
	"os"

	"github.com/sobundle/sobundle/internal/cmd/root"
)

func main() {
	if root.Execute() != nil {
		os.Exit(1)
	}
}
