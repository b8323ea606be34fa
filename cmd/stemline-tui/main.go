package main

import (
	"fmt"
	"os"

	"github.com/handiism/stemline/internal/app"
	"github.com/handiism/stemline/internal/tui"
)

func main() {
	a, err := app.Load(os.Getenv("STEMLINE_CONFIG"))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	defer a.Close()

	if err := tui.Run(a); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
