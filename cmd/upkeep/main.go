package main

import (
	"context"
	"errors"
	"fmt"
	"os"
)

func main() {
	if err := newRootCommand().Execute(); err != nil {
		// Interrupted runs already said everything worth saying.
		if !errors.Is(err, context.Canceled) {
			fmt.Fprintf(os.Stderr, "upkeep: %v\n", err)
		}
		os.Exit(1)
	}
}
