package main

import (
	"context"
	"fmt"
	"os"

	"github.com/goliatone/go-formbuilder/internal/cli"
)

func main() {
	if err := cli.Run(context.Background(), os.Args[1:]); err != nil {
		fmt.Fprintln(os.Stderr, "formbuilder:", err)
		os.Exit(1)
	}
}
