package main

import (
	"context"
	"fmt"
	"os"

	"github.com/dmitrijs2005/prodtracker/internal/buildinfo"
	"github.com/dmitrijs2005/prodtracker/internal/cli"
)

func main() {
	root := cli.NewRootCommand()
	root.Version = buildinfo.Version()

	if err := root.ExecuteContext(context.Background()); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}
