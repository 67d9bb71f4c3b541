package main

import (
	"fmt"
	"os"

	"github.com/example/fundplan/internal/cli"
	"github.com/example/fundplan/internal/wire"
)

func main() {
	rootCmd := cli.RootCmd()
	err := rootCmd.Execute()
	if cerr := wire.Close(); cerr != nil && err == nil {
		err = cerr
	}
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
