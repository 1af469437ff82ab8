package main

import (
	"fmt"
	"os"
)

func main() {
	cli := &commandLine{open: openServices, out: os.Stdout}
	if err := newRootCmd(cli).Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
