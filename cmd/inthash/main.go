package main

import (
	"fmt"
	"os"

	"github.com/graph-guard/inthash/pkg/cli"
)

func main() {
	w := os.Stdout
	ok := true
	switch c := cli.Parse(w, os.Args).(type) {
	case cli.CommandRun:
		ok = run(w, c)
	case cli.CommandDemo:
		ok = demo(w, c)
	default:
		if c != nil {
			panic(fmt.Errorf("unexpected command: %#v", c))
		}
		ok = false
	}
	if !ok {
		os.Exit(1)
	}
}
