package main

import (
	"io"

	"github.com/graph-guard/inthash/pkg/cli"
	"github.com/graph-guard/inthash/pkg/config"
	"github.com/graph-guard/inthash/pkg/container"
	"github.com/graph-guard/inthash/pkg/script"
)

// demo runs the built-in demonstration script.
func demo(w io.Writer, c cli.CommandDemo) (ok bool) {
	conf := config.Default()
	conf.Table = c.Table
	conf.Buckets = container.BucketCount(c.Buckets)
	conf.LogLevel = "debug"
	return execute(w, conf, "demo", script.Demo())
}
