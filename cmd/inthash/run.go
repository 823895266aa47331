package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/google/uuid"
	"github.com/graph-guard/inthash/pkg/cli"
	"github.com/graph-guard/inthash/pkg/config"
	"github.com/graph-guard/inthash/pkg/container"
	"github.com/graph-guard/inthash/pkg/script"
	"github.com/graph-guard/inthash/pkg/statistics"
	"github.com/phuslu/log"
)

// run executes the script at c.ScriptPath against the configured table
// and reports whether every expectation held.
func run(w io.Writer, c cli.CommandRun) (ok bool) {
	conf := ReadConfig(w, c.ConfigPath)
	if conf == nil {
		return false
	}

	src, err := os.ReadFile(c.ScriptPath)
	if err != nil {
		fmt.Fprintf(w, "reading script: %s\n", err)
		return false
	}
	ops, err := script.Parse(c.ScriptPath, src)
	if err != nil {
		fmt.Fprintf(w, "parsing script %s: %s\n", c.ScriptPath, err)
		return false
	}

	return execute(w, conf, c.ScriptPath, ops)
}

// execute runs ops against a table built from conf.
func execute(
	w io.Writer,
	conf *config.Config,
	scriptName string,
	ops []script.Op,
) (ok bool) {
	l := newLogger(w, conf.Level())

	t, err := conf.NewTable(l)
	if err != nil {
		fmt.Fprintf(w, "creating table: %s\n", err)
		return false
	}

	l.Info().
		Str("script", scriptName).
		Str("table", conf.Table).
		Int("buckets", t.BucketCount()).
		Int("operations", len(ops)).
		Msg("start")

	s := statistics.NewOpsSync()
	start := time.Now()
	rep, err := script.Runner{Log: l, Stats: s}.Run(t, ops)
	if err != nil {
		l.Error().Err(err).Msg("invalid script")
		return false
	}

	l.Info().
		Int("executed", rep.Executed).
		Int("mismatches", len(rep.Mismatches)).
		Dur("duration", time.Since(start)).
		Msg("finish")

	printSummary(w, rep, s, t.Stats())
	return len(rep.Mismatches) < 1
}

// newLogger creates a logger tagged with a unique run id.
func newLogger(w io.Writer, level log.Level) *log.Logger {
	return &log.Logger{
		Level:   level,
		Writer:  &log.IOWriter{Writer: w},
		Context: log.NewContext(nil).Str("run", uuid.NewString()).Value(),
	}
}

func printSummary(
	w io.Writer,
	rep script.Report,
	s *statistics.OpsSync,
	st container.Stats,
) {
	c := func(i int64) string { return humanize.Comma(i) }
	writeLines(w,
		"executed:   "+c(int64(rep.Executed)),
		"inserts:    "+c(s.GetInserts()),
		"removes:    "+c(s.GetRemoves())+
			" ("+c(s.GetRemoveMisses())+" missed)",
		"hits:       "+c(s.GetHits()),
		"misses:     "+c(s.GetMisses()),
		"mismatches: "+c(int64(len(rep.Mismatches))),
		"entries:    "+c(int64(st.Len)),
		"buckets:    "+c(int64(st.Buckets)),
		"resizes:    "+c(int64(st.Resizes)),
		"rehashes:   "+c(int64(st.Rehashes)),
		"tombstones: "+c(int64(st.Tombstones)),
		"longest:    "+c(int64(st.Longest)),
		fmt.Sprintf("load:       %.3f", st.LoadFactor()),
		"op time:    "+s.GetAverageOpTime().String()+
			" avg, "+s.GetHighestOpTime().String()+" max",
	)
}

// ReadConfig reads the config file at configPath.
// An empty configPath yields the default config.
// Returns nil and prints the reason to w if the config is unusable.
func ReadConfig(w io.Writer, configPath string) *config.Config {
	if configPath == "" {
		return config.Default()
	}
	conf, err := config.Read(
		os.DirFS(filepath.Dir(configPath)),
		filepath.Base(configPath),
	)
	if err != nil {
		fmt.Fprintf(w, "%s\n", err)
		return nil
	}
	return conf
}

func writeLines(w io.Writer, lines ...string) {
	for i := range lines {
		_, _ = w.Write([]byte(lines[i]))
		_, _ = w.Write([]byte("\n"))
	}
}
