package cli

import (
	"flag"
	"fmt"
	"io"
	"path/filepath"

	"github.com/graph-guard/inthash/pkg/config"
)

const DefaultDemoBuckets = 5

// Command can be any of:
//
//	CommandRun
//	CommandDemo
type Command any

type CommandRun struct {
	// ConfigPath is optional, defaults apply when empty.
	ConfigPath string
	ScriptPath string
}

type CommandDemo struct {
	Table   string
	Buckets int
}

func Parse(w io.Writer, args []string) (cmd Command) {
	fm := fmt.Sprintf

	executableName := "inthash"
	if len(args) > 0 {
		executableName = filepath.Base(args[0])
	}

	flags := flag.NewFlagSet("inthash", flag.ContinueOnError)
	flags.SetOutput(w)
	flags.Usage = func() {
		writeLines(w,
			fm("usage: %s <command> [flags]", executableName),
			"",
			"commands available:",
			" run - executes an operation script against a table",
			" demo - runs the built-in demonstration script",
		)
	}

	parseFlags := func() (ok bool) {
		err := flags.Parse(args[2:])
		// flags will automatically call .Usage()
		return err == nil
	}

	if len(args) < 2 {
		flags.Usage()
		return nil
	}

	switch args[1] {
	case "run":
		c := CommandRun{}
		flags.Usage = func() {
			writeLines(w,
				"",
				fm("usage: %s run [-config <path>] -script <path>",
					executableName),
				"",
				"flags:",
				"-config <path>: defines the table configuration file path "+
					"(default: built-in defaults)",
				"-script <path>: defines the operation script file path "+
					"(.yaml, .yml or .json)",
			)
		}
		flags.StringVar(&c.ConfigPath, "config", "", "")
		flags.StringVar(&c.ScriptPath, "script", "", "")
		if !parseFlags() {
			return nil
		}
		if c.ScriptPath == "" {
			writeLines(w, "missing -script")
			flags.Usage()
			return nil
		}
		cmd = c

	case "demo":
		c := CommandDemo{}
		flags.Usage = func() {
			writeLines(w,
				"",
				fm("usage: %s demo [-table <name>] [-buckets <n>]",
					executableName),
				"",
				"flags:",
				fm("-table <name>: %s or %s (default: %s)",
					config.TableChained, config.TableProbing,
					config.TableProbing),
				fm("-buckets <n>: initial bucket count (default: %d)",
					DefaultDemoBuckets),
			)
		}
		flags.StringVar(&c.Table, "table", config.TableProbing, "")
		flags.IntVar(&c.Buckets, "buckets", DefaultDemoBuckets, "")
		if !parseFlags() {
			return nil
		}
		if c.Table != config.TableChained && c.Table != config.TableProbing {
			writeLines(w, fm("unknown table %q", c.Table))
			flags.Usage()
			return nil
		}
		cmd = c

	case "help":
		flags.Usage()
		return nil

	default:
		flags.Usage()
		return nil
	}
	return cmd
}

func writeLines(w io.Writer, lines ...string) {
	for i := range lines {
		_, _ = w.Write([]byte(lines[i]))
		_, _ = w.Write([]byte("\n"))
	}
}
