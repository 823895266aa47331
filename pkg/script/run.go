package script

import (
	"fmt"
	"time"

	"github.com/graph-guard/inthash/pkg/container"
	"github.com/graph-guard/inthash/pkg/statistics"
	"github.com/phuslu/log"
)

// Mismatch is a failed expectation of a get operation.
type Mismatch struct {
	Index int
	Key   int

	// Expect is nil if the key was expected to be missing.
	Expect *int

	Got   int
	Found bool
}

func (m Mismatch) String() string {
	if m.Expect == nil {
		return fmt.Sprintf(
			"operation %d: expected key %d to be missing, got %d",
			m.Index, m.Key, m.Got,
		)
	}
	if !m.Found {
		return fmt.Sprintf(
			"operation %d: expected key %d to be %d, got not found",
			m.Index, m.Key, *m.Expect,
		)
	}
	return fmt.Sprintf(
		"operation %d: expected key %d to be %d, got %d",
		m.Index, m.Key, *m.Expect, m.Got,
	)
}

// Report summarizes a script execution.
type Report struct {
	// Executed counts table operations,
	// every key of an insert-range counts as one.
	Executed   int
	Mismatches []Mismatch
}

// Runner executes scripts. Both fields are optional.
type Runner struct {
	Log   *log.Logger
	Stats *statistics.OpsSync
}

// Run validates ops and executes them against t in order.
// Failed expectations don't stop the execution.
func (r Runner) Run(t container.Table, ops []Op) (Report, error) {
	var rep Report
	if err := Validate(ops); err != nil {
		return rep, err
	}
	for i, o := range ops {
		switch o.Kind {
		case KindInsert:
			r.insert(t, o.IntKey(), o.Value)
			rep.Executed++

		case KindInsertRange:
			for k := o.From; ; k++ {
				r.insert(t, k, k*o.Factor)
				rep.Executed++
				if k == o.To {
					break
				}
			}

		case KindRemove:
			start := time.Now()
			removed := t.Remove(o.IntKey())
			r.record(statistics.OpRemove, removed, start)
			rep.Executed++
			if r.Log != nil {
				r.Log.Trace().
					Int("key", o.IntKey()).
					Bool("removed", removed).
					Msg("remove")
			}

		case KindGet:
			k := o.IntKey()
			start := time.Now()
			v, found := t.Get(k)
			r.record(statistics.OpGet, found, start)
			rep.Executed++
			if r.Log != nil {
				r.Log.Trace().
					Int("key", k).
					Int("value", v).
					Bool("found", found).
					Msg("get")
			}

			m := Mismatch{Index: i, Key: k, Expect: o.Expect, Got: v, Found: found}
			switch {
			case o.Missing && found,
				o.Expect != nil && (!found || v != *o.Expect):
				rep.Mismatches = append(rep.Mismatches, m)
				if r.Log != nil {
					r.Log.Warn().Int("operation", i).Msg(m.String())
				}
			}
		}
	}
	return rep, nil
}

func (r Runner) insert(t container.Table, key, value int) {
	start := time.Now()
	t.Insert(key, value)
	r.record(statistics.OpInsert, false, start)
	if r.Log != nil {
		r.Log.Trace().Int("key", key).Int("value", value).Msg("insert")
	}
}

func (r Runner) record(op statistics.Op, found bool, start time.Time) {
	if r.Stats != nil {
		r.Stats.Update(op, found, time.Since(start))
	}
}
