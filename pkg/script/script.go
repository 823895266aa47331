// Package script reads and executes sequences of table operations.
//
// Scripts are lists of operations encoded as YAML or JSON:
//
//	- op: insert
//	  key: 1
//	  value: 100
//	- op: get
//	  skey: apple   # string keys are mapped through hash.HornerString
//	  missing: true
//	- op: insert-range
//	  from: 4
//	  to: 20
//	  factor: 100   # value = key * factor
package script

import (
	"bytes"
	_ "embed"
	"errors"
	"fmt"
	"io"
	"math"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/graph-guard/inthash/pkg/hash"
	"github.com/tidwall/gjson"
	"golang.org/x/exp/slices"
	yaml "gopkg.in/yaml.v3"
)

// Kind is the type of an operation.
type Kind string

const (
	KindInsert      Kind = "insert"
	KindRemove      Kind = "remove"
	KindGet         Kind = "get"
	KindInsertRange Kind = "insert-range"
)

// Op is a single script operation.
type Op struct {
	Kind    Kind   `yaml:"op"`
	Key     int    `yaml:"key"`
	StrKey  string `yaml:"skey"`
	Value   int    `yaml:"value"`
	Expect  *int   `yaml:"expect"`
	Missing bool   `yaml:"missing"`
	From    int    `yaml:"from"`
	To      int    `yaml:"to"`
	Factor  int    `yaml:"factor"`
}

// IntKey returns the integer key of the operation.
func (o Op) IntKey() int {
	if o.StrKey != "" {
		return hash.HornerString(o.StrKey)
	}
	return o.Key
}

//go:embed demo.yaml
var demoYAML []byte

// Demo returns the built-in demonstration script.
func Demo() []Op {
	ops, err := ParseYAML(demoYAML)
	if err != nil {
		panic(err)
	}
	return ops
}

// Parse decodes a script choosing the encoding by the file extension
// of name: .yaml and .yml for YAML, .json for JSON.
func Parse(name string, src []byte) ([]Op, error) {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".yaml", ".yml":
		return ParseYAML(src)
	case ".json":
		return ParseJSON(src)
	}
	return nil, &ErrorIllegal{
		Index:   -1,
		Message: fmt.Sprintf("unsupported script file %q", name),
	}
}

// ParseYAML decodes a YAML script. An empty document is an empty script.
func ParseYAML(src []byte) ([]Op, error) {
	var ops []Op
	d := yaml.NewDecoder(bytes.NewReader(src))
	d.KnownFields(true)
	if err := d.Decode(&ops); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("decoding yaml script: %w", err)
	}
	if err := Validate(ops); err != nil {
		return nil, err
	}
	return ops, nil
}

// ParseJSON decodes a JSON script, an array of operation objects.
// Field types are checked as strictly as by ParseYAML, null means absent.
func ParseJSON(src []byte) ([]Op, error) {
	if !gjson.ValidBytes(src) {
		return nil, &ErrorIllegal{Index: -1, Message: "invalid json"}
	}
	root := gjson.ParseBytes(src)
	if !root.IsArray() {
		return nil, &ErrorIllegal{
			Index:   -1,
			Message: "json script must be an array",
		}
	}

	var ops []Op
	var err error
	root.ForEach(func(_, v gjson.Result) bool {
		if !v.IsObject() {
			err = &ErrorIllegal{
				Index:   len(ops),
				Message: "operation must be an object",
			}
			return false
		}
		var op Op
		v.ForEach(func(k, f gjson.Result) bool {
			if msg := decodeJSONField(&op, k.String(), f); msg != "" {
				err = &ErrorIllegal{Index: len(ops), Message: msg}
				return false
			}
			return true
		})
		if err != nil {
			return false
		}
		ops = append(ops, op)
		return true
	})
	if err != nil {
		return nil, err
	}
	if err := Validate(ops); err != nil {
		return nil, err
	}
	return ops, nil
}

// decodeJSONField sets the field name of o to f.
// Returns a non-empty message if the field is unknown or mistyped.
func decodeJSONField(o *Op, name string, f gjson.Result) (msg string) {
	if f.Type == gjson.Null {
		return ""
	}
	var ok bool
	switch name {
	case "op":
		var k string
		k, ok = jsonString(f)
		o.Kind = Kind(k)
	case "skey":
		o.StrKey, ok = jsonString(f)
	case "missing":
		o.Missing, ok = jsonBool(f)
		if !ok {
			return fmt.Sprintf("field %q: expected boolean, got %s", name, f.Raw)
		}
	case "key", "value", "expect", "from", "to", "factor":
		var x int
		if x, ok = jsonInt(f); !ok {
			return fmt.Sprintf("field %q: expected integer, got %s", name, f.Raw)
		}
		switch name {
		case "key":
			o.Key = x
		case "value":
			o.Value = x
		case "expect":
			o.Expect = &x
		case "from":
			o.From = x
		case "to":
			o.To = x
		case "factor":
			o.Factor = x
		}
	default:
		return fmt.Sprintf("unknown field %q", name)
	}
	if !ok {
		return fmt.Sprintf("field %q: expected string, got %s", name, f.Raw)
	}
	return ""
}

func jsonString(f gjson.Result) (string, bool) {
	if f.Type != gjson.String {
		return "", false
	}
	return f.Str, true
}

func jsonBool(f gjson.Result) (bool, bool) {
	switch f.Type {
	case gjson.True:
		return true, true
	case gjson.False:
		return false, true
	}
	return false, false
}

// jsonInt accepts numbers written as plain integers only,
// fractions and exponents are rejected.
func jsonInt(f gjson.Result) (int, bool) {
	if f.Type != gjson.Number {
		return 0, false
	}
	x, err := strconv.ParseInt(f.Raw, 10, 0)
	if err != nil {
		return 0, false
	}
	return int(x), true
}

// kindFields lists the fields each kind of operation accepts.
var kindFields = map[Kind][]string{
	KindInsert:      {"key", "skey", "value"},
	KindRemove:      {"key", "skey"},
	KindGet:         {"key", "skey", "expect", "missing"},
	KindInsertRange: {"from", "to", "factor"},
}

// setFields returns the names of the fields of o
// that are set to a non-zero value.
func (o Op) setFields() []string {
	var f []string
	for _, x := range []struct {
		name string
		set  bool
	}{
		{"key", o.Key != 0},
		{"skey", o.StrKey != ""},
		{"value", o.Value != 0},
		{"expect", o.Expect != nil},
		{"missing", o.Missing},
		{"from", o.From != 0},
		{"to", o.To != 0},
		{"factor", o.Factor != 0},
	} {
		if x.set {
			f = append(f, x.name)
		}
	}
	return f
}

// Validate checks every operation for consistency.
func Validate(ops []Op) error {
	for i, o := range ops {
		allowed, ok := kindFields[o.Kind]
		if !ok {
			return &ErrorUnknownOp{Index: i, Kind: o.Kind}
		}
		for _, f := range o.setFields() {
			if !slices.Contains(allowed, f) {
				return &ErrorIllegal{
					Index:   i,
					Message: fmt.Sprintf("field %s isn't allowed in %s", f, o.Kind),
				}
			}
		}

		switch o.Kind {
		case KindGet:
			if o.Expect != nil && o.Missing {
				return &ErrorIllegal{
					Index:   i,
					Message: "expect and missing are mutually exclusive",
				}
			}
		case KindInsertRange:
			if o.To < o.From {
				return &ErrorIllegal{
					Index:   i,
					Message: fmt.Sprintf("empty range [%d, %d]", o.From, o.To),
				}
			}
			if mulOverflows(o.From, o.Factor) || mulOverflows(o.To, o.Factor) {
				return &ErrorIllegal{
					Index: i,
					Message: fmt.Sprintf(
						"values of range [%d, %d] overflow with factor %d",
						o.From, o.To, o.Factor,
					),
				}
			}
		}
	}
	return nil
}

// mulOverflows reports whether a*b overflows int.
func mulOverflows(a, b int) bool {
	if a == 0 || b == 0 {
		return false
	}
	if (a == -1 && b == math.MinInt) || (b == -1 && a == math.MinInt) {
		return true
	}
	return (a*b)/b != a
}

type ErrorUnknownOp struct {
	Index int
	Kind  Kind
}

func (e *ErrorUnknownOp) Error() string {
	return fmt.Sprintf("operation %d: unknown op %q", e.Index, string(e.Kind))
}

// ErrorIllegal is returned for malformed scripts.
// Index is -1 if the error isn't specific to an operation.
type ErrorIllegal struct {
	Index   int
	Message string
}

func (e *ErrorIllegal) Error() string {
	if e.Index < 0 {
		return "illegal script: " + e.Message
	}
	return fmt.Sprintf("operation %d: %s", e.Index, e.Message)
}
