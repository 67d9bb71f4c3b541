// Package planfile reads batch phase edits from YAML.
//
// A plan file looks like:
//
//	operations:
//	  - op: add
//	    start: "2024-06-03"
//	    days: 30
//	    goal: "5000"
//	  - op: edit
//	    ref: "#1"
//	    goal: "4000"
//	  - op: delete
//	    ref: PHASE-002
package planfile

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"

	"github.com/example/fundplan/internal/core/phase"
	"github.com/example/fundplan/internal/ports/primary"
)

// Plan is a parsed plan file.
type Plan struct {
	Operations []Operation
}

// Operation is one add, edit or delete.
type Operation struct {
	Op    primary.OpKind `yaml:"op"`
	Ref   string         `yaml:"ref,omitempty"`
	Start string         `yaml:"start,omitempty"`
	Days  *int           `yaml:"days,omitempty"`
	Goal  string         `yaml:"goal,omitempty"`

	// Line is the operation's line in the source file.
	Line int `yaml:"-"`
}

type document struct {
	Operations []Operation `yaml:"operations"`
}

// positions mirrors document to recover each operation's line.
type positions struct {
	Operations []yaml.Node `yaml:"operations"`
}

// ReadFile parses the plan file at path.
func ReadFile(path string) (*Plan, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read plan file: %w", err)
	}
	return Parse(bytes.NewReader(data))
}

// Parse decodes and checks a plan. Unknown keys are errors.
func Parse(r io.Reader) (*Plan, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read plan file: %w", err)
	}

	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)

	var doc document
	if err := dec.Decode(&doc); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("plan file is empty")
		}
		return nil, fmt.Errorf("failed to parse plan file: %w", err)
	}

	var pos positions
	if err := yaml.Unmarshal(data, &pos); err != nil {
		return nil, fmt.Errorf("failed to parse plan file: %w", err)
	}

	for i := range doc.Operations {
		op := &doc.Operations[i]
		if i < len(pos.Operations) {
			op.Line = pos.Operations[i].Line
		}
		if err := op.check(); err != nil {
			return nil, fmt.Errorf("operation %d (line %d): %w", i+1, op.Line, err)
		}
	}
	if len(doc.Operations) == 0 {
		return nil, fmt.Errorf("plan file has no operations")
	}
	return &Plan{Operations: doc.Operations}, nil
}

func (o Operation) check() error {
	switch o.Op {
	case primary.OpAdd:
		if o.Ref != "" {
			return fmt.Errorf("add does not take a ref")
		}
	case primary.OpEdit:
		if o.Ref == "" {
			return fmt.Errorf("edit requires a ref")
		}
		if o.Start == "" && o.Days == nil && o.Goal == "" {
			return fmt.Errorf("edit changes no fields")
		}
	case primary.OpDelete:
		if o.Ref == "" {
			return fmt.Errorf("delete requires a ref")
		}
		if o.Start != "" || o.Days != nil || o.Goal != "" {
			return fmt.Errorf("delete takes only a ref")
		}
	default:
		return fmt.Errorf("unknown op %q (expected add, edit or delete)", o.Op)
	}
	return nil
}

// Input converts the operation's fields. Absent fields stay nil so an add
// reports them as missing and an edit leaves them unchanged.
func (o Operation) Input() (phase.Input, error) {
	var in phase.Input
	if o.Start != "" {
		d, err := phase.ParseDate(o.Start)
		if err != nil {
			return phase.Input{}, err
		}
		in.StartDate = &d
	}
	if o.Days != nil {
		days := *o.Days
		in.DurationDays = &days
	}
	if o.Goal != "" {
		g, err := decimal.NewFromString(o.Goal)
		if err != nil {
			return phase.Input{}, fmt.Errorf("invalid funding goal %q: %w", o.Goal, err)
		}
		in.FundingGoal = &g
	}
	return in, nil
}

// Describe renders the operation for reports, e.g. "edit #1".
func (o Operation) Describe() string {
	if o.Ref == "" {
		return string(o.Op)
	}
	return fmt.Sprintf("%s %s", o.Op, o.Ref)
}
