// Package stats collects aggregate counters over an IPPcode20 source and
// writes the selected ones to a statistics file.
package stats

import (
	"bytes"
	"fmt"
	"io"
	"os"

	"github.com/zurustar/ipp-parse/pkg/opcode"
	"github.com/zurustar/ipp-parse/pkg/status"
)

// Counter names one of the collected counters.
type Counter int

const (
	LOC Counter = iota
	Comments
	Labels
	Jumps
)

var counterNames = map[Counter]string{
	LOC:      "loc",
	Comments: "comments",
	Labels:   "labels",
	Jumps:    "jumps",
}

// String returns the command-line name of the counter.
func (c Counter) String() string {
	if name, ok := counterNames[c]; ok {
		return name
	}
	return fmt.Sprintf("Counter(%d)", int(c))
}

// ParseCounter resolves a command-line counter name.
func ParseCounter(name string) (Counter, bool) {
	for c, n := range counterNames {
		if n == name {
			return c, true
		}
	}
	return 0, false
}

// AllCounters returns every counter in help-text order.
func AllCounters() []Counter {
	return []Counter{LOC, Comments, Labels, Jumps}
}

// Counters holds the values collected during one pass.
type Counters struct {
	Comments int
	LOC      int
	Jumps    int
	Labels   int
}

// Get returns the value of one counter.
func (c Counters) Get(counter Counter) int {
	switch counter {
	case LOC:
		return c.LOC
	case Comments:
		return c.Comments
	case Labels:
		return c.Labels
	case Jumps:
		return c.Jumps
	}
	return 0
}

// Collector accumulates counters. The zero value is ready to use.
type Collector struct {
	counters Counters
}

// Comment records one stripped comment.
func (c *Collector) Comment() {
	c.counters.Comments++
}

// Instruction records one accepted instruction.
func (c *Collector) Instruction(name opcode.Name) {
	c.counters.LOC++
	if name == opcode.LabelDef {
		c.counters.Labels++
	}
	if opcode.IsJump(name) {
		c.counters.Jumps++
	}
}

// Counters returns a snapshot of the collected values.
func (c *Collector) Counters() Counters {
	return c.counters
}

// Format writes one value per requested counter, one per line, in request order.
func Format(w io.Writer, c Counters, order []Counter) error {
	for _, counter := range order {
		if _, err := fmt.Fprintf(w, "%d\n", c.Get(counter)); err != nil {
			return err
		}
	}
	return nil
}

// Write creates (or truncates) path and writes the requested counters to it.
// Any failure is reported as an OutputError.
func Write(path string, c Counters, order []Counter) error {
	var buf bytes.Buffer
	if err := Format(&buf, c, order); err != nil {
		return status.Wrap(status.OutputError, err, "failed to format statistics")
	}

	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		return status.Wrap(status.OutputError, err, fmt.Sprintf("failed to write statistics to %s", path))
	}
	return nil
}
