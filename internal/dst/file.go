// internal/dst/file.go
package dst

import (
	"fmt"
	"io"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/tamzrod/ntpclock/internal/calendar"
)

// File is the on-disk form produced by dstgen.
type File struct {
	StartYear  int      `yaml:"start_year"`
	Count      int      `yaml:"count"`
	StartTimes []uint32 `yaml:"start_times"`
	EndTimes   []uint32 `yaml:"end_times"`
}

// Load reads a table file and checks it against its declared geometry.
func Load(path string) (*Table, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var f File
	if err := yaml.Unmarshal(b, &f); err != nil {
		return nil, fmt.Errorf("dst: parse %s: %w", path, err)
	}

	if f.Count != len(f.StartTimes) || f.Count != len(f.EndTimes) {
		return nil, fmt.Errorf("dst: %s: count %d does not match %d start / %d end entries",
			path, f.Count, len(f.StartTimes), len(f.EndTimes))
	}

	return NewTable(f.StartYear, f.StartTimes, f.EndTimes)
}

// Write emits the table as YAML with a readable date comment per sequence.
func (t *Table) Write(w io.Writer) error {
	f := File{
		StartYear:  t.startYear,
		Count:      t.Count(),
		StartTimes: make([]uint32, 0, t.Count()),
		EndTimes:   make([]uint32, 0, t.Count()),
	}
	for i := range t.starts {
		f.StartTimes = append(f.StartTimes, uint32(t.starts[i]))
		f.EndTimes = append(f.EndTimes, uint32(t.ends[i]))
	}

	var doc yaml.Node
	if err := doc.Encode(f); err != nil {
		return err
	}

	// doc is a mapping: key, value, key, value ...
	for i := 0; i+1 < len(doc.Content); i += 2 {
		switch doc.Content[i].Value {
		case "start_times":
			doc.Content[i].HeadComment = describe(t.starts)
		case "end_times":
			doc.Content[i].HeadComment = describe(t.ends)
		}
		if doc.Content[i+1].Kind == yaml.SequenceNode {
			doc.Content[i+1].Style = yaml.FlowStyle
		}
	}

	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(&doc); err != nil {
		return err
	}
	return enc.Close()
}

func describe(instants []calendar.Instant) string {
	parts := make([]string, 0, len(instants))
	for _, in := range instants {
		d := calendar.FromInstant(in)
		parts = append(parts, fmt.Sprintf("%s %d %s %04d",
			calendar.DayName(d.Weekday), d.Day, calendar.MonthName(d.Month), d.Year))
	}
	return strings.Join(parts, ", ")
}
