package main

import (
	"bytes"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/charmbracelet/lipgloss"
	"github.com/najoast/kipc/ipc"
	"gopkg.in/yaml.v3"
)

var (
	headerStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12"))
	errorStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
)

// Record is the printable form of a decoded envelope.
type Record struct {
	Offset      int64  `json:"offset" yaml:"offset"`
	Type        string `json:"type" yaml:"type"`
	Code        uint32 `json:"code" yaml:"code"`
	Source      string `json:"source" yaml:"source"`
	Destination string `json:"destination" yaml:"destination"`
	Payload     string `json:"payload" yaml:"payload"`
}

func newRecord(offset int64, m ipc.Message) Record {
	return Record{
		Offset:      offset,
		Type:        m.Type.String(),
		Code:        uint32(m.Type),
		Source:      m.Source.String(),
		Destination: m.Destination.String(),
		Payload:     hex.EncodeToString(trimZeros(m.Payload[:])),
	}
}

// trimZeros drops trailing zero bytes so mostly-empty payloads stay readable.
func trimZeros(b []byte) []byte {
	return bytes.TrimRight(b, "\x00")
}

// Formatter renders records.
type Formatter interface {
	Format(records []Record) string
}

// NewFormatter returns a Formatter for the given format string.
// Supported formats: "table" (default), "json", "yaml".
func NewFormatter(format string) Formatter {
	switch strings.ToLower(format) {
	case "json":
		return &JSONFormatter{}
	case "yaml":
		return &YAMLFormatter{}
	default:
		return &TableFormatter{}
	}
}

// TableFormatter formats records as an aligned table.
type TableFormatter struct{}

func (f *TableFormatter) Format(records []Record) string {
	if len(records) == 0 {
		return "No messages found.\n"
	}

	var buf bytes.Buffer
	w := tabwriter.NewWriter(&buf, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "OFFSET\tTYPE\tSOURCE\tDESTINATION\tPAYLOAD")
	for _, r := range records {
		fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%s\n", r.Offset, r.Type, r.Source, r.Destination, r.Payload)
	}
	w.Flush()

	header, rows, _ := strings.Cut(buf.String(), "\n")
	return headerStyle.Render(header) + "\n" + rows
}

// JSONFormatter formats records as indented JSON.
type JSONFormatter struct{}

func (f *JSONFormatter) Format(records []Record) string {
	b, err := json.MarshalIndent(records, "", "  ")
	if err != nil {
		return fmt.Sprintf("error formatting JSON: %v\n", err)
	}
	return string(b) + "\n"
}

// YAMLFormatter formats records as YAML.
type YAMLFormatter struct{}

func (f *YAMLFormatter) Format(records []Record) string {
	b, err := yaml.Marshal(records)
	if err != nil {
		return fmt.Sprintf("error formatting YAML: %v\n", err)
	}
	return string(b)
}
