// Package render writes UUIDs in the output formats supported by uuidgen.
package render

import (
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"time"

	uuid "github.com/ClydeShen/Angular2-UUIID"
	"gopkg.in/yaml.v3"
)

// Record describes one UUID for the structured formats.
type Record struct {
	UUID      string            `json:"uuid" yaml:"uuid"`
	URN       string            `json:"urn" yaml:"urn"`
	Version   int               `json:"version" yaml:"version"`
	Variant   string            `json:"variant" yaml:"variant"`
	Fields    map[string]string `json:"fields" yaml:"fields"`
	Timestamp int64             `json:"timestamp,omitempty" yaml:"timestamp,omitempty"`
	Time      string            `json:"time,omitempty" yaml:"time,omitempty"`
}

// NewRecord describes id. Fields are keyed by name and hold hex strings.
func NewRecord(id uuid.UUID) Record {
	hexFields := id.HexFields()
	fields := make(map[string]string, len(hexFields))
	for i, name := range uuid.FieldNames {
		fields[name] = hexFields[i]
	}
	rec := Record{
		UUID:    id.String(),
		URN:     id.URN(),
		Version: int(id.Version()),
		Variant: id.Variant().String(),
		Fields:  fields,
	}
	if id.Version() == uuid.VersionTimeBased {
		rec.Timestamp = id.Timestamp()
		rec.Time = id.Time().UTC().Format(time.RFC3339Nano)
	}
	return rec
}

type lineFunc func(uuid.UUID) string

var lineFormats = map[string]lineFunc{
	"hex":       uuid.UUID.String,
	"urn":       uuid.UUID.URN,
	"nodelim":   uuid.UUID.HexNoDelim,
	"bits":      uuid.UUID.BitString,
	"base64":    uuid.UUID.EncodeToBase64,
	"base64std": uuid.UUID.EncodeToBase64Std,
}

// Formats lists every supported format name.
func Formats() []string {
	names := []string{"json", "yaml"}
	for name := range lineFormats {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Supported reports whether format is known.
func Supported(format string) bool {
	if format == "json" || format == "yaml" {
		return true
	}
	_, ok := lineFormats[format]
	return ok
}

// Write renders ids to w. Line formats write one UUID per line; json writes
// an array of records and yaml a sequence of records.
func Write(w io.Writer, format string, ids []uuid.UUID) error {
	switch format {
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(records(ids))
	case "yaml":
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(records(ids)); err != nil {
			return err
		}
		return enc.Close()
	}

	line, ok := lineFormats[format]
	if !ok {
		return fmt.Errorf("render: unknown format %q", format)
	}
	for _, id := range ids {
		if _, err := fmt.Fprintln(w, line(id)); err != nil {
			return err
		}
	}
	return nil
}

func records(ids []uuid.UUID) []Record {
	out := make([]Record, len(ids))
	for i, id := range ids {
		out[i] = NewRecord(id)
	}
	return out
}
