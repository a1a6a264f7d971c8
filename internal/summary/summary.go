// Package summary reads and writes the id,title,labels CSV that connects the
// simulate stage to the publish stage.
package summary

import (
	"bytes"
	"fmt"
	"os"
	"strings"

	"github.com/RamXX/backplan/internal/model"
)

// Header is the exact header row of a summary CSV.
var Header = []string{"id", "title", "labels"}

// LabelSeparator joins labels inside a single CSV or JSON field.
const LabelSeparator = ";"

// JoinLabels flattens labels into one field.
func JoinLabels(labels []string) string {
	return strings.Join(labels, LabelSeparator)
}

// SplitLabels is the inverse of JoinLabels; blank entries are dropped.
func SplitLabels(field string) []string {
	var out []string
	for _, l := range strings.Split(field, LabelSeparator) {
		if l = strings.TrimSpace(l); l != "" {
			out = append(out, l)
		}
	}
	return out
}

// Encode renders rows as CSV with a header line. Fields are quoted only when
// they contain a comma, a double quote or a line break.
func Encode(rows []model.SummaryRow) []byte {
	var buf bytes.Buffer
	writeRecord(&buf, Header)
	for _, r := range rows {
		writeRecord(&buf, []string{r.ID, r.Title, JoinLabels(r.Labels)})
	}
	return buf.Bytes()
}

func writeRecord(buf *bytes.Buffer, fields []string) {
	for i, f := range fields {
		if i > 0 {
			buf.WriteByte(',')
		}
		buf.WriteString(quote(f))
	}
	buf.WriteByte('\n')
}

func quote(field string) string {
	if !strings.ContainsAny(field, ",\"\r\n") {
		return field
	}
	return `"` + strings.ReplaceAll(field, `"`, `""`) + `"`
}

// Load reads a summary CSV from disk.
func Load(path string) ([]model.SummaryRow, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read summary: %w", err)
	}
	rows, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return rows, nil
}

// Parse decodes a summary CSV. Whitespace-only input yields no rows.
func Parse(data []byte) ([]model.SummaryRow, error) {
	data = bytes.TrimPrefix(data, []byte("\xef\xbb\xbf"))
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, nil
	}
	records, err := parseRecords(string(data))
	if err != nil {
		return nil, err
	}
	if len(records) == 0 || !equalFields(records[0].fields, Header) {
		got := ""
		if len(records) > 0 {
			got = strings.Join(records[0].fields, ",")
		}
		return nil, fmt.Errorf("summary header %q does not match %q", got, strings.Join(Header, ","))
	}

	rows := make([]model.SummaryRow, 0, len(records)-1)
	for _, rec := range records[1:] {
		if len(rec.fields) != len(Header) {
			return nil, fmt.Errorf("line %d: expected %d fields, got %d", rec.line, len(Header), len(rec.fields))
		}
		rows = append(rows, model.SummaryRow{
			ID:     rec.fields[0],
			Title:  rec.fields[1],
			Labels: SplitLabels(rec.fields[2]),
		})
	}
	return rows, nil
}

type record struct {
	line   int
	fields []string
}

// parseRecords is a small RFC 4180 reader: quoted fields may contain commas,
// line breaks and doubled quotes; records end at \n or \r\n. Blank lines
// between records are skipped.
func parseRecords(s string) ([]record, error) {
	var (
		records  []record
		fields   []string
		field    strings.Builder
		line     = 1
		start    = 1
		inQuotes bool
		quoted   bool
		dirty    bool
	)
	endField := func() {
		fields = append(fields, field.String())
		field.Reset()
		quoted = false
	}
	endRecord := func() {
		if dirty || len(fields) > 0 || field.Len() > 0 || quoted {
			endField()
			records = append(records, record{line: start, fields: fields})
		}
		fields = nil
		dirty = false
	}

	for i := 0; i < len(s); i++ {
		c := s[i]
		if inQuotes {
			switch {
			case c == '"' && i+1 < len(s) && s[i+1] == '"':
				field.WriteByte('"')
				i++
			case c == '"':
				inQuotes = false
			default:
				if c == '\n' {
					line++
				}
				field.WriteByte(c)
			}
			continue
		}

		switch c {
		case '"':
			if field.Len() > 0 || quoted {
				return nil, fmt.Errorf("line %d: unexpected quote in unquoted field", line)
			}
			inQuotes, quoted, dirty = true, true, true
		case ',':
			endField()
			dirty = true
		case '\r':
			if i+1 < len(s) && s[i+1] == '\n' {
				continue
			}
			field.WriteByte(c)
			dirty = true
		case '\n':
			endRecord()
			line++
			start = line
		default:
			if quoted {
				return nil, fmt.Errorf("line %d: unexpected text after closing quote", line)
			}
			field.WriteByte(c)
			dirty = true
		}
	}
	if inQuotes {
		return nil, fmt.Errorf("line %d: unterminated quoted field", start)
	}
	endRecord()
	return records, nil
}

func equalFields(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
