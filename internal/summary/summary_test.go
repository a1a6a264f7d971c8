package summary

import (
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"github.com/RamXX/backplan/internal/model"
)

func TestEncodeQuoting(t *testing.T) {
	rows := []model.SummaryRow{
		{ID: "gp-001", Title: "Plain title", Labels: []string{"status:mvp", "ui"}},
		{ID: "gp-002", Title: `Say "hi", world`, Labels: []string{"status:backlog"}},
		{ID: "gp-003", Title: "Two\nlines", Labels: nil},
	}
	got := string(Encode(rows))
	want := "id,title,labels\n" +
		"gp-001,Plain title,status:mvp;ui\n" +
		"gp-002,\"Say \"\"hi\"\", world\",status:backlog\n" +
		"gp-003,\"Two\nlines\",\n"
	if got != want {
		t.Errorf("Encode =\n%q\nwant\n%q", got, want)
	}
}

func TestRoundTrip(t *testing.T) {
	drafts := []model.IssueDraft{
		{ID: "a-1", Title: `Quotes "and", commas`, Labels: []string{"status:mvp", "x,y"}},
		{ID: "b-2", Title: "Multi\r\nline", Labels: []string{"status:shipped"}},
		{ID: "c-3", Title: " padded ", Labels: []string{"status:backlog", "docs", "ui"}},
	}
	var rows []model.SummaryRow
	for _, d := range drafts {
		rows = append(rows, d.Summary())
	}
	got, err := Parse(Encode(rows))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if len(got) != len(drafts) {
		t.Fatalf("rows = %d, want %d", len(got), len(drafts))
	}
	for i, d := range drafts {
		if got[i].ID != d.ID || got[i].Title != d.Title {
			t.Errorf("row %d = %q/%q, want %q/%q", i, got[i].ID, got[i].Title, d.ID, d.Title)
		}
	}
	// "x,y" survives because the whole labels field is quoted.
	if !reflect.DeepEqual(got[0].Labels, []string{"status:mvp", "x,y"}) {
		t.Errorf("labels = %v", got[0].Labels)
	}
	if !reflect.DeepEqual(got[2].Labels, []string{"status:backlog", "docs", "ui"}) {
		t.Errorf("labels = %v", got[2].Labels)
	}
}

func TestParseLineEndings(t *testing.T) {
	lf := "id,title,labels\na,A,l1;l2\nb,B,\n"
	crlf := strings.ReplaceAll(lf, "\n", "\r\n")
	for name, in := range map[string]string{"lf": lf, "crlf": crlf, "no-trailing": strings.TrimSuffix(lf, "\n")} {
		t.Run(name, func(t *testing.T) {
			rows, err := Parse([]byte(in))
			if err != nil {
				t.Fatalf("Parse: %v", err)
			}
			if len(rows) != 2 {
				t.Fatalf("rows = %d, want 2", len(rows))
			}
			if rows[1].ID != "b" || rows[1].Labels != nil {
				t.Errorf("row 2 = %+v", rows[1])
			}
		})
	}
}

func TestParseQuotedFields(t *testing.T) {
	in := "id,title,labels\r\n\"a\",\"He said \"\"go\"\"\",\"x;y\"\r\n\"\",\"\",\"\"\r\n"
	rows, err := Parse([]byte(in))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if rows[0].Title != `He said "go"` {
		t.Errorf("title = %q", rows[0].Title)
	}
	if len(rows) != 2 || rows[1].ID != "" {
		t.Errorf("quoted empty record not kept: %+v", rows)
	}
}

func TestParseEmpty(t *testing.T) {
	for _, in := range []string{"", "  \n\r\n\t"} {
		rows, err := Parse([]byte(in))
		if err != nil {
			t.Errorf("Parse(%q): %v", in, err)
		}
		if len(rows) != 0 {
			t.Errorf("Parse(%q) = %v, want no rows", in, rows)
		}
	}
}

func TestParseHeaderOnly(t *testing.T) {
	rows, err := Parse([]byte("\xef\xbb\xbfid,title,labels\n"))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if len(rows) != 0 {
		t.Errorf("rows = %v", rows)
	}
}

func TestParseErrors(t *testing.T) {
	tests := map[string]string{
		"wrong header":     "id,name,labels\na,b,c\n",
		"extra column":     "id,title,labels,extra\n",
		"short row":        "id,title,labels\na,b\n",
		"long row":         "id,title,labels\na,b,c,d\n",
		"unterminated":     "id,title,labels\n\"a,b,c\n",
		"stray quote":      "id,title,labels\na\"b,c,d\n",
		"text after quote": "id,title,labels\n\"a\"b,c,d\n",
	}
	for name, in := range tests {
		t.Run(name, func(t *testing.T) {
			if _, err := Parse([]byte(in)); err == nil {
				t.Errorf("Parse(%q) should fail", in)
			}
		})
	}
}

func TestParseReportsLine(t *testing.T) {
	_, err := Parse([]byte("id,title,labels\n\"multi\nline\",t,l\nshort\n"))
	if err == nil || !strings.Contains(err.Error(), "line 4") {
		t.Errorf("expected error naming line 4, got %v", err)
	}
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "summary.csv")
	if err := os.WriteFile(path, Encode([]model.SummaryRow{{ID: "a", Title: "A"}}), 0o644); err != nil {
		t.Fatal(err)
	}
	rows, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(rows) != 1 || rows[0].ID != "a" {
		t.Errorf("rows = %+v", rows)
	}
	if _, err := Load(path + ".missing"); err == nil {
		t.Error("missing file should fail")
	}
}
