package diagfmt

import (
	"bytes"
	"encoding/json"
	"testing"

	"ohdl/internal/lexer"
	"ohdl/internal/source"
)

func TestJSONOutput(t *testing.T) {
	bag, fs := duplicateBag(t)
	var buf bytes.Buffer
	if err := JSON(&buf, bag, fs, JSONOpts{IncludePositions: true, IncludeNotes: true}); err != nil {
		t.Fatalf("JSON: %v", err)
	}
	var out DiagnosticsOutput
	if err := json.Unmarshal(buf.Bytes(), &out); err != nil {
		t.Fatalf("invalid JSON: %v\n%s", err, buf.String())
	}
	if out.Count != 1 || len(out.Diagnostics) != 1 {
		t.Fatalf("count = %d", out.Count)
	}
	d := out.Diagnostics[0]
	if d.Code != "SEM3001" || d.Severity != "ERROR" {
		t.Fatalf("unexpected header %+v", d)
	}
	if d.Location.StartLine != 2 || d.Location.StartCol != 8 || d.Location.File != "test.ohd" {
		t.Fatalf("unexpected location %+v", d.Location)
	}
	if len(d.Notes) != 1 || d.Notes[0].Location.StartLine != 1 {
		t.Fatalf("unexpected notes %+v", d.Notes)
	}
}

func TestJSONMaxAndNoPositions(t *testing.T) {
	bag, fs := duplicateBag(t)
	bag.Add(bag.Items()[0])
	out := BuildDiagnosticsOutput(bag.Items(), fs, JSONOpts{Max: 1})
	if out.Count != 1 {
		t.Fatalf("Max must cap the output, got %d", out.Count)
	}
	if out.Diagnostics[0].Location.StartLine != 0 || out.Diagnostics[0].Notes != nil {
		t.Fatalf("positions and notes are opt-in: %+v", out.Diagnostics[0])
	}
}

func TestFormatTokensJSON(t *testing.T) {
	fs := source.NewFileSet()
	id := fs.AddVirtual("t.ohd", []byte("use a::B;"))
	toks := lexer.New(fs.Get(id), lexer.Options{}).All()
	var buf bytes.Buffer
	if err := FormatTokensJSON(&buf, toks); err != nil {
		t.Fatalf("FormatTokensJSON: %v", err)
	}
	var out []TokenOutput
	if err := json.Unmarshal(buf.Bytes(), &out); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	if len(out) != 6 || out[0].Kind != "'use'" || out[5].Kind != "end of file" {
		t.Fatalf("unexpected tokens %+v", out)
	}
}
