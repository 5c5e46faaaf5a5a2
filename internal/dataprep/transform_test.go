package dataprep

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/xuri/excelize/v2"
)

const sheet = `Example,Study Description,Independent Variable,Dependent Variable,Experimental Methods,Correct,fix1,fix1 correct
Sleep,"Does sleep, or its absence, matter?",Hours slept,Words recalled,Morning test,N,Test at noon,N
,,,,"Randomise
sleep",Y,"Use a ""blind"" scorer",Y

,,,,,,,
Caffeine,Reaction time study,Dose,Reaction time
, , , ,Counterbalance,Y
`

func TestReadCSV(t *testing.T) {
	rows, err := ReadCSV(strings.NewReader(sheet))
	if err != nil {
		t.Fatalf("ReadCSV: %v", err)
	}
	if len(rows) != 5 {
		t.Fatalf("rows = %d, want 5 (blank rows dropped)", len(rows))
	}
	if rows[1][1] != "Does sleep, or its absence, matter?" {
		t.Errorf("embedded delimiter: %q", rows[1][1])
	}
	if rows[2][4] != "Randomise\nsleep" {
		t.Errorf("embedded newline: %q", rows[2][4])
	}
	if rows[2][6] != `Use a "blind" scorer` {
		t.Errorf("escaped quote: %q", rows[2][6])
	}
	if rows[4][1] != "" {
		t.Errorf("fields not trimmed: %q", rows[4][1])
	}
}

func TestReadCSVEmpty(t *testing.T) {
	for _, in := range []string{"", "  \n\n ", "\ufeff"} {
		if _, err := ReadCSV(strings.NewReader(in)); !errors.Is(err, ErrEmptySource) {
			t.Errorf("ReadCSV(%q) err = %v, want ErrEmptySource", in, err)
		}
	}
	if _, err := ReadCSV(strings.NewReader("a,\"unterminated\n")); err == nil {
		t.Error("unterminated quote parsed")
	}
}

func TestTransform(t *testing.T) {
	rows, err := ReadCSV(strings.NewReader(sheet))
	if err != nil {
		t.Fatal(err)
	}
	records, err := Transform(rows)
	if err != nil {
		t.Fatalf("Transform: %v", err)
	}
	if len(records) != 2 {
		t.Fatalf("records = %d, want 2", len(records))
	}

	sleep := records[0]
	if len(sleep.Fields) != 4 {
		t.Errorf("study fields = %+v", sleep.Fields)
	}
	if v, _ := sleep.Get(DependentVariableHeader); v != "Words recalled" {
		t.Errorf("dependent variable = %q", v)
	}
	if len(sleep.SubElements) != 2 {
		t.Fatalf("sub-elements = %d, want 2", len(sleep.SubElements))
	}
	if v, _ := sleep.SubElements[0].Get("Experimental Methods"); v != "Morning test" {
		t.Errorf("parent row method = %q", v)
	}
	if _, ok := sleep.SubElements[1].Get("Example"); ok {
		t.Error("continuation row kept an empty column")
	}

	caffeine := records[1]
	if len(caffeine.SubElements) != 1 {
		t.Errorf("caffeine sub-elements = %d, want 1", len(caffeine.SubElements))
	}
}

func TestTransformErrors(t *testing.T) {
	tests := []struct {
		name string
		rows [][]string
		want error
	}{
		{"nothing", nil, ErrNoRows},
		{"header only", [][]string{{"Example", "Dependent Variable"}}, ErrNoRows},
		{"no dependent variable", [][]string{{"Example", "Outcome"}, {"x", "y"}}, ErrMissingHeader},
		{"only orphans", [][]string{{"Example", "Dependent Variable", "M"}, {"", "", "m"}}, ErrNoRows},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := Transform(tt.rows); !errors.Is(err, tt.want) {
				t.Errorf("err = %v, want %v", err, tt.want)
			}
		})
	}
}

func TestEncodeKeepsHeaderOrder(t *testing.T) {
	rows := [][]string{
		{"Example", "Study Description", "Independent Variable", "Dependent Variable", "Experimental Methods"},
		{"B <first>", "desc", "iv", "dv", "m & n"},
	}
	records, err := Transform(rows)
	if err != nil {
		t.Fatal(err)
	}
	out, err := Encode(records)
	if err != nil {
		t.Fatal(err)
	}
	text := string(out)

	prev := -1
	for _, key := range []string{`"Example"`, `"Study Description"`, `"Independent Variable"`, `"Dependent Variable"`, `"subElements"`} {
		idx := strings.Index(text, key)
		if idx <= prev {
			t.Fatalf("%s out of order in\n%s", key, text)
		}
		prev = idx
	}
	if !strings.Contains(text, "\n  {\n    \"Example\": \"B <first>\"") {
		t.Errorf("unexpected layout:\n%s", text)
	}
	if !strings.Contains(text, `"m & n"`) {
		t.Errorf("HTML characters escaped:\n%s", text)
	}
}

func TestConvertAudits(t *testing.T) {
	rows, err := ReadCSV(strings.NewReader(sheet))
	if err != nil {
		t.Fatal(err)
	}
	res, err := Convert(rows)
	if err != nil {
		t.Fatalf("Convert: %v", err)
	}
	if res.Studies != 2 || res.SubElements != 3 {
		t.Errorf("result = %d studies, %d sub-elements", res.Studies, res.SubElements)
	}
	// the caffeine method has no correct fix
	if len(res.Warnings) != 1 {
		t.Errorf("warnings = %v", res.Warnings)
	}
}

func TestReadXLSX(t *testing.T) {
	f := excelize.NewFile()
	defer f.Close()
	data := [][]interface{}{
		{"Example", "Study Description", "Independent Variable", "Dependent Variable", "Experimental Methods"},
		{"Sleep", "desc", "iv", "dv"},
		{"", "", "", "", "Randomise"},
	}
	for i, row := range data {
		cellName, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			t.Fatal(err)
		}
		if err := f.SetSheetRow("Sheet1", cellName, &row); err != nil {
			t.Fatal(err)
		}
	}
	buf, err := f.WriteToBuffer()
	if err != nil {
		t.Fatal(err)
	}

	rows, err := ReadXLSX(bytes.NewReader(buf.Bytes()), "")
	if err != nil {
		t.Fatalf("ReadXLSX: %v", err)
	}
	records, err := Transform(rows)
	if err != nil {
		t.Fatal(err)
	}
	if len(records) != 1 || len(records[0].SubElements) != 1 {
		t.Errorf("records = %+v", records)
	}

	if _, err := ReadXLSX(bytes.NewReader(buf.Bytes()), "Missing"); err == nil {
		t.Error("missing sheet read")
	}
}

func TestWriteFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "data.json")
	if err := os.WriteFile(path, []byte("old"), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := WriteFile(path, []byte("[]\n")); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	got, err := os.ReadFile(path)
	if err != nil || string(got) != "[]\n" {
		t.Errorf("content = %q, %v", got, err)
	}
	entries, _ := os.ReadDir(dir)
	if len(entries) != 1 {
		t.Errorf("temp files left behind: %v", entries)
	}

	if err := WriteFile(filepath.Join(dir, "missing", "data.json"), []byte("[]")); err == nil {
		t.Error("write into a missing directory succeeded")
	}
}
