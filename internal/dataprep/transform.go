package dataprep

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"methodquiz/internal/model"
	"methodquiz/internal/quiz"
)

// DependentVariableHeader ends the study columns of a parent row.
const DependentVariableHeader = "Dependent Variable"

// Field is one header/value pair.
type Field struct {
	Key   string
	Value string
}

// Record is a JSON object whose keys keep the header order.
type Record struct {
	Fields      []Field
	SubElements []Record
}

func (r *Record) set(key, value string) {
	for i := range r.Fields {
		if r.Fields[i].Key == key {
			r.Fields[i].Value = value
			return
		}
	}
	r.Fields = append(r.Fields, Field{Key: key, Value: value})
}

// Get returns the value stored under key.
func (r Record) Get(key string) (string, bool) {
	for _, f := range r.Fields {
		if f.Key == key {
			return f.Value, true
		}
	}
	return "", false
}

func (r Record) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, f := range r.Fields {
		if i > 0 {
			buf.WriteByte(',')
		}
		writeString(&buf, f.Key)
		buf.WriteByte(':')
		writeString(&buf, f.Value)
	}
	if len(r.SubElements) > 0 {
		if len(r.Fields) > 0 {
			buf.WriteByte(',')
		}
		buf.WriteString(`"subElements":[`)
		for i, sub := range r.SubElements {
			if i > 0 {
				buf.WriteByte(',')
			}
			b, err := sub.MarshalJSON()
			if err != nil {
				return nil, err
			}
			buf.Write(b)
		}
		buf.WriteByte(']')
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

func writeString(buf *bytes.Buffer, s string) {
	enc := json.NewEncoder(buf)
	enc.SetEscapeHTML(false)
	_ = enc.Encode(s)
	buf.Truncate(buf.Len() - 1) // Encode appends a newline
}

// Transform turns header-led rows into studies. A row with a first column
// starts a study from the columns up to the dependent variable; any later
// populated columns become its first sub-element. A row with an empty first
// column adds a sub-element to the current study.
func Transform(rows [][]string) ([]Record, error) {
	if len(rows) == 0 {
		return nil, ErrNoRows
	}
	headers := rows[0]
	depIdx := -1
	for i, h := range headers {
		if h == DependentVariableHeader {
			depIdx = i
			break
		}
	}
	if depIdx < 0 {
		return nil, ErrMissingHeader
	}
	if len(rows) == 1 {
		return nil, ErrNoRows
	}

	var (
		out     []Record
		current *Record
	)
	for _, row := range rows[1:] {
		if cell(row, 0) != "" {
			rec := Record{}
			for j := 0; j <= depIdx; j++ {
				rec.set(headers[j], cell(row, j))
			}
			if sub := populated(headers, row, depIdx+1); len(sub.Fields) > 0 {
				rec.SubElements = []Record{sub}
			}
			out = append(out, rec)
			current = &out[len(out)-1]
			continue
		}
		if current == nil {
			continue
		}
		current.SubElements = append(current.SubElements, populated(headers, row, 0))
	}
	if len(out) == 0 {
		return nil, ErrNoRows
	}
	return out, nil
}

func populated(headers, row []string, from int) Record {
	rec := Record{}
	for j := from; j < len(headers); j++ {
		if v := cell(row, j); v != "" {
			rec.set(headers[j], v)
		}
	}
	return rec
}

func cell(row []string, i int) string {
	if i < len(row) {
		return row[i]
	}
	return ""
}

// Encode renders records as a two-space indented JSON array.
func Encode(records []Record) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(records); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Result summarises a conversion.
type Result struct {
	Studies     int
	SubElements int
	Warnings    []string
	JSON        []byte
}

// Convert transforms rows, encodes them and audits the resulting studies.
func Convert(rows [][]string) (*Result, error) {
	records, err := Transform(rows)
	if err != nil {
		return nil, err
	}
	data, err := Encode(records)
	if err != nil {
		return nil, fmt.Errorf("encode studies: %w", err)
	}
	var studies []model.Study
	if err := json.Unmarshal(data, &studies); err != nil {
		return nil, fmt.Errorf("decode studies: %w", err)
	}

	res := &Result{Studies: len(records), JSON: data, Warnings: quiz.Audit(studies)}
	for _, r := range records {
		res.SubElements += len(r.SubElements)
	}
	return res, nil
}

// WriteFile replaces path atomically; a failed write leaves no output behind.
func WriteFile(path string, data []byte) error {
	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, filepath.Base(path)+".tmp-*")
	if err != nil {
		return err
	}
	name := tmp.Name()
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(name)
		return err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(name)
		return err
	}
	if err := os.Chmod(name, 0o644); err != nil {
		os.Remove(name)
		return err
	}
	if err := os.Rename(name, path); err != nil {
		os.Remove(name)
		return err
	}
	return nil
}
