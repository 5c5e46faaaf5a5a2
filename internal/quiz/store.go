package quiz

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"methodquiz/internal/model"
)

// Store is the read-only question store. Studies are identified by position.
type Store struct {
	studies []model.Study
}

func NewStore(studies []model.Study) *Store {
	cp := make([]model.Study, len(studies))
	copy(cp, studies)
	return &Store{studies: cp}
}

// DecodeStore reads a JSON array of studies.
func DecodeStore(r io.Reader) (*Store, error) {
	var studies []model.Study
	if err := json.NewDecoder(r).Decode(&studies); err != nil {
		return nil, fmt.Errorf("decode studies: %w", err)
	}
	return NewStore(studies), nil
}

// LoadStore reads a prepared study file from disk.
func LoadStore(path string) (*Store, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open studies: %w", err)
	}
	defer f.Close()
	return DecodeStore(f)
}

func (s *Store) Len() int {
	if s == nil {
		return 0
	}
	return len(s.studies)
}

// At returns the study at index, or nil when there is none.
func (s *Store) At(index int) *model.Study {
	if s == nil || index < 0 || index >= len(s.studies) {
		return nil
	}
	return &s.studies[index]
}

// All returns a copy of every study.
func (s *Store) All() []model.Study {
	if s == nil {
		return nil
	}
	cp := make([]model.Study, len(s.studies))
	copy(cp, s.studies)
	return cp
}

// Audit lists authoring problems: studies without exactly one correct
// method, and methods without any correct fix.
func Audit(studies []model.Study) []string {
	var warnings []string
	for i := range studies {
		st := &studies[i]
		if len(st.Methods) == 0 {
			warnings = append(warnings, fmt.Sprintf("study %d (%q): no methods", i, st.Title))
			continue
		}
		if n := st.CorrectMethods(); n != 1 {
			warnings = append(warnings, fmt.Sprintf("study %d (%q): %d correct methods, want 1", i, st.Title, n))
		}
		for j := range st.Methods {
			m := &st.Methods[j]
			if m.IsCorrect && m.CorrectFixes() == 0 {
				warnings = append(warnings, fmt.Sprintf("study %d (%q) method %d: no correct fix", i, st.Title, j))
			}
		}
	}
	return warnings
}
