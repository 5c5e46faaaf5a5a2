package quiz

import "methodquiz/internal/model"

// MethodCorrect reports whether the canonical method at index is flagged correct.
// Missing studies and out-of-range indices are simply not correct.
func MethodCorrect(study *model.Study, canonical int) bool {
	m, ok := study.Method(canonical)
	return ok && m.IsCorrect
}

// FixCorrect reports whether the canonical fix at index is flagged correct.
func FixCorrect(method *model.Method, canonical int) bool {
	f, ok := method.Fix(canonical)
	return ok && f.IsCorrect
}
