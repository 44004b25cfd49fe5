package model

// FieldValue is an extracted value with its confidence.
type FieldValue struct {
	Value      string
	Confidence float64
}

// HeaderMap is an indexed view over the extracted header fields.
type HeaderMap struct {
	byName map[string]FieldValue
}

// NewHeaderMap indexes header fields by name. Later duplicates overwrite
// earlier ones; unnamed fields are skipped.
func NewHeaderMap(fields []RawHeaderField) *HeaderMap {
	m := &HeaderMap{byName: make(map[string]FieldValue, len(fields))}
	for _, f := range fields {
		if f.Name == "" {
			continue
		}
		conf := DefaultConfidence
		if f.Confidence != nil {
			conf = ClampConfidence(*f.Confidence)
		}
		m.byName[f.Name] = FieldValue{Value: string(f.RawValue), Confidence: conf}
	}
	return m
}

// Get returns the value for name, or an empty value with DefaultConfidence
// when the field was not extracted.
func (m *HeaderMap) Get(name string) FieldValue {
	if m != nil {
		if v, ok := m.byName[name]; ok {
			return v
		}
	}
	return FieldValue{Confidence: DefaultConfidence}
}

// Has reports whether name was extracted.
func (m *HeaderMap) Has(name string) bool {
	if m == nil {
		return false
	}
	_, ok := m.byName[name]
	return ok
}

// Len returns the number of distinct header fields.
func (m *HeaderMap) Len() int {
	if m == nil {
		return 0
	}
	return len(m.byName)
}
