package model

import (
	"bytes"
	"encoding/json"
	"math"
	"strconv"
	"strings"
)

// DefaultConfidence is assumed for any field the extraction engine did not score.
const DefaultConfidence = 1.0

// Text is a string that also decodes from JSON numbers and booleans.
// Objects and arrays decode to the empty string.
type Text string

// UnmarshalJSON implements json.Unmarshaler.
func (t *Text) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) == 0 {
		*t = ""
		return nil
	}
	switch b[0] {
	case '"':
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*t = Text(s)
	case '{', '[', 'n':
		*t = ""
	default:
		*t = Text(b)
	}
	return nil
}

// RawHeaderField is one extracted document-level attribute.
type RawHeaderField struct {
	Name       string   `json:"name"`
	RawValue   Text     `json:"rawValue"`
	Confidence *float64 `json:"confidence,omitempty"`
}

// UnmarshalJSON decodes a header field. Entries that are not objects decode
// as unnamed fields and are skipped by the header index.
func (f *RawHeaderField) UnmarshalJSON(b []byte) error {
	*f = RawHeaderField{}
	b = bytes.TrimSpace(b)
	if len(b) == 0 || b[0] != '{' {
		return nil
	}
	var aux struct {
		Name       Text            `json:"name"`
		RawValue   Text            `json:"rawValue"`
		Confidence json.RawMessage `json:"confidence"`
	}
	if err := json.Unmarshal(b, &aux); err != nil {
		return nil
	}
	f.Name = string(aux.Name)
	f.RawValue = aux.RawValue
	f.Confidence = parseConfidence(aux.Confidence)
	return nil
}

// RawLineField is one attribute of an extracted line item. Extractors emit
// either value or rawValue; value wins when both are set.
type RawLineField struct {
	Value      *Text    `json:"value,omitempty"`
	RawValue   *Text    `json:"rawValue,omitempty"`
	Confidence *float64 `json:"confidence,omitempty"`
}

// UnmarshalJSON decodes a line-item field. A field that is not an object
// decodes as empty.
func (f *RawLineField) UnmarshalJSON(b []byte) error {
	*f = RawLineField{}
	b = bytes.TrimSpace(b)
	if len(b) == 0 || b[0] != '{' {
		return nil
	}
	var aux struct {
		Value      *Text           `json:"value"`
		RawValue   *Text           `json:"rawValue"`
		Confidence json.RawMessage `json:"confidence"`
	}
	if err := json.Unmarshal(b, &aux); err != nil {
		return nil
	}
	f.Value = aux.Value
	f.RawValue = aux.RawValue
	f.Confidence = parseConfidence(aux.Confidence)
	return nil
}

// Text returns the preferred textual value of the field.
func (f *RawLineField) Text() string {
	if f == nil {
		return ""
	}
	if f.Value != nil && *f.Value != "" {
		return string(*f.Value)
	}
	if f.RawValue != nil {
		return string(*f.RawValue)
	}
	return ""
}

// Score returns the field confidence, or DefaultConfidence when unscored.
func (f *RawLineField) Score() float64 {
	if f == nil || f.Confidence == nil {
		return DefaultConfidence
	}
	return ClampConfidence(*f.Confidence)
}

// RawLineItem maps a line-item field name to its extracted value.
type RawLineItem map[string]*RawLineField

// UnmarshalJSON decodes a line item. A row that is not an object decodes as
// an item without fields so the row count is kept.
func (li *RawLineItem) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) == 0 || b[0] != '{' {
		*li = RawLineItem{}
		return nil
	}
	var fields map[string]*RawLineField
	if err := json.Unmarshal(b, &fields); err != nil {
		return err
	}
	if fields == nil {
		fields = map[string]*RawLineField{}
	}
	*li = fields
	return nil
}

// RawDocument is the extraction result handed to the review task.
type RawDocument struct {
	HeaderData []RawHeaderField `json:"headerData"`
	LineItems  RawLineItems     `json:"lineItems"`
	Enrichment json.RawMessage  `json:"enrichment,omitempty"`
	Comment    Text             `json:"comment,omitempty"`
}

// parseConfidence reads a confidence given as a number or a numeric string.
// Anything else counts as unscored.
func parseConfidence(raw json.RawMessage) *float64 {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return nil
	}
	var v float64
	switch raw[0] {
	case '"':
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			return nil
		}
		f, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
		if err != nil {
			return nil
		}
		v = f
	default:
		if err := json.Unmarshal(raw, &v); err != nil {
			return nil
		}
	}
	return &v
}

// ClampConfidence forces c into [0,1]. NaN is treated as no confidence.
func ClampConfidence(c float64) float64 {
	switch {
	case math.IsNaN(c), c < 0:
		return 0
	case c > 1:
		return 1
	default:
		return c
	}
}
