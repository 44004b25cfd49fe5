package model

import (
	"bytes"
	"encoding/json"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"
)

// RawLineItems is the extracted line-item list. Upstream steps deliver it
// either as a JSON array or as a string holding the JSON-encoded array.
// Decoding never fails: malformed input yields an empty list.
type RawLineItems []RawLineItem

// UnmarshalJSON implements json.Unmarshaler.
func (l *RawLineItems) UnmarshalJSON(b []byte) error {
	items, err := ParseLineItems(b)
	if err != nil {
		zap.L().Debug("discarding undecodable line items", zap.Error(err))
		*l = RawLineItems{}
		return nil
	}
	*l = items
	return nil
}

// ParseLineItems decodes a line-item array, unwrapping one level of
// JSON string encoding when present. null decodes to an empty list.
func ParseLineItems(b []byte) (RawLineItems, error) {
	b = bytes.TrimSpace(b)
	if len(b) == 0 || bytes.Equal(b, []byte("null")) {
		return RawLineItems{}, nil
	}

	if b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return nil, eris.Wrap(err, "line items: decode string")
		}
		if s == "" {
			return RawLineItems{}, nil
		}
		b = []byte(s)
	}

	var items []RawLineItem
	if err := json.Unmarshal(b, &items); err != nil {
		return nil, eris.Wrap(err, "line items: decode array")
	}
	if items == nil {
		items = []RawLineItem{}
	}
	return items, nil
}
