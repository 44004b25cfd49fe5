package model

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestComments_MarshalJSON(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		in   Comments
		want string
	}{
		{"none", nil, `""`},
		{"one", Comments{"Bitte bis Freitag liefern"}, `"Bitte bis Freitag liefern"`},
		{"many", Comments{"Zeile 1", "Zeile 2"}, `["Zeile 1","Zeile 2"]`},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			b, err := json.Marshal(tt.in)
			require.NoError(t, err)
			assert.JSONEq(t, tt.want, string(b))

			var back Comments
			require.NoError(t, json.Unmarshal(b, &back))
			assert.Equal(t, len(tt.in), len(back))
		})
	}
}

func TestComments_String(t *testing.T) {
	t.Parallel()
	assert.Equal(t, "a\nb", Comments{"a", "b"}.String())
	assert.Equal(t, "", Comments(nil).String())
}

func TestJoinCityState(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "Zürich, ZH", JoinCityState("Zürich", "ZH"))
	assert.Equal(t, "Zürich", JoinCityState("Zürich", ""))
	assert.Equal(t, "ZH", JoinCityState("", "ZH"))
	assert.Equal(t, "", JoinCityState("", ""))
}

func TestParseEnrichment(t *testing.T) {
	t.Parallel()

	e := ParseEnrichment(json.RawMessage(`{"sender":{"id":100234,"name":"Muster AG","city":"Bern","state":"BE","Adress1":"Marktgasse 1","postalCode":"3011"}}`))
	require.NotNil(t, e)
	require.NotNil(t, e.Sender)
	assert.Equal(t, Text("100234"), e.Sender.ID)
	assert.Equal(t, Text("Marktgasse 1"), e.Sender.Address1)
	assert.Equal(t, Text("3011"), e.Sender.PostalCode)
}

func TestParseEnrichment_AddressSpelling(t *testing.T) {
	t.Parallel()

	e := ParseEnrichment(json.RawMessage(`{"sender":{"id":"C-1","address1":"Bahnhofstrasse 5"}}`))
	require.NotNil(t, e)
	require.NotNil(t, e.Sender)
	assert.Equal(t, Text("C-1"), e.Sender.ID)
	assert.Equal(t, Text("Bahnhofstrasse 5"), e.Sender.Address1)
}

func TestParseEnrichment_Absent(t *testing.T) {
	t.Parallel()

	assert.Nil(t, ParseEnrichment(nil))
	assert.Nil(t, ParseEnrichment(json.RawMessage(`null`)))
	assert.Nil(t, ParseEnrichment(json.RawMessage(`"x"`)))

	e := ParseEnrichment(json.RawMessage(`{}`))
	require.NotNil(t, e)
	assert.Nil(t, e.Sender)
}
