package extract

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/order-inbox/internal/model"
)

const sampleDocument = `{
	"headerData": [
		{"name": "documentNumber", "rawValue": "4500012345", "confidence": 0.97},
		{"name": "documentDate", "rawValue": "14.10.2025", "confidence": 0.91},
		{"name": "netAmount", "rawValue": "1250.50"},
		{"name": "currencyCode", "rawValue": "CHF", "confidence": 0.99},
		{"name": "deliveryDate", "rawValue": "21. Oktober 2025", "confidence": 0.72},
		{"name": "senderId", "rawValue": "100234"},
		{"name": "senderName", "rawValue": "Muster AG", "confidence": 0.95},
		{"name": "senderStreet", "rawValue": "Bahnhofstrasse,", "confidence": 0.9},
		{"name": "senderHouseNumber", "rawValue": " 12 ", "confidence": 0.6},
		{"name": "senderCity", "rawValue": "Zürich", "confidence": 0.8},
		{"name": "senderState", "rawValue": "ZH", "confidence": 0.7},
		{"name": "senderPostalCode", "rawValue": "8001,", "confidence": 0.85},
		{"name": "shipToName", "rawValue": "Muster AG Lager"},
		{"name": "shipToStreet", "rawValue": "Industriestrasse 3"},
		{"name": "shipToCity", "rawValue": "Winterthur"},
		{"name": "comment", "rawValue": "  Bitte Liefertermin einhalten \r\n\n Rampe 2  "}
	],
	"lineItems": [
		{
			"description": {"rawValue": "Sechskantschraube M8", "confidence": 0.88},
			"quantity": {"value": "200", "rawValue": "200 Stk", "confidence": 0.93},
			"unitOfMeasure": {"rawValue": "PCE"},
			"supplierMaterialNumber": {"rawValue": "MAT-0815"},
			"customerMaterialNumber": {"rawValue": "K-4711"},
			"netAmount": {"rawValue": 640}
		},
		{
			"description": {"rawValue": "Unterlegscheibe"}
		}
	],
	"enrichment": {
		"sender": {"id": "C-100234", "name": "Muster AG", "city": "Zürich", "state": "ZH", "Adress1": "Bahnhofstrasse 12", "postalCode": "8001"}
	}
}`

func decode(t *testing.T, s string) *model.RawDocument {
	t.Helper()
	var doc model.RawDocument
	require.NoError(t, json.Unmarshal([]byte(s), &doc))
	return &doc
}

func TestNormalize_Header(t *testing.T) {
	t.Parallel()

	m := NewNormalizer().Normalize(decode(t, sampleDocument))

	assert.Equal(t, "Sales Order 4500012345", m.DocumentTitle)
	assert.Equal(t, "4500012345", m.PurchaseOrder)
	assert.Equal(t, "14.10.2025", m.PurchaseOrderDate)
	assert.Equal(t, "1250.50", m.Amount)
	assert.Equal(t, "CHF", m.Currency)
	assert.Equal(t, "21. Oktober 2025", m.DeliveryDate)

	assert.InDelta(t, 0.97, m.Confidence.PurchaseOrder, 1e-9)
	assert.InDelta(t, 1.0, m.Confidence.Amount, 1e-9)
	assert.InDelta(t, 0.72, m.Confidence.DeliveryDate, 1e-9)
}

func TestNormalize_Parties(t *testing.T) {
	t.Parallel()

	m := NewNormalizer().Normalize(decode(t, sampleDocument))

	sold := m.SoldTo
	assert.Equal(t, "100234", sold.ID)
	assert.Equal(t, "Muster AG", sold.Name)
	assert.Equal(t, "Bahnhofstrasse 12", sold.Street)
	assert.Equal(t, "Zürich, ZH", sold.CityState)
	assert.Equal(t, "8001", sold.PostalCode)
	assert.InDelta(t, 0.6, sold.Confidence.Street, 1e-9)
	assert.InDelta(t, 0.7, sold.Confidence.CityState, 1e-9)
	assert.InDelta(t, 0.85, sold.Confidence.PostalCode, 1e-9)
	assert.InDelta(t, 0.95, sold.Confidence.Name, 1e-9)

	require.NotNil(t, sold.Enrichment)
	assert.Equal(t, model.PartyEnrichment{
		ID:         "C-100234",
		Name:       "Muster AG",
		CityState:  "Zürich, ZH",
		Street:     "Bahnhofstrasse 12",
		PostalCode: "8001",
	}, *sold.Enrichment)

	ship := m.ShipTo
	assert.Equal(t, "Muster AG Lager", ship.Name)
	assert.Equal(t, "Industriestrasse 3", ship.Street)
	assert.Equal(t, "Winterthur", ship.CityState)
	assert.Equal(t, "", ship.PostalCode)
	assert.Nil(t, ship.Enrichment)
	assert.InDelta(t, 1.0, ship.Confidence.Street, 1e-9)
}

func TestNormalize_Comments(t *testing.T) {
	t.Parallel()

	m := NewNormalizer().Normalize(decode(t, sampleDocument))
	assert.Equal(t, model.Comments{"Bitte Liefertermin einhalten", "Rampe 2"}, m.Comments)
}

func TestNormalize_LineItems(t *testing.T) {
	t.Parallel()

	m := NewNormalizer().Normalize(decode(t, sampleDocument))
	require.Len(t, m.LineItems, 2)

	first := m.LineItems[0]
	assert.Equal(t, "Sechskantschraube M8", first.Description)
	assert.Equal(t, "200", first.Quantity)
	assert.Equal(t, "PCE", first.UnitOfMeasure)
	assert.Equal(t, "MAT-0815", first.SupplierMaterialNumber)
	assert.Equal(t, "K-4711", first.CustomerMaterialNumber)
	assert.Equal(t, "640", first.NetAmount)
	assert.Equal(t, "", first.UnitPrice)
	assert.InDelta(t, 0.88, first.Confidence.Description, 1e-9)
	assert.InDelta(t, 0.93, first.Confidence.Quantity, 1e-9)
	assert.InDelta(t, 1.0, first.Confidence.UnitPrice, 1e-9)

	second := m.LineItems[1]
	assert.Equal(t, "Unterlegscheibe", second.Description)
	assert.Equal(t, "", second.Quantity)
}

func TestNormalize_IrregularFieldShapes(t *testing.T) {
	t.Parallel()

	m := NewNormalizer().Normalize(decode(t, `{
		"headerData": [
			{"name": "documentNumber", "rawValue": "4500012345", "confidence": "0.8"},
			{"name": "netAmount", "rawValue": "99.00", "confidence": "n/a"}
		],
		"lineItems": [
			{"description": "Schraube", "quantity": {"rawValue": "2"}},
			{"description": {"rawValue": "Mutter", "confidence": "0.5"}, "quantity": {"rawValue": "3"}}
		]
	}`))

	assert.Equal(t, "4500012345", m.PurchaseOrder)
	assert.InDelta(t, 0.8, m.Confidence.PurchaseOrder, 1e-9)
	assert.Equal(t, "99.00", m.Amount)
	assert.InDelta(t, 1.0, m.Confidence.Amount, 1e-9)

	require.Len(t, m.LineItems, 2)
	assert.Equal(t, "", m.LineItems[0].Description)
	assert.Equal(t, "2", m.LineItems[0].Quantity)
	assert.Equal(t, "Mutter", m.LineItems[1].Description)
	assert.InDelta(t, 0.5, m.LineItems[1].Confidence.Description, 1e-9)
	assert.Equal(t, "3", m.LineItems[1].Quantity)
}

func TestNormalize_LineItemsStringEqualsArray(t *testing.T) {
	t.Parallel()

	var fields map[string]json.RawMessage
	require.NoError(t, json.Unmarshal([]byte(sampleDocument), &fields))
	arrayDoc, err := json.Marshal(fields)
	require.NoError(t, err)

	encoded, err := json.Marshal(string(fields["lineItems"]))
	require.NoError(t, err)
	fields["lineItems"] = encoded
	stringDoc, err := json.Marshal(fields)
	require.NoError(t, err)

	n := NewNormalizer()
	fromArray := n.Normalize(decode(t, string(arrayDoc)))
	fromString := n.Normalize(decode(t, string(stringDoc)))
	require.Len(t, fromArray.LineItems, 2)
	assert.Equal(t, fromArray, fromString)
}

func TestNormalize_InvalidLineItemString(t *testing.T) {
	t.Parallel()

	m := NewNormalizer().Normalize(decode(t, `{"headerData": [], "lineItems": "[{oops"}`))
	assert.NotNil(t, m.LineItems)
	assert.Empty(t, m.LineItems)
}

func TestNormalize_EmptyDocument(t *testing.T) {
	t.Parallel()

	for _, doc := range []*model.RawDocument{nil, {}} {
		m := NewNormalizer().Normalize(doc)

		assert.Equal(t, "Sales Order", m.DocumentTitle)
		for _, s := range []string{
			m.PurchaseOrder, m.PurchaseOrderDate, m.Amount, m.Currency, m.DeliveryDate,
			m.SoldTo.Name, m.SoldTo.Street, m.SoldTo.CityState, m.SoldTo.PostalCode, m.SoldTo.ID,
			m.ShipTo.Name, m.ShipTo.Street, m.ShipTo.CityState, m.ShipTo.PostalCode,
		} {
			assert.Equal(t, "", s)
		}
		assert.InDelta(t, 1.0, m.Confidence.PurchaseOrder, 1e-9)
		assert.InDelta(t, 1.0, m.SoldTo.Confidence.Street, 1e-9)
		assert.NotNil(t, m.LineItems)
		assert.Nil(t, m.SoldTo.Enrichment)

		b, err := json.Marshal(m)
		require.NoError(t, err)
		assert.NotContains(t, string(b), "null")
	}
}

func TestNormalize_DuplicateHeaderLastWins(t *testing.T) {
	t.Parallel()

	m := NewNormalizer().Normalize(&model.RawDocument{HeaderData: []model.RawHeaderField{
		{Name: KeyDocumentNumber, RawValue: "1"},
		{Name: KeyDocumentNumber, RawValue: "2"},
	}})
	assert.Equal(t, "2", m.PurchaseOrder)
	assert.Equal(t, "Sales Order 2", m.DocumentTitle)
}

func TestNormalize_TopLevelCommentFallback(t *testing.T) {
	t.Parallel()

	m := NewNormalizer().Normalize(&model.RawDocument{Comment: "  Express  "})
	assert.Equal(t, model.Comments{"Express"}, m.Comments)

	b, err := json.Marshal(m.Comments)
	require.NoError(t, err)
	assert.JSONEq(t, `"Express"`, string(b))
}

func TestNormalize_EnrichmentPassThrough(t *testing.T) {
	t.Parallel()

	raw := json.RawMessage(`{"sender":{"id":"C-1"},"extra":{"score":3}}`)
	m := NewNormalizer().Normalize(&model.RawDocument{Enrichment: raw})
	assert.JSONEq(t, string(raw), string(m.Enrichment))
	require.NotNil(t, m.SoldTo.Enrichment)
	assert.Equal(t, "C-1", m.SoldTo.Enrichment.ID)
}

func TestNormalize_CustomPartyKeys(t *testing.T) {
	t.Parallel()

	n := NewNormalizer(WithShipToKeys(PartyKeys{
		PreferredName: "deliveryName",
		Name:          "shipToName",
		Street:        []string{"deliveryStreet"},
	}))
	m := n.Normalize(&model.RawDocument{HeaderData: []model.RawHeaderField{
		{Name: "shipToName", RawValue: "Fallback"},
		{Name: "deliveryName", RawValue: "Preferred"},
		{Name: "deliveryStreet", RawValue: "Weg 1"},
	}})
	assert.Equal(t, "Preferred", m.ShipTo.Name)
	assert.Equal(t, "Weg 1", m.ShipTo.Street)
}
