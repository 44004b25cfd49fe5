package model

import (
	"bytes"
	"encoding/json"
	"strings"
)

// EnrichmentRecord is a verified master-data record for a party.
type EnrichmentRecord struct {
	ID         Text `json:"id"`
	Name       Text `json:"name"`
	City       Text `json:"city"`
	State      Text `json:"state"`
	Address1   Text `json:"Adress1"`
	PostalCode Text `json:"postalCode"`
}

// UnmarshalJSON accepts both the "Adress1" spelling used by the enrichment
// service and "address1".
func (r *EnrichmentRecord) UnmarshalJSON(b []byte) error {
	type plain EnrichmentRecord
	var aux struct {
		plain
		AddressLine Text `json:"address1"`
	}
	if err := json.Unmarshal(b, &aux); err != nil {
		return err
	}
	*r = EnrichmentRecord(aux.plain)
	if r.Address1 == "" {
		r.Address1 = aux.AddressLine
	}
	return nil
}

// Enrichment is the master-data block attached to an extraction.
type Enrichment struct {
	Sender *EnrichmentRecord `json:"sender,omitempty"`
}

// ParseEnrichment decodes a raw enrichment block. It returns nil when the
// block is absent or not an object.
func ParseEnrichment(raw json.RawMessage) *Enrichment {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || raw[0] != '{' {
		return nil
	}
	var e Enrichment
	if err := json.Unmarshal(raw, &e); err != nil {
		return nil
	}
	return &e
}

// PartyEnrichment is the enrichment view of a party composite.
type PartyEnrichment struct {
	ID         string `json:"ID"`
	Name       string `json:"Name"`
	CityState  string `json:"CityState"`
	Street     string `json:"Street"`
	PostalCode string `json:"PostalCode"`
}

// PartyConfidence holds per-field confidences of a party composite.
type PartyConfidence struct {
	ID         float64 `json:"ID"`
	Name       float64 `json:"Name"`
	Street     float64 `json:"Street"`
	CityState  float64 `json:"CityState"`
	PostalCode float64 `json:"PostalCode"`
}

// PartyComposite is the normalized name and address bundle of a party.
type PartyComposite struct {
	ID         string           `json:"ID"`
	Name       string           `json:"Name"`
	Street     string           `json:"Street"`
	CityState  string           `json:"CityState"`
	PostalCode string           `json:"PostalCode"`
	Confidence PartyConfidence  `json:"Confidence"`
	Enrichment *PartyEnrichment `json:"Enrichment,omitempty"`
}

// JoinCityState joins city and state with ", " when both are present.
func JoinCityState(city, state string) string {
	switch {
	case city != "" && state != "":
		return city + ", " + state
	case city != "":
		return city
	default:
		return state
	}
}

// Comments holds the non-empty lines of the document comment. It encodes
// as "" for no lines, a string for one line and an array otherwise.
type Comments []string

// MarshalJSON implements json.Marshaler.
func (c Comments) MarshalJSON() ([]byte, error) {
	switch len(c) {
	case 0:
		return []byte(`""`), nil
	case 1:
		return json.Marshal(c[0])
	default:
		return json.Marshal([]string(c))
	}
}

// UnmarshalJSON implements json.Unmarshaler.
func (c *Comments) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) > 0 && b[0] == '[' {
		var lines []string
		if err := json.Unmarshal(b, &lines); err != nil {
			return err
		}
		*c = lines
		return nil
	}
	var t Text
	if err := t.UnmarshalJSON(b); err != nil {
		return err
	}
	if t == "" {
		*c = nil
		return nil
	}
	*c = Comments{string(t)}
	return nil
}

// String joins the comment lines with newlines.
func (c Comments) String() string {
	return strings.Join(c, "\n")
}

// LineItemConfidence mirrors LineItem with per-field confidences.
type LineItemConfidence struct {
	Description            float64 `json:"Description"`
	NetAmount              float64 `json:"NetAmount"`
	Quantity               float64 `json:"Quantity"`
	UnitPrice              float64 `json:"UnitPrice"`
	DocumentDate           float64 `json:"DocumentDate"`
	ItemNumber             float64 `json:"ItemNumber"`
	CurrencyCode           float64 `json:"CurrencyCode"`
	SupplierMaterialNumber float64 `json:"SupplierMaterialNumber"`
	CustomerMaterialNumber float64 `json:"CustomerMaterialNumber"`
	UnitOfMeasure          float64 `json:"UnitOfMeasure"`
}

// LineItem is one normalized order line.
type LineItem struct {
	Description            string             `json:"Description"`
	NetAmount              string             `json:"NetAmount"`
	Quantity               string             `json:"Quantity"`
	UnitPrice              string             `json:"UnitPrice"`
	DocumentDate           string             `json:"DocumentDate"`
	ItemNumber             string             `json:"ItemNumber"`
	CurrencyCode           string             `json:"CurrencyCode"`
	SupplierMaterialNumber string             `json:"SupplierMaterialNumber"`
	CustomerMaterialNumber string             `json:"CustomerMaterialNumber"`
	UnitOfMeasure          string             `json:"UnitOfMeasure"`
	Confidence             LineItemConfidence `json:"Confidence"`
}

// HeaderConfidence holds confidences of the scalar header fields.
type HeaderConfidence struct {
	PurchaseOrder     float64 `json:"PurchaseOrder"`
	PurchaseOrderDate float64 `json:"PurchaseOrderDate"`
	Amount            float64 `json:"Amount"`
	Currency          float64 `json:"Currency"`
	DeliveryDate      float64 `json:"DeliveryDate"`
}

// ReviewModel is the editable, display-ready view of an extracted purchase
// order. It is created when a task loads, edited by the reviewer and
// consumed once when the reviewer decides.
type ReviewModel struct {
	DocumentTitle     string           `json:"documentTitle"`
	PurchaseOrder     string           `json:"PurchaseOrder"`
	PurchaseOrderDate string           `json:"PurchaseOrderDate"`
	Amount            string           `json:"Amount"`
	Currency          string           `json:"Currency"`
	DeliveryDate      string           `json:"DeliveryDate"`
	Confidence        HeaderConfidence `json:"Confidence"`
	SoldTo            PartyComposite   `json:"SoldTo"`
	ShipTo            PartyComposite   `json:"ShipTo"`
	Comments          Comments         `json:"Comments"`
	LineItems         []LineItem       `json:"LineItems"`
	Enrichment        json.RawMessage  `json:"enrichment,omitempty"`
}
