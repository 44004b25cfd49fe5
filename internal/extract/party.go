package extract

import (
	"strings"

	"github.com/sells-group/order-inbox/internal/model"
)

// PartyKeys names the header fields a party composite is assembled from.
type PartyKeys struct {
	ID            string   `yaml:"id" mapstructure:"id"`
	PreferredName string   `yaml:"preferred_name" mapstructure:"preferred_name"`
	Name          string   `yaml:"name" mapstructure:"name"`
	Street        []string `yaml:"street" mapstructure:"street"`
	City          string   `yaml:"city" mapstructure:"city"`
	State         string   `yaml:"state" mapstructure:"state"`
	PostalCode    string   `yaml:"postal_code" mapstructure:"postal_code"`
}

// SoldToKeys are the sender fields produced by the document extraction.
var SoldToKeys = PartyKeys{
	ID:         "senderId",
	Name:       "senderName",
	Street:     []string{"senderStreet", "senderHouseNumber", "senderExtraAddressPart"},
	City:       "senderCity",
	State:      "senderState",
	PostalCode: "senderPostalCode",
}

// ShipToKeys are the ship-to fields produced by the document extraction.
var ShipToKeys = PartyKeys{
	ID:         "shipToId",
	Name:       "shipToName",
	Street:     []string{"shipToStreet", "shipToHouseNumber"},
	City:       "shipToCity",
	State:      "shipToState",
	PostalCode: "shipToPostalCode",
}

// cleanPart strips trailing commas and whitespace left over from address
// lines such as "Hauptstrasse 1, ".
func cleanPart(s string) string {
	return strings.TrimSpace(strings.TrimRight(s, ", \t\r\n"))
}

// BuildParty assembles a party composite from the header map. Combined
// fields carry the lowest confidence of their parts.
func BuildParty(h *model.HeaderMap, keys PartyKeys) model.PartyComposite {
	var p model.PartyComposite

	id := h.Get(keys.ID)
	p.ID = cleanPart(id.Value)
	p.Confidence.ID = id.Confidence

	name := h.Get(keys.Name)
	if keys.PreferredName != "" {
		if preferred := h.Get(keys.PreferredName); strings.TrimSpace(preferred.Value) != "" {
			name = preferred
		}
	}
	p.Name = strings.TrimSpace(name.Value)
	p.Confidence.Name = name.Confidence

	parts := make([]string, 0, len(keys.Street))
	p.Confidence.Street = model.DefaultConfidence
	for _, k := range keys.Street {
		f := h.Get(k)
		p.Confidence.Street = min(p.Confidence.Street, f.Confidence)
		if part := cleanPart(f.Value); part != "" {
			parts = append(parts, part)
		}
	}
	p.Street = strings.Join(parts, " ")

	city, state := h.Get(keys.City), h.Get(keys.State)
	p.CityState = model.JoinCityState(cleanPart(city.Value), cleanPart(state.Value))
	p.Confidence.CityState = min(city.Confidence, state.Confidence)

	postal := h.Get(keys.PostalCode)
	p.PostalCode = cleanPart(postal.Value)
	p.Confidence.PostalCode = postal.Confidence

	return p
}

// BuildPartyEnrichment converts a verified master-data record. Enrichment
// is authoritative and carries no confidence.
func BuildPartyEnrichment(r *model.EnrichmentRecord) *model.PartyEnrichment {
	if r == nil {
		return nil
	}
	return &model.PartyEnrichment{
		ID:         string(r.ID),
		Name:       string(r.Name),
		CityState:  model.JoinCityState(string(r.City), string(r.State)),
		Street:     string(r.Address1),
		PostalCode: string(r.PostalCode),
	}
}
