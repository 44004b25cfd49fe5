// Package extract turns a raw document extraction into the review model
// shown to approvers.
package extract

import (
	"regexp"
	"strings"

	"go.uber.org/zap"

	"github.com/sells-group/order-inbox/internal/model"
)

// Header field names produced by the document extraction.
const (
	KeyDocumentNumber = "documentNumber"
	KeyDocumentDate   = "documentDate"
	KeyNetAmount      = "netAmount"
	KeyCurrencyCode   = "currencyCode"
	KeyDeliveryDate   = "deliveryDate"
	KeyComment        = "comment"
)

const defaultTitle = "Sales Order"

var lineBreak = regexp.MustCompile(`\r?\n`)

// Normalizer maps extractions to review models.
type Normalizer struct {
	soldTo PartyKeys
	shipTo PartyKeys
}

// Option configures a Normalizer.
type Option func(*Normalizer)

// WithSoldToKeys overrides the header fields used for the sold-to party.
func WithSoldToKeys(k PartyKeys) Option {
	return func(n *Normalizer) { n.soldTo = k }
}

// WithShipToKeys overrides the header fields used for the ship-to party.
func WithShipToKeys(k PartyKeys) Option {
	return func(n *Normalizer) { n.shipTo = k }
}

// NewNormalizer creates a Normalizer using the standard extraction keys
// unless overridden.
func NewNormalizer(opts ...Option) *Normalizer {
	n := &Normalizer{soldTo: SoldToKeys, shipTo: ShipToKeys}
	for _, opt := range opts {
		opt(n)
	}
	return n
}

// Normalize builds the review model for raw. Missing fields come back as
// empty strings with full confidence; it never fails.
func (n *Normalizer) Normalize(raw *model.RawDocument) *model.ReviewModel {
	if raw == nil {
		raw = &model.RawDocument{}
	}
	h := model.NewHeaderMap(raw.HeaderData)

	number := h.Get(KeyDocumentNumber)
	date := h.Get(KeyDocumentDate)
	amount := h.Get(KeyNetAmount)
	currency := h.Get(KeyCurrencyCode)
	delivery := h.Get(KeyDeliveryDate)

	m := &model.ReviewModel{
		DocumentTitle:     Title(number.Value),
		PurchaseOrder:     number.Value,
		PurchaseOrderDate: date.Value,
		Amount:            amount.Value,
		Currency:          currency.Value,
		DeliveryDate:      delivery.Value,
		Confidence: model.HeaderConfidence{
			PurchaseOrder:     number.Confidence,
			PurchaseOrderDate: date.Confidence,
			Amount:            amount.Confidence,
			Currency:          currency.Confidence,
			DeliveryDate:      delivery.Confidence,
		},
		SoldTo:    BuildParty(h, n.soldTo),
		ShipTo:    BuildParty(h, n.shipTo),
		LineItems: MapLineItems(raw.LineItems),
	}

	if e := model.ParseEnrichment(raw.Enrichment); e != nil && e.Sender != nil {
		m.SoldTo.Enrichment = BuildPartyEnrichment(e.Sender)
	}

	comment := h.Get(KeyComment).Value
	if !h.Has(KeyComment) {
		comment = string(raw.Comment)
	}
	m.Comments = SplitComments(comment)

	if len(raw.Enrichment) > 0 {
		m.Enrichment = append(m.Enrichment[:0:0], raw.Enrichment...)
	}

	zap.L().Debug("normalized extraction",
		zap.String("purchase_order", m.PurchaseOrder),
		zap.Int("header_fields", h.Len()),
		zap.Int("line_items", len(m.LineItems)),
		zap.Bool("sender_enriched", m.SoldTo.Enrichment != nil),
	)
	return m
}

// Title derives the document title from the purchase-order number.
func Title(number string) string {
	if number == "" {
		return defaultTitle
	}
	return defaultTitle + " " + number
}

// SplitComments splits free text into trimmed, non-empty lines.
func SplitComments(s string) model.Comments {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	var lines model.Comments
	for _, l := range lineBreak.Split(s, -1) {
		if l = strings.TrimSpace(l); l != "" {
			lines = append(lines, l)
		}
	}
	return lines
}
