// Package submission turns a reviewed purchase order into the completion
// request for its workflow task, including the backend sales order.
package submission

import (
	"encoding/json"

	"github.com/rotisserie/eris"

	"github.com/sells-group/order-inbox/internal/backenddate"
	"github.com/sells-group/order-inbox/internal/model"
)

// ErrNoModel is returned when there is no review model to submit.
var ErrNoModel = eris.New("submission: no review model")

// Context keys written by the transformer. editKey holds the reviewer's
// scratch copy on the task context and is never sent back.
const (
	editKey       = "edit"
	lineItemsKey  = "lineItems"
	reviewItemKey = "LineItems"
	commentKey    = "comment"
	approvedKey   = "approved"
	salesOrderKey = "salesOrder"
)

// POSource selects where PurchaseOrderByCustomer is taken from.
type POSource string

const (
	POSourcePurchaseOrder POSource = "purchase_order"
	POSourceSenderID      POSource = "sender_id"
	POSourceDocumentTitle POSource = "document_title"
)

// Config holds the organizational constants of created sales orders.
type Config struct {
	SalesOrderType       string   `yaml:"type" mapstructure:"type" validate:"required"`
	SalesOrganization    string   `yaml:"organization" mapstructure:"organization" validate:"required"`
	DistributionChannel  string   `yaml:"distribution_channel" mapstructure:"distribution_channel" validate:"required"`
	OrganizationDivision string   `yaml:"division" mapstructure:"division" validate:"required"`
	POSource             POSource `yaml:"po_source" mapstructure:"po_source" validate:"omitempty,oneof=purchase_order sender_id document_title"`
}

// DefaultConfig returns the constants for external-channel standard orders.
func DefaultConfig() Config {
	return Config{
		SalesOrderType:       "ZNOA",
		SalesOrganization:    "1000",
		DistributionChannel:  "30",
		OrganizationDivision: "01",
		POSource:             POSourcePurchaseOrder,
	}
}

// Transformer builds task completions. It performs no I/O.
type Transformer struct {
	cfg Config
}

// NewTransformer creates a Transformer with cfg.
func NewTransformer(cfg Config) *Transformer {
	if cfg.POSource == "" {
		cfg.POSource = POSourcePurchaseOrder
	}
	return &Transformer{cfg: cfg}
}

// Build creates the completion request for m. taskContext carries the
// remaining keys of the workflow task context; they are passed through
// unless the review model overrides them. The "edit" key is always dropped.
func (t *Transformer) Build(m *model.ReviewModel, decision model.Decision, taskContext map[string]json.RawMessage) (*model.TaskCompletion, error) {
	if m == nil {
		return nil, ErrNoModel
	}
	decision, err := model.ParseDecision(string(decision))
	if err != nil {
		return nil, eris.Wrap(err, "submission: decision")
	}

	ctx := make(map[string]any, len(taskContext)+16)
	for k, v := range taskContext {
		ctx[k] = v
	}

	fields, err := flatten(m)
	if err != nil {
		return nil, err
	}
	for k, v := range fields {
		ctx[k] = v
	}
	delete(ctx, reviewItemKey)

	lineItems := m.LineItems
	if lineItems == nil {
		lineItems = []model.LineItem{}
	}
	items, err := json.Marshal(lineItems)
	if err != nil {
		return nil, eris.Wrap(err, "submission: encode line items")
	}

	ctx[commentKey] = stringValue(taskContext[commentKey])
	ctx[approvedKey] = decision.Approved()
	ctx[lineItemsKey] = string(items)
	ctx[salesOrderKey] = t.SalesOrder(m)
	delete(ctx, editKey)

	return &model.TaskCompletion{
		Status:   model.TaskStatusCompleted,
		Decision: decision,
		Context:  ctx,
	}, nil
}

// SalesOrder builds the backend sales order for m.
func (t *Transformer) SalesOrder(m *model.ReviewModel) model.SalesOrderPayload {
	po := t.purchaseOrderByCustomer(m)

	items := make([]model.SalesOrderItem, 0, len(m.LineItems))
	for _, li := range m.LineItems {
		items = append(items, model.SalesOrderItem{
			PurchaseOrderByCustomer: po,
			Material:                li.SupplierMaterialNumber,
			ExternalItemID:          li.CustomerMaterialNumber,
			RequestedQuantity:       li.Quantity,
			RequestedQuantityUnit:   li.UnitOfMeasure,
		})
	}

	return model.SalesOrderPayload{
		SalesOrderType:          t.cfg.SalesOrderType,
		SalesOrganization:       t.cfg.SalesOrganization,
		DistributionChannel:     t.cfg.DistributionChannel,
		OrganizationDivision:    t.cfg.OrganizationDivision,
		SoldToParty:             SoldToParty(m),
		PurchaseOrderByCustomer: po,
		TransactionCurrency:     m.Currency,
		RequestedDeliveryDate:   backenddate.ToBackendDate(m.DeliveryDate),
		Items:                   model.SalesOrderItems{Results: items},
	}
}

func (t *Transformer) purchaseOrderByCustomer(m *model.ReviewModel) string {
	switch t.cfg.POSource {
	case POSourceSenderID:
		return SoldToParty(m)
	case POSourceDocumentTitle:
		return m.DocumentTitle
	default:
		return m.PurchaseOrder
	}
}

// SoldToParty resolves the buyer. A master-data id from enrichment wins
// over the id read off the document.
func SoldToParty(m *model.ReviewModel) string {
	if e := model.ParseEnrichment(m.Enrichment); e != nil && e.Sender != nil && e.Sender.ID != "" {
		return string(e.Sender.ID)
	}
	if m.SoldTo.Enrichment != nil && m.SoldTo.Enrichment.ID != "" {
		return m.SoldTo.Enrichment.ID
	}
	return m.SoldTo.ID
}

func flatten(m *model.ReviewModel) (map[string]json.RawMessage, error) {
	b, err := json.Marshal(m)
	if err != nil {
		return nil, eris.Wrap(err, "submission: encode review model")
	}
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(b, &fields); err != nil {
		return nil, eris.Wrap(err, "submission: flatten review model")
	}
	return fields, nil
}

func stringValue(raw json.RawMessage) string {
	if len(raw) == 0 {
		return ""
	}
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return ""
	}
	return s
}
