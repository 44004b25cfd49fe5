package model

import (
	"strings"

	"github.com/rotisserie/eris"
)

// ErrUnknownDecision is returned for a decision other than approve or reject.
var ErrUnknownDecision = eris.New("unknown decision")

// Decision is the reviewer's outcome for a task.
type Decision string

const (
	DecisionApprove Decision = "approve"
	DecisionReject  Decision = "reject"
)

// ParseDecision parses a decision case-insensitively.
func ParseDecision(s string) (Decision, error) {
	switch d := Decision(strings.ToLower(strings.TrimSpace(s))); d {
	case DecisionApprove, DecisionReject:
		return d, nil
	default:
		return "", eris.Wrapf(ErrUnknownDecision, "decision %q", s)
	}
}

// Approved reports whether d approves the order.
func (d Decision) Approved() bool {
	return d == DecisionApprove
}

// TaskStatusCompleted is the status sent when a reviewer decides a task.
const TaskStatusCompleted = "COMPLETED"

// SalesOrderItem is one requested line of the sales order. Plant, storage
// location, shipping point and pricing are determined by the backend.
type SalesOrderItem struct {
	PurchaseOrderByCustomer string `json:"PurchaseOrderByCustomer"`
	Material                string `json:"Material"`
	ExternalItemID          string `json:"ExternalItemID"`
	RequestedQuantity       string `json:"RequestedQuantity"`
	RequestedQuantityUnit   string `json:"RequestedQuantityUnit"`
}

// SalesOrderItems wraps items in the backend's deferred collection shape.
type SalesOrderItems struct {
	Results []SalesOrderItem `json:"results"`
}

// SalesOrderPayload is the backend sales-order create request.
type SalesOrderPayload struct {
	SalesOrderType          string          `json:"SalesOrderType"`
	SalesOrganization       string          `json:"SalesOrganization"`
	DistributionChannel     string          `json:"DistributionChannel"`
	OrganizationDivision    string          `json:"OrganizationDivision"`
	SoldToParty             string          `json:"SoldToParty"`
	PurchaseOrderByCustomer string          `json:"PurchaseOrderByCustomer"`
	TransactionCurrency     string          `json:"TransactionCurrency"`
	RequestedDeliveryDate   string          `json:"RequestedDeliveryDate"`
	Items                   SalesOrderItems `json:"to_Item"`
}

// TaskCompletion is the PATCH body that completes a workflow task.
type TaskCompletion struct {
	Status   string         `json:"status"`
	Decision Decision       `json:"decision"`
	Context  map[string]any `json:"context"`
}
