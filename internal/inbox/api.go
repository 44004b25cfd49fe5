package inbox

import (
	"sort"
	"sync"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sells-group/order-inbox/internal/model"
)

// ActionType tells the inbox how to render an action.
type ActionType string

const (
	ActionAccept ActionType = "accept"
	ActionReject ActionType = "reject"
)

// Action is a decision button offered in the inbox.
type Action struct {
	Name  string
	Type  ActionType
	Label string
}

// The actions every review task offers.
var (
	ApproveAction = Action{Name: "APPROVE", Type: ActionAccept, Label: "Approve"}
	RejectAction  = Action{Name: "REJECT", Type: ActionReject, Label: "Reject"}
)

// API is the host inbox the task runs in.
type API interface {
	// AddAction registers a decision button and its handler.
	AddAction(action Action, handler func())
	// UpdateTask asks the inbox to refresh the task in its list.
	UpdateTask(provider, instanceID string)
}

// Binding names a place where a review model is shown.
type Binding string

const (
	// BindingView is scoped to the review screen.
	BindingView Binding = "viewContextModel"
	// BindingComponent is shared with the rest of the task UI.
	BindingComponent Binding = "viewData"
)

// Presenter publishes the review model for display and editing.
type Presenter interface {
	Publish(binding Binding, m *model.ReviewModel)
}

// LogAPI is an API for headless use. It records registered actions so a
// caller can trigger them by name, and logs refresh requests.
type LogAPI struct {
	mu       sync.Mutex
	handlers map[string]func()
	refresh  []string
}

// NewLogAPI creates an empty LogAPI.
func NewLogAPI() *LogAPI {
	return &LogAPI{handlers: make(map[string]func())}
}

func (a *LogAPI) AddAction(action Action, handler func()) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.handlers[action.Name] = handler
	zap.L().Debug("inbox: action registered",
		zap.String("action", action.Name),
		zap.String("type", string(action.Type)),
	)
}

func (a *LogAPI) UpdateTask(provider, instanceID string) {
	a.mu.Lock()
	a.refresh = append(a.refresh, instanceID)
	a.mu.Unlock()
	zap.L().Info("inbox: task refresh requested",
		zap.String("provider", provider),
		zap.String("instance_id", instanceID),
	)
}

// Actions returns the registered action names in sorted order.
func (a *LogAPI) Actions() []string {
	a.mu.Lock()
	defer a.mu.Unlock()
	names := make([]string, 0, len(a.handlers))
	for name := range a.handlers {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Refreshed returns the instance ids passed to UpdateTask.
func (a *LogAPI) Refreshed() []string {
	a.mu.Lock()
	defer a.mu.Unlock()
	return append([]string(nil), a.refresh...)
}

// Trigger runs the handler registered for name.
func (a *LogAPI) Trigger(name string) error {
	a.mu.Lock()
	h, ok := a.handlers[name]
	a.mu.Unlock()
	if !ok {
		return eris.Errorf("inbox: no action %q", name)
	}
	h()
	return nil
}

// ActionFor returns the action that submits decision d.
func ActionFor(d model.Decision) Action {
	if d.Approved() {
		return ApproveAction
	}
	return RejectAction
}

// LogPresenter publishes by logging a summary of the model.
type LogPresenter struct{}

func (LogPresenter) Publish(binding Binding, m *model.ReviewModel) {
	if m == nil {
		return
	}
	zap.L().Debug("inbox: review model published",
		zap.String("binding", string(binding)),
		zap.String("purchase_order", m.PurchaseOrder),
		zap.Int("line_items", len(m.LineItems)),
	)
}
