// Package inbox runs a purchase-order review task: it loads the extracted
// document from the workflow runtime, presents it for review, and submits
// the reviewer's decision.
package inbox

import (
	"context"
	"encoding/json"
	"sync"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sells-group/order-inbox/internal/extract"
	"github.com/sells-group/order-inbox/internal/model"
	"github.com/sells-group/order-inbox/internal/submission"
	"github.com/sells-group/order-inbox/pkg/workflow"
)

// RefreshProvider is the provider passed to API.UpdateTask.
const RefreshProvider = "NA"

// ErrNotLoaded is returned when a task is completed before it was loaded.
var ErrNotLoaded = eris.New("inbox: task not loaded")

// Option configures a Task.
type Option func(*Task)

// WithPresenter sets where loaded models are published.
func WithPresenter(p Presenter) Option {
	return func(t *Task) {
		t.presenter = p
	}
}

// WithNormalizer replaces the default normalizer.
func WithNormalizer(n *extract.Normalizer) Option {
	return func(t *Task) {
		t.normalizer = n
	}
}

// WithTransformer replaces the default transformer.
func WithTransformer(tr *submission.Transformer) Option {
	return func(t *Task) {
		t.transformer = tr
	}
}

// Task is one review task instance.
type Task struct {
	instanceID  string
	client      workflow.Client
	api         API
	presenter   Presenter
	normalizer  *extract.Normalizer
	transformer *submission.Transformer

	mu          sync.Mutex
	model       *model.ReviewModel
	taskContext map[string]json.RawMessage
}

// NewTask creates a task for instanceID.
func NewTask(instanceID string, client workflow.Client, api API, opts ...Option) *Task {
	t := &Task{
		instanceID:  instanceID,
		client:      client,
		api:         api,
		presenter:   LogPresenter{},
		normalizer:  extract.NewNormalizer(),
		transformer: submission.NewTransformer(submission.DefaultConfig()),
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// InstanceID returns the workflow task instance id.
func (t *Task) InstanceID() string { return t.instanceID }

// Model returns the loaded review model, or nil before Load. Reviewer edits
// are made on the returned model.
func (t *Task) Model() *model.ReviewModel {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.model
}

// Edit replaces the loaded model with a reviewer-edited copy and
// republishes it.
func (t *Task) Edit(m *model.ReviewModel) error {
	if m == nil {
		return eris.New("inbox: edit: nil model")
	}
	t.mu.Lock()
	if t.model == nil {
		t.mu.Unlock()
		return ErrNotLoaded
	}
	t.model = m
	t.mu.Unlock()

	t.presenter.Publish(BindingView, m)
	t.presenter.Publish(BindingComponent, m)
	return nil
}

// Load fetches the task context, normalizes the extracted document and
// publishes the result to both bindings.
func (t *Task) Load(ctx context.Context) (*model.ReviewModel, error) {
	taskCtx, err := t.client.FetchContext(ctx, t.instanceID)
	if err != nil {
		return nil, eris.Wrap(err, "inbox: load")
	}

	raw, err := decodeDocument(taskCtx)
	if err != nil {
		return nil, eris.Wrap(err, "inbox: load")
	}

	m := t.normalizer.Normalize(raw)

	t.mu.Lock()
	t.model = m
	t.taskContext = taskCtx
	t.mu.Unlock()

	t.presenter.Publish(BindingView, m)
	t.presenter.Publish(BindingComponent, m)

	zap.L().Info("inbox: task loaded",
		zap.String("instance_id", t.instanceID),
		zap.String("purchase_order", m.PurchaseOrder),
		zap.Int("line_items", len(m.LineItems)),
	)
	return m, nil
}

// RegisterActions adds the approve and reject actions to the inbox. The
// handlers complete the task with ctx and log failures.
func (t *Task) RegisterActions(ctx context.Context) {
	for _, d := range []model.Decision{model.DecisionApprove, model.DecisionReject} {
		decision := d
		t.api.AddAction(ActionFor(decision), func() {
			if _, err := t.Complete(ctx, decision); err != nil {
				zap.L().Error("inbox: action failed",
					zap.String("instance_id", t.instanceID),
					zap.String("decision", string(decision)),
					zap.Error(err),
				)
			}
		})
	}
}

// Complete submits decision for the loaded model and asks the inbox to
// refresh the task.
func (t *Task) Complete(ctx context.Context, decision model.Decision) (*model.TaskCompletion, error) {
	t.mu.Lock()
	m, taskCtx := t.model, t.taskContext
	t.mu.Unlock()
	if m == nil {
		return nil, ErrNotLoaded
	}

	body, err := t.transformer.Build(m, decision, taskCtx)
	if err != nil {
		return nil, eris.Wrap(err, "inbox: build completion")
	}

	token, err := t.client.FetchToken(ctx)
	if err != nil {
		return nil, eris.Wrap(err, "inbox: complete")
	}
	if err := t.client.CompleteTask(ctx, t.instanceID, token, body); err != nil {
		return nil, eris.Wrap(err, "inbox: complete")
	}

	t.api.UpdateTask(RefreshProvider, t.instanceID)

	zap.L().Info("inbox: decision submitted",
		zap.String("instance_id", t.instanceID),
		zap.String("decision", string(body.Decision)),
	)
	return body, nil
}

func decodeDocument(taskCtx map[string]json.RawMessage) (*model.RawDocument, error) {
	b, err := json.Marshal(taskCtx)
	if err != nil {
		return nil, eris.Wrap(err, "encode task context")
	}
	var raw model.RawDocument
	if err := json.Unmarshal(b, &raw); err != nil {
		return nil, eris.Wrap(err, "decode extracted document")
	}
	return &raw, nil
}
