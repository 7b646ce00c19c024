package sdk

import (
	"context"
	"time"

	"console/api/internal/gateway"
	"console/api/internal/sdk/backend"
)

// Workflow is an orchestration workflow definition.
type Workflow struct {
	ID        string         `json:"id"`
	Config    WorkflowConfig `json:"config"`
	CreatedAt time.Time      `json:"createdAt"`
	UpdatedAt time.Time      `json:"updatedAt"`
}

type WorkflowConfig struct {
	Name   string           `json:"name"`
	Stages []map[string]any `json:"stages"`
}

// WorkflowInstance is one run of a workflow.
type WorkflowInstance struct {
	ID           string     `json:"id"`
	WorkflowID   string     `json:"workflowID"`
	CreatedAt    time.Time  `json:"createdAt"`
	UpdatedAt    time.Time  `json:"updatedAt"`
	TerminatedAt *time.Time `json:"terminatedAt,omitempty"`
	Terminated   bool       `json:"terminated"`
	Error        string     `json:"error,omitempty"`
}

// Trigger runs a workflow whenever an event matching its filter fires.
type Trigger struct {
	ID         string         `json:"id"`
	WorkflowID string         `json:"workflowID"`
	Event      string         `json:"event"`
	Filter     string         `json:"filter,omitempty"`
	Vars       map[string]any `json:"vars,omitempty"`
	CreatedAt  time.Time      `json:"createdAt"`
}

type CreateTriggerRequest struct {
	WorkflowID string         `json:"workflowID"`
	Event      string         `json:"event"`
	Filter     string         `json:"filter,omitempty"`
	Vars       map[string]any `json:"vars,omitempty"`
}

type flowsBackend interface {
	ListWorkflows(ctx context.Context, req ListRequest, opts ...backend.RequestOption) (Cursor[Workflow], error)
	GetWorkflow(ctx context.Context, id string, opts ...backend.RequestOption) (Workflow, error)
	RunWorkflow(ctx context.Context, id string, vars map[string]string, opts ...backend.RequestOption) (WorkflowInstance, error)
	ListInstances(ctx context.Context, req ListRequest, opts ...backend.RequestOption) (Cursor[WorkflowInstance], error)
	GetInstance(ctx context.Context, id string, opts ...backend.RequestOption) (WorkflowInstance, error)
	ListTriggers(ctx context.Context, req ListRequest, opts ...backend.RequestOption) (Cursor[Trigger], error)
	CreateTrigger(ctx context.Context, req CreateTriggerRequest, opts ...backend.RequestOption) (Trigger, error)
	DeleteTrigger(ctx context.Context, id string, opts ...backend.RequestOption) error
}

// FlowsClient is the normalized orchestration client. The flows service
// has a single wire generation so far; the strategy seam stays so a v2
// slots in next to the others.
type FlowsClient struct {
	version gateway.Version
	backend flowsBackend
}

func NewFlows(client *backend.Client, version gateway.Version) *FlowsClient {
	legacy := &flowsV1{client: client}
	strategies := map[gateway.Version]flowsBackend{
		gateway.V1: legacy,
		gateway.V2: legacy,
		gateway.V3: legacy,
	}
	strategy, ok := strategies[version]
	if !ok {
		strategy = legacy
	}
	return &FlowsClient{version: version, backend: strategy}
}

func (f *FlowsClient) Version() gateway.Version {
	return f.version
}

func (f *FlowsClient) ListWorkflows(ctx context.Context, req ListRequest, opts ...backend.RequestOption) (Cursor[Workflow], error) {
	return f.backend.ListWorkflows(ctx, req, opts...)
}

func (f *FlowsClient) GetWorkflow(ctx context.Context, id string, opts ...backend.RequestOption) (Workflow, error) {
	return f.backend.GetWorkflow(ctx, id, opts...)
}

func (f *FlowsClient) RunWorkflow(ctx context.Context, id string, vars map[string]string, opts ...backend.RequestOption) (WorkflowInstance, error) {
	return f.backend.RunWorkflow(ctx, id, vars, opts...)
}

func (f *FlowsClient) ListInstances(ctx context.Context, req ListRequest, opts ...backend.RequestOption) (Cursor[WorkflowInstance], error) {
	return f.backend.ListInstances(ctx, req, opts...)
}

func (f *FlowsClient) GetInstance(ctx context.Context, id string, opts ...backend.RequestOption) (WorkflowInstance, error) {
	return f.backend.GetInstance(ctx, id, opts...)
}

func (f *FlowsClient) ListTriggers(ctx context.Context, req ListRequest, opts ...backend.RequestOption) (Cursor[Trigger], error) {
	return f.backend.ListTriggers(ctx, req, opts...)
}

func (f *FlowsClient) CreateTrigger(ctx context.Context, req CreateTriggerRequest, opts ...backend.RequestOption) (Trigger, error) {
	return f.backend.CreateTrigger(ctx, req, opts...)
}

func (f *FlowsClient) DeleteTrigger(ctx context.Context, id string, opts ...backend.RequestOption) error {
	return f.backend.DeleteTrigger(ctx, id, opts...)
}

type flowsV1 struct {
	client *backend.Client
}

func (b *flowsV1) ListWorkflows(ctx context.Context, req ListRequest, opts ...backend.RequestOption) (Cursor[Workflow], error) {
	var resp cursorEnvelope[Workflow]
	if err := b.client.Get(ctx, "/api/orchestration/workflows", cursorListParams(req), &resp, opts...); err != nil {
		return Cursor[Workflow]{}, err
	}
	return resp.Cursor, nil
}

func (b *flowsV1) GetWorkflow(ctx context.Context, id string, opts ...backend.RequestOption) (Workflow, error) {
	var resp dataEnvelope[Workflow]
	if err := b.client.Get(ctx, "/api/orchestration/workflows/"+id, nil, &resp, opts...); err != nil {
		return Workflow{}, err
	}
	return resp.Data, nil
}

func (b *flowsV1) RunWorkflow(ctx context.Context, id string, vars map[string]string, opts ...backend.RequestOption) (WorkflowInstance, error) {
	var resp dataEnvelope[WorkflowInstance]
	if vars == nil {
		vars = map[string]string{}
	}
	if err := b.client.Post(ctx, "/api/orchestration/workflows/"+id+"/instances", vars, &resp, opts...); err != nil {
		return WorkflowInstance{}, err
	}
	return resp.Data, nil
}

func (b *flowsV1) ListInstances(ctx context.Context, req ListRequest, opts ...backend.RequestOption) (Cursor[WorkflowInstance], error) {
	var resp cursorEnvelope[WorkflowInstance]
	if err := b.client.Get(ctx, "/api/orchestration/instances", cursorListParams(req), &resp, opts...); err != nil {
		return Cursor[WorkflowInstance]{}, err
	}
	return resp.Cursor, nil
}

func (b *flowsV1) GetInstance(ctx context.Context, id string, opts ...backend.RequestOption) (WorkflowInstance, error) {
	var resp dataEnvelope[WorkflowInstance]
	if err := b.client.Get(ctx, "/api/orchestration/instances/"+id, nil, &resp, opts...); err != nil {
		return WorkflowInstance{}, err
	}
	return resp.Data, nil
}

func (b *flowsV1) ListTriggers(ctx context.Context, req ListRequest, opts ...backend.RequestOption) (Cursor[Trigger], error) {
	var resp cursorEnvelope[Trigger]
	if err := b.client.Get(ctx, "/api/orchestration/triggers", cursorListParams(req), &resp, opts...); err != nil {
		return Cursor[Trigger]{}, err
	}
	return resp.Cursor, nil
}

func (b *flowsV1) CreateTrigger(ctx context.Context, req CreateTriggerRequest, opts ...backend.RequestOption) (Trigger, error) {
	var resp dataEnvelope[Trigger]
	if err := b.client.Post(ctx, "/api/orchestration/triggers", req, &resp, opts...); err != nil {
		return Trigger{}, err
	}
	return resp.Data, nil
}

func (b *flowsV1) DeleteTrigger(ctx context.Context, id string, opts ...backend.RequestOption) error {
	return b.client.Delete(ctx, "/api/orchestration/triggers/"+id, opts...)
}
