package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"recruit_client/internal/common"
)

// Record is implemented by every record type the backend assigns a numeric id to.
type Record interface {
	RecordID() int64
}

var errMissingID = errors.New("record has no id")

// Resource gives findAll/findById/insert/update/delete over one backend collection.
type Resource[T Record] struct {
	exec *Executor
	name string
}

func NewResource[T Record](exec *Executor, name string) Resource[T] {
	return Resource[T]{exec: exec, name: name}
}

func (r Resource[T]) Name() string {
	return r.name
}

func (r Resource[T]) FindAll(ctx context.Context) ([]T, error) {
	return r.list(ctx, "findAll")
}

func (r Resource[T]) FindByID(ctx context.Context, id string) (*T, error) {
	return r.one(ctx, Request{Method: http.MethodGet, Path: []string{id}, Operation: "findById", ID: id})
}

func (r Resource[T]) Insert(ctx context.Context, data any, opts ...CallOption) (*T, error) {
	return r.one(ctx, Request{Method: http.MethodPost, Body: data, Operation: "insert"}, opts...)
}

func (r Resource[T]) Update(ctx context.Context, id string, data any, opts ...CallOption) (*T, error) {
	return r.one(ctx, Request{Method: http.MethodPut, Path: []string{id}, Body: data, Operation: "update", ID: id}, opts...)
}

func (r Resource[T]) Delete(ctx context.Context, id string) (json.RawMessage, error) {
	var out json.RawMessage
	req := Request{Method: http.MethodDelete, Resource: r.name, Path: []string{id}, Operation: "delete", ID: id}
	if err := r.exec.DoJSON(ctx, req, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (r Resource[T]) list(ctx context.Context, operation string, path ...string) ([]T, error) {
	return r.listQuery(ctx, Request{Method: http.MethodGet, Path: path, Operation: operation})
}

func (r Resource[T]) listQuery(ctx context.Context, req Request) ([]T, error) {
	req.Resource = r.name
	var items []T
	if err := r.exec.DoJSON(ctx, req, &items); err != nil {
		return nil, err
	}
	if items == nil {
		items = []T{}
	}
	return items, nil
}

func (r Resource[T]) one(ctx context.Context, req Request, opts ...CallOption) (*T, error) {
	req.Resource = r.name
	for _, opt := range opts {
		opt(&req)
	}
	var item T
	if err := r.exec.DoJSON(ctx, req, &item); err != nil {
		return nil, err
	}
	if item.RecordID() == 0 {
		return nil, &common.DecodeFailure{Operation: req.Operation, Err: errMissingID}
	}
	return &item, nil
}

// transition sends a state change and ignores the confirmation body.
func (r Resource[T]) transition(ctx context.Context, method, operation string, id int64, suffix string, body any) error {
	key := FormatID(id)
	req := Request{Method: method, Resource: r.name, Path: []string{key, suffix}, Body: body, Operation: operation, ID: key}
	return r.exec.DoJSON(ctx, req, nil)
}

func FormatID(id int64) string {
	return strconv.FormatInt(id, 10)
}
