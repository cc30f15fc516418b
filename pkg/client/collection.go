package client

import (
	"context"
	"net/http"
	"sync"
)

// Notifier receives one callback per mutation, success or failure. The
// failure message is the backend's own text so it can be shown verbatim.
type Notifier interface {
	Success(action, resource string)
	Failure(action, resource, message string)
}

// NopNotifier discards all notifications.
type NopNotifier struct{}

func (NopNotifier) Success(string, string)         {}
func (NopNotifier) Failure(string, string, string) {}

// Collection is a typed handle on one list endpoint with a cached List and
// invalidate-on-mutate writes. The cache is last-write-wins: concurrent
// fetches may race and the later response sticks until the next
// invalidation. Reads during an unauthenticated period are skipped rather
// than failed.
type Collection[T any] struct {
	client   *Client
	path     string
	resource string
	notifier Notifier

	mu     sync.Mutex
	cached []T
	valid  bool
}

func NewCollection[T any](c *Client, path, resource string, notifier Notifier) *Collection[T] {
	if notifier == nil {
		notifier = NopNotifier{}
	}
	return &Collection[T]{client: c, path: path, resource: resource, notifier: notifier}
}

// List returns the cached items, fetching only when the cache is invalid.
// Without a session it returns an empty slice and does not hit the API.
func (col *Collection[T]) List(ctx context.Context) ([]T, error) {
	if !col.client.HasSession() {
		return []T{}, nil
	}

	col.mu.Lock()
	if col.valid {
		out := col.cached
		col.mu.Unlock()
		return out, nil
	}
	col.mu.Unlock()

	var items []T
	if err := col.client.do(ctx, http.MethodGet, col.path, nil, &items); err != nil {
		return nil, err
	}
	if items == nil {
		items = []T{}
	}

	col.mu.Lock()
	col.cached = items
	col.valid = true
	col.mu.Unlock()
	return items, nil
}

// Invalidate drops the cache so the next List refetches.
func (col *Collection[T]) Invalidate() {
	col.mu.Lock()
	col.valid = false
	col.cached = nil
	col.mu.Unlock()
}

// Create posts a new item. The cache is invalidated only when the backend
// accepted the write.
func (col *Collection[T]) Create(ctx context.Context, body any) (*T, error) {
	var created T
	if err := col.client.do(ctx, http.MethodPost, col.path, body, &created); err != nil {
		col.notifier.Failure("create", col.resource, errorMessage(err))
		return nil, err
	}
	col.Invalidate()
	col.notifier.Success("create", col.resource)
	return &created, nil
}

// Update patches one item by id.
func (col *Collection[T]) Update(ctx context.Context, id string, patch any) (*T, error) {
	var updated T
	if err := col.client.do(ctx, http.MethodPatch, col.path+"/"+id, patch, &updated); err != nil {
		col.notifier.Failure("update", col.resource, errorMessage(err))
		return nil, err
	}
	col.Invalidate()
	col.notifier.Success("update", col.resource)
	return &updated, nil
}

// Delete removes one item by id.
func (col *Collection[T]) Delete(ctx context.Context, id string) error {
	if err := col.client.do(ctx, http.MethodDelete, col.path+"/"+id, nil, nil); err != nil {
		col.notifier.Failure("delete", col.resource, errorMessage(err))
		return err
	}
	col.Invalidate()
	col.notifier.Success("delete", col.resource)
	return nil
}

// TryCreate is Create with the error swallowed; the notifier already carried
// the failure to the user.
func (col *Collection[T]) TryCreate(ctx context.Context, body any) (*T, bool) {
	created, err := col.Create(ctx, body)
	return created, err == nil
}

// TryUpdate is Update with the error swallowed.
func (col *Collection[T]) TryUpdate(ctx context.Context, id string, patch any) (*T, bool) {
	updated, err := col.Update(ctx, id, patch)
	return updated, err == nil
}

// TryDelete is Delete with the error swallowed.
func (col *Collection[T]) TryDelete(ctx context.Context, id string) bool {
	return col.Delete(ctx, id) == nil
}

func errorMessage(err error) string {
	if apiErr, ok := err.(*APIError); ok {
		return apiErr.Message
	}
	return "request failed"
}
