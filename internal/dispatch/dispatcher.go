package dispatch

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/tha23rd/recaf-mcp-sub000/internal/apierr"
	"github.com/tha23rd/recaf-mcp-sub000/internal/logging"
)

// Dispatcher is the operation registry and invocation point of C12: it
// holds every registered (name, schema, handler) triple, extracts and
// validates arguments per the operation's schema, invokes the handler
// under the central error policy, and stamps the response with timing.
type Dispatcher struct {
	mu         sync.RWMutex
	operations map[string]*Operation
	byCategory map[Category][]*Operation
}

// NewDispatcher creates an empty dispatcher.
func NewDispatcher() *Dispatcher {
	return &Dispatcher{
		operations: make(map[string]*Operation),
		byCategory: make(map[Category][]*Operation),
	}
}

// Register adds an operation. Returns an error if the operation is
// malformed or a different operation already holds the same name.
func (d *Dispatcher) Register(op *Operation) error {
	if err := op.Validate(); err != nil {
		return fmt.Errorf("invalid operation: %w", err)
	}

	d.mu.Lock()
	defer d.mu.Unlock()

	if _, exists := d.operations[op.Name]; exists {
		return fmt.Errorf("%w: %s", ErrOperationAlreadyRegistered, op.Name)
	}
	d.operations[op.Name] = op
	d.byCategory[op.Category] = append(d.byCategory[op.Category], op)

	logging.DispatchDebug("registered operation: %s (category=%s)", op.Name, op.Category)
	return nil
}

// MustRegister registers an operation and panics on error; intended for
// static registration at process startup.
func (d *Dispatcher) MustRegister(op *Operation) {
	if err := d.Register(op); err != nil {
		panic(fmt.Sprintf("failed to register operation %s: %v", op.Name, err))
	}
}

// Get returns a registered operation by name, or ok=false.
func (d *Dispatcher) Get(name string) (*Operation, bool) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	op, ok := d.operations[name]
	return op, ok
}

// ByCategory returns every operation in a category, name-sorted.
func (d *Dispatcher) ByCategory(category Category) []*Operation {
	d.mu.RLock()
	defer d.mu.RUnlock()
	ops := make([]*Operation, len(d.byCategory[category]))
	copy(ops, d.byCategory[category])
	sort.Slice(ops, func(i, j int) bool { return ops[i].Name < ops[j].Name })
	return ops
}

// All returns every registered operation, name-sorted — used by the
// tool-discovery category.
func (d *Dispatcher) All() []*Operation {
	d.mu.RLock()
	defer d.mu.RUnlock()
	out := make([]*Operation, 0, len(d.operations))
	for _, op := range d.operations {
		out = append(out, op)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// Names returns every registered operation name, sorted.
func (d *Dispatcher) Names() []string {
	d.mu.RLock()
	defer d.mu.RUnlock()
	names := make([]string, 0, len(d.operations))
	for name := range d.operations {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Count returns the number of registered operations.
func (d *Dispatcher) Count() int {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return len(d.operations)
}

// Dispatch extracts and validates raw arguments against the named
// operation's schema, invokes its handler under panic recovery (any
// panic surfaces as apierr.Internal rather than crashing the process),
// and stamps the response with elapsed time.
func (d *Dispatcher) Dispatch(ctx context.Context, name string, raw map[string]any) Response {
	start := time.Now()

	op, ok := d.Get(name)
	if !ok {
		return Response{
			OperationName: name,
			Err:           apierr.NotFound(fmt.Sprintf("%s: %s", ErrOperationNotFound, name), nil),
			DurationMs:    time.Since(start).Milliseconds(),
		}
	}

	args, apiErr := extractArgs(op.Schema, raw)
	if apiErr != nil {
		return Response{OperationName: name, Err: apiErr, DurationMs: time.Since(start).Milliseconds()}
	}

	result, apiErr := d.invoke(ctx, op, args)
	duration := time.Since(start)
	logging.DispatchDebug("dispatched %s in %v (success=%v)", name, duration, apiErr == nil)

	return Response{
		OperationName: name,
		Result:        result,
		Err:           apiErr,
		DurationMs:    duration.Milliseconds(),
	}
}

// invoke calls op.Handler, converting any handler panic into an internal
// apierr rather than propagating it to the caller.
func (d *Dispatcher) invoke(ctx context.Context, op *Operation, args Args) (result any, apiErr *apierr.Error) {
	defer func() {
		if r := recover(); r != nil {
			apiErr = apierr.Internal(fmt.Errorf("operation %s panicked: %v", op.Name, r))
		}
	}()
	return op.Handler(ctx, args)
}

// extractArgs validates that every required property is present, applies
// documented defaults for missing optional properties, and returns the
// merged argument set as Args.
func extractArgs(schema Schema, raw map[string]any) (Args, *apierr.Error) {
	for _, required := range schema.Required {
		if _, ok := raw[required]; !ok {
			return nil, apierr.BadRequest(required, fmt.Sprintf("missing required argument: %s", required))
		}
	}

	args := make(Args, len(raw))
	for k, v := range raw {
		args[k] = v
	}
	for name, prop := range schema.Properties {
		if _, present := args[name]; !present && prop.Default != nil {
			args[name] = prop.Default
		}
	}
	return args, nil
}
