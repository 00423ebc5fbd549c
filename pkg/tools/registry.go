package tools

import (
	"context"
	"sync"

	models "github.com/XiaoConstantine/mcp-go/pkg/model"

	"github.com/XiaoConstantine/evoloop-go/pkg/errors"
)

// InMemoryToolRegistry provides a basic in-memory tool registry.
type InMemoryToolRegistry struct {
	mu    sync.RWMutex
	tools map[string]Tool
	order []string
}

// NewInMemoryToolRegistry creates a new, empty InMemoryToolRegistry.
func NewInMemoryToolRegistry() *InMemoryToolRegistry {
	return &InMemoryToolRegistry{
		tools: make(map[string]Tool),
	}
}

// Register adds a tool to the registry.
// It returns an error if a tool with the same name already exists.
func (r *InMemoryToolRegistry) Register(tool Tool) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if tool == nil {
		return errors.New(errors.InvalidInput, "cannot register a nil tool")
	}

	name := tool.Name()
	if _, exists := r.tools[name]; exists {
		return errors.WithFields(errors.New(errors.InvalidInput, "tool already registered"), errors.Fields{
			"tool_name": name,
		})
	}

	r.tools[name] = tool
	r.order = append(r.order, name)
	return nil
}

// Get retrieves a tool by its name.
// It returns an error if the tool is not found.
func (r *InMemoryToolRegistry) Get(name string) (Tool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	tool, exists := r.tools[name]
	if !exists {
		return nil, errors.WithFields(errors.New(errors.ResourceNotFound, "tool not found"), errors.Fields{
			"tool_name": name,
		})
	}
	return tool, nil
}

// List returns all registered tools in registration order.
func (r *InMemoryToolRegistry) List() []Tool {
	r.mu.RLock()
	defer r.mu.RUnlock()

	list := make([]Tool, 0, len(r.order))
	for _, name := range r.order {
		list = append(list, r.tools[name])
	}
	return list
}

// Call dispatches to a registered tool by name. An unknown tool name comes
// back as an error-shaped result, keeping the caller's handling uniform.
func (r *InMemoryToolRegistry) Call(ctx context.Context, name string, args map[string]interface{}) (*models.CallToolResult, error) {
	tool, err := r.Get(name)
	if err != nil {
		return errorResult(err), nil
	}
	return tool.Call(ctx, args)
}
