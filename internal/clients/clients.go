// Package clients holds the per-client persona configuration of the widget.
package clients

import (
	"encoding/json"
	"fmt"
	"os"
	"sort"
)

// DefaultPrompt is used for client ids that are not configured.
const DefaultPrompt = "You are a helpful AI assistant. Answer questions concisely and professionally."

// Client is one configured widget deployment.
type Client struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	SystemPrompt string `json:"systemPrompt"`
}

// Resolver resolves the persona of a client id.
type Resolver interface {
	ResolveSystemPrompt(clientID string) string
	DisplayName(clientID string) string
}

// Table is an immutable client id to Client mapping. It is safe for
// concurrent reads; nothing mutates it after construction.
type Table struct {
	clients map[string]Client
}

// NewTable builds a table from entries. Later entries override earlier ones with the same id.
func NewTable(entries ...Client) *Table {
	m := make(map[string]Client, len(entries))
	for _, c := range entries {
		if c.ID == "" {
			continue
		}
		m[c.ID] = c
	}
	return &Table{clients: m}
}

// Load builds the table from the built-in clients plus an optional JSON file
// holding an array of Client objects.
func Load(path string) (*Table, error) {
	entries := Builtin()
	if path == "" {
		return NewTable(entries...), nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read clients file: %w", err)
	}

	var extra []Client
	if err := json.Unmarshal(data, &extra); err != nil {
		return nil, fmt.Errorf("failed to parse clients file: %w", err)
	}
	for i, c := range extra {
		if c.ID == "" || c.SystemPrompt == "" {
			return nil, fmt.Errorf("clients file entry %d: id and systemPrompt are required", i)
		}
	}

	return NewTable(append(entries, extra...)...), nil
}

// ResolveSystemPrompt implements Resolver.
func (t *Table) ResolveSystemPrompt(clientID string) string {
	if c, ok := t.Lookup(clientID); ok && c.SystemPrompt != "" {
		return c.SystemPrompt
	}
	return DefaultPrompt
}

// Lookup returns the client configured under exactly clientID.
func (t *Table) Lookup(clientID string) (Client, bool) {
	c, ok := t.clients[clientID]
	return c, ok
}

// DisplayName returns the configured name, or the id itself.
func (t *Table) DisplayName(clientID string) string {
	if c, ok := t.Lookup(clientID); ok && c.Name != "" {
		return c.Name
	}
	return clientID
}

// List returns all clients sorted by id.
func (t *Table) List() []Client {
	out := make([]Client, 0, len(t.clients))
	for _, c := range t.clients {
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}
