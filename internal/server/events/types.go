package events

import (
	"time"
)

// EventType defines the type of event
type EventType string

const (
	EventConnected EventType = "connection:established"

	// Menu events
	EventLNBChanged   EventType = "lnb:changed"
	EventMenuReloaded EventType = "menu:reloaded"

	// Tenant events
	EventTenantChanged EventType = "tenant:changed"
)

// Event represents a real-time event
type Event struct {
	Type      EventType   `json:"type"`
	Timestamp time.Time   `json:"timestamp"`
	TenantID  string      `json:"tenant_id,omitempty"`
	Module    string      `json:"module,omitempty"`
	Data      interface{} `json:"data,omitempty"`
}

// NewEvent creates a new event
func NewEvent(eventType EventType, data interface{}) *Event {
	return &Event{
		Type:      eventType,
		Timestamp: time.Now(),
		Data:      data,
	}
}

// WithTenant sets tenant ID
func (e *Event) WithTenant(tenantID string) *Event {
	e.TenantID = tenantID
	return e
}

// WithModule sets module name
func (e *Event) WithModule(module string) *Event {
	e.Module = module
	return e
}

// LNBChangedData represents a menu mutation
type LNBChangedData struct {
	Action string `json:"action"` // create, update, delete, import, seed
	NodeID string `json:"node_id,omitempty"`
	Count  int    `json:"count,omitempty"`
}

// TenantChangedData represents a tenant mutation
type TenantChangedData struct {
	ID     string `json:"id"`
	Action string `json:"action"` // create, use, delete
}

// MenuReloadedData represents a static menu file reload
type MenuReloadedData struct {
	Path    string   `json:"path"`
	Modules []string `json:"modules,omitempty"`
	Error   string   `json:"error,omitempty"`
}
