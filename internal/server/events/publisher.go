package events

import (
	"github.com/n0roo/navkit/internal/route"
)

// Publisher publishes events to SSE clients
type Publisher struct {
	sse *SSEServer
}

// NewPublisher creates a publisher on top of sse. A nil server drops events.
func NewPublisher(sse *SSEServer) *Publisher {
	return &Publisher{sse: sse}
}

// SSEServer returns the underlying SSE server
func (p *Publisher) SSEServer() *SSEServer {
	return p.sse
}

// Publish publishes an event
func (p *Publisher) Publish(event *Event) {
	if p != nil && p.sse != nil {
		p.sse.Broadcast(event)
	}
}

// PublishLNBChanged publishes a menu mutation of a tenant/module
func (p *Publisher) PublishLNBChanged(tenantID string, module route.Module, action, nodeID string, count int) {
	event := NewEvent(EventLNBChanged, LNBChangedData{
		Action: action,
		NodeID: nodeID,
		Count:  count,
	}).WithTenant(tenantID).WithModule(string(module.OrDefault()))

	p.Publish(event)
}

// PublishTenantChanged publishes a tenant mutation
func (p *Publisher) PublishTenantChanged(tenantID, action string) {
	event := NewEvent(EventTenantChanged, TenantChangedData{
		ID:     tenantID,
		Action: action,
	}).WithTenant(tenantID)

	p.Publish(event)
}

// PublishMenuReloaded publishes a static menu file reload
func (p *Publisher) PublishMenuReloaded(path string, modules []route.Module, reloadErr error) {
	data := MenuReloadedData{Path: path}
	for _, m := range modules {
		data.Modules = append(data.Modules, string(m))
	}
	if reloadErr != nil {
		data.Error = reloadErr.Error()
	}

	p.Publish(NewEvent(EventMenuReloaded, data))
}
