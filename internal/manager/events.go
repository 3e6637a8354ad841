package manager

// Event names published by the manager.
const (
	EventModelLoaded      = "model_loaded"
	EventModelUnloaded    = "model_unloaded"
	EventRegistryReloaded = "registry_reloaded"
)

// Event represents a manager lifecycle event.
// Minimal and stable: name + model name and optional fields via key/values.
type Event struct {
	Name   string
	Model  string
	Fields map[string]any
}

// EventPublisher receives events from the manager. Implementations should be
// lightweight and non-blocking; Publish must not panic.
type EventPublisher interface {
	Publish(Event)
}

// noopPublisher is the default; it drops events.
type noopPublisher struct{}

func (noopPublisher) Publish(Event) {}

// publish logs e at debug level and forwards it to the configured publisher.
// Callers must not hold m.mu.
func (m *Manager) publish(e Event) {
	ev := m.log.Debug().Str("event", e.Name)
	if e.Model != "" {
		ev = ev.Str("model", e.Model)
	}
	ev.Fields(e.Fields).Msg("manager event")
	m.mu.RLock()
	pub := m.events
	m.mu.RUnlock()
	pub.Publish(e)
}
