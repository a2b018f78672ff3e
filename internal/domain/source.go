package domain

import "time"

// ConnectionStatus is the cosmetic connection state shown for a data provider.
type ConnectionStatus string

const (
	StatusConnecting ConnectionStatus = "connecting"
	StatusConnected  ConnectionStatus = "connected"
	StatusError      ConnectionStatus = "error"
	StatusDisabled   ConnectionStatus = "disabled"
)

// SourceDescriptor is the static metadata of a NOTAM data provider.
type SourceDescriptor struct {
	Key          string `json:"key"`
	Name         string `json:"name"`
	URL          string `json:"url"`
	Coverage     string `json:"coverage"`
	AuthRequired bool   `json:"auth_required"`
}

// SourceStatus pairs a descriptor with its runtime connection fields.
// No ingestion happens over these connections.
type SourceStatus struct {
	SourceDescriptor
	Connected  bool             `json:"connected"`
	Status     ConnectionStatus `json:"status"`
	LastUpdate *time.Time       `json:"last_update"`
}

// SourceRegistry is an ordered, read-only set of source descriptors.
type SourceRegistry struct {
	order []string
	byKey map[string]SourceDescriptor
}

// NewSourceRegistry builds a registry. Later duplicates of a key replace
// earlier ones but keep the first position.
func NewSourceRegistry(sources []SourceDescriptor) *SourceRegistry {
	r := &SourceRegistry{byKey: make(map[string]SourceDescriptor, len(sources))}
	for _, s := range sources {
		if _, ok := r.byKey[s.Key]; !ok {
			r.order = append(r.order, s.Key)
		}
		r.byKey[s.Key] = s
	}
	return r
}

// Lookup returns the descriptor for key.
func (r *SourceRegistry) Lookup(key string) (SourceDescriptor, bool) {
	if r == nil {
		return SourceDescriptor{}, false
	}
	s, ok := r.byKey[key]
	return s, ok
}

// DisplayName resolves a source key to its display name, falling back to
// the key itself for unregistered sources.
func (r *SourceRegistry) DisplayName(key string) string {
	if s, ok := r.Lookup(key); ok && s.Name != "" {
		return s.Name
	}
	return key
}

// Descriptors returns all descriptors in registration order.
func (r *SourceRegistry) Descriptors() []SourceDescriptor {
	if r == nil {
		return nil
	}
	out := make([]SourceDescriptor, 0, len(r.order))
	for _, k := range r.order {
		out = append(out, r.byKey[k])
	}
	return out
}

// Keys returns the registered keys in order.
func (r *SourceRegistry) Keys() []string {
	if r == nil {
		return nil
	}
	return append([]string(nil), r.order...)
}
