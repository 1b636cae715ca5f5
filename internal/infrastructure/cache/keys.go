package cache

import "fmt"

// Keys builds namespaced cache keys of the form
// {service}:{aggregate}:{id} with "all" as the collection id.
type Keys struct {
	service string
}

// NewKeys creates a key builder for the given service namespace.
func NewKeys(service string) Keys {
	return Keys{service: service}
}

// Entity returns the key for a single aggregate instance.
func (k Keys) Entity(aggregate string, id int64) string {
	return fmt.Sprintf("%s:%s:%d", k.service, aggregate, id)
}

// All returns the key for an aggregate's full collection.
func (k Keys) All(aggregate string) string {
	return fmt.Sprintf("%s:%s:all", k.service, aggregate)
}
