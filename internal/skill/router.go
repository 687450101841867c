package skill

import (
	"context"
	"sort"

	"bitbucket.org/sotavant/alexa-skill-server/internal/models"
)

// IntentHandlerFunc handles one named intent. See Handler for the meaning
// of the returned value.
type IntentHandlerFunc func(ctx context.Context, req *models.Request) (any, error)

// IntentRouter resolves intent names to handlers. The table is copied at
// construction and never changes afterwards, so lookups need no locking.
type IntentRouter struct {
	intents  map[string]IntentHandlerFunc
	fallback IntentHandlerFunc
}

func NewIntentRouter(intents map[string]IntentHandlerFunc, fallback IntentHandlerFunc) *IntentRouter {
	table := make(map[string]IntentHandlerFunc, len(intents))
	for name, h := range intents {
		if h != nil {
			table[name] = h
		}
	}
	if fallback == nil {
		fallback = func(context.Context, *models.Request) (any, error) { return nil, nil }
	}
	return &IntentRouter{intents: table, fallback: fallback}
}

// Lookup matches name exactly and case-sensitively.
func (r *IntentRouter) Lookup(name string) (IntentHandlerFunc, bool) {
	h, ok := r.intents[name]
	return h, ok
}

// Route runs the handler registered for the request's intent, or the
// fallback when none is. matched reports which of the two ran.
func (r *IntentRouter) Route(ctx context.Context, req *models.Request) (result any, matched bool, err error) {
	if h, ok := r.Lookup(req.IntentName()); ok {
		result, err = h(ctx, req)
		return result, true, err
	}
	result, err = r.fallback(ctx, req)
	return result, false, err
}

// Intents lists the registered intent names in sorted order.
func (r *IntentRouter) Intents() []string {
	names := make([]string, 0, len(r.intents))
	for name := range r.intents {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
