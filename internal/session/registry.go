package session

import (
	"context"
	"time"

	"github.com/patrickmn/go-cache"

	"evently/server/internal/logging"
	"evently/server/internal/store"
)

// Registry keeps one controller per browser session, keyed by the
// client cookie. Idle controllers are evicted after the TTL; eviction
// closes the controller and releases its store binding so the
// subscription never outlives the client.
type Registry struct {
	store       *store.Store
	controllers *cache.Cache
}

func NewRegistry(st *store.Store, ttl time.Duration) *Registry {
	c := cache.New(ttl, ttl/2)
	c.OnEvicted(func(clientKey string, v interface{}) {
		if ctrl, ok := v.(*Controller); ok {
			ctrl.Close()
		}
		st.Release(clientKey)
		logging.Debug("session controller evicted", "client", clientKey)
	})
	return &Registry{store: st, controllers: c}
}

// Lookup returns the live controller for a client, or nil.
func (r *Registry) Lookup(clientKey string) *Controller {
	if v, found := r.controllers.Get(clientKey); found {
		return v.(*Controller)
	}
	return nil
}

// Obtain returns the client's controller, creating and subscribing one
// on first contact. Each access pushes the eviction deadline out.
func (r *Registry) Obtain(clientKey string) *Controller {
	if ctrl := r.Lookup(clientKey); ctrl != nil {
		r.controllers.SetDefault(clientKey, ctrl)
		return ctrl
	}

	ctrl := NewController(r.store.Bind(clientKey))
	r.controllers.SetDefault(clientKey, ctrl)
	return ctrl
}

// RestoreToken revives a client's controller from a persisted session
// token, settling it from the token's session without blocking the
// caller.
func (r *Registry) RestoreToken(clientKey, token string) *Controller {
	ctrl := r.Obtain(clientKey)
	client := r.store.Bind(clientKey)
	go func() {
		if err := client.Restore(context.Background(), token); err != nil {
			logging.Debug("session token restore rejected", "client", clientKey, "error", err.Error())
		}
	}()
	return ctrl
}

// SessionToken returns the signed token backing a client's active
// session, or "" when signed out.
func (r *Registry) SessionToken(clientKey string) string {
	return r.store.ActiveToken(clientKey)
}

// Drop evicts a client's controller immediately (used after logout of a
// browser session that is going away).
func (r *Registry) Drop(clientKey string) {
	r.controllers.Delete(clientKey)
}
