package session

import (
	"context"
	"sync"
	"time"

	"storefront/internal/api"
	"storefront/internal/auth"
	"storefront/internal/cart"
	"storefront/internal/checkout"
	"storefront/internal/storage"
)

const (
	cartKeyPrefix     = "cart:"
	envelopeKeyPrefix = "pending_checkout:"
)

// Registry はセッションIDごとにコアを組み立てて保持する。
type Registry struct {
	kv             storage.KV
	verifier       *auth.Verifier
	apiBaseURL     string
	envelopeSecret [32]byte
	confirmDelay   time.Duration

	mu       sync.Mutex
	sessions map[string]*Session
}

func NewRegistry(
	kv storage.KV,
	verifier *auth.Verifier,
	apiBaseURL string,
	envelopeSecret [32]byte,
	confirmDelay time.Duration,
) *Registry {
	return &Registry{
		kv:             kv,
		verifier:       verifier,
		apiBaseURL:     apiBaseURL,
		envelopeSecret: envelopeSecret,
		confirmDelay:   confirmDelay,
		sessions:       map[string]*Session{},
	}
}

// Get は無ければ組み立てて返す。スナップショットがKVに残っていれば
// Storeはそこから復元される。
func (r *Registry) Get(ctx context.Context, id string) *Session {
	r.mu.Lock()
	defer r.mu.Unlock()

	if s, ok := r.sessions[id]; ok {
		return s
	}

	s := &Session{
		ID:       id,
		verifier: r.verifier,
		Nav:      &NavRecorder{},
	}

	client := api.NewClient(r.apiBaseURL, s)
	store := cart.NewStore(ctx, r.kv, cartKeyPrefix+id)
	syncer := cart.NewSynchronizer(store, api.NewCartClient(client), s)
	envelopes := checkout.NewEnvelopeStore(r.kv, envelopeKeyPrefix+id, r.envelopeSecret)

	s.Store = store
	s.Carts = syncer
	s.Checkout = checkout.NewOrchestrator(
		store,
		syncer,
		api.NewOrderClient(client),
		s,
		s.Nav,
		envelopes,
		r.confirmDelay,
	)
	s.Catalog = api.NewCatalogClient(client)
	s.Customer = api.NewCustomerClient(client)

	r.sessions[id] = s
	return s
}
