// Package newsletter manages promo-list subscriptions and the promo opt-in
// webhook notification.
package newsletter

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/neighborhoodkrew/krew-leads-platform/internal/kv"
)

// ErrEmptyEmail is returned when a subscription request carries no address.
var ErrEmptyEmail = errors.New("newsletter: email is required")

// Subscription is one newsletter signup.
type Subscription struct {
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"createdAt"`
}

// Store persists subscriptions, deduplicated by exact email match.
type Store struct {
	mu   sync.Mutex
	coll *kv.Collection[Subscription]
	now  func() time.Time
}

// NewStore creates a subscription store.
func NewStore(store kv.Store) *Store {
	return &Store{
		coll: kv.NewCollection[Subscription](store, kv.KeyNewsletter),
		now:  time.Now,
	}
}

// Subscribe records the email once. Repeat subscriptions are a no-op and
// report added=false.
func (s *Store) Subscribe(ctx context.Context, email string) (added bool, err error) {
	if email == "" {
		return false, ErrEmptyEmail
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	subs, err := s.coll.Load(ctx)
	if err != nil {
		return false, err
	}
	for _, sub := range subs {
		if sub.Email == email {
			return false, nil
		}
	}

	subs = append(subs, Subscription{Email: email, CreatedAt: s.now().UTC()})
	if err := s.coll.Save(ctx, subs); err != nil {
		return false, err
	}
	return true, nil
}

// List returns all subscriptions in signup order.
func (s *Store) List(ctx context.Context) ([]Subscription, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.coll.Load(ctx)
}
