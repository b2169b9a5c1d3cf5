package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/pageza/foodtrove/internal/cart"
	"github.com/pageza/foodtrove/internal/client"
	"github.com/pageza/foodtrove/internal/storage"
)

const (
	cartStoreVersion  = 2
	maxRemoteSessions = 10000
	remoteStateTTL    = time.Hour
)

// RemoteState is the in-memory state of a visitor's remote cart actions. It
// is never persisted.
type RemoteState struct {
	Loading      bool             `json:"loading"`
	Error        string           `json:"error"`
	Carts        *client.CartPage `json:"carts"`
	ActiveCart   *client.Cart     `json:"activeCart"`
	LastActionAt time.Time        `json:"lastActionAt"`
}

// CartService owns the persisted local cart and the remote cart actions.
type CartService struct {
	store DeviceStorage
	api   CartAPI
	now   func() time.Time

	locks  sessionLocks
	mu     sync.Mutex
	remote map[string]*RemoteState
}

func NewCartService(store DeviceStorage, api CartAPI) *CartService {
	return &CartService{
		store:  store,
		api:    api,
		now:    time.Now,
		remote: make(map[string]*RemoteState),
	}
}

type persistedCart struct {
	State struct {
		Items json.RawMessage `json:"items"`
	} `json:"state"`
	Version int `json:"version"`
}

// decodeCart reads the persisted envelope. Anything but an items array
// migrates to an empty cart.
func decodeCart(raw string) *cart.Cart {
	c := &cart.Cart{}
	var env persistedCart
	if err := json.Unmarshal([]byte(raw), &env); err != nil {
		log.Printf("Discarding unreadable cart: %v", err)
		return c
	}

	var items []cart.Item
	if err := json.Unmarshal(env.State.Items, &items); err != nil {
		return c
	}
	for _, it := range items {
		c.Add(it, it.Qty)
	}
	return c
}

func encodeCart(c *cart.Cart) (string, error) {
	items := c.Items
	if items == nil {
		items = []cart.Item{}
	}
	env := map[string]interface{}{
		"state":   map[string]interface{}{"items": items},
		"version": cartStoreVersion,
	}
	raw, err := json.Marshal(env)
	if err != nil {
		return "", err
	}
	return string(raw), nil
}

// Load returns the visitor's cart.
func (s *CartService) Load(ctx context.Context, sessionID string) (*cart.Cart, error) {
	raw, err := s.store.Get(ctx, sessionID, storage.KeyCart)
	if errors.Is(err, storage.ErrNotFound) {
		return &cart.Cart{}, nil
	}
	if err != nil {
		return nil, err
	}
	return decodeCart(raw), nil
}

// Update loads the cart, applies fn and persists the result.
func (s *CartService) Update(ctx context.Context, sessionID string, fn func(*cart.Cart)) (*cart.Cart, error) {
	unlock := s.locks.lock(sessionID)
	defer unlock()

	c, err := s.Load(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	fn(c)

	raw, err := encodeCart(c)
	if err != nil {
		return nil, fmt.Errorf("failed to encode cart: %w", err)
	}
	if err := s.store.Set(ctx, sessionID, storage.KeyCart, raw); err != nil {
		return nil, err
	}
	return c, nil
}

func (s *CartService) AddItem(ctx context.Context, sessionID string, item cart.Item, qty int) (*cart.Cart, error) {
	return s.Update(ctx, sessionID, func(c *cart.Cart) { c.Add(item, qty) })
}

func (s *CartService) AddManyIfEmpty(ctx context.Context, sessionID string, items []cart.Item) (*cart.Cart, error) {
	return s.Update(ctx, sessionID, func(c *cart.Cart) { c.AddManyIfEmpty(items) })
}

func (s *CartService) SetQty(ctx context.Context, sessionID string, id, qty int) (*cart.Cart, error) {
	return s.Update(ctx, sessionID, func(c *cart.Cart) { c.SetQty(id, qty) })
}

func (s *CartService) Inc(ctx context.Context, sessionID string, id int) (*cart.Cart, error) {
	return s.Update(ctx, sessionID, func(c *cart.Cart) { c.Inc(id) })
}

func (s *CartService) Dec(ctx context.Context, sessionID string, id int) (*cart.Cart, error) {
	return s.Update(ctx, sessionID, func(c *cart.Cart) { c.Dec(id) })
}

func (s *CartService) RemoveItem(ctx context.Context, sessionID string, id int) (*cart.Cart, error) {
	return s.Update(ctx, sessionID, func(c *cart.Cart) { c.Remove(id) })
}

func (s *CartService) Clear(ctx context.Context, sessionID string) (*cart.Cart, error) {
	return s.Update(ctx, sessionID, func(c *cart.Cart) { c.Clear() })
}

// RemoveOrdered takes the ordered lines out of the cart and leaves anything
// added since the order snapshot was taken.
func (s *CartService) RemoveOrdered(ctx context.Context, sessionID string, ordered []cart.Item) (*cart.Cart, error) {
	return s.Update(ctx, sessionID, func(c *cart.Cart) { c.Subtract(ordered) })
}

// Remote returns a copy of the visitor's remote cart state.
func (s *CartService) Remote(sessionID string) RemoteState {
	s.mu.Lock()
	defer s.mu.Unlock()
	if st, ok := s.remote[sessionID]; ok {
		return *st
	}
	return RemoteState{}
}

func (s *CartService) beginRemote(sessionID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	st, ok := s.remote[sessionID]
	if !ok {
		if len(s.remote) >= maxRemoteSessions {
			s.pruneRemoteLocked()
		}
		st = &RemoteState{}
		s.remote[sessionID] = st
	}
	st.Loading = true
	st.Error = ""
}

func (s *CartService) pruneRemoteLocked() {
	cutoff := s.now().Add(-remoteStateTTL)
	for id, st := range s.remote {
		if !st.Loading && st.LastActionAt.Before(cutoff) {
			delete(s.remote, id)
		}
	}
}

func (s *CartService) endRemote(sessionID string, err error, apply func(*RemoteState)) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	st := s.remote[sessionID]
	st.Loading = false
	if err != nil {
		fe := newFetchError(ResourceCarts, err, err.Error())
		st.Error = fe.Message
		log.Printf("Remote cart action failed: %v", err)
		return fe
	}
	st.LastActionAt = s.now()
	if apply != nil {
		apply(st)
	}
	return nil
}

// FetchAllCarts loads the remote cart listing into the visitor's state.
func (s *CartService) FetchAllCarts(ctx context.Context, sessionID string) (*client.CartPage, error) {
	s.beginRemote(sessionID)
	page, err := s.api.Carts(ctx, 0, 0)
	return page, s.endRemote(sessionID, err, func(st *RemoteState) { st.Carts = page })
}

// FetchCartByID makes one remote cart the active cart.
func (s *CartService) FetchCartByID(ctx context.Context, sessionID string, cartID int) (*client.Cart, error) {
	s.beginRemote(sessionID)
	c, err := s.api.Cart(ctx, cartID)
	return c, s.endRemote(sessionID, err, func(st *RemoteState) { st.ActiveCart = c })
}

// FetchCartsByUser loads one user's remote carts into the visitor's state.
func (s *CartService) FetchCartsByUser(ctx context.Context, sessionID string, userID int) (*client.CartPage, error) {
	s.beginRemote(sessionID)
	page, err := s.api.CartsByUser(ctx, userID)
	return page, s.endRemote(sessionID, err, func(st *RemoteState) { st.Carts = page })
}

// CreateCart simulates creating a remote cart and makes it the active cart.
func (s *CartService) CreateCart(ctx context.Context, sessionID string, userID int, products []client.LineItem) (*client.Cart, error) {
	s.beginRemote(sessionID)
	c, err := s.api.AddCart(ctx, userID, products)
	return c, s.endRemote(sessionID, err, func(st *RemoteState) { st.ActiveCart = c })
}

// UpdateCart simulates updating a remote cart and makes it the active cart.
func (s *CartService) UpdateCart(ctx context.Context, sessionID string, cartID int, merge bool, products []client.LineItem) (*client.Cart, error) {
	s.beginRemote(sessionID)
	c, err := s.api.UpdateCart(ctx, cartID, merge, products)
	return c, s.endRemote(sessionID, err, func(st *RemoteState) { st.ActiveCart = c })
}

// DeleteCart simulates deleting a remote cart. It is dropped from the listed
// carts and cleared as the active cart.
func (s *CartService) DeleteCart(ctx context.Context, sessionID string, cartID int) (*client.Cart, error) {
	s.beginRemote(sessionID)
	c, err := s.api.DeleteCart(ctx, cartID)
	return c, s.endRemote(sessionID, err, func(st *RemoteState) {
		if st.Carts != nil {
			kept := make([]client.Cart, 0, len(st.Carts.Carts))
			for _, existing := range st.Carts.Carts {
				if existing.ID != cartID {
					kept = append(kept, existing)
				}
			}
			page := *st.Carts
			page.Carts = kept
			st.Carts = &page
		}
		if st.ActiveCart != nil && st.ActiveCart.ID == cartID {
			st.ActiveCart = nil
		}
	})
}

// LineItems maps cart lines to the {id, quantity} pairs of the demo API.
func LineItems(c *cart.Cart) []client.LineItem {
	out := make([]client.LineItem, 0, len(c.Items))
	for _, it := range c.Items {
		out = append(out, client.LineItem{ID: it.ID, Quantity: it.Qty})
	}
	return out
}

// PushLocalAsCart sends the local cart to the demo API as a new cart for userID.
func (s *CartService) PushLocalAsCart(ctx context.Context, sessionID string, userID int) (*client.Cart, error) {
	c, err := s.Load(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	return s.CreateCart(ctx, sessionID, userID, LineItems(c))
}
