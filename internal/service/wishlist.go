package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"

	"github.com/pageza/foodtrove/internal/client"
	"github.com/pageza/foodtrove/internal/storage"
)

const wishlistStoreVersion = 1

// WishlistEntry is the recipe snapshot kept on the wishlist.
type WishlistEntry struct {
	ID      int     `json:"id"`
	Name    string  `json:"name"`
	Image   string  `json:"image"`
	Cuisine string  `json:"cuisine"`
	Rating  float64 `json:"rating"`
}

// EntryFromRecipe snapshots the fields the wishlist page shows.
func EntryFromRecipe(r client.Recipe) WishlistEntry {
	return WishlistEntry{ID: r.ID, Name: r.Name, Image: r.Image, Cuisine: r.Cuisine, Rating: r.Rating}
}

type persistedWishlist struct {
	State struct {
		Items []WishlistEntry `json:"items"`
	} `json:"state"`
	Version int `json:"version"`
}

// WishlistService keeps each visitor's wishlist in device storage.
type WishlistService struct {
	store DeviceStorage
	locks sessionLocks
}

func NewWishlistService(store DeviceStorage) *WishlistService {
	return &WishlistService{store: store}
}

// List returns the wishlist in insertion order.
func (s *WishlistService) List(ctx context.Context, sessionID string) ([]WishlistEntry, error) {
	raw, err := s.store.Get(ctx, sessionID, storage.KeyWishlist)
	if errors.Is(err, storage.ErrNotFound) {
		return []WishlistEntry{}, nil
	}
	if err != nil {
		return nil, err
	}

	var env persistedWishlist
	if err := json.Unmarshal([]byte(raw), &env); err != nil {
		log.Printf("Discarding unreadable wishlist: %v", err)
		return []WishlistEntry{}, nil
	}
	if env.State.Items == nil {
		return []WishlistEntry{}, nil
	}
	return env.State.Items, nil
}

func (s *WishlistService) save(ctx context.Context, sessionID string, items []WishlistEntry) error {
	var env persistedWishlist
	env.State.Items = items
	env.Version = wishlistStoreVersion
	raw, err := json.Marshal(env)
	if err != nil {
		return fmt.Errorf("failed to encode wishlist: %w", err)
	}
	return s.store.Set(ctx, sessionID, storage.KeyWishlist, string(raw))
}

func indexOf(items []WishlistEntry, id int) int {
	for i, it := range items {
		if it.ID == id {
			return i
		}
	}
	return -1
}

// update applies fn to the wishlist under the visitor's lock and saves the
// result when fn reports a change.
func (s *WishlistService) update(ctx context.Context, sessionID string, fn func([]WishlistEntry) ([]WishlistEntry, bool)) ([]WishlistEntry, error) {
	unlock := s.locks.lock(sessionID)
	defer unlock()

	items, err := s.List(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	items, changed := fn(items)
	if !changed {
		return items, nil
	}
	return items, s.save(ctx, sessionID, items)
}

// Add appends entry unless a recipe with the same id is already listed.
func (s *WishlistService) Add(ctx context.Context, sessionID string, entry WishlistEntry) ([]WishlistEntry, error) {
	return s.update(ctx, sessionID, func(items []WishlistEntry) ([]WishlistEntry, bool) {
		if indexOf(items, entry.ID) >= 0 {
			return items, false
		}
		return append(items, entry), true
	})
}

// Remove drops the recipe with id.
func (s *WishlistService) Remove(ctx context.Context, sessionID string, id int) ([]WishlistEntry, error) {
	return s.update(ctx, sessionID, func(items []WishlistEntry) ([]WishlistEntry, bool) {
		i := indexOf(items, id)
		if i < 0 {
			return items, false
		}
		return append(items[:i], items[i+1:]...), true
	})
}

// Toggle adds entry when absent and removes it when present. It reports
// whether the recipe is on the wishlist afterwards.
func (s *WishlistService) Toggle(ctx context.Context, sessionID string, entry WishlistEntry) (bool, error) {
	var listed bool
	_, err := s.update(ctx, sessionID, func(items []WishlistEntry) ([]WishlistEntry, bool) {
		if i := indexOf(items, entry.ID); i >= 0 {
			return append(items[:i], items[i+1:]...), true
		}
		listed = true
		return append(items, entry), true
	})
	if err != nil {
		return false, err
	}
	return listed, nil
}

func (s *WishlistService) Clear(ctx context.Context, sessionID string) error {
	unlock := s.locks.lock(sessionID)
	defer unlock()
	return s.store.Delete(ctx, sessionID, storage.KeyWishlist)
}

func (s *WishlistService) Contains(ctx context.Context, sessionID string, id int) (bool, error) {
	items, err := s.List(ctx, sessionID)
	if err != nil {
		return false, err
	}
	return indexOf(items, id) >= 0, nil
}

// IDs returns the set of wishlisted recipe ids.
func (s *WishlistService) IDs(ctx context.Context, sessionID string) map[int]bool {
	items, err := s.List(ctx, sessionID)
	ids := make(map[int]bool, len(items))
	if err != nil {
		return ids
	}
	for _, it := range items {
		ids[it.ID] = true
	}
	return ids
}
