package shopping

import (
	"slices"
	"strings"
	"sync"

	"mealmuse/internal/schema"
)

// Repository keeps one shopping list per user in process memory. Lists are
// seeded with DefaultItems on first access and are lost on restart.
type Repository struct {
	mu    sync.Mutex
	lists map[string][]string
	seed  []string
}

// NewRepository creates a new shopping list repository.
func NewRepository() *Repository {
	return &Repository{
		lists: make(map[string][]string),
		seed:  DefaultItems,
	}
}

// Get returns a copy of the user's list.
func (r *Repository) Get(userID string) ShoppingList {
	r.mu.Lock()
	defer r.mu.Unlock()
	return ShoppingList{UserID: userID, Items: slices.Clone(r.listLocked(userID))}
}

// Add puts item at the top of the list.
func (r *Repository) Add(userID, item string) (ShoppingList, error) {
	req := ItemRequest{Item: strings.TrimSpace(item)}
	if err := schema.Validate(req); err != nil {
		return ShoppingList{}, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	items := r.listLocked(userID)
	r.lists[userID] = append([]string{req.Item}, items...)
	return ShoppingList{UserID: userID, Items: slices.Clone(r.lists[userID])}, nil
}

// AddAll adds items one by one, so the last one ends up on top. Blank items
// are skipped.
func (r *Repository) AddAll(userID string, items []string) ShoppingList {
	r.mu.Lock()
	defer r.mu.Unlock()
	list := r.listLocked(userID)
	for _, item := range items {
		item = strings.TrimSpace(item)
		if item == "" {
			continue
		}
		list = append([]string{item}, list...)
	}
	r.lists[userID] = list
	return ShoppingList{UserID: userID, Items: slices.Clone(list)}
}

// Remove deletes every entry equal to item. Removing an absent item is not
// an error.
func (r *Repository) Remove(userID, item string) ShoppingList {
	r.mu.Lock()
	defer r.mu.Unlock()
	list := slices.DeleteFunc(slices.Clone(r.listLocked(userID)), func(s string) bool {
		return s == item
	})
	r.lists[userID] = list
	return ShoppingList{UserID: userID, Items: slices.Clone(list)}
}

// Clear empties the list.
func (r *Repository) Clear(userID string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.lists[userID] = []string{}
}

func (r *Repository) listLocked(userID string) []string {
	list, ok := r.lists[userID]
	if !ok {
		list = slices.Clone(r.seed)
		r.lists[userID] = list
	}
	return list
}
