// Package cart implements the persisted shopping cart. Every operation loads
// the whole cart document, applies one change, recomputes the derived totals
// and writes the document back. Storage failures are logged and never
// returned: reads fall back to the empty cart and writes are dropped.
package cart

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"sync"

	"github.com/chrisdamba/foodcart/internal/models"
	"github.com/chrisdamba/foodcart/internal/storage"
	"github.com/sirupsen/logrus"
)

// DefaultKey is the storage key of the cart document unless WithKey says otherwise.
const DefaultKey = "foodcart-cart"

// Store is the persisted cart of one customer. It is safe for concurrent use.
type Store struct {
	kv       storage.KVStore
	key      string
	notifier *Notifier
	logger   logrus.FieldLogger

	// serializes read-modify-write passes within this process
	mu sync.Mutex
}

// Option configures a Store.
type Option func(*Store)

// WithKey stores the cart under key; an empty key keeps DefaultKey.
func WithKey(key string) Option {
	return func(s *Store) {
		if key != "" {
			s.key = key
		}
	}
}

// WithNotifier shares n instead of a notifier private to the store.
func WithNotifier(n *Notifier) Option {
	return func(s *Store) {
		if n != nil {
			s.notifier = n
		}
	}
}

// WithLogger replaces the standard logrus logger.
func WithLogger(logger logrus.FieldLogger) Option {
	return func(s *Store) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// NewStore returns a Store persisting to kv. A nil kv means no storage is
// available: the store then always reads an empty cart and drops writes.
func NewStore(kv storage.KVStore, opts ...Option) *Store {
	s := &Store{
		kv:       kv,
		key:      DefaultKey,
		notifier: NewNotifier(),
		logger:   logrus.StandardLogger(),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.logger = s.logger.WithField("key", s.key)
	return s
}

// Notifier signals after every successful write of this store.
func (s *Store) Notifier() *Notifier {
	return s.notifier
}

// Cart returns the stored cart, or the empty cart when there is none.
func (s *Store) Cart(ctx context.Context) models.Cart {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.load(ctx)
}

// AddToCart adds quantity of item. When the cart holds another restaurant's
// items, they are all discarded and the cart restarts with this item. The
// item's restaurant is only known when it is embedded in the item; for a bare
// restaurant id no switch is detected. Non-empty notes replace the line's notes.
// A line whose quantity drops to zero or below is removed, and a non-positive
// quantity of an item not in the cart changes nothing.
func (s *Store) AddToCart(ctx context.Context, item models.MenuItem, quantity int, notes string) models.Cart {
	s.mu.Lock()
	defer s.mu.Unlock()

	cart := s.load(ctx)
	if quantity <= 0 {
		i := cart.ItemIndex(item.ID)
		if i < 0 {
			return s.save(ctx, cart)
		}
		cart.Lines[i].Quantity += quantity
		if cart.Lines[i].Quantity <= 0 {
			return s.save(ctx, removeLine(cart, cart.Lines[i].ID))
		}
		return s.save(ctx, cart)
	}

	restaurant, resolved := item.OwningRestaurant()

	if cart.Restaurant != nil && resolved && cart.Restaurant.ID != restaurant.ID {
		s.logger.WithFields(logrus.Fields{
			"from_restaurant": cart.Restaurant.ID,
			"to_restaurant":   restaurant.ID,
			"dropped_lines":   len(cart.Lines),
		}).Info("switching restaurants, cart reset")
		cart = models.Cart{
			Lines:      []models.CartLine{newLine(item, quantity, notes)},
			Restaurant: restaurant,
		}
		return s.save(ctx, cart)
	}

	if i := cart.ItemIndex(item.ID); i >= 0 {
		cart.Lines[i].Quantity += quantity
		if notes != "" {
			cart.Lines[i].Notes = notes
		}
	} else {
		cart.Lines = append(cart.Lines, newLine(item, quantity, notes))
	}

	if cart.Restaurant == nil && resolved {
		cart.Restaurant = restaurant
	}
	return s.save(ctx, cart)
}

// RemoveFromCart deletes the line; an unknown id leaves the cart unchanged.
func (s *Store) RemoveFromCart(ctx context.Context, lineID string) models.Cart {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.save(ctx, removeLine(s.load(ctx), lineID))
}

// UpdateItemQuantity sets the line's quantity; quantity <= 0 removes the line.
func (s *Store) UpdateItemQuantity(ctx context.Context, lineID string, quantity int) models.Cart {
	s.mu.Lock()
	defer s.mu.Unlock()

	cart := s.load(ctx)
	if quantity <= 0 {
		return s.save(ctx, removeLine(cart, lineID))
	}
	if i := cart.LineIndex(lineID); i >= 0 {
		cart.Lines[i].Quantity = quantity
	}
	return s.save(ctx, cart)
}

// ClearCart stores the empty cart.
func (s *Store) ClearCart(ctx context.Context) models.Cart {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.save(ctx, models.EmptyCart())
}

// ClearCartIfUnchanged empties the cart only while it still equals snapshot,
// so changes made after the snapshot was taken survive. It reports whether
// the cart was cleared.
func (s *Store) ClearCartIfUnchanged(ctx context.Context, snapshot models.Cart) (models.Cart, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	current := s.load(ctx)
	want, err := json.Marshal(snapshot.Recalculate())
	if err != nil {
		s.logger.WithError(err).Error("error encoding cart")
		return current, false
	}
	got, err := json.Marshal(current)
	if err != nil {
		s.logger.WithError(err).Error("error encoding cart")
		return current, false
	}
	if !bytes.Equal(want, got) {
		return current, false
	}
	return s.save(ctx, models.EmptyCart()), true
}

// ItemCount, Total, HasItem and QuantityOf load the cart and answer from it.
func (s *Store) ItemCount(ctx context.Context) int {
	return s.Cart(ctx).ItemCount()
}

func (s *Store) Total(ctx context.Context) float64 {
	return s.Cart(ctx).Total
}

func (s *Store) HasItem(ctx context.Context, menuItemID string) bool {
	return s.Cart(ctx).HasItem(menuItemID)
}

func (s *Store) QuantityOf(ctx context.Context, menuItemID string) int {
	return s.Cart(ctx).QuantityOf(menuItemID)
}

// Subscribe merges the store's own "cart updated" signal with the storage
// backend's change notifications, when the backend provides them. The
// channel is closed when ctx is done.
func (s *Store) Subscribe(ctx context.Context) <-chan struct{} {
	local, cancel := s.notifier.Subscribe()

	var external <-chan struct{}
	if w, ok := s.kv.(storage.Watcher); ok {
		ch, err := w.Watch(ctx, s.key)
		if err != nil {
			s.logger.WithError(err).Warn("storage change notifications unavailable")
		} else {
			external = ch
		}
	}

	out := make(chan struct{}, 1)
	go func() {
		defer close(out)
		defer cancel()
		for {
			select {
			case <-ctx.Done():
				return
			case _, ok := <-local:
				if !ok {
					return
				}
			case _, ok := <-external:
				if !ok {
					external = nil
					continue
				}
			}
			select {
			case out <- struct{}{}:
			default:
			}
		}
	}()
	return out
}

func (s *Store) load(ctx context.Context) models.Cart {
	if s.kv == nil {
		return models.EmptyCart()
	}
	data, err := s.kv.Get(ctx, s.key)
	if errors.Is(err, storage.ErrNotFound) {
		return models.EmptyCart()
	}
	if err != nil {
		s.logger.WithError(err).Error("error loading cart")
		return models.EmptyCart()
	}
	cart, err := models.DecodeCart(data)
	if err != nil {
		s.logger.WithError(err).Warn("cart document was partially corrupt")
	}
	return cart
}

// save recomputes the totals and persists cart. The recomputed cart is
// returned even when the write fails.
func (s *Store) save(ctx context.Context, cart models.Cart) models.Cart {
	cart = cart.Recalculate()
	if s.kv == nil {
		return cart
	}
	data, err := json.Marshal(cart)
	if err != nil {
		s.logger.WithError(err).Error("error encoding cart")
		return cart
	}
	if err := s.kv.Set(ctx, s.key, data); err != nil {
		s.logger.WithError(err).Error("error saving cart")
		return cart
	}
	s.notifier.Publish()
	return cart
}

// newLine keys the line by the menu item id, so repeated adds of one item
// merge into a single line.
func newLine(item models.MenuItem, quantity int, notes string) models.CartLine {
	return models.CartLine{
		ID:       item.ID,
		Item:     item,
		Quantity: quantity,
		Notes:    notes,
	}
}

func removeLine(cart models.Cart, lineID string) models.Cart {
	lines := make([]models.CartLine, 0, len(cart.Lines))
	for _, line := range cart.Lines {
		if line.ID != lineID {
			lines = append(lines, line)
		}
	}
	cart.Lines = lines
	if len(cart.Lines) == 0 {
		cart.Restaurant = nil
	}
	return cart
}
