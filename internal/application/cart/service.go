package cart

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/Saqib-002/pos-order-to-delivery-sub001/internal/domain/order"
	"github.com/Saqib-002/pos-order-to-delivery-sub001/internal/domain/repository"
	"github.com/Saqib-002/pos-order-to-delivery-sub001/pkg/logger"
)

// Mode selects which configuration workflow currently feeds the cart.
type Mode string

const (
	ModeProduct Mode = "product"
	ModeMenu    Mode = "menu"
)

// EventPublisher receives a JSON event after every successful cart
// mutation. Publishing is best effort and never fails the mutation.
type EventPublisher interface {
	PublishCartEvent(ctx context.Context, payload []byte) error
}

// Event is the payload published after a cart mutation.
type Event struct {
	Type        string    `json:"type"`
	OrderID     int64     `json:"order_id"`
	ItemID      int64     `json:"item_id,omitempty"`
	MenuID      int64     `json:"menu_id,omitempty"`
	SecondaryID int       `json:"secondary_id,omitempty"`
	Quantity    int       `json:"quantity,omitempty"`
	At          time.Time `json:"at"`
}

// Service owns the in-memory order and its flat line list. Every
// mutation calls the order service first and touches local state only
// after the call succeeded, so the cache is always a projection of
// confirmed remote state. A single mutex serializes mutations: two
// operator actions against the same order can never interleave their
// remote and local phases.
type Service struct {
	mu      sync.Mutex
	gateway repository.OrderGateway
	events  EventPublisher
	log     logger.Logger

	order          *order.Order
	items          []order.OrderItem
	processed      []order.OrderItem
	editingGroup   *order.MenuGroup
	editingProduct *order.OrderItem
	mode           Mode
}

func NewService(gateway repository.OrderGateway, events EventPublisher, log logger.Logger) *Service {
	return &Service{
		gateway: gateway,
		events:  events,
		log:     log,
		mode:    ModeProduct,
	}
}

// Order returns a copy of the active order, or nil when the cart is empty.
func (s *Service) Order() *order.Order {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.order == nil {
		return nil
	}
	o := *s.order
	return &o
}

// Items returns a copy of the flat line list.
func (s *Service) Items() []order.OrderItem {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]order.OrderItem(nil), s.items...)
}

// ProcessedMenuItems returns the bundle confirmation trail.
func (s *Service) ProcessedMenuItems() []order.OrderItem {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]order.OrderItem(nil), s.processed...)
}

// Summary projects the flat line list into standalone lines, menu
// groups and totals. Recomputed on every call, never cached.
func (s *Service) Summary() order.Summary {
	s.mu.Lock()
	defer s.mu.Unlock()
	return order.Summarize(s.items)
}

func (s *Service) Mode() Mode {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.mode
}

func (s *Service) SetMode(m Mode) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.mode = m
}

// EditingGroup returns the group currently under edit, or nil.
func (s *Service) EditingGroup() *order.MenuGroup {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.editingGroup == nil {
		return nil
	}
	g := *s.editingGroup
	g.Items = append([]order.OrderItem(nil), s.editingGroup.Items...)
	return &g
}

// EditingProduct returns the standalone line currently under edit, or nil.
func (s *Service) EditingProduct() *order.OrderItem {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.editingProduct == nil {
		return nil
	}
	it := *s.editingProduct
	return &it
}

// ensureMutable rejects mutations against a delivery-locked order
// before any remote call is made.
func (s *Service) ensureMutable() error {
	if s.order.Locked() {
		return order.ErrOrderLocked
	}
	return nil
}

// AddItem persists the line (creating the order when it is the first
// one) and appends it to the cart. In menu mode the owning group is
// recomputed and set as the editing group.
func (s *Service) AddItem(ctx context.Context, item order.OrderItem) (order.OrderItem, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.ensureMutable(); err != nil {
		return order.OrderItem{}, err
	}
	if item.Quantity < 1 {
		item.Quantity = 1
	}

	if s.order == nil {
		o, itemID, err := s.gateway.SaveOrder(ctx, item)
		if err != nil {
			return order.OrderItem{}, err
		}
		s.order = &o
		item.ID = itemID
	} else {
		itemID, err := s.gateway.AddItemToOrder(ctx, s.order.ID, item)
		if err != nil {
			return order.OrderItem{}, err
		}
		item.ID = itemID
	}

	s.items = append(s.items, item)
	if item.InMenu() {
		s.processed = append(s.processed, item)
	}
	if s.mode == ModeMenu && item.InMenu() {
		s.refreshEditingGroup(item.Key())
	}

	s.publish(ctx, Event{Type: "item_added", OrderID: s.order.ID, ItemID: item.ID, MenuID: item.MenuID, SecondaryID: item.MenuSecondaryID, Quantity: item.Quantity})
	return item, nil
}

// RemoveItem persists the removal and drops the line from the cart.
func (s *Service) RemoveItem(ctx context.Context, itemID int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.ensureMutable(); err != nil {
		return err
	}
	if s.order == nil {
		return order.ErrNoActiveOrder
	}
	idx := s.indexOf(itemID)
	if idx < 0 {
		return order.ErrItemNotFound
	}

	if err := s.gateway.RemoveItemFromOrder(ctx, s.order.ID, itemID); err != nil {
		return err
	}

	s.items = append(s.items[:idx], s.items[idx+1:]...)
	s.publish(ctx, Event{Type: "item_removed", OrderID: s.order.ID, ItemID: itemID})
	s.clearIfEmpty()
	return nil
}

// UpdateQuantity persists the clamped quantity, applies it locally and
// flags the line for kitchen reprint.
func (s *Service) UpdateQuantity(ctx context.Context, itemID int64, quantity int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.ensureMutable(); err != nil {
		return err
	}
	if s.order == nil {
		return order.ErrNoActiveOrder
	}
	idx := s.indexOf(itemID)
	if idx < 0 {
		return order.ErrItemNotFound
	}
	if quantity < 1 {
		quantity = 1
	}

	if err := s.gateway.UpdateItemQuantity(ctx, itemID, quantity); err != nil {
		return err
	}

	it := &s.items[idx]
	it.Quantity = quantity
	it.KitchenPrinted = false
	it.TotalPrice = order.ItemTotal(it)
	s.publish(ctx, Event{Type: "quantity_updated", OrderID: s.order.ID, ItemID: itemID, Quantity: quantity})
	return nil
}

// RemoveMenuGroup persists the removal of an entire bundle instance and
// drops every member line.
func (s *Service) RemoveMenuGroup(ctx context.Context, menuID int64, secondaryID int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.ensureMutable(); err != nil {
		return err
	}
	if s.order == nil {
		return order.ErrNoActiveOrder
	}
	key := order.GroupKey(menuID, secondaryID)
	if !s.hasGroup(key) {
		return order.ErrGroupNotFound
	}

	if err := s.gateway.RemoveMenuFromOrder(ctx, s.order.ID, menuID, secondaryID); err != nil {
		return err
	}

	s.items = filterItems(s.items, func(it *order.OrderItem) bool { return it.Key() != key })
	s.processed = filterItems(s.processed, func(it *order.OrderItem) bool { return it.Key() != key })
	if s.editingGroup != nil && s.editingGroup.Key == key {
		s.editingGroup = nil
	}
	s.publish(ctx, Event{Type: "menu_removed", OrderID: s.order.ID, MenuID: menuID, SecondaryID: secondaryID})
	s.clearIfEmpty()
	return nil
}

// RemoveMenuItem persists the removal of one line of a bundle instance
// and drops it from the cart, the confirmation trail and any in-flight
// group edit.
func (s *Service) RemoveMenuItem(ctx context.Context, menuID int64, secondaryID int, productID, pageID int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.ensureMutable(); err != nil {
		return err
	}
	if s.order == nil {
		return order.ErrNoActiveOrder
	}
	key := order.GroupKey(menuID, secondaryID)
	match := func(it *order.OrderItem) bool {
		return it.Key() == key && it.ProductID == productID && it.MenuPageID == pageID
	}
	found := false
	for i := range s.items {
		if match(&s.items[i]) {
			found = true
			break
		}
	}
	if !found {
		return order.ErrItemNotFound
	}

	if err := s.gateway.RemoveMenuItemFromOrder(ctx, s.order.ID, menuID, secondaryID, productID, pageID); err != nil {
		return err
	}

	s.items = filterItems(s.items, func(it *order.OrderItem) bool { return !match(it) })
	s.processed = filterItems(s.processed, func(it *order.OrderItem) bool { return !match(it) })
	if s.editingGroup != nil && s.editingGroup.Key == key {
		s.editingGroup.Items = filterItems(s.editingGroup.Items, func(it *order.OrderItem) bool { return !match(it) })
	}
	s.publish(ctx, Event{Type: "menu_item_removed", OrderID: s.order.ID, MenuID: menuID, SecondaryID: secondaryID})
	s.clearIfEmpty()
	return nil
}

// EditItem persists the replacement line and merges it into the cart.
// The line keeps its persisted id; in menu mode the owning group is
// recomputed afterwards.
func (s *Service) EditItem(ctx context.Context, itemID int64, updated order.OrderItem) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.ensureMutable(); err != nil {
		return err
	}
	if s.order == nil {
		return order.ErrNoActiveOrder
	}
	idx := s.indexOf(itemID)
	if idx < 0 {
		return order.ErrItemNotFound
	}
	updated.ID = itemID

	if err := s.gateway.UpdateOrderItem(ctx, itemID, updated); err != nil {
		return err
	}

	updated.KitchenPrinted = false
	s.items[idx] = updated
	if s.mode == ModeMenu && updated.InMenu() {
		s.refreshEditingGroup(updated.Key())
	}
	s.publish(ctx, Event{Type: "item_edited", OrderID: s.order.ID, ItemID: itemID})
	return nil
}

// UpdateMenuQuantity persists a bundle instance quantity and applies it
// to every member line, keeping the group quantity invariant.
func (s *Service) UpdateMenuQuantity(ctx context.Context, menuID int64, secondaryID, quantity int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.ensureMutable(); err != nil {
		return err
	}
	if s.order == nil {
		return order.ErrNoActiveOrder
	}
	key := order.GroupKey(menuID, secondaryID)
	if !s.hasGroup(key) {
		return order.ErrGroupNotFound
	}
	if quantity < 1 {
		quantity = 1
	}

	if err := s.gateway.UpdateMenuQuantity(ctx, s.order.ID, menuID, secondaryID, quantity); err != nil {
		return err
	}

	for i := range s.items {
		if s.items[i].Key() == key {
			s.items[i].Quantity = quantity
			s.items[i].KitchenPrinted = false
			s.items[i].TotalPrice = order.ItemTotal(&s.items[i])
		}
	}
	s.publish(ctx, Event{Type: "menu_quantity_updated", OrderID: s.order.ID, MenuID: menuID, SecondaryID: secondaryID, Quantity: quantity})
	return nil
}

// FindExactMatch returns a standalone line with the same product,
// variant and complement multiset, or nil. Used to fold a repeated
// selection into an existing line instead of creating a duplicate.
func (s *Service) FindExactMatch(productID, variantID int64, complements []order.Complement) *order.OrderItem {
	s.mu.Lock()
	defer s.mu.Unlock()

	probe := order.OrderItem{ProductID: productID, VariantID: variantID, Complements: complements}
	for i := range s.items {
		it := &s.items[i]
		if it.InMenu() {
			continue
		}
		if it.SameSelection(&probe) {
			match := *it
			return &match
		}
	}
	return nil
}

// MaxSecondaryID returns the highest secondary id in use for a menu,
// or 0 when the menu has no lines in the cart.
func (s *Service) MaxSecondaryID(menuID int64) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.maxSecondaryIDLocked(menuID)
}

// NextSecondaryID returns the secondary id a new instance of the menu
// should take: 0 for the first instance, max+1 afterwards.
func (s *Service) NextSecondaryID(menuID int64) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.hasMenuLocked(menuID) {
		return 0
	}
	return s.maxSecondaryIDLocked(menuID) + 1
}

// BeginGroupEdit loads a bundle instance into the editing slot,
// displacing any prior edit. The group is recomputed from the flat
// list; a stale key yields ErrGroupNotFound.
func (s *Service) BeginGroupEdit(menuID int64, secondaryID int) (*order.MenuGroup, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	key := order.GroupKey(menuID, secondaryID)
	summary := order.Summarize(s.items)
	for i := range summary.Groups {
		if summary.Groups[i].Key == key {
			g := summary.Groups[i]
			s.editingProduct = nil
			s.editingGroup = &g
			s.mode = ModeMenu
			out := g
			out.Items = append([]order.OrderItem(nil), g.Items...)
			return &out, nil
		}
	}
	return nil, order.ErrGroupNotFound
}

// BeginProductEdit loads a standalone line into the editing slot,
// displacing any prior edit.
func (s *Service) BeginProductEdit(itemID int64) (*order.OrderItem, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	idx := s.indexOf(itemID)
	if idx < 0 {
		return nil, order.ErrItemNotFound
	}
	it := s.items[idx]
	s.editingGroup = nil
	s.editingProduct = &it
	s.mode = ModeProduct
	out := it
	return &out, nil
}

// ClearEditing releases the editing slot.
func (s *Service) ClearEditing() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.editingGroup = nil
	s.editingProduct = nil
}

// Clear abandons all local cart state. Persisted order data is left to
// the order service; nothing remote is touched.
func (s *Service) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.order = nil
	s.items = nil
	s.processed = nil
	s.editingGroup = nil
	s.editingProduct = nil
	s.mode = ModeProduct
}

/* ================= internals ================= */

func (s *Service) indexOf(itemID int64) int {
	for i := range s.items {
		if s.items[i].ID == itemID {
			return i
		}
	}
	return -1
}

func (s *Service) hasGroup(key string) bool {
	for i := range s.items {
		if s.items[i].Key() == key {
			return true
		}
	}
	return false
}

func (s *Service) hasMenuLocked(menuID int64) bool {
	for i := range s.items {
		if s.items[i].MenuID == menuID {
			return true
		}
	}
	return false
}

func (s *Service) maxSecondaryIDLocked(menuID int64) int {
	max := 0
	for i := range s.items {
		if s.items[i].MenuID == menuID && s.items[i].MenuSecondaryID > max {
			max = s.items[i].MenuSecondaryID
		}
	}
	return max
}

func (s *Service) refreshEditingGroup(key string) {
	summary := order.Summarize(s.items)
	for i := range summary.Groups {
		if summary.Groups[i].Key == key {
			g := summary.Groups[i]
			s.editingGroup = &g
			return
		}
	}
	s.editingGroup = nil
}

func (s *Service) clearIfEmpty() {
	if len(s.items) == 0 {
		s.order = nil
		s.processed = nil
		s.editingGroup = nil
		s.editingProduct = nil
	}
}

func (s *Service) publish(ctx context.Context, ev Event) {
	if s.events == nil {
		return
	}
	ev.At = time.Now().UTC()
	payload, err := json.Marshal(ev)
	if err != nil {
		s.log.Error("encode cart event", logger.Error(err))
		return
	}
	if err := s.events.PublishCartEvent(ctx, payload); err != nil {
		s.log.Warn("publish cart event failed",
			logger.String("type", ev.Type),
			logger.Error(err),
		)
	}
}

func filterItems(items []order.OrderItem, keep func(*order.OrderItem) bool) []order.OrderItem {
	out := items[:0]
	for i := range items {
		if keep(&items[i]) {
			out = append(out, items[i])
		}
	}
	return out
}
