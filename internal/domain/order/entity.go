package order

import (
	"fmt"
	"time"
)

// OrderType distinguishes how the order leaves the store.
type OrderType string

const (
	TypeDineIn   OrderType = "dine_in"
	TypeTakeout  OrderType = "takeout"
	TypeDelivery OrderType = "delivery"
)

// Status labels the order lifecycle as reported by the order service.
type Status string

const (
	StatusOpen      Status = "open"
	StatusCompleted Status = "completed"
	StatusCancelled Status = "cancelled"
)

// Order is the aggregate root kept in sync with the order service.
// An order with a non-nil DeliveryPerson is locked: the engine refuses
// every mutation against it.
type Order struct {
	ID             int64      `json:"id"`
	OrderID        int        `json:"order_id"`
	Status         Status     `json:"status"`
	PaymentType    string     `json:"payment_type,omitempty"`
	Customer       *string    `json:"customer,omitempty"`
	DeliveryPerson *string    `json:"delivery_person,omitempty"`
	PickupTime     *time.Time `json:"pickup_time,omitempty"`
	OrderType      OrderType  `json:"order_type"`
}

// Locked reports whether the order has been handed to a delivery person
// and is therefore read-only for this engine.
func (o *Order) Locked() bool {
	return o != nil && o.DeliveryPerson != nil
}

// Complement is one add-on attached to a line, drawn from a named group.
type Complement struct {
	GroupID   int64   `json:"group_id"`
	GroupName string  `json:"group_name"`
	ItemID    int64   `json:"item_id"`
	ItemName  string  `json:"item_name"`
	Price     float64 `json:"price"`
	Priority  int     `json:"priority"`
}

// OrderItem is one priced line of an order. ProductPrice is the
// tax-exclusive base and ProductTax the per-unit tax amount; the menu
// fields are set only when the line belongs to a bundle instance, in
// which case MenuID, MenuPageID and MenuSecondaryID are set together.
type OrderItem struct {
	ID                 int64        `json:"id,omitempty"`
	ProductID          int64        `json:"product_id"`
	ProductName        string       `json:"product_name"`
	ProductDescription string       `json:"product_description,omitempty"`
	ProductPriority    int          `json:"product_priority"`
	ProductPrice       float64      `json:"product_price"`
	ProductTax         float64      `json:"product_tax"`
	ProductDiscount    float64      `json:"product_discount"`
	VariantID          int64        `json:"variant_id,omitempty"`
	VariantName        string       `json:"variant_name,omitempty"`
	VariantPrice       float64      `json:"variant_price,omitempty"`
	Complements        []Complement `json:"complements,omitempty"`
	Quantity           int          `json:"quantity"`
	TotalPrice         float64      `json:"total_price"`
	KitchenPrinted     bool         `json:"kitchen_printed"`

	MenuID          int64   `json:"menu_id,omitempty"`
	MenuName        string  `json:"menu_name,omitempty"`
	MenuDescription string  `json:"menu_description,omitempty"`
	MenuPrice       float64 `json:"menu_price,omitempty"`
	MenuTax         float64 `json:"menu_tax,omitempty"`
	MenuDiscount    float64 `json:"menu_discount,omitempty"`
	MenuPageID      int64   `json:"menu_page_id,omitempty"`
	MenuPageName    string  `json:"menu_page_name,omitempty"`
	Supplement      float64 `json:"supplement,omitempty"`
	MenuSecondaryID int     `json:"menu_secondary_id"`
}

// InMenu reports whether the line belongs to a bundle instance.
func (it *OrderItem) InMenu() bool {
	return it.MenuID != 0
}

// ComplementsSum is the per-unit price of all attached complements.
func (it *OrderItem) ComplementsSum() float64 {
	sum := 0.0
	for _, c := range it.Complements {
		sum += c.Price
	}
	return sum
}

// GroupKey identifies the bundle instance a menu line belongs to.
func GroupKey(menuID int64, secondaryID int) string {
	return fmt.Sprintf("%d-%d", menuID, secondaryID)
}

// Key returns the line's bundle instance key, or "" for standalone lines.
func (it *OrderItem) Key() string {
	if !it.InMenu() {
		return ""
	}
	return GroupKey(it.MenuID, it.MenuSecondaryID)
}

// SameSelection reports whether two standalone lines describe the exact
// same selection: same product, same variant and the same complement set.
// Complements are compared as a multiset, order independent.
func (it *OrderItem) SameSelection(other *OrderItem) bool {
	if it.ProductID != other.ProductID || it.VariantID != other.VariantID {
		return false
	}
	if len(it.Complements) != len(other.Complements) {
		return false
	}
	counts := make(map[[2]int64]int, len(it.Complements))
	for _, c := range it.Complements {
		counts[[2]int64{c.GroupID, c.ItemID}]++
	}
	for _, c := range other.Complements {
		k := [2]int64{c.GroupID, c.ItemID}
		counts[k]--
		if counts[k] < 0 {
			return false
		}
	}
	return true
}
