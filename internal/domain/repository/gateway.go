package repository

import (
	"context"

	"github.com/Saqib-002/pos-order-to-delivery-sub001/internal/domain/catalog"
	"github.com/Saqib-002/pos-order-to-delivery-sub001/internal/domain/order"
)

// OrderGateway is the mutation surface of the remote order service.
// Every call is fallible; implementations must return an error without
// side effects visible to the caller when the service rejects the call.
type OrderGateway interface {
	SaveOrder(ctx context.Context, item order.OrderItem) (order.Order, int64, error)
	AddItemToOrder(ctx context.Context, orderID int64, item order.OrderItem) (int64, error)
	UpdateOrderItem(ctx context.Context, itemID int64, item order.OrderItem) error
	UpdateItemQuantity(ctx context.Context, itemID int64, quantity int) error
	RemoveItemFromOrder(ctx context.Context, orderID, itemID int64) error
	RemoveMenuFromOrder(ctx context.Context, orderID, menuID int64, secondaryID int) error
	RemoveMenuItemFromOrder(ctx context.Context, orderID, menuID int64, secondaryID int, productID, pageID int64) error
	UpdateMenuQuantity(ctx context.Context, orderID, menuID int64, secondaryID, quantity int) error
}

// CatalogGateway is the read-only catalog surface of the remote order
// service consumed by the configuration workflows.
type CatalogGateway interface {
	GetProductByID(ctx context.Context, id int64) (*catalog.Product, error)
	GetVariantsByProductID(ctx context.Context, id int64) ([]catalog.Variant, error)
	GetAddOnPagesByProductID(ctx context.Context, id int64) ([]catalog.AddOnPage, error)
	GetGroups(ctx context.Context) ([]catalog.Group, error)
	GetMenuPages(ctx context.Context) ([]catalog.MenuPage, error)
	GetMenuPageAssociations(ctx context.Context, menuID int64) ([]catalog.PageAssociation, error)
	GetMenuPageProducts(ctx context.Context, pageID int64) ([]catalog.PageProduct, error)
	GetAllProducts(ctx context.Context) ([]catalog.Product, error)
	GetMenuByID(ctx context.Context, id int64) (*catalog.Menu, error)
}
