package orders

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/Saqib-002/pos-order-to-delivery-sub001/internal/config"
	"github.com/Saqib-002/pos-order-to-delivery-sub001/internal/domain/catalog"
	domain "github.com/Saqib-002/pos-order-to-delivery-sub001/internal/domain/order"
	"github.com/Saqib-002/pos-order-to-delivery-sub001/pkg/logger"
)

// Client talks to the remote order/catalog service. Every call carries
// the operator session token and decodes the {status, data, error}
// envelope; a status:false response comes back as *RemoteError.
type Client struct {
	httpClient *http.Client
	cfg        config.OrdersConfig
	log        logger.Logger
}

func NewClient(cfg config.OrdersConfig, log logger.Logger) *Client {
	return &Client{
		cfg: cfg,
		log: log,
		httpClient: &http.Client{
			Timeout: cfg.Timeout,
			Transport: &http.Transport{
				DialContext: (&net.Dialer{
					Timeout:   5 * time.Second,
					KeepAlive: 30 * time.Second,
				}).DialContext,
				MaxIdleConns:        100,
				MaxIdleConnsPerHost: 10,
			},
		},
	}
}

func (c *Client) do(ctx context.Context, op, method, path string, query url.Values, body, out any) error {
	base, err := url.Parse(c.cfg.BaseURL)
	if err != nil {
		return fmt.Errorf("invalid order service base url: %w", err)
	}
	u := *base
	u.Path = base.Path + path
	if query != nil {
		u.RawQuery = query.Encode()
	}

	var reader *bytes.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode %s request: %w", op, err)
		}
		reader = bytes.NewReader(payload)
	} else {
		reader = bytes.NewReader(nil)
	}

	req, err := http.NewRequestWithContext(ctx, method, u.String(), reader)
	if err != nil {
		return fmt.Errorf("build %s request: %w", op, err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Session-Token", c.cfg.SessionToken)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("call order service %s: %w", op, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("order service %s: status %d", op, resp.StatusCode)
	}

	var env envelope
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
		return fmt.Errorf("decode %s response: %w", op, err)
	}
	if !env.Status {
		c.log.Warn("order service rejected call",
			logger.String("op", op),
			logger.String("message", env.Error),
		)
		return &RemoteError{Op: op, Message: env.Error}
	}
	if out != nil {
		if err := json.Unmarshal(env.Data, out); err != nil {
			return fmt.Errorf("decode %s data: %w", op, err)
		}
	}
	return nil
}

// SaveOrder creates a new order from its first line and returns the
// created order together with the persisted line id.
func (c *Client) SaveOrder(ctx context.Context, item domain.OrderItem) (domain.Order, int64, error) {
	var data saveOrderData
	if err := c.do(ctx, "saveOrder", http.MethodPost, "/orders", nil, item, &data); err != nil {
		return domain.Order{}, 0, err
	}
	return data.Order, data.ItemID, nil
}

// AddItemToOrder appends a line to an existing order.
func (c *Client) AddItemToOrder(ctx context.Context, orderID int64, item domain.OrderItem) (int64, error) {
	var data itemIDData
	path := fmt.Sprintf("/orders/%d/items", orderID)
	if err := c.do(ctx, "addItemToOrder", http.MethodPost, path, nil, item, &data); err != nil {
		return 0, err
	}
	return data.ItemID, nil
}

func (c *Client) UpdateOrderItem(ctx context.Context, itemID int64, item domain.OrderItem) error {
	path := fmt.Sprintf("/items/%d", itemID)
	return c.do(ctx, "updateOrderItem", http.MethodPut, path, nil, item, nil)
}

func (c *Client) UpdateItemQuantity(ctx context.Context, itemID int64, quantity int) error {
	path := fmt.Sprintf("/items/%d/quantity", itemID)
	return c.do(ctx, "updateItemQuantity", http.MethodPatch, path, nil, quantityRequest{Quantity: quantity}, nil)
}

func (c *Client) RemoveItemFromOrder(ctx context.Context, orderID, itemID int64) error {
	path := fmt.Sprintf("/orders/%d/items/%d", orderID, itemID)
	return c.do(ctx, "removeItemFromOrder", http.MethodDelete, path, nil, nil, nil)
}

// RemoveMenuFromOrder deletes every line of one bundle instance.
func (c *Client) RemoveMenuFromOrder(ctx context.Context, orderID, menuID int64, secondaryID int) error {
	path := fmt.Sprintf("/orders/%d/menus/%d/%d", orderID, menuID, secondaryID)
	return c.do(ctx, "removeMenuFromOrder", http.MethodDelete, path, nil, nil, nil)
}

// RemoveMenuItemFromOrder deletes a single line of a bundle instance.
func (c *Client) RemoveMenuItemFromOrder(ctx context.Context, orderID, menuID int64, secondaryID int, productID, pageID int64) error {
	path := fmt.Sprintf("/orders/%d/menus/%d/%d/items", orderID, menuID, secondaryID)
	q := url.Values{}
	q.Set("product_id", strconv.FormatInt(productID, 10))
	q.Set("page_id", strconv.FormatInt(pageID, 10))
	return c.do(ctx, "removeMenuItemFromOrder", http.MethodDelete, path, q, nil, nil)
}

// UpdateMenuQuantity sets the quantity of every line of a bundle instance.
func (c *Client) UpdateMenuQuantity(ctx context.Context, orderID, menuID int64, secondaryID, quantity int) error {
	path := fmt.Sprintf("/orders/%d/menus/%d/%d/quantity", orderID, menuID, secondaryID)
	return c.do(ctx, "updateMenuQuantity", http.MethodPatch, path, nil, quantityRequest{Quantity: quantity}, nil)
}

func (c *Client) GetProductByID(ctx context.Context, id int64) (*catalog.Product, error) {
	var p catalog.Product
	path := fmt.Sprintf("/products/%d", id)
	if err := c.do(ctx, "getProductById", http.MethodGet, path, nil, nil, &p); err != nil {
		return nil, err
	}
	return &p, nil
}

func (c *Client) GetVariantsByProductID(ctx context.Context, id int64) ([]catalog.Variant, error) {
	var variants []catalog.Variant
	path := fmt.Sprintf("/products/%d/variants", id)
	if err := c.do(ctx, "getVariantsByProductId", http.MethodGet, path, nil, nil, &variants); err != nil {
		return nil, err
	}
	return variants, nil
}

func (c *Client) GetAddOnPagesByProductID(ctx context.Context, id int64) ([]catalog.AddOnPage, error) {
	var pages []catalog.AddOnPage
	path := fmt.Sprintf("/products/%d/addon-pages", id)
	if err := c.do(ctx, "getAddOnPagesByProductId", http.MethodGet, path, nil, nil, &pages); err != nil {
		return nil, err
	}
	return pages, nil
}

func (c *Client) GetGroups(ctx context.Context) ([]catalog.Group, error) {
	var groups []catalog.Group
	if err := c.do(ctx, "getGroups", http.MethodGet, "/groups", nil, nil, &groups); err != nil {
		return nil, err
	}
	return groups, nil
}

func (c *Client) GetMenuPages(ctx context.Context) ([]catalog.MenuPage, error) {
	var pages []catalog.MenuPage
	if err := c.do(ctx, "getMenuPages", http.MethodGet, "/menu-pages", nil, nil, &pages); err != nil {
		return nil, err
	}
	return pages, nil
}

func (c *Client) GetMenuPageAssociations(ctx context.Context, menuID int64) ([]catalog.PageAssociation, error) {
	var assocs []catalog.PageAssociation
	path := fmt.Sprintf("/menus/%d/pages", menuID)
	if err := c.do(ctx, "getMenuPageAssociations", http.MethodGet, path, nil, nil, &assocs); err != nil {
		return nil, err
	}
	return assocs, nil
}

func (c *Client) GetMenuPageProducts(ctx context.Context, pageID int64) ([]catalog.PageProduct, error) {
	var products []catalog.PageProduct
	path := fmt.Sprintf("/menu-pages/%d/products", pageID)
	if err := c.do(ctx, "getMenuPageProducts", http.MethodGet, path, nil, nil, &products); err != nil {
		return nil, err
	}
	return products, nil
}

func (c *Client) GetAllProducts(ctx context.Context) ([]catalog.Product, error) {
	var products []catalog.Product
	if err := c.do(ctx, "getAllProducts", http.MethodGet, "/products", nil, nil, &products); err != nil {
		return nil, err
	}
	return products, nil
}

func (c *Client) GetMenuByID(ctx context.Context, id int64) (*catalog.Menu, error) {
	var m catalog.Menu
	path := fmt.Sprintf("/menus/%d", id)
	if err := c.do(ctx, "getMenuById", http.MethodGet, path, nil, nil, &m); err != nil {
		return nil, err
	}
	return &m, nil
}
