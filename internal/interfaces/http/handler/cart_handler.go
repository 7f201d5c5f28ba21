package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/Saqib-002/pos-order-to-delivery-sub001/internal/application/cart"
	"github.com/Saqib-002/pos-order-to-delivery-sub001/internal/application/productflow"
)

// ComplementRequest selects one complement out of a group.
type ComplementRequest struct {
	GroupID int64 `json:"group_id"`
	ItemID  int64 `json:"item_id"`
}

// ConfigureProductRequest is the full selection for one standalone line.
type ConfigureProductRequest struct {
	ProductID   int64               `json:"product_id" binding:"required"`
	VariantID   int64               `json:"variant_id"`
	Complements []ComplementRequest `json:"complements"`
	Quantity    int                 `json:"quantity"`
}

type CartHandler struct {
	cart     *cart.Service
	products *productflow.Workflow
}

func NewCartHandler(cartSvc *cart.Service, products *productflow.Workflow) *CartHandler {
	return &CartHandler{cart: cartSvc, products: products}
}

// GetCart returns the active order and its grouped summary.
func (h *CartHandler) GetCart(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"order":   h.cart.Order(),
		"summary": h.cart.Summary(),
	})
}

// AddProduct configures and adds a standalone line in one request. An
// exact duplicate of an existing line folds into its quantity.
func (h *CartHandler) AddProduct(c *gin.Context) {
	var req ConfigureProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	session, err := h.products.Start(c.Request.Context(), req.ProductID, productflow.StartOptions{})
	if err != nil {
		respondError(c, err)
		return
	}
	if err := applySelection(session, req); err != nil {
		respondError(c, err)
		return
	}

	item, err := session.Confirm(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, item)
}

// EditProduct replaces the selection of an existing standalone line.
func (h *CartHandler) EditProduct(c *gin.Context) {
	itemID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid item id"})
		return
	}
	var req ConfigureProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	existing, err := h.cart.BeginProductEdit(itemID)
	if err != nil {
		respondError(c, err)
		return
	}

	session, err := h.products.Start(c.Request.Context(), req.ProductID, productflow.StartOptions{Edit: existing})
	if err != nil {
		h.cart.ClearEditing()
		respondError(c, err)
		return
	}
	session.ClearComplements()
	if err := applySelection(session, req); err != nil {
		h.cart.ClearEditing()
		respondError(c, err)
		return
	}

	item, err := session.Confirm(c.Request.Context())
	h.cart.ClearEditing()
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, item)
}

func (h *CartHandler) RemoveItem(c *gin.Context) {
	itemID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid item id"})
		return
	}
	if err := h.cart.RemoveItem(c.Request.Context(), itemID); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"removed": itemID})
}

func (h *CartHandler) UpdateQuantity(c *gin.Context) {
	itemID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid item id"})
		return
	}
	var req struct {
		Quantity int `json:"quantity"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err := h.cart.UpdateQuantity(c.Request.Context(), itemID, req.Quantity); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"summary": h.cart.Summary()})
}

func (h *CartHandler) RemoveMenuGroup(c *gin.Context) {
	menuID, secondaryID, ok := menuKeyParams(c)
	if !ok {
		return
	}
	if err := h.cart.RemoveMenuGroup(c.Request.Context(), menuID, secondaryID); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"summary": h.cart.Summary()})
}

func (h *CartHandler) UpdateMenuQuantity(c *gin.Context) {
	menuID, secondaryID, ok := menuKeyParams(c)
	if !ok {
		return
	}
	var req struct {
		Quantity int `json:"quantity"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err := h.cart.UpdateMenuQuantity(c.Request.Context(), menuID, secondaryID, req.Quantity); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"summary": h.cart.Summary()})
}

// ClearCart abandons all local cart state.
func (h *CartHandler) ClearCart(c *gin.Context) {
	h.cart.Clear()
	c.JSON(http.StatusOK, gin.H{"cleared": true})
}

func menuKeyParams(c *gin.Context) (int64, int, bool) {
	menuID, err := strconv.ParseInt(c.Param("menuID"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid menu id"})
		return 0, 0, false
	}
	secondaryID, err := strconv.Atoi(c.Param("secondaryID"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid secondary id"})
		return 0, 0, false
	}
	return menuID, secondaryID, true
}

// applySelection replays a request's variant, complement and quantity
// choices onto a configuration session.
func applySelection(session *productflow.Session, req ConfigureProductRequest) error {
	if req.VariantID != 0 {
		if err := session.SelectVariant(req.VariantID); err != nil {
			return err
		}
	}
	for _, comp := range req.Complements {
		if err := session.SelectComplement(comp.GroupID, comp.ItemID); err != nil {
			return err
		}
	}
	if req.Quantity > 0 {
		session.SetQuantity(req.Quantity)
	}
	return nil
}
