package handler

import (
	"net/http"
	"strconv"
	"sync"

	"github.com/gin-gonic/gin"

	"github.com/Saqib-002/pos-order-to-delivery-sub001/internal/application/menuflow"
	"github.com/Saqib-002/pos-order-to-delivery-sub001/internal/application/productflow"
)

// MenuHandler exposes the bundle configuration workflow. A POS terminal
// runs one configuration at a time, so the handler keeps a single
// session and serializes access to it.
type MenuHandler struct {
	mu      sync.Mutex
	menus   *menuflow.Workflow
	session *menuflow.Session
}

func NewMenuHandler(menus *menuflow.Workflow) *MenuHandler {
	return &MenuHandler{menus: menus}
}

// SlotRequest configures one product slot of the current page.
type SlotRequest struct {
	ProductID   int64               `json:"product_id" binding:"required"`
	VariantID   int64               `json:"variant_id"`
	Complements []ComplementRequest `json:"complements"`
}

// StartSession opens a bundle configuration, replacing any session left
// dangling by a previous request.
func (h *MenuHandler) StartSession(c *gin.Context) {
	var req struct {
		MenuID int64 `json:"menu_id" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	session, err := h.menus.Start(c.Request.Context(), req.MenuID)
	if err != nil {
		respondError(c, err)
		return
	}
	h.session = session
	c.JSON(http.StatusOK, h.sessionState())
}

func (h *MenuHandler) GetSession(c *gin.Context) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.session == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "no active menu session"})
		return
	}
	c.JSON(http.StatusOK, h.sessionState())
}

func (h *MenuHandler) NextPage(c *gin.Context) {
	h.pageStep(c, func(s *menuflow.Session) { s.NextPage() })
}

func (h *MenuHandler) PrevPage(c *gin.Context) {
	h.pageStep(c, func(s *menuflow.Session) { s.PrevPage() })
}

func (h *MenuHandler) pageStep(c *gin.Context, step func(*menuflow.Session)) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.session == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "no active menu session"})
		return
	}
	step(h.session)
	c.JSON(http.StatusOK, h.sessionState())
}

// ConfigureSlot selects a free slot of the current page, applies the
// request's selection and confirms it into the cart.
func (h *MenuHandler) ConfigureSlot(c *gin.Context) {
	var req SlotRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	if h.session == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "no active menu session"})
		return
	}

	ps, err := h.session.SelectProduct(c.Request.Context(), req.ProductID)
	if err != nil {
		respondError(c, err)
		return
	}
	h.confirmSlot(c, ps, req)
}

// EditSlot reconfigures an already processed slot.
func (h *MenuHandler) EditSlot(c *gin.Context) {
	productID, err := strconv.ParseInt(c.Param("productID"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid product id"})
		return
	}
	var req SlotRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	req.ProductID = productID

	h.mu.Lock()
	defer h.mu.Unlock()

	if h.session == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "no active menu session"})
		return
	}

	ps, err := h.session.EditProduct(c.Request.Context(), productID)
	if err != nil {
		respondError(c, err)
		return
	}
	ps.ClearComplements()
	h.confirmSlot(c, ps, req)
}

func (h *MenuHandler) confirmSlot(c *gin.Context, ps *productflow.Session, req SlotRequest) {
	if err := applySelection(ps, ConfigureProductRequest{
		ProductID:   req.ProductID,
		VariantID:   req.VariantID,
		Complements: req.Complements,
	}); err != nil {
		respondError(c, err)
		return
	}

	item, err := h.session.ConfirmSlot(c.Request.Context(), ps)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"item": item, "session": h.sessionState()})
}

func (h *MenuHandler) RemoveSlot(c *gin.Context) {
	productID, err := strconv.ParseInt(c.Param("productID"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid product id"})
		return
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	if h.session == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "no active menu session"})
		return
	}
	if err := h.session.RemoveProduct(c.Request.Context(), productID); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, h.sessionState())
}

// Complete finishes the session; it fails while a page is below its
// minimum.
func (h *MenuHandler) Complete(c *gin.Context) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.session == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "no active menu session"})
		return
	}
	if err := h.session.Complete(); err != nil {
		respondError(c, err)
		return
	}
	h.session = nil
	c.JSON(http.StatusOK, gin.H{"completed": true})
}

// Cancel abandons the session, removing the bundle instance from the
// order when any slot was already confirmed.
func (h *MenuHandler) Cancel(c *gin.Context) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.session == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "no active menu session"})
		return
	}
	if err := h.session.Cancel(c.Request.Context()); err != nil {
		respondError(c, err)
		return
	}
	h.session = nil
	c.JSON(http.StatusOK, gin.H{"cancelled": true})
}

// sessionState projects the session for the terminal. Callers must hold
// h.mu with h.session non-nil.
func (h *MenuHandler) sessionState() gin.H {
	s := h.session
	pages := make([]gin.H, 0, len(s.Pages()))
	for _, p := range s.Pages() {
		pages = append(pages, gin.H{
			"id":        p.Meta.ID,
			"name":      p.Meta.Name,
			"min":       p.Min,
			"max":       p.Max,
			"processed": p.Processed,
			"products":  p.Products,
		})
	}
	return gin.H{
		"menu":         s.Menu(),
		"secondary_id": s.SecondaryID(),
		"page_index":   s.PageIndex(),
		"pages":        pages,
		"complete":     s.AllPagesComplete(),
	}
}
