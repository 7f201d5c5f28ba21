package menuflow

import (
	"context"
	"fmt"
	"sort"

	"github.com/Saqib-002/pos-order-to-delivery-sub001/internal/application/cart"
	"github.com/Saqib-002/pos-order-to-delivery-sub001/internal/application/productflow"
	"github.com/Saqib-002/pos-order-to-delivery-sub001/internal/domain/catalog"
	"github.com/Saqib-002/pos-order-to-delivery-sub001/internal/domain/order"
	"github.com/Saqib-002/pos-order-to-delivery-sub001/internal/domain/repository"
	"github.com/Saqib-002/pos-order-to-delivery-sub001/pkg/logger"
)

// Workflow drives the multi-page configuration of a bundle: page by
// page the operator fills quota-bounded product slots, each configured
// through the product workflow with the bundle context attached.
type Workflow struct {
	catalog  repository.CatalogGateway
	cart     *cart.Service
	products *productflow.Workflow
	log      logger.Logger
}

func NewWorkflow(catalogGW repository.CatalogGateway, cartSvc *cart.Service, products *productflow.Workflow, log logger.Logger) *Workflow {
	return &Workflow{catalog: catalogGW, cart: cartSvc, products: products, log: log}
}

// Page is one selection step of the session: the page metadata, its
// product slots ordered by priority and the effective quota.
type Page struct {
	Meta      catalog.MenuPage
	Products  []catalog.PageProduct
	Min       int
	Max       int
	Processed int
}

type processedKey struct {
	productID int64
	pageID    int64
}

// Session is the transient state of one bundle configuration. All
// bookkeeping here is workflow-local; the cart keeps the persisted
// lines.
type Session struct {
	wf          *Workflow
	menu        catalog.Menu
	basePrice   float64
	taxPerUnit  float64
	pages       []Page
	processed   map[processedKey]bool
	secondaryID int
	quantity    int
	pageIndex   int
	editing     bool
}

// Start loads the bundle's ordered pages and opens a session. When the
// cart holds an editing group for this menu the session resumes that
// instance; otherwise a fresh secondary id is allocated.
func (w *Workflow) Start(ctx context.Context, menuID int64) (*Session, error) {
	menu, err := w.catalog.GetMenuByID(ctx, menuID)
	if err != nil {
		w.log.Error("load menu failed", logger.Int64("menu_id", menuID), logger.Error(err))
		return nil, fmt.Errorf("load menu: %w", err)
	}
	assocs, err := w.catalog.GetMenuPageAssociations(ctx, menuID)
	if err != nil {
		w.log.Error("load menu page associations failed", logger.Int64("menu_id", menuID), logger.Error(err))
		return nil, fmt.Errorf("load menu pages: %w", err)
	}
	sort.Slice(assocs, func(i, j int) bool { return assocs[i].Priority < assocs[j].Priority })

	allPages, err := w.catalog.GetMenuPages(ctx)
	if err != nil {
		return nil, fmt.Errorf("load pages: %w", err)
	}
	pageByID := make(map[int64]catalog.MenuPage, len(allPages))
	for _, p := range allPages {
		pageByID[p.ID] = p
	}

	s := &Session{
		wf:         w,
		menu:       *menu,
		basePrice:  order.BasePrice(menu.Price, menu.Tax),
		taxPerUnit: order.TaxAmount(menu.Price, menu.Tax),
		processed:  make(map[processedKey]bool),
		quantity:   1,
	}

	for _, a := range assocs {
		meta, ok := pageByID[a.PageID]
		if !ok {
			return nil, fmt.Errorf("menu page %d not found", a.PageID)
		}
		products, err := w.catalog.GetMenuPageProducts(ctx, a.PageID)
		if err != nil {
			return nil, fmt.Errorf("load page products: %w", err)
		}
		sort.Slice(products, func(i, j int) bool { return products[i].Priority < products[j].Priority })
		s.pages = append(s.pages, Page{
			Meta:     meta,
			Products: products,
			Min:      a.Minimum,
			Max:      a.Maximum,
		})
	}

	w.cart.SetMode(cart.ModeMenu)

	if eg := w.cart.EditingGroup(); eg != nil && eg.MenuID == menuID {
		s.secondaryID = eg.SecondaryID
		s.quantity = eg.Quantity
		s.editing = true
		s.seedProcessed(eg.Items)
	} else {
		w.cart.ClearEditing()
		s.secondaryID = w.cart.NextSecondaryID(menuID)
		s.seedProcessed(w.instanceItems(menuID, s.secondaryID))
	}

	return s, nil
}

// instanceItems returns the confirmation trail entries belonging to
// one bundle instance.
func (w *Workflow) instanceItems(menuID int64, secondaryID int) []order.OrderItem {
	key := order.GroupKey(menuID, secondaryID)
	var out []order.OrderItem
	for _, it := range w.cart.ProcessedMenuItems() {
		if it.Key() == key {
			out = append(out, it)
		}
	}
	return out
}

// seedProcessed marks every (product, page) pair of existing instance
// lines that intersects a page's product list.
func (s *Session) seedProcessed(items []order.OrderItem) {
	for _, it := range items {
		for i := range s.pages {
			p := &s.pages[i]
			if p.Meta.ID != it.MenuPageID {
				continue
			}
			for _, slot := range p.Products {
				if slot.ProductID == it.ProductID {
					k := processedKey{productID: it.ProductID, pageID: p.Meta.ID}
					if !s.processed[k] {
						s.processed[k] = true
						p.Processed++
					}
					break
				}
			}
		}
	}
}

func (s *Session) Menu() catalog.Menu {
	return s.menu
}

func (s *Session) SecondaryID() int {
	return s.secondaryID
}

func (s *Session) Pages() []Page {
	return s.pages
}

func (s *Session) CurrentPage() *Page {
	if len(s.pages) == 0 {
		return nil
	}
	return &s.pages[s.pageIndex]
}

func (s *Session) PageIndex() int {
	return s.pageIndex
}

// NextPage moves forward; pages are not gated, only completion is.
func (s *Session) NextPage() {
	if s.pageIndex < len(s.pages)-1 {
		s.pageIndex++
	}
}

func (s *Session) PrevPage() {
	if s.pageIndex > 0 {
		s.pageIndex--
	}
}

// IsProcessed reports whether a slot of the current page has already
// been configured.
func (s *Session) IsProcessed(productID int64) bool {
	p := s.CurrentPage()
	if p == nil {
		return false
	}
	return s.processed[processedKey{productID: productID, pageID: p.Meta.ID}]
}

// SelectProduct opens a product configuration session for an
// unprocessed slot of the current page. A page at its maximum rejects
// further selections; a 0 maximum means unlimited.
func (s *Session) SelectProduct(ctx context.Context, productID int64) (*productflow.Session, error) {
	p := s.CurrentPage()
	if p == nil {
		return nil, ErrProductNotOnPage
	}
	slot := findSlot(p, productID)
	if slot == nil {
		return nil, ErrProductNotOnPage
	}
	if s.IsProcessed(productID) {
		return nil, ErrAlreadyConfigured
	}
	if p.Max > 0 && p.Processed >= p.Max {
		return nil, ErrPageFull
	}

	return s.wf.products.Start(ctx, productID, productflow.StartOptions{
		Menu: s.menuContext(p, slot),
	})
}

// EditProduct reopens a processed slot pre-filled with the existing
// line's selection.
func (s *Session) EditProduct(ctx context.Context, productID int64) (*productflow.Session, error) {
	p := s.CurrentPage()
	if p == nil {
		return nil, ErrProductNotOnPage
	}
	slot := findSlot(p, productID)
	if slot == nil {
		return nil, ErrProductNotOnPage
	}
	if !s.IsProcessed(productID) {
		return nil, ErrNotConfigured
	}

	existing := s.findLine(productID, p.Meta.ID)
	if existing == nil {
		return nil, order.ErrItemNotFound
	}

	return s.wf.products.Start(ctx, productID, productflow.StartOptions{
		Menu: s.menuContext(p, slot),
		Edit: existing,
	})
}

// ConfirmSlot confirms a product session opened by SelectProduct or
// EditProduct and updates the page bookkeeping.
func (s *Session) ConfirmSlot(ctx context.Context, ps *productflow.Session) (order.OrderItem, error) {
	wasEdit := ps.Editing()
	item, err := ps.Confirm(ctx)
	if err != nil {
		return order.OrderItem{}, err
	}

	if !wasEdit {
		k := processedKey{productID: item.ProductID, pageID: item.MenuPageID}
		if !s.processed[k] {
			s.processed[k] = true
			for i := range s.pages {
				if s.pages[i].Meta.ID == item.MenuPageID {
					s.pages[i].Processed++
					break
				}
			}
		}
	}
	return item, nil
}

// RemoveProduct removes a configured slot's line from the cart and
// frees the slot.
func (s *Session) RemoveProduct(ctx context.Context, productID int64) error {
	p := s.CurrentPage()
	if p == nil {
		return ErrProductNotOnPage
	}
	if !s.IsProcessed(productID) {
		return ErrNotConfigured
	}

	if err := s.wf.cart.RemoveMenuItem(ctx, s.menu.ID, s.secondaryID, productID, p.Meta.ID); err != nil {
		return err
	}

	delete(s.processed, processedKey{productID: productID, pageID: p.Meta.ID})
	if p.Processed > 0 {
		p.Processed--
	}
	return nil
}

// AllPagesComplete reports whether every page reached its minimum.
func (s *Session) AllPagesComplete() bool {
	for i := range s.pages {
		if s.pages[i].Processed < s.pages[i].Min {
			return false
		}
	}
	return true
}

// TotalProcessed counts configured slots across all pages.
func (s *Session) TotalProcessed() int {
	total := 0
	for i := range s.pages {
		total += s.pages[i].Processed
	}
	return total
}

// Complete closes the session once every page reached its minimum. The
// persisted lines stay untouched; only workflow-local state is
// discarded.
func (s *Session) Complete() error {
	if !s.AllPagesComplete() {
		return ErrIncomplete
	}
	s.reset()
	return nil
}

// Cancel abandons the session. An instance that never got a line is
// discarded locally; otherwise the whole bundle instance is removed
// from the order first.
func (s *Session) Cancel(ctx context.Context) error {
	if s.TotalProcessed() > 0 {
		if err := s.wf.cart.RemoveMenuGroup(ctx, s.menu.ID, s.secondaryID); err != nil {
			s.wf.log.Warn("cancel could not remove bundle instance",
				logger.Int64("menu_id", s.menu.ID),
				logger.Int("secondary_id", s.secondaryID),
				logger.Error(err),
			)
			return err
		}
	}
	s.reset()
	return nil
}

func (s *Session) reset() {
	s.processed = make(map[processedKey]bool)
	for i := range s.pages {
		s.pages[i].Processed = 0
	}
	s.pageIndex = 0
	s.editing = false
	s.wf.cart.ClearEditing()
	s.wf.cart.SetMode(cart.ModeProduct)
}

func (s *Session) menuContext(p *Page, slot *catalog.PageProduct) *productflow.MenuContext {
	return &productflow.MenuContext{
		MenuID:          s.menu.ID,
		MenuName:        s.menu.Name,
		MenuDescription: s.menu.Description,
		MenuBasePrice:   s.basePrice,
		MenuTax:         s.taxPerUnit,
		MenuDiscount:    s.menu.Discount,
		PageID:          p.Meta.ID,
		PageName:        p.Meta.Name,
		Supplement:      slot.Supplement,
		SecondaryID:     s.secondaryID,
		Quantity:        s.quantity,
	}
}

func (s *Session) findLine(productID, pageID int64) *order.OrderItem {
	key := order.GroupKey(s.menu.ID, s.secondaryID)
	for _, it := range s.wf.cart.Items() {
		if it.Key() == key && it.ProductID == productID && it.MenuPageID == pageID {
			line := it
			return &line
		}
	}
	return nil
}

func findSlot(p *Page, productID int64) *catalog.PageProduct {
	for i := range p.Products {
		if p.Products[i].ProductID == productID {
			return &p.Products[i]
		}
	}
	return nil
}
