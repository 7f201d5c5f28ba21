package productflow

import (
	"context"
	"fmt"
	"sort"

	"github.com/Saqib-002/pos-order-to-delivery-sub001/internal/application/cart"
	"github.com/Saqib-002/pos-order-to-delivery-sub001/internal/domain/catalog"
	"github.com/Saqib-002/pos-order-to-delivery-sub001/internal/domain/order"
	"github.com/Saqib-002/pos-order-to-delivery-sub001/internal/domain/repository"
	"github.com/Saqib-002/pos-order-to-delivery-sub001/pkg/logger"
)

// Workflow configures a single product: variant choice, bounded
// complement selection per add-on page, quantity. It is reused by the
// menu workflow for each bundle slot.
type Workflow struct {
	catalog repository.CatalogGateway
	cart    *cart.Service
	log     logger.Logger
}

func NewWorkflow(catalogGW repository.CatalogGateway, cartSvc *cart.Service, log logger.Logger) *Workflow {
	return &Workflow{catalog: catalogGW, cart: cartSvc, log: log}
}

// MenuContext ties a configuration session to one bundle slot. Base
// price and tax are the menu's tax-exclusive decomposition, copied onto
// every line of the instance.
type MenuContext struct {
	MenuID          int64
	MenuName        string
	MenuDescription string
	MenuBasePrice   float64
	MenuTax         float64
	MenuDiscount    float64
	PageID          int64
	PageName        string
	Supplement      float64
	SecondaryID     int
	Quantity        int
}

// StartOptions select the session flavor: a bundle slot when Menu is
// set, pre-filled editing of an existing line when Edit is set.
type StartOptions struct {
	Menu *MenuContext
	Edit *order.OrderItem
}

// Session is the transient selection state of one product
// configuration. It holds nothing persisted; closing it without
// confirming simply drops the selections.
type Session struct {
	wf       *Workflow
	product  catalog.Product
	variants []catalog.Variant
	pages    []catalog.AddOnPage
	groups   map[int64]catalog.Group

	variantID  int64
	selections map[int64][]order.Complement
	quantity   int
	menuCtx    *MenuContext
	editing    *order.OrderItem
}

// Start loads the product, its variants, its add-on pages and the
// complement groups they reference, and opens a session. With Edit set
// the prior variant, complements and quantity are pre-selected.
func (w *Workflow) Start(ctx context.Context, productID int64, opts StartOptions) (*Session, error) {
	product, err := w.catalog.GetProductByID(ctx, productID)
	if err != nil {
		w.log.Error("load product failed", logger.Int64("product_id", productID), logger.Error(err))
		return nil, fmt.Errorf("load product: %w", err)
	}
	variants, err := w.catalog.GetVariantsByProductID(ctx, productID)
	if err != nil {
		w.log.Error("load variants failed", logger.Int64("product_id", productID), logger.Error(err))
		return nil, fmt.Errorf("load variants: %w", err)
	}
	pages, err := w.catalog.GetAddOnPagesByProductID(ctx, productID)
	if err != nil {
		w.log.Error("load add-on pages failed", logger.Int64("product_id", productID), logger.Error(err))
		return nil, fmt.Errorf("load add-on pages: %w", err)
	}

	sort.Slice(variants, func(i, j int) bool { return variants[i].Priority < variants[j].Priority })
	sort.Slice(pages, func(i, j int) bool { return pages[i].Priority < pages[j].Priority })

	groups := make(map[int64]catalog.Group)
	if len(pages) > 0 {
		all, err := w.catalog.GetGroups(ctx)
		if err != nil {
			return nil, fmt.Errorf("load groups: %w", err)
		}
		for _, g := range all {
			groups[g.ID] = g
		}
	}

	s := &Session{
		wf:         w,
		product:    *product,
		variants:   variants,
		pages:      pages,
		groups:     groups,
		selections: make(map[int64][]order.Complement),
		quantity:   1,
		menuCtx:    opts.Menu,
		editing:    opts.Edit,
	}

	if len(variants) > 0 {
		s.variantID = variants[0].ID
	}

	if opts.Edit != nil {
		if opts.Edit.VariantID != 0 {
			s.variantID = opts.Edit.VariantID
		}
		for _, c := range opts.Edit.Complements {
			s.selections[c.GroupID] = append(s.selections[c.GroupID], c)
		}
		s.quantity = opts.Edit.Quantity
	}
	if opts.Menu != nil {
		s.quantity = opts.Menu.Quantity
	}
	return s, nil
}

func (s *Session) Product() catalog.Product {
	return s.product
}

func (s *Session) Variants() []catalog.Variant {
	return s.variants
}

func (s *Session) Pages() []catalog.AddOnPage {
	return s.pages
}

// InMenu reports whether the session configures a bundle slot.
func (s *Session) InMenu() bool {
	return s.menuCtx != nil
}

// Editing reports whether the session replaces an existing line.
func (s *Session) Editing() bool {
	return s.editing != nil
}

// SelectVariant picks one of the product's variants.
func (s *Session) SelectVariant(variantID int64) error {
	for _, v := range s.variants {
		if v.ID == variantID {
			s.variantID = variantID
			return nil
		}
	}
	return ErrUnknownVariant
}

// SetQuantity adjusts the line quantity. In menu mode the quantity is
// the bundle's and cannot be changed per slot.
func (s *Session) SetQuantity(q int) {
	if s.InMenu() {
		return
	}
	if q < 1 {
		q = 1
	}
	s.quantity = q
}

func (s *Session) Quantity() int {
	return s.quantity
}

// SelectComplement adds one complement from the given group, rejecting
// the selection when the group's page is already at its maximum. The
// prior selection stays intact on rejection.
func (s *Session) SelectComplement(groupID, itemID int64) error {
	page := s.pageForGroup(groupID)
	if page == nil {
		return ErrUnknownGroup
	}
	if page.MaxComplements > 0 && len(s.selections[groupID]) >= page.MaxComplements {
		s.wf.log.Debug("complement quota reached",
			logger.Int64("group_id", groupID),
			logger.Int("max", page.MaxComplements),
		)
		return ErrQuotaExceeded
	}

	group, ok := s.groups[groupID]
	if !ok {
		return ErrUnknownGroup
	}
	for _, gi := range group.Items {
		if gi.ID == itemID {
			s.selections[groupID] = append(s.selections[groupID], order.Complement{
				GroupID:   groupID,
				GroupName: group.Name,
				ItemID:    gi.ID,
				ItemName:  gi.Name,
				Price:     gi.Price,
				Priority:  gi.Priority,
			})
			return nil
		}
	}
	return ErrUnknownComplement
}

// ClearComplements drops the whole selection, e.g. before re-applying
// a full selection during an edit.
func (s *Session) ClearComplements() {
	s.selections = make(map[int64][]order.Complement)
}

// DeselectComplement removes one occurrence of a complement.
func (s *Session) DeselectComplement(groupID, itemID int64) {
	sel := s.selections[groupID]
	for i := range sel {
		if sel[i].ItemID == itemID {
			s.selections[groupID] = append(sel[:i], sel[i+1:]...)
			return
		}
	}
}

// SelectedComplements flattens the selection in page order.
func (s *Session) SelectedComplements() []order.Complement {
	var out []order.Complement
	for _, p := range s.pages {
		out = append(out, s.selections[p.GroupID]...)
	}
	return out
}

// CanProceed reports whether the selection is confirmable: a variant is
// chosen (or the product has none) and every add-on page has reached
// its minimum.
func (s *Session) CanProceed() bool {
	if len(s.variants) > 0 && s.variantID == 0 {
		return false
	}
	for _, p := range s.pages {
		if len(s.selections[p.GroupID]) < p.MinComplements {
			return false
		}
	}
	return true
}

// Confirm prices the selection, builds the candidate line and hands it
// to the cart. Standalone sessions fold into an exact duplicate line by
// merging quantities; bundle slots always append a fresh line; editing
// sessions replace the edited line.
func (s *Session) Confirm(ctx context.Context) (order.OrderItem, error) {
	if len(s.variants) > 0 && s.variantID == 0 {
		return order.OrderItem{}, ErrVariantRequired
	}
	for _, p := range s.pages {
		if len(s.selections[p.GroupID]) < p.MinComplements {
			return order.OrderItem{}, ErrBelowMinimum
		}
	}

	item := s.buildItem()

	if s.editing != nil {
		if err := s.wf.cart.EditItem(ctx, s.editing.ID, item); err != nil {
			return order.OrderItem{}, err
		}
		item.ID = s.editing.ID
		return item, nil
	}

	if !s.InMenu() {
		if match := s.wf.cart.FindExactMatch(item.ProductID, item.VariantID, item.Complements); match != nil {
			merged := match.Quantity + s.quantity
			if err := s.wf.cart.UpdateQuantity(ctx, match.ID, merged); err != nil {
				return order.OrderItem{}, err
			}
			match.Quantity = merged
			match.TotalPrice = order.ItemTotal(match)
			return *match, nil
		}
	}

	return s.wf.cart.AddItem(ctx, item)
}

func (s *Session) buildItem() order.OrderItem {
	var variantName string
	var variantPrice float64
	for _, v := range s.variants {
		if v.ID == s.variantID {
			variantName = v.Name
			variantPrice = v.Price
			break
		}
	}

	complements := s.SelectedComplements()
	item := order.OrderItem{
		ProductID:          s.product.ID,
		ProductName:        s.product.Name,
		ProductDescription: s.product.Description,
		ProductPriority:    s.product.Priority,
		ProductPrice:       order.BasePrice(s.product.Price, s.product.Tax),
		ProductTax:         order.TaxAmount(s.product.Price, s.product.Tax),
		ProductDiscount:    s.product.Discount,
		VariantID:          s.variantID,
		VariantName:        variantName,
		VariantPrice:       variantPrice,
		Complements:        complements,
		Quantity:           s.quantity,
	}

	if mc := s.menuCtx; mc != nil {
		item.MenuID = mc.MenuID
		item.MenuName = mc.MenuName
		item.MenuDescription = mc.MenuDescription
		item.MenuPrice = mc.MenuBasePrice
		item.MenuTax = mc.MenuTax
		item.MenuDiscount = mc.MenuDiscount
		item.MenuPageID = mc.PageID
		item.MenuPageName = mc.PageName
		item.Supplement = mc.Supplement
		item.MenuSecondaryID = mc.SecondaryID
		item.Quantity = mc.Quantity
	}

	item.TotalPrice = order.ItemTotal(&item)
	return item
}

func (s *Session) pageForGroup(groupID int64) *catalog.AddOnPage {
	for i := range s.pages {
		if s.pages[i].GroupID == groupID {
			return &s.pages[i]
		}
	}
	return nil
}
