package catalog

// Product is a sellable item as served by the remote catalog.
// Price is tax inclusive; Tax is a percentage rate.
type Product struct {
	ID          int64   `json:"id"`
	Name        string  `json:"name"`
	Description string  `json:"description,omitempty"`
	Price       float64 `json:"price"`
	Tax         float64 `json:"tax"`
	Discount    float64 `json:"discount"`
	Priority    int     `json:"priority"`
}

// Variant is a mutually exclusive product configuration (size, dough, ...)
// carrying its own price delta.
type Variant struct {
	ID        int64   `json:"id"`
	ProductID int64   `json:"product_id"`
	Name      string  `json:"name"`
	Price     float64 `json:"price"`
	Priority  int     `json:"priority"`
}

// Group is a named complement group.
type Group struct {
	ID       int64       `json:"id"`
	Name     string      `json:"name"`
	Items    []GroupItem `json:"items,omitempty"`
	Priority int         `json:"priority"`
}

// GroupItem is one selectable complement inside a group.
type GroupItem struct {
	ID       int64   `json:"id"`
	GroupID  int64   `json:"group_id"`
	Name     string  `json:"name"`
	Price    float64 `json:"price"`
	Priority int     `json:"priority"`
}

// AddOnPage is one complement quota attached to a single product:
// a bounded selection out of one group.
type AddOnPage struct {
	ID             int64  `json:"id"`
	ProductID      int64  `json:"product_id"`
	Name           string `json:"name"`
	GroupID        int64  `json:"group_id"`
	MinComplements int    `json:"min_complements"`
	MaxComplements int    `json:"max_complements"`
	FreeAddons     int    `json:"free_addons"`
	Priority       int    `json:"priority"`
}

// Menu is a composite product ("bundle") configured page by page.
// Price is tax inclusive, like Product.
type Menu struct {
	ID          int64   `json:"id"`
	Name        string  `json:"name"`
	Description string  `json:"description,omitempty"`
	Price       float64 `json:"price"`
	Tax         float64 `json:"tax"`
	Discount    float64 `json:"discount"`
	Priority    int     `json:"priority"`
}

// MenuPage is one selection step of a bundle with its own complement quota.
type MenuPage struct {
	ID             int64  `json:"id"`
	Name           string `json:"name"`
	Description    string `json:"description,omitempty"`
	MinComplements int    `json:"min_complements"`
	MaxComplements int    `json:"max_complements"`
	Priority       int    `json:"priority"`
}

// PageProduct is a product slot on a menu page. Supplement is the extra
// charged on top of the menu base price when this product is picked.
type PageProduct struct {
	ProductID  int64   `json:"product_id"`
	Name       string  `json:"name"`
	Supplement float64 `json:"supplement"`
	Priority   int     `json:"priority"`
}

// PageAssociation links a menu to one of its pages, ordered by Priority.
// Minimum and Maximum are the effective quota for this page within this
// menu and take precedence over the page's own defaults.
type PageAssociation struct {
	MenuID   int64 `json:"menu_id"`
	PageID   int64 `json:"page_id"`
	Minimum  int   `json:"minimum"`
	Maximum  int   `json:"maximum"`
	Priority int   `json:"priority"`
}
