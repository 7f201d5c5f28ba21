package order

import "github.com/shopspring/decimal"

// MenuGroup is the derived view of one bundle instance: every line
// sharing (MenuID, MenuSecondaryID). It is never persisted; Summarize
// rebuilds it from the flat item list on every read.
type MenuGroup struct {
	Key             string      `json:"key"`
	MenuID          int64       `json:"menu_id"`
	SecondaryID     int         `json:"secondary_id"`
	MenuName        string      `json:"menu_name"`
	BasePrice       float64     `json:"base_price"`
	TaxPerUnit      float64     `json:"tax_per_unit"`
	SupplementTotal float64     `json:"supplement_total"`
	Quantity        int         `json:"quantity"`
	Subtotal        float64     `json:"subtotal"`
	Items           []OrderItem `json:"items"`
}

// Summary is the display-ready projection of an order's flat item list.
type Summary struct {
	Total      float64     `json:"total"`
	Standalone []OrderItem `json:"standalone"`
	Groups     []MenuGroup `json:"groups"`
}

// Summarize partitions items into standalone lines and menu groups and
// computes all totals. Groups and standalone lines keep the first-seen
// order of the underlying list, so repeated calls over the same input
// are byte-for-byte identical.
func Summarize(items []OrderItem) Summary {
	s := Summary{}
	index := make(map[string]int)

	for _, it := range items {
		if !it.InMenu() {
			s.Standalone = append(s.Standalone, it)
			continue
		}
		key := it.Key()
		i, ok := index[key]
		if !ok {
			i = len(s.Groups)
			index[key] = i
			s.Groups = append(s.Groups, MenuGroup{
				Key:         key,
				MenuID:      it.MenuID,
				SecondaryID: it.MenuSecondaryID,
				MenuName:    it.MenuName,
				BasePrice:   it.MenuPrice,
				TaxPerUnit:  it.MenuTax,
				Quantity:    it.Quantity,
			})
		}
		g := &s.Groups[i]
		g.SupplementTotal = RoundCents(g.SupplementTotal + it.Supplement)
		g.Items = append(g.Items, it)
	}

	total := decimal.Zero
	for i := range s.Standalone {
		total = total.Add(decimal.NewFromFloat(ItemTotal(&s.Standalone[i])))
	}
	for i := range s.Groups {
		g := &s.Groups[i]
		g.Subtotal = groupSubtotal(g)
		total = total.Add(decimal.NewFromFloat(g.Subtotal))
	}
	s.Total, _ = total.Round(2).Float64()
	return s
}

// groupSubtotal prices one bundle instance: the menu base, tax and
// supplement total once per bundle quantity, plus each member's variant
// and complement extras at the member's own quantity.
func groupSubtotal(g *MenuGroup) float64 {
	sub := decimal.NewFromFloat(g.BasePrice).
		Add(decimal.NewFromFloat(g.TaxPerUnit)).
		Add(decimal.NewFromFloat(g.SupplementTotal)).
		Mul(decimal.NewFromInt(int64(g.Quantity)))

	for i := range g.Items {
		it := &g.Items[i]
		extras := decimal.NewFromFloat(it.VariantPrice).
			Add(decimal.NewFromFloat(it.ComplementsSum())).
			Mul(decimal.NewFromInt(int64(it.Quantity)))
		sub = sub.Add(extras)
	}
	f, _ := sub.Round(2).Float64()
	return f
}
