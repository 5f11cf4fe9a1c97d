package rollup

import (
	"sort"

	"github.com/crusade153/snop-mgt-sub000/internal/domain"
)

// itemBuilder is an ordered accumulator of per-product records. Products are
// created lazily the first time any stream mentions them; iteration order is
// first-seen order so identical inputs produce identical output.
type itemBuilder struct {
	order  []string
	byCode map[string]*itemAccumulator
}

type itemAccumulator struct {
	item     domain.IntegratedItem
	velocity velocity
}

func newItemBuilder() *itemBuilder {
	return &itemBuilder{byCode: make(map[string]*itemAccumulator)}
}

func (b *itemBuilder) get(code string) *itemAccumulator {
	if acc, ok := b.byCode[code]; ok {
		return acc
	}
	acc := &itemAccumulator{item: domain.IntegratedItem{ProductCode: code}}
	b.byCode[code] = acc
	b.order = append(b.order, code)
	return acc
}

func (b *itemBuilder) each(fn func(*itemAccumulator)) {
	for _, code := range b.order {
		fn(b.byCode[code])
	}
}

// fillIdentity merges identity fields with first-write-wins semantics: a
// non-empty value is never overwritten by a later sighting.
func (acc *itemAccumulator) fillIdentity(name, unit string, boxFactor float64) {
	if acc.item.ProductName == "" {
		acc.item.ProductName = name
	}
	if acc.item.Unit == "" {
		acc.item.Unit = unit
	}
	if acc.item.BoxFactor == 0 {
		acc.item.BoxFactor = boxFactor
	}
}

// customerBuilder is the ordered per-customer accumulator built in the same
// pass as the items.
type customerBuilder struct {
	order []string
	byID  map[string]*customerAccumulator
}

type customerAccumulator struct {
	stat     domain.CustomerStat
	products map[string]*domain.ProductRevenue
	seen     []string
}

func newCustomerBuilder() *customerBuilder {
	return &customerBuilder{byID: make(map[string]*customerAccumulator)}
}

func (b *customerBuilder) get(id, name string) *customerAccumulator {
	if acc, ok := b.byID[id]; ok {
		if acc.stat.CustomerName == "" {
			acc.stat.CustomerName = name
		}
		return acc
	}
	acc := &customerAccumulator{
		stat:     domain.CustomerStat{CustomerID: id, CustomerName: name},
		products: make(map[string]*domain.ProductRevenue),
	}
	b.byID[id] = acc
	b.order = append(b.order, id)
	return acc
}

func (acc *customerAccumulator) addProduct(code, name string, revenue float64) {
	if p, ok := acc.products[code]; ok {
		p.Revenue += revenue
		if p.ProductName == "" {
			p.ProductName = name
		}
		return
	}
	acc.products[code] = &domain.ProductRevenue{ProductCode: code, ProductName: name, Revenue: revenue}
	acc.seen = append(acc.seen, code)
}

// topProducts returns the customer's purchases ranked by revenue, capped at
// limit. Ties keep encounter order.
func (acc *customerAccumulator) topProducts(limit int) []domain.ProductRevenue {
	ranked := make([]domain.ProductRevenue, 0, len(acc.seen))
	for _, code := range acc.seen {
		ranked = append(ranked, *acc.products[code])
	}
	sort.SliceStable(ranked, func(i, j int) bool { return ranked[i].Revenue > ranked[j].Revenue })
	if len(ranked) > limit {
		ranked = ranked[:limit]
	}
	return ranked
}
