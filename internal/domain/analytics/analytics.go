// Package analytics computes vendor and marketplace reports in memory from
// orders, products and escrows already loaded by the caller.
package analytics

import (
	"sort"
	"time"

	"github.com/atelier/marketplace/internal/domain/catalog"
	"github.com/atelier/marketplace/internal/domain/escrow"
	"github.com/atelier/marketplace/internal/domain/identity"
	"github.com/atelier/marketplace/internal/domain/ordering"
	"github.com/atelier/marketplace/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const (
	// DefaultRange is used when no range is requested
	DefaultRange = 30 * 24 * time.Hour
	// MaxRangeDays caps the span of a report
	MaxRangeDays = 366
	topN         = 5
	dayLayout    = "2006-01-02"
)

// Range is a half-open reporting window [From, To)
type Range struct {
	From time.Time
	To   time.Time
}

// NewRange normalizes a requested range. Missing bounds default to the last
// 30 days ending now; To is extended to the end of its day.
func NewRange(from, to *time.Time, now time.Time) (Range, error) {
	end := now
	if to != nil {
		end = *to
	}
	start := end.Add(-DefaultRange)
	if from != nil {
		start = *from
	}
	if end.Before(start) {
		return Range{}, shared.NewDomainError("INVALID_RANGE", "'to' must not be before 'from'")
	}
	start = truncateDay(start)
	end = truncateDay(end).AddDate(0, 0, 1)
	if end.Sub(start) > MaxRangeDays*24*time.Hour {
		return Range{}, shared.NewDomainError("INVALID_RANGE", "Range cannot exceed 366 days")
	}
	return Range{From: start, To: end}, nil
}

// Contains reports whether t falls inside the range
func (r Range) Contains(t time.Time) bool {
	return !t.Before(r.From) && t.Before(r.To)
}

func truncateDay(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// DailyPoint is one day of a time series
type DailyPoint struct {
	Date    string          `json:"date"`
	Revenue decimal.Decimal `json:"revenue"`
	Orders  int             `json:"orders"`
}

// ProductSales ranks a product by revenue
type ProductSales struct {
	ProductID   uuid.UUID       `json:"product_id"`
	ProductName string          `json:"product_name"`
	Units       int             `json:"units"`
	Revenue     decimal.Decimal `json:"revenue"`
}

// VendorSales ranks a vendor by revenue
type VendorSales struct {
	VendorID uuid.UUID       `json:"vendor_id"`
	ShopName string          `json:"shop_name,omitempty"`
	Orders   int             `json:"orders"`
	Revenue  decimal.Decimal `json:"revenue"`
}

// VendorDashboard summarizes a vendor's sales over a range
type VendorDashboard struct {
	From              time.Time                       `json:"from"`
	To                time.Time                       `json:"to"`
	Revenue           decimal.Decimal                 `json:"revenue"`
	Orders            int                             `json:"orders"`
	UnitsSold         int                             `json:"units_sold"`
	AverageOrderValue decimal.Decimal                 `json:"average_order_value"`
	TopProducts       []ProductSales                  `json:"top_products"`
	Daily             []DailyPoint                    `json:"daily"`
	ProductsByStatus  map[catalog.ProductStatus]int64 `json:"products_by_status"`
	Escrow            escrow.Balance                  `json:"escrow"`
}

// BuildVendorDashboard aggregates the vendor's lines of non-cancelled,
// non-refunded orders created inside the range
func BuildVendorDashboard(vendorID uuid.UUID, r Range, orders []ordering.Order, productCounts map[catalog.ProductStatus]int64, balance escrow.Balance) VendorDashboard {
	dash := VendorDashboard{
		From:             r.From,
		To:               r.To,
		Revenue:          decimal.Zero,
		ProductsByStatus: productCounts,
		Escrow:           balance,
	}
	if dash.ProductsByStatus == nil {
		dash.ProductsByStatus = map[catalog.ProductStatus]int64{}
	}
	daily := newDailySeries(r)
	products := make(map[uuid.UUID]*ProductSales)

	for i := range orders {
		o := &orders[i]
		if !o.Status.CountsAsSale() || !r.Contains(o.CreatedAt) {
			continue
		}
		orderRevenue := decimal.Zero
		counted := false
		for _, item := range o.Items {
			if item.VendorID != vendorID {
				continue
			}
			counted = true
			orderRevenue = orderRevenue.Add(item.LineTotal)
			dash.UnitsSold += item.Quantity
			ps, ok := products[item.ProductID]
			if !ok {
				ps = &ProductSales{ProductID: item.ProductID, ProductName: item.ProductName, Revenue: decimal.Zero}
				products[item.ProductID] = ps
			}
			ps.Units += item.Quantity
			ps.Revenue = ps.Revenue.Add(item.LineTotal)
		}
		if !counted {
			continue
		}
		dash.Orders++
		dash.Revenue = dash.Revenue.Add(orderRevenue)
		daily.add(o.CreatedAt, orderRevenue)
	}

	if dash.Orders > 0 {
		dash.AverageOrderValue = dash.Revenue.Div(decimal.NewFromInt(int64(dash.Orders))).Round(2)
	}
	dash.TopProducts = topProducts(products)
	dash.Daily = daily.points()
	return dash
}

// AdminOverview summarizes the whole marketplace over a range
type AdminOverview struct {
	From            time.Time                    `json:"from"`
	To              time.Time                    `json:"to"`
	GMV             decimal.Decimal              `json:"gmv"`
	Orders          int                          `json:"orders"`
	OrdersByStatus  map[ordering.OrderStatus]int `json:"orders_by_status"`
	NewUsersByRole  map[identity.Role]int64      `json:"new_users_by_role"`
	PendingProducts int64                        `json:"pending_products"`
	TopVendors      []VendorSales                `json:"top_vendors"`
	Daily           []DailyPoint                 `json:"daily"`
}

// BuildAdminOverview aggregates every order created inside the range.
// GMV sums order totals of orders that count as sales.
func BuildAdminOverview(r Range, orders []ordering.Order, newUsers map[identity.Role]int64, pendingProducts int64, shopNames map[uuid.UUID]string) AdminOverview {
	ov := AdminOverview{
		From:            r.From,
		To:              r.To,
		GMV:             decimal.Zero,
		OrdersByStatus:  make(map[ordering.OrderStatus]int),
		NewUsersByRole:  newUsers,
		PendingProducts: pendingProducts,
	}
	if ov.NewUsersByRole == nil {
		ov.NewUsersByRole = map[identity.Role]int64{}
	}
	daily := newDailySeries(r)
	vendors := make(map[uuid.UUID]*VendorSales)

	for i := range orders {
		o := &orders[i]
		if !r.Contains(o.CreatedAt) {
			continue
		}
		ov.Orders++
		ov.OrdersByStatus[o.Status]++
		if !o.Status.CountsAsSale() {
			continue
		}
		ov.GMV = ov.GMV.Add(o.Total)
		daily.add(o.CreatedAt, o.Total)

		seen := make(map[uuid.UUID]bool)
		for _, item := range o.Items {
			vs, ok := vendors[item.VendorID]
			if !ok {
				vs = &VendorSales{VendorID: item.VendorID, ShopName: shopNames[item.VendorID], Revenue: decimal.Zero}
				vendors[item.VendorID] = vs
			}
			vs.Revenue = vs.Revenue.Add(item.LineTotal)
			if !seen[item.VendorID] {
				seen[item.VendorID] = true
				vs.Orders++
			}
		}
	}

	ov.TopVendors = topVendors(vendors)
	ov.Daily = daily.points()
	return ov
}

type dailySeries struct {
	order []string
	byDay map[string]*DailyPoint
}

func newDailySeries(r Range) *dailySeries {
	s := &dailySeries{byDay: make(map[string]*DailyPoint)}
	for d := r.From; d.Before(r.To); d = d.AddDate(0, 0, 1) {
		key := d.Format(dayLayout)
		s.order = append(s.order, key)
		s.byDay[key] = &DailyPoint{Date: key, Revenue: decimal.Zero}
	}
	return s
}

func (s *dailySeries) add(at time.Time, revenue decimal.Decimal) {
	p, ok := s.byDay[at.UTC().Format(dayLayout)]
	if !ok {
		return
	}
	p.Orders++
	p.Revenue = p.Revenue.Add(revenue)
}

func (s *dailySeries) points() []DailyPoint {
	out := make([]DailyPoint, len(s.order))
	for i, key := range s.order {
		out[i] = *s.byDay[key]
	}
	return out
}

func topProducts(m map[uuid.UUID]*ProductSales) []ProductSales {
	list := make([]ProductSales, 0, len(m))
	for _, ps := range m {
		list = append(list, *ps)
	}
	sort.Slice(list, func(i, j int) bool {
		if c := list[i].Revenue.Cmp(list[j].Revenue); c != 0 {
			return c > 0
		}
		return list[i].ProductID.String() < list[j].ProductID.String()
	})
	if len(list) > topN {
		list = list[:topN]
	}
	return list
}

func topVendors(m map[uuid.UUID]*VendorSales) []VendorSales {
	list := make([]VendorSales, 0, len(m))
	for _, vs := range m {
		list = append(list, *vs)
	}
	sort.Slice(list, func(i, j int) bool {
		if c := list[i].Revenue.Cmp(list[j].Revenue); c != 0 {
			return c > 0
		}
		return list[i].VendorID.String() < list[j].VendorID.String()
	})
	if len(list) > topN {
		list = list[:topN]
	}
	return list
}
