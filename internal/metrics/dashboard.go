package metrics

import (
	"encoding/json"
	"slices"
	"time"

	"github.com/rogerio-castellano/waterx/internal/models"
	"github.com/shopspring/decimal"
)

const (
	salesWindowDays = 7
	recentPerSource = 2
	recentActivity  = 4
)

type KPIs struct {
	BottlesInStock  int     `json:"bottlesInStock"`
	OrdersToday     int     `json:"ordersToday"`
	TotalCustomers  int     `json:"totalCustomers"`
	PendingPayments float64 `json:"pendingPayments"`
	DeliveriesToday int     `json:"deliveriesToday"`
}

// SalesPoint is one day of the weekly series: units sold and delivered revenue.
type SalesPoint struct {
	Name    string  `json:"name"`
	Sales   int     `json:"sales"`
	Revenue float64 `json:"revenue"`
}

// Activity is an order or customer in the recent activity feed. It is
// serialized as the record's own fields plus "type" and "timestamp".
type Activity struct {
	Type      string
	Timestamp string
	Record    any
}

func (a Activity) MarshalJSON() ([]byte, error) {
	data, err := json.Marshal(a.Record)
	if err != nil {
		return nil, err
	}
	fields := map[string]json.RawMessage{}
	if err := json.Unmarshal(data, &fields); err != nil {
		return nil, err
	}
	fields["type"], _ = json.Marshal(a.Type)
	fields["timestamp"], _ = json.Marshal(a.Timestamp)
	return json.Marshal(fields)
}

type Dashboard struct {
	KPIs           KPIs         `json:"kpis"`
	SalesData      []SalesPoint `json:"salesData"`
	RecentActivity []Activity   `json:"recentActivity"`
}

// parseDate accepts RFC 3339 timestamps (with or without fractional seconds)
// and plain dates, then moves them into loc. A plain date is midnight UTC.
func parseDate(s string, loc *time.Location) (time.Time, bool) {
	if t, err := time.Parse(time.RFC3339Nano, s); err == nil {
		return t.In(loc), true
	}
	if t, err := time.Parse(time.DateOnly, s); err == nil {
		return t.In(loc), true
	}
	return time.Time{}, false
}

func midnight(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// IsToday reports whether date falls at or after local midnight of now.
// Future dates count as today; unparseable dates never do.
func IsToday(date string, now time.Time) bool {
	t, ok := parseDate(date, now.Location())
	if !ok {
		return false
	}
	return !t.Before(midnight(now))
}

func weekdayLabel(t time.Time) string {
	return t.Weekday().String()[:3]
}

// SalesSeries buckets orders by the weekday name of their creation date (the
// delivery date when createdAt is empty) for the seven days ending at now,
// oldest first. Orders from an earlier week with the same weekday name land in
// the same bucket.
func SalesSeries(orders []models.Order, prices PriceList, now time.Time) []SalesPoint {
	series := make([]SalesPoint, 0, salesWindowDays)
	bucket := make(map[string]int, salesWindowDays)
	for i := salesWindowDays - 1; i >= 0; i-- {
		label := weekdayLabel(now.AddDate(0, 0, -i))
		bucket[label] = len(series)
		series = append(series, SalesPoint{Name: label})
	}

	revenue := make([]decimal.Decimal, len(series))
	for _, o := range orders {
		date := o.CreatedAt
		if date == "" {
			date = o.DeliveryDate
		}
		t, ok := parseDate(date, now.Location())
		if !ok {
			continue
		}
		i, ok := bucket[weekdayLabel(t)]
		if !ok {
			continue
		}
		series[i].Sales += o.TotalItems()
		if o.Status == models.OrderDelivered {
			revenue[i] = revenue[i].Add(prices.OrderValue(o))
		}
	}

	for i := range series {
		series[i].Revenue = revenue[i].InexactFloat64()
	}
	return series
}

func createdAt(s string) time.Time {
	t, _ := time.Parse(time.RFC3339Nano, s)
	return t
}

// newest returns up to n items ordered by descending createdAt. Items without
// a parseable createdAt sort last.
func newest[T any](items []T, created func(T) string, n int) []T {
	sorted := slices.Clone(items)
	slices.SortStableFunc(sorted, func(a, b T) int {
		return createdAt(created(b)).Compare(createdAt(created(a)))
	})
	return sorted[:min(n, len(sorted))]
}

// RecentActivity merges the two newest orders and two newest customers,
// newest first, capped at four entries.
func RecentActivity(orders []models.Order, customers []models.Customer) []Activity {
	feed := make([]Activity, 0, 2*recentPerSource)
	for _, o := range newest(orders, func(o models.Order) string { return o.CreatedAt }, recentPerSource) {
		feed = append(feed, Activity{Type: "order", Timestamp: o.CreatedAt, Record: o})
	}
	for _, c := range newest(customers, func(c models.Customer) string { return c.CreatedAt }, recentPerSource) {
		feed = append(feed, Activity{Type: "customer", Timestamp: c.CreatedAt, Record: c})
	}

	slices.SortStableFunc(feed, func(a, b Activity) int {
		return createdAt(b.Timestamp).Compare(createdAt(a.Timestamp))
	})
	return feed[:min(recentActivity, len(feed))]
}

// ComputeDashboard joins orders, customers and products into the dashboard view.
func ComputeDashboard(orders []models.Order, customers []models.Customer, products []models.Product, now time.Time) Dashboard {
	prices := NewPriceList(products)

	var kpis KPIs
	for _, p := range products {
		kpis.BottlesInStock += p.Stock.Full
	}
	for _, o := range orders {
		if !IsToday(o.DeliveryDate, now) {
			continue
		}
		kpis.OrdersToday++
		if o.Status != models.OrderCancelled {
			kpis.DeliveriesToday++
		}
	}
	kpis.TotalCustomers = len(customers)
	_, outstanding := receivables(orders, prices)
	kpis.PendingPayments = outstanding.InexactFloat64()

	return Dashboard{
		KPIs:           kpis,
		SalesData:      SalesSeries(orders, prices, now),
		RecentActivity: RecentActivity(orders, customers),
	}
}
