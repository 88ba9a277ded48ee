package domain

// SalesPoint is one bucket of a sales series; Label is the bucket key (day, week, month or year).
type SalesPoint struct {
	Label      string  `json:"_id"`
	TotalSales float64 `json:"totalSales"`
}

type TopProduct struct {
	Name  string  `json:"name"`
	Qty   int     `json:"qty"`
	Sales float64 `json:"sales"`
}

type StockLevel struct {
	Name     string `json:"name"`
	Category string `json:"category"`
	Stock    int    `json:"stock"`
}

type SalesSummary struct {
	TotalSales      float64      `json:"totalSales"`
	MonthlySales    float64      `json:"monthlySales"`
	WeeklySales     float64      `json:"weeklySales"`
	YearlySales     float64      `json:"yearlySales"`
	TotalOrders     int          `json:"totalOrders"`
	CompletedOrders int          `json:"completedOrders"`
	PendingOrders   int          `json:"pendingOrders"`
	TotalItemsSold  int          `json:"totalItemsSold"`
	SalesByDay      []SalesPoint `json:"salesByDay"`
	SalesByWeek     []SalesPoint `json:"salesByWeek"`
	SalesByMonth    []SalesPoint `json:"salesByMonth"`
	SalesByYear     []SalesPoint `json:"salesByYear"`
	TopSelling      []TopProduct `json:"topSelling"`
	StockStatus     []StockLevel `json:"stockStatus"`
}

// Series picks the sales series for a chart period; unknown periods fall back to daily.
func (s SalesSummary) Series(period string) []SalesPoint {
	switch period {
	case "weekly":
		return s.SalesByWeek
	case "monthly":
		return s.SalesByMonth
	case "yearly":
		return s.SalesByYear
	default:
		return s.SalesByDay
	}
}

// LowStock returns at most n stock alerts in the order the backend ranked them.
func (s SalesSummary) LowStock(n int) []StockLevel {
	if len(s.StockStatus) <= n {
		return s.StockStatus
	}
	return s.StockStatus[:n]
}
