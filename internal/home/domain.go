package home

import "github.com/stockbook/stockbook/internal/money"

// DraftSale is an unshipped sale surfaced on the dashboard.
type DraftSale struct {
	ID         int64       `json:"id"`
	Date       string      `json:"date"`
	ClientName string      `json:"client_name"`
	Total      money.Money `json:"total"`
}

// LowStockItem is a part or product whose stock fell below the configured
// threshold.
type LowStockItem struct {
	ID    int64  `json:"id"`
	Name  string `json:"name"`
	Units int64  `json:"units"`
}

// Dashboard is the home screen snapshot: everything awaiting shipment and
// everything running low.
type Dashboard struct {
	DraftSales       []DraftSale    `json:"draft_sales"`
	LowStockParts    []LowStockItem `json:"low_stock_parts"`
	LowStockProducts []LowStockItem `json:"low_stock_products"`
}
