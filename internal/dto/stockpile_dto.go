package dto

import "github.com/shopspring/decimal"

// StockpileSummaryRow is one product's stock position within a season.
// Purchased weight counts original receipts only (split children excluded);
// sold weight counts mapped sale quantities including those against children.
type StockpileSummaryRow struct {
	ProductID          string          `json:"product_id"`
	ProductCode        string          `json:"product_code"`
	ProductName        string          `json:"product_name"`
	ProductType        string          `json:"product_type"`
	Variety            string          `json:"variety"`
	TotalPurchasedKg   decimal.Decimal `json:"total_purchased_kg"`
	TotalPurchasedTon  decimal.Decimal `json:"total_purchased_ton"`
	PurchaseCount      int64           `json:"purchase_count"`
	TotalSoldKg        decimal.Decimal `json:"total_sold_kg"`
	TotalSoldTon       decimal.Decimal `json:"total_sold_ton"`
	SalesCount         int64           `json:"sales_count"`
	CurrentStockKg     decimal.Decimal `json:"current_stock_kg"`
	CurrentStockTon    decimal.Decimal `json:"current_stock_ton"`
	CurrentPricePerTon decimal.Decimal `json:"current_price_per_ton"`
	StockValue         decimal.Decimal `json:"stock_value"`
}

// StockpileStatsResponse aggregates a season's whole position.
type StockpileStatsResponse struct {
	TotalPurchasedKg          decimal.Decimal `json:"total_purchased_kg"`
	TotalPurchasedTon         decimal.Decimal `json:"total_purchased_ton"`
	TotalPurchaseTransactions int64           `json:"total_purchase_transactions"`
	TotalSoldKg               decimal.Decimal `json:"total_sold_kg"`
	TotalSoldTon              decimal.Decimal `json:"total_sold_ton"`
	TotalSaleTransactions     int64           `json:"total_sale_transactions"`
	CurrentStockKg            decimal.Decimal `json:"current_stock_kg"`
	CurrentStockTon           decimal.Decimal `json:"current_stock_ton"`
	TurnoverRatePct           decimal.Decimal `json:"turnover_rate_pct"`
}

// StockMovementRow is one entry of the per-product movement ledger: either a
// purchase (weight in) or a mapped sale quantity (weight out).
type StockMovementRow struct {
	MovementType    string          `json:"movement_type"` // PURCHASE | SALE
	TransactionID   string          `json:"transaction_id"`
	ReferenceNumber string          `json:"reference_number"`
	TransactionDate string          `json:"transaction_date"`
	PartyName       string          `json:"party_name"`
	PartyCode       string          `json:"party_code"`
	WeightKg        decimal.Decimal `json:"weight_kg"`
	TotalAmount     decimal.Decimal `json:"total_amount"`
	PaymentStatus   string          `json:"payment_status"`
}

// MovementFilter is bound from the query string of the movements endpoint.
type MovementFilter struct {
	ProductID    string `form:"product_id" validate:"required,uuid"`
	DateFrom     string `form:"date_from"`
	DateTo       string `form:"date_to"`
	MovementType string `form:"movement_type" validate:"omitempty,oneof=PURCHASE SALE ALL"`
}
