package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// StockpileSummaryRecord is one product's raw stock aggregates for a season.
type StockpileSummaryRecord struct {
	ProductID          uuid.UUID       `gorm:"column:product_id"`
	ProductCode        string          `gorm:"column:product_code"`
	ProductName        string          `gorm:"column:product_name"`
	ProductType        string          `gorm:"column:product_type"`
	Variety            string          `gorm:"column:variety"`
	TotalPurchasedKg   decimal.Decimal `gorm:"column:total_purchased_kg"`
	PurchaseCount      int64           `gorm:"column:purchase_count"`
	TotalSoldKg        decimal.Decimal `gorm:"column:total_sold_kg"`
	SalesCount         int64           `gorm:"column:sales_count"`
	CurrentPricePerTon decimal.Decimal `gorm:"column:current_price_per_ton"`
}

// StockMovementRecord is one ledger entry, purchase in or sale out.
type StockMovementRecord struct {
	MovementType    string          `gorm:"column:movement_type"`
	TransactionID   uuid.UUID       `gorm:"column:transaction_id"`
	ReferenceNumber string          `gorm:"column:reference_number"`
	TransactionDate time.Time       `gorm:"column:transaction_date"`
	PartyName       string          `gorm:"column:party_name"`
	PartyCode       string          `gorm:"column:party_code"`
	WeightKg        decimal.Decimal `gorm:"column:weight_kg"`
	TotalAmount     decimal.Decimal `gorm:"column:total_amount"`
	PaymentStatus   string          `gorm:"column:payment_status"`
}

type StockpileRepository interface {
	Summary(ctx context.Context, seasonID uuid.UUID) ([]StockpileSummaryRecord, error)
	Movements(ctx context.Context, seasonID, productID uuid.UUID, dateFrom, dateTo, movementType string) ([]StockMovementRecord, error)
	DB() *gorm.DB
}

type stockpileRepo struct{ db *gorm.DB }

func NewStockpileRepository(db *gorm.DB) StockpileRepository { return &stockpileRepo{db: db} }

func (r *stockpileRepo) DB() *gorm.DB { return r.db }

// Summary aggregates per product. Purchases count original receipts only
// (parent_transaction_id IS NULL) since a split parent's weight already covers
// its children; sales sum mapped quantities wherever they landed, parent or
// child, so the sold side stays in lockstep with the purchase ledger even
// when a sale's declared weight drifts from its mappings by the allocation
// tolerance. The two aggregates run as separate subqueries so a product with
// purchases but no sales still produces a row.
func (r *stockpileRepo) Summary(ctx context.Context, seasonID uuid.UUID) ([]StockpileSummaryRecord, error) {
	sql := `
		SELECT
			p.id AS product_id,
			p.product_code,
			p.product_name,
			p.product_type,
			p.variety,
			COALESCE(pur.total_kg, 0) AS total_purchased_kg,
			COALESCE(pur.cnt, 0) AS purchase_count,
			COALESCE(sal.total_kg, 0) AS total_sold_kg,
			COALESCE(sal.cnt, 0) AS sales_count,
			COALESCE(spp.price_per_ton, 0) AS current_price_per_ton
		FROM paddy_products p
		LEFT JOIN (
			SELECT product_id,
				SUM(net_weight_kg) AS total_kg,
				COUNT(*) AS cnt
			FROM purchase_transactions
			WHERE season_id = ?
			  AND status = 'completed'
			  AND parent_transaction_id IS NULL
			GROUP BY product_id
		) pur ON pur.product_id = p.id
		LEFT JOIN (
			SELECT st.product_id,
				SUM(spm.quantity_kg) AS total_kg,
				COUNT(DISTINCT st.id) AS cnt
			FROM sales_purchase_mapping spm
			JOIN sales_transactions st ON spm.sales_id = st.id
			WHERE st.season_id = ?
			  AND st.status = 'completed'
			GROUP BY st.product_id
		) sal ON sal.product_id = p.id
		LEFT JOIN season_product_prices spp
			ON spp.season_id = ? AND spp.product_id = p.id
		WHERE p.is_active = TRUE
		ORDER BY p.product_code ASC`

	var rows []StockpileSummaryRecord
	err := r.db.WithContext(ctx).Raw(sql, seasonID, seasonID, seasonID).Scan(&rows).Error
	return rows, err
}

// Movements interleaves purchases (in) and sale mappings (out) for one
// product, newest first. Sale rows reference the mapping quantity, not the
// whole sale, so a sale drawing from several receipts appears once per
// receipt with the exact weight taken.
func (r *stockpileRepo) Movements(ctx context.Context, seasonID, productID uuid.UUID, dateFrom, dateTo, movementType string) ([]StockMovementRecord, error) {
	purchases := `
		SELECT
			'PURCHASE' AS movement_type,
			pt.id AS transaction_id,
			pt.receipt_number AS reference_number,
			pt.transaction_date,
			f.full_name AS party_name,
			f.farmer_code AS party_code,
			pt.net_weight_kg AS weight_kg,
			pt.total_amount,
			pt.payment_status
		FROM purchase_transactions pt
		JOIN farmers f ON pt.farmer_id = f.id
		WHERE pt.season_id = ?
		  AND pt.product_id = ?
		  AND pt.status = 'completed'
		  AND pt.parent_transaction_id IS NULL`
	sales := `
		SELECT
			'SALE' AS movement_type,
			st.id AS transaction_id,
			st.sales_number AS reference_number,
			st.sale_date AS transaction_date,
			m.company_name AS party_name,
			m.manufacturer_code AS party_code,
			spm.quantity_kg AS weight_kg,
			(spm.quantity_kg * st.sale_price_per_kg) AS total_amount,
			st.payment_status
		FROM sales_purchase_mapping spm
		JOIN sales_transactions st ON spm.sales_id = st.id
		JOIN manufacturers m ON st.manufacturer_id = m.id
		WHERE st.season_id = ?
		  AND st.product_id = ?
		  AND st.status = 'completed'`

	var sql string
	var args []interface{}
	switch movementType {
	case "PURCHASE":
		sql = purchases
		args = []interface{}{seasonID, productID}
	case "SALE":
		sql = sales
		args = []interface{}{seasonID, productID}
	default:
		sql = "(" + purchases + ") UNION ALL (" + sales + ")"
		args = []interface{}{seasonID, productID, seasonID, productID}
	}

	sql = `SELECT * FROM (` + sql + `) mv WHERE 1 = 1`
	if dateFrom != "" {
		sql += ` AND mv.transaction_date >= ?`
		args = append(args, dateFrom)
	}
	if dateTo != "" {
		sql += ` AND mv.transaction_date < (?::date + 1)`
		args = append(args, dateTo)
	}
	sql += ` ORDER BY mv.transaction_date DESC`

	var rows []StockMovementRecord
	err := r.db.WithContext(ctx).Raw(sql, args...).Scan(&rows).Error
	return rows, err
}
