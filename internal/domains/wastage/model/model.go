package model

import (
	"sort"
	"time"

	"pos/shared/model"

	"github.com/shopspring/decimal"
)

const (
	TableName   = "wastages"
	EntityName  = "wastage"
	CachePrefix = "wastage:"

	FieldID            = "id"
	FieldItemName      = "item_name"
	FieldCategory      = "category"
	FieldDepartment    = "department"
	FieldQuantity      = "quantity"
	FieldUnit          = "unit"
	FieldReason        = "reason"
	FieldEstimatedCost = "estimated_cost"
	FieldReportedBy    = "reported_by"
	FieldDate          = "date"
)

type Wastage struct {
	ID            string          `db:"id"`
	ItemName      string          `db:"item_name"`
	Category      string          `db:"category"`
	Department    string          `db:"department"`
	Quantity      decimal.Decimal `db:"quantity"`
	Unit          string          `db:"unit"`
	Reason        string          `db:"reason"`
	EstimatedCost decimal.Decimal `db:"estimated_cost"`
	ReportedBy    string          `db:"reported_by"`
	Date          time.Time       `db:"date"`
	model.Metadata
}

// Bucket is one (department, category) aggregate row.
type Bucket struct {
	Department string          `db:"department"`
	Category   string          `db:"category"`
	Quantity   decimal.Decimal `db:"quantity"`
	Cost       decimal.Decimal `db:"cost"`
	Records    int             `db:"records"`
}

type Share struct {
	Name     string          `json:"name"`
	Quantity decimal.Decimal `json:"quantity"`
	Cost     decimal.Decimal `json:"cost"`
	Records  int             `json:"records"`
}

type Stats struct {
	TotalWastage decimal.Decimal `json:"total_wastage"`
	TotalCost    decimal.Decimal `json:"total_cost"`
	TotalRecords int             `json:"total_records"`
	ByDepartment []Share         `json:"by_department"`
	ByCategory   []Share         `json:"by_category"`
}

// Summarize folds the buckets into overall totals plus per-department and per-category shares,
// each list ordered by name.
func Summarize(buckets []Bucket) Stats {
	stats := Stats{
		TotalWastage: decimal.Zero,
		TotalCost:    decimal.Zero,
		ByDepartment: []Share{},
		ByCategory:   []Share{},
	}

	departments := map[string]*Share{}
	categories := map[string]*Share{}

	for _, b := range buckets {
		stats.TotalWastage = stats.TotalWastage.Add(b.Quantity)
		stats.TotalCost = stats.TotalCost.Add(b.Cost)
		stats.TotalRecords += b.Records

		accumulate(departments, b.Department, b)
		accumulate(categories, b.Category, b)
	}

	stats.ByDepartment = flatten(departments)
	stats.ByCategory = flatten(categories)

	return stats
}

func accumulate(shares map[string]*Share, name string, b Bucket) {
	share, ok := shares[name]
	if !ok {
		share = &Share{Name: name, Quantity: decimal.Zero, Cost: decimal.Zero}
		shares[name] = share
	}

	share.Quantity = share.Quantity.Add(b.Quantity)
	share.Cost = share.Cost.Add(b.Cost)
	share.Records += b.Records
}

func flatten(shares map[string]*Share) []Share {
	res := make([]Share, 0, len(shares))
	for _, share := range shares {
		res = append(res, *share)
	}

	sort.Slice(res, func(i, j int) bool { return res[i].Name < res[j].Name })

	return res
}
