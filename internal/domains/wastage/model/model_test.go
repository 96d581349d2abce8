package model_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"pos/internal/domains/wastage/model"
)

func TestSummarize(t *testing.T) {
	stats := model.Summarize([]model.Bucket{
		{Department: "Kitchen", Category: "Food", Quantity: decimal.NewFromInt(3), Cost: decimal.NewFromInt(450), Records: 2},
		{Department: "Kitchen", Category: "Raw Material", Quantity: decimal.NewFromInt(5), Cost: decimal.NewFromInt(200), Records: 1},
		{Department: "Pantry", Category: "Food", Quantity: decimal.NewFromInt(1), Cost: decimal.NewFromInt(80), Records: 1},
	})

	assert.True(t, decimal.NewFromInt(9).Equal(stats.TotalWastage))
	assert.True(t, decimal.NewFromInt(730).Equal(stats.TotalCost))
	assert.Equal(t, 4, stats.TotalRecords)

	assert.Len(t, stats.ByDepartment, 2)
	assert.Equal(t, "Kitchen", stats.ByDepartment[0].Name)
	assert.True(t, decimal.NewFromInt(650).Equal(stats.ByDepartment[0].Cost))
	assert.Equal(t, 3, stats.ByDepartment[0].Records)

	assert.Len(t, stats.ByCategory, 2)
	assert.Equal(t, "Food", stats.ByCategory[0].Name)
	assert.True(t, decimal.NewFromInt(4).Equal(stats.ByCategory[0].Quantity))
}

func TestSummarize_Empty(t *testing.T) {
	stats := model.Summarize(nil)

	assert.True(t, stats.TotalCost.IsZero())
	assert.Equal(t, 0, stats.TotalRecords)
	assert.Empty(t, stats.ByDepartment)
	assert.NotNil(t, stats.ByCategory)
}
