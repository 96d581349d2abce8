package dto_test

import (
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"pos/shared/constant"
	"pos/shared/dto"
	"pos/shared/model"
	"pos/shared/timezone"
)

func TestMetadata_FromModel(t *testing.T) {
	created := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name         string
		source       model.Metadata
		wantModified string
	}{
		{
			name:         "modified record",
			source:       model.Metadata{CreatedAt: created, ModifiedAt: created.Add(time.Hour), CreatedBy: "s-1", ModifiedBy: "s-2"},
			wantModified: timezone.Format(created.Add(time.Hour), constant.DateFormat),
		},
		{
			name:   "never modified",
			source: model.Metadata{CreatedAt: created, CreatedBy: "s-1"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got dto.Metadata
			got.FromModel(tt.source)

			assert.Equal(t, timezone.Format(created, constant.DateFormat), got.CreatedAt)
			assert.Equal(t, tt.wantModified, got.ModifiedAt)
			assert.Equal(t, tt.source.CreatedBy, got.CreatedBy)
			assert.Equal(t, tt.source.ModifiedBy, got.ModifiedBy)
		})
	}
}

func TestQueryParams_FromRequest(t *testing.T) {
	tests := []struct {
		name  string
		query string
		paged bool
		want  dto.QueryParams
	}{
		{
			name:  "all params",
			query: "page=2&limit=20&sort_by=table_no&sort_dir=asc",
			want:  dto.QueryParams{Page: 2, Limit: 20, SortBy: "table_no", SortDir: dto.SortDirAsc},
		},
		{
			name:  "paged defaults",
			paged: true,
			want:  dto.QueryParams{Page: constant.DefaultValuePage, Limit: constant.DefaultValueLimit},
		},
		{
			name: "unpaged stays empty",
		},
		{
			name:  "bad numbers fall back",
			query: "page=-1&limit=abc",
			paged: true,
			want:  dto.QueryParams{Page: constant.DefaultValuePage, Limit: constant.DefaultValueLimit},
		},
		{
			name:  "unknown direction ignored",
			query: "sort_by=status&sort_dir=sideways",
			want:  dto.QueryParams{SortBy: "status"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest("GET", "/v1/orders?"+tt.query, nil)

			var got dto.QueryParams
			got.FromRequest(req, tt.paged)

			assert.Equal(t, tt.want, got)
		})
	}
}

func TestQueryParams_AllowSort(t *testing.T) {
	allowed := dto.QueryParams{SortBy: "created_at", SortDir: dto.SortDirAsc}
	allowed.AllowSort("created_at", "status")
	assert.Equal(t, "ORDER BY created_at ASC", allowed.OrderBy())

	injected := dto.QueryParams{SortBy: "id; DROP TABLE kots", SortDir: dto.SortDirAsc}
	injected.AllowSort("created_at", "status")
	assert.Empty(t, injected.SortBy)
	assert.Empty(t, injected.OrderBy())
}

func TestQueryParams_Offset(t *testing.T) {
	assert.Equal(t, 20, dto.QueryParams{Page: 3, Limit: 10}.Offset())
	assert.Equal(t, 0, dto.QueryParams{Limit: 10}.Offset())
}

func TestFilterGroup_GetWhereClause(t *testing.T) {
	tests := []struct {
		name      string
		group     dto.FilterGroup
		wantWhere string
		wantArgs  map[string]any
	}{
		{
			name:     "empty",
			group:    dto.FilterGroup{},
			wantArgs: map[string]any{},
		},
		{
			name: "comparisons joined with and",
			group: dto.FilterGroup{Filters: []any{
				dto.Filter{Field: "status", Operator: dto.FilterOperatorNotEq, Value: "served", Table: "orders"},
				dto.Filter{Field: "amount", Operator: dto.FilterOperatorGreaterEq, Value: 100},
			}},
			wantWhere: "(orders.status != :status AND amount >= :amount)",
			wantArgs:  map[string]any{"status": "served", "amount": 100},
		},
		{
			name: "nested or group",
			group: dto.FilterGroup{Filters: []any{
				dto.Filter{Field: "table_no", Operator: dto.FilterOperatorEq, Value: "T1"},
				dto.FilterGroup{Operator: dto.FilterGroupOperatorOr, Filters: []any{
					dto.Filter{Field: "closed_at", Operator: dto.FilterIsNull},
					dto.Filter{Field: "guest_name", Operator: dto.FilterOperatorLike, Value: "ann"},
				}},
			}},
			wantWhere: "(table_no = :table_no AND (closed_at IS NULL OR LOWER(guest_name) LIKE LOWER(:guest_name)))",
			wantArgs:  map[string]any{"table_no": "T1", "guest_name": "%ann%"},
		},
		{
			name: "in expands slice",
			group: dto.FilterGroup{Filters: []any{
				dto.Filter{Field: "id", Operator: dto.FilterOperatorIn, Value: []string{"a", "b"}},
			}},
			wantWhere: "(id IN (:id_0, :id_1))",
			wantArgs:  map[string]any{"id_0": "a", "id_1": "b"},
		},
		{
			name: "empty in matches nothing",
			group: dto.FilterGroup{Filters: []any{
				dto.Filter{Field: "id", Operator: dto.FilterOperatorIn, Value: []string{}},
			}},
			wantWhere: "(FALSE)",
			wantArgs:  map[string]any{},
		},
		{
			name: "unknown operator skipped",
			group: dto.FilterGroup{Filters: []any{
				dto.Filter{Field: "id", Operator: "between", Value: 1},
				dto.Filter{Field: "kot_number", Operator: dto.FilterOperatorEq, Value: "K-1", ArgName: "kot"},
			}},
			wantWhere: "(kot_number = :kot)",
			wantArgs:  map[string]any{"kot": "K-1"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			where, args := tt.group.GetWhereClause()

			assert.Equal(t, tt.wantWhere, where)
			assert.Equal(t, tt.wantArgs, args)
		})
	}
}

func TestFilterGroup_Add(t *testing.T) {
	group := dto.FilterGroup{}
	group.Add("status", dto.FilterOperatorEq, "kots", "")
	group.Add("status", dto.FilterOperatorEq, "kots", "ready")

	where, args := group.GetWhereClause()

	assert.Equal(t, "(kots.status = :status)", where)
	assert.Equal(t, "ready", args["status"])
}
