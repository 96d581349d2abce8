package repository

//go:generate go run go.uber.org/mock/mockgen -source=./repository.go -destination=../mocks/repository_mock.go -package=mocks

import (
	"context"
	"fmt"
	"pos/infras/otel"
	"pos/infras/postgres"
	"pos/internal/domains/wastage/model"
	gDto "pos/shared/dto"
	gRepo "pos/shared/repository"
)

const statsQuery = `SELECT department, category,
	COALESCE(SUM(quantity), 0) AS quantity,
	COALESCE(SUM(estimated_cost), 0) AS cost,
	COUNT(id) AS records
FROM wastages %s
GROUP BY department, category`

type Wastage interface {
	Insert(ctx context.Context, model model.Wastage) error
	Get(ctx context.Context, filter gDto.FilterGroup, columns ...string) (model.Wastage, error)
	GetAll(ctx context.Context, params gDto.QueryParams, filter gDto.FilterGroup, columns ...string) ([]model.Wastage, error)
	Exist(ctx context.Context, filter gDto.FilterGroup) (bool, error)
	Count(ctx context.Context, filter gDto.FilterGroup) (int, error)
	Update(ctx context.Context, req map[string]any, filter gDto.FilterGroup) error
	Delete(ctx context.Context, filter gDto.FilterGroup) error
	Stats(ctx context.Context, filter gDto.FilterGroup) ([]model.Bucket, error)
}

type repositoryImpl struct {
	gRepo.Repository[model.Wastage]
}

func New(db *postgres.Connection, otel otel.Otel) Wastage {
	return &repositoryImpl{
		Repository: gRepo.NewRepository[model.Wastage](model.EntityName, model.TableName, model.FieldID, db, otel),
	}
}

// Stats groups the matching rows by department and category.
func (r *repositoryImpl) Stats(ctx context.Context, filter gDto.FilterGroup) ([]model.Bucket, error) {
	where, args := r.BuildWhereClause(ctx, filter)

	var buckets []model.Bucket
	if err := r.Select(ctx, &buckets, fmt.Sprintf(statsQuery, where), args); err != nil {
		return nil, err //nolint:wrapcheck
	}

	return buckets, nil
}
