package repository

//go:generate go run go.uber.org/mock/mockgen -source=./repository.go -destination=../mocks/repository_mock.go -package=mocks

import (
	"context"
	"pos/infras/otel"
	"pos/infras/postgres"
	"pos/internal/domains/invoice/model"
	gDto "pos/shared/dto"
	gRepo "pos/shared/repository"
)

type Invoice interface {
	Get(ctx context.Context, filter gDto.FilterGroup, columns ...string) (model.Invoice, error)
	Save(ctx context.Context, invoice model.Invoice) error
}

type repositoryImpl struct {
	gRepo.Repository[model.Invoice]
}

func New(db *postgres.Connection, otel otel.Otel) Invoice {
	return &repositoryImpl{
		Repository: gRepo.NewRepository[model.Invoice](model.EntityName, model.TableName, model.FieldID, db, otel),
	}
}

// Save keeps one invoice per order.
func (r *repositoryImpl) Save(ctx context.Context, invoice model.Invoice) error {
	return r.Upsert(ctx, invoice, model.FieldOrderID, model.ClientColumns...) //nolint:wrapcheck
}
