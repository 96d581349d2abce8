package repository

//go:generate go run go.uber.org/mock/mockgen -source=./repository.go -destination=../mocks/repository_mock.go -package=mocks

import (
	"context"
	"pos/infras/otel"
	"pos/infras/postgres"
	"pos/internal/domains/bill/model"
	gDto "pos/shared/dto"
	gRepo "pos/shared/repository"

	"github.com/jmoiron/sqlx"
)

type Bill interface {
	Insert(ctx context.Context, model model.Bill) error
	InsertTx(ctx context.Context, sqltx *sqlx.Tx, model model.Bill) error
	Get(ctx context.Context, filter gDto.FilterGroup, columns ...string) (model.Bill, error)
	GetAll(ctx context.Context, params gDto.QueryParams, filter gDto.FilterGroup, columns ...string) ([]model.Bill, error)
	Count(ctx context.Context, filter gDto.FilterGroup) (int, error)
	Exist(ctx context.Context, filter gDto.FilterGroup) (bool, error)
	Update(ctx context.Context, req map[string]any, filter gDto.FilterGroup) error
	UpdateTx(ctx context.Context, sqltx *sqlx.Tx, req map[string]any, filter gDto.FilterGroup) error
}

type repositoryImpl struct {
	gRepo.Repository[model.Bill]
}

func New(db *postgres.Connection, otel otel.Otel) Bill {
	return &repositoryImpl{
		Repository: gRepo.NewRepository[model.Bill](model.EntityName, model.TableName, model.FieldID, db, otel),
	}
}
