package repository

//go:generate go run go.uber.org/mock/mockgen -source=./repository.go -destination=../mocks/repository_mock.go -package=mocks

import (
	"context"
	"pos/infras/otel"
	"pos/infras/postgres"
	"pos/internal/domains/kot/model"
	gDto "pos/shared/dto"
	gRepo "pos/shared/repository"

	"github.com/jmoiron/sqlx"
)

type KOT interface {
	Insert(ctx context.Context, model model.KOT) error
	InsertTx(ctx context.Context, sqltx *sqlx.Tx, model model.KOT) error
	Get(ctx context.Context, filter gDto.FilterGroup, columns ...string) (model.KOT, error)
	GetAll(ctx context.Context, params gDto.QueryParams, filter gDto.FilterGroup, columns ...string) ([]model.KOT, error)
	Count(ctx context.Context, filter gDto.FilterGroup) (int, error)
	Update(ctx context.Context, req map[string]any, filter gDto.FilterGroup) error
	UpdateTx(ctx context.Context, sqltx *sqlx.Tx, req map[string]any, filter gDto.FilterGroup) error
}

type repositoryImpl struct {
	gRepo.Repository[model.KOT]
}

func New(db *postgres.Connection, otel otel.Otel) KOT {
	return &repositoryImpl{
		Repository: gRepo.NewRepository[model.KOT](model.EntityName, model.TableName, model.FieldID, db, otel),
	}
}
