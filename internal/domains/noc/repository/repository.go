package repository

//go:generate go run go.uber.org/mock/mockgen -source=./repository.go -destination=../mocks/repository_mock.go -package=mocks

import (
	"context"
	"pos/infras/otel"
	"pos/infras/postgres"
	"pos/internal/domains/noc/model"
	gDto "pos/shared/dto"
	gRepo "pos/shared/repository"
)

type NOC interface {
	Insert(ctx context.Context, model model.NOC) error
	Get(ctx context.Context, filter gDto.FilterGroup, columns ...string) (model.NOC, error)
	GetAll(ctx context.Context, params gDto.QueryParams, filter gDto.FilterGroup, columns ...string) ([]model.NOC, error)
	Exist(ctx context.Context, filter gDto.FilterGroup) (bool, error)
	Count(ctx context.Context, filter gDto.FilterGroup) (int, error)
	Update(ctx context.Context, req map[string]any, filter gDto.FilterGroup) error
	Delete(ctx context.Context, filter gDto.FilterGroup) error
}

type repositoryImpl struct {
	gRepo.Repository[model.NOC]
}

func New(db *postgres.Connection, otel otel.Otel) NOC {
	return &repositoryImpl{
		Repository: gRepo.NewRepository[model.NOC](model.EntityName, model.TableName, model.FieldID, db, otel),
	}
}
