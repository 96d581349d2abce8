package repository

//go:generate go run go.uber.org/mock/mockgen -source=./repository.go -destination=../mocks/repository_mock.go -package=mocks

import (
	"context"
	"pos/infras/otel"
	"pos/infras/postgres"
	"pos/internal/domains/activity/model"
	gDto "pos/shared/dto"
	gRepo "pos/shared/repository"
)

const latestQuery = `SELECT DISTINCT ON (sales_person_id)
	id, sales_person_id, latitude, longitude, address, logged_at, created_at, modified_at, created_by, modified_by
FROM activity_logs
WHERE latitude IS NOT NULL AND longitude IS NOT NULL
ORDER BY sales_person_id, logged_at DESC`

type ActivityLog interface {
	Insert(ctx context.Context, model model.ActivityLog) error
	GetAll(ctx context.Context, params gDto.QueryParams, filter gDto.FilterGroup, columns ...string) ([]model.ActivityLog, error)
	Count(ctx context.Context, filter gDto.FilterGroup) (int, error)
	Delete(ctx context.Context, filter gDto.FilterGroup) error
	Latest(ctx context.Context) ([]model.ActivityLog, error)
}

type repositoryImpl struct {
	gRepo.Repository[model.ActivityLog]
}

func New(db *postgres.Connection, otel otel.Otel) ActivityLog {
	return &repositoryImpl{
		Repository: gRepo.NewRepository[model.ActivityLog](model.EntityName, model.TableName, model.FieldID, db, otel),
	}
}

// Latest returns the newest located log of every sales person.
func (r *repositoryImpl) Latest(ctx context.Context) ([]model.ActivityLog, error) {
	var logs []model.ActivityLog
	if err := r.Select(ctx, &logs, latestQuery, nil); err != nil {
		return nil, err //nolint:wrapcheck
	}

	return logs, nil
}
