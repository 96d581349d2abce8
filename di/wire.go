//go:build wireinject
// +build wireinject

package di

import (
	"pos/config"
	"pos/infras/jwt"
	"pos/infras/otel"
	"pos/infras/postgres"
	"pos/infras/redis"
	"pos/infras/s3"
	"pos/internal/domains/activity/tracker"
	"pos/internal/domains/occupancy"
	"pos/permissions"
	"pos/shared/cache"
	"pos/shared/event"
	gRepository "pos/shared/repository"
	"pos/transport/http"
	"pos/transport/http/middleware"
	"pos/transport/http/router"

	activityRepository "pos/internal/domains/activity/repository"
	activityService "pos/internal/domains/activity/service"
	authService "pos/internal/domains/auth/service"
	billRepository "pos/internal/domains/bill/repository"
	billService "pos/internal/domains/bill/service"
	invoiceRepository "pos/internal/domains/invoice/repository"
	invoiceService "pos/internal/domains/invoice/service"
	itemRepository "pos/internal/domains/item/repository"
	itemService "pos/internal/domains/item/service"
	kotRepository "pos/internal/domains/kot/repository"
	kotService "pos/internal/domains/kot/service"
	nocRepository "pos/internal/domains/noc/repository"
	nocService "pos/internal/domains/noc/service"
	notificationRepository "pos/internal/domains/notification/repository"
	notificationService "pos/internal/domains/notification/service"
	orderRepository "pos/internal/domains/order/repository"
	orderService "pos/internal/domains/order/service"
	reservationRepository "pos/internal/domains/reservation/repository"
	reservationService "pos/internal/domains/reservation/service"
	staffRepository "pos/internal/domains/staff/repository"
	staffService "pos/internal/domains/staff/service"
	tableRepository "pos/internal/domains/table/repository"
	tableService "pos/internal/domains/table/service"
	wastageRepository "pos/internal/domains/wastage/repository"
	wastageService "pos/internal/domains/wastage/service"

	activityHandler "pos/internal/handlers/activity"
	authHandler "pos/internal/handlers/auth"
	billHandler "pos/internal/handlers/bill"
	invoiceHandler "pos/internal/handlers/invoice"
	itemHandler "pos/internal/handlers/item"
	kotHandler "pos/internal/handlers/kot"
	nocHandler "pos/internal/handlers/noc"
	notificationHandler "pos/internal/handlers/notification"
	orderHandler "pos/internal/handlers/order"
	reservationHandler "pos/internal/handlers/reservation"
	staffHandler "pos/internal/handlers/staff"
	tableHandler "pos/internal/handlers/table"
	wastageHandler "pos/internal/handlers/wastage"

	"github.com/google/wire"
)

var configurations = wire.NewSet(
	config.Get,
	permissions.Get,
)

var infrastructures = wire.NewSet(
	postgres.New,
	otel.New,
	redis.New,
	jwt.New,
	s3.New,
)

var middlewares = wire.NewSet(
	middleware.NewAppMiddleware,
	middleware.NewAuthRoleMiddleware,
)

var sharedHelpers = wire.NewSet(
	cache.NewRedisCache,
	event.NewFromConfig,
	gRepository.NewTransactor,
)

var repositories = wire.NewSet(
	staffRepository.New,
	orderRepository.New,
	kotRepository.New,
	billRepository.New,
	tableRepository.New,
	reservationRepository.New,
	itemRepository.New,
	nocRepository.New,
	notificationRepository.New,
	invoiceRepository.New,
	wastageRepository.New,
	activityRepository.New,
)

var occupancyDomain = wire.NewSet(
	occupancy.NewReleasePolicy,
	occupancy.New,
)

var activityDomain = wire.NewSet(
	activityService.New,
	tracker.New,
	wire.Bind(new(tracker.Recorder), new(activityService.Activity)),
)

var domains = wire.NewSet(
	repositories,
	occupancyDomain,
	activityDomain,
	authService.New,
	staffService.New,
	orderService.New,
	kotService.New,
	billService.New,
	tableService.New,
	reservationService.New,
	itemService.New,
	nocService.New,
	notificationService.New,
	invoiceService.New,
	wastageService.New,
)

var routing = wire.NewSet(
	wire.Struct(new(router.DomainHandlers), "*"),
	authHandler.New,
	staffHandler.New,
	orderHandler.New,
	kotHandler.New,
	billHandler.New,
	tableHandler.New,
	reservationHandler.New,
	itemHandler.New,
	nocHandler.New,
	notificationHandler.New,
	invoiceHandler.New,
	wastageHandler.New,
	activityHandler.New,
	router.New,
)

func InitializeService() *http.HTTP {
	wire.Build(
		configurations,
		infrastructures,
		middlewares,
		sharedHelpers,
		domains,
		routing,
		http.New,
	)

	return &http.HTTP{}
}
