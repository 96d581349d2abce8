package service

import (
	"context"
	"fmt"

	"pos/infras/otel"
	"pos/internal/domains/invoice/model"
	"pos/internal/domains/invoice/model/dto"
	"pos/internal/domains/invoice/repository"
	orderModel "pos/internal/domains/order/model"
	orderRepo "pos/internal/domains/order/repository"
	"pos/shared"
	"pos/shared/constant"
	"pos/shared/failure"

	"github.com/rs/zerolog/log"
)

type Invoice interface {
	Save(ctx context.Context, req dto.SaveInvoiceRequest) (dto.InvoiceResponse, error)
	GetByOrder(ctx context.Context, orderID string) (dto.InvoiceResponse, error)
}

type serviceImpl struct {
	repo   repository.Invoice
	orders orderRepo.Order
	otel   otel.Otel
}

func New(repo repository.Invoice, orders orderRepo.Order, otel otel.Otel) Invoice {
	return &serviceImpl{
		repo:   repo,
		orders: orders,
		otel:   otel,
	}
}

// Save creates the order's invoice or replaces its client details.
func (s *serviceImpl) Save(ctx context.Context, req dto.SaveInvoiceRequest) (res dto.InvoiceResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".invoice.Save")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	exist, err := s.orders.Exist(ctx, shared.FilterByID(req.OrderID, orderModel.FieldID, orderModel.TableName))
	if err != nil {
		log.Error().Err(err).Msg("failed to check order")

		return res, fmt.Errorf("failed to check order: %w", err)
	}

	if !exist {
		return res, failure.NotFound("order not found")
	}

	if err = s.repo.Save(ctx, req.ToModel(shared.Actor(ctx))); err != nil {
		log.Error().Err(err).Msg("failed to save invoice")

		return res, fmt.Errorf("failed to save invoice: %w", err)
	}

	return s.GetByOrder(ctx, req.OrderID)
}

func (s *serviceImpl) GetByOrder(ctx context.Context, orderID string) (res dto.InvoiceResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".invoice.GetByOrder")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	invoice, err := s.repo.Get(ctx, shared.FilterBy(model.FieldOrderID, orderID, model.TableName))
	if err != nil {
		log.Error().Err(err).Msg("failed to get invoice")

		return res, fmt.Errorf("failed to get invoice: %w", err)
	}

	if invoice.ID == constant.Empty {
		return res, failure.NotFound("invoice not found")
	}

	res.FromModel(invoice)

	return res, nil
}
