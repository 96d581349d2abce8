package service

import (
	"context"
	"fmt"
	"pos/config"
	"pos/infras/otel"
	billModel "pos/internal/domains/bill/model"
	billRepo "pos/internal/domains/bill/repository"
	itemModel "pos/internal/domains/item/model"
	itemRepo "pos/internal/domains/item/repository"
	kotModel "pos/internal/domains/kot/model"
	kotDto "pos/internal/domains/kot/model/dto"
	kotRepo "pos/internal/domains/kot/repository"
	nocModel "pos/internal/domains/noc/model"
	nocRepo "pos/internal/domains/noc/repository"
	"pos/internal/domains/occupancy"
	"pos/internal/domains/order/model"
	"pos/internal/domains/order/model/dto"
	"pos/internal/domains/order/repository"
	"pos/shared"
	"pos/shared/cache"
	"pos/shared/constant"
	gDto "pos/shared/dto"
	"pos/shared/event"
	"pos/shared/failure"
	"pos/shared/identifier"
	"pos/shared/metrics"
	gRepo "pos/shared/repository"
	"pos/shared/timezone"

	"github.com/jmoiron/sqlx"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"
)

const (
	cacheGetAllOrder = "order:get_all"
	cacheCountOrder  = "order:count"
)

type Order interface {
	Create(ctx context.Context, req dto.CreateOrderRequest) (dto.OrderResponse, error)
	AddItems(ctx context.Context, req dto.AddItemsRequest, id string) (dto.OrderResponse, error)
	TransferTable(ctx context.Context, req dto.TransferTableRequest, id string) (dto.OrderResponse, error)
	UpdateStatus(ctx context.Context, req dto.UpdateOrderStatusRequest, id string) (dto.OrderResponse, error)
	RecordTransaction(ctx context.Context, req dto.AddTransactionRequest, id string) (dto.OrderResponse, error)
	GetAll(ctx context.Context, req gDto.QueryParams, filter gDto.FilterGroup) (dto.GetOrdersResponse, error)
	Get(ctx context.Context, id string) (dto.OrderResponse, error)
	GetByTable(ctx context.Context, tableNo string) ([]dto.OrderResponse, error)
	GetDetails(ctx context.Context, id string) (dto.OrderDetailsResponse, error)
	GenerateInvoice(ctx context.Context, id string) (dto.InvoiceResponse, error)
}

type KitchenOrderPayload struct {
	Order dto.OrderResponse  `json:"order"`
	KOT   kotDto.KOTResponse `json:"kot"`
}

type NewKOTPayload struct {
	OrderID  string             `json:"order_id"`
	TableNo  string             `json:"table_no"`
	KOT      kotDto.KOTResponse `json:"kot"`
	NewItems []kotModel.Line    `json:"new_items"`
}

type TransferPayload struct {
	OrderID  string         `json:"order_id"`
	Transfer model.Transfer `json:"transfer"`
}

type StatusPayload struct {
	OrderID string `json:"order_id"`
	TableNo string `json:"table_no"`
	Status  string `json:"status"`
}

type serviceImpl struct {
	repo       repository.Order
	kots       kotRepo.KOT
	bills      billRepo.Bill
	items      itemRepo.Item
	nocs       nocRepo.NOC
	tx         gRepo.Transactor
	propagator occupancy.Propagator
	emitter    event.Emitter
	cfg        *config.Config
	cache      cache.RedisCache
	otel       otel.Otel
}

func New(
	repo repository.Order,
	kots kotRepo.KOT,
	bills billRepo.Bill,
	items itemRepo.Item,
	nocs nocRepo.NOC,
	tx gRepo.Transactor,
	propagator occupancy.Propagator,
	emitter event.Emitter,
	cfg *config.Config,
	cache cache.RedisCache,
	otel otel.Otel,
) Order {
	return &serviceImpl{
		repo:       repo,
		kots:       kots,
		bills:      bills,
		items:      items,
		nocs:       nocs,
		tx:         tx,
		propagator: propagator,
		emitter:    emitter,
		cfg:        cfg,
		cache:      cache,
		otel:       otel,
	}
}

// resolvedLine pairs the order line with the kitchen line built from the same catalog lookup.
type resolvedLine struct {
	order       model.Line
	kitchen     kotModel.Line
	prepareTime int
}

func (s *serviceImpl) Create(ctx context.Context, req dto.CreateOrderRequest) (res dto.OrderResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".order.Create")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()
	defer func() { metrics.RecordOperation(model.EntityName, "create", err) }()

	user := shared.Actor(ctx)

	resolved, err := s.resolveLines(ctx, req.Items, false)
	if err != nil {
		log.Error().Err(err).Msg("failed to resolve order items")

		return res, err
	}

	order := req.ToModel(user, orderLines(resolved))

	ticket, err := s.newTicket(ctx, order, resolved, user)
	if err != nil {
		return res, err
	}

	err = s.tx.WithTx(ctx, func(tx *sqlx.Tx) error {
		if err := s.repo.InsertTx(ctx, tx, order); err != nil {
			return fmt.Errorf("failed to insert order: %w", err)
		}

		if err := s.kots.InsertTx(ctx, tx, ticket); err != nil {
			return fmt.Errorf("failed to insert kot: %w", err)
		}

		return nil
	})
	if err != nil {
		log.Error().Err(err).Msg("failed to create order")

		return res, err
	}

	res.FromModel(order)

	kitchen := kotDto.KOTResponse{}
	kitchen.FromModel(ticket)

	if err := s.propagator.Occupy(ctx, order.TableNo); err != nil {
		log.Warn().Err(err).Str("table", order.TableNo).Msg("failed to mark table occupied")
	}

	s.emitter.Emit(ctx, event.New(event.AudienceWaiters, event.TypeNewOrder, res))
	s.emitter.Emit(ctx, event.New(event.AudienceKitchen, event.TypeNewRestaurantOrder, KitchenOrderPayload{Order: res, KOT: kitchen}))

	s.invalidate(ctx)

	return res, nil
}

func (s *serviceImpl) AddItems(ctx context.Context, req dto.AddItemsRequest, id string) (res dto.OrderResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".order.AddItems")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()
	defer func() { metrics.RecordOperation(model.EntityName, "add_items", err) }()

	user := shared.Actor(ctx)

	order, err := s.find(ctx, id)
	if err != nil {
		return res, err
	}

	if order.Status == model.StatusCancelled {
		return res, failure.BadRequestFromString("cannot add items to a cancelled order")
	}

	resolved, err := s.resolveLines(ctx, req.Items, true)
	if err != nil {
		log.Error().Err(err).Msg("failed to resolve order items")

		return res, err
	}

	merged := model.MergeLines(order.Items, orderLines(resolved))
	amount := model.Amount(merged)

	bill, err := s.bills.Get(ctx, shared.FilterBy(billModel.FieldOrderID, order.ID, billModel.TableName))
	if err != nil {
		log.Error().Err(err).Msg("failed to get bill of order")

		return res, fmt.Errorf("failed to get bill: %w", err)
	}

	ticket, isNew, err := s.ticketForAppend(ctx, order, resolved, user)
	if err != nil {
		return res, err
	}

	now := timezone.Now()

	err = s.tx.WithTx(ctx, func(tx *sqlx.Tx) error {
		orderFields := map[string]any{
			model.FieldItems:         merged,
			model.FieldAmount:        amount,
			constant.FieldModifiedAt: now,
			constant.FieldModifiedBy: user,
		}

		if err := s.repo.UpdateTx(ctx, tx, orderFields, shared.FilterByID(order.ID, model.FieldID, model.TableName)); err != nil {
			return fmt.Errorf("failed to update order items: %w", err)
		}

		if bill.ID != constant.Empty {
			total, remaining := billModel.Totals(amount, bill.Discount, bill.Tax, bill.AdvancePayment)

			billFields := map[string]any{
				billModel.FieldSubtotal:        amount,
				billModel.FieldTotalAmount:     total,
				billModel.FieldRemainingAmount: remaining,
				constant.FieldModifiedAt:       now,
				constant.FieldModifiedBy:       user,
			}

			if err := s.bills.UpdateTx(ctx, tx, billFields, shared.FilterByID(bill.ID, billModel.FieldID, billModel.TableName)); err != nil {
				return fmt.Errorf("failed to update bill totals: %w", err)
			}
		}

		if isNew {
			if err := s.kots.InsertTx(ctx, tx, ticket); err != nil {
				return fmt.Errorf("failed to insert kot: %w", err)
			}

			return nil
		}

		kotFields := map[string]any{
			kotModel.FieldItems:      ticket.Items,
			constant.FieldModifiedAt: now,
			constant.FieldModifiedBy: user,
		}

		if err := s.kots.UpdateTx(ctx, tx, kotFields, shared.FilterByID(ticket.ID, kotModel.FieldID, kotModel.TableName)); err != nil {
			return fmt.Errorf("failed to append kot items: %w", err)
		}

		return nil
	})
	if err != nil {
		log.Error().Err(err).Msg("failed to add items to order")

		return res, err
	}

	order.Items = merged
	order.Amount = amount
	res.FromModel(order)

	payload := NewKOTPayload{OrderID: order.ID, TableNo: order.TableNo, NewItems: kitchenLines(resolved)}
	payload.KOT.FromModel(ticket)

	s.emitter.Emit(ctx, event.New(event.AudienceWaiters, event.TypeNewKOT, payload))
	s.emitter.Emit(ctx, event.New(event.AudienceKitchen, event.TypeNewKOT, payload))

	s.invalidate(ctx)

	return res, nil
}

func (s *serviceImpl) TransferTable(ctx context.Context, req dto.TransferTableRequest, id string) (res dto.OrderResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".order.TransferTable")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()
	defer func() { metrics.RecordOperation(model.EntityName, "transfer_table", err) }()

	user := shared.Actor(ctx)

	order, err := s.find(ctx, id)
	if err != nil {
		return res, err
	}

	if order.TableNo == req.NewTableNo {
		return res, failure.BadRequestFromString("order is already on table " + req.NewTableNo)
	}

	reason := req.Reason
	if reason == constant.Empty {
		reason = model.DefaultTransferReason
	}

	oldStatus := req.OldTableStatus
	if oldStatus == constant.Empty {
		oldStatus = model.DefaultVacatedTableStatus
	}

	now := timezone.Now()
	transfer := model.Transfer{
		FromTable:     order.TableNo,
		ToTable:       req.NewTableNo,
		Reason:        reason,
		TransferredBy: user,
		TransferredAt: now,
	}
	history := append(order.TransferHistory, transfer)

	err = s.tx.WithTx(ctx, func(tx *sqlx.Tx) error {
		orderFields := map[string]any{
			model.FieldTableNo:         req.NewTableNo,
			model.FieldTransferHistory: history,
			constant.FieldModifiedAt:   now,
			constant.FieldModifiedBy:   user,
		}

		if err := s.repo.UpdateTx(ctx, tx, orderFields, shared.FilterByID(order.ID, model.FieldID, model.TableName)); err != nil {
			return fmt.Errorf("failed to move order: %w", err)
		}

		cascade := map[string]any{
			model.FieldTableNo:       req.NewTableNo,
			constant.FieldModifiedAt: now,
			constant.FieldModifiedBy: user,
		}

		if err := s.kots.UpdateTx(ctx, tx, cascade, shared.FilterBy(kotModel.FieldOrderID, order.ID, kotModel.TableName)); err != nil {
			return fmt.Errorf("failed to move kots: %w", err)
		}

		if err := s.bills.UpdateTx(ctx, tx, cascade, shared.FilterBy(billModel.FieldOrderID, order.ID, billModel.TableName)); err != nil {
			return fmt.Errorf("failed to move bills: %w", err)
		}

		return nil
	})
	if err != nil {
		log.Error().Err(err).Msg("failed to transfer table")

		return res, err
	}

	if err := s.propagator.SetStatus(ctx, order.TableNo, oldStatus); err != nil {
		log.Warn().Err(err).Str("table", order.TableNo).Msg("failed to update vacated table")
	}

	if err := s.propagator.Occupy(ctx, req.NewTableNo); err != nil {
		log.Warn().Err(err).Str("table", req.NewTableNo).Msg("failed to mark table occupied")
	}

	order.TableNo = req.NewTableNo
	order.TransferHistory = history
	res.FromModel(order)

	payload := TransferPayload{OrderID: order.ID, Transfer: transfer}
	s.emitter.Emit(ctx, event.New(event.AudienceWaiters, event.TypeTableTransferred, payload))
	s.emitter.Emit(ctx, event.New(event.AudienceKitchen, event.TypeTableTransferred, payload))

	s.invalidate(ctx)

	return res, nil
}

func (s *serviceImpl) UpdateStatus(ctx context.Context, req dto.UpdateOrderStatusRequest, id string) (res dto.OrderResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".order.UpdateStatus")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()
	defer func() { metrics.RecordOperation(model.EntityName, "update_status", err) }()

	user := shared.Actor(ctx)

	order, err := s.find(ctx, id)
	if err != nil {
		return res, err
	}

	if err = model.ValidateTransition(order.Status, req.Status); err != nil {
		return res, failure.BadRequest(err)
	}

	now := timezone.Now()

	err = s.tx.WithTx(ctx, func(tx *sqlx.Tx) error {
		fields := map[string]any{
			model.FieldStatus:          req.Status,
			model.FieldStatusUpdatedAt: now,
			constant.FieldModifiedAt:   now,
			constant.FieldModifiedBy:   user,
		}

		if err := s.repo.UpdateTx(ctx, tx, fields, shared.FilterByID(order.ID, model.FieldID, model.TableName)); err != nil {
			return fmt.Errorf("failed to update order status: %w", err)
		}

		if req.Status != model.StatusCancelled {
			return nil
		}

		kotFields := map[string]any{
			kotModel.FieldStatus:          kotModel.StatusCancelled,
			kotModel.FieldStatusUpdatedAt: now,
			constant.FieldModifiedAt:      now,
			constant.FieldModifiedBy:      user,
		}

		if err := s.kots.UpdateTx(ctx, tx, kotFields, shared.FilterBy(kotModel.FieldOrderID, order.ID, kotModel.TableName)); err != nil {
			return fmt.Errorf("failed to cancel kots: %w", err)
		}

		return nil
	})
	if err != nil {
		log.Error().Err(err).Msg("failed to update order status")

		return res, err
	}

	if model.IsSettled(req.Status) {
		if _, err := s.propagator.EvaluateRelease(ctx, order.TableNo); err != nil {
			log.Warn().Err(err).Str("table", order.TableNo).Msg("failed to evaluate table release")
		}
	}

	order.Status = req.Status
	order.StatusUpdatedAt = now
	res.FromModel(order)

	payload := StatusPayload{OrderID: order.ID, TableNo: order.TableNo, Status: order.Status}
	s.emitter.Emit(ctx, event.New(event.AudienceWaiters, event.TypeOrderStatusUpdated, payload))
	s.emitter.Emit(ctx, event.New(event.AudienceKitchen, event.TypeOrderStatusUpdated, payload))

	s.invalidate(ctx)

	return res, nil
}

func (s *serviceImpl) RecordTransaction(ctx context.Context, req dto.AddTransactionRequest, id string) (res dto.OrderResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".order.RecordTransaction")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	user := shared.Actor(ctx)

	order, err := s.find(ctx, id)
	if err != nil {
		return res, err
	}

	history := append(order.TransactionHistory, req.ToModel(user))

	fields := map[string]any{
		model.FieldTransactionHistory: history,
		constant.FieldModifiedAt:      timezone.Now(),
		constant.FieldModifiedBy:      user,
	}

	if err = s.repo.Update(ctx, fields, shared.FilterByID(order.ID, model.FieldID, model.TableName)); err != nil {
		log.Error().Err(err).Msg("failed to record transaction")

		return res, fmt.Errorf("failed to record transaction: %w", err)
	}

	order.TransactionHistory = history
	res.FromModel(order)

	s.emitter.Emit(ctx, event.New(event.AudienceWaiters, event.TypeOrderUpdated, res))
	s.invalidate(ctx)

	return res, nil
}

func (s *serviceImpl) GetAll(ctx context.Context, req gDto.QueryParams, filter gDto.FilterGroup) (res dto.GetOrdersResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".order.GetAll")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	cacheKey := shared.BuildCacheKeyWithQuery(cacheGetAllOrder, req, filter)

	err = s.cache.Get(ctx, cacheKey, &res)
	if err == nil {
		log.Info().Str("cacheKey", cacheKey).Msg("cache hit for orders")

		return res, nil
	}

	total, err := s.count(ctx, req, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to count orders")

		return res, err
	}

	orders, err := s.repo.GetAll(ctx, req, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to get orders")

		return res, err
	}

	res.FromModels(orders, total, req.Limit)

	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.cache.Save(c, cacheKey, res, s.cfg.Cache.TTL); err != nil {
			log.Error().Err(err).Msg("failed to save orders to cache")
		}
	}()

	return res, nil
}

func (s *serviceImpl) count(ctx context.Context, req gDto.QueryParams, filter gDto.FilterGroup) (total int, err error) {
	cacheKey := shared.BuildCacheKeyWithQuery(cacheCountOrder, req, filter)

	if err = s.cache.Get(ctx, cacheKey, &total); err == nil {
		return total, nil
	}

	total, err = s.repo.Count(ctx, filter)
	if err != nil {
		return total, fmt.Errorf("failed to count orders: %w", err)
	}

	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.cache.Save(c, cacheKey, total, s.cfg.Cache.TTL); err != nil {
			log.Error().Err(err).Msg("failed to save order count to cache")
		}
	}()

	return total, nil
}

func (s *serviceImpl) Get(ctx context.Context, id string) (res dto.OrderResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".order.Get")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	order, err := s.find(ctx, id)
	if err != nil {
		return res, err
	}

	res.FromModel(order)

	return res, nil
}

func (s *serviceImpl) GetByTable(ctx context.Context, tableNo string) (res []dto.OrderResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".order.GetByTable")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	params := gDto.QueryParams{SortBy: constant.FieldCreatedAt, SortDir: gDto.SortDirDesc}

	orders, err := s.repo.GetAll(ctx, params, shared.FilterBy(model.FieldTableNo, tableNo, model.TableName))
	if err != nil {
		log.Error().Err(err).Str("table", tableNo).Msg("failed to get orders of table")

		return res, fmt.Errorf("failed to get orders of table: %w", err)
	}

	res = make([]dto.OrderResponse, len(orders))
	for i, order := range orders {
		res[i].FromModel(order)
	}

	return res, nil
}

func (s *serviceImpl) GetDetails(ctx context.Context, id string) (res dto.OrderDetailsResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".order.GetDetails")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	order, err := s.find(ctx, id)
	if err != nil {
		return res, err
	}

	tickets, err := s.ticketsOf(ctx, order.ID)
	if err != nil {
		return res, err
	}

	res.FromModel(order)
	res.KOTCount = len(tickets)
	res.AllKOTItems = []dto.KOTLineResponse{}

	for _, ticket := range tickets {
		for _, line := range ticket.Items {
			res.AllKOTItems = append(res.AllKOTItems, dto.KOTLineResponse{
				ItemName:  line.ItemName,
				Price:     line.Rate,
				Quantity:  line.Quantity,
				Total:     line.Amount,
				KOTNumber: ticket.KOTNumber,
			})
		}
	}

	return res, nil
}

func (s *serviceImpl) GenerateInvoice(ctx context.Context, id string) (res dto.InvoiceResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".order.GenerateInvoice")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	order, err := s.find(ctx, id)
	if err != nil {
		return res, err
	}

	tickets, err := s.ticketsOf(ctx, order.ID)
	if err != nil {
		return res, err
	}

	lines := invoiceSource(order, tickets)

	discounts, err := s.catalogDiscounts(ctx, lines)
	if err != nil {
		return res, err
	}

	res = dto.InvoiceResponse{
		OrderID:       order.ID,
		TableNo:       order.TableNo,
		StaffName:     order.StaffName,
		CustomerName:  order.CustomerName,
		Status:        order.Status,
		Items:         make([]dto.InvoiceLine, len(lines)),
		Subtotal:      decimal.Zero,
		OrderDiscount: order.Discount,
		KOTCount:      len(tickets),
		Notes:         order.Notes,
		CouponCode:    order.CouponCode,
		IsMembership:  order.IsMembership,
		IsLoyalty:     order.IsLoyalty,
		CreatedAt:     order.CreatedAt,
	}

	for i, line := range lines {
		discount := discounts[line.ItemID]
		finalPrice, total := model.PriceLine(line.Rate, discount, line.Quantity, line.IsFree)

		res.Items[i] = dto.InvoiceLine{
			ItemName:   line.ItemName,
			Quantity:   line.Quantity,
			Price:      line.Rate,
			Discount:   discount,
			FinalPrice: finalPrice,
			Total:      total,
			IsFree:     line.IsFree,
			KOTNumber:  line.KOTNumber,
		}
		res.Subtotal = res.Subtotal.Add(total)
	}

	res.OrderDiscountAmount, res.FinalAmount = model.ApplyPercent(res.Subtotal, order.Discount)

	return res, nil
}

func (s *serviceImpl) find(ctx context.Context, id string) (model.Order, error) {
	order, err := s.repo.Get(ctx, shared.FilterByID(id, model.FieldID, model.TableName))
	if err != nil {
		log.Error().Err(err).Msg("failed to get order")

		return order, fmt.Errorf("failed to get order: %w", err)
	}

	if order.ID == constant.Empty {
		return order, failure.NotFound("order not found")
	}

	return order, nil
}

func (s *serviceImpl) ticketsOf(ctx context.Context, orderID string) ([]kotModel.KOT, error) {
	params := gDto.QueryParams{SortBy: constant.FieldCreatedAt, SortDir: gDto.SortDirAsc}

	tickets, err := s.kots.GetAll(ctx, params, shared.FilterBy(kotModel.FieldOrderID, orderID, kotModel.TableName))
	if err != nil {
		log.Error().Err(err).Msg("failed to get kots of order")

		return nil, fmt.Errorf("failed to get kots: %w", err)
	}

	return tickets, nil
}

// resolveLines looks up every requested item and NOC concurrently. In strict mode an unknown
// item is an error, otherwise it is kept as a zero priced placeholder.
func (s *serviceImpl) resolveLines(ctx context.Context, reqs []dto.OrderLineRequest, strict bool) ([]resolvedLine, error) {
	resolved := make([]resolvedLine, len(reqs))
	group, gctx := errgroup.WithContext(ctx)

	for i, req := range reqs {
		group.Go(func() error {
			item, err := s.items.Get(gctx, shared.FilterByID(req.ItemID, itemModel.FieldID, itemModel.TableName))
			if err != nil {
				return fmt.Errorf("failed to get item %s: %w", req.ItemID, err)
			}

			name, price := item.Name, item.Price

			if item.ID == constant.Empty {
				if strict {
					return failure.NotFound("item " + req.ItemID + " not found")
				}

				name, price = model.UnknownItemName, decimal.Zero
			}

			if req.IsFree {
				price = decimal.Zero

				if err := s.checkNOC(gctx, req.NocID); err != nil {
					return err
				}
			}

			line := model.Line{
				ItemID:   req.ItemID,
				ItemName: name,
				Quantity: req.Qty(),
				Price:    price,
				IsFree:   req.IsFree,
				NocID:    req.NocID,
			}

			resolved[i] = resolvedLine{
				order: line,
				kitchen: kotModel.Line{
					ItemID:              line.ItemID,
					ItemName:            line.ItemName,
					Quantity:            line.Quantity,
					Rate:                line.Price,
					Amount:              line.Total(),
					SpecialInstructions: req.SpecialInstructions,
					IsFree:              line.IsFree,
					NocID:               line.NocID,
				},
				prepareTime: item.TimeToPrepare,
			}

			return nil
		})
	}

	if err := group.Wait(); err != nil {
		return nil, err //nolint:wrapcheck
	}

	return resolved, nil
}

func (s *serviceImpl) checkNOC(ctx context.Context, nocID string) error {
	if nocID == constant.Empty {
		return nil
	}

	noc, err := s.nocs.Get(ctx, shared.FilterByID(nocID, nocModel.FieldID, nocModel.TableName))
	if err != nil {
		return fmt.Errorf("failed to get noc %s: %w", nocID, err)
	}

	if noc.ID == constant.Empty {
		return failure.NotFound("noc " + nocID + " not found")
	}

	return nil
}

func (s *serviceImpl) newTicket(ctx context.Context, order model.Order, resolved []resolvedLine, user string) (kotModel.KOT, error) {
	number, err := identifier.Next(ctx, identifier.KOT, kotModel.TableName, s.kots)
	if err != nil {
		log.Error().Err(err).Msg("failed to generate kot number")

		return kotModel.KOT{}, err //nolint:wrapcheck
	}

	estimated := 0
	for _, line := range resolved {
		estimated = max(estimated, line.prepareTime)
	}

	return kotDto.NewKOT(order.ID, number, order.TableNo, kitchenLines(resolved), kotModel.PriorityNormal, estimated, user), nil
}

// ticketForAppend returns the first ticket of the order with the new lines appended, or a fresh
// ticket when the order has none.
func (s *serviceImpl) ticketForAppend(ctx context.Context, order model.Order, resolved []resolvedLine, user string) (kotModel.KOT, bool, error) {
	params := gDto.QueryParams{Limit: 1, SortBy: constant.FieldCreatedAt, SortDir: gDto.SortDirAsc}

	tickets, err := s.kots.GetAll(ctx, params, shared.FilterBy(kotModel.FieldOrderID, order.ID, kotModel.TableName))
	if err != nil {
		log.Error().Err(err).Msg("failed to get first kot of order")

		return kotModel.KOT{}, false, fmt.Errorf("failed to get kots: %w", err)
	}

	if len(tickets) == 0 {
		ticket, err := s.newTicket(ctx, order, resolved, user)

		return ticket, true, err
	}

	ticket := tickets[0]
	ticket.Items = append(ticket.Items, kitchenLines(resolved)...)

	return ticket, false, nil
}

func (s *serviceImpl) catalogDiscounts(ctx context.Context, lines []model.InvoiceSourceLine) (map[string]decimal.Decimal, error) {
	discounts := map[string]decimal.Decimal{}

	ids := make([]string, 0, len(lines))
	for _, line := range lines {
		if _, ok := discounts[line.ItemID]; ok {
			continue
		}

		discounts[line.ItemID] = decimal.Zero
		ids = append(ids, line.ItemID)
	}

	if len(ids) == 0 {
		return discounts, nil
	}

	filter := gDto.FilterGroup{
		Filters: []any{
			gDto.Filter{
				Field:    itemModel.FieldID,
				Operator: gDto.FilterOperatorIn,
				Value:    ids,
				Table:    itemModel.TableName,
			},
		},
	}

	items, err := s.items.GetAll(ctx, gDto.QueryParams{}, filter, itemModel.FieldID, itemModel.FieldDiscount)
	if err != nil {
		log.Error().Err(err).Msg("failed to get item discounts")

		return nil, fmt.Errorf("failed to get item discounts: %w", err)
	}

	for _, item := range items {
		discounts[item.ID] = item.Discount
	}

	return discounts, nil
}

func (s *serviceImpl) invalidate(ctx context.Context) {
	go func() {
		shared.InvalidateCaches(context.WithoutCancel(ctx), s.cache, model.CachePrefix)
	}()
}

func orderLines(resolved []resolvedLine) []model.Line {
	lines := make([]model.Line, len(resolved))
	for i, line := range resolved {
		lines[i] = line.order
	}

	return lines
}

func kitchenLines(resolved []resolvedLine) []kotModel.Line {
	lines := make([]kotModel.Line, len(resolved))
	for i, line := range resolved {
		lines[i] = line.kitchen
	}

	return lines
}

// invoiceSource prefers the kitchen tickets, which carry the rate charged at the time of
// ordering, and falls back to the order lines when no ticket exists.
func invoiceSource(order model.Order, tickets []kotModel.KOT) []model.InvoiceSourceLine {
	lines := []model.InvoiceSourceLine{}

	for _, ticket := range tickets {
		for _, line := range ticket.Items {
			lines = append(lines, model.InvoiceSourceLine{
				ItemID:    line.ItemID,
				ItemName:  line.ItemName,
				Quantity:  line.Quantity,
				Rate:      line.Rate,
				IsFree:    line.IsFree,
				KOTNumber: ticket.KOTNumber,
			})
		}
	}

	if len(tickets) > 0 {
		return lines
	}

	for _, line := range order.Items {
		lines = append(lines, model.InvoiceSourceLine{
			ItemID:   line.ItemID,
			ItemName: line.ItemName,
			Quantity: line.Quantity,
			Rate:     line.Price,
			IsFree:   line.IsFree,
		})
	}

	return lines
}
