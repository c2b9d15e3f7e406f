package service

import (
	"context"
	"fmt"

	"backoffice-service/internal/model"
	"backoffice-service/internal/repository"
	"backoffice-service/internal/validation"
)

type DispatchStore interface {
	ListRoutes(ctx context.Context) ([]model.DispatchRoute, error)
	GetRoute(ctx context.Context, id int64) (*model.DispatchRoute, error)
	CreateRoute(ctx context.Context, route *model.DispatchRoute, refs repository.References) error
	UpdateRoute(ctx context.Context, route *model.DispatchRoute, refs repository.References, replaceOrders bool) error
	DeleteRoute(ctx context.Context, id int64) error
}

type DispatchUpstream interface {
	DispatchRoute(ctx context.Context, id int64) (*model.DispatchRoute, error)
}

// DispatchService serves the numeric-id routes with embedded orders.
type DispatchService struct {
	routes   DispatchStore
	upstream DispatchUpstream
}

func NewDispatchService(routes DispatchStore, upstream DispatchUpstream) *DispatchService {
	return &DispatchService{routes: routes, upstream: upstream}
}

func (s *DispatchService) List(ctx context.Context) ([]model.DispatchRoute, error) {
	routes, err := s.routes.ListRoutes(ctx)
	if err != nil {
		return nil, translateStoreError(err, "list dispatch routes")
	}
	return routes, nil
}

func (s *DispatchService) Get(ctx context.Context, id int64) (*model.DispatchRoute, Source, error) {
	return Resolve(ctx, "dispatch_route",
		func(ctx context.Context) (*model.DispatchRoute, error) { return s.routes.GetRoute(ctx, id) },
		func(ctx context.Context) (*model.DispatchRoute, error) { return s.upstream.DispatchRoute(ctx, id) },
		isNilPtr[model.DispatchRoute],
	)
}

func (s *DispatchService) Exists(ctx context.Context, id int64) error {
	_, err := s.routes.GetRoute(ctx, id)
	return translateStoreError(err, "get dispatch route")
}

func (s *DispatchService) Create(ctx context.Context, req model.CreateDispatchRouteRequest) (*model.DispatchRoute, error) {
	date, err := validation.ParseDate(req.Date)
	if err != nil {
		return nil, invalidField("date", "must be a date (YYYY-MM-DD)")
	}
	orders, err := buildDispatchOrders(req.Orders)
	if err != nil {
		return nil, err
	}

	c := &refCollector{}
	route := &model.DispatchRoute{
		ID:       req.ID,
		DriverID: c.driver("driverId", req.DriverID),
		Date:     model.NewDate(date),
		Notes:    req.Notes,
		Orders:   orders,
	}
	if err := s.routes.CreateRoute(ctx, route, c.references()); err != nil {
		return nil, translateStoreError(err, "create dispatch route")
	}
	return s.reload(ctx, route.ID)
}

func (s *DispatchService) Update(ctx context.Context, id int64, req model.UpdateDispatchRouteRequest) (*model.DispatchRoute, error) {
	route, err := s.routes.GetRoute(ctx, id)
	if err != nil {
		return nil, translateStoreError(err, "get dispatch route")
	}

	c := &refCollector{}
	if req.DriverID != nil {
		route.DriverID = c.driver("driverId", *req.DriverID)
	}
	if req.Date != nil {
		date, err := validation.ParseDate(*req.Date)
		if err != nil {
			return nil, invalidField("date", "must be a date (YYYY-MM-DD)")
		}
		route.Date = model.NewDate(date)
	}
	if req.Notes != nil {
		route.Notes = req.Notes
	}
	replace := req.Orders != nil
	if replace {
		orders, err := buildDispatchOrders(*req.Orders)
		if err != nil {
			return nil, err
		}
		route.Orders = orders
	}

	route.Driver = nil
	if err := s.routes.UpdateRoute(ctx, route, c.references(), replace); err != nil {
		return nil, translateStoreError(err, "update dispatch route")
	}
	return s.reload(ctx, id)
}

func (s *DispatchService) Delete(ctx context.Context, id int64) error {
	return translateStoreError(s.routes.DeleteRoute(ctx, id), "delete dispatch route")
}

func (s *DispatchService) reload(ctx context.Context, id int64) (*model.DispatchRoute, error) {
	route, err := s.routes.GetRoute(ctx, id)
	if err != nil {
		return nil, translateStoreError(err, "reload dispatch route")
	}
	return route, nil
}

func buildDispatchOrders(reqs []model.DispatchOrderRequest) ([]model.DispatchOrder, error) {
	orders := make([]model.DispatchOrder, 0, len(reqs))
	seen := make(map[int64]struct{}, len(reqs))
	var fields []FieldError
	for i, req := range reqs {
		if _, dup := seen[req.ID]; dup {
			fields = append(fields, FieldError{Path: fmt.Sprintf("orders[%d].id", i), Message: "duplicate order id"})
			continue
		}
		seen[req.ID] = struct{}{}
		orders = append(orders, model.DispatchOrder{
			ID:       req.ID,
			Sequence: req.Sequence,
			Value:    req.Value,
			Priority: req.Priority,
		})
	}
	if len(fields) > 0 {
		return nil, &ValidationError{Fields: fields}
	}
	return orders, nil
}
