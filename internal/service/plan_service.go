package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"

	"backoffice-service/internal/model"
	"backoffice-service/internal/repository"
	"backoffice-service/internal/validation"
)

// listAllPlanID is the path segment of GET /plans/all, so no plan may use it.
const listAllPlanID = "all"

type PlanStore interface {
	List(ctx context.Context) ([]model.Plan, error)
	GetByID(ctx context.Context, id string) (*model.Plan, error)
	FindByDateAndUser(ctx context.Context, day time.Time, userID string) ([]model.Plan, error)
	Create(ctx context.Context, plan *model.Plan, refs repository.References) error
	Update(ctx context.Context, plan *model.Plan, refs repository.References, replaceChildren bool) error
	Delete(ctx context.Context, id string) error
}

type PlanUpstream interface {
	Plan(ctx context.Context, id string) (*model.Plan, error)
	PlansByDateAndUser(ctx context.Context, date, userID string) ([]model.Plan, error)
}

type PlanService struct {
	plans    PlanStore
	upstream PlanUpstream
}

func NewPlanService(plans PlanStore, upstream PlanUpstream) *PlanService {
	return &PlanService{plans: plans, upstream: upstream}
}

// ListAll returns every locally stored plan.
func (s *PlanService) ListAll(ctx context.Context) ([]model.Plan, error) {
	plans, err := s.plans.List(ctx)
	if err != nil {
		return nil, translateStoreError(err, "list plans")
	}
	return plans, nil
}

func (s *PlanService) Get(ctx context.Context, id string) (*model.Plan, Source, error) {
	return Resolve(ctx, "plan",
		func(ctx context.Context) (*model.Plan, error) { return s.plans.GetByID(ctx, id) },
		func(ctx context.Context) (*model.Plan, error) { return s.upstream.Plan(ctx, id) },
		isNilPtr[model.Plan],
	)
}

// ByDateAndUser returns the plans of one user for one calendar day.
func (s *PlanService) ByDateAndUser(ctx context.Context, date, userID string) ([]model.Plan, Source, error) {
	var fields []FieldError
	day, err := validation.ParseDate(date)
	if strings.TrimSpace(date) == "" {
		fields = append(fields, FieldError{Path: "date", Message: "is required"})
	} else if err != nil {
		fields = append(fields, FieldError{Path: "date", Message: "must be a date (YYYY-MM-DD)"})
	}
	userID = strings.TrimSpace(userID)
	if userID == "" {
		fields = append(fields, FieldError{Path: "assignedUserId", Message: "is required"})
	}
	if len(fields) > 0 {
		return nil, "", &ValidationError{Fields: fields}
	}

	return Resolve(ctx, "plans_by_date",
		func(ctx context.Context) ([]model.Plan, error) { return s.plans.FindByDateAndUser(ctx, day, userID) },
		func(ctx context.Context) ([]model.Plan, error) {
			return s.upstream.PlansByDateAndUser(ctx, day.Format(time.DateOnly), userID)
		},
		isEmptySlice[model.Plan],
	)
}

// Exists reports a local miss as ErrNotFound. Updates call it before binding
// the body so an absent plan wins over an invalid payload.
func (s *PlanService) Exists(ctx context.Context, id string) error {
	_, err := s.plans.GetByID(ctx, id)
	return translateStoreError(err, "get plan")
}

func (s *PlanService) Create(ctx context.Context, req model.CreatePlanRequest) (*model.Plan, error) {
	c := &refCollector{}
	if strings.EqualFold(strings.TrimSpace(req.ID), listAllPlanID) {
		c.fail("id", "is reserved")
	}
	day, err := validation.ParseDate(req.Date)
	if err != nil {
		c.fail("date", "must be a date (YYYY-MM-DD)")
	}

	segmentID := c.segment("businessSegmentId", deref(req.BusinessSegmentID), req.BusinessSegment)
	plan := &model.Plan{
		ID:                strings.TrimSpace(req.ID),
		OperationType:     strings.TrimSpace(req.OperationType),
		Date:              model.NewDate(day),
		ActiveDates:       normalizeDates(c, "activeDates", req.ActiveDates),
		AssignedUserID:    strings.TrimSpace(req.AssignedUserID),
		RouteID:           optionalRef(strings.TrimSpace(deref(req.RouteID))),
		RouteGroupID:      optionalRef(strings.TrimSpace(deref(req.RouteGroupID))),
		TruckID:           optionalRef(c.truck("truckId", deref(req.TruckID), req.Truck)),
		BusinessSegmentID: optionalRef(segmentID),
		StartPointID:      optionalRef(c.point("startPointId", deref(req.StartPointID), req.StartPoint)),
		EndPointID:        optionalRef(c.point("endPointId", deref(req.EndPointID), req.EndPoint)),
		PlannedStartAt:    req.PlannedStartAt,
		PlannedEndAt:      req.PlannedEndAt,
		ActualStartAt:     req.ActualStartAt,
		ActualEndAt:       req.ActualEndAt,
	}
	if req.PlannedDistanceKm != nil {
		plan.PlannedDistanceKm = *req.PlannedDistanceKm
	}
	if req.ActualDistanceKm != nil {
		plan.ActualDistanceKm = *req.ActualDistanceKm
	}
	if req.PlannedDurationMn != nil {
		plan.PlannedDurationMn = *req.PlannedDurationMn
	}
	if req.ActualDurationMn != nil {
		plan.ActualDurationMn = *req.ActualDurationMn
	}
	plan.Visits, plan.Orders = buildPlanChildren(c, req.Visits, req.Orders)

	if err := c.err(); err != nil {
		return nil, err
	}
	if err := s.plans.Create(ctx, plan, c.references()); err != nil {
		return nil, translateStoreError(err, "create plan")
	}
	return s.reload(ctx, plan.ID)
}

func (s *PlanService) Update(ctx context.Context, id string, req model.UpdatePlanRequest) (*model.Plan, error) {
	plan, err := s.plans.GetByID(ctx, id)
	if err != nil {
		return nil, translateStoreError(err, "get plan")
	}

	c := &refCollector{}
	if req.OperationType != nil {
		plan.OperationType = strings.TrimSpace(*req.OperationType)
	}
	if req.Date != nil {
		day, err := validation.ParseDate(*req.Date)
		if err != nil {
			c.fail("date", "must be a date (YYYY-MM-DD)")
		}
		plan.Date = model.NewDate(day)
	}
	if req.ActiveDates != nil {
		plan.ActiveDates = normalizeDates(c, "activeDates", *req.ActiveDates)
	}
	if req.AssignedUserID != nil {
		plan.AssignedUserID = strings.TrimSpace(*req.AssignedUserID)
	}
	if req.RouteID != nil {
		plan.RouteID = optionalRef(strings.TrimSpace(*req.RouteID))
	}
	if req.RouteGroupID != nil {
		plan.RouteGroupID = optionalRef(strings.TrimSpace(*req.RouteGroupID))
	}
	if req.TruckID != nil || req.Truck != nil {
		plan.TruckID = optionalRef(c.truck("truckId", deref(req.TruckID), req.Truck))
	}
	if req.BusinessSegmentID != nil || req.BusinessSegment != nil {
		plan.BusinessSegmentID = optionalRef(c.segment("businessSegmentId", deref(req.BusinessSegmentID), req.BusinessSegment))
	}
	if req.StartPointID != nil || req.StartPoint != nil {
		plan.StartPointID = optionalRef(c.point("startPointId", deref(req.StartPointID), req.StartPoint))
	}
	if req.EndPointID != nil || req.EndPoint != nil {
		plan.EndPointID = optionalRef(c.point("endPointId", deref(req.EndPointID), req.EndPoint))
	}
	if req.PlannedStartAt != nil {
		plan.PlannedStartAt = req.PlannedStartAt
	}
	if req.PlannedEndAt != nil {
		plan.PlannedEndAt = req.PlannedEndAt
	}
	if req.ActualStartAt != nil {
		plan.ActualStartAt = req.ActualStartAt
	}
	if req.ActualEndAt != nil {
		plan.ActualEndAt = req.ActualEndAt
	}
	if req.PlannedDistanceKm != nil {
		plan.PlannedDistanceKm = *req.PlannedDistanceKm
	}
	if req.ActualDistanceKm != nil {
		plan.ActualDistanceKm = *req.ActualDistanceKm
	}
	if req.PlannedDurationMn != nil {
		plan.PlannedDurationMn = *req.PlannedDurationMn
	}
	if req.ActualDurationMn != nil {
		plan.ActualDurationMn = *req.ActualDurationMn
	}

	replace := req.Visits != nil || req.Orders != nil
	if replace {
		var visits []model.VisitRequest
		var orders []model.OrderRequest
		if req.Visits != nil {
			visits = *req.Visits
		}
		if req.Orders != nil {
			orders = *req.Orders
		}
		plan.Visits, plan.Orders = buildPlanChildren(c, visits, orders)
	}

	if err := c.err(); err != nil {
		return nil, err
	}
	// Drop stale associations loaded above; the ids are authoritative.
	plan.Truck, plan.BusinessSegment, plan.StartPoint, plan.EndPoint = nil, nil, nil, nil
	if err := s.plans.Update(ctx, plan, c.references(), replace); err != nil {
		return nil, translateStoreError(err, "update plan")
	}
	return s.reload(ctx, id)
}

func (s *PlanService) Delete(ctx context.Context, id string) error {
	return translateStoreError(s.plans.Delete(ctx, id), "delete plan")
}

func (s *PlanService) reload(ctx context.Context, id string) (*model.Plan, error) {
	plan, err := s.plans.GetByID(ctx, id)
	if err != nil {
		return nil, translateStoreError(err, "reload plan")
	}
	return plan, nil
}

func normalizeDates(c *refCollector, path string, dates []string) datatypes.JSONSlice[string] {
	out := make(datatypes.JSONSlice[string], 0, len(dates))
	for i, d := range dates {
		day, err := validation.ParseDate(d)
		if err != nil {
			c.fail(fmt.Sprintf("%s[%d]", path, i), "must be a date (YYYY-MM-DD)")
			continue
		}
		out = append(out, day.Format(time.DateOnly))
	}
	return out
}

// buildPlanChildren converts nested payloads into rows. Visits link orders by
// id, so every referenced order must be part of the same payload and can be
// attached to one visit only.
func buildPlanChildren(c *refCollector, visitReqs []model.VisitRequest, orderReqs []model.OrderRequest) ([]model.Visit, []model.Order) {
	orders := make([]model.Order, 0, len(orderReqs))
	orderIndex := make(map[string]int, len(orderReqs))
	lineItemIDs := make(map[string]struct{})

	for i, req := range orderReqs {
		path := fmt.Sprintf("orders[%d]", i)
		id := strings.TrimSpace(req.ID)
		if _, dup := orderIndex[id]; dup {
			c.fail(path+".id", "duplicate order id")
			continue
		}

		order := model.Order{
			ID:                    id,
			CustomerID:            c.customer(path+".customerId", req.CustomerID, req.Customer),
			AddressID:             c.address(path+".addressId", req.AddressID, req.Address),
			SalesRepresentativeID: optionalRef(c.salesRep(path+".salesRepresentativeId", req.SalesRepresentativeID, req.SalesRepresentative)),
			OrderGroupID:          optionalRef(c.orderGroup(path+".orderGroupId", req.OrderGroupID, req.OrderGroup)),
			Status:                req.Status,
		}
		if order.Status == "" {
			order.Status = model.OrderStatusPending
		}

		for j, li := range req.LineItems {
			liPath := fmt.Sprintf("%s.lineItems[%d]", path, j)
			liID := strings.TrimSpace(li.ID)
			if _, dup := lineItemIDs[liID]; dup {
				c.fail(liPath+".id", "duplicate line item id")
				continue
			}
			lineItemIDs[liID] = struct{}{}

			item := model.LineItem{
				ID:             liID,
				ProductID:      c.product(liPath+".productId", li.ProductID, li.Product),
				Quantity:       li.Quantity,
				UnitPrice:      li.UnitPrice,
				TaxRate:        li.TaxRate,
				ActualQuantity: li.ActualQuantity,
				ActualValue:    li.ActualValue,
				Status:         li.Status,
			}
			if li.Value != nil {
				item.Value = *li.Value
			} else {
				item.Value = item.ComputeValue()
			}
			if item.Status == "" {
				item.Status = model.LineItemStatusPending
			}
			order.LineItems = append(order.LineItems, item)
		}

		orderIndex[id] = len(orders)
		orders = append(orders, order)
	}

	visits := make([]model.Visit, 0, len(visitReqs))
	visitIDs := make(map[string]struct{}, len(visitReqs))
	assigned := make(map[string]string)

	link := func(path, visitID, orderID string, pickup bool) {
		orderID = strings.TrimSpace(orderID)
		idx, ok := orderIndex[orderID]
		if !ok {
			c.fail(path, "references an order that is not part of this plan")
			return
		}
		if prev, taken := assigned[orderID]; taken {
			c.fail(path, fmt.Sprintf("order %s is already attached to %s", orderID, prev))
			return
		}
		if pickup {
			assigned[orderID] = "a pickup visit"
			orders[idx].PickupVisitID = &visitID
		} else {
			assigned[orderID] = "a delivery visit"
			orders[idx].DeliveryVisitID = &visitID
		}
	}

	for i, req := range visitReqs {
		path := fmt.Sprintf("visits[%d]", i)
		id := strings.TrimSpace(req.ID)
		if _, dup := visitIDs[id]; dup {
			c.fail(path+".id", "duplicate visit id")
			continue
		}
		visitIDs[id] = struct{}{}

		visit := model.Visit{
			ID:             id,
			Sequence:       req.Sequence,
			CustomerID:     c.customer(path+".customerId", req.CustomerID, req.Customer),
			AddressID:      c.address(path+".addressId", req.AddressID, req.Address),
			Status:         req.Status,
			PlannedArrival: req.PlannedArrival,
		}
		if visit.Status == "" {
			visit.Status = model.VisitStatusPending
		}

		for j, orderID := range req.DeliveryOrderIDs {
			link(fmt.Sprintf("%s.deliveryOrderIds[%d]", path, j), id, orderID, false)
		}
		for j, orderID := range req.PickupOrderIDs {
			link(fmt.Sprintf("%s.pickupOrderIds[%d]", path, j), id, orderID, true)
		}

		for _, pm := range req.PaymentMethods {
			visit.PaymentMethods = append(visit.PaymentMethods, model.PaymentMethod{
				ID:     idOrNew(pm.ID),
				Method: strings.TrimSpace(pm.Method),
				Amount: pm.Amount,
			})
		}
		for _, ra := range req.Reassignments {
			visit.Reassignments = append(visit.Reassignments, model.VisitReassignment{
				ID:         idOrNew(ra.ID),
				FromUserID: strings.TrimSpace(ra.FromUserID),
				ToUserID:   strings.TrimSpace(ra.ToUserID),
				Reason:     ra.Reason,
			})
		}
		visits = append(visits, visit)
	}

	return visits, orders
}

func idOrNew(id string) string {
	if id = strings.TrimSpace(id); id != "" {
		return id
	}
	return uuid.NewString()
}
