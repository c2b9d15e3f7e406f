package repository

import (
	"context"
	"time"

	"gorm.io/gorm"

	"backoffice-service/internal/model"
)

type PlanRepository struct {
	db *gorm.DB
}

func NewPlanRepository(db *gorm.DB) *PlanRepository {
	return &PlanRepository{db: db}
}

func preloadPlan(query *gorm.DB) *gorm.DB {
	return query.
		Preload("Truck").
		Preload("BusinessSegment").
		Preload("StartPoint").
		Preload("EndPoint").
		Preload("Visits", func(db *gorm.DB) *gorm.DB {
			return db.Order("visits.sequence ASC")
		}).
		Preload("Visits.Customer").
		Preload("Visits.Address").
		Preload("Visits.DeliveryOrders").
		Preload("Visits.PickupOrders").
		Preload("Visits.PaymentMethods").
		Preload("Visits.Reassignments").
		Preload("Orders").
		Preload("Orders.Customer").
		Preload("Orders.Address").
		Preload("Orders.SalesRepresentative").
		Preload("Orders.OrderGroup").
		Preload("Orders.LineItems").
		Preload("Orders.LineItems.Product")
}

func (r *PlanRepository) List(ctx context.Context) ([]model.Plan, error) {
	var plans []model.Plan
	if err := preloadPlan(r.db.WithContext(ctx)).
		Order("plans.date DESC, plans.id ASC").
		Find(&plans).Error; err != nil {
		return nil, err
	}
	return plans, nil
}

func (r *PlanRepository) GetByID(ctx context.Context, id string) (*model.Plan, error) {
	var plan model.Plan
	if err := preloadPlan(r.db.WithContext(ctx)).
		Where("plans.id = ?", id).
		First(&plan).Error; err != nil {
		return nil, err
	}
	return &plan, nil
}

// FindByDateAndUser returns the plans of one calendar day (UTC) assigned to userID.
func (r *PlanRepository) FindByDateAndUser(ctx context.Context, day time.Time, userID string) ([]model.Plan, error) {
	start := time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, time.UTC)
	end := start.AddDate(0, 0, 1)

	var plans []model.Plan
	if err := preloadPlan(r.db.WithContext(ctx)).
		Where("plans.date >= ? AND plans.date < ?", start, end).
		Where("plans.assigned_user_id = ?", userID).
		Order("plans.id ASC").
		Find(&plans).Error; err != nil {
		return nil, err
	}
	return plans, nil
}

// Create inserts the plan with all nested rows, failing with ErrAlreadyExists
// when the id is taken.
func (r *PlanRepository) Create(ctx context.Context, plan *model.Plan, refs References) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := saveReferences(tx, refs); err != nil {
			return err
		}
		if err := insertIfAbsent(tx, plan); err != nil {
			return err
		}
		return createPlanChildren(tx, plan)
	})
}

// Update overwrites the plan row. When replaceChildren is set the existing
// visits and orders are dropped and recreated from plan.
func (r *PlanRepository) Update(ctx context.Context, plan *model.Plan, refs References, replaceChildren bool) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := saveReferences(tx, refs); err != nil {
			return err
		}
		if err := updateRow(tx, plan); err != nil {
			return err
		}
		if !replaceChildren {
			return nil
		}
		if err := deletePlanChildren(tx, plan.ID); err != nil {
			return err
		}
		return createPlanChildren(tx, plan)
	})
}

func (r *PlanRepository) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := deletePlanChildren(tx, id); err != nil {
			return err
		}
		return deleteRow(tx, &model.Plan{}, "id = ?", id)
	})
}

func createPlanChildren(tx *gorm.DB, plan *model.Plan) error {
	var (
		lineItems      []model.LineItem
		paymentMethods []model.PaymentMethod
		reassignments  []model.VisitReassignment
	)
	for i := range plan.Visits {
		visit := &plan.Visits[i]
		visit.PlanID = plan.ID
		for j := range visit.PaymentMethods {
			visit.PaymentMethods[j].VisitID = visit.ID
		}
		for j := range visit.Reassignments {
			visit.Reassignments[j].VisitID = visit.ID
		}
		paymentMethods = append(paymentMethods, visit.PaymentMethods...)
		reassignments = append(reassignments, visit.Reassignments...)
	}
	for i := range plan.Orders {
		order := &plan.Orders[i]
		order.PlanID = plan.ID
		for j := range order.LineItems {
			order.LineItems[j].OrderID = order.ID
		}
		lineItems = append(lineItems, order.LineItems...)
	}

	if err := createAll(tx, plan.Visits); err != nil {
		return err
	}
	if err := createAll(tx, plan.Orders); err != nil {
		return err
	}
	if err := createAll(tx, lineItems); err != nil {
		return err
	}
	if err := createAll(tx, paymentMethods); err != nil {
		return err
	}
	return createAll(tx, reassignments)
}

func deletePlanChildren(tx *gorm.DB, planID string) error {
	orderIDs := tx.Model(&model.Order{}).Select("id").Where("plan_id = ?", planID)
	visitIDs := tx.Model(&model.Visit{}).Select("id").Where("plan_id = ?", planID)

	if err := tx.Where("order_id IN (?)", orderIDs).Delete(&model.LineItem{}).Error; err != nil {
		return err
	}
	if err := tx.Where("visit_id IN (?)", visitIDs).Delete(&model.PaymentMethod{}).Error; err != nil {
		return err
	}
	if err := tx.Where("visit_id IN (?)", visitIDs).Delete(&model.VisitReassignment{}).Error; err != nil {
		return err
	}
	if err := tx.Where("plan_id = ?", planID).Delete(&model.Order{}).Error; err != nil {
		return err
	}
	return tx.Where("plan_id = ?", planID).Delete(&model.Visit{}).Error
}
