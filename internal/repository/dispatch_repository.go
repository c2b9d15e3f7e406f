package repository

import (
	"context"

	"gorm.io/gorm"

	"backoffice-service/internal/model"
)

type DispatchRepository struct {
	db *gorm.DB
}

func NewDispatchRepository(db *gorm.DB) *DispatchRepository {
	return &DispatchRepository{db: db}
}

func (r *DispatchRepository) ListDrivers(ctx context.Context) ([]model.Driver, error) {
	var drivers []model.Driver
	if err := r.db.WithContext(ctx).
		Order("id ASC").
		Find(&drivers).Error; err != nil {
		return nil, err
	}
	return drivers, nil
}

func (r *DispatchRepository) CountDrivers(ctx context.Context) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&model.Driver{}).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

func (r *DispatchRepository) CreateDriver(ctx context.Context, driver *model.Driver) error {
	return insertIfAbsent(r.db.WithContext(ctx), driver)
}

func preloadDispatchOrders(db *gorm.DB) *gorm.DB {
	return db.Order("dispatch_orders.sequence ASC")
}

func (r *DispatchRepository) ListRoutes(ctx context.Context) ([]model.DispatchRoute, error) {
	var routes []model.DispatchRoute
	if err := r.db.WithContext(ctx).
		Preload("Driver").
		Preload("Orders", preloadDispatchOrders).
		Order("id ASC").
		Find(&routes).Error; err != nil {
		return nil, err
	}
	return routes, nil
}

func (r *DispatchRepository) GetRoute(ctx context.Context, id int64) (*model.DispatchRoute, error) {
	var route model.DispatchRoute
	if err := r.db.WithContext(ctx).
		Preload("Driver").
		Preload("Orders", preloadDispatchOrders).
		Where("id = ?", id).
		First(&route).Error; err != nil {
		return nil, err
	}
	return &route, nil
}

func (r *DispatchRepository) CreateRoute(ctx context.Context, route *model.DispatchRoute, refs References) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := saveReferences(tx, refs); err != nil {
			return err
		}
		if err := insertIfAbsent(tx, route); err != nil {
			return err
		}
		return createDispatchOrders(tx, route)
	})
}

func (r *DispatchRepository) UpdateRoute(ctx context.Context, route *model.DispatchRoute, refs References, replaceOrders bool) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := saveReferences(tx, refs); err != nil {
			return err
		}
		if err := updateRow(tx, route); err != nil {
			return err
		}
		if !replaceOrders {
			return nil
		}
		if err := tx.Where("route_id = ?", route.ID).Delete(&model.DispatchOrder{}).Error; err != nil {
			return err
		}
		return createDispatchOrders(tx, route)
	})
}

func (r *DispatchRepository) DeleteRoute(ctx context.Context, id int64) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("route_id = ?", id).Delete(&model.DispatchOrder{}).Error; err != nil {
			return err
		}
		return deleteRow(tx, &model.DispatchRoute{}, "id = ?", id)
	})
}

func createDispatchOrders(tx *gorm.DB, route *model.DispatchRoute) error {
	for i := range route.Orders {
		route.Orders[i].RouteID = route.ID
	}
	return createAll(tx, route.Orders)
}
