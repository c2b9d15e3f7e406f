package repository

import (
	"context"

	"gorm.io/gorm"

	"backoffice-service/internal/model"
)

type RouteRepository struct {
	db *gorm.DB
}

func NewRouteRepository(db *gorm.DB) *RouteRepository {
	return &RouteRepository{db: db}
}

func orderedStops(db *gorm.DB) *gorm.DB {
	return db.Order("route_stops.sequence ASC")
}

func preloadRoute(query *gorm.DB, prefix string) *gorm.DB {
	return query.
		Preload(prefix+"Truck").
		Preload(prefix+"TruckType").
		Preload(prefix+"Driver").
		Preload(prefix+"Stops", orderedStops).
		Preload(prefix + "Stops.Address")
}

func preloadGroup(query *gorm.DB) *gorm.DB {
	query = query.Preload("Routes", func(db *gorm.DB) *gorm.DB {
		return db.Order("routes.id ASC")
	})
	return preloadRoute(query, "Routes.")
}

func (r *RouteRepository) ListGroups(ctx context.Context) ([]model.RouteGroup, error) {
	var groups []model.RouteGroup
	if err := preloadGroup(r.db.WithContext(ctx)).
		Order("route_groups.id ASC").
		Find(&groups).Error; err != nil {
		return nil, err
	}
	return groups, nil
}

func (r *RouteRepository) GetGroup(ctx context.Context, id string) (*model.RouteGroup, error) {
	var group model.RouteGroup
	if err := preloadGroup(r.db.WithContext(ctx)).
		Where("route_groups.id = ?", id).
		First(&group).Error; err != nil {
		return nil, err
	}
	return &group, nil
}

func (r *RouteRepository) GroupExists(ctx context.Context, id string) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&model.RouteGroup{}).
		Where("id = ?", id).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *RouteRepository) CreateGroup(ctx context.Context, group *model.RouteGroup, refs References) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := saveReferences(tx, refs); err != nil {
			return err
		}
		if err := insertIfAbsent(tx, group); err != nil {
			return err
		}
		return createRoutes(tx, group.ID, group.Routes)
	})
}

func (r *RouteRepository) UpdateGroup(ctx context.Context, group *model.RouteGroup, refs References, replaceRoutes bool) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := saveReferences(tx, refs); err != nil {
			return err
		}
		if err := updateRow(tx, group); err != nil {
			return err
		}
		if !replaceRoutes {
			return nil
		}
		if err := deleteGroupRoutes(tx, group.ID); err != nil {
			return err
		}
		return createRoutes(tx, group.ID, group.Routes)
	})
}

func (r *RouteRepository) DeleteGroup(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := deleteGroupRoutes(tx, id); err != nil {
			return err
		}
		return deleteRow(tx, &model.RouteGroup{}, "id = ?", id)
	})
}

func (r *RouteRepository) ListRoutes(ctx context.Context, groupID string) ([]model.Route, error) {
	var routes []model.Route
	if err := preloadRoute(r.db.WithContext(ctx), "").
		Where("routes.route_group_id = ?", groupID).
		Order("routes.id ASC").
		Find(&routes).Error; err != nil {
		return nil, err
	}
	return routes, nil
}

func (r *RouteRepository) GetRoute(ctx context.Context, groupID, routeID string) (*model.Route, error) {
	var route model.Route
	if err := preloadRoute(r.db.WithContext(ctx), "").
		Where("routes.route_group_id = ? AND routes.id = ?", groupID, routeID).
		First(&route).Error; err != nil {
		return nil, err
	}
	return &route, nil
}

func (r *RouteRepository) CreateRoute(ctx context.Context, route *model.Route, refs References) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := saveReferences(tx, refs); err != nil {
			return err
		}
		if err := insertIfAbsent(tx, route); err != nil {
			return err
		}
		return createStops(tx, route)
	})
}

func (r *RouteRepository) UpdateRoute(ctx context.Context, route *model.Route, refs References, replaceStops bool) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := saveReferences(tx, refs); err != nil {
			return err
		}
		if err := updateRow(tx, route); err != nil {
			return err
		}
		if !replaceStops {
			return nil
		}
		if err := tx.Where("route_id = ?", route.ID).Delete(&model.RouteStop{}).Error; err != nil {
			return err
		}
		return createStops(tx, route)
	})
}

func (r *RouteRepository) DeleteRoute(ctx context.Context, groupID, routeID string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&model.Route{}).
			Where("id = ? AND route_group_id = ?", routeID, groupID).
			Count(&count).Error; err != nil {
			return err
		}
		if count == 0 {
			return gorm.ErrRecordNotFound
		}
		if err := tx.Where("route_id = ?", routeID).Delete(&model.RouteStop{}).Error; err != nil {
			return err
		}
		return deleteRow(tx, &model.Route{}, "id = ? AND route_group_id = ?", routeID, groupID)
	})
}

func createRoutes(tx *gorm.DB, groupID string, routes []model.Route) error {
	var stops []model.RouteStop
	for i := range routes {
		routes[i].RouteGroupID = groupID
		for j := range routes[i].Stops {
			routes[i].Stops[j].RouteID = routes[i].ID
		}
		stops = append(stops, routes[i].Stops...)
	}
	if err := createAll(tx, routes); err != nil {
		return err
	}
	return createAll(tx, stops)
}

func createStops(tx *gorm.DB, route *model.Route) error {
	for i := range route.Stops {
		route.Stops[i].RouteID = route.ID
	}
	return createAll(tx, route.Stops)
}

func deleteGroupRoutes(tx *gorm.DB, groupID string) error {
	routeIDs := tx.Model(&model.Route{}).Select("id").Where("route_group_id = ?", groupID)
	if err := tx.Where("route_id IN (?)", routeIDs).Delete(&model.RouteStop{}).Error; err != nil {
		return err
	}
	return tx.Where("route_group_id = ?", groupID).Delete(&model.Route{}).Error
}
