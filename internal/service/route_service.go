package service

import (
	"context"
	"fmt"
	"strings"

	"backoffice-service/internal/model"
	"backoffice-service/internal/repository"
)

type RouteStore interface {
	ListGroups(ctx context.Context) ([]model.RouteGroup, error)
	GetGroup(ctx context.Context, id string) (*model.RouteGroup, error)
	GroupExists(ctx context.Context, id string) (bool, error)
	CreateGroup(ctx context.Context, group *model.RouteGroup, refs repository.References) error
	UpdateGroup(ctx context.Context, group *model.RouteGroup, refs repository.References, replaceRoutes bool) error
	DeleteGroup(ctx context.Context, id string) error
	ListRoutes(ctx context.Context, groupID string) ([]model.Route, error)
	GetRoute(ctx context.Context, groupID, routeID string) (*model.Route, error)
	CreateRoute(ctx context.Context, route *model.Route, refs repository.References) error
	UpdateRoute(ctx context.Context, route *model.Route, refs repository.References, replaceStops bool) error
	DeleteRoute(ctx context.Context, groupID, routeID string) error
}

type RouteUpstream interface {
	RouteGroup(ctx context.Context, id string) (*model.RouteGroup, error)
	Route(ctx context.Context, groupID, routeID string) (*model.Route, error)
}

type RouteService struct {
	routes   RouteStore
	upstream RouteUpstream
}

func NewRouteService(routes RouteStore, upstream RouteUpstream) *RouteService {
	return &RouteService{routes: routes, upstream: upstream}
}

func (s *RouteService) ListGroups(ctx context.Context) ([]model.RouteGroup, error) {
	groups, err := s.routes.ListGroups(ctx)
	if err != nil {
		return nil, translateStoreError(err, "list route groups")
	}
	return groups, nil
}

func (s *RouteService) GetGroup(ctx context.Context, id string) (*model.RouteGroup, Source, error) {
	return Resolve(ctx, "route_group",
		func(ctx context.Context) (*model.RouteGroup, error) { return s.routes.GetGroup(ctx, id) },
		func(ctx context.Context) (*model.RouteGroup, error) { return s.upstream.RouteGroup(ctx, id) },
		isNilPtr[model.RouteGroup],
	)
}

// GroupExists checks local storage only.
func (s *RouteService) GroupExists(ctx context.Context, id string) error {
	ok, err := s.routes.GroupExists(ctx, id)
	if err != nil {
		return translateStoreError(err, "check route group")
	}
	if !ok {
		return ErrNotFound
	}
	return nil
}

func (s *RouteService) CreateGroup(ctx context.Context, req model.CreateRouteGroupRequest) (*model.RouteGroup, error) {
	c := &refCollector{}
	group := &model.RouteGroup{
		ID:          strings.TrimSpace(req.ID),
		Name:        strings.TrimSpace(req.Name),
		Description: req.Description,
		Routes:      buildRoutes(c, req.Routes),
	}
	if err := c.err(); err != nil {
		return nil, err
	}
	if err := s.routes.CreateGroup(ctx, group, c.references()); err != nil {
		return nil, translateStoreError(err, "create route group")
	}
	return s.reloadGroup(ctx, group.ID)
}

func (s *RouteService) UpdateGroup(ctx context.Context, id string, req model.UpdateRouteGroupRequest) (*model.RouteGroup, error) {
	group, err := s.routes.GetGroup(ctx, id)
	if err != nil {
		return nil, translateStoreError(err, "get route group")
	}

	c := &refCollector{}
	if req.Name != nil {
		group.Name = strings.TrimSpace(*req.Name)
	}
	if req.Description != nil {
		group.Description = *req.Description
	}
	replace := req.Routes != nil
	if replace {
		group.Routes = buildRoutes(c, *req.Routes)
	}
	if err := c.err(); err != nil {
		return nil, err
	}

	if err := s.routes.UpdateGroup(ctx, group, c.references(), replace); err != nil {
		return nil, translateStoreError(err, "update route group")
	}
	return s.reloadGroup(ctx, id)
}

func (s *RouteService) DeleteGroup(ctx context.Context, id string) error {
	return translateStoreError(s.routes.DeleteGroup(ctx, id), "delete route group")
}

// ListRoutes returns the routes of a locally stored group.
func (s *RouteService) ListRoutes(ctx context.Context, groupID string) ([]model.Route, error) {
	if err := s.GroupExists(ctx, groupID); err != nil {
		return nil, err
	}
	routes, err := s.routes.ListRoutes(ctx, groupID)
	if err != nil {
		return nil, translateStoreError(err, "list routes")
	}
	return routes, nil
}

func (s *RouteService) GetRoute(ctx context.Context, groupID, routeID string) (*model.Route, Source, error) {
	return Resolve(ctx, "route",
		func(ctx context.Context) (*model.Route, error) { return s.routes.GetRoute(ctx, groupID, routeID) },
		func(ctx context.Context) (*model.Route, error) { return s.upstream.Route(ctx, groupID, routeID) },
		isNilPtr[model.Route],
	)
}

func (s *RouteService) RouteExists(ctx context.Context, groupID, routeID string) error {
	_, err := s.routes.GetRoute(ctx, groupID, routeID)
	return translateStoreError(err, "get route")
}

// CreateRoute adds a route to an existing local group.
func (s *RouteService) CreateRoute(ctx context.Context, groupID string, req model.RouteRequest) (*model.Route, error) {
	if err := s.GroupExists(ctx, groupID); err != nil {
		return nil, err
	}

	c := &refCollector{}
	route := buildRoute(c, "", req)
	route.RouteGroupID = groupID
	if err := c.err(); err != nil {
		return nil, err
	}
	if err := s.routes.CreateRoute(ctx, &route, c.references()); err != nil {
		return nil, translateStoreError(err, "create route")
	}
	return s.reloadRoute(ctx, groupID, route.ID)
}

func (s *RouteService) UpdateRoute(ctx context.Context, groupID, routeID string, req model.UpdateRouteRequest) (*model.Route, error) {
	route, err := s.routes.GetRoute(ctx, groupID, routeID)
	if err != nil {
		return nil, translateStoreError(err, "get route")
	}

	c := &refCollector{}
	if req.Name != nil {
		route.Name = strings.TrimSpace(*req.Name)
	}
	if req.TruckID != nil || req.Truck != nil {
		route.TruckID = optionalRef(c.truck("truckId", deref(req.TruckID), req.Truck))
	}
	if req.TruckTypeID != nil || req.TruckType != nil {
		route.TruckTypeID = optionalRef(c.truckType("truckTypeId", deref(req.TruckTypeID), req.TruckType))
	}
	if req.DriverID != nil {
		route.DriverID = c.optionalDriver("driverId", req.DriverID)
	}
	replace := req.Stops != nil
	if replace {
		route.Stops = buildStops(c, "stops", *req.Stops)
	}
	if err := c.err(); err != nil {
		return nil, err
	}

	route.Truck, route.TruckType, route.Driver = nil, nil, nil
	if err := s.routes.UpdateRoute(ctx, route, c.references(), replace); err != nil {
		return nil, translateStoreError(err, "update route")
	}
	return s.reloadRoute(ctx, groupID, routeID)
}

func (s *RouteService) DeleteRoute(ctx context.Context, groupID, routeID string) error {
	return translateStoreError(s.routes.DeleteRoute(ctx, groupID, routeID), "delete route")
}

func (s *RouteService) reloadGroup(ctx context.Context, id string) (*model.RouteGroup, error) {
	group, err := s.routes.GetGroup(ctx, id)
	if err != nil {
		return nil, translateStoreError(err, "reload route group")
	}
	return group, nil
}

func (s *RouteService) reloadRoute(ctx context.Context, groupID, routeID string) (*model.Route, error) {
	route, err := s.routes.GetRoute(ctx, groupID, routeID)
	if err != nil {
		return nil, translateStoreError(err, "reload route")
	}
	return route, nil
}

func buildRoutes(c *refCollector, reqs []model.RouteRequest) []model.Route {
	routes := make([]model.Route, 0, len(reqs))
	seen := make(map[string]struct{}, len(reqs))
	for i, req := range reqs {
		prefix := fmt.Sprintf("routes[%d].", i)
		id := strings.TrimSpace(req.ID)
		if _, dup := seen[id]; dup {
			c.fail(prefix+"id", "duplicate route id")
			continue
		}
		seen[id] = struct{}{}
		routes = append(routes, buildRoute(c, prefix, req))
	}
	return routes
}

func buildRoute(c *refCollector, prefix string, req model.RouteRequest) model.Route {
	return model.Route{
		ID:          strings.TrimSpace(req.ID),
		Name:        strings.TrimSpace(req.Name),
		TruckID:     optionalRef(c.truck(prefix+"truckId", req.TruckID, req.Truck)),
		TruckTypeID: optionalRef(c.truckType(prefix+"truckTypeId", req.TruckTypeID, req.TruckType)),
		DriverID:    c.optionalDriver(prefix+"driverId", req.DriverID),
		Stops:       buildStops(c, prefix+"stops", req.Stops),
	}
}

func buildStops(c *refCollector, path string, reqs []model.RouteStopRequest) []model.RouteStop {
	stops := make([]model.RouteStop, 0, len(reqs))
	seen := make(map[string]struct{}, len(reqs))
	for i, req := range reqs {
		stopPath := fmt.Sprintf("%s[%d]", path, i)
		id := strings.TrimSpace(req.ID)
		if _, dup := seen[id]; dup {
			c.fail(stopPath+".id", "duplicate stop id")
			continue
		}
		seen[id] = struct{}{}
		stops = append(stops, model.RouteStop{
			ID:        id,
			Sequence:  req.Sequence,
			AddressID: c.address(stopPath+".addressId", req.AddressID, req.Address),
		})
	}
	return stops
}
