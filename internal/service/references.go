package service

import (
	"strings"

	"backoffice-service/internal/model"
	"backoffice-service/internal/repository"
)

// refSet keeps one entry per id. An inline row wins over a bare id, and a bare
// id remembers the first field that named it.
type refSet[T any] struct {
	rows  []T
	ids   []string
	bare  map[string]string
	index map[string]int
}

func (s *refSet[T]) add(id, path string, row T, inline bool) {
	if s.index == nil {
		s.index = make(map[string]int)
		s.bare = make(map[string]string)
	}
	if i, ok := s.index[id]; ok {
		if inline {
			s.rows[i] = row
			delete(s.bare, id)
		}
		return
	}
	s.index[id] = len(s.rows)
	s.rows = append(s.rows, row)
	s.ids = append(s.ids, id)
	if !inline {
		s.bare[id] = path
	}
}

func (s *refSet[T]) group() repository.RefGroup[T] {
	var g repository.RefGroup[T]
	for i, row := range s.rows {
		id := s.ids[i]
		if path, ok := s.bare[id]; ok {
			g.Existing = append(g.Existing, repository.RefID{ID: id, Path: path})
			continue
		}
		g.Inline = append(g.Inline, row)
	}
	return g
}

// refCollector gathers the reference entities named by a nested payload and
// the field errors found while doing so.
type refCollector struct {
	customers   refSet[model.Customer]
	addresses   refSet[model.Address]
	products    refSet[model.Product]
	salesReps   refSet[model.SalesRepresentative]
	orderGroups refSet[model.OrderGroup]
	truckTypes  refSet[model.TruckType]
	trucks      refSet[model.Truck]
	segments    refSet[model.BusinessSegment]
	points      refSet[model.PointOfInterest]
	drivers     []repository.RefID
	driverSeen  map[int64]struct{}

	errs []FieldError
}

func (c *refCollector) fail(path, message string) {
	c.errs = append(c.errs, FieldError{Path: path, Message: message})
}

func (c *refCollector) err() error {
	if len(c.errs) == 0 {
		return nil
	}
	return &ValidationError{Fields: c.errs}
}

func (c *refCollector) references() repository.References {
	return repository.References{
		Customers:            c.customers.group(),
		Addresses:            c.addresses.group(),
		Products:             c.products.group(),
		SalesRepresentatives: c.salesReps.group(),
		OrderGroups:          c.orderGroups.group(),
		TruckTypes:           c.truckTypes.group(),
		Trucks:               c.trucks.group(),
		BusinessSegments:     c.segments.group(),
		PointsOfInterest:     c.points.group(),
		Drivers:              repository.RefGroup[model.Driver]{Existing: c.drivers},
	}
}

// driver records a driver id that must already exist. Drivers are only
// created by the seed.
func (c *refCollector) driver(path string, id int64) int64 {
	if c.driverSeen == nil {
		c.driverSeen = make(map[int64]struct{})
	}
	if _, ok := c.driverSeen[id]; !ok {
		c.driverSeen[id] = struct{}{}
		c.drivers = append(c.drivers, repository.RefID{ID: id, Path: path})
	}
	return id
}

func (c *refCollector) optionalDriver(path string, id *int64) *int64 {
	if id == nil {
		return nil
	}
	c.driver(path, *id)
	return id
}

func addRef[T any](c *refCollector, set *refSet[T], path, id string, inline *T, idOf func(T) string) string {
	id = strings.TrimSpace(id)
	if inline != nil {
		inlineID := strings.TrimSpace(idOf(*inline))
		if id != "" && id != inlineID {
			c.fail(path, "must match the id of the inline object")
			return id
		}
		set.add(inlineID, path, *inline, true)
		return inlineID
	}
	if id == "" {
		return ""
	}
	var bare T
	set.add(id, path, bare, false)
	return id
}

func optionalRef(id string) *string {
	if id == "" {
		return nil
	}
	return &id
}

func (c *refCollector) customer(path, id string, inline *model.Customer) string {
	return addRef(c, &c.customers, path, id, inline,
		func(v model.Customer) string { return v.ID })
}

func (c *refCollector) address(path, id string, inline *model.Address) string {
	return addRef(c, &c.addresses, path, id, inline,
		func(v model.Address) string { return v.ID })
}

func (c *refCollector) product(path, id string, inline *model.Product) string {
	return addRef(c, &c.products, path, id, inline,
		func(v model.Product) string { return v.ID })
}

func (c *refCollector) salesRep(path, id string, inline *model.SalesRepresentative) string {
	return addRef(c, &c.salesReps, path, id, inline,
		func(v model.SalesRepresentative) string { return v.ID })
}

func (c *refCollector) orderGroup(path, id string, inline *model.OrderGroup) string {
	return addRef(c, &c.orderGroups, path, id, inline,
		func(v model.OrderGroup) string { return v.ID })
}

func (c *refCollector) truckType(path, id string, inline *model.TruckType) string {
	return addRef(c, &c.truckTypes, path, id, inline,
		func(v model.TruckType) string { return v.ID })
}

func (c *refCollector) truck(path, id string, inline *model.Truck) string {
	if inline != nil && inline.TruckTypeID != nil {
		c.truckType(path+".truckTypeId", *inline.TruckTypeID, nil)
	}
	return addRef(c, &c.trucks, path, id, inline,
		func(v model.Truck) string { return v.ID })
}

func (c *refCollector) segment(path, id string, inline *model.BusinessSegment) string {
	return addRef(c, &c.segments, path, id, inline,
		func(v model.BusinessSegment) string { return v.ID })
}

func (c *refCollector) point(path, id string, inline *model.PointOfInterest) string {
	return addRef(c, &c.points, path, id, inline,
		func(v model.PointOfInterest) string { return v.ID })
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
