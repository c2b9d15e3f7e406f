package model

import "time"

// Driver is seeded from CSV and referenced by dispatch routes.
type Driver struct {
	ID   int64  `gorm:"primaryKey;autoIncrement:false" json:"id"`
	Name string `gorm:"type:varchar(255);not null" json:"name"`
}

func (Driver) TableName() string {
	return "drivers"
}

// DispatchRoute is the numeric-id route served under /api/routes.
type DispatchRoute struct {
	ID        int64           `gorm:"primaryKey;autoIncrement:false" json:"id" binding:"gt=0"`
	DriverID  int64           `gorm:"not null;index" json:"driverId"`
	Date      Date            `gorm:"not null" json:"date"`
	Notes     *string         `gorm:"type:text" json:"notes"`
	CreatedAt time.Time       `gorm:"autoCreateTime" json:"createdAt"`
	UpdatedAt time.Time       `gorm:"autoUpdateTime" json:"updatedAt"`
	Driver    *Driver         `gorm:"foreignKey:DriverID" json:"driver,omitempty"`
	Orders    []DispatchOrder `gorm:"foreignKey:RouteID;constraint:OnDelete:CASCADE" json:"orders"`
}

func (DispatchRoute) TableName() string {
	return "dispatch_routes"
}

type DispatchOrder struct {
	ID       int64   `gorm:"primaryKey;autoIncrement:false" json:"id"`
	RouteID  int64   `gorm:"not null;index" json:"routeId"`
	Sequence int     `gorm:"not null" json:"sequence"`
	Value    float64 `gorm:"not null" json:"value"`
	Priority bool    `gorm:"not null" json:"priority"`
}

func (DispatchOrder) TableName() string {
	return "dispatch_orders"
}

// AllModels lists every persisted type in dependency order for migrations.
func AllModels() []any {
	return []any{
		&User{},
		&Customer{}, &Address{}, &Product{}, &SalesRepresentative{}, &OrderGroup{},
		&TruckType{}, &Truck{}, &BusinessSegment{}, &PointOfInterest{},
		&Plan{}, &Visit{}, &Order{}, &LineItem{}, &PaymentMethod{}, &VisitReassignment{},
		&RouteGroup{}, &Route{}, &RouteStop{},
		&Driver{}, &DispatchRoute{}, &DispatchOrder{},
	}
}
