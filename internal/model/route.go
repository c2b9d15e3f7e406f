package model

import "time"

type RouteGroup struct {
	ID          string    `gorm:"type:varchar(64);primaryKey" json:"id" binding:"nonblank"`
	Name        string    `gorm:"type:varchar(255);not null" json:"name"`
	Description string    `gorm:"type:text" json:"description"`
	CreatedAt   time.Time `gorm:"autoCreateTime" json:"createdAt"`
	UpdatedAt   time.Time `gorm:"autoUpdateTime" json:"updatedAt"`

	Routes []Route `gorm:"foreignKey:RouteGroupID;constraint:OnDelete:CASCADE" json:"routes"`
}

func (RouteGroup) TableName() string {
	return "route_groups"
}

type Route struct {
	ID           string    `gorm:"type:varchar(64);primaryKey" json:"id" binding:"nonblank"`
	RouteGroupID string    `gorm:"type:varchar(64);not null;index" json:"routeGroupId"`
	Name         string    `gorm:"type:varchar(255);not null" json:"name"`
	TruckID      *string   `gorm:"type:varchar(64)" json:"truckId"`
	TruckTypeID  *string   `gorm:"type:varchar(64)" json:"truckTypeId"`
	DriverID     *int64    `json:"driverId"`
	CreatedAt    time.Time `gorm:"autoCreateTime" json:"createdAt"`
	UpdatedAt    time.Time `gorm:"autoUpdateTime" json:"updatedAt"`

	Truck     *Truck      `gorm:"foreignKey:TruckID" json:"truck,omitempty"`
	TruckType *TruckType  `gorm:"foreignKey:TruckTypeID" json:"truckType,omitempty"`
	Driver    *Driver     `gorm:"foreignKey:DriverID;constraint:OnDelete:SET NULL" json:"driver,omitempty"`
	Stops     []RouteStop `gorm:"foreignKey:RouteID;constraint:OnDelete:CASCADE" json:"stops"`
}

func (Route) TableName() string {
	return "routes"
}

type RouteStop struct {
	ID        string `gorm:"type:varchar(64);primaryKey" json:"id"`
	RouteID   string `gorm:"type:varchar(64);not null;index" json:"routeId"`
	Sequence  int    `gorm:"not null" json:"sequence"`
	AddressID string `gorm:"type:varchar(64);not null" json:"addressId"`

	Address *Address `gorm:"foreignKey:AddressID" json:"address,omitempty"`
}

func (RouteStop) TableName() string {
	return "route_stops"
}
