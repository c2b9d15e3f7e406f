package model

import (
	"fmt"

	"github.com/twpayne/go-geom"
	"github.com/twpayne/go-geom/encoding/wkb"
	"gorm.io/gorm"
)

// Reference entities are connected by id or created inline on the first write that mentions them.

type Customer struct {
	ID    string `gorm:"type:varchar(64);primaryKey" json:"id" binding:"nonblank"`
	Name  string `gorm:"type:varchar(255)" json:"name"`
	Email string `gorm:"type:varchar(255)" json:"email,omitempty"`
	Phone string `gorm:"type:varchar(32)" json:"phone,omitempty"`
}

func (Customer) TableName() string {
	return "customers"
}

type Address struct {
	ID        string   `gorm:"type:varchar(64);primaryKey" json:"id" binding:"nonblank"`
	Street    string   `gorm:"type:text" json:"street"`
	City      string   `gorm:"type:varchar(128)" json:"city"`
	Latitude  *float64 `json:"latitude,omitempty" binding:"omitempty,latitude"`
	Longitude *float64 `json:"longitude,omitempty" binding:"omitempty,longitude"`
}

func (Address) TableName() string {
	return "addresses"
}

type Product struct {
	ID   string `gorm:"type:varchar(64);primaryKey" json:"id" binding:"nonblank"`
	Name string `gorm:"type:varchar(255)" json:"name"`
	SKU  string `gorm:"column:sku;type:varchar(64)" json:"sku,omitempty"`
}

func (Product) TableName() string {
	return "products"
}

type SalesRepresentative struct {
	ID   string `gorm:"type:varchar(64);primaryKey" json:"id" binding:"nonblank"`
	Name string `gorm:"type:varchar(255)" json:"name"`
}

func (SalesRepresentative) TableName() string {
	return "sales_representatives"
}

type OrderGroup struct {
	ID   string `gorm:"type:varchar(64);primaryKey" json:"id" binding:"nonblank"`
	Name string `gorm:"type:varchar(255)" json:"name"`
}

func (OrderGroup) TableName() string {
	return "order_groups"
}

type TruckType struct {
	ID   string `gorm:"type:varchar(64);primaryKey" json:"id" binding:"nonblank"`
	Name string `gorm:"type:varchar(255)" json:"name"`
}

func (TruckType) TableName() string {
	return "truck_types"
}

type Truck struct {
	ID          string  `gorm:"type:varchar(64);primaryKey" json:"id" binding:"nonblank"`
	PlateNumber string  `gorm:"type:varchar(32)" json:"plateNumber"`
	TruckTypeID *string `gorm:"type:varchar(64)" json:"truckTypeId,omitempty"`
}

func (Truck) TableName() string {
	return "trucks"
}

type BusinessSegment struct {
	ID   string `gorm:"type:varchar(64);primaryKey" json:"id" binding:"nonblank"`
	Name string `gorm:"type:varchar(255)" json:"name"`
}

func (BusinessSegment) TableName() string {
	return "business_segments"
}

// PointOfInterest is a named location used as a plan start or end point.
// Location holds the WKB encoding of (longitude, latitude) in SRID 4326.
type PointOfInterest struct {
	ID        string  `gorm:"type:varchar(64);primaryKey" json:"id" binding:"nonblank"`
	Name      string  `gorm:"type:varchar(255)" json:"name"`
	Latitude  float64 `json:"latitude" binding:"latitude"`
	Longitude float64 `json:"longitude" binding:"longitude"`
	Location  []byte  `gorm:"type:bytea" json:"-"`
}

func (PointOfInterest) TableName() string {
	return "points_of_interest"
}

func (p *PointOfInterest) BeforeSave(tx *gorm.DB) error {
	location, err := EncodePoint(p.Longitude, p.Latitude)
	if err != nil {
		return err
	}
	p.Location = location
	return nil
}

func EncodePoint(lng, lat float64) ([]byte, error) {
	point, err := geom.NewPoint(geom.XY).SetCoords(geom.Coord{lng, lat})
	if err != nil {
		return nil, fmt.Errorf("build point: %w", err)
	}
	point.SetSRID(4326)
	data, err := wkb.Marshal(point, wkb.NDR)
	if err != nil {
		return nil, fmt.Errorf("encode point: %w", err)
	}
	return data, nil
}

func DecodePoint(data []byte) (lng, lat float64, err error) {
	g, err := wkb.Unmarshal(data)
	if err != nil {
		return 0, 0, fmt.Errorf("decode point: %w", err)
	}
	point, ok := g.(*geom.Point)
	if !ok {
		return 0, 0, fmt.Errorf("decode point: unexpected geometry %T", g)
	}
	return point.X(), point.Y(), nil
}
