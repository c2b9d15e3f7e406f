package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type OrderStatus string

const (
	OrderStatusPending            OrderStatus = "PENDING"
	OrderStatusConfirmed          OrderStatus = "CONFIRMED"
	OrderStatusInTransit          OrderStatus = "IN_TRANSIT"
	OrderStatusDelivered          OrderStatus = "DELIVERED"
	OrderStatusPartiallyDelivered OrderStatus = "PARTIALLY_DELIVERED"
	OrderStatusCancelled          OrderStatus = "CANCELLED"
)

type LineItemStatus string

const (
	LineItemStatusPending            LineItemStatus = "PENDING"
	LineItemStatusDelivered          LineItemStatus = "DELIVERED"
	LineItemStatusPartiallyDelivered LineItemStatus = "PARTIALLY_DELIVERED"
	LineItemStatusRejected           LineItemStatus = "REJECTED"
)

type VisitStatus string

const (
	VisitStatusPending   VisitStatus = "PENDING"
	VisitStatusVisited   VisitStatus = "VISITED"
	VisitStatusSkipped   VisitStatus = "SKIPPED"
	VisitStatusCancelled VisitStatus = "CANCELLED"
)

type Plan struct {
	ID                string                      `gorm:"type:varchar(64);primaryKey" json:"id" binding:"nonblank"`
	OperationType     string                      `gorm:"type:varchar(64);not null" json:"operationType"`
	Date              Date                        `gorm:"not null;index:idx_plans_date_user" json:"date"`
	ActiveDates       datatypes.JSONSlice[string] `json:"activeDates"`
	AssignedUserID    string                      `gorm:"type:varchar(64);not null;index:idx_plans_date_user" json:"assignedUserId"`
	RouteID           *string                     `gorm:"type:varchar(64)" json:"routeId"`
	RouteGroupID      *string                     `gorm:"type:varchar(64)" json:"routeGroupId"`
	TruckID           *string                     `gorm:"type:varchar(64)" json:"truckId"`
	BusinessSegmentID *string                     `gorm:"type:varchar(64)" json:"businessSegmentId"`
	StartPointID      *string                     `gorm:"type:varchar(64)" json:"startPointId"`
	EndPointID        *string                     `gorm:"type:varchar(64)" json:"endPointId"`
	PlannedStartAt    *time.Time                  `json:"plannedStartAt"`
	PlannedEndAt      *time.Time                  `json:"plannedEndAt"`
	ActualStartAt     *time.Time                  `json:"actualStartAt"`
	ActualEndAt       *time.Time                  `json:"actualEndAt"`
	PlannedDistanceKm float64                     `json:"plannedDistanceKm"`
	ActualDistanceKm  float64                     `json:"actualDistanceKm"`
	PlannedDurationMn int                         `gorm:"column:planned_duration_min" json:"plannedDurationMin"`
	ActualDurationMn  int                         `gorm:"column:actual_duration_min" json:"actualDurationMin"`
	CreatedAt         time.Time                   `gorm:"autoCreateTime" json:"createdAt"`
	UpdatedAt         time.Time                   `gorm:"autoUpdateTime" json:"updatedAt"`

	Truck           *Truck           `gorm:"foreignKey:TruckID" json:"truck,omitempty"`
	BusinessSegment *BusinessSegment `gorm:"foreignKey:BusinessSegmentID" json:"businessSegment,omitempty"`
	StartPoint      *PointOfInterest `gorm:"foreignKey:StartPointID" json:"startPoint,omitempty"`
	EndPoint        *PointOfInterest `gorm:"foreignKey:EndPointID" json:"endPoint,omitempty"`
	Visits          []Visit          `gorm:"foreignKey:PlanID;constraint:OnDelete:CASCADE" json:"visits"`
	Orders          []Order          `gorm:"foreignKey:PlanID;constraint:OnDelete:CASCADE" json:"orders"`
}

func (Plan) TableName() string {
	return "plans"
}

type Visit struct {
	ID             string      `gorm:"type:varchar(64);primaryKey" json:"id"`
	PlanID         string      `gorm:"type:varchar(64);not null;index" json:"planId"`
	Sequence       int         `gorm:"not null" json:"sequence"`
	CustomerID     string      `gorm:"type:varchar(64);not null" json:"customerId"`
	AddressID      string      `gorm:"type:varchar(64);not null" json:"addressId"`
	Status         VisitStatus `gorm:"type:varchar(16);not null;default:'PENDING'" json:"status"`
	PlannedArrival *time.Time  `json:"plannedArrival"`

	Customer       *Customer           `gorm:"foreignKey:CustomerID" json:"customer,omitempty"`
	Address        *Address            `gorm:"foreignKey:AddressID" json:"address,omitempty"`
	DeliveryOrders []Order             `gorm:"foreignKey:DeliveryVisitID" json:"deliveryOrders"`
	PickupOrders   []Order             `gorm:"foreignKey:PickupVisitID" json:"pickupOrders"`
	PaymentMethods []PaymentMethod     `gorm:"foreignKey:VisitID;constraint:OnDelete:CASCADE" json:"paymentMethods"`
	Reassignments  []VisitReassignment `gorm:"foreignKey:VisitID;constraint:OnDelete:CASCADE" json:"reassignments"`
}

func (Visit) TableName() string {
	return "visits"
}

type Order struct {
	ID                    string      `gorm:"type:varchar(64);primaryKey" json:"id"`
	PlanID                string      `gorm:"type:varchar(64);not null;index" json:"planId"`
	DeliveryVisitID       *string     `gorm:"type:varchar(64);index" json:"deliveryVisitId"`
	PickupVisitID         *string     `gorm:"type:varchar(64);index" json:"pickupVisitId"`
	CustomerID            string      `gorm:"type:varchar(64);not null" json:"customerId"`
	AddressID             string      `gorm:"type:varchar(64);not null" json:"addressId"`
	SalesRepresentativeID *string     `gorm:"type:varchar(64)" json:"salesRepresentativeId"`
	OrderGroupID          *string     `gorm:"type:varchar(64)" json:"orderGroupId"`
	Status                OrderStatus `gorm:"type:varchar(32);not null;default:'PENDING'" json:"status"`
	CreatedAt             time.Time   `gorm:"autoCreateTime" json:"createdAt"`
	UpdatedAt             time.Time   `gorm:"autoUpdateTime" json:"updatedAt"`

	Customer            *Customer            `gorm:"foreignKey:CustomerID" json:"customer,omitempty"`
	Address             *Address             `gorm:"foreignKey:AddressID" json:"address,omitempty"`
	SalesRepresentative *SalesRepresentative `gorm:"foreignKey:SalesRepresentativeID" json:"salesRepresentative,omitempty"`
	OrderGroup          *OrderGroup          `gorm:"foreignKey:OrderGroupID" json:"orderGroup,omitempty"`
	LineItems           []LineItem           `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE" json:"lineItems"`
}

func (Order) TableName() string {
	return "orders"
}

type LineItem struct {
	ID             string         `gorm:"type:varchar(64);primaryKey" json:"id"`
	OrderID        string         `gorm:"type:varchar(64);not null;index" json:"orderId"`
	ProductID      string         `gorm:"type:varchar(64);not null" json:"productId"`
	Quantity       float64        `gorm:"not null" json:"quantity"`
	UnitPrice      float64        `gorm:"not null" json:"unitPrice"`
	TaxRate        float64        `gorm:"not null;default:0" json:"taxRate"`
	Value          float64        `gorm:"not null" json:"value"`
	ActualQuantity *float64       `json:"actualQuantity"`
	ActualValue    *float64       `json:"actualValue"`
	Status         LineItemStatus `gorm:"type:varchar(32);not null;default:'PENDING'" json:"status"`

	Product *Product `gorm:"foreignKey:ProductID" json:"product,omitempty"`
}

func (LineItem) TableName() string {
	return "line_items"
}

// ComputeValue returns quantity * unitPrice including tax.
func (li LineItem) ComputeValue() float64 {
	return li.Quantity * li.UnitPrice * (1 + li.TaxRate)
}

type PaymentMethod struct {
	ID      string  `gorm:"type:varchar(64);primaryKey" json:"id"`
	VisitID string  `gorm:"type:varchar(64);not null;index" json:"visitId"`
	Method  string  `gorm:"type:varchar(32);not null" json:"method"`
	Amount  float64 `gorm:"not null" json:"amount"`
}

func (PaymentMethod) TableName() string {
	return "payment_methods"
}

func (p *PaymentMethod) BeforeCreate(tx *gorm.DB) error {
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	return nil
}

type VisitReassignment struct {
	ID         string    `gorm:"type:varchar(64);primaryKey" json:"id"`
	VisitID    string    `gorm:"type:varchar(64);not null;index" json:"visitId"`
	FromUserID string    `gorm:"type:varchar(64)" json:"fromUserId"`
	ToUserID   string    `gorm:"type:varchar(64);not null" json:"toUserId"`
	Reason     string    `gorm:"type:text" json:"reason"`
	CreatedAt  time.Time `gorm:"autoCreateTime" json:"createdAt"`
}

func (VisitReassignment) TableName() string {
	return "visit_reassignments"
}

func (r *VisitReassignment) BeforeCreate(tx *gorm.DB) error {
	if r.ID == "" {
		r.ID = uuid.NewString()
	}
	return nil
}
