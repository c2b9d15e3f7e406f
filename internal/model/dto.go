package model

import "time"

// Request payloads. Reference entities are given by id; an inline object with
// the same id supplies details when the entity has to be created.

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type CreateUserRequest struct {
	Name     string   `json:"name" binding:"nonblank"`
	Email    string   `json:"email" binding:"required,email"`
	Password string   `json:"password" binding:"required,min=8"`
	Role     UserRole `json:"role" binding:"omitempty,oneof=USER ADMIN MANAGER"`
	IsActive *bool    `json:"isActive"`
}

type UpdateUserRequest struct {
	Name     *string   `json:"name" binding:"omitempty,nonblank"`
	Email    *string   `json:"email" binding:"omitempty,email"`
	Password *string   `json:"password" binding:"omitempty,min=8"`
	Role     *UserRole `json:"role" binding:"omitempty,oneof=USER ADMIN MANAGER"`
	IsActive *bool     `json:"isActive"`
}

type LineItemRequest struct {
	ID             string         `json:"id" binding:"nonblank"`
	ProductID      string         `json:"productId" binding:"required_without=Product,omitempty,nonblank"`
	Product        *Product       `json:"product"`
	Quantity       float64        `json:"quantity" binding:"gt=0"`
	UnitPrice      float64        `json:"unitPrice" binding:"gte=0"`
	TaxRate        float64        `json:"taxRate" binding:"gte=0,lte=1"`
	Value          *float64       `json:"value" binding:"omitempty,gte=0"`
	ActualQuantity *float64       `json:"actualQuantity" binding:"omitempty,gte=0"`
	ActualValue    *float64       `json:"actualValue" binding:"omitempty,gte=0"`
	Status         LineItemStatus `json:"status" binding:"omitempty,oneof=PENDING DELIVERED PARTIALLY_DELIVERED REJECTED"`
}

type OrderRequest struct {
	ID                    string               `json:"id" binding:"nonblank"`
	CustomerID            string               `json:"customerId" binding:"required_without=Customer,omitempty,nonblank"`
	Customer              *Customer            `json:"customer"`
	AddressID             string               `json:"addressId" binding:"required_without=Address,omitempty,nonblank"`
	Address               *Address             `json:"address"`
	SalesRepresentativeID string               `json:"salesRepresentativeId" binding:"omitempty,nonblank"`
	SalesRepresentative   *SalesRepresentative `json:"salesRepresentative"`
	OrderGroupID          string               `json:"orderGroupId" binding:"omitempty,nonblank"`
	OrderGroup            *OrderGroup          `json:"orderGroup"`
	Status                OrderStatus          `json:"status" binding:"omitempty,oneof=PENDING CONFIRMED IN_TRANSIT DELIVERED PARTIALLY_DELIVERED CANCELLED"`
	LineItems             []LineItemRequest    `json:"lineItems" binding:"required,min=1,dive"`
}

type PaymentMethodRequest struct {
	ID     string  `json:"id" binding:"omitempty,nonblank"`
	Method string  `json:"method" binding:"nonblank"`
	Amount float64 `json:"amount" binding:"gte=0"`
}

type ReassignmentRequest struct {
	ID         string `json:"id" binding:"omitempty,nonblank"`
	FromUserID string `json:"fromUserId"`
	ToUserID   string `json:"toUserId" binding:"nonblank"`
	Reason     string `json:"reason"`
}

type VisitRequest struct {
	ID               string                 `json:"id" binding:"nonblank"`
	Sequence         int                    `json:"sequence" binding:"gte=0"`
	CustomerID       string                 `json:"customerId" binding:"required_without=Customer,omitempty,nonblank"`
	Customer         *Customer              `json:"customer"`
	AddressID        string                 `json:"addressId" binding:"required_without=Address,omitempty,nonblank"`
	Address          *Address               `json:"address"`
	Status           VisitStatus            `json:"status" binding:"omitempty,oneof=PENDING VISITED SKIPPED CANCELLED"`
	PlannedArrival   *time.Time             `json:"plannedArrival"`
	DeliveryOrderIDs []string               `json:"deliveryOrderIds" binding:"dive,nonblank"`
	PickupOrderIDs   []string               `json:"pickupOrderIds" binding:"dive,nonblank"`
	PaymentMethods   []PaymentMethodRequest `json:"paymentMethods" binding:"dive"`
	Reassignments    []ReassignmentRequest  `json:"reassignments" binding:"dive"`
}

type CreatePlanRequest struct {
	ID             string         `json:"id" binding:"nonblank"`
	OperationType  string         `json:"operationType" binding:"nonblank"`
	Date           string         `json:"date" binding:"required,isodate"`
	ActiveDates    []string       `json:"activeDates" binding:"dive,isodate"`
	AssignedUserID string         `json:"assignedUserId" binding:"nonblank"`
	Visits         []VisitRequest `json:"visits" binding:"dive"`
	Orders         []OrderRequest `json:"orders" binding:"dive"`

	RouteID           *string          `json:"routeId" binding:"omitempty,nonblank"`
	RouteGroupID      *string          `json:"routeGroupId" binding:"omitempty,nonblank"`
	TruckID           *string          `json:"truckId" binding:"omitempty,nonblank"`
	Truck             *Truck           `json:"truck"`
	BusinessSegmentID *string          `json:"businessSegmentId" binding:"omitempty,nonblank"`
	BusinessSegment   *BusinessSegment `json:"businessSegment"`
	StartPointID      *string          `json:"startPointId" binding:"omitempty,nonblank"`
	StartPoint        *PointOfInterest `json:"startPoint"`
	EndPointID        *string          `json:"endPointId" binding:"omitempty,nonblank"`
	EndPoint          *PointOfInterest `json:"endPoint"`
	PlannedStartAt    *time.Time       `json:"plannedStartAt"`
	PlannedEndAt      *time.Time       `json:"plannedEndAt"`
	ActualStartAt     *time.Time       `json:"actualStartAt"`
	ActualEndAt       *time.Time       `json:"actualEndAt"`
	PlannedDistanceKm *float64         `json:"plannedDistanceKm" binding:"omitempty,gte=0"`
	ActualDistanceKm  *float64         `json:"actualDistanceKm" binding:"omitempty,gte=0"`
	PlannedDurationMn *int             `json:"plannedDurationMin" binding:"omitempty,gte=0"`
	ActualDurationMn  *int             `json:"actualDurationMin" binding:"omitempty,gte=0"`
}

// UpdatePlanRequest replaces only the fields present. Visits and orders are
// replaced together because visits reference orders by id.
type UpdatePlanRequest struct {
	OperationType  *string         `json:"operationType" binding:"omitempty,nonblank"`
	Date           *string         `json:"date" binding:"omitempty,isodate"`
	ActiveDates    *[]string       `json:"activeDates" binding:"omitempty,dive,isodate"`
	AssignedUserID *string         `json:"assignedUserId" binding:"omitempty,nonblank"`
	Visits         *[]VisitRequest `json:"visits" binding:"required_with=Orders,omitempty,dive"`
	Orders         *[]OrderRequest `json:"orders" binding:"required_with=Visits,omitempty,dive"`

	RouteID           *string          `json:"routeId" binding:"omitempty,nonblank"`
	RouteGroupID      *string          `json:"routeGroupId" binding:"omitempty,nonblank"`
	TruckID           *string          `json:"truckId" binding:"omitempty,nonblank"`
	Truck             *Truck           `json:"truck"`
	BusinessSegmentID *string          `json:"businessSegmentId" binding:"omitempty,nonblank"`
	BusinessSegment   *BusinessSegment `json:"businessSegment"`
	StartPointID      *string          `json:"startPointId" binding:"omitempty,nonblank"`
	StartPoint        *PointOfInterest `json:"startPoint"`
	EndPointID        *string          `json:"endPointId" binding:"omitempty,nonblank"`
	EndPoint          *PointOfInterest `json:"endPoint"`
	PlannedStartAt    *time.Time       `json:"plannedStartAt"`
	PlannedEndAt      *time.Time       `json:"plannedEndAt"`
	ActualStartAt     *time.Time       `json:"actualStartAt"`
	ActualEndAt       *time.Time       `json:"actualEndAt"`
	PlannedDistanceKm *float64         `json:"plannedDistanceKm" binding:"omitempty,gte=0"`
	ActualDistanceKm  *float64         `json:"actualDistanceKm" binding:"omitempty,gte=0"`
	PlannedDurationMn *int             `json:"plannedDurationMin" binding:"omitempty,gte=0"`
	ActualDurationMn  *int             `json:"actualDurationMin" binding:"omitempty,gte=0"`
}

type RouteStopRequest struct {
	ID        string   `json:"id" binding:"nonblank"`
	Sequence  int      `json:"sequence" binding:"gte=0"`
	AddressID string   `json:"addressId" binding:"required_without=Address,omitempty,nonblank"`
	Address   *Address `json:"address"`
}

type RouteRequest struct {
	ID          string             `json:"id" binding:"nonblank"`
	Name        string             `json:"name" binding:"nonblank"`
	TruckID     string             `json:"truckId" binding:"omitempty,nonblank"`
	Truck       *Truck             `json:"truck"`
	TruckTypeID string             `json:"truckTypeId" binding:"omitempty,nonblank"`
	TruckType   *TruckType         `json:"truckType"`
	DriverID    *int64             `json:"driverId" binding:"omitempty,gt=0"`
	Stops       []RouteStopRequest `json:"stops" binding:"dive"`
}

type UpdateRouteRequest struct {
	Name        *string             `json:"name" binding:"omitempty,nonblank"`
	TruckID     *string             `json:"truckId" binding:"omitempty,nonblank"`
	Truck       *Truck              `json:"truck"`
	TruckTypeID *string             `json:"truckTypeId" binding:"omitempty,nonblank"`
	TruckType   *TruckType          `json:"truckType"`
	DriverID    *int64              `json:"driverId" binding:"omitempty,gt=0"`
	Stops       *[]RouteStopRequest `json:"stops" binding:"omitempty,dive"`
}

type CreateRouteGroupRequest struct {
	ID          string         `json:"id" binding:"nonblank"`
	Name        string         `json:"name" binding:"nonblank"`
	Description string         `json:"description"`
	Routes      []RouteRequest `json:"routes" binding:"dive"`
}

type UpdateRouteGroupRequest struct {
	Name        *string         `json:"name" binding:"omitempty,nonblank"`
	Description *string         `json:"description"`
	Routes      *[]RouteRequest `json:"routes" binding:"omitempty,dive"`
}

type DispatchOrderRequest struct {
	ID       int64   `json:"id" binding:"gt=0"`
	Sequence int     `json:"sequence" binding:"gte=0"`
	Value    float64 `json:"value"`
	Priority bool    `json:"priority"`
}

type CreateDispatchRouteRequest struct {
	ID       int64                  `json:"id" binding:"gt=0"`
	DriverID int64                  `json:"driverId" binding:"gt=0"`
	Date     string                 `json:"date" binding:"required,isodate"`
	Notes    *string                `json:"notes"`
	Orders   []DispatchOrderRequest `json:"orders" binding:"dive"`
}

type UpdateDispatchRouteRequest struct {
	DriverID *int64                  `json:"driverId" binding:"omitempty,gt=0"`
	Date     *string                 `json:"date" binding:"omitempty,isodate"`
	Notes    *string                 `json:"notes"`
	Orders   *[]DispatchOrderRequest `json:"orders" binding:"omitempty,dive"`
}
