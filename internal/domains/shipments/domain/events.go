package domain

import "time"

// Event is the base interface for all domain events.
type Event interface {
	EventName() string
	OccurredAt() time.Time
	AggregateID() string
}

// BaseEvent provides common event metadata.
type BaseEvent struct {
	Timestamp time.Time `json:"occurredAt"`
}

// OccurredAt returns when the event occurred.
func (e BaseEvent) OccurredAt() time.Time {
	return e.Timestamp
}

// ShipmentCreated is raised once a shipment is persisted.
type ShipmentCreated struct {
	BaseEvent
	ShipmentID  string      `json:"shipmentId"`
	ServiceType ServiceType `json:"serviceType"`
	Start       string      `json:"start"`
	End         string      `json:"end"`
	ETA         time.Time   `json:"eta"`
}

func (e ShipmentCreated) EventName() string   { return "shipments.shipment.created" }
func (e ShipmentCreated) AggregateID() string { return e.ShipmentID }

// ShipmentAssigned is raised when a pending shipment moves to Shipping.
type ShipmentAssigned struct {
	BaseEvent
	ShipmentID string `json:"shipmentId"`
	DriverID   string `json:"driverId"`
	DriverName string `json:"driverName"`
}

func (e ShipmentAssigned) EventName() string   { return "shipments.shipment.assigned" }
func (e ShipmentAssigned) AggregateID() string { return e.ShipmentID }

// ShipmentDelivered is raised when a shipment reaches its terminal state.
type ShipmentDelivered struct {
	BaseEvent
	ShipmentID  string    `json:"shipmentId"`
	DriverID    string    `json:"driverId,omitempty"`
	DeliveredAt time.Time `json:"deliveredAt"`
}

func (e ShipmentDelivered) EventName() string   { return "shipments.shipment.delivered" }
func (e ShipmentDelivered) AggregateID() string { return e.ShipmentID }
