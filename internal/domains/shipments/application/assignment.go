package application

import (
	"context"
	"errors"
	"fmt"

	notifdomain "github.com/Apurer/courier-api/internal/domains/notifications/domain"
	notifports "github.com/Apurer/courier-api/internal/domains/notifications/ports"
	"github.com/Apurer/courier-api/internal/domains/shipments/domain"
	"github.com/Apurer/courier-api/internal/domains/shipments/ports"
	"github.com/Apurer/courier-api/internal/shared/hooks"
)

// EventShipmentAssigned is the real-time event name broadcast on assignment.
const EventShipmentAssigned = "shipment-assigned"

// Assignment is the payload shared by the post-assignment hooks. The notify
// hook fills Notification for the broadcast hook that follows it.
type Assignment struct {
	Shipment     *domain.Shipment
	Driver       ports.Driver
	Notification *notifdomain.Notification
}

// AssignedBroadcast is the body of the shipment-assigned real-time event.
type AssignedBroadcast struct {
	DriverID     string                    `json:"driverId"`
	ShipmentID   string                    `json:"shipmentId"`
	Notification *notifdomain.Notification `json:"notification"`
}

func assignmentHooks(emitter notifports.Emitter, events ports.EventPublisher) []hooks.Hook[*Assignment] {
	var chain []hooks.Hook[*Assignment]
	if emitter != nil {
		chain = append(chain,
			hooks.Hook[*Assignment]{Name: "notify-driver", Run: func(ctx context.Context, a *Assignment) error {
				a.Notification = emitter.Notify(ctx, a.Driver.ID, "New Shipment Assigned",
					assignmentMessage(a.Shipment), notifdomain.CategoryShipmentAssigned)
				if a.Notification == nil {
					return errors.New("assignment notification not stored")
				}
				return nil
			}},
			hooks.Hook[*Assignment]{Name: "push-driver", Run: func(ctx context.Context, a *Assignment) error {
				s := a.Shipment
				emitter.PushIfAvailable(ctx,
					notifports.Recipient{ID: a.Driver.ID, PushToken: a.Driver.PushToken},
					"New Shipment Assigned",
					fmt.Sprintf("You have been assigned shipment %s from %s to %s", s.ShipmentID, s.Start, s.End),
					map[string]string{
						"shipmentId": s.ShipmentID,
						"type":       string(notifdomain.CategoryShipmentAssigned),
						"start":      s.Start,
						"end":        s.End,
					})
				return nil
			}},
			hooks.Hook[*Assignment]{Name: "broadcast-assignment", Run: func(_ context.Context, a *Assignment) error {
				emitter.EmitRealtime(EventShipmentAssigned, AssignedBroadcast{
					DriverID:     a.Driver.ID,
					ShipmentID:   a.Shipment.ShipmentID,
					Notification: a.Notification,
				})
				return nil
			}},
		)
	}
	if events != nil {
		chain = append(chain, hooks.Hook[*Assignment]{Name: "publish-assigned", Run: func(ctx context.Context, a *Assignment) error {
			return events.Publish(ctx, domain.ShipmentAssigned{
				BaseEvent:  domain.BaseEvent{Timestamp: a.Shipment.UpdatedAt},
				ShipmentID: a.Shipment.ShipmentID,
				DriverID:   a.Driver.ID,
				DriverName: a.Shipment.DriverName,
			})
		}})
	}
	return chain
}

func assignmentMessage(s *domain.Shipment) string {
	notes := s.Notes
	if notes == "" {
		notes = "None"
	}
	return fmt.Sprintf("Shipment ID: %s\nFrom: %s\nTo: %s\nPackage: %s\nWeight: %gkg\nETA: %s\nNotes: %s",
		s.ShipmentID, s.Start, s.End, s.PackageType, s.ParcelWeight, s.ETA.Format("2006-01-02"), notes)
}
