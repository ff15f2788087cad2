package application

import (
	"context"
	"log/slog"
)

// SyncReport summarises a driver-name repair pass.
type SyncReport struct {
	Scanned int
	Updated int
	Missing []string
}

// SyncDriverNames fills the display name of assigned shipments that still
// carry the placeholder. Shipments whose driver no longer exists are reported
// in Missing and left untouched.
func (s *Service) SyncDriverNames(ctx context.Context) (SyncReport, error) {
	var report SyncReport
	shipments, err := s.repo.ListUnnamedAssignments(ctx)
	if err != nil {
		return report, mapError(err)
	}
	report.Scanned = len(shipments)
	if len(shipments) == 0 || s.drivers == nil {
		return report, nil
	}
	ids := make([]string, 0, len(shipments))
	for _, sh := range shipments {
		ids = append(ids, sh.DriverID)
	}
	names, err := s.drivers.Names(ctx, ids)
	if err != nil {
		return report, err
	}
	for _, sh := range shipments {
		name := names[sh.DriverID]
		if name == "" {
			report.Missing = append(report.Missing, sh.ShipmentID)
			continue
		}
		if err := s.repo.SetDriverName(ctx, sh.ShipmentID, name); err != nil {
			return report, mapError(err)
		}
		report.Updated++
		s.logger.InfoContext(ctx, "driver name repaired",
			slog.String("shipment_id", sh.ShipmentID), slog.String("driver_name", name))
	}
	return report, nil
}
