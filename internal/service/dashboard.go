// Package service sequences Record Source reads and writes around the
// aggregation engine.
package service

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"time"

	log "github.com/sirupsen/logrus"
	"github.com/ukydev/tanque-cheio/internal/analytics"
	"github.com/ukydev/tanque-cheio/internal/db"
	"github.com/ukydev/tanque-cheio/internal/models"
	"github.com/ukydev/tanque-cheio/internal/monitoring"
	"github.com/ukydev/tanque-cheio/internal/sample"
	"golang.org/x/sync/errgroup"
)

// Snapshot is one completed read of a vehicle's fill-ups from the Record
// Source. Reads are synchronous, so there is no pending snapshot: until the
// read returns nothing is computed, and a failed read is an error rather
// than an empty snapshot.
type Snapshot struct {
	Records []models.FillUp
}

// Resolve picks the records to aggregate. A read with no records yields
// generated sample data for vehicleID.
func (s Snapshot) Resolve(now time.Time, vehicleID string, rng *rand.Rand) (records []models.FillUp, fallback bool) {
	if len(s.Records) == 0 {
		return sample.FillUps(now, vehicleID, rng), true
	}
	return s.Records, false
}

// DashboardService computes dashboards and monthly reports for a vehicle.
type DashboardService struct {
	vehicles db.VehicleCollection
	fillUps  db.FillUpCollection
	metrics  *monitoring.Metrics

	now  func() time.Time
	seed func() int64
}

// NewDashboardService creates a DashboardService reading from the given
// collections. metrics may be nil.
func NewDashboardService(vehicles db.VehicleCollection, fillUps db.FillUpCollection, metrics *monitoring.Metrics) *DashboardService {
	return &DashboardService{
		vehicles: vehicles,
		fillUps:  fillUps,
		metrics:  metrics,
		now:      time.Now,
		seed:     func() int64 { return time.Now().UnixNano() },
	}
}

// Dashboard aggregates the fill-ups of vehicleID, or of the user's primary
// vehicle when vehicleID is empty. A user without vehicles gets the empty
// dashboard.
func (s *DashboardService) Dashboard(ctx context.Context, userID, vehicleID string) (models.Dashboard, error) {
	now := s.now()
	vehicle, snap, err := s.load(ctx, userID, vehicleID)
	if errors.Is(err, errNoVehicle) {
		return analytics.ComputeDashboard(nil, "", now), nil
	}
	if err != nil {
		return models.Dashboard{}, err
	}

	records, fallback := snap.Resolve(now, vehicle.ID, sample.NewSource(s.seed()))
	s.observe("dashboard", userID, vehicle.ID, fallback)
	return analytics.ComputeDashboard(records, vehicle.Label(), now), nil
}

// Report aggregates the month containing month for vehicleID, or for the
// user's primary vehicle when vehicleID is empty.
func (s *DashboardService) Report(ctx context.Context, userID, vehicleID string, month time.Time) (models.Report, error) {
	vehicle, snap, err := s.load(ctx, userID, vehicleID)
	if errors.Is(err, errNoVehicle) {
		return analytics.ComputeReport(nil, month), nil
	}
	if err != nil {
		return models.Report{}, err
	}

	records, fallback := snap.Resolve(s.now(), vehicle.ID, sample.NewSource(s.seed()))
	s.observe("report", userID, vehicle.ID, fallback)
	return analytics.ComputeReport(records, month), nil
}

var errNoVehicle = errors.New("user has no vehicle")

// load resolves the vehicle and reads all of its fill-ups. Lifetime
// consumption needs the full history, so no query limit applies. With an
// explicit vehicleID both reads run concurrently.
func (s *DashboardService) load(ctx context.Context, userID, vehicleID string) (*models.Vehicle, Snapshot, error) {
	if vehicleID == "" {
		vehicle, err := s.vehicles.FindPrimaryVehicle(ctx, userID)
		if errors.Is(err, db.ErrNotFound) {
			return nil, Snapshot{}, errNoVehicle
		}
		if err != nil {
			return nil, Snapshot{}, fmt.Errorf("find primary vehicle: %w", err)
		}
		records, err := s.fillUps.FindFillUps(ctx, userID, vehicle.ID, 0)
		if err != nil {
			return nil, Snapshot{}, fmt.Errorf("find fill-ups: %w", err)
		}
		return vehicle, Snapshot{Records: records}, nil
	}

	var (
		vehicle *models.Vehicle
		records []models.FillUp
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		v, err := s.vehicles.FindVehicleByID(gctx, userID, vehicleID)
		if err != nil {
			return fmt.Errorf("find vehicle: %w", err)
		}
		vehicle = v
		return nil
	})
	g.Go(func() error {
		r, err := s.fillUps.FindFillUps(gctx, userID, vehicleID, 0)
		if err != nil {
			return fmt.Errorf("find fill-ups: %w", err)
		}
		records = r
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, Snapshot{}, err
	}
	return vehicle, Snapshot{Records: records}, nil
}

func (s *DashboardService) observe(kind, userID, vehicleID string, fallback bool) {
	s.metrics.Aggregation(kind, fallback)
	if fallback {
		log.WithFields(log.Fields{
			"kind":       kind,
			"user_id":    userID,
			"vehicle_id": vehicleID,
		}).Debug("no fill-ups recorded, serving sample data")
	}
}
