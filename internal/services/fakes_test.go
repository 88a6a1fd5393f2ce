package services

import (
	"context"
	"errors"
	"fleet-route-service/internal/domain"
	"fleet-route-service/internal/ports"
	"fmt"
	"sync"
	"time"
)

type memRouteStore struct {
	mu     sync.Mutex
	routes map[string]*domain.Route
	saves  []ports.StopChanges
	err    error
}

func newMemRouteStore() *memRouteStore {
	return &memRouteStore{routes: map[string]*domain.Route{}}
}

func (s *memRouteStore) ListRoutes(_ context.Context, f ports.RouteFilter) ([]*domain.Route, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var out []*domain.Route
	for _, r := range s.routes {
		if f.VehicleID != nil && r.VehicleID != *f.VehicleID {
			continue
		}
		if f.DriverID != nil && r.DriverID != *f.DriverID {
			continue
		}
		if f.Status != nil && r.Status != *f.Status {
			continue
		}
		out = append(out, r.Clone())
	}
	return out, nil
}

func (s *memRouteStore) GetRoute(_ context.Context, id string) (*domain.Route, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	r, ok := s.routes[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return r.Clone(), nil
}

func (s *memRouteStore) CreateRoute(_ context.Context, route *domain.Route) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.err != nil {
		return s.err
	}
	s.routes[route.ID] = route.Clone()
	return nil
}

func (s *memRouteStore) SaveRoute(_ context.Context, route *domain.Route, changes ports.StopChanges) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.err != nil {
		return s.err
	}
	if _, ok := s.routes[route.ID]; !ok {
		return domain.ErrNotFound
	}
	s.saves = append(s.saves, changes)
	s.routes[route.ID] = route.Clone()
	return nil
}

func (s *memRouteStore) DeleteRoute(_ context.Context, id string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.routes[id]; !ok {
		return false, nil
	}
	delete(s.routes, id)
	return true, nil
}

func (s *memRouteStore) GetStop(_ context.Context, id string) (*domain.RouteStop, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, r := range s.routes {
		if st := r.FindStop(id); st != nil {
			cp := *st
			return &cp, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (s *memRouteStore) SaveStop(_ context.Context, stop *domain.RouteStop) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	r, ok := s.routes[stop.RouteID]
	if !ok {
		return domain.ErrNotFound
	}
	for i, st := range r.Stops {
		if st.ID == stop.ID {
			cp := *stop
			r.Stops[i] = &cp
			return nil
		}
	}
	return domain.ErrNotFound
}

type memVehicleStore struct {
	mu       sync.Mutex
	vehicles map[string]*domain.Vehicle
	updates  int
	err      error
}

func newMemVehicleStore(vs ...domain.Vehicle) *memVehicleStore {
	m := &memVehicleStore{vehicles: map[string]*domain.Vehicle{}}
	for _, v := range vs {
		m.vehicles[v.ID] = &v
	}
	return m
}

func (s *memVehicleStore) GetVehicle(_ context.Context, id string) (*domain.Vehicle, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	v, ok := s.vehicles[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	cp := *v
	return &cp, nil
}

func (s *memVehicleStore) UpdateVehicleStatus(_ context.Context, id string, status domain.VehicleStatus) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.err != nil {
		return s.err
	}

	v, ok := s.vehicles[id]
	if !ok {
		return domain.ErrNotFound
	}
	v.Status = status
	s.updates++
	return nil
}

func (s *memVehicleStore) status(id string) domain.VehicleStatus {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.vehicles[id].Status
}

type recordingNotifier struct {
	mu   sync.Mutex
	sent []domain.Notification
	err  error
}

func (n *recordingNotifier) Send(_ context.Context, note domain.Notification) error {
	n.mu.Lock()
	defer n.mu.Unlock()

	if n.err != nil {
		return n.err
	}
	n.sent = append(n.sent, note)
	return nil
}

type fixedClock struct{ t time.Time }

func (c fixedClock) Now() time.Time { return c.t }

func sequentialIDs(prefix string) func() string {
	var mu sync.Mutex
	n := 0
	return func() string {
		mu.Lock()
		defer mu.Unlock()
		n++
		return fmt.Sprintf("%s-%d", prefix, n)
	}
}

type memDirectory struct {
	drivers  map[string]*domain.DriverSummary
	vehicles map[string]*domain.VehicleSummary
	err      error
}

func (d *memDirectory) DriverSummary(_ context.Context, id string) (*domain.DriverSummary, error) {
	if d.err != nil {
		return nil, d.err
	}
	if s, ok := d.drivers[id]; ok {
		return s, nil
	}
	return nil, domain.ErrNotFound
}

func (d *memDirectory) VehicleSummary(_ context.Context, id string) (*domain.VehicleSummary, error) {
	if d.err != nil {
		return nil, d.err
	}
	if s, ok := d.vehicles[id]; ok {
		return s, nil
	}
	return nil, domain.ErrNotFound
}

var errStoreDown = errors.New("store down")
