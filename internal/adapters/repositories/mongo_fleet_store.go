package repositories

import (
	"context"
	"errors"
	"fleet-route-service/internal/domain"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const (
	vehiclesCollection      = "vehicles"
	driversCollection       = "drivers"
	notificationsCollection = "notifications"
)

// MongoDB-backed VehicleStore and FleetDirectory.
type MongoFleetStore struct {
	DB *mongo.Database
}

func NewMongoFleetStore(db *mongo.Database) *MongoFleetStore {
	return &MongoFleetStore{DB: db}
}

func (s *MongoFleetStore) GetVehicle(ctx context.Context, id string) (*domain.Vehicle, error) {
	var doc vehicleDocument
	err := s.DB.Collection(vehiclesCollection).FindOne(ctx, bson.M{"_id": id}).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get vehicle: %w", err)
	}

	return &domain.Vehicle{
		ID:           doc.ID,
		LicensePlate: doc.LicensePlate,
		Make:         doc.Make,
		Model:        doc.Model,
		Status:       domain.VehicleStatus(doc.Status),
	}, nil
}

func (s *MongoFleetStore) UpdateVehicleStatus(ctx context.Context, id string, status domain.VehicleStatus) error {
	res, err := s.DB.Collection(vehiclesCollection).UpdateOne(ctx,
		bson.M{"_id": id},
		bson.M{"$set": bson.M{"status": string(status)}},
	)
	if err != nil {
		return fmt.Errorf("update vehicle status: id=%s: %w", id, err)
	}
	if res.MatchedCount == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (s *MongoFleetStore) VehicleSummary(ctx context.Context, id string) (*domain.VehicleSummary, error) {
	v, err := s.GetVehicle(ctx, id)
	if err != nil {
		return nil, err
	}
	return &domain.VehicleSummary{ID: v.ID, LicensePlate: v.LicensePlate, Make: v.Make, Model: v.Model}, nil
}

func (s *MongoFleetStore) DriverSummary(ctx context.Context, id string) (*domain.DriverSummary, error) {
	var doc driverDocument
	err := s.DB.Collection(driversCollection).FindOne(ctx, bson.M{"_id": id}).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("driver summary: %w", err)
	}
	return &domain.DriverSummary{ID: doc.ID, Name: doc.Name}, nil
}

// SeedFleet upserts vehicles and drivers with one bulk write per collection.
func (s *MongoFleetStore) SeedFleet(ctx context.Context, seed *FleetSeed) error {
	if len(seed.Vehicles) > 0 {
		models := make([]mongo.WriteModel, 0, len(seed.Vehicles))
		for _, v := range seed.Vehicles {
			doc := vehicleDocument{ID: v.ID, LicensePlate: v.LicensePlate, Make: v.Make, Model: v.Model, Status: v.Status}
			models = append(models, mongo.NewReplaceOneModel().
				SetFilter(bson.M{"_id": v.ID}).
				SetReplacement(doc).
				SetUpsert(true))
		}
		if _, err := s.DB.Collection(vehiclesCollection).BulkWrite(ctx, models, options.BulkWrite()); err != nil {
			return fmt.Errorf("seed fleet: vehicles: %w", err)
		}
	}

	if len(seed.Drivers) > 0 {
		models := make([]mongo.WriteModel, 0, len(seed.Drivers))
		for _, d := range seed.Drivers {
			models = append(models, mongo.NewReplaceOneModel().
				SetFilter(bson.M{"_id": d.ID}).
				SetReplacement(driverDocument{ID: d.ID, Name: d.Name}).
				SetUpsert(true))
		}
		if _, err := s.DB.Collection(driversCollection).BulkWrite(ctx, models, options.BulkWrite()); err != nil {
			return fmt.Errorf("seed fleet: drivers: %w", err)
		}
	}

	return nil
}

// MongoDB-backed NotificationStore.
type MongoNotificationStore struct {
	DB *mongo.Database
}

func NewMongoNotificationStore(db *mongo.Database) *MongoNotificationStore {
	return &MongoNotificationStore{DB: db}
}

func (s *MongoNotificationStore) SaveNotification(ctx context.Context, n domain.Notification) error {
	n.CreatedAt = n.CreatedAt.UTC()
	if _, err := s.DB.Collection(notificationsCollection).InsertOne(ctx, n); err != nil {
		return fmt.Errorf("save notification: insert id=%s: %w", n.ID, err)
	}
	return nil
}
