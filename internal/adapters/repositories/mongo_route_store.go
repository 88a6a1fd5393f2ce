package repositories

import (
	"context"
	"errors"
	"fleet-route-service/internal/domain"
	"fleet-route-service/internal/ports"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const routesCollection = "routes"

// MongoDB-backed RouteStore. Stops live inside the route document.
type MongoRouteStore struct {
	DB *mongo.Database
}

func NewMongoRouteStore(db *mongo.Database) *MongoRouteStore {
	return &MongoRouteStore{DB: db}
}

func (s *MongoRouteStore) collection() *mongo.Collection {
	return s.DB.Collection(routesCollection)
}

// EnsureIndexes creates the lookup indexes used by filters and stop lookups.
func (s *MongoRouteStore) EnsureIndexes(ctx context.Context) error {
	indexes := []mongo.IndexModel{
		{Keys: bson.D{{Key: "vehicleid", Value: 1}}},
		{Keys: bson.D{{Key: "driverid", Value: 1}}},
		{Keys: bson.D{{Key: "status", Value: 1}}},
		{Keys: bson.D{{Key: "stops._id", Value: 1}}},
	}

	if _, err := s.collection().Indexes().CreateMany(ctx, indexes, options.CreateIndexes()); err != nil {
		return fmt.Errorf("ensure route indexes: %w", err)
	}
	return nil
}

func routeFilterDocument(filter ports.RouteFilter) bson.M {
	q := bson.M{}
	if filter.VehicleID != nil {
		q["vehicleid"] = *filter.VehicleID
	}
	if filter.DriverID != nil {
		q["driverid"] = *filter.DriverID
	}
	if filter.Status != nil {
		q["status"] = string(*filter.Status)
	}
	return q
}

func (s *MongoRouteStore) ListRoutes(ctx context.Context, filter ports.RouteFilter) ([]*domain.Route, error) {
	opts := options.Find().SetSort(bson.D{{Key: "createdat", Value: -1}, {Key: "_id", Value: 1}})

	cursor, err := s.collection().Find(ctx, routeFilterDocument(filter), opts)
	if err != nil {
		return nil, fmt.Errorf("list routes: find: %w", err)
	}
	defer cursor.Close(ctx)

	routes := make([]*domain.Route, 0, 16)
	for cursor.Next(ctx) {
		var doc routeDocument
		if err := cursor.Decode(&doc); err != nil {
			return nil, fmt.Errorf("list routes: decode: %w", err)
		}
		routes = append(routes, doc.toDomain())
	}
	if err := cursor.Err(); err != nil {
		return nil, fmt.Errorf("list routes: cursor: %w", err)
	}

	return routes, nil
}

func (s *MongoRouteStore) GetRoute(ctx context.Context, id string) (*domain.Route, error) {
	var doc routeDocument
	err := s.collection().FindOne(ctx, bson.M{"_id": id}).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get route: %w", err)
	}
	return doc.toDomain(), nil
}

func (s *MongoRouteStore) CreateRoute(ctx context.Context, route *domain.Route) error {
	if _, err := s.collection().InsertOne(ctx, toRouteDocument(route)); err != nil {
		return fmt.Errorf("create route: insert id=%s: %w", route.ID, err)
	}
	return nil
}

// SaveRoute replaces the whole document; the stop batch is already reflected in route.Stops.
func (s *MongoRouteStore) SaveRoute(ctx context.Context, route *domain.Route, _ ports.StopChanges) error {
	res, err := s.collection().ReplaceOne(ctx, bson.M{"_id": route.ID}, toRouteDocument(route))
	if err != nil {
		return fmt.Errorf("save route: replace id=%s: %w", route.ID, err)
	}
	if res.MatchedCount == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (s *MongoRouteStore) DeleteRoute(ctx context.Context, id string) (bool, error) {
	res, err := s.collection().DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return false, fmt.Errorf("delete route: id=%s: %w", id, err)
	}
	return res.DeletedCount > 0, nil
}

func (s *MongoRouteStore) GetStop(ctx context.Context, id string) (*domain.RouteStop, error) {
	opts := options.FindOne().SetProjection(bson.M{"stops.$": 1})

	var doc routeDocument
	err := s.collection().FindOne(ctx, bson.M{"stops._id": id}, opts).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get stop: %w", err)
	}
	if len(doc.Stops) == 0 {
		return nil, domain.ErrNotFound
	}
	return doc.Stops[0].toDomain(), nil
}

func (s *MongoRouteStore) SaveStop(ctx context.Context, stop *domain.RouteStop) error {
	res, err := s.collection().UpdateOne(ctx,
		bson.M{"_id": stop.RouteID, "stops._id": stop.ID},
		bson.M{"$set": bson.M{"stops.$": toStopDocument(stop)}},
	)
	if err != nil {
		return fmt.Errorf("save stop: id=%s: %w", stop.ID, err)
	}
	if res.MatchedCount == 0 {
		return domain.ErrNotFound
	}
	return nil
}
