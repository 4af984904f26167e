package store

import (
	"context"
	"fmt"
	"regexp"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"

	"github.com/sysmap/sam/pkg/catalog"
	"github.com/sysmap/sam/pkg/errors"
)

// displayOrderLast is the sort key substituted for unset display orders so
// they sort after every explicit value.
const displayOrderLast = int32(1) << 30

// MongoStore is a MongoDB-backed catalog store. Records keep their
// relational shape: integer ids allocated from a counters collection,
// references by id rather than ObjectID, one collection per record kind.
type MongoStore struct {
	client *mongo.Client

	apps        *mongo.Collection
	deps        *mongo.Collection
	routes      *mongo.Collection
	deployments *mongo.Collection
	counters    *mongo.Collection
}

// NewMongoStore connects to the MongoDB instance at uri, verifies the
// connection, and ensures the catalog indexes exist.
func NewMongoStore(ctx context.Context, uri, database string) (*MongoStore, error) {
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("connect mongo: %w", err)
	}
	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		_ = client.Disconnect(ctx)
		return nil, fmt.Errorf("ping mongo: %w", err)
	}

	db := client.Database(database)
	s := &MongoStore{
		client:      client,
		apps:        db.Collection("applications"),
		deps:        db.Collection("dependencies"),
		routes:      db.Collection("routes"),
		deployments: db.Collection("deployments"),
		counters:    db.Collection("counters"),
	}
	if err := s.ensureIndexes(ctx); err != nil {
		_ = client.Disconnect(ctx)
		return nil, fmt.Errorf("ensure indexes: %w", err)
	}
	return s, nil
}

func (s *MongoStore) ensureIndexes(ctx context.Context) error {
	unique := func(field string) mongo.IndexModel {
		return mongo.IndexModel{
			Keys:    bson.D{{Key: field, Value: 1}},
			Options: options.Index().SetUnique(true),
		}
	}
	plain := func(field string) mongo.IndexModel {
		return mongo.IndexModel{Keys: bson.D{{Key: field, Value: 1}}}
	}

	if _, err := s.apps.Indexes().CreateMany(ctx, []mongo.IndexModel{unique("id"), unique("code")}); err != nil {
		return err
	}
	if _, err := s.deps.Indexes().CreateMany(ctx, []mongo.IndexModel{unique("id"), plain("consumer_id"), plain("provider_id")}); err != nil {
		return err
	}
	if _, err := s.routes.Indexes().CreateMany(ctx, []mongo.IndexModel{unique("id"), plain("application_id")}); err != nil {
		return err
	}
	if _, err := s.deployments.Indexes().CreateMany(ctx, []mongo.IndexModel{unique("id"), plain("application_id")}); err != nil {
		return err
	}
	return nil
}

// nextID allocates the next integer id for the named sequence by
// incrementing its counter document atomically.
func (s *MongoStore) nextID(ctx context.Context, name string) (int64, error) {
	var doc struct {
		Seq int64 `bson:"seq"`
	}
	err := s.counters.FindOneAndUpdate(ctx,
		bson.M{"_id": name},
		bson.M{"$inc": bson.M{"seq": 1}},
		options.FindOneAndUpdate().SetUpsert(true).SetReturnDocument(options.After),
	).Decode(&doc)
	if err != nil {
		return 0, fmt.Errorf("allocate %s id: %w", name, err)
	}
	return doc.Seq, nil
}

// ======================================================================
// Applications
// ======================================================================

func (s *MongoStore) ListApplications(ctx context.Context, filter ApplicationFilter) ([]catalog.Application, error) {
	filter = normalizeApplicationFilter(filter)

	match := bson.M{}
	if filter.Type != "" {
		match["type"] = filter.Type
	}
	if filter.Status != "" {
		match["status"] = filter.Status
	}
	if filter.Category != "" {
		match["category"] = filter.Category
	}

	// Sort with unset display orders last, which a plain sort cannot
	// express; substitute a sentinel via $ifNull.
	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: match}},
		{{Key: "$addFields", Value: bson.M{"sort_order": bson.M{"$ifNull": bson.A{"$display_order", displayOrderLast}}}}},
		{{Key: "$sort", Value: bson.D{{Key: "sort_order", Value: 1}, {Key: "name", Value: 1}}}},
		{{Key: "$skip", Value: int64(filter.Skip)}},
		{{Key: "$limit", Value: int64(filter.Limit)}},
	}

	cursor, err := s.apps.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, fmt.Errorf("list applications: %w", err)
	}
	var apps []catalog.Application
	if err := cursor.All(ctx, &apps); err != nil {
		return nil, fmt.Errorf("decode applications: %w", err)
	}
	return apps, nil
}

func (s *MongoStore) SearchApplications(ctx context.Context, query string, limit int) ([]catalog.Application, error) {
	limit = normalizeSearchLimit(limit)

	re := primitive.Regex{Pattern: regexp.QuoteMeta(query), Options: "i"}
	filter := bson.M{"$or": bson.A{
		bson.M{"name": re},
		bson.M{"code": re},
		bson.M{"display_name": re},
		bson.M{"description": re},
	}}

	cursor, err := s.apps.Find(ctx, filter,
		options.Find().SetSort(bson.D{{Key: "id", Value: 1}}).SetLimit(int64(limit)))
	if err != nil {
		return nil, fmt.Errorf("search applications: %w", err)
	}
	var apps []catalog.Application
	if err := cursor.All(ctx, &apps); err != nil {
		return nil, fmt.Errorf("decode applications: %w", err)
	}
	return apps, nil
}

func (s *MongoStore) GetApplication(ctx context.Context, id int64) (*catalog.Application, error) {
	return s.findApplication(ctx, bson.M{"id": id})
}

func (s *MongoStore) GetApplicationByCode(ctx context.Context, code string) (*catalog.Application, error) {
	return s.findApplication(ctx, bson.M{"code": code})
}

func (s *MongoStore) findApplication(ctx context.Context, filter bson.M) (*catalog.Application, error) {
	var app catalog.Application
	err := s.apps.FindOne(ctx, filter).Decode(&app)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find application: %w", err)
	}
	return &app, nil
}

func (s *MongoStore) CreateApplication(ctx context.Context, app *catalog.Application) error {
	count, err := s.apps.CountDocuments(ctx, bson.M{"code": app.Code})
	if err != nil {
		return fmt.Errorf("check application code: %w", err)
	}
	if count > 0 {
		return errors.New(errors.ErrCodeConflict, "application code %q already exists", app.Code)
	}

	id, err := s.nextID(ctx, "applications")
	if err != nil {
		return err
	}
	app.ID = id
	now := time.Now().UTC()
	app.CreatedAt = now
	app.UpdatedAt = now

	if _, err := s.apps.InsertOne(ctx, app); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return errors.New(errors.ErrCodeConflict, "application code %q already exists", app.Code)
		}
		return fmt.Errorf("insert application: %w", err)
	}
	return nil
}

func (s *MongoStore) UpdateApplication(ctx context.Context, app *catalog.Application) error {
	existing, err := s.GetApplication(ctx, app.ID)
	if err != nil {
		return err
	}
	if existing == nil {
		return errors.New(errors.ErrCodeNotFound, "application %d not found", app.ID)
	}

	count, err := s.apps.CountDocuments(ctx, bson.M{"code": app.Code, "id": bson.M{"$ne": app.ID}})
	if err != nil {
		return fmt.Errorf("check application code: %w", err)
	}
	if count > 0 {
		return errors.New(errors.ErrCodeConflict, "application code %q already exists", app.Code)
	}

	app.CreatedAt = existing.CreatedAt
	app.UpdatedAt = time.Now().UTC()

	if _, err := s.apps.ReplaceOne(ctx, bson.M{"id": app.ID}, app); err != nil {
		return fmt.Errorf("update application: %w", err)
	}
	return nil
}

func (s *MongoStore) DeleteApplication(ctx context.Context, id int64) error {
	res, err := s.apps.DeleteOne(ctx, bson.M{"id": id})
	if err != nil {
		return fmt.Errorf("delete application: %w", err)
	}
	if res.DeletedCount == 0 {
		return errors.New(errors.ErrCodeNotFound, "application %d not found", id)
	}

	// Cascade: dependencies in both directions, routes, deployments.
	if _, err := s.deps.DeleteMany(ctx, bson.M{"$or": bson.A{
		bson.M{"consumer_id": id},
		bson.M{"provider_id": id},
	}}); err != nil {
		return fmt.Errorf("cascade dependencies: %w", err)
	}
	if _, err := s.routes.DeleteMany(ctx, bson.M{"application_id": id}); err != nil {
		return fmt.Errorf("cascade routes: %w", err)
	}
	if _, err := s.deployments.DeleteMany(ctx, bson.M{"application_id": id}); err != nil {
		return fmt.Errorf("cascade deployments: %w", err)
	}
	return nil
}

// ======================================================================
// Dependencies
// ======================================================================

func (s *MongoStore) ListDependencies(ctx context.Context, filter DependencyFilter) ([]catalog.Dependency, error) {
	filter = normalizeDependencyFilter(filter)

	match := bson.M{}
	if filter.ConsumerID != 0 {
		match["consumer_id"] = filter.ConsumerID
	}
	if filter.ProviderID != 0 {
		match["provider_id"] = filter.ProviderID
	}

	cursor, err := s.deps.Find(ctx, match, options.Find().
		SetSort(bson.D{{Key: "id", Value: 1}}).
		SetSkip(int64(filter.Skip)).
		SetLimit(int64(filter.Limit)))
	if err != nil {
		return nil, fmt.Errorf("list dependencies: %w", err)
	}
	var deps []catalog.Dependency
	if err := cursor.All(ctx, &deps); err != nil {
		return nil, fmt.Errorf("decode dependencies: %w", err)
	}
	return deps, nil
}

func (s *MongoStore) GetDependency(ctx context.Context, id int64) (*catalog.Dependency, error) {
	var dep catalog.Dependency
	err := s.deps.FindOne(ctx, bson.M{"id": id}).Decode(&dep)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find dependency: %w", err)
	}
	return &dep, nil
}

func (s *MongoStore) CreateDependency(ctx context.Context, dep *catalog.Dependency) error {
	if err := s.checkEndpoints(ctx, dep); err != nil {
		return err
	}

	id, err := s.nextID(ctx, "dependencies")
	if err != nil {
		return err
	}
	dep.ID = id
	now := time.Now().UTC()
	dep.CreatedAt = now
	dep.UpdatedAt = now

	if _, err := s.deps.InsertOne(ctx, dep); err != nil {
		return fmt.Errorf("insert dependency: %w", err)
	}
	return nil
}

func (s *MongoStore) UpdateDependency(ctx context.Context, dep *catalog.Dependency) error {
	existing, err := s.GetDependency(ctx, dep.ID)
	if err != nil {
		return err
	}
	if existing == nil {
		return errors.New(errors.ErrCodeNotFound, "dependency %d not found", dep.ID)
	}
	if err := s.checkEndpoints(ctx, dep); err != nil {
		return err
	}

	dep.CreatedAt = existing.CreatedAt
	dep.UpdatedAt = time.Now().UTC()

	if _, err := s.deps.ReplaceOne(ctx, bson.M{"id": dep.ID}, dep); err != nil {
		return fmt.Errorf("update dependency: %w", err)
	}
	return nil
}

func (s *MongoStore) DeleteDependency(ctx context.Context, id int64) error {
	res, err := s.deps.DeleteOne(ctx, bson.M{"id": id})
	if err != nil {
		return fmt.Errorf("delete dependency: %w", err)
	}
	if res.DeletedCount == 0 {
		return errors.New(errors.ErrCodeNotFound, "dependency %d not found", id)
	}
	return nil
}

// checkEndpoints enforces referential integrity for a dependency record.
func (s *MongoStore) checkEndpoints(ctx context.Context, dep *catalog.Dependency) error {
	count, err := s.apps.CountDocuments(ctx, bson.M{"id": dep.ConsumerID})
	if err != nil {
		return fmt.Errorf("check consumer: %w", err)
	}
	if count == 0 {
		return errors.New(errors.ErrCodeIntegrity, "consumer application %d not found", dep.ConsumerID)
	}
	if dep.ProviderID != nil {
		count, err := s.apps.CountDocuments(ctx, bson.M{"id": *dep.ProviderID})
		if err != nil {
			return fmt.Errorf("check provider: %w", err)
		}
		if count == 0 {
			return errors.New(errors.ErrCodeIntegrity, "provider application %d not found", *dep.ProviderID)
		}
	}
	return nil
}

// ======================================================================
// Routes and deployments
// ======================================================================

func (s *MongoStore) ListRoutes(ctx context.Context, appID int64) ([]catalog.Route, error) {
	cursor, err := s.routes.Find(ctx, bson.M{"application_id": appID},
		options.Find().SetSort(bson.D{{Key: "id", Value: 1}}))
	if err != nil {
		return nil, fmt.Errorf("list routes: %w", err)
	}
	var routes []catalog.Route
	if err := cursor.All(ctx, &routes); err != nil {
		return nil, fmt.Errorf("decode routes: %w", err)
	}
	return routes, nil
}

func (s *MongoStore) CreateRoute(ctx context.Context, route *catalog.Route) error {
	count, err := s.apps.CountDocuments(ctx, bson.M{"id": route.ApplicationID})
	if err != nil {
		return fmt.Errorf("check application: %w", err)
	}
	if count == 0 {
		return errors.New(errors.ErrCodeIntegrity, "application %d not found", route.ApplicationID)
	}

	id, err := s.nextID(ctx, "routes")
	if err != nil {
		return err
	}
	route.ID = id
	now := time.Now().UTC()
	route.CreatedAt = now
	route.UpdatedAt = now

	if _, err := s.routes.InsertOne(ctx, route); err != nil {
		return fmt.Errorf("insert route: %w", err)
	}
	return nil
}

func (s *MongoStore) RouteCounts(ctx context.Context) (map[int64]int, error) {
	pipeline := mongo.Pipeline{
		{{Key: "$group", Value: bson.M{"_id": "$application_id", "count": bson.M{"$sum": 1}}}},
	}
	cursor, err := s.routes.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, fmt.Errorf("count routes: %w", err)
	}
	var rows []struct {
		ID    int64 `bson:"_id"`
		Count int   `bson:"count"`
	}
	if err := cursor.All(ctx, &rows); err != nil {
		return nil, fmt.Errorf("decode route counts: %w", err)
	}

	counts := make(map[int64]int, len(rows))
	for _, row := range rows {
		counts[row.ID] = row.Count
	}
	return counts, nil
}

func (s *MongoStore) ListDeployments(ctx context.Context, appID int64) ([]catalog.Deployment, error) {
	cursor, err := s.deployments.Find(ctx, bson.M{"application_id": appID},
		options.Find().SetSort(bson.D{{Key: "id", Value: 1}}))
	if err != nil {
		return nil, fmt.Errorf("list deployments: %w", err)
	}
	var deployments []catalog.Deployment
	if err := cursor.All(ctx, &deployments); err != nil {
		return nil, fmt.Errorf("decode deployments: %w", err)
	}
	return deployments, nil
}

func (s *MongoStore) CreateDeployment(ctx context.Context, deployment *catalog.Deployment) error {
	count, err := s.apps.CountDocuments(ctx, bson.M{"id": deployment.ApplicationID})
	if err != nil {
		return fmt.Errorf("check application: %w", err)
	}
	if count == 0 {
		return errors.New(errors.ErrCodeIntegrity, "application %d not found", deployment.ApplicationID)
	}

	id, err := s.nextID(ctx, "deployments")
	if err != nil {
		return err
	}
	deployment.ID = id
	now := time.Now().UTC()
	deployment.CreatedAt = now
	deployment.UpdatedAt = now

	if _, err := s.deployments.InsertOne(ctx, deployment); err != nil {
		return fmt.Errorf("insert deployment: %w", err)
	}
	return nil
}

// ======================================================================
// Snapshot and lifecycle
// ======================================================================

// Snapshot loads the full catalog ordered by id, which reproduces
// insertion order because ids are allocated sequentially.
func (s *MongoStore) Snapshot(ctx context.Context) ([]catalog.Application, []catalog.Dependency, error) {
	byID := options.Find().SetSort(bson.D{{Key: "id", Value: 1}})

	cursor, err := s.apps.Find(ctx, bson.M{}, byID)
	if err != nil {
		return nil, nil, fmt.Errorf("snapshot applications: %w", err)
	}
	var apps []catalog.Application
	if err := cursor.All(ctx, &apps); err != nil {
		return nil, nil, fmt.Errorf("decode applications: %w", err)
	}

	cursor, err = s.deps.Find(ctx, bson.M{}, byID)
	if err != nil {
		return nil, nil, fmt.Errorf("snapshot dependencies: %w", err)
	}
	var deps []catalog.Dependency
	if err := cursor.All(ctx, &deps); err != nil {
		return nil, nil, fmt.Errorf("decode dependencies: %w", err)
	}

	return apps, deps, nil
}

func (s *MongoStore) CountApplications(ctx context.Context) (int64, error) {
	count, err := s.apps.CountDocuments(ctx, bson.M{})
	if err != nil {
		return 0, fmt.Errorf("count applications: %w", err)
	}
	return count, nil
}

func (s *MongoStore) Ping(ctx context.Context) error {
	return s.client.Ping(ctx, readpref.Primary())
}

func (s *MongoStore) Close(ctx context.Context) error {
	return s.client.Disconnect(ctx)
}

// Ensure MongoStore implements Store.
var _ Store = (*MongoStore)(nil)
