package store

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"time"

	"github.com/giygas/openbnf/entities"
	"github.com/giygas/openbnf/interfaces"
	"github.com/giygas/openbnf/logging"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

// Compile-time check to ensure MongoStore implements RecordStore
var _ interfaces.RecordStore = (*MongoStore)(nil)

const importBatchSize = 1000

// MongoOptions configures the MongoDB backend.
type MongoOptions struct {
	URI             string
	Database        string
	DrugsCollection string
	CodesCollection string
	QueryTimeout    time.Duration
}

// MongoStore is the RecordStore backed by the drugs and codes collections.
type MongoStore struct {
	client  *mongo.Client
	drugs   *mongo.Collection
	codes   *mongo.Collection
	timeout time.Duration
}

// NewMongoStore connects to MongoDB and checks the connection with a ping.
func NewMongoStore(ctx context.Context, opts MongoOptions) (*MongoStore, error) {
	connectCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(connectCtx, options.Client().ApplyURI(opts.URI))
	if err != nil {
		return nil, fmt.Errorf("failed to connect to MongoDB: %w", err)
	}

	if err := client.Ping(connectCtx, readpref.Primary()); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("failed to ping MongoDB: %w", err)
	}

	db := client.Database(opts.Database)
	logging.Info("Connected to MongoDB", "database", opts.Database)

	timeout := opts.QueryTimeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}

	return &MongoStore{
		client:  client,
		drugs:   db.Collection(opts.DrugsCollection),
		codes:   db.Collection(opts.CodesCollection),
		timeout: timeout,
	}, nil
}

// Close disconnects the client.
func (m *MongoStore) Close() error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return m.client.Disconnect(ctx)
}

// containsFilter matches field against term as a literal, case-insensitive substring.
func containsFilter(field, term string) bson.M {
	return bson.M{field: primitive.Regex{Pattern: regexp.QuoteMeta(term), Options: "i"}}
}

func (m *MongoStore) FindAll(ctx context.Context) ([]entities.Drug, error) {
	return m.findDrugs(ctx, bson.D{})
}

func (m *MongoStore) FindByNameSubstring(ctx context.Context, term string) ([]entities.Drug, error) {
	return m.findDrugs(ctx, containsFilter("name", term))
}

func (m *MongoStore) FindOneByExactName(ctx context.Context, name string) (*entities.Drug, error) {
	ctx, cancel := context.WithTimeout(ctx, m.timeout)
	defer cancel()

	var drug entities.Drug
	err := m.drugs.FindOne(ctx, bson.M{"name": name}).Decode(&drug)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, fmt.Errorf("drug %q: %w", name, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find drug %q: %w", name, err)
	}
	return &drug, nil
}

func (m *MongoStore) FindByFieldSubstring(ctx context.Context, field, term string) ([]entities.Drug, error) {
	if f, ok := entities.LookupField(field); !ok || !entities.IsSearchable(f) {
		return nil, fmt.Errorf("%s: %w", field, ErrUnsearchableField)
	}
	return m.findDrugs(ctx, containsFilter(field, term))
}

func (m *MongoStore) FindOneByCode(ctx context.Context, code string) (*entities.CodeMapping, error) {
	ctx, cancel := context.WithTimeout(ctx, m.timeout)
	defer cancel()

	var mapping entities.CodeMapping
	err := m.codes.FindOne(ctx, bson.M{"code": code}).Decode(&mapping)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, fmt.Errorf("code %q: %w", code, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find code %q: %w", code, err)
	}
	return &mapping, nil
}

func (m *MongoStore) Count(ctx context.Context) (int64, error) {
	ctx, cancel := context.WithTimeout(ctx, m.timeout)
	defer cancel()

	n, err := m.drugs.CountDocuments(ctx, bson.D{})
	if err != nil {
		return 0, fmt.Errorf("failed to count drugs: %w", err)
	}
	return n, nil
}

func (m *MongoStore) Ping(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, m.timeout)
	defer cancel()
	return m.client.Ping(ctx, readpref.Primary())
}

func (m *MongoStore) findDrugs(ctx context.Context, filter any) ([]entities.Drug, error) {
	ctx, cancel := context.WithTimeout(ctx, m.timeout)
	defer cancel()

	cursor, err := m.drugs.Find(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to find drugs: %w", err)
	}
	defer cursor.Close(ctx)

	drugs := []entities.Drug{}
	if err := cursor.All(ctx, &drugs); err != nil {
		return nil, fmt.Errorf("failed to decode drugs: %w", err)
	}
	return drugs, nil
}

// ImportDrugs inserts seed documents into the drugs collection in batches.
// With drop set the collection is emptied first.
func (m *MongoStore) ImportDrugs(ctx context.Context, docs []map[string]any, drop bool) (int, error) {
	return m.importInto(ctx, m.drugs, docs, drop)
}

// ImportCodes inserts code mappings into the codes collection.
func (m *MongoStore) ImportCodes(ctx context.Context, codes []entities.CodeMapping, drop bool) (int, error) {
	docs := make([]map[string]any, len(codes))
	for i, c := range codes {
		docs[i] = map[string]any{"code": c.Code, "name": c.Name}
	}
	return m.importInto(ctx, m.codes, docs, drop)
}

// EnsureIndexes creates the lookup indexes used by the API.
func (m *MongoStore) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, time.Minute)
	defer cancel()

	if _, err := m.drugs.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "name", Value: 1}},
	}); err != nil {
		return fmt.Errorf("failed to create drugs name index: %w", err)
	}

	if _, err := m.codes.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "code", Value: 1}},
		Options: options.Index().SetUnique(true),
	}); err != nil {
		return fmt.Errorf("failed to create codes index: %w", err)
	}
	return nil
}

func (m *MongoStore) importInto(ctx context.Context, collection *mongo.Collection, docs []map[string]any, drop bool) (int, error) {
	if drop {
		if err := collection.Drop(ctx); err != nil {
			return 0, fmt.Errorf("failed to drop collection %s: %w", collection.Name(), err)
		}
		logging.Warn("Dropped collection before import", "collection", collection.Name())
	}

	inserted := 0
	batch := make([]any, 0, importBatchSize)
	flush := func() error {
		if len(batch) == 0 {
			return nil
		}
		batchCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
		defer cancel()
		if _, err := collection.InsertMany(batchCtx, batch); err != nil {
			return fmt.Errorf("failed to insert batch into %s: %w", collection.Name(), err)
		}
		inserted += len(batch)
		logging.Debug("Inserted batch", "collection", collection.Name(), "size", len(batch))
		batch = batch[:0]
		return nil
	}

	for _, doc := range docs {
		// Seed identities are not portable between databases
		delete(doc, "_id")
		batch = append(batch, doc)
		if len(batch) >= importBatchSize {
			if err := flush(); err != nil {
				return inserted, err
			}
		}
	}
	if err := flush(); err != nil {
		return inserted, err
	}

	logging.Info("Import completed", "collection", collection.Name(), "documents", inserted)
	return inserted, nil
}
