package storage

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"donorledger/internal/core"
)

const (
	donorsCollection = "donors"
	runLogCollection = "runLog"
)

// DataStore is the slice of collection operations the ledger store needs,
// kept as an interface so tests can stub the driver.
type DataStore interface {
	BulkWrite(ctx context.Context, models []mongo.WriteModel,
		opts ...*options.BulkWriteOptions) (*mongo.BulkWriteResult, error)
	InsertOne(ctx context.Context, document interface{},
		opts ...*options.InsertOneOptions) (*mongo.InsertOneResult, error)
	Find(ctx context.Context, filter interface{},
		opts ...*options.FindOptions) (*mongo.Cursor, error)
}

// CollectionProvider yields a DataStore for a named collection.
type CollectionProvider interface {
	Collection(name string) DataStore
}

// mongoCollection adapts *mongo.Collection to DataStore.
type mongoCollection struct {
	*mongo.Collection
}

// MongoProvider adapts a connected client and database name to
// CollectionProvider.
type MongoProvider struct {
	client *mongo.Client
	dbName string
}

func NewMongoProvider(client *mongo.Client, dbName string) *MongoProvider {
	return &MongoProvider{client: client, dbName: dbName}
}

func (p *MongoProvider) Collection(name string) DataStore {
	return &mongoCollection{p.client.Database(p.dbName).Collection(name)}
}

// ConnectToMongoDB establishes and pings a MongoDB connection.
func ConnectToMongoDB(ctx context.Context, uri string) (*mongo.Client, error) {
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("connect to MongoDB: %w", err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		return nil, fmt.Errorf("ping MongoDB: %w", err)
	}
	return client, nil
}

// donorDoc is the BSON shape of one ledger entry.
type donorDoc struct {
	DonorID       int64  `bson:"donor_id"`
	Name          string `bson:"name"`
	LifetimeCents int64  `bson:"lifetime_cents"`
	LastDonation  string `bson:"last_donation"`
}

// RunLog records one completed merge in the runLog collection.
type RunLog struct {
	Collection string    `bson:"collection_name"`
	MergedAt   time.Time `bson:"merged_at"`
	Donors     int64     `bson:"donors_written"`
}

// MongoRepository is the MongoDB-backed ledger store.
type MongoRepository struct {
	provider   CollectionProvider
	disconnect func(ctx context.Context) error
}

func NewMongoRepository(provider CollectionProvider) *MongoRepository {
	return &MongoRepository{provider: provider}
}

// NewMongoRepositoryFromURI connects to MongoDB and returns a store whose
// Close disconnects the client.
func NewMongoRepositoryFromURI(ctx context.Context, uri, dbName string) (*MongoRepository, error) {
	client, err := ConnectToMongoDB(ctx, uri)
	if err != nil {
		return nil, err
	}
	repo := NewMongoRepository(NewMongoProvider(client, dbName))
	repo.disconnect = client.Disconnect
	return repo, nil
}

func (r *MongoRepository) Close() error {
	if r.disconnect == nil {
		return nil
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return r.disconnect(ctx)
}

// LoadAll returns the persisted ledger ordered by donor id.
func (r *MongoRepository) LoadAll(ctx context.Context) ([]core.LedgerEntry, error) {
	cursor, err := r.provider.Collection(donorsCollection).Find(ctx, bson.M{},
		options.Find().SetSort(bson.D{{Key: "donor_id", Value: 1}}))
	if err != nil {
		return nil, fmt.Errorf("find donors: %w", err)
	}
	defer cursor.Close(ctx)

	var entries []core.LedgerEntry
	for cursor.Next(ctx) {
		var doc donorDoc
		if err := cursor.Decode(&doc); err != nil {
			return nil, fmt.Errorf("decode donor document: %w", err)
		}
		date, err := core.ParseISODate(doc.LastDonation)
		if err != nil {
			return nil, fmt.Errorf("donor %d has corrupt last_donation %q: %w", doc.DonorID, doc.LastDonation, err)
		}
		entries = append(entries, core.LedgerEntry{
			DonorID:      doc.DonorID,
			Name:         doc.Name,
			Lifetime:     core.Money{Cents: doc.LifetimeCents},
			LastDonation: date,
		})
	}
	if err := cursor.Err(); err != nil {
		return nil, fmt.Errorf("iterate donor documents: %w", err)
	}
	return entries, nil
}

// ReplaceAll writes the merged table with one bulk of keyed upserts. The
// merged table always contains every prior donor id, so upserting each entry
// is a complete replacement; entries are never deleted. A run entry is then
// appended to the runLog collection.
func (r *MongoRepository) ReplaceAll(ctx context.Context, entries []core.LedgerEntry) error {
	if len(entries) == 0 {
		return nil
	}

	models := make([]mongo.WriteModel, 0, len(entries))
	for _, e := range entries {
		if err := e.Validate(); err != nil {
			return fmt.Errorf("refusing to persist invalid entry for donor %d: %w", e.DonorID, err)
		}
		doc := donorDoc{
			DonorID:       e.DonorID,
			Name:          e.Name,
			LifetimeCents: e.Lifetime.Cents,
			LastDonation:  e.LastDonation.ISO(),
		}
		models = append(models, mongo.NewReplaceOneModel().
			SetFilter(bson.M{"donor_id": doc.DonorID}).
			SetReplacement(doc).
			SetUpsert(true))
	}

	donors := r.provider.Collection(donorsCollection)
	if _, err := donors.BulkWrite(ctx, models, options.BulkWrite().SetOrdered(false)); err != nil {
		return fmt.Errorf("bulk write donors: %w", err)
	}

	runLog := r.provider.Collection(runLogCollection)
	entry := RunLog{
		Collection: donorsCollection,
		MergedAt:   time.Now().UTC(),
		Donors:     int64(len(entries)),
	}
	if _, err := runLog.InsertOne(ctx, entry); err != nil {
		return fmt.Errorf("insert run log: %w", err)
	}

	slog.InfoContext(ctx, "Ledger upserted to MongoDB", "donors", len(entries))
	return nil
}
