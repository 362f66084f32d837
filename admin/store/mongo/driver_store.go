package mongo

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/paddocklab/racing-admin/shared/models"
)

// DriverStore is the MongoDB store for the tbl_driver collection.
type DriverStore struct {
	collection *mongo.Collection
}

// NewDriverStore creates a new DriverStore instance over the given collection.
func NewDriverStore(collection *mongo.Collection) *DriverStore {
	return &DriverStore{collection: collection}
}

// ListDrivers retrieves every driver document in the collection.
func (ds *DriverStore) ListDrivers(ctx context.Context) ([]models.Driver, error) {
	cursor, err := ds.collection.Find(ctx, bson.M{})
	if err != nil {
		return nil, fmt.Errorf("failed to find drivers: %w", err)
	}
	defer cursor.Close(ctx)

	var drivers []models.Driver
	if err = cursor.All(ctx, &drivers); err != nil {
		return nil, fmt.Errorf("failed to decode drivers: %w", err)
	}
	return drivers, nil
}

// MaxSequentialID returns the highest assigned sequential id, or 0 when the
// collection is empty. Implemented as an id-descending, limit-1 query.
func (ds *DriverStore) MaxSequentialID(ctx context.Context) (int64, error) {
	opts := options.FindOne().SetSort(bson.D{{Key: "id", Value: -1}})
	var top models.Driver
	err := ds.collection.FindOne(ctx, bson.M{}, opts).Decode(&top)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return 0, nil
		}
		return 0, fmt.Errorf("failed to query max driver id: %w", err)
	}
	return top.SequentialID, nil
}

// CreateDriver inserts a new driver document and returns the document key.
func (ds *DriverStore) CreateDriver(ctx context.Context, driver *models.Driver) (string, error) {
	doc := *driver
	doc.DocID = primitive.NewObjectID().Hex()
	if _, err := ds.collection.InsertOne(ctx, doc); err != nil {
		return "", fmt.Errorf("failed to create driver %s: %w", doc.DisplayName(), err)
	}
	return doc.DocID, nil
}

// UpdateDriver overwrites the whole document identified by docID.
func (ds *DriverStore) UpdateDriver(ctx context.Context, docID string, driver *models.Driver) error {
	doc := *driver
	doc.DocID = docID
	res, err := ds.collection.ReplaceOne(ctx, bson.M{"_id": docID}, doc)
	if err != nil {
		return fmt.Errorf("failed to update driver %s: %w", docID, err)
	}
	if res.MatchedCount == 0 {
		return fmt.Errorf("driver %s not found for update", docID)
	}
	return nil
}

// DeleteDriver removes the document identified by docID.
func (ds *DriverStore) DeleteDriver(ctx context.Context, docID string) error {
	res, err := ds.collection.DeleteOne(ctx, bson.M{"_id": docID})
	if err != nil {
		return fmt.Errorf("failed to delete driver %s: %w", docID, err)
	}
	if res.DeletedCount == 0 {
		return fmt.Errorf("driver %s not found for delete", docID)
	}
	return nil
}
