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

// TeamStore is the MongoDB store for the tbl_team collection.
type TeamStore struct {
	collection *mongo.Collection
}

// NewTeamStore creates a new TeamStore instance over the given collection.
func NewTeamStore(collection *mongo.Collection) *TeamStore {
	return &TeamStore{collection: collection}
}

// ListTeams retrieves every team document in the collection.
func (ts *TeamStore) ListTeams(ctx context.Context) ([]models.Team, error) {
	cursor, err := ts.collection.Find(ctx, bson.M{})
	if err != nil {
		return nil, fmt.Errorf("failed to find teams: %w", err)
	}
	defer cursor.Close(ctx)

	var teams []models.Team
	if err = cursor.All(ctx, &teams); err != nil {
		return nil, fmt.Errorf("failed to decode teams: %w", err)
	}
	return teams, nil
}

// MaxSequentialID returns the highest assigned sequential id, or 0 when the
// collection is empty. Teams number independently from drivers.
func (ts *TeamStore) MaxSequentialID(ctx context.Context) (int64, error) {
	opts := options.FindOne().SetSort(bson.D{{Key: "id", Value: -1}})
	var top models.Team
	err := ts.collection.FindOne(ctx, bson.M{}, opts).Decode(&top)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return 0, nil
		}
		return 0, fmt.Errorf("failed to query max team id: %w", err)
	}
	return top.SequentialID, nil
}

// CreateTeam inserts a new team document and returns the document key.
func (ts *TeamStore) CreateTeam(ctx context.Context, team *models.Team) (string, error) {
	doc := *team
	doc.DocID = primitive.NewObjectID().Hex()
	if _, err := ts.collection.InsertOne(ctx, doc); err != nil {
		return "", fmt.Errorf("failed to create team %s: %w", doc.Name, err)
	}
	return doc.DocID, nil
}

// UpdateTeam overwrites the whole document identified by docID, including the
// id_driver reference set.
func (ts *TeamStore) UpdateTeam(ctx context.Context, docID string, team *models.Team) error {
	doc := *team
	doc.DocID = docID
	res, err := ts.collection.ReplaceOne(ctx, bson.M{"_id": docID}, doc)
	if err != nil {
		return fmt.Errorf("failed to update team %s: %w", docID, err)
	}
	if res.MatchedCount == 0 {
		return fmt.Errorf("team %s not found for update", docID)
	}
	return nil
}

// DeleteTeam removes the document identified by docID.
func (ts *TeamStore) DeleteTeam(ctx context.Context, docID string) error {
	res, err := ts.collection.DeleteOne(ctx, bson.M{"_id": docID})
	if err != nil {
		return fmt.Errorf("failed to delete team %s: %w", docID, err)
	}
	if res.DeletedCount == 0 {
		return fmt.Errorf("team %s not found for delete", docID)
	}
	return nil
}
