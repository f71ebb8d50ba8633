package mongodb

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/pharmaport/portal-backend/internal/models"
)

// DraftRepository implements draft.Persistence on a MongoDB collection.
// One document per (namespace, subject); writes are upserts carrying a
// monotonically increasing version.
type DraftRepository struct {
	collection *mongo.Collection
}

// NewDraftRepository creates the repository over the registrationDrafts
// collection.
func NewDraftRepository(db *mongo.Database) *DraftRepository {
	return &DraftRepository{
		collection: db.Collection("registrationDrafts"),
	}
}

// EnsureIndexes creates the unique (namespace, subject) index. Safe to call
// on every startup.
func (r *DraftRepository) EnsureIndexes(ctx context.Context) error {
	_, err := r.collection.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "namespace", Value: 1}, {Key: "subject", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	return err
}

// Save upserts the whitelisted draft subset for a subject.
func (r *DraftRepository) Save(ctx context.Context, d models.PersistedDraft) error {
	filter := bson.M{"namespace": d.Namespace, "subject": d.Subject}
	update := bson.M{
		"$set": bson.M{
			"currentStep": d.CurrentStep,
			"sections":    d.Sections,
			"updatedAt":   time.Now(),
		},
		"$setOnInsert": bson.M{
			"namespace": d.Namespace,
			"subject":   d.Subject,
		},
		"$inc": bson.M{"version": 1},
	}

	opts := options.FindOneAndUpdate().SetUpsert(true).SetReturnDocument(options.After)

	var saved models.PersistedDraft
	if err := r.collection.FindOneAndUpdate(ctx, filter, update, opts).Decode(&saved); err != nil {
		return err
	}
	return nil
}

// Load fetches the persisted draft, or nil when the subject has none.
func (r *DraftRepository) Load(ctx context.Context, namespace, subject string) (*models.PersistedDraft, error) {
	filter := bson.M{"namespace": namespace, "subject": subject}

	var d models.PersistedDraft
	err := r.collection.FindOne(ctx, filter).Decode(&d)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil
		}
		return nil, err
	}
	return &d, nil
}

// Delete removes the persisted draft. Deleting a missing draft is not an
// error.
func (r *DraftRepository) Delete(ctx context.Context, namespace, subject string) error {
	_, err := r.collection.DeleteOne(ctx, bson.M{"namespace": namespace, "subject": subject})
	return err
}
