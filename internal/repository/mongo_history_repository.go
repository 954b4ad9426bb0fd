package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/yukikurage/task-tracker-api/internal/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const historyCollection = "task_histories"

// MongoHistoryRepository keeps the audit trail in a MongoDB collection
type MongoHistoryRepository struct {
	collection *mongo.Collection
}

// NewMongoHistoryRepository creates a HistoryRepository backed by MongoDB
func NewMongoHistoryRepository(db *mongo.Database, log *logrus.Logger) HistoryRepository {
	collection := db.Collection(historyCollection)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	_, err := collection.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "task_id", Value: 1}, {Key: "created_at", Value: -1}}},
		{Keys: bson.D{{Key: "created_at", Value: -1}}},
	})
	if err != nil {
		log.WithError(err).Warn("failed to create task history indexes")
	}

	return &MongoHistoryRepository{collection: collection}
}

// Create appends one entry
func (r *MongoHistoryRepository) Create(ctx context.Context, entry *models.TaskHistory) error {
	if entry.ID == "" {
		entry.ID = uuid.NewString()
	}
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = time.Now()
	}

	if _, err := r.collection.InsertOne(ctx, entry); err != nil {
		return fmt.Errorf("failed to insert task history: %w", err)
	}
	return nil
}

// ListByTask returns the entries of one task, newest first
func (r *MongoHistoryRepository) ListByTask(ctx context.Context, taskID uint64) ([]models.TaskHistory, error) {
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	return r.find(ctx, bson.M{"task_id": taskID}, opts)
}

// ListRecent returns the latest entries across all tasks
func (r *MongoHistoryRepository) ListRecent(ctx context.Context, limit int) ([]models.TaskHistory, error) {
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	if limit > 0 {
		opts.SetLimit(int64(limit))
	}
	return r.find(ctx, bson.M{}, opts)
}

func (r *MongoHistoryRepository) find(ctx context.Context, filter bson.M, opts *options.FindOptions) ([]models.TaskHistory, error) {
	cursor, err := r.collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to list task history: %w", err)
	}
	defer cursor.Close(ctx)

	entries := []models.TaskHistory{}
	if err := cursor.All(ctx, &entries); err != nil {
		return nil, fmt.Errorf("failed to decode task history: %w", err)
	}
	return entries, nil
}
