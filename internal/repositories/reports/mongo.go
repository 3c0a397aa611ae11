package reports

import (
	"context"
	"time"

	"github.com/abhi-19-09-2006/AI-Presentation-coach/internal/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const reportsCollection = "analysis_reports"

type MongoRepository struct {
	db *mongo.Database
}

func NewMongoRepository(db *mongo.Database) *MongoRepository {
	return &MongoRepository{db: db}
}

// EnsureIndexes configures indexes for the analysis_reports collection.
// Called on startup from main after Mongo has connected.
func (r *MongoRepository) EnsureIndexes(ctx context.Context) error {
	col := r.db.Collection(reportsCollection)

	// Compound index on (user_id, created_at) to support newest-first history.
	model := mongo.IndexModel{
		Keys: bson.D{
			{Key: "user_id", Value: 1},
			{Key: "created_at", Value: -1},
		},
		Options: options.Index().SetName("idx_user_created"),
	}

	_, err := col.Indexes().CreateOne(ctx, model)
	return err
}

func (r *MongoRepository) Save(ctx context.Context, report *models.AnalysisReport) error {
	if report.CreatedAt.IsZero() {
		report.CreatedAt = time.Now().UTC()
	}

	col := r.db.Collection(reportsCollection)
	_, err := col.InsertOne(ctx, report)
	return err
}

func (r *MongoRepository) ListByUser(ctx context.Context, userID string, limit int64) ([]models.AnalysisReport, error) {
	if limit <= 0 || limit > 100 {
		limit = 10
	}

	col := r.db.Collection(reportsCollection)

	opts := options.Find().
		SetSort(bson.D{{Key: "created_at", Value: -1}}).
		SetLimit(limit)

	cur, err := col.Find(ctx, bson.M{"user_id": userID}, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var reports []models.AnalysisReport
	for cur.Next(ctx) {
		var rep models.AnalysisReport
		if err := cur.Decode(&rep); err != nil {
			continue
		}
		reports = append(reports, rep)
	}
	return reports, cur.Err()
}

func (r *MongoRepository) DeleteByUser(ctx context.Context, userID string) (int64, error) {
	col := r.db.Collection(reportsCollection)
	res, err := col.DeleteMany(ctx, bson.M{"user_id": userID})
	if err != nil {
		return 0, err
	}
	return res.DeletedCount, nil
}

func (r *MongoRepository) Usage(ctx context.Context, userID string) (*Usage, error) {
	col := r.db.Collection(reportsCollection)

	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: bson.M{"user_id": userID}}},
		{{Key: "$group", Value: bson.M{
			"_id":         nil,
			"count":       bson.M{"$sum": 1},
			"total_bytes": bson.M{"$sum": "$size_bytes"},
		}}},
	}

	cur, err := col.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	usage := &Usage{}
	if cur.Next(ctx) {
		var row struct {
			Count      int64 `bson:"count"`
			TotalBytes int64 `bson:"total_bytes"`
		}
		if err := cur.Decode(&row); err != nil {
			return nil, err
		}
		usage.ReportCount = row.Count
		usage.TotalBytes = row.TotalBytes
	}
	return usage, cur.Err()
}
