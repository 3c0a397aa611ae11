package database

import (
	"context"
	"log"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// ConnectMongo connects to MongoDB and returns the client plus the database
// handle used for analysis report storage.
func ConnectMongo(mongoURI string) (*mongo.Client, *mongo.Database, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	clientOptions := options.Client().ApplyURI(mongoURI)
	clientOptions.SetServerSelectionTimeout(10 * time.Second)

	client, err := mongo.Connect(ctx, clientOptions)
	if err != nil {
		return nil, nil, err
	}

	pingCtx, pingCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer pingCancel()

	if err = client.Ping(pingCtx, nil); err != nil {
		client.Disconnect(context.Background())
		return nil, nil, err
	}

	log.Println("✅ Connected to MongoDB")
	return client, client.Database(mongoDatabaseName(mongoURI)), nil
}

// mongoDatabaseName extracts the database name from the connection URI,
// falling back to "ai_coach".
func mongoDatabaseName(mongoURI string) string {
	dbName := "ai_coach"
	parts := strings.Split(mongoURI, "/")
	if len(parts) > 3 {
		dbPart := strings.Split(parts[len(parts)-1], "?")[0]
		if dbPart != "" {
			dbName = dbPart
		}
	}
	return dbName
}

// DisconnectMongo closes the MongoDB connection with a bounded timeout.
func DisconnectMongo(client *mongo.Client) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return client.Disconnect(ctx)
}
