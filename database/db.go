package database

import (
	"context"
	"log"
	"time"

	"bookline/config"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// MongoClient is the global MongoDB client instance. It stays nil when no
// database URL is configured; transcripts are best effort and the service
// runs without them.
var MongoClient *mongo.Client

// InitDB initializes the MongoDB connection if one is configured.
func InitDB() {
	if config.AppConfig.DatabaseURL == "" {
		log.Println("no database URL configured, transcript storage disabled")
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	clientOptions := options.Client().ApplyURI(config.AppConfig.DatabaseURL)
	client, err := mongo.Connect(ctx, clientOptions)
	if err != nil {
		log.Printf("failed to connect to MongoDB, transcript storage disabled: %v", err)
		return
	}
	if err := client.Ping(ctx, nil); err != nil {
		log.Printf("failed to ping MongoDB, transcript storage disabled: %v", err)
		return
	}
	MongoClient = client
	log.Println("Connected to MongoDB successfully!")
}
