package main

import (
	"context"
	"log"
	"os"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Run this script once to create database indexes
// Usage: go run scripts/create_indexes.go
func main() {
	ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
	defer cancel()

	mongoURI := os.Getenv("MONGO_URI")
	if mongoURI == "" {
		log.Fatal("MONGO_URI is required")
	}
	clientOptions := options.Client().ApplyURI(mongoURI).SetServerSelectionTimeout(30 * time.Second)

	log.Println("Connecting to MongoDB...")
	client, err := mongo.Connect(ctx, clientOptions)
	if err != nil {
		log.Fatalf("Failed to create client: %v", err)
	}
	defer client.Disconnect(ctx)

	if err := client.Ping(ctx, nil); err != nil {
		log.Fatalf("Failed to connect to MongoDB: %v", err)
	}
	log.Println("Connected to MongoDB")

	dbName := os.Getenv("MONGO_DB")
	if dbName == "" {
		dbName = "pharmaport"
	}
	db := client.Database(dbName)

	drafts := db.Collection("registrationDrafts")

	// One draft per (namespace, subject)
	_, err = drafts.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "namespace", Value: 1}, {Key: "subject", Value: 1}},
		Options: options.Index().SetUnique(true).SetName("idx_namespace_subject"),
	})
	if err != nil {
		log.Fatalf("Failed to create draft index: %v", err)
	}

	// Sweep abandoned drafts after 90 days of inactivity
	_, err = drafts.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "updatedAt", Value: 1}},
		Options: options.Index().SetExpireAfterSeconds(90 * 24 * 3600).SetName("idx_updatedAt_ttl"),
	})
	if err != nil {
		log.Fatalf("Failed to create TTL index: %v", err)
	}

	log.Println("Indexes created")
}
