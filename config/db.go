package config

import (
	"bufio"
	"context"
	"database/sql"
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	_ "github.com/lib/pq"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

var (
	DB          *sql.DB
	MongoDB     *mongo.Database
	MongoClient *mongo.Client
)

const retryDelay = 5 * time.Second

// LoadEnv loads environment variables from a .env file if one is present.
func LoadEnv() error {
	possiblePaths := []string{
		".env",
		"../.env",
		os.Getenv("PALIKA_ENV"),
	}

	var loadedFile string
	for _, path := range possiblePaths {
		if path == "" {
			continue
		}
		if _, err := os.Stat(path); err == nil {
			loadedFile = path
			break
		}
	}

	if loadedFile == "" {
		// No .env file is fine when configuration comes from the environment.
		return nil
	}

	file, err := os.Open(loadedFile)
	if err != nil {
		return fmt.Errorf("error opening .env file: %v", err)
	}
	defer file.Close()

	log.Printf("Loading environment variables from %s", loadedFile)
	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		line := scanner.Text()
		if strings.TrimSpace(line) == "" || strings.HasPrefix(line, "#") {
			continue
		}
		parts := strings.SplitN(line, "=", 2)
		if len(parts) != 2 {
			continue
		}
		key := strings.TrimSpace(parts[0])
		value := strings.TrimSpace(parts[1])
		value = strings.Trim(value, `"'`)
		os.Setenv(key, value)
		if !strings.Contains(strings.ToLower(key), "password") && !strings.Contains(strings.ToLower(key), "token") {
			log.Printf("Set environment variable: %s", key)
		}
	}
	return scanner.Err()
}

// InitDBWithRetry attempts to connect to PostgreSQL with retries.
func InitDBWithRetry(maxRetries int) error {
	var err error
	for i := 0; i < maxRetries; i++ {
		err = InitDB()
		if err == nil {
			return nil
		}
		log.Printf("Failed to connect to PostgreSQL (attempt %d/%d): %v", i+1, maxRetries, err)
		time.Sleep(retryDelay)
	}
	return fmt.Errorf("failed to connect to PostgreSQL after %d attempts: %v", maxRetries, err)
}

func InitDB() error {
	connStr := getPostgresConnString()

	var err error
	DB, err = sql.Open("postgres", connStr)
	if err != nil {
		return fmt.Errorf("error opening PostgreSQL database: %v", err)
	}

	DB.SetMaxOpenConns(25)
	DB.SetMaxIdleConns(5)
	DB.SetConnMaxLifetime(5 * time.Minute)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err = DB.PingContext(ctx); err != nil {
		return fmt.Errorf("error connecting to PostgreSQL database: %v", err)
	}

	log.Printf("Successfully connected to PostgreSQL database")

	// The ward statistics tables are created by docs/schema.sql; verify at
	// least one of them exists so a misconfigured database fails fast.
	var tableExists bool
	err = DB.QueryRowContext(ctx, `
		SELECT EXISTS (
			SELECT FROM information_schema.tables
			WHERE table_name = 'ward_wise_delivery_places'
		)`).Scan(&tableExists)
	if err != nil {
		return fmt.Errorf("error checking ward statistics tables: %v", err)
	}
	if !tableExists {
		log.Printf("Warning: ward_wise_delivery_places table not found; run docs/schema.sql")
	}

	return nil
}

// InitMongoWithRetry attempts to connect to MongoDB with retries. MongoDB
// holds the public transport route catalog; the server can run without it,
// in which case transport endpoints report an internal error.
func InitMongoWithRetry(maxRetries int) error {
	mongoURI := getMongoURI()

	var err error
	for i := 0; i < maxRetries; i++ {
		err = connectMongo(mongoURI)
		if err == nil {
			return nil
		}
		log.Printf("Failed to connect to MongoDB (attempt %d/%d): %v", i+1, maxRetries, err)
		time.Sleep(retryDelay)
	}
	return fmt.Errorf("failed to connect to MongoDB after %d attempts: %v", maxRetries, err)
}

func connectMongo(uri string) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return fmt.Errorf("error connecting to MongoDB: %v", err)
	}

	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		return fmt.Errorf("error pinging MongoDB: %v", err)
	}

	MongoClient = client
	MongoDB = client.Database(getMongoDBName())
	log.Printf("Successfully connected to MongoDB database: %s", getMongoDBName())

	if err := createIndexes(ctx); err != nil {
		return fmt.Errorf("error creating indexes: %v", err)
	}

	return nil
}

func createIndexes(ctx context.Context) error {
	routeCollection := MongoDB.Collection("transport_routes")
	routeIndexes := []mongo.IndexModel{
		{
			// Slug generation does a read-then-insert; the unique index is
			// what actually rules out duplicate slugs under concurrency.
			Keys:    bson.D{{Key: "slug", Value: 1}},
			Options: options.Index().SetUnique(true).SetName("route_slug_idx"),
		},
		{
			Keys:    bson.D{{Key: "ward_numbers", Value: 1}},
			Options: options.Index().SetName("route_ward_idx"),
		},
		{
			Keys: bson.D{
				{Key: "name", Value: "text"},
				{Key: "start_point", Value: "text"},
				{Key: "end_point", Value: "text"},
			},
			Options: options.Index().SetName("route_text_search_idx"),
		},
	}

	if _, err := routeCollection.Indexes().CreateMany(ctx, routeIndexes); err != nil {
		return fmt.Errorf("error creating transport route indexes: %v", err)
	}
	log.Printf("Successfully created transport route indexes")
	return nil
}

// CloseDB closes both database connections.
func CloseDB() {
	if DB != nil {
		if err := DB.Close(); err != nil {
			log.Printf("Error closing PostgreSQL connection: %v", err)
		}
	}
	if MongoClient != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := MongoClient.Disconnect(ctx); err != nil {
			log.Printf("Error closing MongoDB connection: %v", err)
		}
	}
}
