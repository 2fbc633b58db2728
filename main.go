package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/mux"
	_ "github.com/lib/pq"
	"github.com/rs/cors"

	"palika_profile/config"
	"palika_profile/handlers"
	"palika_profile/middleware"
	"palika_profile/models"
	"palika_profile/repository"
)

type HealthResponse struct {
	Status    string `json:"status"`
	DBStatus  string `json:"db_status"`
	DBDetails struct {
		Host     string   `json:"host"`
		Port     string   `json:"port"`
		Database string   `json:"database"`
		Tables   []string `json:"tables,omitempty"`
	} `json:"db_details"`
	MongoStatus string `json:"mongo_status"`
	Error       string `json:"error,omitempty"`
}

func healthCheck(w http.ResponseWriter, r *http.Request) {
	response := HealthResponse{
		Status: "ok",
	}

	if config.DB == nil {
		response.Status = "error"
		response.DBStatus = "not_initialized"
		response.Error = "Database connection not initialized"
	} else if err := config.DB.Ping(); err != nil {
		response.Status = "error"
		response.DBStatus = "connection_error"
		response.Error = fmt.Sprintf("Database ping failed: %v", err)
	} else {
		response.DBStatus = "connected"

		response.DBDetails.Host = os.Getenv("DB_HOST")
		response.DBDetails.Port = os.Getenv("DB_PORT")
		response.DBDetails.Database = os.Getenv("DB_NAME")

		var existingTables []string
		for _, f := range models.Features() {
			var exists bool
			err := config.DB.QueryRow(`
				SELECT EXISTS (
					SELECT FROM information_schema.tables
					WHERE table_name = $1
				)`, f.Table).Scan(&exists)
			if err == nil && exists {
				existingTables = append(existingTables, f.Table)
			}
		}
		response.DBDetails.Tables = existingTables
	}

	if config.MongoClient == nil {
		response.MongoStatus = "not_initialized"
	} else if err := config.MongoClient.Ping(r.Context(), nil); err != nil {
		response.Status = "error"
		response.MongoStatus = "connection_error"
	} else {
		response.MongoStatus = "connected"
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(response)
}

func main() {
	startTime := time.Now()
	log.Printf("Starting server initialization at %s", startTime.Format(time.RFC3339))

	// Load environment variables first
	if err := config.LoadEnv(); err != nil {
		log.Printf("Warning: Error loading .env file: %v", err)
	}

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
		log.Printf("No PORT environment variable found, using default: %s", port)
	}

	// Initialize PostgreSQL database with retries
	log.Println("Initializing PostgreSQL database...")
	if err := config.InitDBWithRetry(5); err != nil {
		log.Fatalf("Failed to initialize PostgreSQL: %v", err)
	}
	log.Println("PostgreSQL database initialized successfully")
	defer config.CloseDB()

	// Initialize MongoDB for the public transport registry
	log.Println("Initializing MongoDB...")
	if err := config.InitMongoWithRetry(5); err != nil {
		log.Fatalf("Failed to initialize MongoDB: %v", err)
	}
	log.Println("MongoDB initialized successfully")

	config.InitCache()

	// Media uploads are optional; without a bucket the API still serves
	// everything except file attachments.
	var store repository.ObjectStore
	if bucket := config.MediaBucket(); bucket != "" {
		s3Store, err := repository.NewS3ObjectStore(context.Background(), repository.S3Config{
			Bucket:    bucket,
			Region:    config.MediaRegion(),
			Endpoint:  config.MediaEndpoint(),
			PathStyle: config.MediaPathStyle(),
		})
		if err != nil {
			log.Fatalf("Failed to initialize media store: %v", err)
		}
		store = s3Store
		log.Printf("Media store initialized with bucket %s", bucket)
	} else {
		log.Println("MEDIA_S3_BUCKET not set; media uploads disabled")
	}

	mediaRepo := repository.NewMediaRepo(config.DB, store)
	handlers.Init(
		repository.NewWardStatsRepo(config.DB),
		repository.NewRoadsRepo(config.DB, mediaRepo),
		repository.NewParkingRepo(config.DB, mediaRepo),
		repository.NewPetrolPumpsRepo(config.DB, mediaRepo),
		repository.NewTransportRepo(config.MongoDB),
	)

	r := mux.NewRouter()

	// CORS configuration
	corsHandler := cors.New(cors.Options{
		AllowedOrigins: []string{
			"http://localhost:3000",
			"http://localhost:5173",
			"http://127.0.0.1:3000",
			config.BaseURL(),
		},
		AllowedMethods: []string{
			"GET", "POST", "PUT", "DELETE", "OPTIONS",
		},
		AllowedHeaders: []string{
			"Accept",
			"Authorization",
			"Content-Type",
			"X-Requested-With",
			"Origin",
		},
		ExposedHeaders: []string{
			"Content-Length",
			"Content-Type",
		},
		AllowCredentials: false,
		MaxAge:           86400,
	})

	// Apply middlewares in correct order
	r.Use(corsHandler.Handler)
	r.Use(middleware.RecoveryMiddleware)
	r.Use(middleware.LoggingMiddleware)
	r.Use(middleware.ActorMiddleware)
	r.Use(middleware.CompressHandler)

	api := r.PathPrefix("/api/v1").Subrouter()
	registerRoutes(api)
	log.Println("Routes registered successfully")

	api.HandleFunc("/health/detailed", healthCheck).Methods("GET")

	srv := &http.Server{
		Handler:           r,
		Addr:              ":" + port,
		WriteTimeout:      15 * time.Second,
		ReadTimeout:       15 * time.Second,
		IdleTimeout:       60 * time.Second,
		ReadHeaderTimeout: 5 * time.Second,
		MaxHeaderBytes:    1 << 20,
	}

	serverErrors := make(chan error, 1)

	go func() {
		log.Printf("Starting server on port %s...", port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Printf("Server error: %v", err)
			serverErrors <- err
		}
	}()

	log.Printf("Server is running at http://localhost:%s", port)
	log.Printf("Health check endpoint: http://localhost:%s/api/v1/health", port)
	log.Printf("Sitemap endpoint: http://localhost:%s/api/v1/sitemaps", port)

	// Handle graceful shutdown
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	select {
	case <-stop:
		log.Println("Shutdown signal received")
	case err := <-serverErrors:
		log.Printf("Server error received: %v", err)
	}

	log.Println("Shutting down server...")
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Printf("Error during server shutdown: %v", err)
	} else {
		log.Println("Server shutdown completed successfully")
	}

	if config.MongoClient != nil {
		if err := config.MongoClient.Disconnect(ctx); err != nil {
			log.Printf("Error disconnecting MongoDB: %v", err)
		}
	}
}

func registerRoutes(api *mux.Router) {
	// Ward statistics routes
	api.HandleFunc("/features", handlers.GetFeatures).Methods("GET")
	api.HandleFunc("/stats/{feature}", handlers.GetWardStats).Methods("GET")
	api.HandleFunc("/stats/{feature}", handlers.CreateWardStat).Methods("POST")
	api.HandleFunc("/stats/{feature}/summary", handlers.GetWardStatsSummary).Methods("GET")
	api.HandleFunc("/stats/{feature}/aggregate", handlers.GetWardStatsAggregate).Methods("GET")
	api.HandleFunc("/stats/{feature}/ward/{ward}", handlers.GetWardStatsByWard).Methods("GET")
	api.HandleFunc("/stats/{feature}/{id}", handlers.UpdateWardStat).Methods("PUT")
	api.HandleFunc("/stats/{feature}/{id}", handlers.DeleteWardStat).Methods("DELETE")

	// Road registry routes
	api.HandleFunc("/roads", handlers.ListRoads).Methods("GET")
	api.HandleFunc("/roads", handlers.CreateRoad).Methods("POST")
	api.HandleFunc("/roads/slug/{slug}", handlers.GetRoadBySlug).Methods("GET")
	api.HandleFunc("/roads/{id}", handlers.GetRoad).Methods("GET")
	api.HandleFunc("/roads/{id}", handlers.UpdateRoad).Methods("PUT")
	api.HandleFunc("/roads/{id}", handlers.DeleteRoad).Methods("DELETE")
	api.HandleFunc("/roads/{id}/media", handlers.UploadRoadMedia).Methods("POST")

	// Parking facility registry routes
	api.HandleFunc("/parking-facilities", handlers.ListParkingFacilities).Methods("GET")
	api.HandleFunc("/parking-facilities", handlers.CreateParkingFacility).Methods("POST")
	api.HandleFunc("/parking-facilities/slug/{slug}", handlers.GetParkingFacilityBySlug).Methods("GET")
	api.HandleFunc("/parking-facilities/{id}", handlers.GetParkingFacility).Methods("GET")
	api.HandleFunc("/parking-facilities/{id}", handlers.UpdateParkingFacility).Methods("PUT")
	api.HandleFunc("/parking-facilities/{id}", handlers.DeleteParkingFacility).Methods("DELETE")
	api.HandleFunc("/parking-facilities/{id}/media", handlers.UploadParkingFacilityMedia).Methods("POST")

	// Petrol pump registry routes
	api.HandleFunc("/petrol-pumps", handlers.ListPetrolPumps).Methods("GET")
	api.HandleFunc("/petrol-pumps", handlers.CreatePetrolPump).Methods("POST")
	api.HandleFunc("/petrol-pumps/slug/{slug}", handlers.GetPetrolPumpBySlug).Methods("GET")
	api.HandleFunc("/petrol-pumps/{id}", handlers.GetPetrolPump).Methods("GET")
	api.HandleFunc("/petrol-pumps/{id}", handlers.UpdatePetrolPump).Methods("PUT")
	api.HandleFunc("/petrol-pumps/{id}", handlers.DeletePetrolPump).Methods("DELETE")
	api.HandleFunc("/petrol-pumps/{id}/media", handlers.UploadPetrolPumpMedia).Methods("POST")

	// Public transport routes
	api.HandleFunc("/public-transport", handlers.ListTransportRoutes).Methods("GET")
	api.HandleFunc("/public-transport", handlers.CreateTransportRoute).Methods("POST")
	api.HandleFunc("/public-transport/nearby-stops", handlers.GetNearbyTransportStops).Methods("GET")
	api.HandleFunc("/public-transport/slug/{slug}", handlers.GetTransportRouteBySlug).Methods("GET")
	api.HandleFunc("/public-transport/{id}", handlers.GetTransportRoute).Methods("GET")
	api.HandleFunc("/public-transport/{id}", handlers.UpdateTransportRoute).Methods("PUT")
	api.HandleFunc("/public-transport/{id}", handlers.DeleteTransportRoute).Methods("DELETE")

	// Health check
	api.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	}).Methods("GET")

	// Sitemap routes
	api.HandleFunc("/cache/flush", handlers.FlushCaches).Methods("POST")

	api.HandleFunc("/sitemaps", handlers.GetSitemapIndex).Methods("GET")
	api.HandleFunc("/sitemaps/features", handlers.GetFeaturesSitemap).Methods("GET")
	api.HandleFunc("/sitemaps/roads", handlers.GetRoadsSitemap).Methods("GET")
	api.HandleFunc("/sitemaps/parking-facilities", handlers.GetParkingFacilitiesSitemap).Methods("GET")
	api.HandleFunc("/sitemaps/petrol-pumps", handlers.GetPetrolPumpsSitemap).Methods("GET")
	api.HandleFunc("/sitemaps/public-transport", handlers.GetPublicTransportSitemap).Methods("GET")
}
