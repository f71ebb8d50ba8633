package main

import (
	"context"
	"os"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/pharmaport/portal-backend/internal/adapters/repository/mongodb"
	"github.com/pharmaport/portal-backend/internal/config"
	"github.com/pharmaport/portal-backend/internal/docs"
	"github.com/pharmaport/portal-backend/internal/draft"
	"github.com/pharmaport/portal-backend/internal/handlers"
	"github.com/pharmaport/portal-backend/internal/registry"
	"github.com/pharmaport/portal-backend/internal/submit"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		logrus.WithError(err).Fatal("Invalid configuration")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.MongoURI))
	if err != nil {
		logrus.WithError(err).Fatal("Failed to connect to MongoDB")
	}
	defer client.Disconnect(context.Background())

	var persist draft.Persistence
	if err := client.Ping(ctx, nil); err != nil {
		// Degraded mode: drafts survive only in memory until the database
		// comes back at the next restart.
		logrus.WithError(err).Warn("MongoDB unreachable, draft persistence degraded to in-memory")
		persist = draft.NewMemoryPersistence()
	} else {
		repo := mongodb.NewDraftRepository(client.Database(cfg.MongoDatabase))
		if err := repo.EnsureIndexes(ctx); err != nil {
			logrus.WithError(err).Warn("Failed to ensure draft indexes")
		}
		persist = repo
	}

	checklist, err := config.LoadDocumentChecklist(cfg.DocumentsFile)
	if err != nil {
		logrus.WithError(err).Warn("Document checklist file unavailable, using built-in defaults")
		checklist = config.DefaultChecklist()
	}

	var previewer docs.Previewer = docs.NoopPreviewer{}
	if os.Getenv("CLOUDINARY_CLOUD_NAME") != "" {
		p, err := docs.NewCloudinaryPreviewer(
			os.Getenv("CLOUDINARY_CLOUD_NAME"),
			os.Getenv("CLOUDINARY_API_KEY"),
			os.Getenv("CLOUDINARY_API_SECRET"),
		)
		if err != nil {
			logrus.WithError(err).Warn("Failed to initialize Cloudinary, document previews disabled")
		} else {
			previewer = p
		}
	}

	registryClient := registry.NewClient(cfg.RegistryBaseURL)
	documents := docs.NewCache(checklist, previewer)
	pipeline := submit.NewPipeline(registryClient, checklist)

	router := gin.Default()
	router.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.AllowedOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		AllowCredentials: true,
	}))

	handlers.SetupRoutes(router, handlers.Deps{
		Persist:   persist,
		Documents: documents,
		Pipeline:  pipeline,
		Checklist: checklist,
		Accounts:  registryClient,
	})

	logrus.WithField("port", cfg.Port).Info("Starting server")
	if err := router.Run(":" + cfg.Port); err != nil {
		logrus.WithError(err).Fatal("Server stopped")
	}
}
