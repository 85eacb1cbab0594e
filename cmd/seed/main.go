// Command seed bulk-loads a directory tree of tray photographs into the
// catalog, either directly against the database or through a running API
// server. Every image is border-cropped, re-encoded, and deduplicated by
// content hash; an optional label pre-classifies everything loaded.
package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/NMGRL/trayclassifier/internal/client"
	"github.com/NMGRL/trayclassifier/internal/config"
	"github.com/NMGRL/trayclassifier/internal/domain"
	"github.com/NMGRL/trayclassifier/internal/imaging"
	"github.com/NMGRL/trayclassifier/internal/logger"
	"github.com/NMGRL/trayclassifier/internal/repository"
	"github.com/NMGRL/trayclassifier/internal/service"
	"github.com/NMGRL/trayclassifier/internal/storage"
)

func main() {
	// Initialize logger first (with defaults)
	appLogger := logger.New(&logger.Config{
		Level:       "info",
		Format:      "text",
		ServiceName: "trayclassifier-seed",
	})
	logger.SetDefaultLogger(appLogger)

	// Parse command line flags
	dir := flag.String("dir", "", "Directory tree of tray images to load")
	label := flag.String("label", "", "Pre-classify every loaded image with this label")
	user := flag.String("user", "", "User credited for pre-classification (default user if empty)")
	apiURL := flag.String("api", "", "Load through a running API server instead of the database")
	configPath := flag.String("config", "", "Path to config file")
	flag.Parse()

	if *dir == "" {
		appLogger.Fatal("Missing required -dir flag")
	}
	if *label != "" && !domain.KnownLabel(*label) {
		appLogger.WithField(logger.FieldLabel, *label).Fatal("Label is not in the vocabulary")
	}

	// Load configuration
	cfg, err := config.Load(*configPath)
	if err != nil {
		appLogger.WithError(err).Fatal("Failed to load config")
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-quit
		cancel()
	}()

	var loader loaderFunc
	if *apiURL != "" {
		loader = remoteLoader(client.New(*apiURL), cfg.Seed.CropBorder, *label, *user)
	} else {
		loader, err = localLoader(cfg, *label, *user)
		if err != nil {
			appLogger.WithError(err).Fatal("Failed to initialize catalog")
		}
	}

	loaded, skipped, failed := 0, 0, 0
	err = filepath.WalkDir(*dir, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if ctx.Err() != nil {
			return ctx.Err()
		}
		if d.IsDir() {
			return nil
		}

		data, err := os.ReadFile(path)
		if err != nil {
			appLogger.WithError(err).WithField("path", path).Warn("Failed to read file")
			failed++
			return nil
		}

		created, err := loader(ctx, path, data)
		switch {
		case err != nil:
			// Non-image files in the tray directories are expected
			appLogger.WithError(err).WithField("path", path).Debug("Skipping file")
			failed++
		case created:
			loaded++
		default:
			skipped++
		}
		return nil
	})
	if err != nil && ctx.Err() == nil {
		appLogger.WithError(err).Fatal("Failed to walk directory")
	}

	appLogger.WithFields(logger.Fields{
		"loaded":  loaded,
		"skipped": skipped,
		"failed":  failed,
	}).Info("Seed complete")
}

// loaderFunc loads one file and reports whether a new image was created.
type loaderFunc func(ctx context.Context, path string, data []byte) (bool, error)

// localLoader builds a loader that writes straight to the catalog store.
func localLoader(cfg *config.Config, label, user string) (loaderFunc, error) {
	db, err := repository.InitDB(&cfg.Database)
	if err != nil {
		return nil, err
	}
	if err := repository.Seed(db); err != nil {
		return nil, err
	}

	blobs, err := storage.New(&cfg.Storage)
	if err != nil {
		return nil, err
	}

	catalog := service.NewCatalogService(
		repository.NewImageRepository(db),
		repository.NewLabelRepository(db),
		repository.NewUserRepository(db),
		repository.NewAssignmentRepository(db),
		blobs,
		logger.GetDefault(),
	)

	return func(ctx context.Context, path string, data []byte) (bool, error) {
		image, created, err := catalog.Ingest(ctx, &service.IngestRequest{
			Data:       data,
			Name:       path,
			CropBorder: cfg.Seed.CropBorder,
		})
		if err != nil {
			return false, err
		}
		if created && label != "" {
			if err := catalog.AddLabel(ctx, image.ID, label, user); err != nil {
				return created, err
			}
		}
		return created, nil
	}, nil
}

// remoteLoader builds a loader that posts through the labeling API. The
// border crop happens client-side so the server stores the trimmed frame.
func remoteLoader(api *client.Client, cropBorder int, label, user string) loaderFunc {
	return func(ctx context.Context, path string, data []byte) (bool, error) {
		norm, err := imaging.Normalize(data, cropBorder)
		if err != nil {
			return false, err
		}

		resp, err := api.UploadImage(ctx, path, norm.Bytes)
		if err != nil {
			return false, err
		}
		if resp.Created && label != "" {
			if err := api.SubmitLabel(ctx, resp.ID, label, user); err != nil {
				return resp.Created, err
			}
		}
		return resp.Created, nil
	}
}
