package container

import (
	"fmt"

	"github.com/urbanmap/layerstore/cmd/layerstore/handlers"
	"github.com/urbanmap/layerstore/cmd/layerstore/repository"
	"github.com/urbanmap/layerstore/cmd/layerstore/service"
	"github.com/urbanmap/layerstore/common/bootstrap"
)

// Container holds all initialized services and repositories (singleton pattern)
type Container struct {
	// Components
	Components *bootstrap.Components

	// Repositories
	LayerRepo *repository.LayerRepository

	// Services
	LayerService *service.LayerService

	// Handlers
	LayerHandler *handlers.LayerHandler
}

// NewContainer initializes all services and repositories once
func NewContainer(components *bootstrap.Components) (*Container, error) {
	// Initialize repositories
	layerRepo, err := repository.NewLayerRepository(
		components.FS,
		components.Config.Storage.DataDir,
		components.Logger,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create layer repository: %w", err)
	}

	// Initialize services (bottom-up: dependencies first)
	layerService := service.NewLayerService(layerRepo, components.Logger)

	// Initialize handlers
	layerHandler := handlers.NewLayerHandler(components, layerService)

	return &Container{
		Components:   components,
		LayerRepo:    layerRepo,
		LayerService: layerService,
		LayerHandler: layerHandler,
	}, nil
}
