package services

import (
	"context"
	"fmt"

	"github.com/narrativekit/storydesk-go/internal/domain/entities/story"
	"github.com/narrativekit/storydesk-go/internal/infrastructure/upstream"
)

// SceneService orchestrates scene operations against the story API
type SceneService struct {
	client *upstream.Client
}

// NewSceneService creates a new scene application service
func NewSceneService(client *upstream.Client) *SceneService {
	return &SceneService{
		client: client,
	}
}

// List returns all scenes for the active account
func (s *SceneService) List(ctx context.Context, includeDeleted bool) ([]story.Scene, error) {
	scenes, err := s.client.ListScenes(ctx, includeDeleted)
	if err != nil {
		return nil, fmt.Errorf("failed to list scenes: %w", err)
	}
	return scenes, nil
}

// Get returns a scene by ID
func (s *SceneService) Get(ctx context.Context, id string) (*story.Scene, error) {
	if id == "" {
		return nil, fmt.Errorf("scene ID cannot be empty")
	}

	scene, err := s.client.GetScene(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get scene %s: %w", id, err)
	}
	return scene, nil
}

// Create creates a new scene
func (s *SceneService) Create(ctx context.Context, scene *story.Scene) (*story.Scene, error) {
	if scene == nil {
		return nil, fmt.Errorf("scene cannot be nil")
	}
	if scene.Name == "" {
		return nil, fmt.Errorf("scene name cannot be empty")
	}

	created, err := s.client.CreateScene(ctx, scene)
	if err != nil {
		return nil, fmt.Errorf("failed to create scene: %w", err)
	}
	return created, nil
}

// Update updates an existing scene
func (s *SceneService) Update(ctx context.Context, scene *story.Scene) (*story.Scene, error) {
	if scene == nil {
		return nil, fmt.Errorf("scene cannot be nil")
	}
	if scene.SceneID == "" {
		return nil, fmt.Errorf("scene ID cannot be empty")
	}
	if scene.Name == "" {
		return nil, fmt.Errorf("scene name cannot be empty")
	}

	updated, err := s.client.UpdateScene(ctx, scene)
	if err != nil {
		return nil, fmt.Errorf("failed to update scene %s: %w", scene.SceneID, err)
	}
	return updated, nil
}

// Delete soft-deletes a scene
func (s *SceneService) Delete(ctx context.Context, id string) error {
	if id == "" {
		return fmt.Errorf("scene ID cannot be empty")
	}

	if err := s.client.DeleteScene(ctx, id); err != nil {
		return fmt.Errorf("failed to delete scene %s: %w", id, err)
	}
	return nil
}
