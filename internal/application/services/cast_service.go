package services

import (
	"context"
	"fmt"

	"github.com/narrativekit/storydesk-go/internal/domain/entities/story"
	"github.com/narrativekit/storydesk-go/internal/infrastructure/upstream"
)

// CastService orchestrates per-scene cast membership against the story API
type CastService struct {
	client *upstream.Client
}

// NewCastService creates a new cast application service
func NewCastService(client *upstream.Client) *CastService {
	return &CastService{
		client: client,
	}
}

// List returns the cast of a scene
func (s *CastService) List(ctx context.Context, sceneID string, includeDeleted bool) ([]story.CastMember, error) {
	if sceneID == "" {
		return nil, fmt.Errorf("scene ID cannot be empty")
	}

	members, err := s.client.ListCast(ctx, sceneID, includeDeleted)
	if err != nil {
		return nil, fmt.Errorf("failed to list cast for scene %s: %w", sceneID, err)
	}
	return members, nil
}

// Get returns a single cast member
func (s *CastService) Get(ctx context.Context, sceneID, castID string) (*story.CastMember, error) {
	if sceneID == "" {
		return nil, fmt.Errorf("scene ID cannot be empty")
	}
	if castID == "" {
		return nil, fmt.Errorf("cast ID cannot be empty")
	}

	member, err := s.client.GetCastMember(ctx, sceneID, castID)
	if err != nil {
		return nil, fmt.Errorf("failed to get cast member %s: %w", castID, err)
	}
	return member, nil
}

// Create adds a character to a scene's cast
func (s *CastService) Create(ctx context.Context, member *story.CastMember) (*story.CastMember, error) {
	if member == nil {
		return nil, fmt.Errorf("cast member cannot be nil")
	}
	if member.SceneID == "" {
		return nil, fmt.Errorf("scene ID cannot be empty")
	}
	if member.CharacterID == "" {
		return nil, fmt.Errorf("character ID cannot be empty")
	}

	created, err := s.client.CreateCastMember(ctx, member)
	if err != nil {
		return nil, fmt.Errorf("failed to create cast member: %w", err)
	}
	return created, nil
}

// Update updates an existing cast member
func (s *CastService) Update(ctx context.Context, member *story.CastMember) (*story.CastMember, error) {
	if member == nil {
		return nil, fmt.Errorf("cast member cannot be nil")
	}
	if member.CastID == "" {
		return nil, fmt.Errorf("cast ID cannot be empty")
	}
	if member.SceneID == "" {
		return nil, fmt.Errorf("scene ID cannot be empty")
	}

	updated, err := s.client.UpdateCastMember(ctx, member)
	if err != nil {
		return nil, fmt.Errorf("failed to update cast member %s: %w", member.CastID, err)
	}
	return updated, nil
}

// Delete soft-deletes a cast member
func (s *CastService) Delete(ctx context.Context, sceneID, castID string) error {
	if sceneID == "" {
		return fmt.Errorf("scene ID cannot be empty")
	}
	if castID == "" {
		return fmt.Errorf("cast ID cannot be empty")
	}

	if err := s.client.DeleteCastMember(ctx, sceneID, castID); err != nil {
		return fmt.Errorf("failed to delete cast member %s: %w", castID, err)
	}
	return nil
}
