package services

import (
	"context"
	"fmt"

	"github.com/narrativekit/storydesk-go/internal/domain/entities/story"
	"github.com/narrativekit/storydesk-go/internal/infrastructure/upstream"
)

// StoryService orchestrates story operations and story cast links
// against the story API
type StoryService struct {
	client *upstream.Client
}

// NewStoryService creates a new story application service
func NewStoryService(client *upstream.Client) *StoryService {
	return &StoryService{
		client: client,
	}
}

// List returns all stories for the active account
func (s *StoryService) List(ctx context.Context, includeDeleted bool) ([]story.Story, error) {
	stories, err := s.client.ListStories(ctx, includeDeleted)
	if err != nil {
		return nil, fmt.Errorf("failed to list stories: %w", err)
	}
	return stories, nil
}

// Get returns a story by ID
func (s *StoryService) Get(ctx context.Context, id string) (*story.Story, error) {
	if id == "" {
		return nil, fmt.Errorf("story ID cannot be empty")
	}

	st, err := s.client.GetStory(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get story %s: %w", id, err)
	}
	return st, nil
}

// Create creates a new story
func (s *StoryService) Create(ctx context.Context, st *story.Story) (*story.Story, error) {
	if st == nil {
		return nil, fmt.Errorf("story cannot be nil")
	}
	if st.Name == "" {
		return nil, fmt.Errorf("story name cannot be empty")
	}

	created, err := s.client.CreateStory(ctx, st)
	if err != nil {
		return nil, fmt.Errorf("failed to create story: %w", err)
	}
	return created, nil
}

// Update updates an existing story
func (s *StoryService) Update(ctx context.Context, st *story.Story) (*story.Story, error) {
	if st == nil {
		return nil, fmt.Errorf("story cannot be nil")
	}
	if st.StoryID == "" {
		return nil, fmt.Errorf("story ID cannot be empty")
	}
	if st.Name == "" {
		return nil, fmt.Errorf("story name cannot be empty")
	}

	updated, err := s.client.UpdateStory(ctx, st)
	if err != nil {
		return nil, fmt.Errorf("failed to update story %s: %w", st.StoryID, err)
	}
	return updated, nil
}

// Delete soft-deletes a story
func (s *StoryService) Delete(ctx context.Context, id string) error {
	if id == "" {
		return fmt.Errorf("story ID cannot be empty")
	}

	if err := s.client.DeleteStory(ctx, id); err != nil {
		return fmt.Errorf("failed to delete story %s: %w", id, err)
	}
	return nil
}

// Cast returns the cast members linked to a story
func (s *StoryService) Cast(ctx context.Context, storyID string) ([]story.StoryCastLink, error) {
	if storyID == "" {
		return nil, fmt.Errorf("story ID cannot be empty")
	}

	links, err := s.client.ListStoryCast(ctx, storyID)
	if err != nil {
		return nil, fmt.Errorf("failed to list cast for story %s: %w", storyID, err)
	}
	return links, nil
}

// AddCast links a cast member to a story
func (s *StoryService) AddCast(ctx context.Context, link *story.StoryCastLink) (*story.StoryCastLink, error) {
	if link == nil {
		return nil, fmt.Errorf("story cast link cannot be nil")
	}
	if link.StoryID == "" {
		return nil, fmt.Errorf("story ID cannot be empty")
	}
	if link.CastID == "" {
		return nil, fmt.Errorf("cast ID cannot be empty")
	}

	created, err := s.client.AddStoryCast(ctx, link)
	if err != nil {
		return nil, fmt.Errorf("failed to link cast to story %s: %w", link.StoryID, err)
	}
	return created, nil
}

// RemoveCast unlinks a cast member from a story
func (s *StoryService) RemoveCast(ctx context.Context, storyID, castID string) error {
	if storyID == "" {
		return fmt.Errorf("story ID cannot be empty")
	}
	if castID == "" {
		return fmt.Errorf("cast ID cannot be empty")
	}

	if err := s.client.RemoveStoryCast(ctx, storyID, castID); err != nil {
		return fmt.Errorf("failed to unlink cast %s from story %s: %w", castID, storyID, err)
	}
	return nil
}
