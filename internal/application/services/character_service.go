package services

import (
	"context"
	"fmt"

	"github.com/narrativekit/storydesk-go/internal/domain/entities/story"
	"github.com/narrativekit/storydesk-go/internal/infrastructure/upstream"
)

// CharacterService orchestrates character operations against the story API
type CharacterService struct {
	client *upstream.Client
}

// NewCharacterService creates a new character application service
func NewCharacterService(client *upstream.Client) *CharacterService {
	return &CharacterService{
		client: client,
	}
}

// List returns all characters for the active account
func (s *CharacterService) List(ctx context.Context, includeDeleted bool) ([]story.Character, error) {
	characters, err := s.client.ListCharacters(ctx, includeDeleted)
	if err != nil {
		return nil, fmt.Errorf("failed to list characters: %w", err)
	}
	return characters, nil
}

// Get returns a character by ID
func (s *CharacterService) Get(ctx context.Context, id string) (*story.Character, error) {
	if id == "" {
		return nil, fmt.Errorf("character ID cannot be empty")
	}

	character, err := s.client.GetCharacter(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get character %s: %w", id, err)
	}
	return character, nil
}

// Create creates a new character
func (s *CharacterService) Create(ctx context.Context, character *story.Character) (*story.Character, error) {
	if character == nil {
		return nil, fmt.Errorf("character cannot be nil")
	}
	if character.Name == "" {
		return nil, fmt.Errorf("character name cannot be empty")
	}

	created, err := s.client.CreateCharacter(ctx, character)
	if err != nil {
		return nil, fmt.Errorf("failed to create character: %w", err)
	}
	return created, nil
}

// Update updates an existing character
func (s *CharacterService) Update(ctx context.Context, character *story.Character) (*story.Character, error) {
	if character == nil {
		return nil, fmt.Errorf("character cannot be nil")
	}
	if character.CharacterID == "" {
		return nil, fmt.Errorf("character ID cannot be empty")
	}
	if character.Name == "" {
		return nil, fmt.Errorf("character name cannot be empty")
	}

	updated, err := s.client.UpdateCharacter(ctx, character)
	if err != nil {
		return nil, fmt.Errorf("failed to update character %s: %w", character.CharacterID, err)
	}
	return updated, nil
}

// Delete soft-deletes a character
func (s *CharacterService) Delete(ctx context.Context, id string) error {
	if id == "" {
		return fmt.Errorf("character ID cannot be empty")
	}

	if err := s.client.DeleteCharacter(ctx, id); err != nil {
		return fmt.Errorf("failed to delete character %s: %w", id, err)
	}
	return nil
}
