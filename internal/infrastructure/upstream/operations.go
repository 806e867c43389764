package upstream

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"

	"github.com/narrativekit/storydesk-go/internal/domain/entities/story"
)

// listQuery builds the shared collection flags. Soft-deleted entities
// stay hidden unless the caller opts in.
func listQuery(includeDeleted bool) url.Values {
	if !includeDeleted {
		return nil
	}
	return url.Values{"include_deleted": []string{"true"}}
}

// --- Characters ---

func (c *Client) ListCharacters(ctx context.Context, includeDeleted bool) ([]story.Character, error) {
	raw, err := c.Do(ctx, http.MethodGet, "/character", nil, listQuery(includeDeleted), CardinalityCollection)
	if err != nil {
		return nil, err
	}
	var characters []story.Character
	if raw != nil {
		if err := json.Unmarshal(raw, &characters); err != nil {
			return nil, fmt.Errorf("failed to decode character list: %w", err)
		}
	}
	return characters, nil
}

func (c *Client) GetCharacter(ctx context.Context, id string) (*story.Character, error) {
	raw, err := c.Do(ctx, http.MethodGet, "/character/"+id, nil, nil, CardinalitySingle)
	if err != nil {
		return nil, err
	}
	if raw == nil {
		return nil, nil
	}
	var character story.Character
	if err := json.Unmarshal(raw, &character); err != nil {
		return nil, fmt.Errorf("failed to decode character: %w", err)
	}
	return &character, nil
}

func (c *Client) CreateCharacter(ctx context.Context, character *story.Character) (*story.Character, error) {
	raw, err := c.Do(ctx, http.MethodPut, "/character", character, nil, CardinalitySingle)
	if err != nil {
		return nil, err
	}
	var created story.Character
	if err := json.Unmarshal(raw, &created); err != nil {
		return nil, fmt.Errorf("failed to decode created character: %w", err)
	}
	return &created, nil
}

func (c *Client) UpdateCharacter(ctx context.Context, character *story.Character) (*story.Character, error) {
	raw, err := c.Do(ctx, http.MethodPost, "/character", character, nil, CardinalitySingle)
	if err != nil {
		return nil, err
	}
	var updated story.Character
	if err := json.Unmarshal(raw, &updated); err != nil {
		return nil, fmt.Errorf("failed to decode updated character: %w", err)
	}
	return &updated, nil
}

func (c *Client) DeleteCharacter(ctx context.Context, id string) error {
	_, err := c.Do(ctx, http.MethodDelete, "/character/"+id, nil, nil, CardinalitySingle)
	return err
}

// --- Scenes ---

func (c *Client) ListScenes(ctx context.Context, includeDeleted bool) ([]story.Scene, error) {
	raw, err := c.Do(ctx, http.MethodGet, "/scene", nil, listQuery(includeDeleted), CardinalityCollection)
	if err != nil {
		return nil, err
	}
	var scenes []story.Scene
	if raw != nil {
		if err := json.Unmarshal(raw, &scenes); err != nil {
			return nil, fmt.Errorf("failed to decode scene list: %w", err)
		}
	}
	return scenes, nil
}

func (c *Client) GetScene(ctx context.Context, id string) (*story.Scene, error) {
	raw, err := c.Do(ctx, http.MethodGet, "/scene/"+id, nil, nil, CardinalitySingle)
	if err != nil {
		return nil, err
	}
	if raw == nil {
		return nil, nil
	}
	var scene story.Scene
	if err := json.Unmarshal(raw, &scene); err != nil {
		return nil, fmt.Errorf("failed to decode scene: %w", err)
	}
	return &scene, nil
}

func (c *Client) CreateScene(ctx context.Context, scene *story.Scene) (*story.Scene, error) {
	raw, err := c.Do(ctx, http.MethodPut, "/scene", scene, nil, CardinalitySingle)
	if err != nil {
		return nil, err
	}
	var created story.Scene
	if err := json.Unmarshal(raw, &created); err != nil {
		return nil, fmt.Errorf("failed to decode created scene: %w", err)
	}
	return &created, nil
}

func (c *Client) UpdateScene(ctx context.Context, scene *story.Scene) (*story.Scene, error) {
	raw, err := c.Do(ctx, http.MethodPost, "/scene", scene, nil, CardinalitySingle)
	if err != nil {
		return nil, err
	}
	var updated story.Scene
	if err := json.Unmarshal(raw, &updated); err != nil {
		return nil, fmt.Errorf("failed to decode updated scene: %w", err)
	}
	return &updated, nil
}

func (c *Client) DeleteScene(ctx context.Context, id string) error {
	_, err := c.Do(ctx, http.MethodDelete, "/scene/"+id, nil, nil, CardinalitySingle)
	return err
}

// --- Cast members (scoped under a scene) ---

func (c *Client) ListCast(ctx context.Context, sceneID string, includeDeleted bool) ([]story.CastMember, error) {
	raw, err := c.Do(ctx, http.MethodGet, "/cast/"+sceneID, nil, listQuery(includeDeleted), CardinalityCollection)
	if err != nil {
		return nil, err
	}
	var members []story.CastMember
	if raw != nil {
		if err := json.Unmarshal(raw, &members); err != nil {
			return nil, fmt.Errorf("failed to decode cast list: %w", err)
		}
	}
	return members, nil
}

func (c *Client) GetCastMember(ctx context.Context, sceneID, castID string) (*story.CastMember, error) {
	raw, err := c.Do(ctx, http.MethodGet, "/cast/"+sceneID+"/"+castID, nil, nil, CardinalitySingle)
	if err != nil {
		return nil, err
	}
	if raw == nil {
		return nil, nil
	}
	var member story.CastMember
	if err := json.Unmarshal(raw, &member); err != nil {
		return nil, fmt.Errorf("failed to decode cast member: %w", err)
	}
	return &member, nil
}

func (c *Client) CreateCastMember(ctx context.Context, member *story.CastMember) (*story.CastMember, error) {
	raw, err := c.Do(ctx, http.MethodPut, "/cast/"+member.SceneID, member, nil, CardinalitySingle)
	if err != nil {
		return nil, err
	}
	var created story.CastMember
	if err := json.Unmarshal(raw, &created); err != nil {
		return nil, fmt.Errorf("failed to decode created cast member: %w", err)
	}
	return &created, nil
}

func (c *Client) UpdateCastMember(ctx context.Context, member *story.CastMember) (*story.CastMember, error) {
	raw, err := c.Do(ctx, http.MethodPost, "/cast/"+member.SceneID, member, nil, CardinalitySingle)
	if err != nil {
		return nil, err
	}
	var updated story.CastMember
	if err := json.Unmarshal(raw, &updated); err != nil {
		return nil, fmt.Errorf("failed to decode updated cast member: %w", err)
	}
	return &updated, nil
}

func (c *Client) DeleteCastMember(ctx context.Context, sceneID, castID string) error {
	_, err := c.Do(ctx, http.MethodDelete, "/cast/"+sceneID+"/"+castID, nil, nil, CardinalitySingle)
	return err
}

// --- Stories ---

func (c *Client) ListStories(ctx context.Context, includeDeleted bool) ([]story.Story, error) {
	raw, err := c.Do(ctx, http.MethodGet, "/story", nil, listQuery(includeDeleted), CardinalityCollection)
	if err != nil {
		return nil, err
	}
	var stories []story.Story
	if raw != nil {
		if err := json.Unmarshal(raw, &stories); err != nil {
			return nil, fmt.Errorf("failed to decode story list: %w", err)
		}
	}
	return stories, nil
}

func (c *Client) GetStory(ctx context.Context, id string) (*story.Story, error) {
	raw, err := c.Do(ctx, http.MethodGet, "/story/"+id, nil, nil, CardinalitySingle)
	if err != nil {
		return nil, err
	}
	if raw == nil {
		return nil, nil
	}
	var st story.Story
	if err := json.Unmarshal(raw, &st); err != nil {
		return nil, fmt.Errorf("failed to decode story: %w", err)
	}
	return &st, nil
}

func (c *Client) CreateStory(ctx context.Context, st *story.Story) (*story.Story, error) {
	raw, err := c.Do(ctx, http.MethodPut, "/story", st, nil, CardinalitySingle)
	if err != nil {
		return nil, err
	}
	var created story.Story
	if err := json.Unmarshal(raw, &created); err != nil {
		return nil, fmt.Errorf("failed to decode created story: %w", err)
	}
	return &created, nil
}

func (c *Client) UpdateStory(ctx context.Context, st *story.Story) (*story.Story, error) {
	raw, err := c.Do(ctx, http.MethodPost, "/story", st, nil, CardinalitySingle)
	if err != nil {
		return nil, err
	}
	var updated story.Story
	if err := json.Unmarshal(raw, &updated); err != nil {
		return nil, fmt.Errorf("failed to decode updated story: %w", err)
	}
	return &updated, nil
}

func (c *Client) DeleteStory(ctx context.Context, id string) error {
	_, err := c.Do(ctx, http.MethodDelete, "/story/"+id, nil, nil, CardinalitySingle)
	return err
}

// --- Story cast links ---

// ListStoryCast returns the cast linked to a story. The path ends in
// the story id, so cardinality must be declared or the path heuristic
// would read it as a singleton.
func (c *Client) ListStoryCast(ctx context.Context, storyID string) ([]story.StoryCastLink, error) {
	raw, err := c.Do(ctx, http.MethodGet, "/storycast/"+storyID, nil, nil, CardinalityCollection)
	if err != nil {
		return nil, err
	}
	var links []story.StoryCastLink
	if raw != nil {
		if err := json.Unmarshal(raw, &links); err != nil {
			return nil, fmt.Errorf("failed to decode story cast list: %w", err)
		}
	}
	return links, nil
}

func (c *Client) AddStoryCast(ctx context.Context, link *story.StoryCastLink) (*story.StoryCastLink, error) {
	raw, err := c.Do(ctx, http.MethodPut, "/storycast/"+link.StoryID, link, nil, CardinalitySingle)
	if err != nil {
		return nil, err
	}
	var created story.StoryCastLink
	if err := json.Unmarshal(raw, &created); err != nil {
		return nil, fmt.Errorf("failed to decode story cast link: %w", err)
	}
	return &created, nil
}

func (c *Client) RemoveStoryCast(ctx context.Context, storyID, castID string) error {
	_, err := c.Do(ctx, http.MethodDelete, "/storycast/"+storyID+"/"+castID, nil, nil, CardinalitySingle)
	return err
}
