// Package story defines the upstream storytelling API's wire entities.
package story

type Character struct {
	CharacterID string  `json:"character_id"`
	Name        string  `json:"name"`
	Description *string `json:"description,omitempty"`
	Motivation  *string `json:"motivation,omitempty"`
	Deleted     bool    `json:"deleted,omitempty"`
}

type Scene struct {
	SceneID     string  `json:"scene_id"`
	Name        string  `json:"name"`
	Description *string `json:"description,omitempty"`
	Deleted     bool    `json:"deleted,omitempty"`
}

type CastMember struct {
	CastID      string  `json:"cast_id"`
	SceneID     string  `json:"scene_id"`
	CharacterID string  `json:"character_id"`
	Role        *string `json:"role,omitempty"`
	Goal        *string `json:"goal,omitempty"`
	StartText   *string `json:"start_text,omitempty"`
	Deleted     bool    `json:"deleted,omitempty"`
}

type Story struct {
	StoryID      string  `json:"story_id"`
	Name         string  `json:"name"`
	Description  *string `json:"description,omitempty"`
	StartSceneID *string `json:"start_scene_id,omitempty"`
	Deleted      bool    `json:"deleted,omitempty"`
}

// StoryCastLink joins a story to a cast member. The upstream only
// creates and deletes these; there is nothing to update.
type StoryCastLink struct {
	StoryID     string `json:"story_id"`
	CastID      string `json:"cast_id"`
	CharacterID string `json:"character_id,omitempty"`
}
