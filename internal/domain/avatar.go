package domain

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Avatar is a persona a message can be posted as. Fields are fixed at
// construction; use NewAvatar to build one.
type Avatar struct {
	name        string
	displayName string
	imageURL    string
}

// AvatarLookup resolves avatars by their exact internal name.
type AvatarLookup interface {
	Get(name string) (Avatar, error)
}

// NewAvatar trims every field and rejects empty ones.
func NewAvatar(name, displayName, imageURL string) (Avatar, error) {
	a := Avatar{
		name:        strings.TrimSpace(name),
		displayName: strings.TrimSpace(displayName),
		imageURL:    strings.TrimSpace(imageURL),
	}
	switch {
	case a.name == "":
		return Avatar{}, fmt.Errorf("%w: avatar property name is empty", ErrValidation)
	case a.displayName == "":
		return Avatar{}, fmt.Errorf("%w: avatar property displayName is empty", ErrValidation)
	case a.imageURL == "":
		return Avatar{}, fmt.Errorf("%w: avatar property imageUrl is empty", ErrValidation)
	}
	return a, nil
}

func (a Avatar) Name() string        { return a.name }
func (a Avatar) DisplayName() string { return a.displayName }
func (a Avatar) ImageURL() string    { return a.imageURL }

// MarshalJSON writes the catalog file shape.
func (a Avatar) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Name        string `json:"name"`
		DisplayName string `json:"displayName"`
		ImageURL    string `json:"imageUrl"`
	}{a.name, a.displayName, a.imageURL})
}
