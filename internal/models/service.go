package models

// Service is a bookable item of the shop menu. Owned by the remote store.
type Service struct {
	ID          string  `json:"id"`
	Name        string  `json:"name"`
	Description string  `json:"description"`
	Price       float64 `json:"price"`
	DurationMin int     `json:"duration"`
	Category    string  `json:"category"`
	ImageURL    string  `json:"image_url,omitempty"`
	Tag         string  `json:"tag,omitempty"`
}

type Professional struct {
	ID        string  `json:"id"`
	Name      string  `json:"name"`
	Role      string  `json:"role"`
	Rating    float64 `json:"rating"`
	AvatarURL string  `json:"avatar_url"`
	Bio       string  `json:"bio"`
}
