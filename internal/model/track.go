package model

// Track is a song returned by the music search, shaped for the memory form.
type Track struct {
	ID          string  `json:"id"`
	Name        string  `json:"name"`
	Artists     string  `json:"artists"`
	AlbumImage  *string `json:"album_image"`
	ExternalURL string  `json:"external_url"`
}
