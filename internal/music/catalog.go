package music

import (
	"context"
	"strings"

	"memorybook/internal/model"
)

type catalogEntry struct {
	title  string
	artist string
	id     string
}

var defaultCatalog = []catalogEntry{
	{"Imagine", "John Lennon", "3HfB5dLgKcQoXH7O2s7ZKf"},
	{"Bohemian Rhapsody", "Queen", "1AhDOtG9vPSomsx4M8R6rw"},
	{"Shape of You", "Ed Sheeran", "7qiZfU4dY1lWllzX7mPBI3"},
	{"Evidências", "Chitãozinho & Xororó", "0evsf1evidencias"},
	{"Garota de Ipanema", "Tom Jobim", "0garotaipanema"},
	{"Tempo Perdido", "Legião Urbana", "0tempoperdido"},
	{"Ai Se Eu Te Pego", "Michel Teló", "0aiseeu"},
	{"Despacito", "Luis Fonsi", "0despacito"},
	{"Havana", "Camila Cabello", "0havana"},
	{"Blinding Lights", "The Weeknd", "0blinding"},
	{"Perfect", "Ed Sheeran", "0perfect"},
	{"Someone Like You", "Adele", "0someone"},
	{"Thinking Out Loud", "Ed Sheeran", "0thinking"},
	{"Billie Jean", "Michael Jackson", "0billiejean"},
	{"Hotel California", "Eagles", "0hotelcalifornia"},
}

// fallbackSize caps the suggestions returned when nothing matches.
const fallbackSize = 10

// Catalog is the offline Searcher used when no provider credentials are configured.
type Catalog struct {
	entries []catalogEntry
}

func NewCatalog() *Catalog {
	return &Catalog{entries: defaultCatalog}
}

var _ Searcher = (*Catalog)(nil)

// SearchTracks matches query against titles and artists ignoring case and accents.
// With no match it suggests the first min(10, limit) entries.
func (c *Catalog) SearchTracks(_ context.Context, query string, limit int) ([]model.Track, error) {
	if limit <= 0 {
		limit = fallbackSize
	}
	q := Normalize(query)

	var hits []catalogEntry
	for _, e := range c.entries {
		if strings.Contains(Normalize(e.title), q) || strings.Contains(Normalize(e.artist), q) {
			hits = append(hits, e)
		}
	}
	if len(hits) == 0 {
		hits = c.entries[:min(fallbackSize, limit, len(c.entries))]
	}
	if len(hits) > limit {
		hits = hits[:limit]
	}

	out := make([]model.Track, 0, len(hits))
	for _, e := range hits {
		out = append(out, model.Track{
			ID:          e.id,
			Name:        e.title,
			Artists:     e.artist,
			ExternalURL: TrackURL(e.id),
		})
	}
	return out, nil
}
