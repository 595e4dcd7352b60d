package gallery

import (
	"sort"

	"github.com/google/uuid"

	"github.com/focalframe/backend/internal/models"
)

// PersonFacet is one person chip: name, a representative thumbnail (first
// photo the person appears in) and how many photos contain them.
type PersonFacet struct {
	Name      string `json:"name"`
	Thumbnail string `json:"thumbnail"`
	Count     int    `json:"count"`
}

// SubEventFacet annotates a sub-event with its photo count.
type SubEventFacet struct {
	SubEvent models.SubEvent `json:"sub_event"`
	Count    int             `json:"count"`
}

// Facets is the full derived facet view for one event.
type Facets struct {
	People    []PersonFacet   `json:"people"`
	Tags      []string        `json:"tags"`
	SubEvents []SubEventFacet `json:"sub_events"`
}

// Compute derives all facets for an event's photos. Empty collections yield
// empty facet lists, never an error.
func Compute(photos []models.Photo, event *models.Event) Facets {
	return Facets{
		People:    PersonFacets(photos),
		Tags:      TagFacets(photos),
		SubEvents: SubEventFacets(photos, event),
	}
}

// PersonFacets returns the distinct people across the photos, sorted by
// descending photo count with ties kept in first-encounter order. The count
// is photos containing the person: a name listed twice in one photo (renames
// can collide and are not deduplicated) still counts that photo once.
func PersonFacets(photos []models.Photo) []PersonFacet {
	index := make(map[string]int)
	var facets []PersonFacet
	for _, p := range photos {
		thumb := p.ThumbnailURL
		if thumb == "" {
			thumb = p.URL
		}
		counted := make(map[string]struct{}, len(p.People))
		for _, name := range p.People {
			i, ok := index[name]
			if !ok {
				index[name] = len(facets)
				facets = append(facets, PersonFacet{Name: name, Thumbnail: thumb})
				i = len(facets) - 1
			}
			if _, dup := counted[name]; dup {
				continue
			}
			counted[name] = struct{}{}
			facets[i].Count++
		}
	}
	sort.SliceStable(facets, func(i, j int) bool {
		return facets[i].Count > facets[j].Count
	})
	return facets
}

// TagFacets returns the distinct category values in first-encounter order.
func TagFacets(photos []models.Photo) []string {
	seen := make(map[string]struct{})
	var tags []string
	for _, p := range photos {
		if p.Category == "" {
			continue
		}
		if _, ok := seen[p.Category]; ok {
			continue
		}
		seen[p.Category] = struct{}{}
		tags = append(tags, p.Category)
	}
	return tags
}

// SubEventFacets counts photos per sub-event. A photo counts toward a
// sub-event when its sub_event_id matches; photos without one fall back to
// category name equality, because early uploads can predate sub-event tagging.
func SubEventFacets(photos []models.Photo, event *models.Event) []SubEventFacet {
	if event == nil || len(event.SubEvents) == 0 {
		return nil
	}
	byID := make(map[uuid.UUID]int, len(event.SubEvents))
	byName := make(map[string]int, len(event.SubEvents))
	facets := make([]SubEventFacet, len(event.SubEvents))
	for i, se := range event.SubEvents {
		facets[i] = SubEventFacet{SubEvent: se}
		byID[se.ID] = i
		byName[se.Name] = i
	}
	for _, p := range photos {
		if p.SubEventID != nil {
			if i, ok := byID[*p.SubEventID]; ok {
				facets[i].Count++
			}
			continue
		}
		if i, ok := byName[p.Category]; ok {
			facets[i].Count++
		}
	}
	return facets
}
