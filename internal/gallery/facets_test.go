package gallery

import (
	"testing"

	"github.com/google/uuid"

	"github.com/focalframe/backend/internal/models"
)

func TestPersonFacetsCountsAndOrder(t *testing.T) {
	ev := uuid.New()
	photos := []models.Photo{
		photo(ev, func(p *models.Photo) { p.People = []string{"A", "B"} }),
		photo(ev, func(p *models.Photo) { p.People = []string{"A"} }),
		photo(ev, func(p *models.Photo) { p.People = []string{"B"} }),
		photo(ev, func(p *models.Photo) { p.People = []string{"B"} }),
	}
	facets := PersonFacets(photos)
	if len(facets) != 2 {
		t.Fatalf("expected 2 people, got %d", len(facets))
	}
	if facets[0].Name != "B" || facets[0].Count != 3 {
		t.Fatalf("expected B:3 first, got %s:%d", facets[0].Name, facets[0].Count)
	}
	if facets[1].Name != "A" || facets[1].Count != 2 {
		t.Fatalf("expected A:2 second, got %s:%d", facets[1].Name, facets[1].Count)
	}
	// thumbnail comes from the first photo the person appears in
	if facets[0].Thumbnail != photos[0].URL {
		t.Fatalf("expected thumbnail from first encounter")
	}
}

func TestPersonFacetsCountPhotosNotOccurrences(t *testing.T) {
	ev := uuid.New()
	// Renaming onto a name already in the photo leaves it twice; the photo
	// still contains that person once for counting purposes.
	collided := RenamePeople([]string{"Rohan", "Meera"}, "Rohan", "Meera")
	photos := []models.Photo{
		photo(ev, func(p *models.Photo) { p.People = collided }),
		photo(ev, func(p *models.Photo) { p.People = []string{"Asha"} }),
		photo(ev, func(p *models.Photo) { p.People = []string{"Asha"} }),
	}
	facets := PersonFacets(photos)
	if len(facets) != 2 {
		t.Fatalf("expected 2 people, got %d", len(facets))
	}
	// Asha appears in two photos and must rank above the collided name.
	if facets[0].Name != "Asha" || facets[0].Count != 2 {
		t.Fatalf("expected Asha:2 first, got %s:%d", facets[0].Name, facets[0].Count)
	}
	if facets[1].Name != "Meera" || facets[1].Count != 1 {
		t.Fatalf("one photo contains Meera, expected count 1, got %s:%d", facets[1].Name, facets[1].Count)
	}
}

func TestPersonFacetsStableTies(t *testing.T) {
	ev := uuid.New()
	photos := []models.Photo{
		photo(ev, func(p *models.Photo) { p.People = []string{"X"} }),
		photo(ev, func(p *models.Photo) { p.People = []string{"Y"} }),
	}
	facets := PersonFacets(photos)
	if facets[0].Name != "X" || facets[1].Name != "Y" {
		t.Fatalf("equal counts must keep encounter order, got %v", facets)
	}
}

func TestTagFacetsDistinctInOrder(t *testing.T) {
	ev := uuid.New()
	photos := []models.Photo{
		photo(ev, func(p *models.Photo) { p.Category = "Wedding" }),
		photo(ev, func(p *models.Photo) { p.Category = "Reception" }),
		photo(ev, func(p *models.Photo) { p.Category = "Wedding" }),
		photo(ev, nil),
	}
	tags := TagFacets(photos)
	if len(tags) != 2 || tags[0] != "Wedding" || tags[1] != "Reception" {
		t.Fatalf("unexpected tag facets: %v", tags)
	}
}

func TestSubEventFacetsDualCounting(t *testing.T) {
	ev := testEvent()
	reception := models.SubEvent{ID: uuid.New(), EventID: ev.ID, Name: "Reception"}
	ceremony := models.SubEvent{ID: uuid.New(), EventID: ev.ID, Name: "Ceremony"}
	ev.SubEvents = []models.SubEvent{reception, ceremony}
	photos := []models.Photo{
		photo(ev.ID, func(p *models.Photo) { id := reception.ID; p.SubEventID = &id }),
		photo(ev.ID, func(p *models.Photo) { p.Category = "Reception" }),
		// has a sub_event_id, so the category fallback must NOT also count it
		photo(ev.ID, func(p *models.Photo) { id := ceremony.ID; p.SubEventID = &id; p.Category = "Reception" }),
	}
	facets := SubEventFacets(photos, ev)
	if len(facets) != 2 {
		t.Fatalf("expected 2 sub-event facets, got %d", len(facets))
	}
	if facets[0].Count != 2 {
		t.Fatalf("expected Reception count 2 (id match + fallback), got %d", facets[0].Count)
	}
	if facets[1].Count != 1 {
		t.Fatalf("expected Ceremony count 1, got %d", facets[1].Count)
	}
}

func TestFacetsEmptyCollections(t *testing.T) {
	f := Compute(nil, testEvent())
	if len(f.People) != 0 || len(f.Tags) != 0 || len(f.SubEvents) != 0 {
		t.Fatalf("empty input must yield empty facets: %+v", f)
	}
	f = Compute(nil, nil)
	if len(f.SubEvents) != 0 {
		t.Fatalf("nil event must yield no sub-event facets")
	}
}
