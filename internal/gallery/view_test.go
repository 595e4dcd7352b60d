package gallery

import (
	"testing"

	"github.com/google/uuid"

	"github.com/focalframe/backend/internal/models"
)

func strptr(s string) *string { return &s }

func testEvent() *models.Event {
	return &models.Event{ID: uuid.New()}
}

func photo(eventID uuid.UUID, mut func(*models.Photo)) models.Photo {
	p := models.Photo{ID: uuid.New(), EventID: eventID, URL: "s3://orig"}
	if mut != nil {
		mut(&p)
	}
	return p
}

func TestVisibleFiltersForeignEvents(t *testing.T) {
	ev := testEvent()
	other := uuid.New()
	photos := []models.Photo{
		photo(ev.ID, nil),
		photo(other, func(p *models.Photo) { p.IsSelected = true; p.IsAiPick = true }),
	}
	for _, main := range []MainTab{TabAll, TabSelected, TabEdited} {
		got := Visible(photos, ev, main, SubTabGrid, Filters{})
		for _, p := range got {
			if p.EventID != ev.ID {
				t.Fatalf("tab %s leaked photo from event %s", main, p.EventID)
			}
		}
	}
}

func TestVisibleSelectedTabIgnoresFilters(t *testing.T) {
	ev := testEvent()
	photos := []models.Photo{
		photo(ev.ID, func(p *models.Photo) { p.IsSelected = true; p.Category = "Reception" }),
		photo(ev.ID, func(p *models.Photo) { p.Category = "Wedding" }),
	}
	got := Visible(photos, ev, TabSelected, SubTabAI, Filters{Tags: []string{"Wedding"}})
	if len(got) != 1 || !got[0].IsSelected {
		t.Fatalf("expected only the selected photo, got %d", len(got))
	}
}

func TestVisibleEditedTab(t *testing.T) {
	ev := testEvent()
	photos := []models.Photo{
		photo(ev.ID, func(p *models.Photo) { p.EditedURL = strptr("s3://edited") }),
		photo(ev.ID, nil),
	}
	got := Visible(photos, ev, TabEdited, SubTabGrid, Filters{})
	if len(got) != 1 || !got[0].HasEdited() {
		t.Fatalf("expected only the edited photo, got %d", len(got))
	}
}

func TestVisibleAITab(t *testing.T) {
	ev := testEvent()
	photos := []models.Photo{
		photo(ev.ID, func(p *models.Photo) { p.IsAiPick = true }),
		photo(ev.ID, nil),
	}
	got := Visible(photos, ev, TabAll, SubTabAI, Filters{})
	if len(got) != 1 || !got[0].IsAiPick {
		t.Fatalf("expected only the ai pick, got %d", len(got))
	}
}

func TestVisibleFilterComposition(t *testing.T) {
	ev := testEvent()
	// person AND tag must both match; values inside one filter are OR.
	photos := []models.Photo{
		photo(ev.ID, func(p *models.Photo) { p.People = []string{"A", "B"}; p.Category = "Wedding" }),
		photo(ev.ID, func(p *models.Photo) { p.People = []string{"A"}; p.Category = "Reception" }),
		photo(ev.ID, func(p *models.Photo) { p.People = []string{"C"}; p.Category = "Wedding" }),
	}
	got := Visible(photos, ev, TabAll, SubTabGrid, Filters{People: []string{"A"}, Tags: []string{"Wedding"}})
	if len(got) != 1 {
		t.Fatalf("expected 1 photo matching person AND tag, got %d", len(got))
	}
	if got[0].People[0] != "A" || got[0].Category != "Wedding" {
		t.Fatalf("wrong photo matched: %+v", got[0])
	}
}

func TestVisibleSubEventDualMatch(t *testing.T) {
	ev := testEvent()
	se := models.SubEvent{ID: uuid.New(), EventID: ev.ID, Name: "Reception"}
	ev.SubEvents = []models.SubEvent{se}
	photos := []models.Photo{
		// matched through sub_event_id
		photo(ev.ID, func(p *models.Photo) { id := se.ID; p.SubEventID = &id }),
		// matched through the category fallback
		photo(ev.ID, func(p *models.Photo) { p.Category = "Reception" }),
		photo(ev.ID, func(p *models.Photo) { p.Category = "Ceremony" }),
	}
	got := Visible(photos, ev, TabAll, SubTabGrid, Filters{SubEvents: []string{"Reception"}})
	if len(got) != 2 {
		t.Fatalf("expected id match plus category fallback, got %d photos", len(got))
	}
}

func TestSelectedIDsRebuiltPerCollection(t *testing.T) {
	e1 := uuid.New()
	e2 := uuid.New()
	first := []models.Photo{photo(e1, func(p *models.Photo) { p.IsSelected = true })}
	second := []models.Photo{
		photo(e2, func(p *models.Photo) { p.IsSelected = true }),
		photo(e2, nil),
	}
	ids := SelectedIDs(second)
	if len(ids) != 1 {
		t.Fatalf("expected 1 selected id, got %d", len(ids))
	}
	if ids[0] == first[0].ID {
		t.Fatalf("selection leaked from previous event's collection")
	}
	if ids[0] != second[0].ID {
		t.Fatalf("expected id from freshly loaded photos")
	}
}

func TestBestURL(t *testing.T) {
	p := photo(uuid.New(), func(p *models.Photo) { p.EditedURL = strptr("s3://edited") })
	if got := BestURL(&p, TabEdited); got != "s3://edited" {
		t.Fatalf("expected edited url on edited tab, got %q", got)
	}
	if got := BestURL(&p, TabAll); got != "s3://orig" {
		t.Fatalf("expected original url outside edited tab, got %q", got)
	}
	plain := photo(uuid.New(), nil)
	if got := BestURL(&plain, TabEdited); got != "s3://orig" {
		t.Fatalf("expected original url when no edit exists, got %q", got)
	}
}

func TestRenamePeopleRoundTrip(t *testing.T) {
	people := []string{"Rohan", "Meera", "Rohan"}
	renamed := RenamePeople(people, "Rohan", "Rohan K")
	if renamed[0] != "Rohan K" || renamed[1] != "Meera" || renamed[2] != "Rohan K" {
		t.Fatalf("rename did not rewrite every occurrence: %v", renamed)
	}
	back := RenamePeople(renamed, "Rohan K", "Rohan")
	for i := range people {
		if back[i] != people[i] {
			t.Fatalf("round trip diverged at %d: %v vs %v", i, back, people)
		}
	}
}

func TestRenamePeopleKeepsDuplicates(t *testing.T) {
	// Renaming onto an existing name must not merge or dedupe.
	people := []string{"Rohan", "Meera"}
	got := RenamePeople(people, "Rohan", "Meera")
	if len(got) != 2 || got[0] != "Meera" || got[1] != "Meera" {
		t.Fatalf("expected duplicate names preserved, got %v", got)
	}
}
