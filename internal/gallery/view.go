// Package gallery computes derived views over one event's photo collection:
// which photos a tab/filter combination shows, the people/tag/sub-event
// facets, and the selection set. Everything here is a pure function of its
// inputs; callers own the photo slice and nothing is mutated.
package gallery

import (
	"github.com/google/uuid"

	"github.com/focalframe/backend/internal/models"
)

// MainTab selects the top-level view.
type MainTab string

const (
	TabAll      MainTab = "all"
	TabSelected MainTab = "selected"
	TabEdited   MainTab = "edited"
)

// SubTab refines the all tab. Only TabAI changes the visible set; the others
// change presentation, which is the client's concern.
type SubTab string

const (
	SubTabGrid   SubTab = "grid"
	SubTabAI     SubTab = "ai"
	SubTabPeople SubTab = "people"
	SubTabEvents SubTab = "events"
	SubTabTags   SubTab = "tags"
)

// Filters holds the independently toggleable filter sets. Values within one
// set compose with OR; non-empty sets compose with AND across each other.
type Filters struct {
	People    []string
	SubEvents []string
	Tags      []string
}

// Empty reports whether no filter is active.
func (f Filters) Empty() bool {
	return len(f.People) == 0 && len(f.SubEvents) == 0 && len(f.Tags) == 0
}

// Visible returns the photos the given tab and filters show, in input order.
// Photos from other events never appear, whatever the tabs say. The selected
// and edited tabs ignore sub-tabs and filters entirely.
func Visible(photos []models.Photo, event *models.Event, main MainTab, sub SubTab, f Filters) []models.Photo {
	out := make([]models.Photo, 0, len(photos))
	people := toSet(f.People)
	subEvents := toSet(f.SubEvents)
	tags := toSet(f.Tags)
	subEventNames := subEventNameByID(event)

	for _, p := range photos {
		if event == nil || p.EventID != event.ID {
			continue
		}
		switch main {
		case TabSelected:
			if p.IsSelected {
				out = append(out, p)
			}
			continue
		case TabEdited:
			if p.HasEdited() {
				out = append(out, p)
			}
			continue
		}
		if sub == SubTabAI && !p.IsAiPick {
			continue
		}
		if len(people) > 0 && !intersects(p.People, people) {
			continue
		}
		if len(subEvents) > 0 && !matchesSubEvent(p, subEvents, subEventNames) {
			continue
		}
		if len(tags) > 0 {
			if _, ok := tags[p.Category]; !ok {
				continue
			}
		}
		out = append(out, p)
	}
	return out
}

// SelectedIDs returns the ids of the selected photos in the collection. The
// selection set is always rederived from the loaded photos, so switching
// events cannot leak ids from a previous collection.
func SelectedIDs(photos []models.Photo) []uuid.UUID {
	var ids []uuid.UUID
	for _, p := range photos {
		if p.IsSelected {
			ids = append(ids, p.ID)
		}
	}
	return ids
}

// BestURL returns the asset a download should export: the edited version when
// viewing the edited tab and one exists, the original otherwise.
func BestURL(p *models.Photo, main MainTab) string {
	if main == TabEdited && p.HasEdited() {
		return *p.EditedURL
	}
	return p.URL
}

// RenamePeople rewrites old -> new in a people sequence, preserving order and
// every other entry. It is a pure rename: duplicates that result from renaming
// onto an existing name are kept.
func RenamePeople(people []string, oldName, newName string) []string {
	if len(people) == 0 {
		return people
	}
	out := make([]string, len(people))
	for i, name := range people {
		if name == oldName {
			out[i] = newName
		} else {
			out[i] = name
		}
	}
	return out
}

// matchesSubEvent checks the dual match rule: a photo belongs to a sub-event
// either through its sub_event_id or, for photos uploaded before sub-event
// tagging existed, through a category equal to the sub-event name.
func matchesSubEvent(p models.Photo, selected map[string]struct{}, nameByID map[uuid.UUID]string) bool {
	if _, ok := selected[p.Category]; ok {
		return true
	}
	if p.SubEventID != nil {
		if name, ok := nameByID[*p.SubEventID]; ok {
			if _, sel := selected[name]; sel {
				return true
			}
		}
	}
	return false
}

func subEventNameByID(event *models.Event) map[uuid.UUID]string {
	if event == nil || len(event.SubEvents) == 0 {
		return nil
	}
	m := make(map[uuid.UUID]string, len(event.SubEvents))
	for _, se := range event.SubEvents {
		m[se.ID] = se.Name
	}
	return m
}

func toSet(values []string) map[string]struct{} {
	if len(values) == 0 {
		return nil
	}
	m := make(map[string]struct{}, len(values))
	for _, v := range values {
		if v != "" {
			m[v] = struct{}{}
		}
	}
	return m
}

func intersects(values []string, set map[string]struct{}) bool {
	for _, v := range values {
		if _, ok := set[v]; ok {
			return true
		}
	}
	return false
}
