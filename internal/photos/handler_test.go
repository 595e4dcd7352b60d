package photos

import (
	"net/http/httptest"
	"reflect"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/focalframe/backend/internal/gallery"
)

func TestSplitParam(t *testing.T) {
	cases := []struct {
		in   string
		want []string
	}{
		{"", nil},
		{"Alice", []string{"Alice"}},
		{"Alice,Bob", []string{"Alice", "Bob"}},
		{" Alice , Bob ,", []string{"Alice", "Bob"}},
		{",,", nil},
	}
	for _, tc := range cases {
		if got := splitParam(tc.in); !reflect.DeepEqual(got, tc.want) {
			t.Errorf("splitParam(%q) = %v, want %v", tc.in, got, tc.want)
		}
	}
}

func TestGalleryQuery(t *testing.T) {
	gin.SetMode(gin.TestMode)
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	c.Request = httptest.NewRequest("GET", "/events/x/photos?tab=selected&sub_tab=people&people=Alice,Bob&tags=candid", nil)

	main, sub, f := galleryQuery(c)
	if main != gallery.TabSelected {
		t.Fatalf("main tab = %s", main)
	}
	if sub != gallery.SubTabPeople {
		t.Fatalf("sub tab = %s", sub)
	}
	if !reflect.DeepEqual(f.People, []string{"Alice", "Bob"}) {
		t.Fatalf("people = %v", f.People)
	}
	if !reflect.DeepEqual(f.Tags, []string{"candid"}) {
		t.Fatalf("tags = %v", f.Tags)
	}
	if f.SubEvents != nil {
		t.Fatalf("sub events = %v", f.SubEvents)
	}
}

func TestGalleryQueryUnknownTabFallsBack(t *testing.T) {
	gin.SetMode(gin.TestMode)
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	c.Request = httptest.NewRequest("GET", "/events/x/photos?tab=bogus", nil)

	main, sub, _ := galleryQuery(c)
	if main != gallery.TabAll {
		t.Fatalf("main tab = %s, want fallback to all", main)
	}
	if sub != gallery.SubTabGrid {
		t.Fatalf("sub tab = %s", sub)
	}
}
