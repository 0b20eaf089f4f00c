package catalog

import "testing"

func TestLookupBookmaker(t *testing.T) {
	b, ok := LookupBookmaker("pinnacle")
	if !ok {
		t.Fatal("pinnacle not found")
	}
	if b.Title != "Pinnacle" {
		t.Errorf("Title = %q, want Pinnacle", b.Title)
	}
	if _, ok := LookupBookmaker("nope"); ok {
		t.Error("unknown key should miss")
	}
}

func TestBookmakersByRegion(t *testing.T) {
	au := BookmakersByRegion([]string{"au"})
	if len(au) == 0 {
		t.Fatal("no au bookmakers")
	}
	for _, b := range au {
		found := false
		for _, r := range b.Regions {
			if r == "au" {
				found = true
			}
		}
		if !found {
			t.Errorf("%s returned for au without au region", b.Key)
		}
	}
	if got, want := len(BookmakersByRegion(nil)), len(Bookmakers()); got != want {
		t.Errorf("empty filter = %d entries, want %d", got, want)
	}
}

func TestLookupSport(t *testing.T) {
	s, ok := LookupSport("basketball_nba")
	if !ok || s.Title != "NBA" {
		t.Fatalf("LookupSport = %+v, %v", s, ok)
	}
}
