package nav

import (
	"testing"

	"cwsdash/models"
)

func TestBuildTopNavDataFiltersByPermission(t *testing.T) {
	session := models.Session{
		Name: "Aline",
		Role: "finance",
		ScreenPermissions: map[string]int{
			ScreenDashboard: 1,
			ScreenFinance:   1,
			ScreenAssets:    1,
		},
	}
	data := BuildTopNavData(session, ScreenFinance)
	if len(data.Links) != 3 {
		t.Fatalf("expected 3 links, got %d", len(data.Links))
	}
	if data.Links[0].Href != "/cws/dashboard" || data.Links[1].Href != "/cws/finance" || data.Links[2].Href != "/cws/assets" {
		t.Fatalf("unexpected link order %+v", data.Links)
	}
	if data.Active != ScreenFinance || data.Name != "Aline" {
		t.Fatalf("unexpected nav data %+v", data)
	}
}
