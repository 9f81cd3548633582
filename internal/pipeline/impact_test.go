package pipeline

import (
	"testing"

	"github.com/theirongolddev/tripmeter/internal/model"
)

func TestHighImpactItems_FilterAndOrder(t *testing.T) {
	it := model.Itinerary{Days: []model.Day{
		{Day: 1, Activities: []model.Activity{
			{Title: "A", CostEstimate: "₹100"},
			{Title: "B", CostEstimate: "₹50"},
		}},
		{Day: 2, Activities: []model.Activity{
			{Title: "C", CostEstimate: "₹200"},
			{Title: "D", CostEstimate: "₹100"},
			{Title: "E", CostEstimate: "Free"},
		}},
	}}

	items := HighImpactItems(it, 1000, 0)
	want := []string{"C", "A", "D"}
	if len(items) != len(want) {
		t.Fatalf("len(items) = %d, want %d: %+v", len(items), len(want), items)
	}
	for i, title := range want {
		if items[i].Title != title {
			t.Errorf("items[%d].Title = %q, want %q", i, items[i].Title, title)
		}
	}
	if items[0].Day != 2 || !approx(items[0].SharePercent, 20) {
		t.Errorf("items[0] = %+v, want day 2 share 20%%", items[0])
	}
}

func TestHighImpactItems_Limit(t *testing.T) {
	var acts []model.Activity
	for _, c := range []string{"₹900", "₹800", "₹700", "₹600", "₹500", "₹400", "₹300"} {
		acts = append(acts, model.Activity{Title: c, CostEstimate: c})
	}
	it := model.Itinerary{Days: []model.Day{{Activities: acts}}}

	if got := HighImpactItems(it, 1000, 0); len(got) != DefaultHighImpactLimit {
		t.Errorf("default limit: got %d items, want %d", len(got), DefaultHighImpactLimit)
	}
	got := HighImpactItems(it, 1000, 2)
	if len(got) != 2 || got[0].Title != "₹900" || got[1].Title != "₹800" {
		t.Errorf("limit 2: got %+v", got)
	}
	if got[0].Day != 1 {
		t.Errorf("Day = %d, want 1 from position when day number missing", got[0].Day)
	}
}

func TestHighImpactItems_SortedDescending(t *testing.T) {
	it := itinerary(
		model.TypeFood, "$3",
		model.TypeHotel, "₹4000",
		model.TypeActivity, "₹700",
		model.TypeTransport, "$30",
		model.TypeFood, "₹700",
	)
	items := HighImpactItems(it, 5000, 10)
	for i := 1; i < len(items); i++ {
		if items[i].Amount > items[i-1].Amount {
			t.Fatalf("items not descending at %d: %+v", i, items)
		}
	}
	if len(items) != 4 {
		t.Errorf("len(items) = %d, want 4 (the $3 item is under 5%%)", len(items))
	}
}
