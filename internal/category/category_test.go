package category

import (
	"reflect"
	"testing"
)

func TestSort(t *testing.T) {
	t.Run("PreservesRouteOrder", func(t *testing.T) {
		got := Sort([]string{"pantry", "produce", "dairy"})
		want := []string{"produce", "dairy", "pantry"}
		if !reflect.DeepEqual(got, want) {
			t.Errorf("expected %v, got %v", want, got)
		}
	})

	t.Run("OmitsAbsentCategories", func(t *testing.T) {
		got := Sort([]string{"frozen"})
		if len(got) != 1 || got[0] != "frozen" {
			t.Errorf("expected [frozen], got %v", got)
		}
	})

	t.Run("UnknownCoercedToOther", func(t *testing.T) {
		got := Sort([]string{"produce", "sporting goods"})
		want := []string{"produce", Other}
		if !reflect.DeepEqual(got, want) {
			t.Errorf("expected %v, got %v", want, got)
		}
	})

	t.Run("Empty", func(t *testing.T) {
		if got := Sort(nil); len(got) != 0 {
			t.Errorf("expected no categories, got %v", got)
		}
	})

	t.Run("NeverInventsCategories", func(t *testing.T) {
		got := Sort([]string{"meat", "meat", "bakery"})
		want := []string{"meat", "bakery"}
		if !reflect.DeepEqual(got, want) {
			t.Errorf("expected %v, got %v", want, got)
		}
	})
}

func TestGroup(t *testing.T) {
	t.Run("InsertionOrderWithinCategory", func(t *testing.T) {
		groups := Group([]string{"dairy", "produce", "dairy", ""})
		want := []Grouped{
			{Category: "produce", Indexes: []int{1}},
			{Category: "dairy", Indexes: []int{0, 2}},
			{Category: Other, Indexes: []int{3}},
		}
		if !reflect.DeepEqual(groups, want) {
			t.Errorf("expected %v, got %v", want, groups)
		}
	})

	t.Run("OtherSortsLast", func(t *testing.T) {
		groups := Group([]string{"unknown stuff", "frozen"})
		if len(groups) != 2 {
			t.Fatalf("expected 2 groups, got %d", len(groups))
		}
		if groups[0].Category != "frozen" || groups[1].Category != Other {
			t.Errorf("expected [frozen other], got %v", groups)
		}
	})
}

func TestCoerce(t *testing.T) {
	if Coerce("produce") != "produce" {
		t.Error("expected known category to pass through")
	}
	if Coerce("") != Other {
		t.Error("expected empty category to coerce to other")
	}
	if Coerce("Produce") != Other {
		t.Error("expected case-mismatched category to coerce to other")
	}
}
