package session

import (
	"testing"

	"github.com/singingsandhill/calendar/internal/calendar"
	apperrors "github.com/singingsandhill/calendar/internal/errors"
	"github.com/singingsandhill/calendar/internal/models"
)

func TestSelectionSet_ToggleAddsAndRemoves(t *testing.T) {
	geo := calendar.NewGeometry(models.Legacy, 2024, 2, 0)
	set := NewSelectionSet(geo)

	if err := set.Toggle(10); err != nil {
		t.Fatalf("Toggle(10) error = %v", err)
	}
	if !set.Contains(10) {
		t.Error("expected day 10 selected after first toggle")
	}

	if err := set.Toggle(10); err != nil {
		t.Fatalf("Toggle(10) second call error = %v", err)
	}
	if set.Contains(10) {
		t.Error("expected day 10 deselected after second toggle")
	}
	if set.Len() != 0 {
		t.Errorf("Len() = %d, want 0", set.Len())
	}
}

func TestSelectionSet_ToggleRejectsOutOfGrid(t *testing.T) {
	geo := calendar.NewGeometry(models.Legacy, 2024, 2, 0)
	set := NewSelectionSet(geo)

	for _, day := range []int{0, -3, 30, 100} {
		err := set.Toggle(day)
		if err == nil {
			t.Errorf("Toggle(%d) expected error, got nil", day)
			continue
		}
		if !apperrors.IsKind(err, apperrors.ErrPrecondition) {
			t.Errorf("Toggle(%d) error kind = %v, want precondition", day, err)
		}
	}
	if set.Len() != 0 {
		t.Errorf("rejected toggles must not mutate the set, Len() = %d", set.Len())
	}
}

func TestSelectionSet_ExtendedGridAcceptsFullSpan(t *testing.T) {
	geo := calendar.NewGeometry(models.Extended, 2024, 2, 49)
	set := NewSelectionSet(geo)

	for _, day := range []int{1, 29, 49} {
		if err := set.Toggle(day); err != nil {
			t.Errorf("Toggle(%d) error = %v", day, err)
		}
	}
	if err := set.Toggle(50); err == nil {
		t.Error("Toggle(50) expected error beyond pinned span")
	}
}

func TestSelectionSet_LoadDropsOutOfGeometryIndices(t *testing.T) {
	geo := calendar.NewGeometry(models.Legacy, 2024, 2, 0)
	set := NewSelectionSet(geo)

	set.Load([]int{3, 29, 0, 30, -1})

	got := set.Snapshot()
	want := []int{3, 29}
	if len(got) != len(want) {
		t.Fatalf("Snapshot() = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("Snapshot() = %v, want %v", got, want)
		}
	}
}

func TestSelectionSet_LoadReplacesExisting(t *testing.T) {
	geo := calendar.NewGeometry(models.Legacy, 2024, 2, 0)
	set := NewSelectionSet(geo)

	set.Load([]int{1, 2})
	set.Load([]int{5})

	if set.Contains(1) || set.Contains(2) {
		t.Error("Load must replace, not merge, the previous selection")
	}
	if !set.Contains(5) {
		t.Error("expected day 5 after reload")
	}
}

func TestSelectionSet_SnapshotSortedAndDetached(t *testing.T) {
	geo := calendar.NewGeometry(models.Legacy, 2024, 2, 0)
	set := NewSelectionSet(geo)
	set.Load([]int{11, 4, 27})

	got := set.Snapshot()
	want := []int{4, 11, 27}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("Snapshot() = %v, want sorted %v", got, want)
		}
	}

	got[0] = 99
	if set.Contains(99) {
		t.Error("mutating the snapshot must not affect the set")
	}
}

func TestSelectionSet_Clear(t *testing.T) {
	geo := calendar.NewGeometry(models.Legacy, 2024, 2, 0)
	set := NewSelectionSet(geo)
	set.Load([]int{1, 2, 3})

	set.Clear()

	if set.Len() != 0 {
		t.Errorf("Len() after Clear = %d, want 0", set.Len())
	}
	if got := set.Snapshot(); len(got) != 0 {
		t.Errorf("Snapshot() after Clear = %v, want empty", got)
	}
}
