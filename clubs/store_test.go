package clubs

import (
	"context"
	"encoding/json"
	"errors"
	"path/filepath"
	"testing"

	"archery-results/models"
)

func testBuiltins() []models.Club {
	return []models.Club{
		{Code: "TLVK", Name: "Tallinna Vibuklubi"},
		{Code: "TVK", Name: "Tartu Vibuklubi"},
		{Code: "PVK", Name: "Pärnu Vibuklubi"},
	}
}

func TestBuiltinsParse(t *testing.T) {
	clubs := Builtins()
	if len(clubs) == 0 {
		t.Fatal("expected shipped clubs")
	}
	for _, c := range clubs {
		if c.UserAdded {
			t.Fatalf("built-in %s flagged as user-added", c.Code)
		}
	}
}

func TestStoreAddRemove(t *testing.T) {
	ctx := context.Background()
	store := NewStore(NewMemoryStorage(), testBuiltins())

	club, err := store.Add(ctx, "  vks ", " Viimsi Vibuklubi ")
	if err != nil {
		t.Fatalf("Add failed: %v", err)
	}
	if club.Code != "VKS" || club.Name != "Viimsi Vibuklubi" || !club.UserAdded {
		t.Fatalf("unexpected club: %+v", club)
	}

	if _, err := store.Add(ctx, "tlvk", "Duplicate"); !errors.Is(err, ErrDuplicateCode) {
		t.Fatalf("expected ErrDuplicateCode, got %v", err)
	}
	if _, err := store.Add(ctx, "", "No code"); !errors.Is(err, ErrEmptyField) {
		t.Fatalf("expected ErrEmptyField, got %v", err)
	}

	all := store.All()
	if len(all) != 4 || all[3].Code != "VKS" {
		t.Fatalf("expected user club appended after built-ins, got %+v", all)
	}

	if err := store.Remove(ctx, "TLVK"); !errors.Is(err, ErrBuiltIn) {
		t.Fatalf("expected ErrBuiltIn, got %v", err)
	}
	if err := store.Remove(ctx, "XYZ"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if err := store.Remove(ctx, "vks"); err != nil {
		t.Fatalf("Remove failed: %v", err)
	}
	if len(store.All()) != 3 {
		t.Fatalf("expected 3 clubs after remove, got %d", len(store.All()))
	}
}

func TestStoreReloadRefreshesBuiltins(t *testing.T) {
	ctx := context.Background()
	storage := NewMemoryStorage()

	first := NewStore(storage, testBuiltins())
	if _, err := first.Add(ctx, "VKS", "Viimsi Vibuklubi"); err != nil {
		t.Fatalf("Add failed: %v", err)
	}

	renamed := testBuiltins()
	renamed[0].Name = "Tallinna Vibuklubi MTÜ"
	second := NewStore(storage, renamed)
	if err := second.Load(ctx); err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	all := second.All()
	if len(all) != 4 {
		t.Fatalf("expected 4 clubs, got %+v", all)
	}
	if all[0].Name != "Tallinna Vibuklubi MTÜ" {
		t.Fatalf("built-in name not refreshed: %q", all[0].Name)
	}
	if all[3].Code != "VKS" || !all[3].UserAdded {
		t.Fatalf("user club not preserved: %+v", all[3])
	}
}

func TestStoreLoadMigratesLegacyKey(t *testing.T) {
	ctx := context.Background()
	storage := NewMemoryStorage()
	legacy, _ := json.Marshal([]models.Club{
		{Code: "tvk", Name: "Old Tartu name"},
		{Code: "kjk", Name: "Keila Vibuklubi"},
	})
	if err := storage.Save(ctx, legacyStorageKey, legacy); err != nil {
		t.Fatal(err)
	}

	store := NewStore(storage, testBuiltins())
	if err := store.Load(ctx); err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	all := store.All()
	if len(all) != 4 {
		t.Fatalf("expected built-ins plus one migrated club, got %+v", all)
	}
	if all[1].Name != "Tartu Vibuklubi" {
		t.Fatalf("legacy data overwrote built-in: %+v", all[1])
	}
	if all[3].Code != "KJK" {
		t.Fatalf("expected migrated KJK, got %+v", all[3])
	}
}

func TestStoreReset(t *testing.T) {
	ctx := context.Background()
	store := NewStore(NewMemoryStorage(), testBuiltins())
	store.Add(ctx, "VKS", "Viimsi Vibuklubi")
	store.Reset(ctx)
	if len(store.All()) != 3 {
		t.Fatalf("expected only built-ins after reset, got %+v", store.All())
	}
}

func TestSuggestions(t *testing.T) {
	ctx := context.Background()
	store := NewStore(nil, testBuiltins())
	store.Add(ctx, "VT", "Vibuklubi Tallinn")
	store.Add(ctx, "TAL", "Tallinna Kalev")

	got := store.Suggestions("tal", 0)
	want := []string{"TLVK", "TAL", "VT"}
	if len(got) != len(want) {
		t.Fatalf("expected %d suggestions, got %+v", len(want), got)
	}
	for i, code := range want {
		if got[i].Code != code {
			t.Fatalf("suggestion %d: expected %s, got %s", i, code, got[i].Code)
		}
	}

	if got := store.Suggestions("", 2); len(got) != 2 || got[0].Code != "TLVK" {
		t.Fatalf("unexpected unfiltered suggestions: %+v", got)
	}
	if got := store.Suggestions("pärnu", 8); len(got) != 1 || got[0].Code != "PVK" {
		t.Fatalf("unexpected name suggestions: %+v", got)
	}
}

func TestSubscribeNotifiesOnMutation(t *testing.T) {
	ctx := context.Background()
	store := NewStore(nil, testBuiltins())

	calls := 0
	var last []models.Club
	unsubscribe := store.Subscribe(func(clubs []models.Club) {
		calls++
		last = clubs
	})

	store.Add(ctx, "VKS", "Viimsi Vibuklubi")
	if calls != 1 || len(last) != 4 {
		t.Fatalf("expected one notification with 4 clubs, got calls=%d len=%d", calls, len(last))
	}
	store.Remove(ctx, "VKS")
	store.Reset(ctx)
	if calls != 3 {
		t.Fatalf("expected 3 notifications, got %d", calls)
	}

	unsubscribe()
	store.Add(ctx, "ABC", "Another")
	if calls != 3 {
		t.Fatalf("unsubscribed observer still notified")
	}
}

func TestSQLiteStorageRoundTrip(t *testing.T) {
	ctx := context.Background()
	storage, err := OpenSQLiteStorage(filepath.Join(t.TempDir(), "clubs.db"))
	if err != nil {
		t.Fatalf("OpenSQLiteStorage failed: %v", err)
	}
	t.Cleanup(func() { _ = storage.Close() })

	store := NewStore(storage, testBuiltins())
	if _, err := store.Add(ctx, "VKS", "Viimsi Vibuklubi"); err != nil {
		t.Fatalf("Add failed: %v", err)
	}
	if _, err := store.Add(ctx, "KJK", "Keila Vibuklubi"); err != nil {
		t.Fatalf("Add failed: %v", err)
	}

	reloaded := NewStore(storage, testBuiltins())
	if err := reloaded.Load(ctx); err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	all := reloaded.All()
	if len(all) != 5 || all[3].Code != "VKS" || all[4].Code != "KJK" {
		t.Fatalf("unexpected reloaded vocabulary: %+v", all)
	}
}
