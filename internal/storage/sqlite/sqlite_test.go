package sqlite

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/goureshmadye/tripbuddy/internal/models"
	"github.com/goureshmadye/tripbuddy/internal/storage"
)

func newTestStore(t *testing.T) *SQLiteStore {
	t.Helper()

	dbPath := filepath.Join(t.TempDir(), "test.db")
	store, err := New(dbPath)
	if err != nil {
		t.Fatalf("Failed to create store: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

func TestTrips(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	t.Run("CreateTrip generates ID and timestamp", func(t *testing.T) {
		trip := &models.Trip{
			OwnerID:       "owner-1",
			Name:          "Tokyo 2026",
			Destination:   "Tokyo, Japan",
			Collaborators: []string{"user-2", "user-3"},
		}

		if err := store.CreateTrip(ctx, trip); err != nil {
			t.Fatalf("CreateTrip failed: %v", err)
		}
		if trip.ID == "" {
			t.Error("Expected trip ID to be generated")
		}
		if trip.CreatedAt == 0 {
			t.Error("Expected CreatedAt to be set")
		}

		retrieved, err := store.GetTrip(ctx, trip.ID)
		if err != nil {
			t.Fatalf("GetTrip failed: %v", err)
		}
		if retrieved.Name != "Tokyo 2026" {
			t.Errorf("Name = %q, want %q", retrieved.Name, "Tokyo 2026")
		}
		if len(retrieved.Collaborators) != 2 {
			t.Errorf("Collaborators = %d, want 2", len(retrieved.Collaborators))
		}
	})

	t.Run("GetTrip returns ErrNotFound", func(t *testing.T) {
		_, err := store.GetTrip(ctx, "nonexistent-id")
		if !errors.Is(err, storage.ErrNotFound) {
			t.Errorf("expected ErrNotFound, got %v", err)
		}
	})

	t.Run("AddCollaborator is idempotent", func(t *testing.T) {
		trip := &models.Trip{OwnerID: "owner-1", Name: "Lisbon"}
		if err := store.CreateTrip(ctx, trip); err != nil {
			t.Fatalf("CreateTrip failed: %v", err)
		}

		for i := 0; i < 2; i++ {
			if err := store.AddCollaborator(ctx, trip.ID, "user-9"); err != nil {
				t.Fatalf("AddCollaborator failed: %v", err)
			}
		}

		count, err := store.CountCollaborators(ctx, trip.ID)
		if err != nil {
			t.Fatalf("CountCollaborators failed: %v", err)
		}
		if count != 1 {
			t.Errorf("collaborator count = %d, want 1", count)
		}
	})

	t.Run("ListTrips includes owned and shared trips", func(t *testing.T) {
		owned := &models.Trip{OwnerID: "lister", Name: "Owned"}
		shared := &models.Trip{OwnerID: "someone-else", Name: "Shared", Collaborators: []string{"lister"}}
		unrelated := &models.Trip{OwnerID: "someone-else", Name: "Unrelated"}
		for _, trip := range []*models.Trip{owned, shared, unrelated} {
			if err := store.CreateTrip(ctx, trip); err != nil {
				t.Fatalf("CreateTrip failed: %v", err)
			}
		}

		trips, err := store.ListTrips(ctx, "lister")
		if err != nil {
			t.Fatalf("ListTrips failed: %v", err)
		}
		if len(trips) != 2 {
			t.Errorf("got %d trips, want 2", len(trips))
		}
	})

	t.Run("CountTrips counts only owned trips", func(t *testing.T) {
		count, err := store.CountTrips(ctx, "lister")
		if err != nil {
			t.Fatalf("CountTrips failed: %v", err)
		}
		if count != 1 {
			t.Errorf("trip count = %d, want 1", count)
		}
	})
}

func TestExpenses(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	trip := &models.Trip{OwnerID: "owner-1", Name: "Kyoto"}
	if err := store.CreateTrip(ctx, trip); err != nil {
		t.Fatalf("CreateTrip failed: %v", err)
	}

	t.Run("CreateExpense persists expense with splits atomically", func(t *testing.T) {
		expense := &models.Expense{
			TripID:      trip.ID,
			PaidBy:      "owner-1",
			Description: "Ryokan night",
			AmountMinor: 30000,
			Currency:    "JPY",
			Category:    models.CategoryLodging,
			Policy:      models.SplitEqual,
			Splits: []models.ExpenseSplit{
				{ParticipantID: "owner-1", AmountMinor: 15000},
				{ParticipantID: "user-2", AmountMinor: 15000},
			},
		}

		if err := store.CreateExpense(ctx, expense); err != nil {
			t.Fatalf("CreateExpense failed: %v", err)
		}

		retrieved, err := store.GetExpense(ctx, expense.ID)
		if err != nil {
			t.Fatalf("GetExpense failed: %v", err)
		}
		if retrieved.AmountMinor != 30000 {
			t.Errorf("AmountMinor = %d, want 30000", retrieved.AmountMinor)
		}
		if retrieved.Policy != models.SplitEqual {
			t.Errorf("Policy = %q, want %q", retrieved.Policy, models.SplitEqual)
		}
		if len(retrieved.Splits) != 2 {
			t.Fatalf("got %d splits, want 2", len(retrieved.Splits))
		}
		var sum int64
		for _, s := range retrieved.Splits {
			if s.ExpenseID != expense.ID {
				t.Errorf("split ExpenseID = %q, want %q", s.ExpenseID, expense.ID)
			}
			sum += s.AmountMinor
		}
		if sum != retrieved.AmountMinor {
			t.Errorf("splits sum to %d, want %d", sum, retrieved.AmountMinor)
		}
	})

	t.Run("DeleteExpense cascades to splits", func(t *testing.T) {
		expense := &models.Expense{
			TripID:      trip.ID,
			PaidBy:      "owner-1",
			Description: "Taxi",
			AmountMinor: 2000,
			Currency:    "JPY",
			Category:    models.CategoryTransport,
			Policy:      models.SplitEqual,
			Splits:      []models.ExpenseSplit{{ParticipantID: "owner-1", AmountMinor: 2000}},
		}
		if err := store.CreateExpense(ctx, expense); err != nil {
			t.Fatalf("CreateExpense failed: %v", err)
		}

		if err := store.DeleteExpense(ctx, expense.ID); err != nil {
			t.Fatalf("DeleteExpense failed: %v", err)
		}
		if _, err := store.GetExpense(ctx, expense.ID); !errors.Is(err, storage.ErrNotFound) {
			t.Errorf("expected ErrNotFound after delete, got %v", err)
		}

		// Deleting again is a no-op, not an error.
		if err := store.DeleteExpense(ctx, expense.ID); err != nil {
			t.Errorf("second DeleteExpense failed: %v", err)
		}
	})

	t.Run("CountExpenses tracks the trip", func(t *testing.T) {
		count, err := store.CountExpenses(ctx, trip.ID)
		if err != nil {
			t.Fatalf("CountExpenses failed: %v", err)
		}
		if count != 1 {
			t.Errorf("expense count = %d, want 1", count)
		}
	})
}

func TestUsers(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	user := models.NewUser("alice@example.com", "Alice", "hash")
	if err := store.CreateUser(ctx, user); err != nil {
		t.Fatalf("CreateUser failed: %v", err)
	}

	byEmail, err := store.GetUserByEmail(ctx, "alice@example.com")
	if err != nil {
		t.Fatalf("GetUserByEmail failed: %v", err)
	}
	if byEmail == nil || byEmail.ID != user.ID {
		t.Errorf("GetUserByEmail = %+v, want user %s", byEmail, user.ID)
	}
	if byEmail.Tier != models.TierFree {
		t.Errorf("Tier = %q, want %q", byEmail.Tier, models.TierFree)
	}

	missing, err := store.GetUserByID(ctx, "nope")
	if err != nil {
		t.Fatalf("GetUserByID failed: %v", err)
	}
	if missing != nil {
		t.Errorf("expected nil for missing user, got %+v", missing)
	}

	// Duplicate email violates the unique constraint.
	dup := models.NewUser("alice@example.com", "Other Alice", "hash2")
	if err := store.CreateUser(ctx, dup); err == nil {
		t.Error("expected error for duplicate email")
	}
}

func TestOfflineInventory(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	t.Run("Put and Get cached document", func(t *testing.T) {
		doc := &models.CachedDocument{
			ID:            "doc-1",
			TripID:        "trip-1",
			FileName:      "passport.pdf",
			FileSizeBytes: 2048,
			LocalURI:      "blobs/doc-1",
			DownloadedAt:  1700000000,
		}
		if err := store.PutCachedDocument(ctx, doc); err != nil {
			t.Fatalf("PutCachedDocument failed: %v", err)
		}

		got, err := store.GetCachedDocument(ctx, "doc-1")
		if err != nil {
			t.Fatalf("GetCachedDocument failed: %v", err)
		}
		if got == nil || got.FileSizeBytes != 2048 {
			t.Errorf("got %+v, want FileSizeBytes 2048", got)
		}
	})

	t.Run("Put replaces existing record", func(t *testing.T) {
		doc := &models.CachedDocument{
			ID: "doc-1", TripID: "trip-1", FileName: "passport.pdf",
			FileSizeBytes: 4096, LocalURI: "blobs/doc-1", DownloadedAt: 1700000100,
		}
		if err := store.PutCachedDocument(ctx, doc); err != nil {
			t.Fatalf("PutCachedDocument failed: %v", err)
		}

		docs, err := store.ListCachedDocuments(ctx, "")
		if err != nil {
			t.Fatalf("ListCachedDocuments failed: %v", err)
		}
		if len(docs) != 1 {
			t.Fatalf("got %d documents, want 1", len(docs))
		}
		if docs[0].FileSizeBytes != 4096 {
			t.Errorf("FileSizeBytes = %d, want 4096", docs[0].FileSizeBytes)
		}
	})

	t.Run("List filters by trip", func(t *testing.T) {
		other := &models.CachedDocument{
			ID: "doc-2", TripID: "trip-2", FileName: "tickets.pdf",
			FileSizeBytes: 100, LocalURI: "blobs/doc-2", DownloadedAt: 1700000200,
		}
		if err := store.PutCachedDocument(ctx, other); err != nil {
			t.Fatalf("PutCachedDocument failed: %v", err)
		}

		docs, err := store.ListCachedDocuments(ctx, "trip-2")
		if err != nil {
			t.Fatalf("ListCachedDocuments failed: %v", err)
		}
		if len(docs) != 1 || docs[0].ID != "doc-2" {
			t.Errorf("trip filter returned %+v", docs)
		}
	})

	t.Run("Delete absent document is a no-op", func(t *testing.T) {
		if err := store.DeleteCachedDocument(ctx, "ghost"); err != nil {
			t.Errorf("DeleteCachedDocument failed: %v", err)
		}
	})

	t.Run("Map regions round-trip", func(t *testing.T) {
		region := &models.OfflineMapRegion{
			ID: "region-1", TripID: "trip-1", Name: "Shibuya",
			Latitude: 35.66, Longitude: 139.70,
			LatitudeDelta: 0.05, LongitudeDelta: 0.05,
			ZoomLevel: 14, TileCount: 120, SizeInMB: 1.8,
			DownloadedAt: 1700000300,
		}
		if err := store.PutMapRegion(ctx, region); err != nil {
			t.Fatalf("PutMapRegion failed: %v", err)
		}

		got, err := store.GetMapRegion(ctx, "region-1")
		if err != nil {
			t.Fatalf("GetMapRegion failed: %v", err)
		}
		if got == nil || got.TileCount != 120 {
			t.Errorf("got %+v, want TileCount 120", got)
		}

		if err := store.DeleteMapRegion(ctx, "region-1"); err != nil {
			t.Fatalf("DeleteMapRegion failed: %v", err)
		}
		gone, err := store.GetMapRegion(ctx, "region-1")
		if err != nil {
			t.Fatalf("GetMapRegion failed: %v", err)
		}
		if gone != nil {
			t.Errorf("expected nil after delete, got %+v", gone)
		}
	})
}
