package memory

import (
	"context"
	"testing"
	"time"

	"fitlog/internal/domain"
)

func ptr(v float64) *float64 { return &v }

func TestMeasurementRepository(t *testing.T) {
	db := New()
	ctx := context.Background()

	id1, err := db.Append(ctx, domain.Measurement{UserID: "alice", Weight: 70, FatPercentage: 15, Date: "2024-01-01"})
	if err != nil {
		t.Fatalf("Append: %v", err)
	}
	id2, _ := db.Append(ctx, domain.Measurement{UserID: "bob", Weight: 80, FatPercentage: 20, Date: "2024-01-01"})
	id3, _ := db.Append(ctx, domain.Measurement{UserID: "alice", Weight: 69, FatPercentage: 14, Date: "2024-01-02"})
	if !(id1 < id2 && id2 < id3) {
		t.Fatalf("expected increasing ids, got %d %d %d", id1, id2, id3)
	}

	got, err := db.ListByUser(ctx, "alice")
	if err != nil {
		t.Fatalf("ListByUser: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("expected 2 measurements, got %d", len(got))
	}
	if got[0].ID != id1 || got[1].ID != id3 {
		t.Errorf("expected insertion order [%d %d], got [%d %d]", id1, id3, got[0].ID, got[1].ID)
	}

	none, err := db.ListByUser(ctx, "carol")
	if err != nil {
		t.Fatalf("ListByUser: %v", err)
	}
	if none == nil || len(none) != 0 {
		t.Errorf("expected empty non-nil slice, got %#v", none)
	}
}

func TestMeasurementRepository_CopiesHeight(t *testing.T) {
	db := New()
	ctx := context.Background()

	h := 180.0
	_, _ = db.Append(ctx, domain.Measurement{UserID: "alice", Weight: 70, FatPercentage: 15, Height: &h})
	h = 1

	got, _ := db.ListByUser(ctx, "alice")
	if got[0].Height == nil || *got[0].Height != 180 {
		t.Errorf("stored height changed with caller's variable: %v", got[0].Height)
	}
}

func TestHeightCache(t *testing.T) {
	c := NewHeightCache()
	ctx := context.Background()

	h, err := c.Get(ctx, "alice")
	if err != nil || h != nil {
		t.Fatalf("expected nil height, got %v, %v", h, err)
	}

	if err := c.Ensure(ctx, "alice"); err != nil {
		t.Fatalf("Ensure: %v", err)
	}
	if h, _ := c.Get(ctx, "alice"); h != nil {
		t.Errorf("Ensure must not set a height, got %v", *h)
	}

	_ = c.Set(ctx, "alice", 175)
	if h, _ := c.Get(ctx, "alice"); h == nil || *h != 175 {
		t.Errorf("expected 175, got %v", h)
	}
}

func TestHeightCache_Reconcile(t *testing.T) {
	ctx := context.Background()
	history := []domain.Measurement{
		{ID: 1, Height: ptr(180)},
		{ID: 2},
	}

	t.Run("adopts newest measured height", func(t *testing.T) {
		c := NewHeightCache()
		_ = c.Reconcile(ctx, "alice", history)
		if h, _ := c.Get(ctx, "alice"); h == nil || *h != 180 {
			t.Errorf("expected 180, got %v", h)
		}
	})

	t.Run("explicit set survives until a newer measurement", func(t *testing.T) {
		c := NewHeightCache()
		_ = c.Reconcile(ctx, "alice", history)
		_ = c.Set(ctx, "alice", 185)

		_ = c.Reconcile(ctx, "alice", history)
		if h, _ := c.Get(ctx, "alice"); h == nil || *h != 185 {
			t.Fatalf("expected explicit 185 to stay, got %v", h)
		}

		newer := append(history, domain.Measurement{ID: 3, Height: ptr(182)})
		_ = c.Reconcile(ctx, "alice", newer)
		if h, _ := c.Get(ctx, "alice"); h == nil || *h != 182 {
			t.Errorf("expected 182 from newer measurement, got %v", h)
		}
	})

	t.Run("no heights leaves cache untouched", func(t *testing.T) {
		c := NewHeightCache()
		_ = c.Set(ctx, "bob", 175)
		_ = c.Reconcile(ctx, "bob", []domain.Measurement{{ID: 1}})
		if h, _ := c.Get(ctx, "bob"); h == nil || *h != 175 {
			t.Errorf("expected 175, got %v", h)
		}
	})
}

func TestSessionRepository(t *testing.T) {
	repo := NewSessionRepo()
	ctx := context.Background()

	err := repo.Create(ctx, domain.Session{Token: "token123", UserID: "alice", ExpiresAt: time.Now().Add(time.Hour)})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	sess, err := repo.GetByToken(ctx, "token123")
	if err != nil {
		t.Fatalf("GetByToken: %v", err)
	}
	if sess == nil || sess.UserID != "alice" {
		t.Fatalf("expected alice's session, got %v", sess)
	}

	_ = repo.Delete(ctx, "token123")
	sess, _ = repo.GetByToken(ctx, "token123")
	if sess != nil {
		t.Error("expected nil (deleted)")
	}
	if err := repo.Delete(ctx, "token123"); err != nil {
		t.Errorf("deleting twice should not fail: %v", err)
	}
}
