package memory

import (
	"context"
	"testing"

	"github.com/wadjakorntonsri/linkbio/pkg/core/domain"
)

func insertLink(t *testing.T, s *Store, userID, title string) *domain.Link {
	t.Helper()
	link := &domain.Link{UserID: userID, Title: title, URL: "https://example.com"}
	if err := s.Insert(context.Background(), link); err != nil {
		t.Fatalf("Insert(%q) failed: %v", title, err)
	}
	return link
}

func TestInsertDerivesPositionPerUser(t *testing.T) {
	s := NewStore()

	a := insertLink(t, s, "u1", "A")
	b := insertLink(t, s, "u1", "B")
	other := insertLink(t, s, "u2", "X")

	if a.Position != 0 || b.Position != 1 {
		t.Errorf("u1 positions = %d, %d, want 0, 1", a.Position, b.Position)
	}
	// Another user's links never shift the sequence.
	if other.Position != 0 {
		t.Errorf("u2 first position = %d, want 0", other.Position)
	}
	if a.ID == "" || a.ID == b.ID {
		t.Error("ids not assigned uniquely")
	}
}

func TestDeleteCompacts(t *testing.T) {
	s := NewStore()
	insertLink(t, s, "u1", "A")
	b := insertLink(t, s, "u1", "B")
	insertLink(t, s, "u1", "C")

	if err := s.Delete(context.Background(), "u1", b.ID); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}

	links, err := s.ListByUser(context.Background(), "u1")
	if err != nil {
		t.Fatal(err)
	}
	if len(links) != 2 {
		t.Fatalf("got %d links, want 2", len(links))
	}
	for i, l := range links {
		if l.Position != i {
			t.Errorf("links[%d].Position = %d, want %d", i, l.Position, i)
		}
	}
	if links[0].Title != "A" || links[1].Title != "C" {
		t.Errorf("order = %s, %s, want A, C", links[0].Title, links[1].Title)
	}
}

func TestOwnershipEnforced(t *testing.T) {
	s := NewStore()
	mine := insertLink(t, s, "u1", "A")

	if _, err := s.GetByID(context.Background(), "u2", mine.ID); !domain.IsKind(err, domain.KindNotFound) {
		t.Errorf("GetByID across users returned %v, want not-found", err)
	}
	if err := s.Delete(context.Background(), "u2", mine.ID); !domain.IsKind(err, domain.KindNotFound) {
		t.Errorf("Delete across users returned %v, want not-found", err)
	}
	if err := s.UpdatePosition(context.Background(), "u2", mine.ID, 5); !domain.IsKind(err, domain.KindNotFound) {
		t.Errorf("UpdatePosition across users returned %v, want not-found", err)
	}
}

func TestClicksByLink(t *testing.T) {
	s := NewStore()
	a := insertLink(t, s, "u1", "A")
	b := insertLink(t, s, "u1", "B")

	for i := 0; i < 3; i++ {
		if err := s.RecordClick(context.Background(), a.ID); err != nil {
			t.Fatal(err)
		}
	}

	clicks, err := s.ClicksByLink(context.Background(), "u1")
	if err != nil {
		t.Fatal(err)
	}
	if clicks[a.ID] != 3 || clicks[b.ID] != 0 {
		t.Errorf("clicks = %v, want a:3 b:0", clicks)
	}
}

func TestReadsReturnCopies(t *testing.T) {
	s := NewStore()
	a := insertLink(t, s, "u1", "A")

	got, err := s.GetByID(context.Background(), "u1", a.ID)
	if err != nil {
		t.Fatal(err)
	}
	got.Title = "mutated"

	again, _ := s.GetByID(context.Background(), "u1", a.ID)
	if again.Title != "A" {
		t.Errorf("store mutated through a returned copy: %q", again.Title)
	}
}
