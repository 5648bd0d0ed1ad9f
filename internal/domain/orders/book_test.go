package orders

import (
	"errors"
	"testing"
)

func seedBook(t *testing.T) (*Book, *Item, *Item) {
	t.Helper()
	b := NewBook()
	rx := draftPrescription("阿莫西林胶囊", 12.80)
	if err := b.Add(rx); err != nil {
		t.Fatalf("add prescription: %v", err)
	}
	lab := &Item{Name: "血常规", Category: CategoryLabTest, UnitPrice: 25}
	if err := b.Add(lab); err != nil {
		t.Fatalf("add lab test: %v", err)
	}
	return b, rx, lab
}

func TestBook_SendAllSendsEveryDraft(t *testing.T) {
	b, rx, lab := seedBook(t)

	sent, err := b.SendAll()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if sent != 2 {
		t.Errorf("expected 2 items sent, got %d", sent)
	}
	if rx.State != StateSent || lab.State != StateSent {
		t.Error("expected every draft to transition to sent")
	}
	if b.PendingCount() != 0 {
		t.Errorf("expected no pending items, got %d", b.PendingCount())
	}
}

func TestBook_SendAllWithNothingPending(t *testing.T) {
	b := NewBook()
	if _, err := b.SendAll(); !errors.Is(err, ErrNothingToSend) {
		t.Fatalf("expected ErrNothingToSend, got %v", err)
	}

	// Idempotent across repeated sends.
	b, _, _ = seedBook(t)
	b.SendAll()
	if _, err := b.SendAll(); !errors.Is(err, ErrNothingToSend) {
		t.Fatalf("expected ErrNothingToSend after send, got %v", err)
	}
}

func TestBook_UpdatePrescriptionRederivesQuantity(t *testing.T) {
	b, rx, _ := seedBook(t)

	dosage := 2.0
	freq := FreqTID
	days := 5
	it, err := b.UpdatePrescription(rx.ID, PrescriptionUpdate{
		Dosage:       &dosage,
		Frequency:    &freq,
		DurationDays: &days,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if it.DispenseQuantity != 2 {
		t.Errorf("expected dispense quantity 2, got %d", it.DispenseQuantity)
	}

	snap, _ := b.Snapshot(CategoryPrescription)
	if snap.Total != 25.60 {
		t.Errorf("expected total 25.60 after update, got %.2f", snap.Total)
	}
}

func TestBook_UpdatePrescriptionRejectsSent(t *testing.T) {
	b, rx, _ := seedBook(t)
	b.SendAll()

	dosage := 2.0
	if _, err := b.UpdatePrescription(rx.ID, PrescriptionUpdate{Dosage: &dosage}); !errors.Is(err, ErrIllegalTransition) {
		t.Fatalf("expected ErrIllegalTransition for a sent item, got %v", err)
	}
}

func TestBook_UpdatePrescriptionRejectsBadInputs(t *testing.T) {
	b, rx, _ := seedBook(t)

	bad := -1.0
	if _, err := b.UpdatePrescription(rx.ID, PrescriptionUpdate{Dosage: &bad}); !errors.Is(err, ErrValidation) {
		t.Fatalf("expected ErrValidation, got %v", err)
	}
	if rx.Dosage != DefaultDosage {
		t.Error("failed validation must not mutate the item")
	}
}

func TestBook_SetUrgent(t *testing.T) {
	b, rx, _ := seedBook(t)

	it, err := b.SetUrgent(rx.ID, true)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !it.Urgent {
		t.Error("expected urgent flag set")
	}
}

func TestBook_PendingCountGatesCompletion(t *testing.T) {
	b, _, lab := seedBook(t)
	if b.PendingCount() != 2 {
		t.Fatalf("expected 2 pending, got %d", b.PendingCount())
	}

	b.Remove(CategoryLabTest, lab.ID, false)
	if b.PendingCount() != 1 {
		t.Errorf("expected 1 pending after draft removal, got %d", b.PendingCount())
	}
}

func TestBook_ReplaceHerbalDrafts(t *testing.T) {
	b := NewBook()
	if err := b.Add(&Item{Name: "黄芪", Category: CategoryHerbal, DosageGrams: 15}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	formula := []*Item{
		{Name: "党参", Category: CategoryHerbal, DosageGrams: 10},
		{Name: "白术", Category: CategoryHerbal, DosageGrams: 10},
		{Name: "茯苓", Category: CategoryHerbal, DosageGrams: 10},
		{Name: "甘草", Category: CategoryHerbal, DosageGrams: 6},
	}
	if err := b.ReplaceHerbalDrafts(formula); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	snap, _ := b.Snapshot(CategoryHerbal)
	if snap.Count != 4 {
		t.Errorf("expected the formula to replace the draft set, got %d items", snap.Count)
	}
	if snap.Items[0].Name != "党参" {
		t.Errorf("expected formula order preserved, got %s first", snap.Items[0].Name)
	}
}

func TestBook_ReplaceHerbalDraftsRejectsActiveName(t *testing.T) {
	b := NewBook()
	if err := b.Add(&Item{Name: "党参", Category: CategoryHerbal, DosageGrams: 10}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := b.SendAll(); err != nil {
		t.Fatalf("send: %v", err)
	}
	if err := b.Add(&Item{Name: "黄芪", Category: CategoryHerbal, DosageGrams: 15}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	formula := []*Item{
		{Name: "党参", Category: CategoryHerbal, DosageGrams: 10},
		{Name: "白术", Category: CategoryHerbal, DosageGrams: 10},
	}
	if err := b.ReplaceHerbalDrafts(formula); !errors.Is(err, ErrDuplicateItem) {
		t.Fatalf("expected ErrDuplicateItem for a sent herb name, got %v", err)
	}

	// The rejected formula must not have touched the collection.
	snap, _ := b.Snapshot(CategoryHerbal)
	if snap.Count != 2 {
		t.Fatalf("expected the sent herb and the draft to survive, got %d items", snap.Count)
	}
	active := map[string]int{}
	for _, it := range snap.Items {
		if it.Active() {
			active[it.Name]++
		}
	}
	if active["党参"] != 1 {
		t.Errorf("expected exactly one active 党参, got %d", active["党参"])
	}
	if active["黄芪"] != 1 || snap.Items[1].State != StateDraft {
		t.Error("expected the existing draft to be left untouched")
	}
}

func TestBook_SnapshotsCoverAllCategories(t *testing.T) {
	b := NewBook()
	snaps := b.Snapshots()
	if len(snaps) != len(AllCategories()) {
		t.Fatalf("expected %d snapshots, got %d", len(AllCategories()), len(snaps))
	}
	for i, cat := range AllCategories() {
		if snaps[i].Category != cat {
			t.Errorf("snapshot %d: expected %s, got %s", i, cat, snaps[i].Category)
		}
		if snaps[i].Total != 0 || snaps[i].Count != 0 {
			t.Errorf("empty category %s should have zero total and count", cat)
		}
	}
}
