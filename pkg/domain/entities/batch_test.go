package entities

import (
	"encoding/json"
	"testing"
	"time"
)

func TestBatch_Validation(t *testing.T) {
	received := time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)
	expires := received.Add(72 * time.Hour)

	valid, err := NewBatch("B1", "BEEF", "LOT-1", d("10"), d("8.5"), received, expires)
	if err != nil {
		t.Fatalf("Expected valid batch creation to succeed: %v", err)
	}
	if !valid.CurrentQuantity.Equal(valid.InitialQuantity) {
		t.Errorf("Expected a full batch, got %s of %s", valid.CurrentQuantity, valid.InitialQuantity)
	}
	if valid.Status != BatchActive {
		t.Errorf("Expected ACTIVE status, got %s", valid.Status)
	}

	_, err = NewBatch("", "BEEF", "LOT-1", d("10"), d("1"), received, expires)
	if err == nil || err.Error() != "batch id cannot be empty" {
		t.Errorf("Expected 'batch id cannot be empty', got %v", err)
	}

	_, err = NewBatch("B1", "BEEF", "LOT-1", d("-1"), d("1"), received, expires)
	if err == nil || err.Error() != "quantity cannot be negative, got -1" {
		t.Errorf("Expected negative quantity error, got %v", err)
	}
}

func TestSortByExpiry_StableOnTies(t *testing.T) {
	day := time.Date(2025, 2, 1, 0, 0, 0, 0, time.UTC)
	batches := []Batch{
		{ID: "late", ExpiresAt: day.Add(48 * time.Hour)},
		{ID: "tie-1", ExpiresAt: day},
		{ID: "tie-2", ExpiresAt: day},
	}

	SortByExpiry(batches)

	want := []string{"tie-1", "tie-2", "late"}
	for i, id := range want {
		if batches[i].ID != id {
			t.Errorf("Position %d: expected %s, got %s", i, id, batches[i].ID)
		}
	}
}

func TestBatchStatus_JSONRoundTrip(t *testing.T) {
	raw, err := json.Marshal(Batch{ID: "B1", Status: BatchDepleted})
	if err != nil {
		t.Fatalf("Marshal failed: %v", err)
	}

	var back Batch
	if err := json.Unmarshal(raw, &back); err != nil {
		t.Fatalf("Unmarshal failed: %v", err)
	}
	if back.Status != BatchDepleted {
		t.Errorf("Expected DEPLETED, got %s", back.Status)
	}
}

func TestBatch_ExpiresWithin(t *testing.T) {
	now := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	b := Batch{ExpiresAt: now.Add(6 * 24 * time.Hour)}

	if !b.ExpiresWithin(now, 7*24*time.Hour) {
		t.Error("Expected batch to expire within 7 days")
	}
	if b.ExpiresWithin(now, 5*24*time.Hour) {
		t.Error("Expected batch not to expire within 5 days")
	}
}

func TestBatch_Deduct(t *testing.T) {
	b := Batch{ID: "B1", InitialQuantity: d("5"), CurrentQuantity: d("5")}

	if taken := b.Deduct(d("2")); !taken.Equal(d("2")) {
		t.Errorf("Expected to take 2, took %s", taken)
	}
	if !b.CurrentQuantity.Equal(d("3")) || b.IsDepleted() {
		t.Errorf("Expected 3 remaining, got %s", b.CurrentQuantity)
	}

	if taken := b.Deduct(d("10")); !taken.Equal(d("3")) {
		t.Errorf("Expected to take the remaining 3, took %s", taken)
	}
	if !b.IsDepleted() || b.Status != BatchDepleted {
		t.Errorf("Expected depleted batch, got %s with status %s", b.CurrentQuantity, b.Status)
	}

	if taken := b.Deduct(d("-1")); !taken.IsZero() {
		t.Errorf("Expected negative deduction to take nothing, took %s", taken)
	}
}
