package llm

import (
	"strconv"
	"testing"
)

func TestKeyTableOrderAndUsability(t *testing.T) {
	table := NewKeyTable([]string{"k1", "", "k2", "k3"})
	keys := table.Keys()
	if len(keys) != 3 {
		t.Fatalf("expected 3 keys, got %d", len(keys))
	}
	if keys[0] != "k1" || keys[1] != "k2" || keys[2] != "k3" {
		t.Fatalf("expected configured order preserved, got %v", keys)
	}
	for _, k := range keys {
		if !table.Usable(k) {
			t.Fatalf("expected fresh key %s usable", k)
		}
	}
}

func TestKeyTableMarkAndAllExhausted(t *testing.T) {
	table := NewKeyTable([]string{"k1", "k2"})
	table.MarkRateLimited("k1", "429")
	if table.Usable("k1") {
		t.Fatalf("expected rate-limited key unusable")
	}
	if table.AllExhausted() {
		t.Fatalf("expected k2 still usable")
	}
	table.MarkExhausted("k2", "quota")
	if !table.AllExhausted() {
		t.Fatalf("expected all keys exhausted")
	}
}

func TestKeyTableResetRestoresKeys(t *testing.T) {
	table := NewKeyTable([]string{"k1"})
	table.MarkExhausted("k1", "quota")
	table.Reset()
	if !table.Usable("k1") {
		t.Fatalf("expected key usable after reset")
	}
	snap := table.Snapshot()
	if len(snap) != 1 || snap[0].Exhausted || snap[0].LastError != "" {
		t.Fatalf("expected clean snapshot, got %+v", snap)
	}
}

func TestKeyTableSnapshotHidesKeyMaterial(t *testing.T) {
	table := NewKeyTable([]string{"sk-secret-value"})
	snap := table.Snapshot()
	if len(snap) != 1 {
		t.Fatalf("expected one entry, got %d", len(snap))
	}
	if snap[0].Label != "key1" {
		t.Fatalf("expected positional label, got %q", snap[0].Label)
	}
}

func TestKeyTableLabelsPastNine(t *testing.T) {
	keys := make([]string, 12)
	for i := range keys {
		keys[i] = "k" + strconv.Itoa(i)
	}
	table := NewKeyTable(keys)
	snap := table.Snapshot()
	if snap[9].Label != "key10" || snap[11].Label != "key12" {
		t.Fatalf("expected decimal labels, got %q and %q", snap[9].Label, snap[11].Label)
	}
}
