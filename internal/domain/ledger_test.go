package domain

import "testing"

func TestLedgerKeepsStrongestBound(t *testing.T) {
	l := NewTravelTimeLedger()
	key := FloorKey{
		Year: 2030, Product: "steel", Origin: "A", Destination: "B",
		PathID: "P1", NodeID: "B", Technology: "BEV", Fuel: "electricity", Generation: 1,
	}

	l.Raise(key, 5.25)
	l.Raise(key, 18.75)
	l.Raise(key, 10.0)

	got, ok := l.Get(key)
	if !ok {
		t.Fatal("bound missing after Raise")
	}
	if got != 18.75 {
		t.Errorf("bound = %.2f, want 18.75", got)
	}
	if l.Len() != 1 {
		t.Errorf("Len() = %d, want 1", l.Len())
	}
}

func TestLedgerRecordsAreDeterministicallyOrdered(t *testing.T) {
	l := NewTravelTimeLedger()
	k1 := FloorKey{Year: 2030, PathID: "P1", NodeID: "B", Technology: "BEV"}
	k2 := FloorKey{Year: 2030, PathID: "P1", NodeID: "B", Technology: "FCEV"}
	k3 := FloorKey{Year: 2025, PathID: "P1", NodeID: "B", Technology: "FCEV"}

	l.Raise(k2, 2)
	l.Raise(k1, 1)
	l.Raise(k3, 3)

	recs := l.Records()
	if len(recs) != 3 {
		t.Fatalf("got %d records, want 3", len(recs))
	}
	if recs[0].Year != 2025 {
		t.Errorf("first record year = %d, want 2025", recs[0].Year)
	}
	if recs[1].Technology != "BEV" || recs[2].Technology != "FCEV" {
		t.Errorf("records not ordered by technology: %q, %q", recs[1].Technology, recs[2].Technology)
	}
}
