package ticket

import (
	"testing"
	"time"
)

func TestParseTime(t *testing.T) {

	want := time.Date(2025, 2, 1, 10, 30, 45, 123456000, time.UTC)

	inputs := []string{
		"2025-02-01T10:30:45.123456+00:00", //python isoformat()
		"2025-02-01T10:30:45.123456Z",
		"2025-02-01T05:30:45.123456-05:00",
		"2025-02-01T10:30:45.123456",
	}
	for _, in := range inputs {
		got, err := ParseTime(in)
		if err != nil {
			t.Fatalf("ParseTime(%q): %v", in, err)
		}
		if !got.Equal(want) || got.Location() != time.UTC {
			t.Errorf("ParseTime(%q) = %v, want %v in UTC", in, got, want)
		}
	}

	if _, err := ParseTime("yesterday"); err == nil {
		t.Error("expected error for garbage input")
	}
}

func TestRecordKeepsSubSecondPrecision(t *testing.T) {
	entry := time.Date(2025, 2, 1, 10, 30, 45, 987654321, time.FixedZone("EST", -5*3600))
	tk := New("abc", "NJ-123", "Lot A", entry)

	rec := tk.Record()
	if rec.EntryTime != "2025-02-01T15:30:45.987654321Z" {
		t.Fatalf("EntryTime = %s", rec.EntryTime)
	}
	if rec.Status != "active" {
		t.Fatalf("Status = %s, want active", rec.Status)
	}

	back, err := rec.Ticket()
	if err != nil {
		t.Fatal(err)
	}
	if !back.EntryTime.Equal(entry) {
		t.Errorf("entry time changed: %v vs %v", back.EntryTime, entry)
	}
}

func TestRecordRejectsUnknownStatus(t *testing.T) {
	rec := Record{TicketID: "x", EntryTime: "2025-02-01T10:30:45Z", Status: "lost"}
	if _, err := rec.Ticket(); err == nil {
		t.Fatal("expected error for unknown status")
	}
}
