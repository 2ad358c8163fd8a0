package params

import (
	"errors"
	"net/url"
	"testing"

	"github.com/Eyemetric/parking_service/internal/ticket"
)

func TestParseEntry(t *testing.T) {
	cases := []struct {
		name    string
		query   url.Values
		body    string
		want    EntryInput
		wantErr error
	}{
		{
			name:  "query only",
			query: url.Values{"plate": {"ABC123"}, "parkingLot": {"North"}},
			want:  EntryInput{Plate: "ABC123", ParkingLot: "North"},
		},
		{
			name: "body only",
			body: `{"plate": "ABC123", "parkingLot": "North"}`,
			want: EntryInput{Plate: "ABC123", ParkingLot: "North"},
		},
		{
			name:  "query wins over body",
			query: url.Values{"plate": {"FROM-QUERY"}},
			body:  `{"plate": "FROM-BODY", "parkingLot": "South"}`,
			want:  EntryInput{Plate: "FROM-QUERY", ParkingLot: "South"},
		},
		{
			name:  "empty query value falls back to body",
			query: url.Values{"plate": {""}, "parkingLot": {"East"}},
			body:  `{"plate": "BODY-PLATE"}`,
			want:  EntryInput{Plate: "BODY-PLATE", ParkingLot: "East"},
		},
		{
			name:    "malformed body is ignored",
			query:   url.Values{"plate": {"ABC123"}},
			body:    `{"parkingLot": "North"`,
			wantErr: ticket.ErrMissingParameters,
		},
		{
			name:    "array body is ignored",
			body:    `[{"plate": "ABC123", "parkingLot": "North"}]`,
			wantErr: ticket.ErrMissingParameters,
		},
		{
			name:    "non string field is ignored",
			body:    `{"plate": 1234, "parkingLot": "North"}`,
			wantErr: ticket.ErrMissingParameters,
		},
		{
			name:    "nothing at all",
			wantErr: ticket.ErrMissingParameters,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := ParseEntry(tc.query, []byte(tc.body))
			if tc.wantErr != nil {
				if !errors.Is(err, tc.wantErr) {
					t.Fatalf("err = %v, want %v", err, tc.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatal(err)
			}
			if got != tc.want {
				t.Errorf("got %+v, want %+v", got, tc.want)
			}
		})
	}
}

func TestParseExit(t *testing.T) {
	got, err := ParseExit(url.Values{"ticketId": {"q-id"}}, []byte(`{"ticketId": "b-id"}`))
	if err != nil {
		t.Fatal(err)
	}
	if got.TicketID != "q-id" {
		t.Errorf("TicketID = %s, want query value", got.TicketID)
	}

	got, err = ParseExit(nil, []byte(`{"ticketId": "b-id"}`))
	if err != nil || got.TicketID != "b-id" {
		t.Errorf("body fallback: got %+v, %v", got, err)
	}

	if _, err := ParseExit(nil, []byte(`not json`)); !errors.Is(err, ticket.ErrMissingTicketID) {
		t.Errorf("err = %v, want ErrMissingTicketID", err)
	}
	if _, err := ParseExit(url.Values{}, nil); !errors.Is(err, ticket.ErrMissingTicketID) {
		t.Errorf("err = %v, want ErrMissingTicketID", err)
	}
}
