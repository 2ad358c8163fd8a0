package params

/* Entry and exit accept their fields from the query string, a JSON body, or
both. Parsing happens once here and the operations only ever see a
validated input struct.

Merge rule: a non-empty query value wins, the body fills whatever is still
empty. A body that is not a JSON object counts as no body at all.
*/

import (
	"encoding/json"
	"net/url"

	"github.com/Eyemetric/parking_service/internal/ticket"
)

type EntryInput struct {
	Plate      string
	ParkingLot string
}

type ExitInput struct {
	TicketID string
}

// decodeBody returns the top level string fields of a JSON object body.
// Anything else (empty, malformed, array, number) yields an empty map.
func decodeBody(body []byte) map[string]string {
	fields := map[string]string{}
	if len(body) == 0 {
		return fields
	}

	var raw map[string]any
	if err := json.Unmarshal(body, &raw); err != nil {
		return fields
	}
	for k, v := range raw {
		if s, ok := v.(string); ok {
			fields[k] = s
		}
	}
	return fields
}

// merge picks field from the query first and the body second.
func merge(query url.Values, body map[string]string, field string) string {
	if v := query.Get(field); v != "" {
		return v
	}
	return body[field]
}

func ParseEntry(query url.Values, body []byte) (EntryInput, error) {
	fields := decodeBody(body)
	in := EntryInput{
		Plate:      merge(query, fields, "plate"),
		ParkingLot: merge(query, fields, "parkingLot"),
	}
	if in.Plate == "" || in.ParkingLot == "" {
		return EntryInput{}, ticket.ErrMissingParameters
	}
	return in, nil
}

func ParseExit(query url.Values, body []byte) (ExitInput, error) {
	in := ExitInput{TicketID: merge(query, decodeBody(body), "ticketId")}
	if in.TicketID == "" {
		return ExitInput{}, ticket.ErrMissingTicketID
	}
	return in, nil
}
