package ticket

/* A Ticket is one parking session. Entry creates it as active, Exit flips it
to completed exactly once. Nothing in this service deletes tickets.
*/

import (
	"errors"
	"fmt"
	"time"
)

type Status string

const (
	StatusActive    Status = "active"
	StatusCompleted Status = "completed"
)

func (s Status) Valid() bool {
	return s == StatusActive || s == StatusCompleted
}

// Client-facing failures. The HTTP layer owns the exact wording sent back.
var (
	ErrMissingParameters = errors.New("missing plate or parking lot")
	ErrMissingTicketID   = errors.New("missing ticket id")
	ErrTicketNotFound    = errors.New("ticket not found")
	ErrTicketAlreadyUsed = errors.New("ticket already used")
)

type Ticket struct {
	TicketID   string
	Plate      string
	ParkingLot string
	EntryTime  time.Time
	Status     Status
}

// New builds an active ticket. entryTime is normalized to UTC.
func New(ticketID, plate, parkingLot string, entryTime time.Time) Ticket {
	return Ticket{
		TicketID:   ticketID,
		Plate:      plate,
		ParkingLot: parkingLot,
		EntryTime:  entryTime.UTC(),
		Status:     StatusActive,
	}
}

func (t Ticket) Active() bool {
	return t.Status == StatusActive
}

// Record is the persisted layout of a ticket. Every store backend writes
// exactly these five string attributes.
type Record struct {
	TicketID   string `json:"ticketId"   dynamodbav:"ticketId"   redis:"ticketId"`
	Plate      string `json:"plate"      dynamodbav:"plate"      redis:"plate"`
	ParkingLot string `json:"parkingLot" dynamodbav:"parkingLot" redis:"parkingLot"`
	EntryTime  string `json:"entryTime"  dynamodbav:"entryTime"  redis:"entryTime"`
	Status     string `json:"status"     dynamodbav:"status"     redis:"status"`
}

func (t Ticket) Record() Record {
	return Record{
		TicketID:   t.TicketID,
		Plate:      t.Plate,
		ParkingLot: t.ParkingLot,
		EntryTime:  FormatTime(t.EntryTime),
		Status:     string(t.Status),
	}
}

// Ticket converts a stored record back, rejecting records that were not
// written by this service (bad timestamp or unknown status).
func (r Record) Ticket() (Ticket, error) {
	entry, err := ParseTime(r.EntryTime)
	if err != nil {
		return Ticket{}, fmt.Errorf("ticket %s: %w", r.TicketID, err)
	}
	status := Status(r.Status)
	if !status.Valid() {
		return Ticket{}, fmt.Errorf("ticket %s: unknown status %q", r.TicketID, r.Status)
	}
	return Ticket{
		TicketID:   r.TicketID,
		Plate:      r.Plate,
		ParkingLot: r.ParkingLot,
		EntryTime:  entry,
		Status:     status,
	}, nil
}
