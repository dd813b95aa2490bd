package domain

import "strconv"

type (
	MovieID    int
	ShowroomID int
	SeatTypeID int
	SeatID     int
	ShowtimeID int
)

// CustomerID identifies whoever owns a ticket. Authentication lives outside this
// service, so it is an opaque value supplied by the caller.
type CustomerID string

func (id MovieID) String() string    { return strconv.Itoa(int(id)) }
func (id ShowroomID) String() string { return strconv.Itoa(int(id)) }
func (id SeatTypeID) String() string { return strconv.Itoa(int(id)) }
func (id SeatID) String() string     { return strconv.Itoa(int(id)) }
func (id ShowtimeID) String() string { return strconv.Itoa(int(id)) }
