package booking

import (
	"strings"
	"time"
)

// Hotel aggregates its rooms. CityRegister is the business key; the
// surrogate id is assigned once at creation and never reused.
type Hotel struct {
	ID           int64   `json:"id"`
	CityRegister string  `json:"city_register"`
	Name         string  `json:"name"`
	City         string  `json:"city"`
	Rooms        []*Room `json:"rooms"`
}

// Room is owned by exactly one hotel; RoomNumber is unique within it.
// Bookings keep insertion order and never overlap each other.
type Room struct {
	ID         int64         `json:"id"`
	RoomNumber int           `json:"room_number"`
	Persons    int           `json:"persons"`
	Price      float64       `json:"price"`
	Bookings   []BookingInfo `json:"bookings"`
}

type User struct {
	ID       int64  `json:"id"`
	Login    string `json:"login"`
	Name     string `json:"name"`
	LastName string `json:"last_name"`
}

// BookingInfo is a half-open reservation interval [FromDate, ToDate) held
// by a user. Construct it with NewBookingInfo; an instance with
// FromDate >= ToDate must never exist.
type BookingInfo struct {
	UserLogin string    `json:"user_login"`
	FromDate  time.Time `json:"from_date"`
	ToDate    time.Time `json:"to_date"`
}

func NewBookingInfo(userLogin string, from, to time.Time) (BookingInfo, error) {
	inputErr := newInputError()

	if strings.TrimSpace(userLogin) == "" {
		inputErr.addError("userLogin", "provide user login")
	}

	from = day(from)
	to = day(to)

	if !from.Before(to) {
		inputErr.addError("fromDate", "fromDate must be before toDate")
	}

	if inputErr.fieldsCount() > 0 {
		return BookingInfo{}, inputErr
	}

	return BookingInfo{
		UserLogin: userLogin,
		FromDate:  from,
		ToDate:    to,
	}, nil
}

// Equal compares by the (userLogin, fromDate, toDate) triple.
func (b BookingInfo) Equal(other BookingInfo) bool {
	return b.UserLogin == other.UserLogin &&
		b.FromDate.Equal(other.FromDate) &&
		b.ToDate.Equal(other.ToDate)
}

// day normalizes to midnight UTC; booking granularity is whole days.
func day(t time.Time) time.Time {
	t = t.UTC()

	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

func (h *Hotel) RoomByNumber(roomNumber int) (*Room, bool) {
	for _, room := range h.Rooms {
		if room.RoomNumber == roomNumber {
			return room, true
		}
	}

	return nil, false
}

// Clone deep-copies the hotel so readers never share slices with the store.
func (h *Hotel) Clone() *Hotel {
	cp := *h
	cp.Rooms = make([]*Room, 0, len(h.Rooms))

	for _, room := range h.Rooms {
		cp.Rooms = append(cp.Rooms, room.Clone())
	}

	return &cp
}

func (r *Room) Clone() *Room {
	cp := *r
	cp.Bookings = append([]BookingInfo(nil), r.Bookings...)

	return &cp
}

func (u *User) Clone() *User {
	cp := *u

	return &cp
}
