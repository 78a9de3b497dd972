// Package file holds the durable stores. Each store owns one collection,
// one lock, one snapshot file and the id sequence persisted with it. Every
// mutation rewrites the whole snapshot as its last step; when the write
// fails, recorded rollback actions undo the in-memory change so memory and
// disk never diverge.
package file

import (
	"context"
	"sync"

	"github.com/cockroachdb/errors"

	"hotelier/internal/booking"
	"hotelier/internal/idgen"
	"hotelier/internal/logger"
)

type Config struct {
	L    *logger.Logger
	Path string
}

type hotelCounters struct {
	Hotels int64 `json:"hotelsCounter"`
	Orders int64 `json:"ordersCounter"`
	Rooms  int64 `json:"roomsCounter"`
}

type hotelSnapshot struct {
	Counters hotelCounters    `json:"counters"`
	Hotels   []*booking.Hotel `json:"hotels"`
}

type HotelStore struct {
	mu    sync.RWMutex
	l     *logger.Logger
	path  string
	seq   *idgen.Sequence
	fresh bool

	// hotels keeps insertion order for listings; byKey resolves the
	// cityRegister business key. Both reference the same records.
	hotels []*booking.Hotel
	byKey  map[string]*booking.Hotel
}

func OpenHotelStore(conf Config) (*HotelStore, error) {
	s := &HotelStore{
		l:     conf.L,
		path:  conf.Path,
		seq:   idgen.NewSequence(),
		byKey: make(map[string]*booking.Hotel),
	}

	var snap hotelSnapshot

	fresh, err := readSnapshot(conf.Path, &snap)
	if err != nil {
		return nil, errors.Wrap(err, "open hotel store")
	}

	s.fresh = fresh
	if fresh {
		return s, nil
	}

	if err := s.seq.Restore(idgen.KindHotel, snap.Counters.Hotels); err != nil {
		return nil, errors.Mark(err, ErrCorruptSnapshot)
	}

	if err := s.seq.Restore(idgen.KindOrder, snap.Counters.Orders); err != nil {
		return nil, errors.Mark(err, ErrCorruptSnapshot)
	}

	if err := s.seq.Restore(idgen.KindRoom, snap.Counters.Rooms); err != nil {
		return nil, errors.Mark(err, ErrCorruptSnapshot)
	}

	for _, hotel := range snap.Hotels {
		if _, ok := s.byKey[hotel.CityRegister]; ok {
			return nil, errors.Mark(
				errors.Newf("duplicate city register %q in %s", hotel.CityRegister, conf.Path),
				ErrCorruptSnapshot,
			)
		}

		s.hotels = append(s.hotels, hotel)
		s.byKey[hotel.CityRegister] = hotel
	}

	return s, nil
}

// Fresh reports whether the store started without an existing snapshot.
func (s *HotelStore) Fresh() bool {
	return s.fresh
}

func (s *HotelStore) Add(_ context.Context, cityRegister, name, city string) (*booking.Hotel, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.byKey[cityRegister]; ok {
		return nil, booking.ErrDuplicate
	}

	hotel := &booking.Hotel{
		ID:           s.seq.Next(idgen.KindHotel),
		CityRegister: cityRegister,
		Name:         name,
		City:         city,
		Rooms:        []*booking.Room{},
	}

	s.hotels = append(s.hotels, hotel)
	s.byKey[cityRegister] = hotel

	if err := s.persistLocked(); err != nil {
		s.hotels = s.hotels[:len(s.hotels)-1]
		delete(s.byKey, cityRegister)
		s.seq.Rewind(idgen.KindHotel)

		return nil, err
	}

	return hotel.Clone(), nil
}

func (s *HotelStore) UpdateHotel(_ context.Context, cityRegister, name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	hotel, ok := s.byKey[cityRegister]
	if !ok {
		return booking.ErrNotFound
	}

	oldName := hotel.Name
	hotel.Name = name

	if err := s.persistLocked(); err != nil {
		hotel.Name = oldName

		return err
	}

	return nil
}

func (s *HotelStore) Delete(_ context.Context, cityRegister string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	hotel, ok := s.byKey[cityRegister]
	if !ok {
		return booking.ErrNotFound
	}

	idx := s.indexLocked(cityRegister)
	s.hotels = append(s.hotels[:idx], s.hotels[idx+1:]...)
	delete(s.byKey, cityRegister)

	if err := s.persistLocked(); err != nil {
		s.hotels = append(s.hotels[:idx], append([]*booking.Hotel{hotel}, s.hotels[idx:]...)...)
		s.byKey[cityRegister] = hotel

		return err
	}

	return nil
}

func (s *HotelStore) AddRoom(
	_ context.Context,
	cityRegister string,
	roomNumber, persons int,
	price float64,
) (*booking.Room, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	hotel, ok := s.byKey[cityRegister]
	if !ok {
		return nil, booking.ErrNotFound
	}

	if _, ok := hotel.RoomByNumber(roomNumber); ok {
		return nil, booking.ErrDuplicate
	}

	room := &booking.Room{
		ID:         s.seq.Next(idgen.KindRoom),
		RoomNumber: roomNumber,
		Persons:    persons,
		Price:      price,
		Bookings:   []booking.BookingInfo{},
	}

	hotel.Rooms = append(hotel.Rooms, room)

	if err := s.persistLocked(); err != nil {
		hotel.Rooms = hotel.Rooms[:len(hotel.Rooms)-1]
		s.seq.Rewind(idgen.KindRoom)

		return nil, err
	}

	return room.Clone(), nil
}

func (s *HotelStore) UpdateRoom(
	_ context.Context,
	cityRegister string,
	roomNumber, persons int,
	price float64,
) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	room, err := s.resolveLocked(cityRegister, roomNumber)
	if err != nil {
		return err
	}

	oldPersons, oldPrice := room.Persons, room.Price
	room.Persons = persons
	room.Price = price

	if err := s.persistLocked(); err != nil {
		room.Persons = oldPersons
		room.Price = oldPrice

		return err
	}

	return nil
}

func (s *HotelStore) DeleteRoom(_ context.Context, cityRegister string, roomNumber int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	hotel, ok := s.byKey[cityRegister]
	if !ok {
		return booking.ErrNotFound
	}

	idx := -1

	for i, room := range hotel.Rooms {
		if room.RoomNumber == roomNumber {
			idx = i

			break
		}
	}

	if idx < 0 {
		return booking.ErrNotFound
	}

	room := hotel.Rooms[idx]
	hotel.Rooms = append(hotel.Rooms[:idx], hotel.Rooms[idx+1:]...)

	if err := s.persistLocked(); err != nil {
		hotel.Rooms = append(hotel.Rooms[:idx], append([]*booking.Room{room}, hotel.Rooms[idx:]...)...)

		return err
	}

	return nil
}

// Book resolves hotel and room, runs the availability engine and persists
// the extended booking list, all under the collection lock. The returned
// order number comes from the store-owned sequence and is durable together
// with the booking itself.
func (s *HotelStore) Book(
	_ context.Context,
	cityRegister string,
	roomNumber int,
	candidate booking.BookingInfo,
) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	room, err := s.resolveLocked(cityRegister, roomNumber)
	if err != nil {
		return 0, err
	}

	updated, err := booking.Book(room.Bookings, candidate)
	if err != nil {
		return 0, err
	}

	old := room.Bookings
	room.Bookings = updated
	orderID := s.seq.Next(idgen.KindOrder)

	if err := s.persistLocked(); err != nil {
		room.Bookings = old
		s.seq.Rewind(idgen.KindOrder)

		return 0, err
	}

	return orderID, nil
}

// CancelBooking removes the booking exactly equal to target. Availability
// is irrelevant here; only equality membership decides existence.
func (s *HotelStore) CancelBooking(
	_ context.Context,
	cityRegister string,
	roomNumber int,
	target booking.BookingInfo,
) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	room, err := s.resolveLocked(cityRegister, roomNumber)
	if err != nil {
		return err
	}

	updated, err := booking.Cancel(room.Bookings, target)
	if err != nil {
		return err
	}

	old := room.Bookings
	room.Bookings = updated

	if err := s.persistLocked(); err != nil {
		room.Bookings = old

		return err
	}

	return nil
}

func (s *HotelStore) ByCityRegister(cityRegister string) (*booking.Hotel, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	hotel, ok := s.byKey[cityRegister]
	if !ok {
		return nil, false
	}

	return hotel.Clone(), true
}

// All returns the hotels in insertion order. The result is a deep copy:
// a fresh read, not a live view of store state.
func (s *HotelStore) All() []*booking.Hotel {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]*booking.Hotel, 0, len(s.hotels))
	for _, hotel := range s.hotels {
		result = append(result, hotel.Clone())
	}

	return result
}

func (s *HotelStore) resolveLocked(cityRegister string, roomNumber int) (*booking.Room, error) {
	hotel, ok := s.byKey[cityRegister]
	if !ok {
		return nil, booking.ErrNotFound
	}

	room, ok := hotel.RoomByNumber(roomNumber)
	if !ok {
		return nil, booking.ErrNotFound
	}

	return room, nil
}

func (s *HotelStore) indexLocked(cityRegister string) int {
	for i, hotel := range s.hotels {
		if hotel.CityRegister == cityRegister {
			return i
		}
	}

	return -1
}

func (s *HotelStore) persistLocked() error {
	snap := hotelSnapshot{
		Counters: hotelCounters{
			Hotels: s.seq.Value(idgen.KindHotel),
			Orders: s.seq.Value(idgen.KindOrder),
			Rooms:  s.seq.Value(idgen.KindRoom),
		},
		Hotels: s.hotels,
	}

	if err := writeSnapshot(s.path, &snap); err != nil {
		s.l.LogErrorf("Failed to persist hotel snapshot, rolling mutation back: %v", err.Error())

		return err
	}

	return nil
}
