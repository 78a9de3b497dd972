package file

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/stretchr/testify/require"

	"hotelier/internal/booking"
	"hotelier/internal/logger"
)

func testLogger() *logger.Logger {
	return logger.New(io.Discard)
}

func openHotels(t *testing.T, path string) *HotelStore {
	t.Helper()

	s, err := OpenHotelStore(Config{L: testLogger(), Path: path})
	require.NoError(t, err)

	return s
}

func openUsers(t *testing.T, path string) *UserStore {
	t.Helper()

	s, err := OpenUserStore(Config{L: testLogger(), Path: path})
	require.NoError(t, err)

	return s
}

func date(year, month, day int) time.Time {
	return time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)
}

func TestOpenFreshStore(t *testing.T) {
	path := filepath.Join(t.TempDir(), "hotels.json")

	s := openHotels(t, path)
	require.True(t, s.Fresh())
	require.Empty(t, s.All())

	// No snapshot file is written by Open alone.
	_, err := os.Stat(path)
	require.ErrorIs(t, err, os.ErrNotExist)
}

func TestOpenCorruptSnapshot(t *testing.T) {
	path := filepath.Join(t.TempDir(), "hotels.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o644))

	_, err := OpenHotelStore(Config{L: testLogger(), Path: path})
	require.True(t, errors.Is(err, ErrCorruptSnapshot))
}

func TestOpenRejectsDuplicateKeys(t *testing.T) {
	path := filepath.Join(t.TempDir(), "hotels.json")
	snapshot := `{
  "counters": {"hotelsCounter": 2, "ordersCounter": 0, "roomsCounter": 0},
  "hotels": [
    {"id": 0, "city_register": "K-111", "name": "Berloga", "city": "Kiev", "rooms": []},
    {"id": 1, "city_register": "K-111", "name": "Clone", "city": "Kiev", "rooms": []}
  ]
}`
	require.NoError(t, os.WriteFile(path, []byte(snapshot), 0o644))

	_, err := OpenHotelStore(Config{L: testLogger(), Path: path})
	require.True(t, errors.Is(err, ErrCorruptSnapshot))
}

func TestAddPersistsAndKeepsOrder(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "hotels.json")
	s := openHotels(t, path)

	first, err := s.Add(ctx, "K-111", "Berloga", "Kiev")
	require.NoError(t, err)
	require.EqualValues(t, 0, first.ID)

	second, err := s.Add(ctx, "O-017", "Black Sea", "Odessa")
	require.NoError(t, err)
	require.EqualValues(t, 1, second.ID)

	_, err = s.Add(ctx, "K-111", "Clone", "Kiev")
	require.ErrorIs(t, err, booking.ErrDuplicate)

	reopened := openHotels(t, path)
	require.False(t, reopened.Fresh())

	all := reopened.All()
	require.Len(t, all, 2)
	require.Equal(t, "K-111", all[0].CityRegister)
	require.Equal(t, "O-017", all[1].CityRegister)
}

func TestSurrogateIdsAreNeverReused(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "hotels.json")
	s := openHotels(t, path)

	for _, reg := range []string{"A-001", "B-002", "C-003"} {
		_, err := s.Add(ctx, reg, "Hotel "+reg, "Kiev")
		require.NoError(t, err)
	}

	require.NoError(t, s.Delete(ctx, "B-002"))

	reopened := openHotels(t, path)

	hotel, err := reopened.Add(ctx, "D-004", "Hotel D", "Kiev")
	require.NoError(t, err)
	require.EqualValues(t, 3, hotel.ID)

	all := reopened.All()
	require.Len(t, all, 3)
	require.Equal(t, "A-001", all[0].CityRegister)
	require.Equal(t, "C-003", all[1].CityRegister)
	require.Equal(t, "D-004", all[2].CityRegister)
}

func TestRoomLifecycle(t *testing.T) {
	ctx := context.Background()
	s := openHotels(t, filepath.Join(t.TempDir(), "hotels.json"))

	_, err := s.Add(ctx, "K-111", "Berloga", "Kiev")
	require.NoError(t, err)

	room, err := s.AddRoom(ctx, "K-111", 1, 2, 150.0)
	require.NoError(t, err)
	require.EqualValues(t, 0, room.ID)

	_, err = s.AddRoom(ctx, "K-111", 1, 4, 300.0)
	require.ErrorIs(t, err, booking.ErrDuplicate)

	_, err = s.AddRoom(ctx, "X-000", 2, 2, 100.0)
	require.ErrorIs(t, err, booking.ErrNotFound)

	require.NoError(t, s.UpdateRoom(ctx, "K-111", 1, 3, 175.0))
	require.ErrorIs(t, s.UpdateRoom(ctx, "K-111", 9, 3, 175.0), booking.ErrNotFound)

	hotel, ok := s.ByCityRegister("K-111")
	require.True(t, ok)
	require.Equal(t, 3, hotel.Rooms[0].Persons)
	require.Equal(t, 175.0, hotel.Rooms[0].Price)
	// RoomNumber is the business key and must not have changed.
	require.Equal(t, 1, hotel.Rooms[0].RoomNumber)

	require.NoError(t, s.DeleteRoom(ctx, "K-111", 1))
	require.ErrorIs(t, s.DeleteRoom(ctx, "K-111", 1), booking.ErrNotFound)
}

func TestBookAndCancelPersist(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "hotels.json")
	s := openHotels(t, path)

	_, err := s.Add(ctx, "K-111", "Berloga", "Kiev")
	require.NoError(t, err)
	_, err = s.AddRoom(ctx, "K-111", 1, 2, 150.0)
	require.NoError(t, err)

	stay, err := booking.NewBookingInfo("bob", date(2024, 1, 10), date(2024, 1, 15))
	require.NoError(t, err)

	firstOrder, err := s.Book(ctx, "K-111", 1, stay)
	require.NoError(t, err)

	_, err = s.Book(ctx, "K-111", 1, stay)
	require.ErrorIs(t, err, booking.ErrConflict)

	_, err = s.Book(ctx, "X-000", 1, stay)
	require.ErrorIs(t, err, booking.ErrNotFound)

	reopened := openHotels(t, path)
	hotel, ok := reopened.ByCityRegister("K-111")
	require.True(t, ok)
	require.Len(t, hotel.Rooms[0].Bookings, 1)
	require.True(t, hotel.Rooms[0].Bookings[0].Equal(stay))

	require.NoError(t, reopened.CancelBooking(ctx, "K-111", 1, stay))
	require.ErrorIs(t, reopened.CancelBooking(ctx, "K-111", 1, stay), booking.ErrNotFound)

	// Order numbers keep increasing across cancellations and reopens.
	nextOrder, err := reopened.Book(ctx, "K-111", 1, stay)
	require.NoError(t, err)
	require.Greater(t, nextOrder, firstOrder)
}

func TestPersistFailureRollsBack(t *testing.T) {
	ctx := context.Background()
	// The parent directory does not exist, so every snapshot write fails
	// while Open itself sees a fresh store.
	path := filepath.Join(t.TempDir(), "missing", "hotels.json")
	s := openHotels(t, path)
	require.True(t, s.Fresh())

	_, err := s.Add(ctx, "K-111", "Berloga", "Kiev")
	require.True(t, errors.Is(err, ErrPersist))

	require.Empty(t, s.All())
	_, ok := s.ByCityRegister("K-111")
	require.False(t, ok)

	// The consumed hotel id was returned to the sequence: once persistence
	// works, ids start from 0 again.
	writable := filepath.Join(t.TempDir(), "hotels.json")
	recovered := openHotels(t, writable)

	hotel, err := recovered.Add(ctx, "K-111", "Berloga", "Kiev")
	require.NoError(t, err)
	require.EqualValues(t, 0, hotel.ID)
}

func TestUserStoreLifecycle(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "users.json")
	s := openUsers(t, path)
	require.True(t, s.Fresh())

	user, err := s.Add(ctx, "bob", "Bob", "Marley")
	require.NoError(t, err)
	require.EqualValues(t, 0, user.ID)

	_, err = s.Add(ctx, "bob", "Bobby", "Brown")
	require.ErrorIs(t, err, booking.ErrDuplicate)

	require.NoError(t, s.Update(ctx, "bob", "Robert", "Marley"))
	require.ErrorIs(t, s.Update(ctx, "ghost", "No", "One"), booking.ErrNotFound)

	found, ok := s.ByLogin("bob")
	require.True(t, ok)
	require.Equal(t, "Robert", found.Name)

	reopened := openUsers(t, path)
	require.False(t, reopened.Fresh())

	all := reopened.All()
	require.Len(t, all, 1)
	require.Equal(t, "Robert", all[0].Name)

	require.NoError(t, reopened.Delete(ctx, "bob"))
	require.ErrorIs(t, reopened.Delete(ctx, "bob"), booking.ErrNotFound)

	// Login was the key; the surrogate id is not recycled after delete.
	again, err := reopened.Add(ctx, "alice", "Alice", "Cooper")
	require.NoError(t, err)
	require.EqualValues(t, 1, again.ID)
}

func TestReadersGetCopies(t *testing.T) {
	ctx := context.Background()
	s := openHotels(t, filepath.Join(t.TempDir(), "hotels.json"))

	_, err := s.Add(ctx, "K-111", "Berloga", "Kiev")
	require.NoError(t, err)
	_, err = s.AddRoom(ctx, "K-111", 1, 2, 150.0)
	require.NoError(t, err)

	leaked, ok := s.ByCityRegister("K-111")
	require.True(t, ok)
	leaked.Name = "Hacked"
	leaked.Rooms[0].Price = 0

	fresh, ok := s.ByCityRegister("K-111")
	require.True(t, ok)
	require.Equal(t, "Berloga", fresh.Name)
	require.Equal(t, 150.0, fresh.Rooms[0].Price)
}
