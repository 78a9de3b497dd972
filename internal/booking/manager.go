package booking

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"hotelier/internal/logger"
)

type hotelStorage interface {
	Add(ctx context.Context, cityRegister, name, city string) (*Hotel, error)
	UpdateHotel(ctx context.Context, cityRegister, name string) error
	Delete(ctx context.Context, cityRegister string) error
	AddRoom(ctx context.Context, cityRegister string, roomNumber, persons int, price float64) (*Room, error)
	UpdateRoom(ctx context.Context, cityRegister string, roomNumber, persons int, price float64) error
	DeleteRoom(ctx context.Context, cityRegister string, roomNumber int) error
	Book(ctx context.Context, cityRegister string, roomNumber int, candidate BookingInfo) (int64, error)
	CancelBooking(ctx context.Context, cityRegister string, roomNumber int, target BookingInfo) error
	ByCityRegister(cityRegister string) (*Hotel, bool)
	All() []*Hotel
}

type userStorage interface {
	Add(ctx context.Context, login, name, lastName string) (*User, error)
	Update(ctx context.Context, login, name, lastName string) error
	Delete(ctx context.Context, login string) error
	ByLogin(login string) (*User, bool)
	All() []*User
}

// Manager is the mutation façade over the stores and the availability
// engine. It validates inputs, resolves business keys and leaves locking
// and durability to the store each operation targets.
type Manager struct {
	l        *logger.Logger
	hotels   hotelStorage
	users    userStorage
	validate *validator.Validate
	tracer   trace.Tracer
}

func New(l *logger.Logger, hotels hotelStorage, users userStorage) *Manager {
	return &Manager{
		l:        l,
		hotels:   hotels,
		users:    users,
		validate: validator.New(),
		tracer:   otel.Tracer("hotelier/booking"),
	}
}

type AddHotelInput struct {
	CityRegister string `validate:"required"`
	Name         string `validate:"required"`
	City         string `validate:"required"`
}

type UpdateHotelInput struct {
	CityRegister string `validate:"required"`
	Name         string `validate:"required"`
}

type AddRoomInput struct {
	CityRegister string  `validate:"required"`
	RoomNumber   int     `validate:"gt=0"`
	Persons      int     `validate:"gt=0"`
	Price        float64 `validate:"gte=0"`
}

type UpdateRoomInput struct {
	CityRegister string  `validate:"required"`
	RoomNumber   int     `validate:"gt=0"`
	Persons      int     `validate:"gt=0"`
	Price        float64 `validate:"gte=0"`
}

type AddUserInput struct {
	Login    string `validate:"required"`
	Name     string `validate:"required"`
	LastName string `validate:"required"`
}

type UpdateUserInput struct {
	Login    string `validate:"required"`
	Name     string `validate:"required"`
	LastName string `validate:"required"`
}

type BookRoomInput struct {
	CityRegister string    `validate:"required"`
	RoomNumber   int       `validate:"gt=0"`
	UserLogin    string    `validate:"required"`
	From         time.Time `validate:"required"`
	To           time.Time `validate:"required"`
}

type CancelBookingInput struct {
	CityRegister string    `validate:"required"`
	RoomNumber   int       `validate:"gt=0"`
	UserLogin    string    `validate:"required"`
	From         time.Time `validate:"required"`
	To           time.Time `validate:"required"`
}

func (m *Manager) checkInput(input any) error {
	err := m.validate.Struct(input)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return fmt.Errorf("validate input: %w", err)
	}

	inputErr := newInputError()
	for _, fe := range fieldErrs {
		inputErr.addError(fe.Field(), fmt.Sprintf("failed %q constraint", fe.Tag()))
	}

	return inputErr
}

func (m *Manager) AddHotel(ctx context.Context, input AddHotelInput) (*Hotel, error) {
	ctx, span := m.tracer.Start(ctx, "booking.AddHotel")
	defer span.End()

	if err := m.checkInput(input); err != nil {
		return nil, err
	}

	hotel, err := m.hotels.Add(ctx, input.CityRegister, input.Name, input.City)
	if err != nil {
		return nil, fmt.Errorf("add hotel %q: %w", input.CityRegister, err)
	}

	m.l.LogInfo("Hotel %q (%v, %v) added with id %v", hotel.CityRegister, hotel.Name, hotel.City, hotel.ID)

	return hotel, nil
}

func (m *Manager) UpdateHotel(ctx context.Context, input UpdateHotelInput) error {
	ctx, span := m.tracer.Start(ctx, "booking.UpdateHotel")
	defer span.End()

	if err := m.checkInput(input); err != nil {
		return err
	}

	if err := m.hotels.UpdateHotel(ctx, input.CityRegister, input.Name); err != nil {
		return fmt.Errorf("update hotel %q: %w", input.CityRegister, err)
	}

	return nil
}

func (m *Manager) DeleteHotel(ctx context.Context, cityRegister string) error {
	ctx, span := m.tracer.Start(ctx, "booking.DeleteHotel")
	defer span.End()

	if err := m.hotels.Delete(ctx, cityRegister); err != nil {
		return fmt.Errorf("delete hotel %q: %w", cityRegister, err)
	}

	m.l.LogInfo("Hotel %q deleted", cityRegister)

	return nil
}

func (m *Manager) AddRoom(ctx context.Context, input AddRoomInput) (*Room, error) {
	ctx, span := m.tracer.Start(ctx, "booking.AddRoom")
	defer span.End()

	if err := m.checkInput(input); err != nil {
		return nil, err
	}

	room, err := m.hotels.AddRoom(ctx, input.CityRegister, input.RoomNumber, input.Persons, input.Price)
	if err != nil {
		return nil, fmt.Errorf("add room %v to hotel %q: %w", input.RoomNumber, input.CityRegister, err)
	}

	m.l.LogInfo("Room %v added to hotel %q with id %v", room.RoomNumber, input.CityRegister, room.ID)

	return room, nil
}

func (m *Manager) UpdateRoom(ctx context.Context, input UpdateRoomInput) error {
	ctx, span := m.tracer.Start(ctx, "booking.UpdateRoom")
	defer span.End()

	if err := m.checkInput(input); err != nil {
		return err
	}

	if err := m.hotels.UpdateRoom(ctx, input.CityRegister, input.RoomNumber, input.Persons, input.Price); err != nil {
		return fmt.Errorf("update room %v in hotel %q: %w", input.RoomNumber, input.CityRegister, err)
	}

	return nil
}

func (m *Manager) DeleteRoom(ctx context.Context, cityRegister string, roomNumber int) error {
	ctx, span := m.tracer.Start(ctx, "booking.DeleteRoom")
	defer span.End()

	if err := m.hotels.DeleteRoom(ctx, cityRegister, roomNumber); err != nil {
		return fmt.Errorf("delete room %v from hotel %q: %w", roomNumber, cityRegister, err)
	}

	return nil
}

func (m *Manager) AddUser(ctx context.Context, input AddUserInput) (*User, error) {
	ctx, span := m.tracer.Start(ctx, "booking.AddUser")
	defer span.End()

	if err := m.checkInput(input); err != nil {
		return nil, err
	}

	user, err := m.users.Add(ctx, input.Login, input.Name, input.LastName)
	if err != nil {
		return nil, fmt.Errorf("add user %q: %w", input.Login, err)
	}

	m.l.LogInfo("User %q added with id %v", user.Login, user.ID)

	return user, nil
}

func (m *Manager) UpdateUser(ctx context.Context, input UpdateUserInput) error {
	ctx, span := m.tracer.Start(ctx, "booking.UpdateUser")
	defer span.End()

	if err := m.checkInput(input); err != nil {
		return err
	}

	if err := m.users.Update(ctx, input.Login, input.Name, input.LastName); err != nil {
		return fmt.Errorf("update user %q: %w", input.Login, err)
	}

	return nil
}

func (m *Manager) DeleteUser(ctx context.Context, login string) error {
	ctx, span := m.tracer.Start(ctx, "booking.DeleteUser")
	defer span.End()

	if err := m.users.Delete(ctx, login); err != nil {
		return fmt.Errorf("delete user %q: %w", login, err)
	}

	return nil
}

// BookRoom checks the user exists, builds a validated booking and hands it
// to the hotel store, which decides availability and persists atomically.
// The returned order number identifies the successful booking in logs.
func (m *Manager) BookRoom(ctx context.Context, input BookRoomInput) (int64, error) {
	ctx, span := m.tracer.Start(ctx, "booking.BookRoom")
	defer span.End()

	if err := m.checkInput(input); err != nil {
		return 0, err
	}

	candidate, err := NewBookingInfo(input.UserLogin, input.From, input.To)
	if err != nil {
		return 0, err
	}

	if _, ok := m.users.ByLogin(input.UserLogin); !ok {
		return 0, fmt.Errorf("user %q: %w", input.UserLogin, ErrNotFound)
	}

	orderID, err := m.hotels.Book(ctx, input.CityRegister, input.RoomNumber, candidate)
	if err != nil {
		return 0, fmt.Errorf("book room %v in hotel %q: %w", input.RoomNumber, input.CityRegister, err)
	}

	span.SetAttributes(attribute.Int64("order.id", orderID))
	m.l.LogInfo(
		"Order %v: user %q booked room %v in hotel %q from %v to %v",
		orderID,
		input.UserLogin,
		input.RoomNumber,
		input.CityRegister,
		candidate.FromDate.Format(time.DateOnly),
		candidate.ToDate.Format(time.DateOnly),
	)

	return orderID, nil
}

// CancelBooking removes the exact (userLogin, from, to) booking. The user
// record is not required to still exist; the booking triple alone decides.
func (m *Manager) CancelBooking(ctx context.Context, input CancelBookingInput) error {
	ctx, span := m.tracer.Start(ctx, "booking.CancelBooking")
	defer span.End()

	if err := m.checkInput(input); err != nil {
		return err
	}

	target, err := NewBookingInfo(input.UserLogin, input.From, input.To)
	if err != nil {
		return err
	}

	if err := m.hotels.CancelBooking(ctx, input.CityRegister, input.RoomNumber, target); err != nil {
		return fmt.Errorf("cancel booking in room %v of hotel %q: %w", input.RoomNumber, input.CityRegister, err)
	}

	m.l.LogInfo(
		"Booking of room %v in hotel %q by user %q cancelled",
		input.RoomNumber,
		input.CityRegister,
		input.UserLogin,
	)

	return nil
}

func (m *Manager) SearchHotelsByName(ctx context.Context, name string) []*Hotel {
	_, span := m.tracer.Start(ctx, "booking.SearchHotelsByName")
	defer span.End()

	var result []*Hotel

	for _, hotel := range m.hotels.All() {
		if strings.EqualFold(hotel.Name, name) {
			result = append(result, hotel)
		}
	}

	return result
}

func (m *Manager) SearchHotelsByCity(ctx context.Context, city string) []*Hotel {
	_, span := m.tracer.Start(ctx, "booking.SearchHotelsByCity")
	defer span.End()

	var result []*Hotel

	for _, hotel := range m.hotels.All() {
		if strings.EqualFold(hotel.City, city) {
			result = append(result, hotel)
		}
	}

	return result
}

func (m *Manager) HotelByCityRegister(ctx context.Context, cityRegister string) (*Hotel, error) {
	_, span := m.tracer.Start(ctx, "booking.HotelByCityRegister")
	defer span.End()

	hotel, ok := m.hotels.ByCityRegister(cityRegister)
	if !ok {
		return nil, fmt.Errorf("hotel %q: %w", cityRegister, ErrNotFound)
	}

	return hotel, nil
}

func (m *Manager) Hotels(ctx context.Context) []*Hotel {
	_, span := m.tracer.Start(ctx, "booking.Hotels")
	defer span.End()

	return m.hotels.All()
}

func (m *Manager) Users(ctx context.Context) []*User {
	_, span := m.tracer.Start(ctx, "booking.Users")
	defer span.End()

	return m.users.All()
}
