// Package seed fills a fresh datastore with a small demo dataset so the
// report output is not empty on first run.
package seed

import (
	"context"
	"fmt"

	"hotelier/internal/booking"
	"hotelier/internal/logger"
)

type manager interface {
	AddHotel(ctx context.Context, input booking.AddHotelInput) (*booking.Hotel, error)
	AddRoom(ctx context.Context, input booking.AddRoomInput) (*booking.Room, error)
	AddUser(ctx context.Context, input booking.AddUserInput) (*booking.User, error)
}

func Up(ctx context.Context, l *logger.Logger, m manager) error {
	hotels := []booking.AddHotelInput{
		{CityRegister: "K-111", Name: "Berloga", City: "Kiev"},
		{CityRegister: "K-205", Name: "Lybid", City: "Kiev"},
		{CityRegister: "O-017", Name: "Black Sea", City: "Odessa"},
	}

	rooms := []booking.AddRoomInput{
		{CityRegister: "K-111", RoomNumber: 1, Persons: 2, Price: 150.0},
		{CityRegister: "K-111", RoomNumber: 2, Persons: 3, Price: 220.0},
		{CityRegister: "K-205", RoomNumber: 1, Persons: 1, Price: 90.0},
		{CityRegister: "O-017", RoomNumber: 7, Persons: 4, Price: 310.0},
	}

	users := []booking.AddUserInput{
		{Login: "andreid", Name: "Andrei", LastName: "Dorochenko"},
		{Login: "sbosh", Name: "Sergey", LastName: "Bosh"},
	}

	for _, input := range hotels {
		if _, err := m.AddHotel(ctx, input); err != nil {
			return fmt.Errorf("seed hotel %q: %w", input.CityRegister, err)
		}
	}

	for _, input := range rooms {
		if _, err := m.AddRoom(ctx, input); err != nil {
			return fmt.Errorf("seed room %v in hotel %q: %w", input.RoomNumber, input.CityRegister, err)
		}
	}

	for _, input := range users {
		if _, err := m.AddUser(ctx, input); err != nil {
			return fmt.Errorf("seed user %q: %w", input.Login, err)
		}
	}

	l.LogInfo("Seed data has been applied")

	return nil
}
