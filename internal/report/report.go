// Package report renders plain-text dumps of the datastore for operators.
package report

import (
	"fmt"
	"io"
	"text/tabwriter"
	"time"

	"hotelier/internal/booking"
)

func Hotels(w io.Writer, hotels []*booking.Hotel) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)

	fmt.Fprintln(tw, "ID\tREGISTER\tNAME\tCITY\tROOM\tPERSONS\tPRICE\tBOOKINGS")

	for _, hotel := range hotels {
		if len(hotel.Rooms) == 0 {
			fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t-\t-\t-\t-\n", hotel.ID, hotel.CityRegister, hotel.Name, hotel.City)

			continue
		}

		for _, room := range hotel.Rooms {
			fmt.Fprintf(
				tw,
				"%d\t%s\t%s\t%s\t%d\t%d\t%.2f\t%s\n",
				hotel.ID,
				hotel.CityRegister,
				hotel.Name,
				hotel.City,
				room.RoomNumber,
				room.Persons,
				room.Price,
				bookingsColumn(room.Bookings),
			)
		}
	}

	return tw.Flush()
}

func Users(w io.Writer, users []*booking.User) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)

	fmt.Fprintln(tw, "ID\tLOGIN\tNAME\tLAST NAME")

	for _, user := range users {
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\n", user.ID, user.Login, user.Name, user.LastName)
	}

	return tw.Flush()
}

func bookingsColumn(bookings []booking.BookingInfo) string {
	if len(bookings) == 0 {
		return "-"
	}

	out := ""

	for i, item := range bookings {
		if i > 0 {
			out += ", "
		}

		out += fmt.Sprintf(
			"%s [%s..%s)",
			item.UserLogin,
			item.FromDate.Format(time.DateOnly),
			item.ToDate.Format(time.DateOnly),
		)
	}

	return out
}
