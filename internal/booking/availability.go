package booking

// The availability engine is pure: it never touches storage and never
// mutates the slice it is given.

// Overlaps reports whether two half-open intervals [a1,a2) and [b1,b2)
// intersect: a1 < b2 && b1 < a2. Back-to-back bookings (a2 == b1) do not
// overlap.
func (b BookingInfo) Overlaps(other BookingInfo) bool {
	return b.FromDate.Before(other.ToDate) && other.FromDate.Before(b.ToDate)
}

// IsAvailable reports whether candidate overlaps none of the existing
// bookings.
func IsAvailable(bookings []BookingInfo, candidate BookingInfo) bool {
	for _, item := range bookings {
		if candidate.Overlaps(item) {
			return false
		}
	}

	return true
}

// Book appends candidate to a fresh copy of the list, keeping insertion
// order, or returns ErrConflict when any existing booking overlaps it.
func Book(bookings []BookingInfo, candidate BookingInfo) ([]BookingInfo, error) {
	if !IsAvailable(bookings, candidate) {
		return nil, ErrConflict
	}

	updated := make([]BookingInfo, 0, len(bookings)+1)
	updated = append(updated, bookings...)
	updated = append(updated, candidate)

	return updated, nil
}

// Cancel removes the booking exactly equal to target by the
// (userLogin, fromDate, toDate) triple and returns the remaining list.
// Existence is decided by equality membership, not by the overlap
// predicate: an overlapping-but-different booking must not be cancellable
// through target. ErrNotFound when no exact match exists.
func Cancel(bookings []BookingInfo, target BookingInfo) ([]BookingInfo, error) {
	for i, item := range bookings {
		if !item.Equal(target) {
			continue
		}

		updated := make([]BookingInfo, 0, len(bookings)-1)
		updated = append(updated, bookings[:i]...)
		updated = append(updated, bookings[i+1:]...)

		return updated, nil
	}

	return nil, ErrNotFound
}
