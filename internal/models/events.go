package models

// Attr is one cell of a type-tagged record image as delivered on the booking
// feed: exactly one of the fields is set. Numbers travel as strings.
type Attr struct {
	S    *string         `json:"S,omitempty"`
	N    *string         `json:"N,omitempty"`
	BOOL *bool           `json:"BOOL,omitempty"`
	M    map[string]Attr `json:"M,omitempty"`
}

// BookingCreatedEvent is published on the booking events channel when a
// booking record is inserted. The image uses the feed's tagged encoding and
// has to be flattened before use.
type BookingCreatedEvent struct {
	EventName string          `json:"event_name"`
	NewImage  map[string]Attr `json:"new_image"`
}

const EventInsert = "INSERT"

// StatusChangedEvent is the structured form of a status transition. The
// free-text announcement format is converted into this at the boundary.
type StatusChangedEvent struct {
	BookingID string        `json:"booking_id"`
	NewStatus BookingStatus `json:"new_status"`
	UpdatedBy string        `json:"updated_by,omitempty"`
}

// FlattenImage converts a tagged record image into a plain attribute map.
// Nested M cells flatten recursively; numbers stay strings.
func FlattenImage(image map[string]Attr) map[string]interface{} {
	out := make(map[string]interface{}, len(image))
	for key, cell := range image {
		switch {
		case cell.S != nil:
			out[key] = *cell.S
		case cell.N != nil:
			out[key] = *cell.N
		case cell.BOOL != nil:
			out[key] = *cell.BOOL
		case cell.M != nil:
			out[key] = FlattenImage(cell.M)
		}
	}
	return out
}

// Image encodes the booking in the feed's tagged format, mirroring what the
// dispatcher flattens on the consuming side.
func (b *Booking) Image() map[string]Attr {
	return map[string]Attr{
		"bookingId":       attrS(b.BookingID),
		"customerId":      attrS(b.CustomerID),
		"customerName":    attrS(b.CustomerName),
		"customerEmail":   attrS(b.CustomerEmail),
		"customerPhone":   attrS(b.CustomerPhone),
		"customerAddress": attrS(b.CustomerAddress),
		"providerId":      attrS(b.ProviderID),
		"providerName":    attrS(b.ProviderName),
		"serviceId":       attrS(b.ServiceID),
		"serviceName":     attrS(b.ServiceName),
		"servicePrice":    attrN(b.ServicePrice),
		"scheduledDate":   attrS(b.ScheduledDate),
		"notes":           attrS(b.Notes),
		"status":          attrS(string(b.Status)),
		"isReviewed":      attrB(b.IsReviewed),
		"createdAt":       attrS(b.CreatedAt),
	}
}

func attrS(v string) Attr { return Attr{S: &v} }
func attrN(v string) Attr { return Attr{N: &v} }
func attrB(v bool) Attr   { return Attr{BOOL: &v} }
