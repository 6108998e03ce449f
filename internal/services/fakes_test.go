package services

import (
	"context"
	"errors"
	"time"

	"marketplace-app/internal/models"

	"go.mongodb.org/mongo-driver/bson"
)

// In-memory stand-ins for the mongo repositories, the mailer, the document
// store and the dedup ledger.

var errMailDown = errors.New("smtp relay unavailable")

type fakeBookingStore struct {
	bookings map[string]*models.Booking
	getErr   error
}

func newFakeBookingStore(bookings ...*models.Booking) *fakeBookingStore {
	f := &fakeBookingStore{bookings: make(map[string]*models.Booking)}
	for _, b := range bookings {
		f.bookings[b.BookingID] = b
	}
	return f
}

func (f *fakeBookingStore) Create(ctx context.Context, booking *models.Booking) error {
	f.bookings[booking.BookingID] = booking
	return nil
}

func (f *fakeBookingStore) GetByID(ctx context.Context, bookingID string) (*models.Booking, error) {
	if f.getErr != nil {
		return nil, f.getErr
	}
	b, ok := f.bookings[bookingID]
	if !ok {
		return nil, models.ErrNotFound
	}
	copied := *b
	return &copied, nil
}

func (f *fakeBookingStore) GetByCustomerID(ctx context.Context, customerID string) ([]models.Booking, error) {
	var out []models.Booking
	for _, b := range f.bookings {
		if b.CustomerID == customerID {
			out = append(out, *b)
		}
	}
	return out, nil
}

func (f *fakeBookingStore) GetByProviderID(ctx context.Context, providerID string) ([]models.Booking, error) {
	var out []models.Booking
	for _, b := range f.bookings {
		if b.ProviderID == providerID {
			out = append(out, *b)
		}
	}
	return out, nil
}

func (f *fakeBookingStore) Filter(ctx context.Context, filter bson.M) ([]models.Booking, error) {
	statuses := make(map[string]bool)
	if cond, ok := filter["status"].(bson.M); ok {
		if in, ok := cond["$in"].([]string); ok {
			for _, s := range in {
				statuses[s] = true
			}
		}
	}
	var out []models.Booking
	for _, b := range f.bookings {
		if len(statuses) == 0 || statuses[string(b.Status)] {
			out = append(out, *b)
		}
	}
	return out, nil
}

func (f *fakeBookingStore) UpdateStatus(ctx context.Context, bookingID string, status models.BookingStatus, updatedBy string) error {
	b, ok := f.bookings[bookingID]
	if !ok {
		return models.ErrNotFound
	}
	b.Status = status
	b.UpdatedBy = updatedBy
	return nil
}

func (f *fakeBookingStore) MarkReviewed(ctx context.Context, bookingID string) error {
	if b, ok := f.bookings[bookingID]; ok {
		b.IsReviewed = true
	}
	return nil
}

func (f *fakeBookingStore) MarkReminderSent(ctx context.Context, bookingID string) error {
	if b, ok := f.bookings[bookingID]; ok {
		b.ReminderSent = true
	}
	return nil
}

type fakeReviewStore struct {
	reviews []models.Review
	created []models.Review
	// When set, created reviews stay invisible to GetByProviderID,
	// simulating index lag after the write.
	lagging bool
}

func (f *fakeReviewStore) Create(ctx context.Context, review *models.Review) error {
	f.created = append(f.created, *review)
	if !f.lagging {
		f.reviews = append(f.reviews, *review)
	}
	return nil
}

func (f *fakeReviewStore) GetByProviderID(ctx context.Context, providerID string) ([]models.Review, error) {
	var out []models.Review
	for _, r := range f.reviews {
		if r.ProviderID == providerID {
			out = append(out, r)
		}
	}
	return out, nil
}

type snapshotWrite struct {
	serviceID string
	version   int64
	snap      models.RatingSnapshot
}

type fakeServiceStore struct {
	services  map[string]*models.Service
	conflicts int
	writes    []snapshotWrite
}

func newFakeServiceStore(svcs ...*models.Service) *fakeServiceStore {
	f := &fakeServiceStore{services: make(map[string]*models.Service)}
	for _, s := range svcs {
		f.services[s.ServiceID] = s
	}
	return f
}

func (f *fakeServiceStore) GetByServiceID(ctx context.Context, serviceID string) (*models.Service, error) {
	s, ok := f.services[serviceID]
	if !ok {
		return nil, models.ErrNotFound
	}
	copied := *s
	return &copied, nil
}

func (f *fakeServiceStore) UpdateRatingSnapshot(ctx context.Context, serviceID string, version int64, snap models.RatingSnapshot) error {
	s, ok := f.services[serviceID]
	if !ok {
		return models.ErrVersionConflict
	}
	if f.conflicts > 0 {
		f.conflicts--
		s.RatingVersion++ // a concurrent writer got there first
		return models.ErrVersionConflict
	}
	if s.RatingVersion != version {
		return models.ErrVersionConflict
	}
	s.Rating = snap.Rating
	s.ReviewCount = snap.ReviewCount
	s.Reviews = snap.Reviews
	s.RatingVersion++
	f.writes = append(f.writes, snapshotWrite{serviceID: serviceID, version: version, snap: snap})
	return nil
}

type fakeProviderStore struct {
	providers map[string]*models.Provider
}

func newFakeProviderStore(providers ...*models.Provider) *fakeProviderStore {
	f := &fakeProviderStore{providers: make(map[string]*models.Provider)}
	for _, p := range providers {
		f.providers[p.ProviderID] = p
	}
	return f
}

func (f *fakeProviderStore) GetByProviderID(ctx context.Context, providerID string) (*models.Provider, error) {
	p, ok := f.providers[providerID]
	if !ok {
		return nil, models.ErrNotFound
	}
	return p, nil
}

type sentMail struct {
	to      string
	subject string
	body    string
}

type fakeMailer struct {
	sent []sentMail
	err  error
}

func (f *fakeMailer) Send(to, subject, htmlBody string) error {
	if f.err != nil {
		return f.err
	}
	f.sent = append(f.sent, sentMail{to: to, subject: subject, body: htmlBody})
	return nil
}

type storedDoc struct {
	key         string
	body        string
	contentType string
}

type fakeDocStore struct {
	puts    []storedDoc
	putErr  error
	signErr error
}

func (f *fakeDocStore) Put(ctx context.Context, objectKey string, body []byte, contentType string) error {
	if f.putErr != nil {
		return f.putErr
	}
	f.puts = append(f.puts, storedDoc{key: objectKey, body: string(body), contentType: contentType})
	return nil
}

func (f *fakeDocStore) PresignedURL(ctx context.Context, objectKey string, expiry time.Duration) (string, error) {
	if f.signErr != nil {
		return "", f.signErr
	}
	return "https://docs.example/" + objectKey + "?sig=test", nil
}

type fakeLedger struct {
	claimed map[string]bool
	err     error
}

func newFakeLedger() *fakeLedger {
	return &fakeLedger{claimed: make(map[string]bool)}
}

func (f *fakeLedger) Claim(ctx context.Context, bookingID, eventKey string) (bool, error) {
	if f.err != nil {
		return false, f.err
	}
	key := bookingID + "|" + eventKey
	if f.claimed[key] {
		return false, nil
	}
	f.claimed[key] = true
	return true, nil
}

type publishedEvent struct {
	channel string
	payload interface{}
}

type fakePublisher struct {
	events []publishedEvent
	err    error
}

func (f *fakePublisher) Publish(ctx context.Context, channel string, payload interface{}) error {
	if f.err != nil {
		return f.err
	}
	f.events = append(f.events, publishedEvent{channel: channel, payload: payload})
	return nil
}
