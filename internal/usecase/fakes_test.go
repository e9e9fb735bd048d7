package usecase

import (
	"bytes"
	"context"
	"sort"
	"sync"
	"time"

	"hibachi-booking/internal/data/entity"
	"hibachi-booking/internal/data/repository"
	"hibachi-booking/pkg/pagination"

	"github.com/google/uuid"
)

// testClock is an adjustable clock injected through the services' now field.
type testClock struct {
	mu sync.Mutex
	t  time.Time
}

func newTestClock(t time.Time) *testClock {
	return &testClock{t: t}
}

func (c *testClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.t
}

func (c *testClock) Advance(d time.Duration) {
	c.mu.Lock()
	c.t = c.t.Add(d)
	c.mu.Unlock()
}

func sameSlot(aStation uuid.UUID, aDate time.Time, aTime string, bStation uuid.UUID, bDate time.Time, bTime string) bool {
	return aStation == bStation && aDate.Equal(bDate) && aTime == bTime
}

type fakeStationRepo struct {
	stations map[uuid.UUID]*entity.Station
	findErr  error
}

func (f *fakeStationRepo) FindByID(_ context.Context, id uuid.UUID) (*entity.Station, error) {
	if f.findErr != nil {
		return nil, f.findErr
	}
	return f.stations[id], nil
}

func (f *fakeStationRepo) FindActive(_ context.Context) ([]*entity.Station, error) {
	if f.findErr != nil {
		return nil, f.findErr
	}
	var out []*entity.Station
	for _, s := range f.stations {
		if s.IsActive {
			out = append(out, s)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

// fakeSlotHoldRepo mirrors the table plus its partial unique index: an
// insert first reconciles genuinely expired rows for the slot, then rejects
// a second active-status row with ErrSlotUnavailable.
type fakeSlotHoldRepo struct {
	holds []*entity.SlotHold

	insertErr error
	findErr   error
	existsErr error
	updateErr error
	expireErr error
}

func (f *fakeSlotHoldRepo) Insert(_ context.Context, hold *entity.SlotHold) error {
	if f.insertErr != nil {
		return f.insertErr
	}

	for _, h := range f.holds {
		if !sameSlot(h.StationID, h.EventDate, h.SlotTime, hold.StationID, hold.EventDate, hold.SlotTime) {
			continue
		}
		if h.Status != entity.HoldStatusPending && h.Status != entity.HoldStatusSigned {
			continue
		}
		if !h.ExpiresAt.After(hold.CreatedAt) {
			h.Status = entity.HoldStatusExpired
			continue
		}
		return repository.ErrSlotUnavailable
	}

	stored := *hold
	f.holds = append(f.holds, &stored)
	return nil
}

func (f *fakeSlotHoldRepo) FindByToken(_ context.Context, token uuid.UUID) (*entity.SlotHold, error) {
	if f.findErr != nil {
		return nil, f.findErr
	}
	for _, h := range f.holds {
		if h.Token == token {
			found := *h
			return &found, nil
		}
	}
	return nil, nil
}

func (f *fakeSlotHoldRepo) FindActiveBySlot(_ context.Context, stationID uuid.UUID, eventDate time.Time, slotTime string, now time.Time) ([]*entity.SlotHold, error) {
	if f.findErr != nil {
		return nil, f.findErr
	}
	var out []*entity.SlotHold
	for _, h := range f.holds {
		if sameSlot(h.StationID, h.EventDate, h.SlotTime, stationID, eventDate, slotTime) && h.Active(now) {
			found := *h
			out = append(out, &found)
		}
	}
	return out, nil
}

func (f *fakeSlotHoldRepo) ExistsActiveBySlot(_ context.Context, stationID uuid.UUID, eventDate time.Time, slotTime string, now time.Time) (bool, error) {
	if f.existsErr != nil {
		return false, f.existsErr
	}
	for _, h := range f.holds {
		if sameSlot(h.StationID, h.EventDate, h.SlotTime, stationID, eventDate, slotTime) && h.Active(now) {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeSlotHoldRepo) UpdateStatus(_ context.Context, id uuid.UUID, status entity.HoldStatus) error {
	if f.updateErr != nil {
		return f.updateErr
	}
	for _, h := range f.holds {
		if h.ID == id {
			h.Status = status
			return nil
		}
	}
	return nil
}

func (f *fakeSlotHoldRepo) ExpireStale(_ context.Context, now time.Time) (int64, error) {
	if f.expireErr != nil {
		return 0, f.expireErr
	}
	var count int64
	for _, h := range f.holds {
		if (h.Status == entity.HoldStatusPending || h.Status == entity.HoldStatusSigned) && !h.ExpiresAt.After(now) {
			h.Status = entity.HoldStatusExpired
			count++
		}
	}
	return count, nil
}

func (f *fakeSlotHoldRepo) byToken(token uuid.UUID) *entity.SlotHold {
	for _, h := range f.holds {
		if h.Token == token {
			return h
		}
	}
	return nil
}

type fakeBookingRepo struct {
	bookings []*entity.Booking

	createErr error
	findErr   error
	existsErr error
	fetchErr  error
}

func (f *fakeBookingRepo) Create(_ context.Context, booking *entity.Booking) error {
	if f.createErr != nil {
		return f.createErr
	}
	stored := *booking
	f.bookings = append(f.bookings, &stored)
	return nil
}

func (f *fakeBookingRepo) FindByID(_ context.Context, id uuid.UUID) (*entity.Booking, error) {
	if f.findErr != nil {
		return nil, f.findErr
	}
	for _, b := range f.bookings {
		if b.ID == id && b.DeletedAt == nil {
			found := *b
			return &found, nil
		}
	}
	return nil, nil
}

func (f *fakeBookingRepo) ExistsBlockingBySlot(_ context.Context, stationID uuid.UUID, eventDate time.Time, slotTime string) (bool, error) {
	if f.existsErr != nil {
		return false, f.existsErr
	}
	for _, b := range f.bookings {
		if sameSlot(b.StationID, b.EventDate, b.SlotTime, stationID, eventDate, slotTime) && b.DeletedAt == nil && b.BlocksSlot() {
			return true, nil
		}
	}
	return false, nil
}

// Fetch applies the window to the in-memory rows with the same semantics
// the rendered SQL has: comparison on created_at, id tie-break, order,
// limit.
func (f *fakeBookingRepo) Fetch(_ context.Context, w pagination.Window) ([]*entity.Booking, error) {
	if f.fetchErr != nil {
		return nil, f.fetchErr
	}

	var matched []*entity.Booking
	for _, b := range f.bookings {
		if b.DeletedAt == nil && bookingMatches(b, w) {
			matched = append(matched, b)
		}
	}

	sort.Slice(matched, func(i, j int) bool {
		c := compareBookings(matched[i], matched[j])
		if w.Desc {
			return c > 0
		}
		return c < 0
	})

	if w.Limit > 0 && len(matched) > w.Limit {
		matched = matched[:w.Limit]
	}
	return matched, nil
}

func (f *fakeBookingRepo) Count(_ context.Context) (int64, error) {
	if f.fetchErr != nil {
		return 0, f.fetchErr
	}
	var count int64
	for _, b := range f.bookings {
		if b.DeletedAt == nil {
			count++
		}
	}
	return count, nil
}

func bookingMatches(b *entity.Booking, w pagination.Window) bool {
	if w.Value == nil {
		return true
	}

	value := w.Value.(time.Time)
	switch {
	case w.Op == "<" && b.CreatedAt.Before(value):
		return true
	case w.Op == ">" && b.CreatedAt.After(value):
		return true
	}

	if w.Secondary != nil && b.CreatedAt.Equal(value) {
		sec := w.Secondary.(uuid.UUID)
		c := bytes.Compare(b.ID[:], sec[:])
		return (w.Op == "<" && c < 0) || (w.Op == ">" && c > 0)
	}
	return false
}

func compareBookings(a, b *entity.Booking) int {
	if a.CreatedAt.Before(b.CreatedAt) {
		return -1
	}
	if a.CreatedAt.After(b.CreatedAt) {
		return 1
	}
	return bytes.Compare(a.ID[:], b.ID[:])
}

// fakeTravelCacheRepo mirrors the persistent tier: expired rows survive
// physically but are invisible to Find, and Upsert resets the hit counter.
type fakeTravelCacheRepo struct {
	entries map[entity.TravelCacheKey]*entity.TravelCacheEntry

	findErr   error
	upsertErr error
	deleteErr error
}

func newFakeTravelCacheRepo() *fakeTravelCacheRepo {
	return &fakeTravelCacheRepo{entries: make(map[entity.TravelCacheKey]*entity.TravelCacheEntry)}
}

func (f *fakeTravelCacheRepo) Find(_ context.Context, key entity.TravelCacheKey, now time.Time) (*entity.TravelCacheEntry, error) {
	if f.findErr != nil {
		return nil, f.findErr
	}
	entry, ok := f.entries[key]
	if !ok || !entry.ExpiresAt.After(now) {
		return nil, nil
	}
	entry.HitCount++
	found := *entry
	return &found, nil
}

func (f *fakeTravelCacheRepo) Upsert(_ context.Context, entry *entity.TravelCacheEntry) error {
	if f.upsertErr != nil {
		return f.upsertErr
	}
	stored := *entry
	stored.HitCount = 0
	f.entries[stored.TravelCacheKey] = &stored
	return nil
}

func (f *fakeTravelCacheRepo) DeleteExpired(_ context.Context, now time.Time) (int64, error) {
	if f.deleteErr != nil {
		return 0, f.deleteErr
	}
	var count int64
	for key, entry := range f.entries {
		if !entry.ExpiresAt.After(now) {
			delete(f.entries, key)
			count++
		}
	}
	return count, nil
}
