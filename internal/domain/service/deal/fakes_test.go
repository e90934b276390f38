package deal_test

import (
	"context"
	"slices"
	"sync"
	"time"

	"stealdeals/internal/domain"
	"stealdeals/internal/domain/entity"
	"stealdeals/internal/domain/value"
	"stealdeals/pkg/errcodes"
)

// memRepo is an in-memory deal table ordered newest first.
type memRepo struct {
	mu      sync.Mutex
	deals   []entity.Deal
	writes  int
	listErr error
	incErr  error
}

func (m *memRepo) List(context.Context) ([]entity.Deal, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.listErr != nil {
		return nil, m.listErr
	}

	return slices.Clone(m.deals), nil
}

func (m *memRepo) GetByID(_ context.Context, id value.DealID) (entity.Deal, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	i := m.index(id)
	if i < 0 {
		return entity.Deal{}, domain.NewError(errcodes.DealNotFound, "deal not found")
	}

	return m.deals[i], nil
}

func (m *memRepo) Create(_ context.Context, d entity.Deal) (entity.Deal, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.writes++
	d.ID = value.NewDealID()
	d.CreatedAt = time.Now()
	d.UpdatedAt = d.CreatedAt
	m.deals = append([]entity.Deal{d}, m.deals...)

	return d, nil
}

func (m *memRepo) Update(_ context.Context, d entity.Deal) (entity.Deal, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	i := m.index(d.ID)
	if i < 0 {
		return entity.Deal{}, domain.NewError(errcodes.DealNotFound, "deal not found")
	}

	m.writes++
	d.UpdatedAt = time.Now()
	m.deals[i] = d

	return d, nil
}

func (m *memRepo) Delete(_ context.Context, id value.DealID) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	i := m.index(id)
	if i < 0 {
		return domain.NewError(errcodes.DealNotFound, "deal not found")
	}

	m.writes++
	m.deals = slices.Delete(m.deals, i, i+1)

	return nil
}

func (m *memRepo) IncrementClicks(_ context.Context, id value.DealID) (entity.Deal, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	i := m.index(id)
	if i < 0 {
		return entity.Deal{}, domain.NewError(errcodes.DealNotFound, "deal not found")
	}

	if m.incErr != nil {
		return entity.Deal{}, m.incErr
	}

	m.deals[i].Clicks++

	return m.deals[i], nil
}

func (m *memRepo) index(id value.DealID) int {
	return slices.IndexFunc(m.deals, func(d entity.Deal) bool { return d.ID == id })
}

type recordingAnnouncer struct {
	announced []entity.Deal
}

func (r *recordingAnnouncer) Announce(_ context.Context, d entity.Deal) {
	r.announced = append(r.announced, d)
}

type fakeQueue struct {
	queued []value.DealID
	err    error
}

func (f *fakeQueue) EnqueueClick(_ context.Context, id value.DealID) error {
	if f.err != nil {
		return f.err
	}

	f.queued = append(f.queued, id)

	return nil
}
