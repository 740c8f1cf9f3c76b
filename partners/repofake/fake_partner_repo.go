package repofake

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/brandlink/partner-auth/internal/errs"
	"github.com/brandlink/partner-auth/partners"
)

var _ partners.Repo = (*FakePartnerRepo)(nil)

// FakePartnerRepo is a thread-safe in-memory implementation of
// partners.Repo. CreateCalls and the Last* fields let tests assert on
// linkage interactions; CreateErr injects a store failure.
type FakePartnerRepo struct {
	lock         sync.RWMutex
	partnerships map[string]*partners.Partnership

	CreateCalls   int
	LastCreatorID string
	LastCompanyID string
	LastShortID   string
	CreateErr     error

	// NextID, when set, is used as the generated partnership ID.
	NextID string
}

func NewFakePartnerRepo() *FakePartnerRepo {
	return &FakePartnerRepo{
		partnerships: make(map[string]*partners.Partnership),
	}
}

func (fr *FakePartnerRepo) Create(_ context.Context, creatorID, companyID, shortID string) (*partners.Partnership, error) {
	fr.lock.Lock()
	defer fr.lock.Unlock()

	fr.CreateCalls++
	fr.LastCreatorID = creatorID
	fr.LastCompanyID = companyID
	fr.LastShortID = shortID

	if fr.CreateErr != nil {
		return nil, fr.CreateErr
	}

	id := fr.NextID
	if id == "" {
		id = uuid.NewString()
	}

	p := &partners.Partnership{
		ID:        id,
		CreatorID: creatorID,
		CompanyID: companyID,
		ShortID:   shortID,
		CreatedAt: time.Now(),
	}
	fr.partnerships[shortID] = p

	copied := *p
	return &copied, nil
}

func (fr *FakePartnerRepo) GetByShortID(_ context.Context, shortID string) (*partners.Partnership, error) {
	fr.lock.RLock()
	defer fr.lock.RUnlock()

	p, ok := fr.partnerships[shortID]
	if !ok {
		return nil, errs.ErrRecordNotFound
	}
	copied := *p
	return &copied, nil
}
