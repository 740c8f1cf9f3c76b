package repofake

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/brandlink/partner-auth/internal/errs"
	"github.com/brandlink/partner-auth/tokenstore"
)

var _ tokenstore.Repo = (*FakeTokenRepo)(nil)

// FakeTokenRepo is a thread-safe in-memory implementation of
// tokenstore.Repo. UpsertCalls and LastUpsert let tests assert on store
// interactions; UpsertErr injects a store failure.
type FakeTokenRepo struct {
	lock    sync.RWMutex
	records map[string]*tokenstore.TokenRecord

	UpsertCalls int
	LastUpsert  tokenstore.UpsertParams
	UpsertErr   error
}

func NewFakeTokenRepo() *FakeTokenRepo {
	return &FakeTokenRepo{
		records: make(map[string]*tokenstore.TokenRecord),
	}
}

func (fr *FakeTokenRepo) Upsert(_ context.Context, params tokenstore.UpsertParams) (*tokenstore.TokenRecord, error) {
	fr.lock.Lock()
	defer fr.lock.Unlock()

	fr.UpsertCalls++
	fr.LastUpsert = params

	if fr.UpsertErr != nil {
		return nil, fr.UpsertErr
	}

	now := time.Now()
	record, ok := fr.records[params.ChannelID]
	if !ok {
		record = &tokenstore.TokenRecord{
			ID:        uuid.NewString(),
			ChannelID: params.ChannelID,
			CreatedAt: now,
		}
		fr.records[params.ChannelID] = record
	}

	// Full replacement, no merge
	record.Email = params.Email
	record.AccessToken = params.AccessToken
	record.RefreshToken = params.RefreshToken
	record.ExpiresAt = params.ExpiresAt
	record.UpdatedAt = now

	copied := *record
	return &copied, nil
}

func (fr *FakeTokenRepo) GetByChannelID(_ context.Context, channelID string) (*tokenstore.TokenRecord, error) {
	fr.lock.RLock()
	defer fr.lock.RUnlock()

	record, ok := fr.records[channelID]
	if !ok {
		return nil, errs.ErrRecordNotFound
	}
	copied := *record
	return &copied, nil
}

// SetRecord seeds a record directly, bypassing Upsert bookkeeping.
func (fr *FakeTokenRepo) SetRecord(record *tokenstore.TokenRecord) {
	fr.lock.Lock()
	defer fr.lock.Unlock()
	fr.records[record.ChannelID] = record
}
