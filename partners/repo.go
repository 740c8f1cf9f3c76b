// Package partners links an authenticated creator to a company-initiated
// campaign partnership record.
package partners

import (
	"context"
	"time"
)

// Partnership ties a creator's internal identity key to a company campaign.
type Partnership struct {
	ID        string
	CreatorID string
	CompanyID string
	ShortID   string
	CreatedAt time.Time
}

type Repo interface {
	Create(ctx context.Context, creatorID, companyID, shortID string) (*Partnership, error)
	GetByShortID(ctx context.Context, shortID string) (*Partnership, error)
}
