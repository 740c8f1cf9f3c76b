package partners

import (
	"context"

	"github.com/pkg/errors"

	"github.com/brandlink/partner-auth/internal/errs"
)

// Linker creates the partnership record tying a freshly authenticated
// creator to the campaign context that initiated the sign-in. Linkage is a
// convenience side effect of authentication, not a precondition of a valid
// session: callers log a failure and move on, there is no automatic retry.
type Linker struct {
	repo Repo
}

func NewLinker(repo Repo) (*Linker, error) {
	if repo == nil {
		return nil, errors.New("[NewLinker] partnership repo is required")
	}
	return &Linker{repo: repo}, nil
}

// Link creates the partnership for the given creator identity key and
// campaign identifiers. Called at most once per successful creator grant.
func (l *Linker) Link(ctx context.Context, creatorInternalID, companyID, shortID string) (*Partnership, error) {
	if creatorInternalID == "" || companyID == "" || shortID == "" {
		return nil, errs.Wrapf(errs.ErrLinkageFailed, "[Linker.Link] incomplete linkage identifiers")
	}

	partnership, err := l.repo.Create(ctx, creatorInternalID, companyID, shortID)
	if err != nil {
		return nil, errs.Wrapf(errs.ErrLinkageFailed, "[Linker.Link] creating partnership: %v", err)
	}
	return partnership, nil
}
