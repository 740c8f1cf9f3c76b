package lifecycle

import "github.com/brandlink/partner-auth/session"

// Destination names the post-sign-in landing surface. The HTTP layer maps
// destinations to concrete paths.
type Destination string

const (
	DestinationPartnershipReview Destination = "partnership_review"
	DestinationStoreSelection    Destination = "store_selection"
	DestinationDefault           Destination = "default"
)

// RedirectTarget decides where a request lands after sign-in. Pure function
// of the materialised session only: the raw callback parameters are never
// re-derived here.
func RedirectTarget(tok *session.Token) Destination {
	if tok == nil {
		return DestinationDefault
	}
	if tok.PartnershipID != "" {
		return DestinationPartnershipReview
	}
	if tok.IsCompany() {
		return DestinationStoreSelection
	}
	return DestinationDefault
}
