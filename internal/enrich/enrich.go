// Package enrich implements the background job that fills in a new user's
// geolocation and holiday metadata. The job is best effort: any upstream
// failure is logged and the corresponding field is simply left empty. No
// retry, no dead-letter, and nothing ever surfaces to the request that
// created the user.
package enrich

import (
	"context"
	"log"
	"time"

	"github.com/friendlyhq/friendly/internal/abstract"
	"github.com/friendlyhq/friendly/internal/model"
	"github.com/friendlyhq/friendly/internal/queue"
)

// GeoLookup is the slice of the Abstract client the job needs; narrowed to
// an interface so tests can stand in fake upstreams.
type GeoLookup interface {
	Geolocate(ctx context.Context, ip string) (model.JSONMap, error)
	Holidays(ctx context.Context, countryCode string, day time.Time) (model.JSONMap, error)
}

// UserUpdater persists the fetched metadata.
type UserUpdater interface {
	UpdateEnrichment(ctx context.Context, userID string, geo, holiday model.JSONMap) error
}

type Enricher struct {
	API   GeoLookup
	Users UserUpdater

	// now is swapped in tests to pin the holiday-lookup date.
	now func() time.Time
}

func New(api GeoLookup, users UserUpdater) *Enricher {
	return &Enricher{API: api, Users: users, now: time.Now}
}

// Run processes one user.created event: geolocate the source IP, and if a
// country code came back, fetch today's holidays for it, then write
// whatever was obtained. When geolocation fails there is nothing to write
// and the user keeps its empty maps.
func (e *Enricher) Run(ctx context.Context, ev queue.UserCreatedEvent) error {
	geo, err := e.API.Geolocate(ctx, ev.IP)
	if err != nil {
		log.Printf("enrich: geolocate %s for user %s failed: %v", ev.IP, ev.UserID, err)
		return nil
	}

	var holiday model.JSONMap
	if code := abstract.CountryCode(geo); code != "" {
		holiday, err = e.API.Holidays(ctx, code, e.now().UTC())
		if err != nil {
			log.Printf("enrich: holiday lookup %s for user %s failed: %v", code, ev.UserID, err)
			holiday = nil // keep the geo update even when holidays fail
		}
	}

	if err := e.Users.UpdateEnrichment(ctx, ev.UserID, geo, holiday); err != nil {
		log.Printf("enrich: update user %s failed: %v", ev.UserID, err)
	}
	return nil
}
