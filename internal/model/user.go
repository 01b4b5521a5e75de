package model

import "time"

// User represents an application user record as stored in the `users`
// table. The password is only ever stored as a bcrypt hash; GeoData and
// OnHoliday start out as empty maps and are filled in asynchronously by
// the enrichment job, so readers may observe them empty indefinitely.
//
// Fields:
//
//	ID           – opaque UUID primary key, assigned at creation.
//	Username     – unique display name; arbitrary Unicode is allowed.
//	Email        – unique, format-validated email address.
//	PasswordHash – bcrypt hash of the NFC-normalized password.
//	GeoData      – geolocation attributes keyed by the upstream API.
//	OnHoliday    – holiday-status attributes for the detected country.
//	CreatedAt    – timestamp of creation, immutable afterwards.
type User struct {
	ID           string    // users.id
	Username     string    // users.username
	Email        string    // users.email
	PasswordHash string    // users.password_hash
	GeoData      JSONMap   // users.geo_data
	OnHoliday    JSONMap   // users.on_holiday
	CreatedAt    time.Time // users.created_at
}

// RefreshToken models an entry in the `refresh_tokens` table. Each refresh
// token belongs to a user; only the SHA-256 hash of the raw value is kept.
//
// Fields:
//
//	ID        – primary key identifier.
//	UserID    – owner of the token.
//	TokenHash – SHA-256 hex digest of the token value.
//	ExpiresAt – expiration timestamp of the token.
//	RevokedAt – when the token was revoked (null if still active).
//	CreatedAt – timestamp of creation.
type RefreshToken struct {
	ID        uint64     // refresh_tokens.id
	UserID    string     // refresh_tokens.user_id
	TokenHash string     // refresh_tokens.token_hash
	ExpiresAt time.Time  // refresh_tokens.expires_at
	RevokedAt *time.Time // refresh_tokens.revoked_at (nullable)
	CreatedAt time.Time  // refresh_tokens.created_at
}
