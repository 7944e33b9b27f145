package domain

import "context"

// Profile is the stored per-user authorization and default-recipient data.
// Profiles are owned and mutated outside the gateway; within one invocation
// the loaded profile is treated as immutable.
type Profile struct {
	// AllowedIPs is the set of network ranges, in CIDR notation, from
	// which this user may invoke the gateway. An empty set authorizes
	// nothing.
	AllowedIPs []string `json:"allowed_ips"`

	// PhoneNumbers is the ordered list of default recipients used when
	// a request does not carry its own.
	PhoneNumbers []string `json:"phone_numbers"`
}

// ProfileStore reads user profiles from the external store. Implementations
// must return an error wrapping ErrNotFound when no profile exists for the
// given user ID.
type ProfileStore interface {
	Get(ctx context.Context, userID string) (Profile, error)
}

// ProfileAdminStore extends ProfileStore with the write operations used by
// operator tooling. The gateway pipeline itself never writes profiles.
type ProfileAdminStore interface {
	ProfileStore

	// Put creates or replaces the profile for the given user ID.
	Put(ctx context.Context, userID string, p Profile) error

	// List returns the user IDs of all stored profiles.
	List(ctx context.Context) ([]string, error)
}
