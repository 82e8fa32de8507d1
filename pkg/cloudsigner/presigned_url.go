package cloudsigner

import "time"

// timeNow is the clock used by IsExpired and the StartingNow helpers.
// Overridable in tests.
var timeNow = time.Now

// PresignedURL is an immutable presigned URL together with the validity
// window that was requested when it was signed.
//
// The window is the one the caller asked for, not one re-parsed out of the
// signed URL's own query parameters; the provider is trusted to have honored
// the request. Only the provider's verification at request time is
// authoritative — IsValid and IsExpired are an optimistic local signal.
type PresignedURL struct {
	url       string
	validFrom time.Time
	validFor  time.Duration
}

// NewPresignedURL constructs a PresignedURL. The URL string is stored as
// given, without normalization.
func NewPresignedURL(url string, validFrom time.Time, validFor time.Duration) PresignedURL {
	return PresignedURL{url: url, validFrom: validFrom, validFor: validFor}
}

// URL returns the presigned URL string.
func (u PresignedURL) URL() string { return u.url }

// ValidFrom returns the time at which the URL becomes valid.
func (u PresignedURL) ValidFrom() time.Time { return u.validFrom }

// ValidFor returns the duration for which the URL is valid.
func (u PresignedURL) ValidFor() time.Duration { return u.validFor }

// ValidUntil returns the time at which the URL expires. It is derived from
// the validity window and never reads the clock.
func (u PresignedURL) ValidUntil() time.Time { return u.validFrom.Add(u.validFor) }

// IsExpired reports whether the URL's validity window has passed. The clock
// is read at the moment of the call.
func (u PresignedURL) IsExpired() bool { return timeNow().After(u.ValidUntil()) }

// IsValid reports whether the URL's validity window has not yet passed.
func (u PresignedURL) IsValid() bool { return !u.IsExpired() }

func (u PresignedURL) String() string { return u.url }
