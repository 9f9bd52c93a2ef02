package zoho

import (
	"errors"
	"fmt"
)

// One sentinel per failure site so callers can tell exactly which operation
// failed with errors.Is, instead of a single generic request error.
var (
	ErrTokenRefresh = errors.New("zoho: token refresh failed")
	ErrFolderFetch  = errors.New("zoho: folder fetch failed")
	ErrMessageFetch = errors.New("zoho: message fetch failed")
	ErrContentFetch = errors.New("zoho: content fetch failed")
	ErrMarkRead     = errors.New("zoho: mark read failed")
	ErrSend         = errors.New("zoho: send failed")
)

// statusError wraps a sentinel with the vendor's HTTP status and response
// body. Transport errors wrap the same sentinel via transportError so both
// failure modes match the sentinel.
func statusError(sentinel error, status int, body string) error {
	return fmt.Errorf("%w: status %d: %s", sentinel, status, body)
}

func transportError(sentinel error, err error) error {
	return fmt.Errorf("%w: %v", sentinel, err)
}
