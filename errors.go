package agroqa

import "errors"

// ErrProviderRequired is returned when a service is constructed without an
// AI provider.
var ErrProviderRequired = errors.New("ai provider required")
