package cache

import "errors"

var (
	// ErrEncoding indicates the value could not be serialized
	ErrEncoding = errors.New("cache.encoding_failed")
)
