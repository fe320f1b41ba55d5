package repository

import "errors"

// ErrCacheMiss is returned by ListingCache.GetListing when no live entry
// exists for the key
var ErrCacheMiss = errors.New("cache miss")
