// Package api is the REST transport for the extinguisher-tracking backend.
// It owns the wire types, endpoint paths, and the mapping from HTTP outcomes
// to transport errors.
//
// # Architecture boundaries
//
// This package never stores state and never interprets sessions beyond
// attaching the bearer token supplied by its [TokenSource]. Session policy,
// expiry, and the scan state machine belong to the root package.
package api
