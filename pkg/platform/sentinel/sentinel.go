package sentinel

import "errors"

// Sentinel errors for infrastructure facts. Credential backends and other
// infrastructure layers return these (optionally wrapped) so services can
// translate them into domain behavior.
//
// These represent factual states about resources, not validation failures:
// - ErrNotFound: no token/record exists in the backing store
// - ErrExpired: credential rejected by the backend as expired
// - ErrUnavailable: backing store temporarily unreachable
var (
	ErrNotFound    = errors.New("not found")
	ErrExpired     = errors.New("expired")
	ErrUnavailable = errors.New("unavailable")
)
