package api

import "errors"

// ErrInsufficientPoints is returned by RedeemReward when the authoritative
// balance cannot cover the reward's cost. Callers match it with errors.Is;
// the wrapped message carries the reward title and shortfall.
var ErrInsufficientPoints = errors.New("insufficient points")
