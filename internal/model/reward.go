package model

// Reward is an immutable catalog entry redeemable for points.
type Reward struct {
	ID         string `json:"id"`
	Title      string `json:"title"`
	Vendor     string `json:"vendor"`
	CostPoints int    `json:"cost_points"`
}
