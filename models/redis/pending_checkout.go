package redis

import "time"

/*
 * 'PendingCheckout' stashes the redirect-flow state between create and
 * verify, keyed in Redis by a server-issued opaque token. The callback
 * from the provider does not carry game ids, so they live here until the
 * payment is verified. Records expire via TTL and are deleted on any
 * terminal verification outcome.
 */
type PendingCheckout struct {
	UserID         uint      `json:"user_id"`
	GameIDs        []uint    `json:"game_ids"`
	OrderReference string    `json:"order_reference"`
	Total          string    `json:"total"`
	CreatedAt      time.Time `json:"created_at"`
}
