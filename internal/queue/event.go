// Package queue defines the message payloads and the RabbitMQ publisher
// and consumer for the user.created queue, which carries the enrichment
// job off the request path.
package queue

// UserCreatedQueue is the durable queue written after a successful user
// registration and drained by the enrichment consumer.
const UserCreatedQueue = "user.created"

// UserCreatedEvent is published when a user is created. It carries just
// enough for the enrichment job: who to update and the source IP to
// geolocate. No ordering or delivery guarantee is implied; enrichment is
// best effort.
type UserCreatedEvent struct {
	UserID    string `json:"user_id"`
	IP        string `json:"ip"`
	CreatedAt string `json:"created_at"`
}
