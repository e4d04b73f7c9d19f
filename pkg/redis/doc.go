// Package redis connects to Redis, which backs the shared rate limiter when
// the service runs with more than one replica.
package redis
