// Package ratelimiter implements a token bucket limiter with pluggable
// storage: MemoryStore for a single process, RedisStore for replicas sharing
// state. The account routes use it to throttle credential and token guessing
// per client IP.
//
// Requests over the limit are rejected without touching the balance, so a
// blocked client is allowed again as soon as the bucket refills.
package ratelimiter
