// Package redis provides the Redis client used for readiness checks and the shared
// event log.
//
// Every client carries a failsafe-go circuit breaker hook and a Prometheus metrics hook.
package redis
