// Package redis establishes the Redis connection the session store runs on,
// with startup retries so the service tolerates the store coming up slightly
// later than the process.
package redis
