// Package services is what the CLI talks to. Reads go through the query
// cache; writes go straight to the backend and, once they succeed,
// invalidate the reads they made stale.
package services
