// Package mongo bootstraps the MongoDB client used by the account storage.
//
// Configuration comes from MONGODB_* environment variables (see Config).
// New retries the initial connection; Healthcheck plugs into the readiness
// endpoint.
package mongo
