// Package health serves Kubernetes-style liveness and readiness probes.
//
// Liveness only proves the process responds. Readiness runs named checks
// against real dependencies, in parallel under a shared timeout:
//
//	mux.HandleFunc("/health/live", health.LivenessHandler())
//	mux.HandleFunc("/health/ready", health.ReadinessHandler(health.Checks{
//		"db":    db.Healthcheck(pool),
//		"redis": redis.Healthcheck(client),
//	}))
//
// Probes answer "OK" or "Service Unavailable" as plain text. Requesting
// JSON (Accept: application/json, or ?format=json for a browser) returns
// the per-check report with failure messages:
//
//	{"checks":{"db":{"status":"healthy"},"redis":{"status":"unhealthy","error":"dial tcp ..."}},"status":"unhealthy"}
package health
