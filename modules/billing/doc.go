// Package billing is the HTTP surface of the subscription service.
//
// Router mounts the checkout, status and webhook endpoints under /api
// together with health and metrics endpoints:
//
//	POST /api/create-checkout-session   {email, plan} -> {url}
//	GET  /api/subscription-status/{email}
//	POST /api/webhook                   raw provider payload
//	GET  /api/ping
//	GET  /health/live, /health/ready
//	GET  /metrics
//
// Handlers translate subscription error classes into status codes; they
// hold no state of their own.
package billing
