// Package httpapi exposes the agenda generation service over HTTP (§6):
// POST /agendas/generate, GET /agendas/{id}, GET /agendas. It is grounded on
// internal/http's router/responder/middleware layering, adapted from a
// multi-resource CRUD surface to the three routes this system's core
// actually owns.
package httpapi
