// Package services implements the business logic layer between the HTTP
// handlers and the data processing pipeline.
//
// # Architecture
//
// Services follow these architectural principles:
//
//  1. Interface-driven design for testability
//  2. Context propagation for cancellation
//  3. Dependency injection for loose coupling
//  4. Domain-focused methods that encapsulate business rules
//
// # Available Services
//
// The package provides these core services:
//
//   - SurveyService: Owns the canonical record set. Ingests spreadsheet
//     uploads (or a remote CSV source), normalizes them and persists a
//     snapshot so the dataset survives restarts.
//   - DashboardService: Pure derivations. Recomputes every dashboard
//     aggregate from (records, filter) on each request; no caches.
//   - HealthService: Liveness and dataset status for /api/health.
//
// # Concurrency
//
// SurveyService guards the record slice with a RWMutex and hands out
// copies, so derivations never observe a mid-import state.
package services
