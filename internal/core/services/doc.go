// Package services implements the driving port interfaces.
// Services contain the core business logic and orchestrate
// calls to driven ports (adapters).
//
// Services are pure Go with no CGO. Network and database access
// happens behind driven ports; only run artifacts and the corpus
// directory are written to disk directly.
package services
