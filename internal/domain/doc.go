// Package domain holds the core entities, store contracts, and domain errors
// of the analytics service. It has no dependencies on transport or persistence
// packages; those implement the interfaces declared here.
package domain
