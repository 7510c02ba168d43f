// Package kernel provides the shared domain primitives of the order desk.
//
// The package includes:
//   - UUID: a validated identifier value object for orders, line items, observations and catalog entries
//   - Actor: the person (or the system) on whose behalf an operation runs, with the role that
//     decides which order transitions they may trigger
//
// Both types are immutable values whose zero value is invalid.
package kernel
