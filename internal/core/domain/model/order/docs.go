// Package order provides the Order aggregate and the lifecycle state machine of the desk.
//
// The package includes:
//   - Order: the aggregate root owning its line items and observations
//   - LineItem: one asset instruction with requested and executed quantity/price
//   - Observation: an append-only audit or comment entry
//   - Status: the closed six-state lifecycle enum with its canonical string form
//   - Transition: the table deciding which status changes exist and which roles may trigger them
//
// Key business rules:
//   - Orders start Pending and need at least one line item
//   - Executed and Canceled are terminal
//   - Executed quantity never exceeds requested quantity
//   - Every mutation moves UpdatedAt forward
//   - A transition that mandates an observation always records one
package order
