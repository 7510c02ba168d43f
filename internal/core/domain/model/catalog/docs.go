// Package catalog holds the read-only reference data orders point at: clients and
// tradable assets. The engine never mutates them; it reads them to validate references
// and to denormalize display fields at order creation.
package catalog
