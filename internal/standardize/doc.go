// Package standardize resolves demographic inconsistencies across the
// multiple policy rows of a single customer.
//
// Resolve collapses one customer's observations of a field into a canonical
// value plus a conflict flag: unanimous values pass through unflagged, a clear
// majority wins with the conflict flagged, tied majorities yield the Conflict
// sentinel, and an all-null group yields Unknown. The Standardizer applies
// Resolve per customer to each configured field and broadcasts the result
// onto every row of that customer, leaving the raw fields in place for audit.
package standardize
