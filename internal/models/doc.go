// Package models defines the core domain models for fundkeeper.
//
// # Collections
//
// The fund is stored as four flat collections:
//   - users: one User profile per signed-in identity, keyed by the identity id
//   - contributors: one Contributor record per contribution event
//   - expenses: one Expense record per spend against the fund
//   - logs: the append-only audit trail of LogEntry values
//
// Totals are derived from the contributors and expenses collections and are
// never persisted.
//
// # Amounts
//
// Every amount is a decimal.Decimal. Records that reach a collection always
// carry an amount greater than zero; validation happens before the write.
package models
