// Package models defines the core domain records for TripBuddy.
//
// # Records
//
//   - User: registered account with a subscription plan tier
//   - Trip: a planned trip owned by a user, shared with collaborators
//   - Expense / ExpenseSplit: a shared cost and its per-participant shares
//   - CachedDocument / OfflineMapRegion: the offline cache inventory
//   - CacheSizeSummary: derived storage totals, never persisted
//
// # Design Principles
//
//  1. IDs are UUID strings; relationships use ID strings, not pointers,
//     to avoid circular references.
//  2. Timestamps are Unix seconds (int64).
//  3. Money is stored in currency minor units (int64 cents) so share
//     arithmetic stays exact; display formatting is a caller concern.
//  4. String-typed "kind" fields (plan tier, split policy, expense
//     category) are closed enum types with Valid checks, so an
//     unhandled variant is a validation-time error, never a silent
//     fallthrough.
package models
