// Package budget implements a local-first envelope budgeting ledger.
//
// A Ledger tracks real-world accounts, envelopes (named budget categories),
// savings goals and an append-only transaction log, and keeps them mutually
// consistent:
//   - Income is posted to an account and becomes unallocated funds.
//   - Allocate moves unallocated funds into envelopes, the only way funds
//     become allocated.
//   - Spend debits an account and the envelope it is charged to, or the
//     unallocated funds when no envelope is given.
//   - Transfer moves money between accounts, conserving the total balance.
//   - CloseMonth moves what is still unallocated into an account.
//
// Every operation validates its inputs before changing anything and reports
// failures as a *FieldError wrapping ErrInvalid, ErrNotFound,
// ErrInsufficientFunds or ErrExists.
//
// The whole ledger is persisted as a single JSON snapshot under StateKey in
// any Storage, see Load, Save and Erase. The snapshot layout is stable and
// older snapshots are migrated on load.
//
// This package is the foundation of the `bgt` command line tool.
package budget
