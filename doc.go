// Package brokerage implements the execution and position core of a small
// trading system: a file-persisted simulated ledger for markets the external
// broker cannot trade, and the typed domain model shared by both execution
// paths.
//
// The core functionalities include:
//   - Simulated Ledger: cash and position tracking with instant order fills,
//     average-cost accounting, and a single JSON snapshot on disk that
//     survives restarts.
//   - Domain Model: orders, positions, accounts and market clocks in one
//     normalized shape, whether they come from the local ledger or from the
//     parsed output of the external broker (package alpaca).
//   - Execution Routing: a thin facade (package execution) that dispatches
//     each order to the broker-backed path or the simulated ledger based on
//     the symbol's market (package market).
//
// This package serves as the foundational logic for the `brok` command-line
// tool.
package brokerage
