// Package domain holds the crowdfunding campaign state machine.
//
// A Campaign custodies contributed funds, tracks the approver set, and owns
// an append-only list of spending requests. Every operation either applies
// fully or returns a typed error from internal/platform/errors without
// touching the campaign. Value movement goes through the Funds interface so
// that the hosting store can bind the transfer and the state change into one
// transaction.
package domain
