// Package state defines the per-conversation quiz state and the store contract
// every persistence backend implements.
package state
