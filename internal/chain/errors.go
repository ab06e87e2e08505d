// Package chain holds the block store collaborators shared by history scans.
package chain

import "errors"

var (
	// ErrNoPath means the requested tip cannot be reached by walking forward from the start block.
	ErrNoPath = errors.New("no path between blocks")
	// ErrUnknownBlock means the store has no block with the given hash.
	ErrUnknownBlock = errors.New("unknown block")
	// ErrEmpty means the store holds no block yet.
	ErrEmpty = errors.New("no blocks stored")
	// ErrRejected means a transaction was not admitted to the mempool.
	ErrRejected = errors.New("transaction rejected")
)
