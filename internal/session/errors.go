package session

import "fmt"

// ConnectionError reports a failed attempt to establish a wallet session.
type ConnectionError struct {
	Cause error
}

func (e *ConnectionError) Error() string {
	return fmt.Sprintf("wallet connection failed: %v", e.Cause)
}

func (e *ConnectionError) Unwrap() error { return e.Cause }

// NetworkSwitchError reports that the wallet could not be moved to the
// marketplace chain, even after offering to register it.
type NetworkSwitchError struct {
	ChainID int64
	Cause   error
}

func (e *NetworkSwitchError) Error() string {
	return fmt.Sprintf("could not switch wallet to chain %d: %v", e.ChainID, e.Cause)
}

func (e *NetworkSwitchError) Unwrap() error { return e.Cause }
