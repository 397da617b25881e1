package contract

import "fmt"

// UninitializedSessionError is returned when a contract call is attempted
// without an active wallet session.
type UninitializedSessionError struct{}

func (e *UninitializedSessionError) Error() string {
	return "no active wallet session; connect first"
}

// PreconditionError is returned when a state-changing call is attempted while
// its preconditions do not hold (e.g. the wallet is on the wrong network).
// The call is rejected before anything is sent to the chain.
type PreconditionError struct {
	Op     string
	Reason string
}

func (e *PreconditionError) Error() string {
	return fmt.Sprintf("%s rejected: %s", e.Op, e.Reason)
}

// ContractReadError wraps a failed read-only contract call.
type ContractReadError struct {
	Contract string
	Method   string
	Cause    error
}

func (e *ContractReadError) Error() string {
	return fmt.Sprintf("reading %s.%s: %v", e.Contract, e.Method, e.Cause)
}

func (e *ContractReadError) Unwrap() error { return e.Cause }

// ContractWriteError wraps a failed state-changing contract call.
type ContractWriteError struct {
	Contract string
	Method   string
	Cause    error
}

func (e *ContractWriteError) Error() string {
	return fmt.Sprintf("writing %s.%s: %v", e.Contract, e.Method, e.Cause)
}

func (e *ContractWriteError) Unwrap() error { return e.Cause }
