package bridge

import "fmt"

// Errors are classified by failure domain rather than by low level cause.
// Each stage of the e2e pipeline wraps whatever went wrong into the
// appropriate kind before propagating it upwards.

type FundingError struct {
	Reason string
	Err    error
}

func NewFundingError(reason string, err error) *FundingError {
	return &FundingError{Reason: reason, Err: err}
}

func (e *FundingError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("wallet funding failed: %s: %v", e.Reason, e.Err)
	}

	return fmt.Sprintf("wallet funding failed: %s", e.Reason)
}

func (e *FundingError) Unwrap() error { return e.Err }

type BridgingError struct {
	Reason string
	Err    error
}

func NewBridgingError(reason string, err error) *BridgingError {
	return &BridgingError{Reason: reason, Err: err}
}

func (e *BridgingError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("bridging failed: %s: %v", e.Reason, e.Err)
	}

	return fmt.Sprintf("bridging failed: %s", e.Reason)
}

func (e *BridgingError) Unwrap() error { return e.Err }

type DeploymentError struct {
	Contract string
	Err      error
}

func NewDeploymentError(contract string, err error) *DeploymentError {
	return &DeploymentError{Contract: contract, Err: err}
}

func (e *DeploymentError) Error() string {
	return fmt.Sprintf("deployment of %s failed: %v", e.Contract, e.Err)
}

func (e *DeploymentError) Unwrap() error { return e.Err }

type ConfigError struct {
	Reason string
}

func NewConfigError(reason string) *ConfigError {
	return &ConfigError{Reason: reason}
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("configuration error: %s", e.Reason)
}

type NetworkError struct {
	Endpoint string
	Err      error
}

func NewNetworkError(endpoint string, err error) *NetworkError {
	return &NetworkError{Endpoint: endpoint, Err: err}
}

func (e *NetworkError) Error() string {
	return fmt.Sprintf("network error for %s: %v", e.Endpoint, e.Err)
}

func (e *NetworkError) Unwrap() error { return e.Err }
