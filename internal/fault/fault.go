// Package fault defines the typed error taxonomy shared by the draft
// analysis components. Configuration and model errors are fatal to the
// request that hit them; per-candidate evaluation errors are recovered
// by the recommendation engine and never surface here.
package fault

import (
	"errors"
	"fmt"
)

// ConfigurationError indicates a missing or corrupt static asset
// (champion reference, history index, artifact directory). Not retryable.
type ConfigurationError struct {
	Asset string
	Err   error
}

func (e *ConfigurationError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("configuration: %s: %v", e.Asset, e.Err)
	}
	return fmt.Sprintf("configuration: %s", e.Asset)
}

func (e *ConfigurationError) Unwrap() error { return e.Err }

// Configuration wraps err as a ConfigurationError for the named asset.
func Configuration(asset string, err error) error {
	return &ConfigurationError{Asset: asset, Err: err}
}

// Configurationf builds a ConfigurationError from a format string.
func Configurationf(format string, args ...interface{}) error {
	return &ConfigurationError{Asset: fmt.Sprintf(format, args...)}
}

// ModelNotFound indicates no frozen artifact exists for the requested
// ELO group. Client-correctable: retry with low, mid or high.
type ModelNotFound struct {
	Group string
}

func (e *ModelNotFound) Error() string {
	return fmt.Sprintf("no model artifact for elo group %q", e.Group)
}

// FeatureMismatch indicates the assembled vector length disagrees with
// the modelcard. This is model/code skew and must never be papered over
// by padding or truncation.
type FeatureMismatch struct {
	Got  int
	Want int
}

func (e *FeatureMismatch) Error() string {
	return fmt.Sprintf("feature vector length %d, modelcard expects %d", e.Got, e.Want)
}

// IsConfiguration reports whether err is a ConfigurationError.
func IsConfiguration(err error) bool {
	var ce *ConfigurationError
	return errors.As(err, &ce)
}

// IsModelNotFound reports whether err is a ModelNotFound.
func IsModelNotFound(err error) bool {
	var mn *ModelNotFound
	return errors.As(err, &mn)
}

// IsFeatureMismatch reports whether err is a FeatureMismatch.
func IsFeatureMismatch(err error) bool {
	var fm *FeatureMismatch
	return errors.As(err, &fm)
}
