package models

import (
	"errors"
	"fmt"
)

// ErrIndicatorNotFound is returned when an id is not part of the configured table.
var ErrIndicatorNotFound = errors.New("indicator not found")

// ErrCommentaryDisabled is returned when no generative-AI credentials are configured.
var ErrCommentaryDisabled = errors.New("commentary disabled: no api key configured")

// ConfigError reports missing credentials or configuration, detected before any fetch.
type ConfigError struct {
	Field   string
	Message string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("configuration error: %s: %s", e.Field, e.Message)
}

// UpstreamError reports a failed observation fetch for one series.
type UpstreamError struct {
	SeriesID string
	Err      error
}

func (e *UpstreamError) Error() string {
	return fmt.Sprintf("fetch %s: %v", e.SeriesID, e.Err)
}

func (e *UpstreamError) Unwrap() error { return e.Err }
