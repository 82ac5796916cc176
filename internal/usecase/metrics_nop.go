package usecase

import "FinCycle/internal/domain/models"

// nopMetrics is used when no recorder is wired.
type nopMetrics struct{}

func (nopMetrics) RecordFetch(string, float64, error)        {}
func (nopMetrics) RecordIndicator(models.ProcessedIndicator) {}
func (nopMetrics) RecordSnapshot(string, int)                {}
func (nopMetrics) RecordError(string)                        {}
func (nopMetrics) RecordLatency(string, float64)             {}
