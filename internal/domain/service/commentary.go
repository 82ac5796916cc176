package service

import (
	"context"

	"FinCycle/internal/domain/models"
)

// Commentator writes a short narrative about the current state of the indicators.
type Commentator interface {
	Summarize(ctx context.Context, views []models.IndicatorView) (string, error)
}
