package models

// Requests for indicator HTTP endpoints.

type BoardRequest struct {
	Tail int `query:"tail" json:"tail" default:"120" validate:"gte=1,lte=1000"`
}

type IndicatorRequest struct {
	ID   string `param:"id" validate:"required"`
	Tail int    `query:"tail" json:"tail" default:"120" validate:"gte=1,lte=1000"`
}

type HistoryRequest struct {
	ID    string `param:"id" validate:"required"`
	Limit int    `query:"limit" json:"limit" default:"100" validate:"gte=1,lte=5000"`
}
