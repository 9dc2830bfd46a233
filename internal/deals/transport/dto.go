// Package transport defines request/response DTOs for the deals HTTP API.
package transport

// CreateDealRequest is the payload for creating a deal.
type CreateDealRequest struct {
	Name               string   `json:"name" validate:"required,max=200"`
	ClientName         *string  `json:"clientName" validate:"omitempty,max=200"`
	ExpectedValueCents *int64   `json:"expectedValueCents" validate:"omitempty,gte=0"`
	FeeRetainerCents   *int64   `json:"feeRetainerCents" validate:"omitempty,gte=0"`
	FeeSuccessCents    *int64   `json:"feeSuccessCents" validate:"omitempty,gte=0"`
	Probability        *float64 `json:"probability" validate:"omitempty,gte=0,lte=1"`
}

// UpdateDealRequest is the payload for a partial deal update. Stage and
// status have dedicated endpoints.
type UpdateDealRequest struct {
	Name               *string  `json:"name" validate:"omitempty,max=200"`
	ClientName         *string  `json:"clientName" validate:"omitempty,max=200"`
	ExpectedValueCents *int64   `json:"expectedValueCents" validate:"omitempty,gte=0"`
	FeeRetainerCents   *int64   `json:"feeRetainerCents" validate:"omitempty,gte=0"`
	FeeSuccessCents    *int64   `json:"feeSuccessCents" validate:"omitempty,gte=0"`
	Probability        *float64 `json:"probability" validate:"omitempty,gte=0,lte=1"`
}

// TransitionRequest moves a deal to a new pipeline stage.
type TransitionRequest struct {
	Stage string `json:"stage" validate:"required"`
}

// SetStatusRequest flips the deal lifecycle status.
type SetStatusRequest struct {
	Status string `json:"status" validate:"required"`
}
