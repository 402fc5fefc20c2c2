package quotes

import (
	"time"

	"quoteme/internal/domain"
)

type SubmitQuoteRequest struct {
	ProjectID int64   `json:"project_id" validate:"required,gt=0"`
	Amount    float64 `json:"amount" validate:"required,gt=0"`
	Proposal  string  `json:"proposal" validate:"required,min=1,max=4000"`
	Trade     *string `json:"trade,omitempty"`
}

type QuoteResponse struct {
	ID         int64     `json:"id"`
	ProjectID  int64     `json:"project_id"`
	ProviderID int64     `json:"provider_id"`
	Amount     float64   `json:"amount"`
	Proposal   string    `json:"proposal"`
	Trade      *string   `json:"trade,omitempty"`
	IsSelected bool      `json:"is_selected"`
	CreatedAt  time.Time `json:"created_at"`
}

func toQuoteResponse(q *domain.Quote) QuoteResponse {
	resp := QuoteResponse{
		ID:         q.ID,
		ProjectID:  q.ProjectID,
		ProviderID: q.ProviderID,
		Amount:     q.Amount,
		Proposal:   q.Proposal,
		IsSelected: q.IsSelected,
		CreatedAt:  q.CreatedAt,
	}
	if q.Trade != nil {
		t := string(*q.Trade)
		resp.Trade = &t
	}
	return resp
}

func toQuoteResponses(qs []domain.Quote) []QuoteResponse {
	out := make([]QuoteResponse, 0, len(qs))
	for i := range qs {
		out = append(out, toQuoteResponse(&qs[i]))
	}
	return out
}
