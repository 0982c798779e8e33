// Package webhook holds the webhook domain: event subscriptions the remote
// API calls back on, with their retry delays.
package webhook

import (
	"net/url"
	"strconv"
	"time"

	"github.com/google/uuid"

	"github.com/subtrackhq/subtrack-go/pkg/enums"
)

// Webhook is the canonical entity as owned by the remote API. Delays are the
// retry backoff steps in seconds.
type Webhook struct {
	ID        uuid.UUID       `json:"id" validate:"required"`
	EventCode enums.EventCode `json:"eventCode" validate:"required,eventcode"`
	TargetURL string          `json:"targetUrl" validate:"required,url"`
	Delays    []int           `json:"delays" validate:"dive,gte=0"`
	CreatedAt time.Time       `json:"createdAt" validate:"required"`
	UpdatedAt time.Time       `json:"updatedAt" validate:"required"`
}

// Create is the projection submitted to create a webhook.
type Create struct {
	EventCode enums.EventCode `json:"eventCode" validate:"required,eventcode"`
	TargetURL string          `json:"targetUrl" validate:"required,url"`
	Delays    []int           `json:"delays" validate:"dive,gte=0"`
}

// Update is the create projection plus the target id.
type Update struct {
	ID uuid.UUID `json:"id" validate:"required"`
	Create
}

// CU builds the update projection from a canonical webhook.
func CU(w Webhook) Update {
	return Update{
		ID: w.ID,
		Create: Create{
			EventCode: w.EventCode,
			TargetURL: w.TargetURL,
			Delays:    append([]int(nil), w.Delays...),
		},
	}
}

// Sby scopes list and batch delete operations.
type Sby struct {
	IDs   []uuid.UUID
	Skip  int
	Limit int
}

// QueryValues renders the criteria as query parameters, with ids repeated in
// the order given.
func (s Sby) QueryValues() url.Values {
	values := url.Values{}
	for _, id := range s.IDs {
		values.Add("ids", id.String())
	}
	if s.Skip > 0 {
		values.Set("skip", strconv.Itoa(s.Skip))
	}
	if s.Limit > 0 {
		values.Set("limit", strconv.Itoa(s.Limit))
	}
	return values
}
