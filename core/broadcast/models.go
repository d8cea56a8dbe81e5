package broadcast

import (
	"time"

	"github.com/trezcool/shule/core"
)

// Audiences a broadcast can target.
const (
	AudienceAll      = "all"
	AudienceTeachers = "teachers"
	AudienceParents  = "parents"
)

// Broadcast is an announcement sent to an audience over the email side channel.
// Delivery is fire-and-forget; the record only proves the send was requested.
type Broadcast struct {
	ID        int       `json:"id"`
	Subject   string    `json:"subject"`
	Body      string    `json:"body"`
	Audience  string    `json:"audience"`
	SentByID  int       `json:"sent_by_id"`
	CreatedAt time.Time `json:"created_at"` // UTC
}

// NewBroadcast contains information needed to send a Broadcast.
type NewBroadcast struct {
	Subject  string `json:"subject" validate:"required"`
	Body     string `json:"body" validate:"required"`
	Audience string `json:"audience" validate:"required,oneof=all teachers parents"`
}

func (nb *NewBroadcast) Validate() error {
	nb.Subject = core.CleanString(nb.Subject)
	nb.Audience = core.CleanString(nb.Audience, true /* lower */)
	return core.Validate.Struct(nb)
}
