package entities

import "time"

// Enterprise is a billed organization tenant. Its lifecycle is tied to the
// primary member's subscription; it is never owned by a team or user row.
type Enterprise struct {
	EnterpriseID         string     `json:"enterprise_id"`
	Name                 string     `json:"name"`
	Description          string     `json:"description,omitempty"`
	Email                string     `json:"email,omitempty"`
	Phone                string     `json:"phone,omitempty"`
	Country              string     `json:"country,omitempty"`
	Address              string     `json:"address,omitempty"`
	Locked               bool       `json:"locked"`
	InitSeats            int        `json:"init_seats"`
	InitSeatsExpiredTime *time.Time `json:"init_seats_expired_time,omitempty"`
	CreatedAt            time.Time  `json:"created_at"`
	UpdatedAt            time.Time  `json:"updated_at"`
}

// SeatAllowance reports the promotional seat allowance still in effect at now.
func (e Enterprise) SeatAllowance(now time.Time) int {
	if e.InitSeats <= 0 {
		return 0
	}
	if e.InitSeatsExpiredTime != nil && !now.Before(*e.InitSeatsExpiredTime) {
		return 0
	}
	return e.InitSeats
}
