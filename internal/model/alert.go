package model

import (
	"time"

	"github.com/fekuna/omnipos-backoffice-service/internal/apperror"
)

const (
	AlertOpen    = "open"
	AlertTreated = "treated"
)

type Alert struct {
	ID        string     `db:"id" json:"id"`
	Status    string     `db:"status" json:"status"`
	Type      string     `db:"type" json:"type"`
	Details   string     `db:"details" json:"details"`
	UserID    *string    `db:"user_id" json:"user_id"`
	CreatedAt time.Time  `db:"created_at" json:"created_at"`
	TraitedAt *time.Time `db:"traited_at" json:"traited_at"`
}

func (a *Alert) Resolve(now time.Time) error {
	if a.Status != AlertOpen {
		return apperror.InvalidState("alert", a.Status, "resolve")
	}
	a.Status = AlertTreated
	a.TraitedAt = &now
	return nil
}
