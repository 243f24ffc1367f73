package model

import "time"

type Faq struct {
	ID        string    `db:"id" json:"id"`
	Type      string    `db:"type" json:"type"`
	Question  string    `db:"question" json:"question"`
	Answer    string    `db:"answer" json:"answer"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}
