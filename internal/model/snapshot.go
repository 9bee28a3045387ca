package model

import "time"

type RouterSnapshot struct {
	Source    string     `json:"source"`
	Dest      string     `json:"dest"`
	StartedAt time.Time  `json:"started_at"`
	Rerouted  int        `json:"rerouted"`
	Skipped   int        `json:"skipped"`
	Failed    int        `json:"failed"`
	LastMove  *time.Time `json:"last_move"`
	LastError string     `json:"last_error,omitempty"`
}
