package room

import "errors"

type Room struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

var (
	ErrNotFound  = errors.New("room not found")
	ErrNameTaken = errors.New("room name already used")
)
