package models

import "github.com/google/uuid"

// assignID gives a row its primary key before insert so every dialect writes
// the same value the caller sees.
func assignID(id *uuid.UUID) {
	if *id == uuid.Nil {
		*id = uuid.New()
	}
}
