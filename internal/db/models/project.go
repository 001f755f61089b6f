package models

import "time"

// Project groups tickets under a unique name. Projects are referenced by name
// on the wire and by ID in the tickets table.
type Project struct {
	ID        string    `db:"project_id"`
	Name      string    `db:"name"`
	CreatedAt time.Time `db:"created_at"`
}
