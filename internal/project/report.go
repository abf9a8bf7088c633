package project

import "time"

// Report records one report file written into the project.
type Report struct {
	ID        string    `json:"id"`
	Kind      string    `json:"kind"`
	Source    string    `json:"source"`
	Path      string    `json:"path"`
	Format    string    `json:"format"`
	CreatedAt time.Time `json:"created_at"`
}
