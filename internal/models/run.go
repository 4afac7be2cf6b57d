package models

import (
	"time"

	surrealmodels "github.com/surrealdb/surrealdb.go/pkg/models"
)

// ScoreRun records one scored collection pushed to the graph store.
type ScoreRun struct {
	ID       surrealmodels.RecordID `json:"id"`
	Entities int                    `json:"entities"`
	Links    int                    `json:"links"`
	Created  time.Time              `json:"created"`
}
