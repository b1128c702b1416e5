// AngelaMos | 2026
// entity.go

package course

import (
	"time"
)

type Course struct {
	ID          string    `db:"id"`
	Name        string    `db:"name"`
	Description string    `db:"description"`
	Preview     *string   `db:"preview"`
	OwnerID     *string   `db:"owner_id"`
	LastUpdated time.Time `db:"last_updated"`
	CreatedAt   time.Time `db:"created_at"`
}

type Lesson struct {
	ID          string    `db:"id"`
	Name        string    `db:"name"`
	Description string    `db:"description"`
	Video       *string   `db:"video"`
	OwnerID     *string   `db:"owner_id"`
	CreatedAt   time.Time `db:"created_at"`
}

func (c *Course) IsOwnedBy(userID string) bool {
	return c.OwnerID != nil && *c.OwnerID == userID
}

func (l *Lesson) IsOwnedBy(userID string) bool {
	return l.OwnerID != nil && *l.OwnerID == userID
}
