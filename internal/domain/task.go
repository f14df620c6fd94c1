package domain

type Task struct {
	ID          int64   `db:"id" json:"id"`
	Title       string  `db:"title" json:"title"`
	Description *string `db:"description" json:"description"`
	OwnerID     int64   `db:"owner_id" json:"owner_id"`
	Date        *string `db:"date" json:"date"`
	Time        *string `db:"time" json:"time"`
	Completed   bool    `db:"completed" json:"completed"`
}

// TaskPatch carries the fields of a partial update. Nil fields are left
// untouched.
type TaskPatch struct {
	Title       *string
	Description *string
	Date        *string
	Time        *string
	Completed   *bool
}

func (p TaskPatch) Empty() bool {
	return p.Title == nil && p.Description == nil && p.Date == nil && p.Time == nil && p.Completed == nil
}

// Apply copies every non-nil field of the patch onto the task.
func (p TaskPatch) Apply(t *Task) {
	if p.Title != nil {
		t.Title = *p.Title
	}
	if p.Description != nil {
		t.Description = p.Description
	}
	if p.Date != nil {
		t.Date = p.Date
	}
	if p.Time != nil {
		t.Time = p.Time
	}
	if p.Completed != nil {
		t.Completed = *p.Completed
	}
}
