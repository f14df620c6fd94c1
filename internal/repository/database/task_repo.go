package database

import (
	"context"

	"github.com/jmoiron/sqlx"

	"github.com/njprem/Todo_APP_BackEnd/internal/domain"
	"github.com/njprem/Todo_APP_BackEnd/internal/repository/ports"
)

// Legacy tables may hold NULL titles or owners from before the columns were
// required.
const taskColumns = `id, COALESCE(title, '') AS title, description, COALESCE(owner_id, 0) AS owner_id, "date", "time", completed`

type TaskRepository struct {
	db sqlx.ExtContext
}

func NewTaskRepo(db sqlx.ExtContext) *TaskRepository {
	return &TaskRepository{db: db}
}

func (r *TaskRepository) Create(ctx context.Context, task *domain.Task) (*domain.Task, error) {
	const query = `
        INSERT INTO tasks (title, description, owner_id, "date", "time", completed)
        VALUES (?, ?, ?, ?, ?, ?)
        RETURNING ` + taskColumns

	row := r.db.QueryRowxContext(ctx, r.db.Rebind(query),
		task.Title, task.Description, task.OwnerID, task.Date, task.Time, task.Completed)
	var created domain.Task
	if err := row.StructScan(&created); err != nil {
		return nil, err
	}
	return &created, nil
}

func (r *TaskRepository) List(ctx context.Context) ([]domain.Task, error) {
	const query = `
        SELECT ` + taskColumns + `
        FROM tasks
        ORDER BY id
    `
	rows, err := r.db.QueryxContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	tasks := make([]domain.Task, 0)
	for rows.Next() {
		var task domain.Task
		if err := rows.StructScan(&task); err != nil {
			return nil, err
		}
		tasks = append(tasks, task)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return tasks, nil
}

func (r *TaskRepository) FindByID(ctx context.Context, id int64) (*domain.Task, error) {
	const query = `
        SELECT ` + taskColumns + `
        FROM tasks
        WHERE id = ?
    `
	var task domain.Task
	if err := sqlx.GetContext(ctx, r.db, &task, r.db.Rebind(query), id); err != nil {
		return nil, mapNotFound(err)
	}
	return &task, nil
}

func (r *TaskRepository) Update(ctx context.Context, task *domain.Task) (*domain.Task, error) {
	const query = `
        UPDATE tasks
        SET title = ?,
            description = ?,
            "date" = ?,
            "time" = ?,
            completed = ?
        WHERE id = ?
        RETURNING ` + taskColumns

	row := r.db.QueryRowxContext(ctx, r.db.Rebind(query),
		task.Title, task.Description, task.Date, task.Time, task.Completed, task.ID)
	var updated domain.Task
	if err := row.StructScan(&updated); err != nil {
		return nil, mapNotFound(err)
	}
	return &updated, nil
}

func (r *TaskRepository) Delete(ctx context.Context, id int64) error {
	const query = `DELETE FROM tasks WHERE id = ?`
	result, err := r.db.ExecContext(ctx, r.db.Rebind(query), id)
	if err != nil {
		return err
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ports.ErrNotFound
	}
	return nil
}

var _ ports.TaskRepository = (*TaskRepository)(nil)
