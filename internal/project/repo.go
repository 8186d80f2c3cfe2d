package project

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/2beens/portfolio/internal/telemetry/tracing"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

var ErrProjectNotFound = errors.New("project not found")

const projectColumns = `id, title, description, tech, github, image, demo, created_at, updated_at`

type Repo struct {
	db  *pgxpool.Pool
	now func() time.Time
}

func NewRepo(db *pgxpool.Pool) *Repo {
	return &Repo{
		db:  db,
		now: time.Now,
	}
}

func (r *Repo) Add(ctx context.Context, project *Project) (*Project, error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.project.add")
	defer span.End()

	now := r.now()
	rows, err := r.db.Query(
		ctx,
		`INSERT INTO project (title, description, tech, github, image, demo, created_at, updated_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $7)
			RETURNING `+projectColumns+`;`,
		project.Title, project.Description, project.Tech,
		project.Github, project.Image, project.Demo, now,
	)
	if err != nil {
		return nil, fmt.Errorf("insert project: %w", err)
	}

	added, err := pgx.CollectExactlyOneRow(rows, pgx.RowToAddrOfStructByName[Project])
	if err != nil {
		return nil, fmt.Errorf("collect added project: %w", err)
	}

	return added, nil
}

func (r *Repo) Get(ctx context.Context, id int64) (*Project, error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.project.get")
	defer span.End()

	rows, err := r.db.Query(
		ctx,
		`SELECT `+projectColumns+` FROM project WHERE id = $1;`,
		id,
	)
	if err != nil {
		return nil, fmt.Errorf("get project %d: %w", id, err)
	}

	project, err := pgx.CollectExactlyOneRow(rows, pgx.RowToAddrOfStructByName[Project])
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrProjectNotFound
		}
		return nil, fmt.Errorf("collect project %d: %w", id, err)
	}

	return project, nil
}

func (r *Repo) Update(ctx context.Context, project *Project) (*Project, error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.project.update")
	defer span.End()

	rows, err := r.db.Query(
		ctx,
		`UPDATE project
			SET title = $1, description = $2, tech = $3, github = $4, image = $5, demo = $6, updated_at = $7
			WHERE id = $8
			RETURNING `+projectColumns+`;`,
		project.Title, project.Description, project.Tech,
		project.Github, project.Image, project.Demo,
		r.now(), project.ID,
	)
	if err != nil {
		return nil, fmt.Errorf("update project %d: %w", project.ID, err)
	}

	updated, err := pgx.CollectExactlyOneRow(rows, pgx.RowToAddrOfStructByName[Project])
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrProjectNotFound
		}
		return nil, fmt.Errorf("collect updated project %d: %w", project.ID, err)
	}

	return updated, nil
}

func (r *Repo) Delete(ctx context.Context, id int64) error {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.project.delete")
	defer span.End()

	tag, err := r.db.Exec(
		ctx,
		`DELETE FROM project WHERE id = $1;`,
		id,
	)
	if err != nil {
		return fmt.Errorf("delete project %d: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return ErrProjectNotFound
	}
	return nil
}

// List returns all projects, newest first.
func (r *Repo) List(ctx context.Context) ([]Project, error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.project.list")
	defer span.End()

	rows, err := r.db.Query(
		ctx,
		`SELECT `+projectColumns+` FROM project ORDER BY created_at DESC, id DESC;`,
	)
	if err != nil {
		return nil, fmt.Errorf("list projects: %w", err)
	}

	projects, err := pgx.CollectRows(rows, pgx.RowToStructByName[Project])
	if err != nil {
		return nil, fmt.Errorf("collect projects: %w", err)
	}

	return projects, nil
}
