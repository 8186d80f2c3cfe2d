package contact

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/2beens/portfolio/internal/telemetry/tracing"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

var ErrMessageNotFound = errors.New("message not found")

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

func (r *Repo) Add(ctx context.Context, message *Message) (*Message, error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.contact.add")
	defer span.End()

	rows, err := r.db.Query(
		ctx,
		`INSERT INTO contact_message (name, email, message, created_at)
			VALUES ($1, $2, $3, $4)
			RETURNING id, name, email, message, created_at;`,
		message.Name, message.Email, message.Message, r.now(),
	)
	if err != nil {
		return nil, fmt.Errorf("insert message: %w", err)
	}

	added, err := pgx.CollectExactlyOneRow(rows, pgx.RowToAddrOfStructByName[Message])
	if err != nil {
		return nil, fmt.Errorf("collect added message: %w", err)
	}

	return added, nil
}

// List returns all messages, newest first.
func (r *Repo) List(ctx context.Context) ([]Message, error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.contact.list")
	defer span.End()

	rows, err := r.db.Query(
		ctx,
		`SELECT id, name, email, message, created_at
			FROM contact_message
			ORDER BY created_at DESC, id DESC;`,
	)
	if err != nil {
		return nil, fmt.Errorf("list messages: %w", err)
	}

	messages, err := pgx.CollectRows(rows, pgx.RowToStructByName[Message])
	if err != nil {
		return nil, fmt.Errorf("collect messages: %w", err)
	}

	return messages, nil
}

func (r *Repo) Delete(ctx context.Context, id int64) error {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.contact.delete")
	defer span.End()

	tag, err := r.db.Exec(ctx, `DELETE FROM contact_message WHERE id = $1;`, id)
	if err != nil {
		return fmt.Errorf("delete message %d: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return ErrMessageNotFound
	}
	return nil
}

func (r *Repo) DeleteAll(ctx context.Context) (int64, error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.contact.deleteAll")
	defer span.End()

	tag, err := r.db.Exec(ctx, `DELETE FROM contact_message;`)
	if err != nil {
		return 0, fmt.Errorf("delete all messages: %w", err)
	}
	return tag.RowsAffected(), nil
}
