package repository

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/opsdeck/ticketing-service/internal/domain"
)

// TicketCountFilter narrows a count query. Every count executes as a single
// atomic read; composite reports issue one count per figure with no snapshot
// isolation across them.
type TicketCountFilter struct {
	AssigneeID   *string
	Statuses     []domain.TicketStatus
	CreatedFrom  *time.Time
	CreatedTo    *time.Time
	ResolvedFrom *time.Time
	ResolvedTo   *time.Time
}

// AssigneeResolvedCount is one row of the per-assignee resolved report.
type AssigneeResolvedCount struct {
	Username string
	Count    int64
}

// TicketRepository encapsulates ticket persistence.
type TicketRepository interface {
	Create(ctx context.Context, ticket *domain.Ticket) error
	Update(ctx context.Context, ticket *domain.Ticket) error
	GetByID(ctx context.Context, id string) (*domain.Ticket, error)
	ListAll(ctx context.Context) ([]domain.Ticket, error)
	ListByAssignee(ctx context.Context, userID string) ([]domain.Ticket, error)
	Delete(ctx context.Context, id string) error
	DeleteByLocation(ctx context.Context, locationID string) (int64, error)
	DetachAssignee(ctx context.Context, userID string) (int64, error)
	Count(ctx context.Context, filter TicketCountFilter) (int64, error)
	CountsByStatus(ctx context.Context) (map[domain.TicketStatus]int64, error)
	ResolvedCountsByAssignee(ctx context.Context) ([]AssigneeResolvedCount, error)
}

type ticketRepository struct {
	pool *pgxpool.Pool
}

// NewTicketRepository instantiates repository.
func NewTicketRepository(pool *pgxpool.Pool) TicketRepository {
	return &ticketRepository{pool: pool}
}

func (r *ticketRepository) Create(ctx context.Context, ticket *domain.Ticket) error {
	const query = `
        INSERT INTO tickets (title, description, location_id, priority, status)
        VALUES ($1,$2,$3,$4,$5)
        RETURNING id, created_at, updated_at`
	return r.pool.QueryRow(ctx, query,
		ticket.Title,
		ticket.Description,
		ticket.LocationID,
		ticket.Priority,
		ticket.Status,
	).Scan(&ticket.ID, &ticket.CreatedAt, &ticket.UpdatedAt)
}

func (r *ticketRepository) Update(ctx context.Context, ticket *domain.Ticket) error {
	const query = `
        UPDATE tickets SET title=$1, description=$2, priority=$3, status=$4,
            assigned_to=$5, assigned_at=$6, resolved_at=$7, time_taken_minutes=$8,
            resolution_comment=$9, escalation_comment=$10, updated_at=NOW()
        WHERE id=$11`
	cmd, err := r.pool.Exec(ctx, query,
		ticket.Title,
		ticket.Description,
		ticket.Priority,
		ticket.Status,
		ticket.AssignedTo,
		ticket.AssignedAt,
		ticket.ResolvedAt,
		ticket.TimeTakenInMinutes,
		ticket.ResolutionComment,
		ticket.EscalationComment,
		ticket.ID,
	)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *ticketRepository) GetByID(ctx context.Context, id string) (*domain.Ticket, error) {
	const query = `
        SELECT id, title, description, location_id, priority, status, assigned_to,
               assigned_at, resolved_at, time_taken_minutes, resolution_comment,
               escalation_comment, created_at, updated_at
        FROM tickets WHERE id=$1`
	var ticket domain.Ticket
	if err := r.pool.QueryRow(ctx, query, id).Scan(
		&ticket.ID,
		&ticket.Title,
		&ticket.Description,
		&ticket.LocationID,
		&ticket.Priority,
		&ticket.Status,
		&ticket.AssignedTo,
		&ticket.AssignedAt,
		&ticket.ResolvedAt,
		&ticket.TimeTakenInMinutes,
		&ticket.ResolutionComment,
		&ticket.EscalationComment,
		&ticket.CreatedAt,
		&ticket.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &ticket, nil
}

func (r *ticketRepository) ListAll(ctx context.Context) ([]domain.Ticket, error) {
	const query = `
        SELECT t.id, t.title, t.description, t.location_id, t.priority, t.status,
               t.assigned_to, t.assigned_at, t.resolved_at, t.time_taken_minutes,
               t.resolution_comment, t.escalation_comment, t.created_at, t.updated_at,
               l.name, l.ip_address, u.username
        FROM tickets t
        JOIN locations l ON l.id = t.location_id
        LEFT JOIN users u ON u.id = t.assigned_to
        ORDER BY t.created_at DESC`
	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanJoinedTickets(rows)
}

func (r *ticketRepository) ListByAssignee(ctx context.Context, userID string) ([]domain.Ticket, error) {
	const query = `
        SELECT t.id, t.title, t.description, t.location_id, t.priority, t.status,
               t.assigned_to, t.assigned_at, t.resolved_at, t.time_taken_minutes,
               t.resolution_comment, t.escalation_comment, t.created_at, t.updated_at,
               l.name, l.ip_address, u.username
        FROM tickets t
        JOIN locations l ON l.id = t.location_id
        LEFT JOIN users u ON u.id = t.assigned_to
        WHERE t.assigned_to=$1
        ORDER BY t.created_at DESC`
	rows, err := r.pool.Query(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanJoinedTickets(rows)
}

func (r *ticketRepository) Delete(ctx context.Context, id string) error {
	cmd, err := r.pool.Exec(ctx, `DELETE FROM tickets WHERE id=$1`, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

// DeleteByLocation removes every ticket owned by the location. Zero affected
// rows is a valid outcome, which keeps the cascade step idempotent.
func (r *ticketRepository) DeleteByLocation(ctx context.Context, locationID string) (int64, error) {
	cmd, err := r.pool.Exec(ctx, `DELETE FROM tickets WHERE location_id=$1`, locationID)
	if err != nil {
		return 0, err
	}
	return cmd.RowsAffected(), nil
}

// DetachAssignee resets every ticket assigned to the user back to Open. The
// statement is idempotent: a retry after partial failure affects no rows.
func (r *ticketRepository) DetachAssignee(ctx context.Context, userID string) (int64, error) {
	const query = `
        UPDATE tickets
        SET status=$1, assigned_to=NULL, assigned_at=NULL, updated_at=NOW()
        WHERE assigned_to=$2`
	cmd, err := r.pool.Exec(ctx, query, domain.TicketStatusOpen, userID)
	if err != nil {
		return 0, err
	}
	return cmd.RowsAffected(), nil
}

func (r *ticketRepository) Count(ctx context.Context, filter TicketCountFilter) (int64, error) {
	clauses := []string{"1=1"}
	args := []any{}

	if filter.AssigneeID != nil {
		args = append(args, *filter.AssigneeID)
		clauses = append(clauses, fmt.Sprintf("assigned_to=$%d", len(args)))
	}
	if len(filter.Statuses) > 0 {
		placeholders := make([]string, len(filter.Statuses))
		for i, status := range filter.Statuses {
			args = append(args, status)
			placeholders[i] = fmt.Sprintf("$%d", len(args))
		}
		clauses = append(clauses, fmt.Sprintf("status IN (%s)", strings.Join(placeholders, ",")))
	}
	if filter.CreatedFrom != nil {
		args = append(args, *filter.CreatedFrom)
		clauses = append(clauses, fmt.Sprintf("created_at >= $%d", len(args)))
	}
	if filter.CreatedTo != nil {
		args = append(args, *filter.CreatedTo)
		clauses = append(clauses, fmt.Sprintf("created_at < $%d", len(args)))
	}
	if filter.ResolvedFrom != nil {
		args = append(args, *filter.ResolvedFrom)
		clauses = append(clauses, fmt.Sprintf("resolved_at >= $%d", len(args)))
	}
	if filter.ResolvedTo != nil {
		args = append(args, *filter.ResolvedTo)
		clauses = append(clauses, fmt.Sprintf("resolved_at < $%d", len(args)))
	}

	query := fmt.Sprintf(`SELECT COUNT(*) FROM tickets WHERE %s`, strings.Join(clauses, " AND "))

	var count int64
	if err := r.pool.QueryRow(ctx, query, args...).Scan(&count); err != nil {
		return 0, err
	}
	return count, nil
}

func (r *ticketRepository) CountsByStatus(ctx context.Context) (map[domain.TicketStatus]int64, error) {
	const query = `SELECT status, COUNT(*) FROM tickets GROUP BY status`
	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	counts := make(map[domain.TicketStatus]int64)
	for rows.Next() {
		var status domain.TicketStatus
		var count int64
		if err := rows.Scan(&status, &count); err != nil {
			return nil, err
		}
		counts[status] = count
	}
	return counts, rows.Err()
}

func (r *ticketRepository) ResolvedCountsByAssignee(ctx context.Context) ([]AssigneeResolvedCount, error) {
	const query = `
        SELECT u.username, COUNT(*)
        FROM tickets t
        JOIN users u ON u.id = t.assigned_to
        WHERE t.status=$1 AND t.assigned_to IS NOT NULL
        GROUP BY u.username
        ORDER BY COUNT(*) DESC, u.username`
	rows, err := r.pool.Query(ctx, query, domain.TicketStatusResolved)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []AssigneeResolvedCount
	for rows.Next() {
		var row AssigneeResolvedCount
		if err := rows.Scan(&row.Username, &row.Count); err != nil {
			return nil, err
		}
		result = append(result, row)
	}
	return result, rows.Err()
}

func scanJoinedTickets(rows pgx.Rows) ([]domain.Ticket, error) {
	var result []domain.Ticket
	for rows.Next() {
		var ticket domain.Ticket
		if err := rows.Scan(
			&ticket.ID,
			&ticket.Title,
			&ticket.Description,
			&ticket.LocationID,
			&ticket.Priority,
			&ticket.Status,
			&ticket.AssignedTo,
			&ticket.AssignedAt,
			&ticket.ResolvedAt,
			&ticket.TimeTakenInMinutes,
			&ticket.ResolutionComment,
			&ticket.EscalationComment,
			&ticket.CreatedAt,
			&ticket.UpdatedAt,
			&ticket.LocationName,
			&ticket.LocationIP,
			&ticket.AssigneeUsername,
		); err != nil {
			return nil, err
		}
		result = append(result, ticket)
	}
	return result, rows.Err()
}
