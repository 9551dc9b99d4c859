package service

import (
	"context"
	"time"

	"github.com/opsdeck/ticketing-service/internal/domain"
	"github.com/opsdeck/ticketing-service/internal/repository"
)

// ReportService computes read-only statistical views over the ticket
// collection. Every figure is computed fresh at query time; each count is
// its own atomic read, with no snapshot isolation across the counts that
// compose one report.
type ReportService struct {
	tickets repository.TicketRepository
	now     func() time.Time
}

// NewReportService constructs the service.
func NewReportService(tickets repository.TicketRepository) *ReportService {
	return &ReportService{tickets: tickets, now: time.Now}
}

// AdminSidebarStats are the live counters for the admin UI shell.
type AdminSidebarStats struct {
	TotalTickets    int64
	CreatedToday    int64
	ResolvedToday   int64
	Pending         int64
	NeedsAssignment int64
}

// UserSidebarStats are the live counters scoped to one assignee.
type UserSidebarStats struct {
	TotalAssigned int64
	CreatedToday  int64
	Resolved      int64
	Pending       int64
}

// UserStats summarizes the caller's workload.
type UserStats struct {
	TotalPending  int64
	TotalResolved int64
	ResolvedToday int64
}

// StatusCount is one slice of the status breakdown.
type StatusCount struct {
	Name  domain.TicketStatus
	Value int64
}

// AdminSummary aggregates resolution performance system-wide.
type AdminSummary struct {
	TicketsPerUser  []repository.AssigneeResolvedCount
	StatusBreakdown []StatusCount
}

// AdminKPIs are point-in-time workload indicators.
type AdminKPIs struct {
	OpenTickets      int64
	EscalatedTickets int64
	AssignedTickets  int64
	ResolvedToday    int64
}

var pendingStatuses = []domain.TicketStatus{domain.TicketStatusAssigned, domain.TicketStatusEscalated}

// AdminSidebar computes the admin view of the sidebar counters.
func (s *ReportService) AdminSidebar(ctx context.Context) (*AdminSidebarStats, error) {
	todayStart, todayEnd := s.todayWindow()

	total, err := s.tickets.Count(ctx, repository.TicketCountFilter{})
	if err != nil {
		return nil, err
	}
	createdToday, err := s.tickets.Count(ctx, repository.TicketCountFilter{
		CreatedFrom: &todayStart, CreatedTo: &todayEnd,
	})
	if err != nil {
		return nil, err
	}
	resolvedToday, err := s.tickets.Count(ctx, repository.TicketCountFilter{
		Statuses:     []domain.TicketStatus{domain.TicketStatusResolved},
		ResolvedFrom: &todayStart, ResolvedTo: &todayEnd,
	})
	if err != nil {
		return nil, err
	}
	pending, err := s.tickets.Count(ctx, repository.TicketCountFilter{Statuses: pendingStatuses})
	if err != nil {
		return nil, err
	}
	needsAssignment, err := s.tickets.Count(ctx, repository.TicketCountFilter{
		Statuses: []domain.TicketStatus{domain.TicketStatusOpen},
	})
	if err != nil {
		return nil, err
	}

	return &AdminSidebarStats{
		TotalTickets:    total,
		CreatedToday:    createdToday,
		ResolvedToday:   resolvedToday,
		Pending:         pending,
		NeedsAssignment: needsAssignment,
	}, nil
}

// UserSidebar computes the sidebar counters scoped to one assignee.
func (s *ReportService) UserSidebar(ctx context.Context, userID string) (*UserSidebarStats, error) {
	todayStart, todayEnd := s.todayWindow()

	totalAssigned, err := s.tickets.Count(ctx, repository.TicketCountFilter{AssigneeID: &userID})
	if err != nil {
		return nil, err
	}
	createdToday, err := s.tickets.Count(ctx, repository.TicketCountFilter{
		AssigneeID:  &userID,
		CreatedFrom: &todayStart, CreatedTo: &todayEnd,
	})
	if err != nil {
		return nil, err
	}
	resolved, err := s.tickets.Count(ctx, repository.TicketCountFilter{
		AssigneeID: &userID,
		Statuses:   []domain.TicketStatus{domain.TicketStatusResolved},
	})
	if err != nil {
		return nil, err
	}
	pending, err := s.tickets.Count(ctx, repository.TicketCountFilter{
		AssigneeID: &userID,
		Statuses:   pendingStatuses,
	})
	if err != nil {
		return nil, err
	}

	return &UserSidebarStats{
		TotalAssigned: totalAssigned,
		CreatedToday:  createdToday,
		Resolved:      resolved,
		Pending:       pending,
	}, nil
}

// Stats computes the logged-in user's workload summary.
func (s *ReportService) Stats(ctx context.Context, userID string) (*UserStats, error) {
	todayStart, todayEnd := s.todayWindow()

	totalPending, err := s.tickets.Count(ctx, repository.TicketCountFilter{
		AssigneeID: &userID,
		Statuses:   pendingStatuses,
	})
	if err != nil {
		return nil, err
	}
	totalResolved, err := s.tickets.Count(ctx, repository.TicketCountFilter{
		AssigneeID: &userID,
		Statuses:   []domain.TicketStatus{domain.TicketStatusResolved},
	})
	if err != nil {
		return nil, err
	}
	resolvedToday, err := s.tickets.Count(ctx, repository.TicketCountFilter{
		AssigneeID:   &userID,
		Statuses:     []domain.TicketStatus{domain.TicketStatusResolved},
		ResolvedFrom: &todayStart, ResolvedTo: &todayEnd,
	})
	if err != nil {
		return nil, err
	}

	return &UserStats{
		TotalPending:  totalPending,
		TotalResolved: totalResolved,
		ResolvedToday: resolvedToday,
	}, nil
}

// Summary computes the system-wide admin report: per-assignee resolved
// counts plus a status breakdown zero-filled for every known status.
func (s *ReportService) Summary(ctx context.Context) (*AdminSummary, error) {
	perUser, err := s.tickets.ResolvedCountsByAssignee(ctx)
	if err != nil {
		return nil, err
	}
	if perUser == nil {
		perUser = []repository.AssigneeResolvedCount{}
	}

	counts, err := s.tickets.CountsByStatus(ctx)
	if err != nil {
		return nil, err
	}
	breakdown := make([]StatusCount, 0, len(domain.AllTicketStatuses))
	for _, status := range domain.AllTicketStatuses {
		breakdown = append(breakdown, StatusCount{Name: status, Value: counts[status]})
	}

	return &AdminSummary{TicketsPerUser: perUser, StatusBreakdown: breakdown}, nil
}

// KPIs computes point-in-time workload indicators for the admin dashboard.
func (s *ReportService) KPIs(ctx context.Context) (*AdminKPIs, error) {
	todayStart, todayEnd := s.todayWindow()

	open, err := s.tickets.Count(ctx, repository.TicketCountFilter{
		Statuses: []domain.TicketStatus{domain.TicketStatusOpen},
	})
	if err != nil {
		return nil, err
	}
	escalated, err := s.tickets.Count(ctx, repository.TicketCountFilter{
		Statuses: []domain.TicketStatus{domain.TicketStatusEscalated},
	})
	if err != nil {
		return nil, err
	}
	assigned, err := s.tickets.Count(ctx, repository.TicketCountFilter{
		Statuses: []domain.TicketStatus{domain.TicketStatusAssigned},
	})
	if err != nil {
		return nil, err
	}
	resolvedToday, err := s.tickets.Count(ctx, repository.TicketCountFilter{
		Statuses:     []domain.TicketStatus{domain.TicketStatusResolved},
		ResolvedFrom: &todayStart, ResolvedTo: &todayEnd,
	})
	if err != nil {
		return nil, err
	}

	return &AdminKPIs{
		OpenTickets:      open,
		EscalatedTickets: escalated,
		AssignedTickets:  assigned,
		ResolvedToday:    resolvedToday,
	}, nil
}

// todayWindow returns the half-open interval [local midnight, +24h) in
// server-local time.
func (s *ReportService) todayWindow() (time.Time, time.Time) {
	now := s.now()
	start := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	return start, start.Add(24 * time.Hour)
}
