package dto

import (
	"github.com/opsdeck/ticketing-service/internal/domain"
	"github.com/opsdeck/ticketing-service/internal/repository"
	"github.com/opsdeck/ticketing-service/internal/service"
)

// AdminSidebarResponse carries the admin sidebar counters.
type AdminSidebarResponse struct {
	TotalTickets    int64 `json:"totalTickets"`
	CreatedToday    int64 `json:"createdToday"`
	ResolvedToday   int64 `json:"resolvedToday"`
	Pending         int64 `json:"pending"`
	NeedsAssignment int64 `json:"needsAssignment"`
}

// UserSidebarResponse carries the user-scoped sidebar counters.
type UserSidebarResponse struct {
	TotalAssigned int64 `json:"totalAssigned"`
	CreatedToday  int64 `json:"createdToday"`
	Resolved      int64 `json:"resolved"`
	Pending       int64 `json:"pending"`
}

// UserStatsResponse summarizes the caller's workload.
type UserStatsResponse struct {
	TotalPending  int64 `json:"totalPending"`
	TotalResolved int64 `json:"totalResolved"`
	ResolvedToday int64 `json:"resolvedToday"`
}

// TicketsPerUserEntry is one row of the per-assignee resolved report.
type TicketsPerUserEntry struct {
	Username string `json:"username"`
	Count    int64  `json:"count"`
}

// StatusBreakdownEntry is one slice of the status breakdown.
type StatusBreakdownEntry struct {
	Name  domain.TicketStatus `json:"name"`
	Value int64               `json:"value"`
}

// AdminSummaryResponse aggregates resolution performance system-wide.
type AdminSummaryResponse struct {
	TicketsPerUser  []TicketsPerUserEntry  `json:"ticketsPerUser"`
	StatusBreakdown []StatusBreakdownEntry `json:"statusBreakdown"`
}

// AdminKPIsResponse carries point-in-time workload indicators.
type AdminKPIsResponse struct {
	OpenTickets      int64 `json:"openTickets"`
	EscalatedTickets int64 `json:"escalatedTickets"`
	AssignedTickets  int64 `json:"assignedTickets"`
	ResolvedToday    int64 `json:"resolvedToday"`
}

// NewAdminSidebarResponse maps service stats.
func NewAdminSidebarResponse(stats *service.AdminSidebarStats) AdminSidebarResponse {
	return AdminSidebarResponse{
		TotalTickets:    stats.TotalTickets,
		CreatedToday:    stats.CreatedToday,
		ResolvedToday:   stats.ResolvedToday,
		Pending:         stats.Pending,
		NeedsAssignment: stats.NeedsAssignment,
	}
}

// NewUserSidebarResponse maps service stats.
func NewUserSidebarResponse(stats *service.UserSidebarStats) UserSidebarResponse {
	return UserSidebarResponse{
		TotalAssigned: stats.TotalAssigned,
		CreatedToday:  stats.CreatedToday,
		Resolved:      stats.Resolved,
		Pending:       stats.Pending,
	}
}

// NewUserStatsResponse maps service stats.
func NewUserStatsResponse(stats *service.UserStats) UserStatsResponse {
	return UserStatsResponse{
		TotalPending:  stats.TotalPending,
		TotalResolved: stats.TotalResolved,
		ResolvedToday: stats.ResolvedToday,
	}
}

// NewAdminSummaryResponse maps the admin summary.
func NewAdminSummaryResponse(summary *service.AdminSummary) AdminSummaryResponse {
	perUser := make([]TicketsPerUserEntry, 0, len(summary.TicketsPerUser))
	for _, row := range summary.TicketsPerUser {
		perUser = append(perUser, ticketsPerUserEntry(row))
	}
	breakdown := make([]StatusBreakdownEntry, 0, len(summary.StatusBreakdown))
	for _, slice := range summary.StatusBreakdown {
		breakdown = append(breakdown, StatusBreakdownEntry{Name: slice.Name, Value: slice.Value})
	}
	return AdminSummaryResponse{TicketsPerUser: perUser, StatusBreakdown: breakdown}
}

// NewAdminKPIsResponse maps the KPI report.
func NewAdminKPIsResponse(kpis *service.AdminKPIs) AdminKPIsResponse {
	return AdminKPIsResponse{
		OpenTickets:      kpis.OpenTickets,
		EscalatedTickets: kpis.EscalatedTickets,
		AssignedTickets:  kpis.AssignedTickets,
		ResolvedToday:    kpis.ResolvedToday,
	}
}

func ticketsPerUserEntry(row repository.AssigneeResolvedCount) TicketsPerUserEntry {
	return TicketsPerUserEntry{Username: row.Username, Count: row.Count}
}
