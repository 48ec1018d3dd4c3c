/*
dto.go - Data Transfer Objects for API requests and responses

PURPOSE:
  Defines the JSON structures for API communication. These types decouple
  the internal domain model from the external API contract, allowing field
  renaming without breaking clients and API-specific shaping (e.g. null
  ids for the sentinel buckets).

NAMING CONVENTION:
  - *DTO: Response types returned to clients
  - *Request: Request body types from clients

SEE ALSO:
  - handlers.go: Uses these types
  - insights/types.go: The internal row types these mirror
*/
package api

import (
	"github.com/sybrisoft/toggl-insights/insights"
)

// =============================================================================
// AUTH
// =============================================================================

type LoginRequest struct {
	Password string `json:"password"`
}

type LoginResponse struct {
	Token string `json:"token"`
}

// =============================================================================
// ROLLUPS
// =============================================================================

// SummaryDTO mirrors insights.Summary.
type SummaryDTO struct {
	TotalUsers    int     `json:"totalUsers"`
	TotalProjects int     `json:"totalProjects"`
	TotalClients  int     `json:"totalClients"`
	TotalHours    float64 `json:"totalHours"`
	TotalEntries  int     `json:"totalEntries"`
}

// ClientRollupDTO is one by-client row. ClientID is null for the sentinel
// "No Client" bucket.
type ClientRollupDTO struct {
	ClientName string  `json:"clientName"`
	ClientID   *string `json:"clientId"`
	TotalHours float64 `json:"totalHours"`
	EntryCount int     `json:"entryCount"`
}

// ClientBudgetDTO is a by-client row decorated with its configured budget.
type ClientBudgetDTO struct {
	ClientRollupDTO
	LimitHours   float64  `json:"limitHours"`
	Fulfillment  *float64 `json:"fulfillment"`
	Band         string   `json:"band"`
	ShareOfTotal float64  `json:"shareOfTotal"`
}

// ProjectRollupDTO is one by-project row.
type ProjectRollupDTO struct {
	ProjectName string  `json:"projectName"`
	ProjectID   *string `json:"projectId"`
	ClientName  string  `json:"clientName"`
	TotalHours  float64 `json:"totalHours"`
	EntryCount  int     `json:"entryCount"`
}

// UserRollupDTO is one by-user row.
type UserRollupDTO struct {
	UserName   string  `json:"userName"`
	UserID     string  `json:"userId"`
	TotalHours float64 `json:"totalHours"`
	EntryCount int     `json:"entryCount"`
}

// ProjectWithUsersDTO is the nested project->user breakdown.
type ProjectWithUsersDTO struct {
	ProjectName string           `json:"projectName"`
	ProjectID   *string          `json:"projectId"`
	ClientName  string           `json:"clientName"`
	ClientID    *string          `json:"clientId"`
	TotalHours  float64          `json:"totalHours"`
	Users       []ProjectUserDTO `json:"users"`
}

type ProjectUserDTO struct {
	UserName   string  `json:"userName"`
	UserID     string  `json:"userId"`
	Hours      float64 `json:"hours"`
	EntryCount int     `json:"entryCount"`
}

// ClientDTO is one row of the client directory.
type ClientDTO struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Archived bool   `json:"archived"`
}

// OverviewDTO bundles all views plus the resolved range.
type OverviewDTO struct {
	Start    string             `json:"start"`
	End      string             `json:"end"`
	Label    string             `json:"label"`
	Summary  SummaryDTO         `json:"summary"`
	Clients  []ClientRollupDTO  `json:"clients"`
	Projects []ProjectRollupDTO `json:"projects"`
	Users    []UserRollupDTO    `json:"users"`
}

// =============================================================================
// BUDGETS
// =============================================================================

// SaveBudgetRequest updates one client's monthly limit.
type SaveBudgetRequest struct {
	ClientName string  `json:"clientName"`
	LimitHours float64 `json:"limitHours"`
}

// ErrorResponse is the standard error response.
type ErrorResponse struct {
	Error   string `json:"error"`
	Details any    `json:"details,omitempty"`
}

// =============================================================================
// CONVERSION HELPERS
// =============================================================================

// keyID converts a grouping key to a nullable wire id: the sentinel bucket
// serializes as null, never as an empty string.
func keyID(key insights.GroupKey) *string {
	if !key.Assigned {
		return nil
	}
	id := key.ID
	return &id
}

func toSummaryDTO(s insights.Summary) SummaryDTO {
	return SummaryDTO{
		TotalUsers:    s.TotalUsers,
		TotalProjects: s.TotalProjects,
		TotalClients:  s.TotalClients,
		TotalHours:    s.TotalHours,
		TotalEntries:  s.TotalEntries,
	}
}

func toClientRollupDTO(row insights.ClientRollup) ClientRollupDTO {
	return ClientRollupDTO{
		ClientName: row.ClientName,
		ClientID:   keyID(row.Key),
		TotalHours: row.TotalHours,
		EntryCount: row.EntryCount,
	}
}

func toClientRollupDTOs(rows []insights.ClientRollup) []ClientRollupDTO {
	dtos := make([]ClientRollupDTO, len(rows))
	for i, row := range rows {
		dtos[i] = toClientRollupDTO(row)
	}
	return dtos
}

func toProjectRollupDTOs(rows []insights.ProjectRollup) []ProjectRollupDTO {
	dtos := make([]ProjectRollupDTO, len(rows))
	for i, row := range rows {
		dtos[i] = ProjectRollupDTO{
			ProjectName: row.ProjectName,
			ProjectID:   keyID(row.Key),
			ClientName:  row.ClientName,
			TotalHours:  row.TotalHours,
			EntryCount:  row.EntryCount,
		}
	}
	return dtos
}

func toUserRollupDTOs(rows []insights.UserRollup) []UserRollupDTO {
	dtos := make([]UserRollupDTO, len(rows))
	for i, row := range rows {
		dtos[i] = UserRollupDTO{
			UserName:   row.UserName,
			UserID:     string(row.UserID),
			TotalHours: row.TotalHours,
			EntryCount: row.EntryCount,
		}
	}
	return dtos
}

func toProjectWithUsersDTOs(rows []insights.ProjectWithUsers) []ProjectWithUsersDTO {
	dtos := make([]ProjectWithUsersDTO, len(rows))
	for i, row := range rows {
		users := make([]ProjectUserDTO, len(row.Users))
		for j, u := range row.Users {
			users[j] = ProjectUserDTO{
				UserName:   u.UserName,
				UserID:     string(u.UserID),
				Hours:      u.Hours,
				EntryCount: u.EntryCount,
			}
		}
		dtos[i] = ProjectWithUsersDTO{
			ProjectName: row.ProjectName,
			ProjectID:   keyID(row.Key),
			ClientName:  row.ClientName,
			ClientID:    keyID(row.Client),
			TotalHours:  row.TotalHours,
			Users:       users,
		}
	}
	return dtos
}

func toClientBudgetDTOs(rows []insights.ClientBudgetRollup) []ClientBudgetDTO {
	dtos := make([]ClientBudgetDTO, len(rows))
	for i, row := range rows {
		dtos[i] = ClientBudgetDTO{
			ClientRollupDTO: toClientRollupDTO(row.ClientRollup),
			LimitHours:      row.LimitHours,
			Fulfillment:     row.Fulfillment,
			Band:            string(row.Band),
			ShareOfTotal:    row.ShareOfTotal,
		}
	}
	return dtos
}

func toClientDTOs(clients []insights.Client) []ClientDTO {
	dtos := make([]ClientDTO, len(clients))
	for i, c := range clients {
		dtos[i] = ClientDTO{ID: string(c.ID), Name: c.Name, Archived: c.Archived}
	}
	return dtos
}
