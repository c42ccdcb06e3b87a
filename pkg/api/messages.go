// Package api holds the wire messages of the fundkeeper document service.
//
// Messages travel as JSON. Amounts are decimal strings so no precision is
// lost between client and server.
package api

import "time"

type User struct {
	ID          string `json:"id"`
	DisplayName string `json:"displayName,omitempty"`
	Email       string `json:"email,omitempty"`
	Role        string `json:"role"`
	Status      string `json:"status"`
}

type Contributor struct {
	ID        string `json:"id,omitempty"`
	Name      string `json:"name"`
	Amount    string `json:"amount"`
	CreatedBy string `json:"createdBy,omitempty"`
}

type Expense struct {
	ID        string `json:"id,omitempty"`
	Date      string `json:"date"`
	Desc      string `json:"desc"`
	Spender   string `json:"spender,omitempty"`
	Amount    string `json:"amount"`
	CreatedBy string `json:"createdBy,omitempty"`
}

type LogEntry struct {
	ID        string    `json:"id"`
	Message   string    `json:"message"`
	Timestamp time.Time `json:"timestamp"`
}

type GetUserRequest struct {
	ID string `json:"id"`
}

type GetUserResponse struct {
	User *User `json:"user"`
}

type SetUserRequest struct {
	User *User `json:"user"`
}

type SetUserResponse struct{}

type UpdateUserStatusRequest struct {
	ID     string `json:"id"`
	Status string `json:"status"`
}

type UpdateUserStatusResponse struct{}

type ListUsersRequest struct {
	Status string `json:"status"`
}

type ListUsersResponse struct {
	Users []*User `json:"users"`
}

type CreateContributorRequest struct {
	Contributor *Contributor `json:"contributor"`
}

type CreateContributorResponse struct {
	Contributor *Contributor `json:"contributor"`
}

type UpdateContributorRequest struct {
	Contributor *Contributor `json:"contributor"`
}

type UpdateContributorResponse struct{}

type DeleteContributorRequest struct {
	ID string `json:"id"`
}

type DeleteContributorResponse struct{}

type CreateExpenseRequest struct {
	Expense *Expense `json:"expense"`
}

type CreateExpenseResponse struct {
	Expense *Expense `json:"expense"`
}

type UpdateExpenseRequest struct {
	Expense *Expense `json:"expense"`
}

type UpdateExpenseResponse struct{}

type DeleteExpenseRequest struct {
	ID string `json:"id"`
}

type DeleteExpenseResponse struct{}

type AppendLogRequest struct {
	Message string `json:"message"`
}

type AppendLogResponse struct {
	Entry *LogEntry `json:"entry"`
}

// SubscribeRequest opens a live query. OrderBy is optional.
type SubscribeRequest struct {
	Collection string `json:"collection"`
	OrderBy    string `json:"orderBy,omitempty"`
}

// SubscribeResponse is one full snapshot of the queried collection.
type SubscribeResponse struct {
	Collection   string         `json:"collection"`
	Users        []*User        `json:"users,omitempty"`
	Contributors []*Contributor `json:"contributors,omitempty"`
	Expenses     []*Expense     `json:"expenses,omitempty"`
	Logs         []*LogEntry    `json:"logs,omitempty"`
}
