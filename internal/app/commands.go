package app

// Command is an action requested by the presentation layer.
type Command interface {
	commandName() string
}

// AddFund records a contribution.
type AddFund struct {
	Name   string
	Amount string
}

// AddExpense records money spent from the fund.
type AddExpense struct {
	Date    string
	Desc    string
	Spender string
	Amount  string
}

// SaveContributor edits a contribution.
type SaveContributor struct {
	ID     string
	Name   string
	Amount string
}

// DeleteContributor removes a contribution. Confirmation is the sink's job.
type DeleteContributor struct {
	ID string
}

// SaveExpense edits an expense. An empty Spender keeps the recorded one.
type SaveExpense struct {
	ID      string
	Date    string
	Desc    string
	Spender string
	Amount  string
}

// DeleteExpense removes an expense.
type DeleteExpense struct {
	ID string
}

// ApproveUser grants a pending user access.
type ApproveUser struct {
	UID string
}

// RejectUser turns down a pending request.
type RejectUser struct {
	UID string
}

// KickUser removes a member from the fund.
type KickUser struct {
	UID string
}

// ResendRequest asks the admins to reconsider a rejected request.
type ResendRequest struct{}

// ToggleTheme flips between the light and dark theme.
type ToggleTheme struct{}

func (AddFund) commandName() string           { return "add-fund" }
func (AddExpense) commandName() string        { return "add-expense" }
func (SaveContributor) commandName() string   { return "save-contributor" }
func (DeleteContributor) commandName() string { return "delete-contributor" }
func (SaveExpense) commandName() string       { return "save-expense" }
func (DeleteExpense) commandName() string     { return "delete-expense" }
func (ApproveUser) commandName() string       { return "approve-user" }
func (RejectUser) commandName() string        { return "reject-user" }
func (KickUser) commandName() string          { return "kick-user" }
func (ResendRequest) commandName() string     { return "resend-request" }
func (ToggleTheme) commandName() string       { return "toggle-theme" }
