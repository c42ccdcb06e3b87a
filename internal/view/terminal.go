package view

import (
	"fmt"
	"io"
	"strings"
	"sync"
	"text/tabwriter"

	"github.com/mmynk/fundkeeper/internal/models"
)

const logTimeLayout = "2006-01-02 15:04:05"

// Terminal renders states as plain text tables.
type Terminal struct {
	mu sync.Mutex
	w  io.Writer
}

// Ensure Terminal implements Sink
var _ Sink = (*Terminal)(nil)

// NewTerminal creates a renderer writing to w.
func NewTerminal(w io.Writer) *Terminal {
	return &Terminal{w: w}
}

func (t *Terminal) ShowLoading() {
	t.mu.Lock()
	defer t.mu.Unlock()
	fmt.Fprintln(t.w, "Loading...")
}

func (t *Terminal) ShowError(msg string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	fmt.Fprintf(t.w, "error: %s\n", msg)
}

func (t *Terminal) Render(s State) {
	t.mu.Lock()
	defer t.mu.Unlock()

	rule := "="
	if s.Theme == ThemeDark {
		rule = "#"
	}
	fmt.Fprintf(t.w, "%s fundkeeper %s\n", strings.Repeat(rule, 3), strings.Repeat(rule, 3))

	switch s.Status {
	case StatusAuthorized:
		fmt.Fprintf(t.w, "Signed in as %s (%s)\n", s.UserName, s.Role)
	case StatusRejected:
		fmt.Fprintln(t.w, "Your request to join the fund was rejected.")
		if s.CanResend {
			fmt.Fprintln(t.w, "You may send the request again.")
		}
		return
	case StatusAwaitingApproval:
		fmt.Fprintln(t.w, "Waiting for an admin to approve your request.")
		return
	case StatusProfileError:
		fmt.Fprintln(t.w, "Your profile could not be loaded.")
		return
	default:
		fmt.Fprintln(t.w, "Not signed in.")
		return
	}

	for _, c := range s.Unavailable {
		fmt.Fprintf(t.w, "warning: %s are unavailable\n", c)
	}

	fmt.Fprintf(t.w, "Total fund: %s  Spent: %s  Balance: %s\n\n",
		FormatMoney(s.Currency, s.Totals.TotalFund),
		FormatMoney(s.Currency, s.Totals.TotalSpent),
		FormatMoney(s.Currency, s.Totals.Balance),
	)

	tw := tabwriter.NewWriter(t.w, 0, 4, 2, ' ', 0)

	fmt.Fprintln(tw, "CONTRIBUTOR\tAMOUNT\tID")
	contributors := append([]models.Contributor(nil), s.Contributors...)
	SortContributors(contributors)
	for _, c := range contributors {
		fmt.Fprintf(tw, "%s\t%s\t%s\n", c.Name, FormatMoney(s.Currency, c.Amount), c.ID)
	}
	fmt.Fprintln(tw)

	fmt.Fprintln(tw, "DATE\tDESCRIPTION\tSPENDER\tAMOUNT\tID")
	for _, e := range s.Expenses {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n", e.Date, e.Desc, e.Spender, FormatMoney(s.Currency, e.Amount), e.ID)
	}
	fmt.Fprintln(tw)

	if len(s.Members) > 0 {
		fmt.Fprintln(tw, "NAME\tCONTRIBUTED\tSPENT")
		for _, m := range s.Members {
			fmt.Fprintf(tw, "%s\t%s\t%s\n", m.Name, FormatMoney(s.Currency, m.Contributed), FormatMoney(s.Currency, m.Spent))
		}
		fmt.Fprintln(tw)
	}

	fmt.Fprintln(tw, "TIME\tACTIVITY")
	for _, l := range s.Logs {
		fmt.Fprintf(tw, "%s\t%s\n", l.Timestamp.Local().Format(logTimeLayout), l.Message)
	}
	tw.Flush()
}
