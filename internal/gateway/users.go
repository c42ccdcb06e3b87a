package gateway

import (
	"context"
	"fmt"

	"github.com/mmynk/fundkeeper/internal/errs"
	"github.com/mmynk/fundkeeper/internal/models"
)

// ApproveUser grants a user access to the fund.
func (g *Gateway) ApproveUser(ctx context.Context, a Actor, uid string) error {
	return g.setStatus(ctx, OpApproveUser, a, uid, models.StatusApproved, "%s was approved.")
}

// RejectUser turns down a pending request.
func (g *Gateway) RejectUser(ctx context.Context, a Actor, uid string) error {
	return g.setStatus(ctx, OpRejectUser, a, uid, models.StatusRejected, "%s's request was rejected.")
}

// KickUser removes an approved member. Admins cannot kick themselves.
func (g *Gateway) KickUser(ctx context.Context, a Actor, uid string) error {
	return g.setStatus(ctx, OpKickUser, a, uid, models.StatusRejected, "%s was removed from the fund.")
}

func (g *Gateway) setStatus(ctx context.Context, op string, a Actor, uid string, status models.Status, format string) error {
	uid, verr := requireText(op, "user id", uid)
	if verr != nil {
		return g.reject(op, verr)
	}
	if perr := requireAdmin(op, a); perr != nil {
		return g.reject(op, perr)
	}
	if op == OpKickUser && uid == a.UID {
		return g.reject(op, errs.New(errs.KindPermission, op, errKickSelf))
	}

	target, err := g.user(ctx, errs.KindMutation, op, uid)
	if err != nil {
		g.total.WithLabelValues(op, "error").Inc()
		return err
	}
	return g.mutate(ctx, op,
		func(ctx context.Context) error { return g.store.UpdateUserStatus(ctx, uid, status) },
		func() string { return fmt.Sprintf(format, target.Name()) },
	)
}

// ResendRequest moves the actor's own rejected profile back to pending.
func (g *Gateway) ResendRequest(ctx context.Context, a Actor) error {
	const op = OpResendRequest
	if a.UID == "" {
		return g.reject(op, errs.New(errs.KindPermission, op, errNotSignedIn))
	}

	self, err := g.user(ctx, errs.KindProfile, op, a.UID)
	if err != nil {
		g.total.WithLabelValues(op, "error").Inc()
		return err
	}
	if self.Status != models.StatusRejected {
		return g.reject(op, errs.New(errs.KindPermission, op, errNotResendable))
	}
	return g.mutate(ctx, op,
		func(ctx context.Context) error { return g.store.UpdateUserStatus(ctx, a.UID, models.StatusPending) },
		func() string { return fmt.Sprintf("%s requested access again.", self.Name()) },
	)
}

// PendingRequests lists users waiting for approval. Admins only.
func (g *Gateway) PendingRequests(ctx context.Context, a Actor) ([]models.User, error) {
	return g.listUsers(ctx, OpListRequests, a, models.StatusPending)
}

// Members lists approved users. Admins only.
func (g *Gateway) Members(ctx context.Context, a Actor) ([]models.User, error) {
	return g.listUsers(ctx, OpListMembers, a, models.StatusApproved)
}

func (g *Gateway) listUsers(ctx context.Context, op string, a Actor, status models.Status) ([]models.User, error) {
	if perr := requireAdmin(op, a); perr != nil {
		return nil, perr
	}
	var users []models.User
	err := g.call(ctx, errs.KindProfile, op, func(ctx context.Context) error {
		var err error
		users, err = g.store.ListUsersByStatus(ctx, status)
		return err
	})
	if err != nil {
		return nil, err
	}
	return users, nil
}

func (g *Gateway) user(ctx context.Context, kind errs.Kind, op, uid string) (*models.User, error) {
	var u *models.User
	err := g.call(ctx, kind, op, func(ctx context.Context) error {
		var err error
		u, err = g.store.GetUser(ctx, uid)
		return err
	})
	if err != nil {
		return nil, err
	}
	return u, nil
}
