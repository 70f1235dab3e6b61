// Package resubscriber puts monitored subscribers back on the lists they
// were unsubscribed from.
//
// Some subscribers stand in for a whole group, e.g. the address of a
// students mailing list. If such a subscriber unsubscribes, everyone behind
// it is unsubscribed too, so they are resubscribed on every run.
package resubscriber

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/sirupsen/logrus"

	"listmonk-resubscriber/internal/config"
	"listmonk-resubscriber/internal/listmonk"
	"listmonk-resubscriber/internal/models"
)

// SubscriberAPI is the part of the mailing-list service the workflow uses.
// It's implemented by *listmonk.Client.
type SubscriberAPI interface {
	GetSubscriberByEmail(ctx context.Context, email string) (*models.Subscriber, error)
	UpdateSubscriberLists(ctx context.Context, update listmonk.ListUpdate) error
}

type Resubscriber struct {
	api    SubscriberAPI
	emails []string
	dryRun bool
	log    logrus.FieldLogger
}

func New(api SubscriberAPI, cfg config.Config, log logrus.FieldLogger) *Resubscriber {
	return &Resubscriber{
		api:    api,
		emails: cfg.Emails,
		dryRun: cfg.DryRun,
		log:    log,
	}
}

// Run checks every monitored email in order. Lookup and update failures are
// logged and recorded in the report; any other error aborts the run.
func (r *Resubscriber) Run(ctx context.Context) (*Report, error) {
	report := &Report{}

	for _, email := range r.emails {
		if err := ctx.Err(); err != nil {
			return report, err
		}

		outcome, err := r.resubscribe(ctx, email)
		if err != nil {
			return report, err
		}
		report.Outcomes = append(report.Outcomes, outcome)
	}

	return report, nil
}

func (r *Resubscriber) resubscribe(ctx context.Context, email string) (Outcome, error) {
	outcome := Outcome{Email: email}
	r.log.Infof("Resubscribing %s to their lists...", email)

	sub, err := r.fetchSubscriber(ctx, email)
	var apiErr *listmonk.APIError
	switch {
	case errors.Is(err, listmonk.ErrSubscriberNotFound):
		outcome.Status = OutcomeNotFound
		return outcome, nil
	case errors.As(err, &apiErr):
		outcome.Status = OutcomeLookupFailed
		outcome.Error = apiErr.Status
		return outcome, nil
	case err != nil:
		return outcome, err
	}

	listIDs := sub.UnsubscribedListIDs()
	outcome.SubscriberID = sub.ID
	outcome.Total = len(sub.Lists)
	outcome.Subscribed = outcome.Total - len(listIDs)

	r.log.Infof("%s is subscribed to %d/%d lists.", email, outcome.Subscribed, outcome.Total)

	if len(listIDs) == 0 {
		r.log.Info("No lists to resubscribe to.")
		outcome.Status = OutcomeUpToDate
		return outcome, nil
	}

	outcome.ListIDs = listIDs
	r.log.Infof("resubscribing %s (id: %d) to list(s) %s ...", email, sub.ID, joinIDs(listIDs))

	if r.dryRun {
		r.log.Infof("Dry run: not resubscribing %s.", email)
		outcome.Status = OutcomeDryRun
		return outcome, nil
	}

	err = r.api.UpdateSubscriberLists(ctx, listmonk.ListUpdate{
		IDs:           []int{sub.ID},
		TargetListIDs: listIDs,
		Action:        listmonk.ActionAdd,
		Status:        models.StatusUnconfirmed,
	})
	if errors.As(err, &apiErr) {
		r.log.Error("re-subscribing failed:")
		r.log.Error(apiErr.Body)
		outcome.Status = OutcomeUpdateFailed
		outcome.Error = apiErr.Status
		return outcome, nil
	}
	if err != nil {
		return outcome, fmt.Errorf("resubscribe %s: %w", email, err)
	}

	r.log.Infof("Successfully resubscribed %s to %d lists.", email, len(listIDs))
	outcome.Status = OutcomeResubscribed
	return outcome, nil
}

// fetchSubscriber looks up email and logs why a subscriber is absent.
// Absence is reported as listmonk.ErrSubscriberNotFound or *listmonk.APIError.
func (r *Resubscriber) fetchSubscriber(ctx context.Context, email string) (*models.Subscriber, error) {
	sub, err := r.api.GetSubscriberByEmail(ctx, email)

	var apiErr *listmonk.APIError
	switch {
	case err == nil:
		return sub, nil
	case errors.As(err, &apiErr):
		r.log.Errorf("failed to fetch subscriber %s", email)
		r.log.Error(apiErr.Status)
		return nil, err
	case errors.Is(err, listmonk.ErrSubscriberNotFound):
		r.log.Infof("subscriber not found %s", email)
		return nil, err
	default:
		return nil, fmt.Errorf("fetch subscriber %s: %w", email, err)
	}
}

func joinIDs(ids []int) string {
	parts := make([]string, len(ids))
	for i, id := range ids {
		parts[i] = strconv.Itoa(id)
	}
	return strings.Join(parts, ", ")
}
