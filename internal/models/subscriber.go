package models

import (
	"encoding/json"
	"errors"
	"fmt"
)

// SubscriptionStatus is the state of a subscriber on one list.
type SubscriptionStatus string

const (
	// StatusUnconfirmed means subscribed to a list without double opt-in.
	StatusUnconfirmed SubscriptionStatus = "unconfirmed"
	// StatusConfirmed means subscribed via double opt-in.
	StatusConfirmed SubscriptionStatus = "confirmed"
	// StatusUnsubscribed means opted out.
	StatusUnsubscribed SubscriptionStatus = "unsubscribed"
)

// UnmarshalText rejects anything outside the three known statuses.
func (s *SubscriptionStatus) UnmarshalText(text []byte) error {
	switch v := SubscriptionStatus(text); v {
	case StatusUnconfirmed, StatusConfirmed, StatusUnsubscribed:
		*s = v
		return nil
	default:
		return fmt.Errorf("invalid subscription status %q", string(text))
	}
}

// ListMembership is a subscriber's membership in a single list.
type ListMembership struct {
	ID                 int                `json:"id"`
	SubscriptionStatus SubscriptionStatus `json:"subscription_status"`
}

// UnmarshalJSON requires subscription_status to be present and non-null.
func (m *ListMembership) UnmarshalJSON(data []byte) error {
	var raw struct {
		ID                 int                 `json:"id"`
		SubscriptionStatus *SubscriptionStatus `json:"subscription_status"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	if raw.SubscriptionStatus == nil {
		return errors.New("list membership without subscription status")
	}
	m.ID = raw.ID
	m.SubscriptionStatus = *raw.SubscriptionStatus
	return nil
}

// Subscriber represents a contact in the mailing-list service.
type Subscriber struct {
	ID    int              `json:"id"`
	Email string           `json:"email"`
	Lists []ListMembership `json:"lists"`
}

// UnsubscribedListIDs returns the ids of lists the subscriber opted out of,
// in the order the service reported them.
func (s Subscriber) UnsubscribedListIDs() []int {
	var ids []int
	for _, l := range s.Lists {
		if l.SubscriptionStatus == StatusUnsubscribed {
			ids = append(ids, l.ID)
		}
	}
	return ids
}
