package test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/hibiken/asynq"
	"github.com/sirupsen/logrus"

	"listmonk-resubscriber/internal/listmonk"
	"listmonk-resubscriber/internal/models"
)

// MockTaskEnqueuer is a mock implementation of tasks.TaskEnqueuer for testing.
type MockTaskEnqueuer struct {
	EnqueuedTasks []*asynq.Task
	Err           error
}

func (m *MockTaskEnqueuer) Enqueue(task *asynq.Task, opts ...asynq.Option) (*asynq.TaskInfo, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	m.EnqueuedTasks = append(m.EnqueuedTasks, task)
	return &asynq.TaskInfo{ID: "test-task-id", Queue: "default"}, nil
}

// NewLogger returns a logger writing into the returned buffer.
func NewLogger() (*logrus.Logger, *bytes.Buffer) {
	buf := &bytes.Buffer{}
	logger := logrus.New()
	logger.SetOutput(buf)
	logger.SetFormatter(&logrus.TextFormatter{DisableTimestamp: true, DisableQuote: true})
	return logger, buf
}

// FakeListmonk is an in-memory stand-in for the mailing-list service API.
// Successful list updates are applied to the stored subscribers.
type FakeListmonk struct {
	Server *httptest.Server

	mu          sync.Mutex
	subscribers map[string]*models.Subscriber
	lookupFail  map[string]int
	lookupRaw   map[string]string
	updateFail  map[int]int
	lookups     []string
	updates     []listmonk.ListUpdate
}

// NewFakeListmonk starts the fake and closes it when the test ends.
func NewFakeListmonk(t *testing.T) *FakeListmonk {
	f := &FakeListmonk{
		subscribers: make(map[string]*models.Subscriber),
		lookupFail:  make(map[string]int),
		lookupRaw:   make(map[string]string),
		updateFail:  make(map[int]int),
	}
	mux := http.NewServeMux()
	mux.HandleFunc("/api/subscribers", f.handleLookup)
	mux.HandleFunc("/api/subscribers/lists", f.handleUpdate)
	f.Server = httptest.NewServer(mux)
	t.Cleanup(f.Server.Close)
	return f
}

// URL is the API base URL to configure the client with.
func (f *FakeListmonk) URL() string {
	return f.Server.URL + "/api"
}

func (f *FakeListmonk) AddSubscriber(sub models.Subscriber) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.subscribers[sub.Email] = &sub
}

// Subscriber returns a copy of the stored subscriber.
func (f *FakeListmonk) Subscriber(email string) models.Subscriber {
	f.mu.Lock()
	defer f.mu.Unlock()
	sub := *f.subscribers[email]
	sub.Lists = append([]models.ListMembership(nil), sub.Lists...)
	return sub
}

// FailLookup makes lookups for email answer with status.
func (f *FakeListmonk) FailLookup(email string, status int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.lookupFail[email] = status
}

// RawLookup makes lookups for email answer 200 with body.
func (f *FakeListmonk) RawLookup(email, body string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.lookupRaw[email] = body
}

// FailUpdate makes updates for the subscriber id answer with status.
func (f *FakeListmonk) FailUpdate(subscriberID, status int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.updateFail[subscriberID] = status
}

// Lookups returns the emails looked up so far, in order.
func (f *FakeListmonk) Lookups() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.lookups...)
}

// Updates returns the update requests received so far, failed ones included.
func (f *FakeListmonk) Updates() []listmonk.ListUpdate {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]listmonk.ListUpdate(nil), f.updates...)
}

func (f *FakeListmonk) handleLookup(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}
	email := strings.Trim(r.URL.Query().Get("subscribers.email"), "'")

	f.mu.Lock()
	defer f.mu.Unlock()
	f.lookups = append(f.lookups, email)

	if status, ok := f.lookupFail[email]; ok {
		http.Error(w, http.StatusText(status), status)
		return
	}
	if body, ok := f.lookupRaw[email]; ok {
		w.Write([]byte(body))
		return
	}

	results := []models.Subscriber{}
	if sub, ok := f.subscribers[email]; ok {
		results = append(results, *sub)
	}
	resp := map[string]interface{}{
		"data": map[string]interface{}{"results": results, "total": len(results)},
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(resp)
}

func (f *FakeListmonk) handleUpdate(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPut {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}
	var update listmonk.ListUpdate
	if err := json.NewDecoder(r.Body).Decode(&update); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	f.updates = append(f.updates, update)

	for _, id := range update.IDs {
		if status, ok := f.updateFail[id]; ok {
			w.WriteHeader(status)
			w.Write([]byte(`{"message": "could not update subscriptions"}`))
			return
		}
	}

	targets := make(map[int]bool, len(update.TargetListIDs))
	for _, id := range update.TargetListIDs {
		targets[id] = true
	}
	for _, sub := range f.subscribers {
		if !containsID(update.IDs, sub.ID) {
			continue
		}
		for i := range sub.Lists {
			if targets[sub.Lists[i].ID] {
				sub.Lists[i].SubscriptionStatus = update.Status
			}
		}
	}
	w.Write([]byte(`{"data": true}`))
}

func containsID(ids []int, id int) bool {
	for _, v := range ids {
		if v == id {
			return true
		}
	}
	return false
}
