package handler

import (
	"context"
	"encoding/json"
	"math/rand"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/AccelByte/extend-countdown-challenge/pkg/action"
	actionBuiltin "github.com/AccelByte/extend-countdown-challenge/pkg/action/builtin"
	"github.com/AccelByte/extend-countdown-challenge/pkg/countdown"
	"github.com/AccelByte/extend-countdown-challenge/pkg/feed"
	"github.com/AccelByte/extend-countdown-challenge/pkg/pipeline"
	"github.com/AccelByte/extend-countdown-challenge/pkg/rule"
	ruleBuiltin "github.com/AccelByte/extend-countdown-challenge/pkg/rule/builtin"
	"github.com/AccelByte/extend-countdown-challenge/pkg/signal"
	signalBuiltin "github.com/AccelByte/extend-countdown-challenge/pkg/signal/builtin"
	"github.com/AccelByte/extend-countdown-challenge/pkg/state"
	"github.com/AccelByte/extend-countdown-challenge/pkg/tracker"
	"github.com/alicebob/miniredis/v2"
	"github.com/go-chi/chi/v5"
	"github.com/go-redis/redis/v8"
)

const testSeed = 7

var testNow = time.Date(2025, 6, 1, 12, 0, 0, 0, time.Local)

type testAPI struct {
	router  chi.Router
	tracker *tracker.Tracker
	hub     *feed.Hub
	store   *state.RedisStore
	mr      *miniredis.Miniredis
}

// setupTestPipeline creates the default bonus pipeline publishing to hub
func setupTestPipeline(t *testing.T, hub *feed.Hub) *pipeline.Manager {
	t.Helper()

	config := pipeline.DefaultConfig(countdown.Default)

	processor := signal.NewProcessor()
	signalBuiltin.RegisterEventProcessors(processor.GetEventProcessorRegistry())

	ruleBuiltin.RegisterBuiltinRules()
	rules := rule.NewRegistry()
	if err := rule.RegisterRules(rules, config.RuleConfigs()); err != nil {
		t.Fatalf("RegisterRules() error = %v", err)
	}

	actionBuiltin.RegisterActions(&actionBuiltin.Dependencies{Publisher: hub})
	actions := action.NewRegistry()
	if err := action.RegisterActions(actions, config.ActionConfigs()); err != nil {
		t.Fatalf("RegisterActions() error = %v", err)
	}

	return pipeline.NewManager(processor, rule.NewEngine(rules), action.NewExecutor(actions), config.Pipeline(), nil)
}

// setupTestAPI creates a loaded tracker on miniredis behind the router
func setupTestAPI(t *testing.T) *testAPI {
	t.Helper()

	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("failed to start miniredis: %v", err)
	}
	t.Cleanup(mr.Close)

	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })

	hub := feed.NewHub()
	store := state.NewRedisStore(client, state.RedisStoreConfig{})
	tr := tracker.New(store, tracker.Config{
		Definition: countdown.Default,
		Manager:    setupTestPipeline(t, hub),
		Hub:        hub,
		Clock:      func() time.Time { return testNow },
		Rand:       rand.New(rand.NewSource(testSeed)),
	})
	if _, err := tr.Load(context.Background()); err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	router := chi.NewRouter()
	NewAPI(tr, hub).RegisterRoutes(router)

	return &testAPI{router: router, tracker: tr, hub: hub, store: store, mr: mr}
}

// firstTarget is the target the seeded tracker draws for its first session
func firstTarget() int {
	return countdown.NewGame(rand.New(rand.NewSource(testSeed))).Target()
}

// wrongGuess returns a valid guess that misses target
func wrongGuess(target int) string {
	if target == countdown.MaxGuess {
		return "1"
	}
	return "10"
}

func (a *testAPI) do(t *testing.T, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()

	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	a.router.ServeHTTP(rec, req)
	return rec
}

func decode(t *testing.T, rec *httptest.ResponseRecorder, v interface{}) {
	t.Helper()
	if err := json.NewDecoder(rec.Body).Decode(v); err != nil {
		t.Fatalf("failed to decode response %q: %v", rec.Body.String(), err)
	}
}

func guessBody(raw string) string {
	data, _ := json.Marshal(map[string]string{"guess": raw})
	return string(data)
}

func expectStatus(t *testing.T, rec *httptest.ResponseRecorder, want int) {
	t.Helper()
	if rec.Code != want {
		t.Fatalf("status = %d, expected %d (body %s)", rec.Code, want, rec.Body.String())
	}
}


func itoa(n int) string {
	return strconv.Itoa(n)
}

// mustGet returns the raw stored record
func mustGet(t *testing.T, api *testAPI) string {
	t.Helper()
	raw, err := api.mr.Get(api.store.Key())
	if err != nil {
		t.Fatalf("stored record missing: %v", err)
	}
	return raw
}
