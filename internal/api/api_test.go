package api

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/hazyhaar/growthdesk/internal/auth"
	"github.com/hazyhaar/growthdesk/internal/db"
)

func newTestServer(t *testing.T) (*httptest.Server, *db.DB) {
	t.Helper()
	database, err := db.Open(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("opening test db: %v", err)
	}

	mux := http.NewServeMux()
	New(database, auth.New("test-secret", 60)).RegisterRoutes(mux)
	srv := httptest.NewServer(SecurityHeaders(mux))

	t.Cleanup(func() {
		srv.Close()
		database.Close()
	})
	return srv, database
}

func doJSON(t *testing.T, method, url, token string, body any) (*http.Response, map[string]any) {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encoding request: %v", err)
		}
	}
	req, err := http.NewRequest(method, url, &buf)
	if err != nil {
		t.Fatalf("building request: %v", err)
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("%s %s: %v", method, url, err)
	}
	defer resp.Body.Close()

	var decoded map[string]any
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		t.Fatalf("decoding response: %v", err)
	}
	return resp, decoded
}

// registerUser creates a user and returns its auth token.
func registerUser(t *testing.T, baseURL, email string) string {
	t.Helper()
	resp, body := doJSON(t, "POST", baseURL+"/api/register", "", map[string]string{
		"name": "Test Owner", "email": email, "password": "secret-password",
	})
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("register status = %d, body = %v", resp.StatusCode, body)
	}
	token, _ := body["token"].(string)
	if token == "" {
		t.Fatal("register returned no token")
	}
	return token
}

// createBusiness onboards a business and returns its ID.
func createBusiness(t *testing.T, baseURL, token string) string {
	t.Helper()
	resp, body := doJSON(t, "POST", baseURL+"/api/onboarding/start", token, map[string]string{
		"name": "Corner Bakery", "industry": "food", "brand_tone": "playful",
	})
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("onboarding start status = %d, body = %v", resp.StatusCode, body)
	}
	id, _ := body["id"].(string)
	if id == "" {
		t.Fatal("onboarding returned no business id")
	}
	return id
}

func TestRegisterAndLogin(t *testing.T) {
	srv, _ := newTestServer(t)
	registerUser(t, srv.URL, "owner@example.com")

	// Duplicate email conflicts.
	resp, _ := doJSON(t, "POST", srv.URL+"/api/register", "", map[string]string{
		"name": "Other", "email": "owner@example.com", "password": "secret-password",
	})
	if resp.StatusCode != http.StatusConflict {
		t.Errorf("duplicate register status = %d, want 409", resp.StatusCode)
	}

	resp, body := doJSON(t, "POST", srv.URL+"/api/login", "", map[string]string{
		"email": "owner@example.com", "password": "secret-password",
	})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("login status = %d, body = %v", resp.StatusCode, body)
	}
	if body["token"] == "" {
		t.Error("login returned no token")
	}

	resp, _ = doJSON(t, "POST", srv.URL+"/api/login", "", map[string]string{
		"email": "owner@example.com", "password": "wrong-password",
	})
	if resp.StatusCode != http.StatusUnauthorized {
		t.Errorf("bad login status = %d, want 401", resp.StatusCode)
	}
}

func TestRegisterValidation(t *testing.T) {
	srv, _ := newTestServer(t)

	resp, _ := doJSON(t, "POST", srv.URL+"/api/register", "", map[string]string{
		"name": "X", "email": "not-an-email", "password": "secret-password",
	})
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("bad email status = %d, want 400", resp.StatusCode)
	}

	resp, _ = doJSON(t, "POST", srv.URL+"/api/register", "", map[string]string{
		"name": "X", "email": "x@example.com", "password": "short",
	})
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("short password status = %d, want 400", resp.StatusCode)
	}
}

func TestBusinessOwnership(t *testing.T) {
	srv, _ := newTestServer(t)
	owner := registerUser(t, srv.URL, "owner@example.com")
	intruder := registerUser(t, srv.URL, "intruder@example.com")
	businessID := createBusiness(t, srv.URL, owner)

	resp, _ := doJSON(t, "GET", srv.URL+"/api/business/"+businessID, intruder, nil)
	if resp.StatusCode != http.StatusForbidden {
		t.Errorf("cross-owner access status = %d, want 403", resp.StatusCode)
	}

	resp, _ = doJSON(t, "GET", srv.URL+"/api/business/"+businessID, "", nil)
	if resp.StatusCode != http.StatusUnauthorized {
		t.Errorf("unauthenticated access status = %d, want 401", resp.StatusCode)
	}

	resp, _ = doJSON(t, "GET", srv.URL+"/api/business/missing", owner, nil)
	if resp.StatusCode != http.StatusNotFound {
		t.Errorf("missing business status = %d, want 404", resp.StatusCode)
	}
}

func TestDMTriggerCreatesAndScoresLead(t *testing.T) {
	srv, _ := newTestServer(t)
	token := registerUser(t, srv.URL, "owner@example.com")
	businessID := createBusiness(t, srv.URL, token)

	// New lead starts at 10; a message event adds 10.
	resp, body := doJSON(t, "POST", srv.URL+"/api/dm/trigger", token, map[string]string{
		"business_id": businessID, "handle": "@ada", "event_type": "message", "message": "do you ship?",
	})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("trigger status = %d, body = %v", resp.StatusCode, body)
	}
	lead := body["lead"].(map[string]any)
	if lead["lead_score"].(float64) != 20 {
		t.Errorf("lead_score = %v, want 20", lead["lead_score"])
	}
	if lead["pipeline_stage"] != "new" {
		t.Errorf("pipeline_stage = %v, want new", lead["pipeline_stage"])
	}
	if body["flow_fired"] != false {
		t.Errorf("flow_fired = %v, want false", body["flow_fired"])
	}

	// Same handle again: the existing lead is rescored, not duplicated.
	_, body = doJSON(t, "POST", srv.URL+"/api/dm/trigger", token, map[string]string{
		"business_id": businessID, "handle": "@ada", "event_type": "comment",
	})
	lead = body["lead"].(map[string]any)
	if lead["lead_score"].(float64) != 25 {
		t.Errorf("rescored lead_score = %v, want 25", lead["lead_score"])
	}

	_, body = doJSON(t, "GET", srv.URL+"/api/business/"+businessID+"/pipeline", token, nil)
	if body["count"].(float64) != 1 {
		t.Errorf("pipeline count = %v, want 1", body["count"])
	}
}

func TestDMTriggerFiresActiveFlow(t *testing.T) {
	srv, _ := newTestServer(t)
	token := registerUser(t, srv.URL, "owner@example.com")
	businessID := createBusiness(t, srv.URL, token)

	resp, flow := doJSON(t, "POST", srv.URL+"/api/flows", token, map[string]any{
		"business_id": businessID,
		"name":        "comment opener",
		"trigger":     "comment",
		"script":      []string{"Thanks for the comment! Want the details?", "Follow-up line"},
	})
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("create flow status = %d, body = %v", resp.StatusCode, flow)
	}
	flowID := flow["id"].(string)

	// Draft flows never fire.
	_, body := doJSON(t, "POST", srv.URL+"/api/dm/trigger", token, map[string]string{
		"business_id": businessID, "handle": "@ada", "event_type": "comment",
	})
	if body["flow_fired"] != false {
		t.Fatalf("draft flow fired: %v", body)
	}

	resp, _ = doJSON(t, "PUT", srv.URL+"/api/flows/"+flowID+"/activate", token, nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("activate flow status = %d", resp.StatusCode)
	}

	// Active flow fires its first script line and grants the reply bonus:
	// 15 (previous) + 5 (comment) + 4 (flow reply) = 24.
	_, body = doJSON(t, "POST", srv.URL+"/api/dm/trigger", token, map[string]string{
		"business_id": businessID, "handle": "@ada", "event_type": "comment",
	})
	if body["flow_fired"] != true {
		t.Fatalf("active flow did not fire: %v", body)
	}
	if body["reply"] != "Thanks for the comment! Want the details?" {
		t.Errorf("reply = %v, want first script line", body["reply"])
	}
	lead := body["lead"].(map[string]any)
	if lead["lead_score"].(float64) != 24 {
		t.Errorf("lead_score = %v, want 24", lead["lead_score"])
	}
	history := lead["conversation_history"].([]any)
	last := history[len(history)-1].(map[string]any)
	if last["author"] != "ai" {
		t.Errorf("last turn author = %v, want ai", last["author"])
	}

	// Flow success counter advanced.
	_, body = doJSON(t, "GET", srv.URL+"/api/business/"+businessID+"/flows", token, nil)
	flows := body["flows"].([]any)
	if flows[0].(map[string]any)["success_count"].(float64) != 1 {
		t.Errorf("success_count = %v, want 1", flows[0].(map[string]any)["success_count"])
	}
}

func TestSetLeadStage(t *testing.T) {
	srv, _ := newTestServer(t)
	token := registerUser(t, srv.URL, "owner@example.com")
	businessID := createBusiness(t, srv.URL, token)

	_, body := doJSON(t, "POST", srv.URL+"/api/dm/trigger", token, map[string]string{
		"business_id": businessID, "handle": "@ada", "event_type": "message",
	})
	leadID := body["lead"].(map[string]any)["id"].(string)

	// Score is 20; lost costs 15.
	resp, body := doJSON(t, "PUT", srv.URL+"/api/lead/"+leadID+"/stage", token, map[string]string{"stage": "lost"})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("set stage status = %d, body = %v", resp.StatusCode, body)
	}
	if body["pipeline_stage"] != "lost" || body["lead_score"].(float64) != 5 {
		t.Errorf("after lost: stage = %v, score = %v; want lost, 5", body["pipeline_stage"], body["lead_score"])
	}

	// Booked grants 10.
	_, body = doJSON(t, "PUT", srv.URL+"/api/lead/"+leadID+"/stage", token, map[string]string{"stage": "booked"})
	if body["pipeline_stage"] != "booked" || body["lead_score"].(float64) != 15 {
		t.Errorf("after booked: stage = %v, score = %v; want booked, 15", body["pipeline_stage"], body["lead_score"])
	}

	resp, _ = doJSON(t, "PUT", srv.URL+"/api/lead/"+leadID+"/stage", token, map[string]string{"stage": "won"})
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("invalid stage status = %d, want 400", resp.StatusCode)
	}
}

func TestDMSend(t *testing.T) {
	srv, _ := newTestServer(t)
	token := registerUser(t, srv.URL, "owner@example.com")
	businessID := createBusiness(t, srv.URL, token)

	_, body := doJSON(t, "POST", srv.URL+"/api/dm/trigger", token, map[string]string{
		"business_id": businessID, "handle": "@ada", "event_type": "message",
	})
	leadID := body["lead"].(map[string]any)["id"].(string)

	// AI sends are worth 2, score 20 -> 22, stage untouched.
	_, body = doJSON(t, "POST", srv.URL+"/api/dm/send", token, map[string]string{
		"lead_id": leadID, "author": "ai", "message": "here are the details",
	})
	if body["lead_score"].(float64) != 22 || body["pipeline_stage"] != "new" {
		t.Errorf("after ai send: score = %v, stage = %v; want 22, new", body["lead_score"], body["pipeline_stage"])
	}

	// Lead replies are worth 5.
	_, body = doJSON(t, "POST", srv.URL+"/api/dm/send", token, map[string]string{
		"lead_id": leadID, "author": "lead", "message": "sounds good",
	})
	if body["lead_score"].(float64) != 27 {
		t.Errorf("after lead reply: score = %v, want 27", body["lead_score"])
	}
}

func TestStrategyAndContentRoundTrip(t *testing.T) {
	srv, _ := newTestServer(t)
	token := registerUser(t, srv.URL, "owner@example.com")
	businessID := createBusiness(t, srv.URL, token)

	resp, body := doJSON(t, "POST", srv.URL+"/api/strategy", token, map[string]any{
		"business_id": businessID, "budget": 500,
	})
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("strategy status = %d, body = %v", resp.StatusCode, body)
	}
	if body["posting_frequency"] != "5 posts/week" {
		t.Errorf("posting_frequency = %v, want 5 posts/week", body["posting_frequency"])
	}

	resp, post := doJSON(t, "POST", srv.URL+"/api/content/generate", token, map[string]string{
		"business_id": businessID, "platform": "instagram", "topic": "sourdough", "content_type": "reel",
	})
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("generate status = %d, body = %v", resp.StatusCode, post)
	}
	if post["status"] != "draft" {
		t.Errorf("new post status = %v, want draft", post["status"])
	}
	postID := post["id"].(string)

	// Accept feedback approves and bumps performance.
	_, updated := doJSON(t, "POST", srv.URL+"/api/content/"+postID+"/feedback", token, map[string]string{
		"decision": "accept",
	})
	if updated["status"] != "approved" || updated["performance_score"].(float64) != 10 {
		t.Errorf("after accept: status = %v, performance = %v", updated["status"], updated["performance_score"])
	}

	// Auto-schedule picks up the approved post.
	_, scheduled := doJSON(t, "POST", srv.URL+"/api/schedule/auto", token, map[string]any{
		"business_id": businessID,
	})
	if scheduled["count"].(float64) != 1 {
		t.Fatalf("auto-schedule count = %v, want 1", scheduled["count"])
	}
	first := scheduled["posts"].([]any)[0].(map[string]any)
	if first["status"] != "scheduled" || first["scheduled_at"] == nil {
		t.Errorf("auto-scheduled post = %v", first)
	}
}

func TestDashboardAndBrain(t *testing.T) {
	srv, _ := newTestServer(t)
	token := registerUser(t, srv.URL, "owner@example.com")
	businessID := createBusiness(t, srv.URL, token)

	resp, body := doJSON(t, "GET", srv.URL+"/api/business/"+businessID+"/dashboard", token, nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("dashboard status = %d, body = %v", resp.StatusCode, body)
	}
	if len(body["automation_actions"].([]any)) != 3 {
		t.Errorf("automation_actions = %v, want 3 entries", body["automation_actions"])
	}
	if body["recommendation"] == "" {
		t.Error("dashboard returned no recommendation")
	}

	// Onboarding wrote the brand-tone memory, so the answer is grounded.
	resp, body = doJSON(t, "POST", srv.URL+"/api/brain/query", token, map[string]string{
		"business_id": businessID, "query": "what is our strategy?",
	})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("brain query status = %d, body = %v", resp.StatusCode, body)
	}
	if body["answer"] == "" {
		t.Error("brain query returned no answer")
	}
	refs := body["references"].([]any)
	if len(refs) == 0 || refs[0] != "onboarding" {
		t.Errorf("references = %v, want onboarding memory", refs)
	}
}

func TestPersonasAndAssets(t *testing.T) {
	srv, _ := newTestServer(t)
	token := registerUser(t, srv.URL, "owner@example.com")
	businessID := createBusiness(t, srv.URL, token)

	_, body := doJSON(t, "POST", srv.URL+"/api/personas/generate", token, map[string]any{
		"business_id": businessID, "count": 3,
	})
	if body["count"].(float64) != 3 {
		t.Fatalf("personas count = %v, want 3", body["count"])
	}

	resp, asset := doJSON(t, "POST", srv.URL+"/api/assets", token, map[string]string{
		"business_id": businessID, "asset_type": "logo", "label": "main logo",
	})
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("create asset status = %d, body = %v", resp.StatusCode, asset)
	}
	if asset["status"] != "pending" {
		t.Errorf("asset status = %v, want pending default", asset["status"])
	}

	// Insights reports the missing photo and video categories.
	_, insights := doJSON(t, "GET", srv.URL+"/api/business/"+businessID+"/insights", token, nil)
	gaps := insights["resource_gaps"].([]any)
	if len(gaps) != 2 {
		t.Errorf("resource_gaps = %v, want 2 entries", gaps)
	}
	if insights["persona_focus"] != "The Busy Owner" {
		t.Errorf("persona_focus = %v, want first persona", insights["persona_focus"])
	}
}

func TestOnboardingSessionFlow(t *testing.T) {
	srv, database := newTestServer(t)
	token := registerUser(t, srv.URL, "owner@example.com")
	businessID := createBusiness(t, srv.URL, token)

	resp, session := doJSON(t, "POST", srv.URL+"/api/onboarding/session", token, map[string]any{
		"business_id": businessID, "total_steps": 2,
	})
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("create session status = %d, body = %v", resp.StatusCode, session)
	}
	sessionID := session["id"].(string)

	_, session = doJSON(t, "POST", srv.URL+"/api/onboarding/session/"+sessionID+"/answer", token, map[string]any{
		"step_key": "objective", "answer": "leads", "step_index": 0,
	})
	if session["completed"] != false {
		t.Errorf("session completed early: %v", session)
	}

	_, session = doJSON(t, "POST", srv.URL+"/api/onboarding/session/"+sessionID+"/answer", token, map[string]any{
		"step_key": "industry", "answer": "food", "step_index": 1, "is_final": true,
	})
	if session["completed"] != true {
		t.Errorf("session not completed: %v", session)
	}

	// Profile keys landed on the business row.
	business, err := database.GetBusiness(businessID)
	if err != nil {
		t.Fatalf("loading business: %v", err)
	}
	if business.Objective != "leads" || business.Industry != "food" {
		t.Errorf("business profile = %q/%q, want leads/food", business.Objective, business.Industry)
	}

	// Completed sessions reject further answers.
	resp, _ = doJSON(t, "POST", srv.URL+"/api/onboarding/session/"+sessionID+"/answer", token, map[string]any{
		"step_key": "brand_tone", "answer": "calm", "step_index": 2,
	})
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("answer after completion status = %d, want 400", resp.StatusCode)
	}
}
