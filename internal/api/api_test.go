package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"

	"github.com/calder/folio/internal/auth"
	"github.com/calder/folio/internal/content"
	"github.com/calder/folio/internal/models"
	"github.com/calder/folio/internal/portfolio"
	"github.com/calder/folio/internal/storage"
	"github.com/calder/folio/internal/testutil"
)

// testEnv builds a service over the default seed content and a router
// with the session gate disabled.
func testEnv(t *testing.T) (*portfolio.Service, http.Handler) {
	t.Helper()
	svc, router, _ := testEnvFull(t, nil, nil)
	return svc, router
}

func testEnvFull(t *testing.T, gate *auth.Gate, asker Asker) (*portfolio.Service, http.Handler, *storage.Dir) {
	t.Helper()
	dir := testutil.TestDataDir(t)
	svc := portfolio.NewService(testutil.TestStore(t), testutil.TestIndex(t), nil, testutil.TestLogger(t))
	return svc, NewRouter(svc, gate, asker, nil, dir), dir
}

func doJSON(t *testing.T, router http.Handler, method, path string, body any, token string) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatal(err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestListAndCreateSkill(t *testing.T) {
	_, router := testEnv(t)

	w := doJSON(t, router, http.MethodGet, "/skills", nil, "")
	if w.Code != http.StatusOK {
		t.Fatalf("list status = %d", w.Code)
	}
	var before []models.Skill
	_ = json.Unmarshal(w.Body.Bytes(), &before)

	w = doJSON(t, router, http.MethodPost, "/skills", models.Skill{Name: "Rust", Level: 60}, "")
	if w.Code != http.StatusCreated {
		t.Fatalf("create status = %d, body = %s", w.Code, w.Body.String())
	}
	var created models.Skill
	_ = json.Unmarshal(w.Body.Bytes(), &created)
	if created.ID == 0 {
		t.Error("created skill should get an id")
	}

	w = doJSON(t, router, http.MethodGet, "/skills", nil, "")
	var after []models.Skill
	_ = json.Unmarshal(w.Body.Bytes(), &after)
	if len(after) != len(before)+1 {
		t.Errorf("len = %d, want %d", len(after), len(before)+1)
	}
	if after[len(after)-1].Name != "Rust" {
		t.Errorf("new skill should be appended, got %q last", after[len(after)-1].Name)
	}
}

func TestCreateSkillRejectsInvalid(t *testing.T) {
	_, router := testEnv(t)

	w := doJSON(t, router, http.MethodPost, "/skills", models.Skill{Name: "Go", Level: 150}, "")
	if w.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", w.Code)
	}
}

func TestUpdateSkillNotFound(t *testing.T) {
	_, router := testEnv(t)

	w := doJSON(t, router, http.MethodPut, "/skills/99999", models.Skill{Name: "Go", Level: 80}, "")
	if w.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404", w.Code)
	}
}

func TestDeleteSkillIdempotent(t *testing.T) {
	svc, router := testEnv(t)

	skills := svc.Skills(context.Background())
	if len(skills) == 0 {
		t.Fatal("seed content should include skills")
	}
	path := fmt.Sprintf("/skills/%d", skills[0].ID)

	for i := 0; i < 2; i++ {
		w := doJSON(t, router, http.MethodDelete, path, nil, "")
		if w.Code != http.StatusNoContent {
			t.Errorf("delete #%d status = %d, want 204", i+1, w.Code)
		}
	}
}

func TestReorderProjects(t *testing.T) {
	svc, router := testEnv(t)

	items := svc.Projects(context.Background())
	if len(items) < 2 {
		t.Fatal("seed content should include at least two projects")
	}
	reversed := make([]models.Project, len(items))
	for i, p := range items {
		reversed[len(items)-1-i] = p
	}

	w := doJSON(t, router, http.MethodPut, "/projects/order", reversed, "")
	if w.Code != http.StatusOK {
		t.Fatalf("reorder status = %d, body = %s", w.Code, w.Body.String())
	}
	var got []models.Project
	_ = json.Unmarshal(w.Body.Bytes(), &got)
	if got[0].ID != items[len(items)-1].ID {
		t.Errorf("first project id = %d, want %d", got[0].ID, items[len(items)-1].ID)
	}
}

func TestReorderRejectsDroppedItem(t *testing.T) {
	svc, router := testEnv(t)

	items := svc.Skills(context.Background())
	if len(items) < 2 {
		t.Fatal("seed content should include at least two skills")
	}

	w := doJSON(t, router, http.MethodPut, "/skills/order", items[1:], "")
	if w.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", w.Code)
	}
}

func TestGetContentReturnsFullState(t *testing.T) {
	svc, router := testEnv(t)

	w := doJSON(t, router, http.MethodGet, "/content", nil, "")
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	var doc content.Snapshot
	if err := json.Unmarshal(w.Body.Bytes(), &doc); err != nil {
		t.Fatal(err)
	}
	if doc.Profile == nil || doc.Skills == nil {
		t.Fatal("content payload should carry every collection")
	}
	if len(*doc.Skills) != len(svc.Skills(context.Background())) {
		t.Errorf("skills = %d, want %d", len(*doc.Skills), len(svc.Skills(context.Background())))
	}
}

func TestProfileRoundTrip(t *testing.T) {
	svc, router := testEnv(t)

	p := svc.Profile(context.Background())
	p.Role = "Staff Engineer"
	w := doJSON(t, router, http.MethodPut, "/profile", p, "")
	if w.Code != http.StatusOK {
		t.Fatalf("put status = %d, body = %s", w.Code, w.Body.String())
	}

	w = doJSON(t, router, http.MethodGet, "/profile", nil, "")
	var got models.Profile
	_ = json.Unmarshal(w.Body.Bytes(), &got)
	if got.Role != "Staff Engineer" {
		t.Errorf("role = %q", got.Role)
	}
}

func TestExportImportRoundTrip(t *testing.T) {
	svc, router := testEnv(t)

	w := doJSON(t, router, http.MethodGet, "/export", nil, "")
	if w.Code != http.StatusOK {
		t.Fatalf("export status = %d", w.Code)
	}
	exported := w.Body.Bytes()

	// Mutate, then restore from the export.
	svc.AddSkill(context.Background(), models.Skill{Name: "Scratch", Level: 10})
	req := httptest.NewRequest(http.MethodPost, "/import", bytes.NewReader(exported))
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("import status = %d, body = %s", w.Code, w.Body.String())
	}

	for _, s := range svc.Skills(context.Background()) {
		if s.Name == "Scratch" {
			t.Error("import should have restored the exported skills")
		}
	}
}

func TestImportRejectsGarbage(t *testing.T) {
	_, router := testEnv(t)

	req := httptest.NewRequest(http.MethodPost, "/import", bytes.NewReader([]byte("not json")))
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	if w.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", w.Code)
	}
}

func TestSearchRequiresQuery(t *testing.T) {
	_, router := testEnv(t)

	w := doJSON(t, router, http.MethodGet, "/search", nil, "")
	if w.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", w.Code)
	}
}

func TestSessionGateGuardsMutations(t *testing.T) {
	dir := testutil.TestDataDir(t)
	gate := auth.New(dir, "admin.secret")
	if err := gate.Provision("hunter2!"); err != nil {
		t.Fatal(err)
	}
	svc := portfolio.NewService(testutil.TestStore(t), testutil.TestIndex(t), nil, testutil.TestLogger(t))
	router := NewRouter(svc, gate, nil, nil, dir)

	// Reads stay open.
	w := doJSON(t, router, http.MethodGet, "/skills", nil, "")
	if w.Code != http.StatusOK {
		t.Fatalf("unauthenticated read = %d, want 200", w.Code)
	}

	// Mutations are rejected without a session.
	w = doJSON(t, router, http.MethodPost, "/skills", models.Skill{Name: "Go", Level: 80}, "")
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("unauthenticated write = %d, want 401", w.Code)
	}

	// Wrong password.
	w = doJSON(t, router, http.MethodPost, "/session/login", LoginRequest{Password: "wrong"}, "")
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("bad login = %d, want 401", w.Code)
	}

	// Login, then write with the token.
	w = doJSON(t, router, http.MethodPost, "/session/login", LoginRequest{Password: "hunter2!"}, "")
	if w.Code != http.StatusOK {
		t.Fatalf("login = %d, body = %s", w.Code, w.Body.String())
	}
	var login LoginResponse
	_ = json.Unmarshal(w.Body.Bytes(), &login)

	w = doJSON(t, router, http.MethodPost, "/skills", models.Skill{Name: "Go", Level: 80}, login.Token)
	if w.Code != http.StatusCreated {
		t.Errorf("authenticated write = %d, want 201", w.Code)
	}

	// Logout revokes the token.
	w = doJSON(t, router, http.MethodPost, "/session/logout", nil, login.Token)
	if w.Code != http.StatusNoContent {
		t.Fatalf("logout = %d", w.Code)
	}
	w = doJSON(t, router, http.MethodPost, "/skills", models.Skill{Name: "Go", Level: 80}, login.Token)
	if w.Code != http.StatusUnauthorized {
		t.Errorf("write after logout = %d, want 401", w.Code)
	}
}

func TestSessionStatusAndProvision(t *testing.T) {
	dir := testutil.TestDataDir(t)
	gate := auth.New(dir, "admin.secret")
	svc := portfolio.NewService(testutil.TestStore(t), testutil.TestIndex(t), nil, testutil.TestLogger(t))
	router := NewRouter(svc, gate, nil, nil, dir)

	w := doJSON(t, router, http.MethodGet, "/session", nil, "")
	var st SessionStatus
	_ = json.Unmarshal(w.Body.Bytes(), &st)
	if !st.Enabled || st.Provisioned {
		t.Errorf("status = %+v, want enabled and unprovisioned", st)
	}

	// First provision is open.
	w = doJSON(t, router, http.MethodPost, "/session/provision", LoginRequest{Password: "hunter2!"}, "")
	if w.Code != http.StatusNoContent {
		t.Fatalf("provision = %d, body = %s", w.Code, w.Body.String())
	}

	// Replacing the secret now requires a session.
	w = doJSON(t, router, http.MethodPost, "/session/provision", LoginRequest{Password: "newsecret"}, "")
	if w.Code != http.StatusUnauthorized {
		t.Errorf("reprovision without session = %d, want 401", w.Code)
	}

	// Short secrets are rejected.
	w = doJSON(t, router, http.MethodPost, "/session/login", LoginRequest{Password: "hunter2!"}, "")
	var login LoginResponse
	_ = json.Unmarshal(w.Body.Bytes(), &login)
	req := httptest.NewRequest(http.MethodPost, "/session/provision", bytes.NewReader([]byte(`{"password":"ab"}`)))
	req.Header.Set("Authorization", "Bearer "+login.Token)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("short secret = %d, want 400", rec.Code)
	}
}

type fakeAsker struct {
	reply string
	err   error
	snap  content.Context
	last  string
}

func (f *fakeAsker) Ask(_ context.Context, snap content.Context, _ []models.ChatMessage, msg string) (string, error) {
	f.snap = snap
	f.last = msg
	return f.reply, f.err
}

func TestChatUsesAssistant(t *testing.T) {
	asker := &fakeAsker{reply: "Happy to help."}
	_, router, _ := testEnvFull(t, nil, asker)

	w := doJSON(t, router, http.MethodPost, "/chat", ChatRequest{Message: "What do you do?"}, "")
	if w.Code != http.StatusOK {
		t.Fatalf("chat status = %d", w.Code)
	}
	var resp ChatResponse
	_ = json.Unmarshal(w.Body.Bytes(), &resp)
	if resp.Reply != "Happy to help." || resp.IsError {
		t.Errorf("resp = %+v", resp)
	}
	if asker.last != "What do you do?" {
		t.Errorf("asker got %q", asker.last)
	}
	if asker.snap.Profile.Name == "" {
		t.Error("asker should receive the content snapshot")
	}
}

func TestChatFallsBackOnFailure(t *testing.T) {
	asker := &fakeAsker{err: fmt.Errorf("quota exceeded")}
	_, router, _ := testEnvFull(t, nil, asker)

	w := doJSON(t, router, http.MethodPost, "/chat", ChatRequest{Message: "hi"}, "")
	if w.Code != http.StatusOK {
		t.Fatalf("chat status = %d, want 200 even on failure", w.Code)
	}
	var resp ChatResponse
	_ = json.Unmarshal(w.Body.Bytes(), &resp)
	if !resp.IsError || resp.Reply == "" {
		t.Errorf("resp = %+v, want fallback reply with isError", resp)
	}
}

func TestChatFallsBackWhenUnconfigured(t *testing.T) {
	_, router := testEnv(t)

	w := doJSON(t, router, http.MethodPost, "/chat", ChatRequest{Message: "hi"}, "")
	if w.Code != http.StatusOK {
		t.Fatalf("chat status = %d", w.Code)
	}
	var resp ChatResponse
	_ = json.Unmarshal(w.Body.Bytes(), &resp)
	if !resp.IsError {
		t.Error("unconfigured chat should flag the fallback reply")
	}
}

func uploadRequest(t *testing.T, filename string, body []byte) *http.Request {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	part, err := mw.CreateFormFile("file", filename)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := part.Write(body); err != nil {
		t.Fatal(err)
	}
	mw.Close()
	req := httptest.NewRequest(http.MethodPost, "/uploads", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	return req
}

func TestUploadAndServe(t *testing.T) {
	_, router, dir := testEnvFull(t, nil, nil)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, uploadRequest(t, "headshot.png", []byte("png-bytes")))
	if w.Code != http.StatusCreated {
		t.Fatalf("upload status = %d, body = %s", w.Code, w.Body.String())
	}
	var resp UploadResponse
	_ = json.Unmarshal(w.Body.Bytes(), &resp)
	if resp.URL != "/uploads/headshot.png" {
		t.Errorf("url = %q", resp.URL)
	}

	// Served back through the public file route.
	files := chi.NewRouter()
	files.Get("/uploads/{filename}", NewUploadHandler(dir).ServeFile)
	w = httptest.NewRecorder()
	files.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/uploads/headshot.png", nil))
	if w.Code != http.StatusOK {
		t.Fatalf("serve status = %d", w.Code)
	}
	if w.Body.String() != "png-bytes" {
		t.Errorf("served body = %q", w.Body.String())
	}
}

func TestUploadRejectsBadExtension(t *testing.T) {
	_, router := testEnv(t)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, uploadRequest(t, "payload.exe", []byte("nope")))
	if w.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", w.Code)
	}
}

func TestUploadRejectsTraversal(t *testing.T) {
	if _, err := safeName("../escape.png"); err == nil {
		t.Error("traversal filename should be rejected")
	}
	if _, err := safeName("a/b.png"); err == nil {
		t.Error("nested filename should be rejected")
	}
}
