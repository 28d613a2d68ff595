package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"freedesktop.org/appstream/internal/config"
	"freedesktop.org/appstream/internal/pool"
	"freedesktop.org/appstream/models"
)

const testMetainfo = `<?xml version="1.0" encoding="UTF-8"?>
<component type="desktop-application">
  <id>org.example.Paint</id>
  <name>Paint</name>
  <name xml:lang="de">Malen</name>
  <summary>Draw colorful pictures</summary>
  <metadata_license>FSFAP</metadata_license>
  <categories>
    <category>Graphics</category>
  </categories>
  <provides>
    <binary>paint</binary>
  </provides>
</component>
`

func testServer(t *testing.T) *Server {
	t.Helper()

	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "org.example.Paint.metainfo.xml"), []byte(testMetainfo), 0o644); err != nil {
		t.Fatal(err)
	}

	state := t.TempDir()
	p := pool.New(pool.Options{
		Sources:         []pool.Source{{Path: dir, Kind: models.SourceKindMetainfo}},
		CachePath:       filepath.Join(state, "components.db"),
		FingerprintPath: filepath.Join(state, "fingerprint.json"),
		Locale:          "en",
	})
	if _, err := p.Refresh(context.Background(), false); err != nil {
		t.Fatalf("refresh: %v", err)
	}
	t.Cleanup(func() { p.Close() })

	cfg := &config.Config{
		Locale: config.LocaleConfig{Default: "en"},
		Search: config.SearchConfig{Backend: "memory"},
		Server: config.ServerConfig{
			Host:            "127.0.0.1",
			Port:            8095,
			ReadTimeout:     5 * time.Second,
			WriteTimeout:    5 * time.Second,
			ShutdownTimeout: time.Second,
		},
		Security: config.SecurityConfig{RateLimit: 0},
	}
	return New(cfg, p)
}

func doRequest(t *testing.T, s *Server, method, target string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, target, nil)
	rec := httptest.NewRecorder()
	s.ServeHTTP(rec, req)
	return rec
}

func TestHealthCheck(t *testing.T) {
	s := testServer(t)
	rec := doRequest(t, s, http.MethodGet, "/health")
	if rec.Code != http.StatusOK {
		t.Fatalf("health: %d %s", rec.Code, rec.Body)
	}

	var body map[string]interface{}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatal(err)
	}
	if body["status"] != "healthy" || body["components"].(float64) != 1 {
		t.Errorf("unexpected health payload: %v", body)
	}
}

func TestGetComponent(t *testing.T) {
	s := testServer(t)
	rec := doRequest(t, s, http.MethodGet, "/api/v1/components/org.example.Paint")
	if rec.Code != http.StatusOK {
		t.Fatalf("get: %d %s", rec.Code, rec.Body)
	}

	var view ComponentView
	if err := json.Unmarshal(rec.Body.Bytes(), &view); err != nil {
		t.Fatal(err)
	}
	if view.ID != "org.example.Paint" || view.Name != "Paint" {
		t.Errorf("unexpected component view: %+v", view)
	}
}

func TestGetComponent_LocaleParam(t *testing.T) {
	s := testServer(t)
	rec := doRequest(t, s, http.MethodGet, "/api/v1/components/org.example.Paint?locale=de")
	if rec.Code != http.StatusOK {
		t.Fatalf("get: %d %s", rec.Code, rec.Body)
	}

	var view ComponentView
	if err := json.Unmarshal(rec.Body.Bytes(), &view); err != nil {
		t.Fatal(err)
	}
	if view.Name != "Malen" {
		t.Errorf("locale parameter ignored, got name %q", view.Name)
	}
}

func TestGetComponent_AllLocales(t *testing.T) {
	s := testServer(t)
	rec := doRequest(t, s, http.MethodGet, "/api/v1/components/org.example.Paint?locale=ALL")
	if rec.Code != http.StatusOK {
		t.Fatalf("get: %d %s", rec.Code, rec.Body)
	}

	var view ComponentView
	if err := json.Unmarshal(rec.Body.Bytes(), &view); err != nil {
		t.Fatal(err)
	}
	if view.Name != "Paint" {
		t.Errorf("singular field must hold the untranslated value, got %q", view.Name)
	}
	if view.Names["C"] != "Paint" || view.Names["de"] != "Malen" {
		t.Errorf("expected full name mapping, got %v", view.Names)
	}
	if view.Summaries["C"] != "Draw colorful pictures" {
		t.Errorf("expected full summary mapping, got %v", view.Summaries)
	}
}

func TestGetComponent_NotFound(t *testing.T) {
	s := testServer(t)
	rec := doRequest(t, s, http.MethodGet, "/api/v1/components/org.example.Missing")
	if rec.Code != http.StatusNotFound {
		t.Errorf("want 404, got %d %s", rec.Code, rec.Body)
	}
}

func TestSearch(t *testing.T) {
	s := testServer(t)
	rec := doRequest(t, s, http.MethodGet, "/api/v1/search?q=drawing")
	if rec.Code != http.StatusOK {
		t.Fatalf("search: %d %s", rec.Code, rec.Body)
	}

	var body struct {
		Count      int             `json:"count"`
		Components []ComponentView `json:"components"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatal(err)
	}
	if body.Count != 1 || body.Components[0].ID != "org.example.Paint" {
		t.Errorf("unexpected search result: %+v", body)
	}
}

func TestSearch_MissingQuery(t *testing.T) {
	s := testServer(t)
	rec := doRequest(t, s, http.MethodGet, "/api/v1/search")
	if rec.Code != http.StatusBadRequest {
		t.Errorf("want 400, got %d", rec.Code)
	}

	var apiErr APIError
	if err := json.Unmarshal(rec.Body.Bytes(), &apiErr); err != nil {
		t.Fatal(err)
	}
	if apiErr.FieldError["q"] == "" {
		t.Errorf("expected a field error for q, got %s", rec.Body)
	}
}

func TestWhatProvides(t *testing.T) {
	s := testServer(t)
	rec := doRequest(t, s, http.MethodGet, "/api/v1/provided/bin/paint")
	if rec.Code != http.StatusOK {
		t.Fatalf("provided: %d %s", rec.Code, rec.Body)
	}

	var body struct {
		Count int `json:"count"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatal(err)
	}
	if body.Count != 1 {
		t.Errorf("unexpected provided result: %s", rec.Body)
	}

	if rec := doRequest(t, s, http.MethodGet, "/api/v1/provided/nonsense/xyz"); rec.Code != http.StatusBadRequest {
		t.Errorf("unknown kind must 400, got %d", rec.Code)
	}
}

func TestByCategories(t *testing.T) {
	s := testServer(t)
	rec := doRequest(t, s, http.MethodGet, "/api/v1/categories?name=Graphics&name=Office")
	if rec.Code != http.StatusOK {
		t.Fatalf("categories: %d %s", rec.Code, rec.Body)
	}

	var body struct {
		Count int `json:"count"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatal(err)
	}
	if body.Count != 1 {
		t.Errorf("unexpected category result: %s", rec.Body)
	}
}

func TestRefreshEndpoint(t *testing.T) {
	s := testServer(t)
	rec := doRequest(t, s, http.MethodPost, "/api/v1/refresh?force=true")
	if rec.Code != http.StatusOK {
		t.Fatalf("refresh: %d %s", rec.Code, rec.Body)
	}

	var body map[string]interface{}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatal(err)
	}
	if body["outcome"] != "success" || body["from_cache"] != false {
		t.Errorf("unexpected refresh payload: %v", body)
	}
}

func TestValidateEndpoint(t *testing.T) {
	s := testServer(t)
	rec := doRequest(t, s, http.MethodPost, "/api/v1/components/org.example.Paint/validate")
	if rec.Code != http.StatusOK {
		t.Fatalf("validate: %d %s", rec.Code, rec.Body)
	}

	var body struct {
		Valid bool `json:"valid"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatal(err)
	}
	if !body.Valid {
		t.Errorf("expected valid component: %s", rec.Body)
	}
}

func TestInvalidAcceptHeader(t *testing.T) {
	s := testServer(t)
	req := httptest.NewRequest(http.MethodGet, "/api/v1/components/org.example.Paint", nil)
	req.Header.Set("Accept", "text/html")
	rec := httptest.NewRecorder()
	s.ServeHTTP(rec, req)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("non-JSON accept header must 400, got %d", rec.Code)
	}
}
