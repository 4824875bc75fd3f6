package provider

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync"
	"testing"

	"codeberg.org/snonux/wordwire/internal/language"
	"codeberg.org/snonux/wordwire/internal/session"
)

// fakeProvider runs an httptest server acting as both the cookie-setting
// provider page and the translation API endpoint.
type fakeProvider struct {
	server *httptest.Server

	mu     sync.Mutex
	visits int
	posts  int

	// handleTranslate is called with the POST count (1-based)
	handleTranslate func(w http.ResponseWriter, r *http.Request, post int)
}

func newFakeProvider(handle func(w http.ResponseWriter, r *http.Request, post int)) *fakeProvider {
	f := &fakeProvider{handleTranslate: handle}

	mux := http.NewServeMux()
	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		f.mu.Lock()
		f.visits++
		n := f.visits
		f.mu.Unlock()
		http.SetCookie(w, &http.Cookie{Name: session.DefaultUIDCookie, Value: fmt.Sprintf("uid-%d", n), Path: "/"})
		http.SetCookie(w, &http.Cookie{Name: session.DefaultTokenCookie, Value: fmt.Sprintf("tok-%d", n), Path: "/"})
		fmt.Fprint(w, "provider page")
	})
	mux.HandleFunc(defaultTranslatePath, func(w http.ResponseWriter, r *http.Request) {
		f.mu.Lock()
		f.posts++
		n := f.posts
		f.mu.Unlock()
		f.handleTranslate(w, r, n)
	})

	f.server = httptest.NewServer(mux)
	return f
}

func (f *fakeProvider) counts() (visits, posts int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.visits, f.posts
}

func (f *fakeProvider) close() {
	f.server.Close()
}

func newTestClient(t *testing.T, f *fakeProvider) (*Client, *session.Store) {
	t.Helper()

	visitor, err := session.NewHTTPVisitor(f.server.URL)
	if err != nil {
		t.Fatalf("NewHTTPVisitor failed: %v", err)
	}
	store := session.NewStore()
	refresher := session.NewRefresher(visitor, store, "", "")

	client, err := NewClient(Config{BaseURL: f.server.URL}, language.DefaultTable(), store, refresher, visitor.Client())
	if err != nil {
		t.Fatalf("NewClient failed: %v", err)
	}
	return client, store
}

const goodBody = `{"status":0,"translate":{"from":"en","to":"zh-CHS","text":"cat","result":"猫","phonetic":"kæt"}}`

func TestTranslate_Success(t *testing.T) {
	var gotForm url.Values
	f := newFakeProvider(func(w http.ResponseWriter, r *http.Request, post int) {
		r.ParseForm()
		gotForm = r.PostForm
		fmt.Fprint(w, goodBody)
	})
	defer f.close()

	client, _ := newTestClient(t, f)

	result, err := client.Translate(context.Background(), "cat", "en", "zh-CN")
	if err != nil {
		t.Fatalf("Translate failed: %v", err)
	}

	if result.Meaning != "猫" {
		t.Errorf("Meaning = %q, want 猫", result.Meaning)
	}
	if result.Original != "cat" {
		t.Errorf("Original = %q, want cat", result.Original)
	}
	if result.SourceTag != "en" || result.TargetTag != "zh-CN" {
		t.Errorf("Tags = %s/%s, want en/zh-CN", result.SourceTag, result.TargetTag)
	}

	// Provider codes and tokens must be in the form
	if gotForm.Get("from") != "en" || gotForm.Get("to") != "zh-CHS" {
		t.Errorf("form codes = %s/%s, want en/zh-CHS", gotForm.Get("from"), gotForm.Get("to"))
	}
	if gotForm.Get("text") != "cat" {
		t.Errorf("form text = %q", gotForm.Get("text"))
	}
	if gotForm.Get("uid") != "uid-1" || gotForm.Get("token") != "tok-1" {
		t.Errorf("form tokens = %s/%s, want uid-1/tok-1", gotForm.Get("uid"), gotForm.Get("token"))
	}
}

func TestTranslate_RefreshRecoversStaleSession(t *testing.T) {
	f := newFakeProvider(func(w http.ResponseWriter, r *http.Request, post int) {
		r.ParseForm()
		if r.PostForm.Get("token") == "tok-1" {
			// Stale session: structurally valid but no translate block
			fmt.Fprint(w, `{"status":0}`)
			return
		}
		fmt.Fprint(w, goodBody)
	})
	defer f.close()

	client, _ := newTestClient(t, f)

	result, err := client.Translate(context.Background(), "cat", "en", "zh-CN")
	if err != nil {
		t.Fatalf("Translate failed: %v", err)
	}
	if result.Meaning != "猫" {
		t.Errorf("Meaning = %q, want 猫", result.Meaning)
	}

	visits, posts := f.counts()
	if posts != 2 {
		t.Errorf("posts = %d, want 2 (original + one retry)", posts)
	}
	if visits != 2 {
		t.Errorf("visits = %d, want 2 (initial fetch + one refresh)", visits)
	}
}

func TestTranslate_PersistentFailureExhaustsOneRetry(t *testing.T) {
	f := newFakeProvider(func(w http.ResponseWriter, r *http.Request, post int) {
		fmt.Fprint(w, `{"status":0}`)
	})
	defer f.close()

	client, _ := newTestClient(t, f)

	_, err := client.Translate(context.Background(), "cat", "en", "zh-CN")
	if err == nil {
		t.Fatal("Expected error under persistent provider failure")
	}

	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("Error is %T, want *APIError", err)
	}
	if apiErr.Kind != KindAPIError {
		t.Errorf("Kind = %q, want %q", apiErr.Kind, KindAPIError)
	}
	if apiErr.Status != http.StatusOK {
		t.Errorf("Status = %d, want last response status %d", apiErr.Status, http.StatusOK)
	}
	if apiErr.Raw == "" {
		t.Error("Raw response body missing from APIError")
	}

	_, posts := f.counts()
	if posts != 2 {
		t.Errorf("posts = %d, want exactly 2", posts)
	}
}

func TestTranslate_HTTPErrorDoesNotRetry(t *testing.T) {
	f := newFakeProvider(func(w http.ResponseWriter, r *http.Request, post int) {
		http.Error(w, `{"error":"forbidden"}`, http.StatusForbidden)
	})
	defer f.close()

	client, _ := newTestClient(t, f)

	_, err := client.Translate(context.Background(), "cat", "en", "zh-CN")
	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("Error is %T, want *APIError", err)
	}
	if apiErr.Status != http.StatusForbidden {
		t.Errorf("Status = %d, want 403", apiErr.Status)
	}
	if !strings.Contains(apiErr.Raw, "forbidden") {
		t.Errorf("Raw = %q, want body included", apiErr.Raw)
	}

	// A rejected request is not a stale session; no retry
	_, posts := f.counts()
	if posts != 1 {
		t.Errorf("posts = %d, want 1", posts)
	}
}

func TestTranslate_ReusesValidCredentials(t *testing.T) {
	f := newFakeProvider(func(w http.ResponseWriter, r *http.Request, post int) {
		fmt.Fprint(w, goodBody)
	})
	defer f.close()

	client, store := newTestClient(t, f)
	store.Set(session.Credentials{UID: "cached-uid", Token: "cached-tok"})

	if _, err := client.Translate(context.Background(), "cat", "en", "zh-CN"); err != nil {
		t.Fatalf("Translate failed: %v", err)
	}

	visits, _ := f.counts()
	if visits != 0 {
		t.Errorf("visits = %d, want 0 when credentials are already valid", visits)
	}
}

func TestTranslate_UnsupportedLanguages(t *testing.T) {
	f := newFakeProvider(func(w http.ResponseWriter, r *http.Request, post int) {
		fmt.Fprint(w, goodBody)
	})
	defer f.close()

	client, _ := newTestClient(t, f)
	ctx := context.Background()

	if _, err := client.Translate(ctx, "cat", "xx", "zh-CN"); err == nil {
		t.Error("Expected error for unsupported source tag")
	}
	if _, err := client.Translate(ctx, "cat", "en", "xx"); err == nil {
		t.Error("Expected error for unsupported target tag")
	}
	if _, err := client.Translate(ctx, "cat", "en", language.Auto); err == nil {
		t.Error("Expected error for auto target")
	}
	if _, err := client.Translate(ctx, "   ", "en", "zh-CN"); err == nil {
		t.Error("Expected error for blank text")
	}
}

func TestDetect(t *testing.T) {
	f := newFakeProvider(func(w http.ResponseWriter, r *http.Request, post int) {
		r.ParseForm()
		if r.PostForm.Get("from") != language.Auto {
			t.Errorf("detect sent from = %q, want auto", r.PostForm.Get("from"))
		}
		if r.PostForm.Get("to") != "en" {
			t.Errorf("detect sent to = %q, want fixed target en", r.PostForm.Get("to"))
		}
		fmt.Fprint(w, `{"status":0,"translate":{"from":"zh-CHS","to":"en","text":"猫","result":"cat"}}`)
	})
	defer f.close()

	client, _ := newTestClient(t, f)

	tag, err := client.Detect(context.Background(), "猫")
	if err != nil {
		t.Fatalf("Detect failed: %v", err)
	}
	if tag != "zh-CN" {
		t.Errorf("Detect = %q, want zh-CN", tag)
	}
}

func TestDetect_UnknownProviderCode(t *testing.T) {
	f := newFakeProvider(func(w http.ResponseWriter, r *http.Request, post int) {
		fmt.Fprint(w, `{"status":0,"translate":{"from":"klingon","to":"en","text":"x","result":"y"}}`)
	})
	defer f.close()

	client, _ := newTestClient(t, f)

	_, err := client.Detect(context.Background(), "x")
	if err == nil {
		t.Fatal("Expected error for unmapped provider code")
	}
	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		t.Errorf("Error is %T, want *APIError", err)
	}
}

func TestSpeechURL(t *testing.T) {
	table := language.DefaultTable()
	store := session.NewStore()
	client, err := NewClient(Config{BaseURL: "https://fanyi.example.com"}, table, store, nil, &http.Client{})
	if err != nil {
		t.Fatalf("NewClient failed: %v", err)
	}

	u, err := client.SpeechURL("hello world", "en", "sess-1")
	if err != nil {
		t.Fatalf("SpeechURL failed: %v", err)
	}

	parsed, err := url.Parse(u)
	if err != nil {
		t.Fatalf("SpeechURL produced invalid URL: %v", err)
	}
	if parsed.Path != defaultSpeechPath {
		t.Errorf("path = %q, want %q", parsed.Path, defaultSpeechPath)
	}
	q := parsed.Query()
	if q.Get("text") != "hello world" || q.Get("lang") != "en" || q.Get("uuid") != "sess-1" {
		t.Errorf("query = %v", q)
	}

	if _, err := client.SpeechURL("x", language.Auto, "s"); err == nil {
		t.Error("Expected error for auto speech language")
	}
}

func TestNewClient_RequiresBaseURL(t *testing.T) {
	_, err := NewClient(Config{}, language.DefaultTable(), session.NewStore(), nil, nil)
	if err == nil {
		t.Error("Expected error for missing base URL")
	}
}
