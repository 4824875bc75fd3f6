package session

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
)

func TestCredentials_Valid(t *testing.T) {
	tests := []struct {
		name  string
		creds Credentials
		want  bool
	}{
		{"both set", Credentials{UID: "u", Token: "t"}, true},
		{"missing uid", Credentials{Token: "t"}, false},
		{"missing token", Credentials{UID: "u"}, false},
		{"empty", Credentials{}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.creds.Valid(); got != tt.want {
				t.Errorf("Valid() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestStore(t *testing.T) {
	store := NewStore()

	if store.Get().Valid() {
		t.Error("New store should hold empty credentials")
	}

	store.Set(Credentials{UID: "u1", Token: "t1"})
	got := store.Get()
	if got.UID != "u1" || got.Token != "t1" {
		t.Errorf("Get() = %+v, want u1/t1", got)
	}

	store.Clear()
	if store.Get().Valid() {
		t.Error("Store should be empty after Clear")
	}
}

func TestStore_ConcurrentAccess(t *testing.T) {
	store := NewStore()

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(2)
		go func(i int) {
			defer wg.Done()
			store.Set(Credentials{UID: fmt.Sprintf("u%d", i), Token: "t"})
		}(i)
		go func() {
			defer wg.Done()
			_ = store.Get()
		}()
	}
	wg.Wait()

	if !store.Get().Valid() {
		t.Error("Store should hold valid credentials after writes")
	}
}

func TestRefresher_Refresh(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.SetCookie(w, &http.Cookie{Name: DefaultUIDCookie, Value: "uid-123", Path: "/"})
		http.SetCookie(w, &http.Cookie{Name: DefaultTokenCookie, Value: "tok-456", Path: "/"})
		fmt.Fprint(w, "<html>provider page</html>")
	}))
	defer server.Close()

	visitor, err := NewHTTPVisitor(server.URL)
	if err != nil {
		t.Fatalf("NewHTTPVisitor failed: %v", err)
	}

	store := NewStore()
	refresher := NewRefresher(visitor, store, "", "")

	creds, err := refresher.Refresh(context.Background())
	if err != nil {
		t.Fatalf("Refresh failed: %v", err)
	}

	if creds.UID != "uid-123" || creds.Token != "tok-456" {
		t.Errorf("Refresh returned %+v, want uid-123/tok-456", creds)
	}

	stored := store.Get()
	if stored != creds {
		t.Errorf("Store holds %+v, want %+v", stored, creds)
	}
}

func TestRefresher_MissingCookie(t *testing.T) {
	// Page loads fine but only sets one of the two expected cookies
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.SetCookie(w, &http.Cookie{Name: DefaultUIDCookie, Value: "uid-123", Path: "/"})
		fmt.Fprint(w, "ok")
	}))
	defer server.Close()

	visitor, err := NewHTTPVisitor(server.URL)
	if err != nil {
		t.Fatalf("NewHTTPVisitor failed: %v", err)
	}

	store := NewStore()
	refresher := NewRefresher(visitor, store, "", "")

	if _, err := refresher.Refresh(context.Background()); err == nil {
		t.Error("Expected error when token cookie is missing")
	}
	if store.Get().Valid() {
		t.Error("Store must not hold credentials after a failed refresh")
	}
}

func TestRefresher_PageError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "maintenance", http.StatusServiceUnavailable)
	}))
	defer server.Close()

	visitor, err := NewHTTPVisitor(server.URL)
	if err != nil {
		t.Fatalf("NewHTTPVisitor failed: %v", err)
	}

	refresher := NewRefresher(visitor, NewStore(), "", "")
	if _, err := refresher.Refresh(context.Background()); err == nil {
		t.Error("Expected error for failing provider page")
	}
}

func TestHTTPVisitor_CookieAcrossRedirect(t *testing.T) {
	// Cookie set on the redirect hop must still be visible afterwards,
	// like a browser following a page load
	mux := http.NewServeMux()
	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		http.SetCookie(w, &http.Cookie{Name: "SNUID", Value: "hop", Path: "/"})
		http.Redirect(w, r, "/landed", http.StatusFound)
	})
	mux.HandleFunc("/landed", func(w http.ResponseWriter, r *http.Request) {
		http.SetCookie(w, &http.Cookie{Name: "SUID", Value: "landed", Path: "/"})
		fmt.Fprint(w, "ok")
	})
	server := httptest.NewServer(mux)
	defer server.Close()

	visitor, err := NewHTTPVisitor(server.URL)
	if err != nil {
		t.Fatalf("NewHTTPVisitor failed: %v", err)
	}
	if err := visitor.Visit(context.Background()); err != nil {
		t.Fatalf("Visit failed: %v", err)
	}

	if v, ok := visitor.Cookie("SNUID"); !ok || v != "hop" {
		t.Errorf("Cookie(SNUID) = %q, %v; want hop", v, ok)
	}
	if v, ok := visitor.Cookie("SUID"); !ok || v != "landed" {
		t.Errorf("Cookie(SUID) = %q, %v; want landed", v, ok)
	}
}
