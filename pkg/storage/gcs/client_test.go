package gcs

import (
	"context"
	"crypto/rand"
	"crypto/rsa"
	"crypto/x509"
	"encoding/pem"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return &Client{
		httpClient: srv.Client(),
		endpoint:   srv.URL,
		bucket:     "vendor-docs",
		tokenSource: &tokenSource{
			fetch: func(context.Context) (string, time.Time, error) {
				return "test-token", time.Now().Add(time.Hour), nil
			},
		},
	}
}

func TestUploadSendsMediaRequest(t *testing.T) {
	var gotPath, gotQuery, gotAuth, gotType, gotBody string
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotQuery = r.URL.RawQuery
		gotAuth = r.Header.Get("Authorization")
		gotType = r.Header.Get("Content-Type")
		b, _ := io.ReadAll(r.Body)
		gotBody = string(b)
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"name":"vendors/1/logo.png"}`))
	})

	err := client.Upload(context.Background(), "vendors/1/logo.png", "image/png", strings.NewReader("png-bytes"))
	if err != nil {
		t.Fatalf("upload failed: %v", err)
	}
	if gotPath != "/upload/storage/v1/b/vendor-docs/o" {
		t.Fatalf("unexpected path %q", gotPath)
	}
	if !strings.Contains(gotQuery, "uploadType=media") || !strings.Contains(gotQuery, "name=vendors%2F1%2Flogo.png") {
		t.Fatalf("unexpected query %q", gotQuery)
	}
	if gotAuth != "Bearer test-token" {
		t.Fatalf("unexpected auth header %q", gotAuth)
	}
	if gotType != "image/png" || gotBody != "png-bytes" {
		t.Fatalf("unexpected payload type=%q body=%q", gotType, gotBody)
	}
}

func TestUploadSurfacesErrorBody(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "bucket quota exceeded", http.StatusForbidden)
	})

	err := client.Upload(context.Background(), "obj", "application/pdf", strings.NewReader("x"))
	if err == nil || !strings.Contains(err.Error(), "bucket quota exceeded") {
		t.Fatalf("expected error body in message, got %v", err)
	}
	if err := client.Upload(context.Background(), " ", "", strings.NewReader("x")); err == nil {
		t.Fatalf("expected empty object name to fail")
	}
}

func TestDeleteToleratesMissingObject(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodDelete {
			t.Errorf("unexpected method %s", r.Method)
		}
		w.WriteHeader(http.StatusNotFound)
	})
	if err := client.Delete(context.Background(), "vendors/1/gone.pdf"); err != nil {
		t.Fatalf("delete of missing object should succeed: %v", err)
	}
}

func TestPing(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("maxResults") != "1" {
			t.Errorf("expected maxResults=1, got %q", r.URL.RawQuery)
		}
		_, _ = w.Write([]byte(`{"items":[]}`))
	})
	if err := client.Ping(context.Background()); err != nil {
		t.Fatalf("ping failed: %v", err)
	}

	var nilClient *Client
	if err := nilClient.Ping(context.Background()); err == nil {
		t.Fatalf("expected nil client ping to fail")
	}
}

func TestTokenSourceCachesUntilExpiry(t *testing.T) {
	var calls int32
	ts := &tokenSource{
		fetch: func(context.Context) (string, time.Time, error) {
			atomic.AddInt32(&calls, 1)
			return "tok", time.Now().Add(time.Hour), nil
		},
	}
	for i := 0; i < 3; i++ {
		if _, err := ts.Token(context.Background()); err != nil {
			t.Fatalf("token: %v", err)
		}
	}
	if atomic.LoadInt32(&calls) != 1 {
		t.Fatalf("expected single fetch, got %d", calls)
	}

	ts.expiry = time.Now().Add(30 * time.Second)
	if _, err := ts.Token(context.Background()); err != nil {
		t.Fatalf("token: %v", err)
	}
	if atomic.LoadInt32(&calls) != 2 {
		t.Fatalf("expected refresh inside margin, got %d", calls)
	}
}

func TestParsePrivateKeyFormats(t *testing.T) {
	key, err := rsa.GenerateKey(rand.Reader, 2048)
	if err != nil {
		t.Fatalf("generate key: %v", err)
	}

	pkcs1 := pem.EncodeToMemory(&pem.Block{Type: "RSA PRIVATE KEY", Bytes: x509.MarshalPKCS1PrivateKey(key)})
	if _, err := parsePrivateKey(string(pkcs1)); err != nil {
		t.Fatalf("pkcs1 parse failed: %v", err)
	}

	der, err := x509.MarshalPKCS8PrivateKey(key)
	if err != nil {
		t.Fatalf("marshal pkcs8: %v", err)
	}
	pkcs8 := pem.EncodeToMemory(&pem.Block{Type: "PRIVATE KEY", Bytes: der})
	if _, err := parsePrivateKey(string(pkcs8)); err != nil {
		t.Fatalf("pkcs8 parse failed: %v", err)
	}

	if _, err := parsePrivateKey("not pem"); err == nil {
		t.Fatalf("expected invalid pem error")
	}

	assertion, err := signAssertion("svc@example.com", tokenEndpoint, key, time.Now())
	if err != nil {
		t.Fatalf("sign assertion: %v", err)
	}
	if strings.Count(assertion, ".") != 2 {
		t.Fatalf("assertion should be a compact JWT, got %q", assertion)
	}
}
