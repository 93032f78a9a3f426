package main

import (
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestWaitForHealth(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})

	srv := httptest.NewServer(mux)
	defer srv.Close()

	tests := []struct {
		name string
		url  string
		want bool
	}{
		{"healthy", srv.URL, true},
		{"wrong path", srv.URL + "/nested", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := waitForHealth(srv.Client(), tt.url, 0); got != tt.want {
				t.Errorf("waitForHealth(%s) = %v, want %v", tt.url, got, tt.want)
			}
		})
	}
}
