package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/ndewijer/portfolio-ledger/internal/service"
	"github.com/ndewijer/portfolio-ledger/internal/testutil"
)

func TestSystemHandler_Health(t *testing.T) {
	rows := testutil.NewLedger().Deposit("2024-01-02", accountA, 1000).Rows()

	t.Run("returns healthy status when database is connected and a ledger is loaded", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		store := service.NewSnapshotStore()
		store.Store(testutil.LoadSnapshot(t, rows, nil, nil))
		handler := NewSystemHandler(service.NewSystemService(db, store))

		w := httptest.NewRecorder()
		handler.Health(w, testutil.NewRequestWithQueryParams(http.MethodGet, "/api/system/health", nil))

		if w.Code != http.StatusOK {
			t.Errorf("Expected 200, got %d: %s", w.Code, w.Body.String())
		}

		var response HealthResponse
		//nolint:errcheck // Test assertion - decode failure would cause test to fail anyway
		json.NewDecoder(w.Body).Decode(&response)

		if response.Status != "healthy" {
			t.Errorf("Expected status 'healthy', got '%s'", response.Status)
		}
		if response.Database != "connected" {
			t.Errorf("Expected database 'connected', got '%s'", response.Database)
		}
		if response.Snapshot == "" {
			t.Error("Expected snapshot ID")
		}
	})

	t.Run("returns 503 before the first load", func(t *testing.T) {
		handler := NewSystemHandler(service.NewSystemService(nil, service.NewSnapshotStore()))

		w := httptest.NewRecorder()
		handler.Health(w, testutil.NewRequestWithQueryParams(http.MethodGet, "/api/system/health", nil))

		if w.Code != http.StatusServiceUnavailable {
			t.Errorf("Expected 503, got %d", w.Code)
		}

		var response HealthResponse
		//nolint:errcheck // Test assertion - decode failure would cause test to fail anyway
		json.NewDecoder(w.Body).Decode(&response)

		if response.Database != "disabled" {
			t.Errorf("Expected database 'disabled', got '%s'", response.Database)
		}
		if response.Error == "" {
			t.Error("Expected error message")
		}
	})

	t.Run("returns 503 when database is disconnected", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		store := service.NewSnapshotStore()
		store.Store(testutil.LoadSnapshot(t, rows, nil, nil))
		handler := NewSystemHandler(service.NewSystemService(db, store))

		db.Close()

		w := httptest.NewRecorder()
		handler.Health(w, testutil.NewRequestWithQueryParams(http.MethodGet, "/api/system/health", nil))

		if w.Code != http.StatusServiceUnavailable {
			t.Errorf("Expected 503, got %d", w.Code)
		}

		var response HealthResponse
		//nolint:errcheck // Test assertion - decode failure would cause test to fail anyway
		json.NewDecoder(w.Body).Decode(&response)

		if response.Database != "disconnected" {
			t.Errorf("Expected database 'disconnected', got '%s'", response.Database)
		}
	})
}

func TestSystemHandler_Version(t *testing.T) {
	handler := NewSystemHandler(service.NewSystemService(nil, service.NewSnapshotStore()))

	w := httptest.NewRecorder()
	handler.Version(w, testutil.NewRequestWithQueryParams(http.MethodGet, "/api/system/version", nil))

	if w.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d", w.Code)
	}

	var response VersionResponse
	//nolint:errcheck // Test assertion - decode failure would cause test to fail anyway
	json.NewDecoder(w.Body).Decode(&response)

	if response.AppVersion != "dev" {
		t.Errorf("Expected version 'dev', got '%s'", response.AppVersion)
	}
}
