package main

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"testing"

	"ratehub/internal/domain/stores"
	"ratehub/internal/domain/users"
)

func TestCreateStore(t *testing.T) {
	app := newTestApplication(t)
	mux := app.mount()

	adminToken := bearerToken(t, app, 1, users.RoleAdmin)

	t.Run("only admins may create stores", func(t *testing.T) {
		req := jsonRequest(t, http.MethodPost, "/stores/", `{"name":"shop","email":"shop@example.com"}`)
		req.Header.Set("Authorization", bearerToken(t, app, 2, users.RoleStoreOwner))
		rr := executeRequest(req, mux)
		checkResponseCode(t, http.StatusForbidden, rr.Code)
	})

	t.Run("creates a store", func(t *testing.T) {
		body := `{"name":"corner-shop","email":"corner@example.com","address":"1 Main St"}`
		req := jsonRequest(t, http.MethodPost, "/stores/", body)
		req.Header.Set("Authorization", adminToken)
		rr := executeRequest(req, mux)
		checkResponseCode(t, http.StatusCreated, rr.Code)

		var envelope struct {
			Data stores.Store `json:"data"`
		}
		if err := json.NewDecoder(rr.Body).Decode(&envelope); err != nil {
			t.Fatalf("decode response: %v", err)
		}
		if envelope.Data.ID == 0 {
			t.Error("expected a non-zero store ID")
		}
	})

	t.Run("rejects an invalid payload", func(t *testing.T) {
		req := jsonRequest(t, http.MethodPost, "/stores/", `{"name":"no-email"}`)
		req.Header.Set("Authorization", adminToken)
		rr := executeRequest(req, mux)
		checkResponseCode(t, http.StatusBadRequest, rr.Code)
	})
}

func TestListAndGetStores(t *testing.T) {
	app := newTestApplication(t)
	mux := app.mount()

	repo := app.store.Stores.(*fakeStoreRepo)
	repo.add(&stores.Store{Name: "alpha-mart", Email: "alpha@example.com", Address: "North Rd"})
	beta := repo.add(&stores.Store{Name: "beta-mart", Email: "beta@example.com", Address: "South Rd"})

	token := bearerToken(t, app, 1, users.RoleUser)

	t.Run("lists every store for any authenticated caller", func(t *testing.T) {
		req := jsonRequest(t, http.MethodGet, "/stores/", "")
		req.Header.Set("Authorization", token)
		rr := executeRequest(req, mux)
		checkResponseCode(t, http.StatusOK, rr.Code)

		var envelope struct {
			Data []stores.Store `json:"data"`
		}
		if err := json.NewDecoder(rr.Body).Decode(&envelope); err != nil {
			t.Fatalf("decode response: %v", err)
		}
		if len(envelope.Data) != 2 {
			t.Errorf("expected 2 stores, got %d", len(envelope.Data))
		}
	})

	t.Run("filters by name substring", func(t *testing.T) {
		req := jsonRequest(t, http.MethodGet, "/stores/?name=beta", "")
		req.Header.Set("Authorization", token)
		rr := executeRequest(req, mux)
		checkResponseCode(t, http.StatusOK, rr.Code)

		var envelope struct {
			Data []stores.Store `json:"data"`
		}
		if err := json.NewDecoder(rr.Body).Decode(&envelope); err != nil {
			t.Fatalf("decode response: %v", err)
		}
		if len(envelope.Data) != 1 || envelope.Data[0].Name != "beta-mart" {
			t.Errorf("expected only beta-mart, got %+v", envelope.Data)
		}
	})

	t.Run("gets one store", func(t *testing.T) {
		req := jsonRequest(t, http.MethodGet, fmt.Sprintf("/stores/%d", beta.ID), "")
		req.Header.Set("Authorization", token)
		rr := executeRequest(req, mux)
		checkResponseCode(t, http.StatusOK, rr.Code)
	})

	t.Run("404 for a missing store", func(t *testing.T) {
		req := jsonRequest(t, http.MethodGet, "/stores/9999", "")
		req.Header.Set("Authorization", token)
		rr := executeRequest(req, mux)
		checkResponseCode(t, http.StatusNotFound, rr.Code)
	})
}

func TestUpdateAndDeleteStore(t *testing.T) {
	app := newTestApplication(t)
	mux := app.mount()

	repo := app.store.Stores.(*fakeStoreRepo)
	store := repo.add(&stores.Store{Name: "old-name", Email: "old@example.com"})

	adminToken := bearerToken(t, app, 1, users.RoleAdmin)
	storeURL := fmt.Sprintf("/stores/%d", store.ID)

	t.Run("non-admins may not update", func(t *testing.T) {
		req := jsonRequest(t, http.MethodPut, storeURL, `{"name":"new-name","email":"new@example.com"}`)
		req.Header.Set("Authorization", bearerToken(t, app, 2, users.RoleUser))
		rr := executeRequest(req, mux)
		checkResponseCode(t, http.StatusForbidden, rr.Code)
	})

	t.Run("updates a store", func(t *testing.T) {
		req := jsonRequest(t, http.MethodPut, storeURL, `{"name":"new-name","email":"new@example.com"}`)
		req.Header.Set("Authorization", adminToken)
		rr := executeRequest(req, mux)
		checkResponseCode(t, http.StatusOK, rr.Code)

		updated, err := repo.GetByID(context.Background(), store.ID)
		if err != nil {
			t.Fatalf("get store: %v", err)
		}
		if updated.Name != "new-name" {
			t.Errorf("expected updated name, got %q", updated.Name)
		}
	})

	t.Run("update of a missing store is a 404", func(t *testing.T) {
		req := jsonRequest(t, http.MethodPut, "/stores/9999", `{"name":"x","email":"x@example.com"}`)
		req.Header.Set("Authorization", adminToken)
		rr := executeRequest(req, mux)
		checkResponseCode(t, http.StatusNotFound, rr.Code)
	})

	t.Run("deletes a store", func(t *testing.T) {
		req := jsonRequest(t, http.MethodDelete, storeURL, "")
		req.Header.Set("Authorization", adminToken)
		rr := executeRequest(req, mux)
		checkResponseCode(t, http.StatusOK, rr.Code)

		if _, err := repo.GetByID(context.Background(), store.ID); err == nil {
			t.Error("expected the store to be gone")
		}
	})

	t.Run("delete of a missing store is a 404", func(t *testing.T) {
		req := jsonRequest(t, http.MethodDelete, storeURL, "")
		req.Header.Set("Authorization", adminToken)
		rr := executeRequest(req, mux)
		checkResponseCode(t, http.StatusNotFound, rr.Code)
	})
}
