package main

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"ratehub/internal/domain/stores"

	"github.com/go-chi/chi/v5"
)

type StorePayload struct {
	Name    string `json:"name" validate:"required,max=60"`
	Email   string `json:"email" validate:"required,email,max=255"`
	Address string `json:"address" validate:"max=400"`
	OwnerID *int64 `json:"owner_id"`
}

// createStoreHandler godoc
//
//	@Summary		Create a store
//	@Description	Creates a store with an optional owner account reference.
//	@Tags			stores
//	@Accept			json
//	@Produce		json
//	@Param			payload	body		StorePayload	true	"Store details"
//	@Success		201		{object}	stores.Store
//	@Failure		400		{object}	ErrorBadRequestResponse
//	@Failure		403		{object}	error
//	@Security		ApiKeyAuth
//	@Router			/stores [post]
func (app *application) createStoreHandler(w http.ResponseWriter, r *http.Request) {
	var payload StorePayload
	if err := readJSON(w, r, &payload); err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	if err := Validate.Struct(payload); err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	store := &stores.Store{
		Name:    payload.Name,
		Email:   payload.Email,
		Address: payload.Address,
		OwnerID: payload.OwnerID,
	}

	if err := app.store.Stores.Create(r.Context(), store); err != nil {
		switch {
		case errors.Is(err, stores.ErrUnknownOwner):
			app.badRequestResponse(w, r, err)
		default:
			app.internalServerError(w, r, err)
		}
		return
	}

	if err := app.jsonResponse(w, http.StatusCreated, store); err != nil {
		app.internalServerError(w, r, err)
	}
}

// listStoresHandler godoc
//
//	@Summary		List stores
//	@Description	Lists stores with their average ratings, optionally filtered by name, email or address substring.
//	@Tags			stores
//	@Produce		json
//	@Param			name	query		string	false	"Name filter"
//	@Param			email	query		string	false	"Email filter"
//	@Param			address	query		string	false	"Address filter"
//	@Success		200		{array}		stores.Store
//	@Security		ApiKeyAuth
//	@Router			/stores [get]
func (app *application) listStoresHandler(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	filters := stores.Filters{
		Name:    strings.TrimSpace(q.Get("name")),
		Email:   strings.TrimSpace(q.Get("email")),
		Address: strings.TrimSpace(q.Get("address")),
	}

	list, err := app.store.Stores.List(r.Context(), filters)
	if err != nil {
		app.internalServerError(w, r, err)
		return
	}

	if err := app.jsonResponse(w, http.StatusOK, list); err != nil {
		app.internalServerError(w, r, err)
	}
}

// getStoreHandler godoc
//
//	@Summary		Get a store
//	@Tags			stores
//	@Produce		json
//	@Param			storeID	path		int	true	"Store ID"
//	@Success		200		{object}	stores.Store
//	@Failure		404		{object}	error
//	@Security		ApiKeyAuth
//	@Router			/stores/{storeID} [get]
func (app *application) getStoreHandler(w http.ResponseWriter, r *http.Request) {
	storeID, err := strconv.ParseInt(chi.URLParam(r, "storeID"), 10, 64)
	if err != nil {
		app.badRequestResponse(w, r, errors.New("invalid store ID"))
		return
	}

	store, err := app.store.Stores.GetByID(r.Context(), storeID)
	if err != nil {
		switch {
		case errors.Is(err, stores.ErrNotFound):
			app.notFoundResponse(w, r, err)
		default:
			app.internalServerError(w, r, err)
		}
		return
	}

	if err := app.jsonResponse(w, http.StatusOK, store); err != nil {
		app.internalServerError(w, r, err)
	}
}

// updateStoreHandler godoc
//
//	@Summary		Update a store
//	@Tags			stores
//	@Accept			json
//	@Produce		json
//	@Param			storeID	path		int				true	"Store ID"
//	@Param			payload	body		StorePayload	true	"Store details"
//	@Success		200		{object}	map[string]string
//	@Failure		400		{object}	ErrorBadRequestResponse
//	@Failure		404		{object}	error
//	@Security		ApiKeyAuth
//	@Router			/stores/{storeID} [put]
func (app *application) updateStoreHandler(w http.ResponseWriter, r *http.Request) {
	storeID, err := strconv.ParseInt(chi.URLParam(r, "storeID"), 10, 64)
	if err != nil {
		app.badRequestResponse(w, r, errors.New("invalid store ID"))
		return
	}

	var payload StorePayload
	if err := readJSON(w, r, &payload); err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	if err := Validate.Struct(payload); err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	store := &stores.Store{
		ID:      storeID,
		Name:    payload.Name,
		Email:   payload.Email,
		Address: payload.Address,
		OwnerID: payload.OwnerID,
	}

	if err := app.store.Stores.Update(r.Context(), store); err != nil {
		switch {
		case errors.Is(err, stores.ErrNotFound):
			app.notFoundResponse(w, r, err)
		case errors.Is(err, stores.ErrUnknownOwner):
			app.badRequestResponse(w, r, err)
		default:
			app.internalServerError(w, r, err)
		}
		return
	}

	if err := app.jsonResponse(w, http.StatusOK, map[string]string{"message": "store updated successfully"}); err != nil {
		app.internalServerError(w, r, err)
	}
}

// deleteStoreHandler godoc
//
//	@Summary		Delete a store
//	@Tags			stores
//	@Produce		json
//	@Param			storeID	path		int	true	"Store ID"
//	@Success		200		{object}	map[string]string
//	@Failure		404		{object}	error
//	@Security		ApiKeyAuth
//	@Router			/stores/{storeID} [delete]
func (app *application) deleteStoreHandler(w http.ResponseWriter, r *http.Request) {
	storeID, err := strconv.ParseInt(chi.URLParam(r, "storeID"), 10, 64)
	if err != nil {
		app.badRequestResponse(w, r, errors.New("invalid store ID"))
		return
	}

	if err := app.store.Stores.Delete(r.Context(), storeID); err != nil {
		switch {
		case errors.Is(err, stores.ErrNotFound):
			app.notFoundResponse(w, r, err)
		default:
			app.internalServerError(w, r, err)
		}
		return
	}

	if err := app.jsonResponse(w, http.StatusOK, map[string]string{"message": "store deleted successfully"}); err != nil {
		app.internalServerError(w, r, err)
	}
}
