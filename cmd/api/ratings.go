package main

import (
	"errors"
	"net/http"
	"strconv"

	"ratehub/internal/domain/ratings"

	"github.com/go-chi/chi/v5"
)

type submitRatingPayload struct {
	Rating int `json:"rating" validate:"required,min=1,max=5"`
}

// submitRatingHandler godoc
//
//	@Summary		Submit or update a rating
//	@Description	Writes the caller's rating for a store. A resubmission overwrites the existing row; a user never holds more than one rating per store.
//	@Tags			ratings
//	@Accept			json
//	@Produce		json
//	@Param			storeID	path		int					true	"Store ID"
//	@Param			payload	body		submitRatingPayload	true	"Rating value (1-5)"
//	@Success		200		{object}	map[string]string	"Rating updated"
//	@Success		201		{object}	map[string]string	"Rating created"
//	@Failure		400		{object}	ErrorBadRequestResponse
//	@Failure		404		{object}	error
//	@Security		ApiKeyAuth
//	@Router			/ratings/{storeID} [post]
func (app *application) submitRatingHandler(w http.ResponseWriter, r *http.Request) {
	claims, ok := getClaimsFromContext(r)
	if !ok {
		app.unauthorizedErrorResponse(w, r, errors.New("missing authentication"))
		return
	}

	storeID, err := strconv.ParseInt(chi.URLParam(r, "storeID"), 10, 64)
	if err != nil {
		app.badRequestResponse(w, r, errors.New("invalid store ID"))
		return
	}

	var payload submitRatingPayload
	if err := readJSON(w, r, &payload); err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	if err := Validate.Struct(payload); err != nil {
		app.badRequestResponse(w, r, errors.New("rating must be between 1 and 5"))
		return
	}

	rating := &ratings.Rating{
		UserID:  claims.UserID,
		StoreID: storeID,
		Rating:  payload.Rating,
	}

	created, err := app.store.Ratings.Upsert(r.Context(), rating)
	if err != nil {
		switch {
		case errors.Is(err, ratings.ErrStoreNotFound):
			app.notFoundResponse(w, r, err)
		default:
			app.internalServerError(w, r, err)
		}
		return
	}

	if created {
		app.jsonResponse(w, http.StatusCreated, map[string]string{"message": "rating submitted successfully"})
		return
	}
	app.jsonResponse(w, http.StatusOK, map[string]string{"message": "rating updated successfully"})
}

// getStoreRatingsHandler godoc
//
//	@Summary		Store view with rating aggregate
//	@Description	Returns the store, its average rating recomputed on read, and the caller's own rating when present.
//	@Tags			ratings
//	@Produce		json
//	@Param			storeID	path		int	true	"Store ID"
//	@Success		200		{object}	ratings.StoreView
//	@Failure		404		{object}	error
//	@Security		ApiKeyAuth
//	@Router			/ratings/store/{storeID} [get]
func (app *application) getStoreRatingsHandler(w http.ResponseWriter, r *http.Request) {
	claims, ok := getClaimsFromContext(r)
	if !ok {
		app.unauthorizedErrorResponse(w, r, errors.New("missing authentication"))
		return
	}

	storeID, err := strconv.ParseInt(chi.URLParam(r, "storeID"), 10, 64)
	if err != nil {
		app.badRequestResponse(w, r, errors.New("invalid store ID"))
		return
	}

	view, err := app.store.Ratings.GetStoreView(r.Context(), storeID, claims.UserID)
	if err != nil {
		switch {
		case errors.Is(err, ratings.ErrStoreNotFound):
			app.notFoundResponse(w, r, err)
		default:
			app.internalServerError(w, r, err)
		}
		return
	}

	if err := app.jsonResponse(w, http.StatusOK, view); err != nil {
		app.internalServerError(w, r, err)
	}
}

// ownerDashboardHandler godoc
//
//	@Summary		Owner feedback dashboard
//	@Description	Lists every rating across the caller's stores ordered by most recent update, with one combined average.
//	@Tags			ratings
//	@Produce		json
//	@Success		200	{object}	ratings.OwnerFeedback
//	@Failure		403	{object}	error
//	@Security		ApiKeyAuth
//	@Router			/ratings/owner [get]
func (app *application) ownerDashboardHandler(w http.ResponseWriter, r *http.Request) {
	claims, ok := getClaimsFromContext(r)
	if !ok {
		app.unauthorizedErrorResponse(w, r, errors.New("missing authentication"))
		return
	}

	feedback, err := app.store.Ratings.GetOwnerFeedback(r.Context(), claims.UserID)
	if err != nil {
		app.internalServerError(w, r, err)
		return
	}

	if err := app.jsonResponse(w, http.StatusOK, feedback); err != nil {
		app.internalServerError(w, r, err)
	}
}
