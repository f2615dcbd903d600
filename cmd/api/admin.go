package main

import (
	"context"
	"net/http"
	"strings"
	"time"

	"ratehub/internal/domain/users"
	"ratehub/internal/params"
)

// adminDashboardHandler godoc
//
//	@Summary		Admin overview totals
//	@Description	Returns totals for the admin dashboard: users, stores, ratings.
//	@Tags			admin
//	@Produce		json
//	@Success		200	{object}	admindashboard.Overview
//	@Failure		401	{object}	error
//	@Failure		403	{object}	error
//	@Security		ApiKeyAuth
//	@Router			/admin/dashboard [get]
func (app *application) adminDashboardHandler(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	out, err := app.store.AdminDashboard.GetOverview(ctx)
	if err != nil {
		app.internalServerError(w, r, err)
		return
	}

	_ = app.jsonResponse(w, http.StatusOK, out)
}

// Full paginated response for the admin user listing
type UserListWithMetaResponse struct {
	Users      []users.User      `json:"users"`
	Pagination params.Pagination `json:"pagination"`
}

// adminListUsersHandler godoc
//
//	@Summary		List users (admin)
//	@Description	Paginated user list with optional name/email substring and role filters.
//	@Tags			admin
//	@Produce		json
//	@Param			name	query		string	false	"Name substring filter"
//	@Param			email	query		string	false	"Email substring filter"
//	@Param			role	query		string	false	"Exact role filter (user|storeOwner|admin)"
//	@Param			page	query		int		false	"Page number"		default(1)
//	@Param			limit	query		int		false	"Items per page"	default(15)
//	@Success		200		{object}	UserListWithMetaResponse
//	@Failure		403		{object}	error
//	@Security		ApiKeyAuth
//	@Router			/admin/users [get]
func (app *application) adminListUsersHandler(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	q := r.URL.Query()

	p := params.ParsePagination(q)

	filters := users.Filters{
		Name:  strings.TrimSpace(q.Get("name")),
		Email: strings.TrimSpace(q.Get("email")),
		Role:  strings.TrimSpace(q.Get("role")),
	}

	list, total, err := app.store.Users.List(ctx, filters, p.Limit, p.Offset)
	if err != nil {
		app.internalServerError(w, r, err)
		return
	}

	p.ComputeMeta(total)

	out := UserListWithMetaResponse{
		Users:      list,
		Pagination: p,
	}

	_ = app.jsonResponse(w, http.StatusOK, out)
}
