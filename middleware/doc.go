// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package middleware provides HTTP middleware and helper functions.

# Request Logging

Wrap handlers with request logging:

	mux.HandleFunc("GET /health", middleware.WithLogging(handler))

Logs request start (method, path, remote) and completion (status,
duration_ms) through log/slog.

# Authentication

RequireAuth reads "Authorization: Bearer <token>", resolves it through an
Authenticator (auth.Guard in production) and stores the identity in the
request context. RequireRole narrows a route to one role:

	mux.HandleFunc("POST /candidates",
		middleware.RequireAuth(guard,
			middleware.RequireRole(models.RoleAdmin, h.Create)))

Handlers read the caller with IdentityFrom:

	identity, _ := middleware.IdentityFrom(r.Context())

A missing or invalid token answers 401; a wrong role answers 403.

# CORS Middleware

Enable cross-origin requests for frontend access (github.com/rs/cors):

	server := http.Server{
		Handler: middleware.CORS(mux),
	}

Allows any origin with methods GET, POST, PUT, DELETE, OPTIONS and headers
Content-Type, Authorization. Cookies are not allowed.

# JSON Helpers

Write JSON responses:

	middleware.JSONResponse(w, http.StatusOK, data)
	middleware.ErrorResponse(w, http.StatusBadRequest, "party is required")
	middleware.WriteError(w, err)

WriteError maps *apperr.Error kinds to status codes:

	validation      400
	authentication  401
	authorization   403
	not found       404
	conflict        409
	internal        500 (message replaced, cause logged)

Parse request bodies:

	var req models.CandidateRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.WriteError(w, err)
		return
	}

Bodies are capped at 64 KiB; unknown fields are rejected.

# Client IP

	ip := middleware.GetClientIP(r, cfg.TrustProxy)

With trustProxy set, checks X-Forwarded-For, then X-Real-IP, then
RemoteAddr. Without it only RemoteAddr counts, since the headers are set by
the client.
*/
package middleware
