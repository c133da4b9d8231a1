package httpapi

import (
	"net/http"

	"example.com/bagels/internal/auth"
)

// RegisterRoutes mounts the account and simulation endpoints. Everything
// except register and login needs a bearer token.
func RegisterRoutes(mux *http.ServeMux, verifier auth.Verifier, authH *AuthHandler, simH *SimulateHandler) {
	requireAuth := AuthMiddleware(verifier)

	mux.HandleFunc("/api/auth/register", authH.Register)
	mux.HandleFunc("/api/auth/login", authH.Login)
	mux.Handle("/api/me", requireAuth(http.HandlerFunc(authH.Me)))
	mux.Handle("/api/birthday/simulate", requireAuth(http.HandlerFunc(simH.Simulate)))
}
