// Package auth provides identity resolution and access control.
//
// Callers authenticate with a signed HS256 token whose payload carries the
// username. The token is sent in the Authorization header, either bare or
// with a "Bearer " prefix.
//
// # Configuration
//
//	AUTH_SECRET_KEY=<secret>   # HMAC key used to sign tokens
//	AUTH_TOKEN_EXPIRY=720h     # 0 issues non-expiring tokens
//	AUTH_BCRYPT_COST=12        # bcrypt cost factor
//
// # Usage
//
// Resolve identity once per request, then guard routes:
//
//	tokens, _ := auth.NewTokenManager(cfg.Auth)
//	router.Use(auth.NewMiddleware(tokens).Handler())
//	router.GET("/lists/:id", auth.RequireIdentity(lists.Get))
//	router.PATCH("/users/:username", auth.RequireUser("username", users.Update))
//
// Handlers guarded this way receive the Identity as a parameter instead of
// reading it from request-scoped state. A missing or unverifiable token is
// never an error on its own; it only fails routes that require an identity.
package auth
