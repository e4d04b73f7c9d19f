// Package jwt issues and verifies signed session tokens.
//
// Tokens are HS256 JWTs built with github.com/golang-jwt/jwt/v5 and carry the
// user id (userId and sub), issued-at, expiry and issuer. There is no
// server-side revocation: a token stays valid until it expires, so logging out
// means dropping the client copy.
//
//	svc, err := jwt.NewFromString(cfg.JWTSecret)
//	if err != nil {
//		// missing secret: refuse to start
//	}
//	token, expiresAt, err := svc.Issue(user.ID)
//
// Middleware guards routes and exposes the verified user id through
// UserIDFromContext.
package jwt
