// Package cookie manages the HttpOnly cookie that carries the session token.
//
// Attributes come from COOKIE_* variables; SameSite defaults to Strict.
// Logout is a Delete: there is no server-side session to revoke.
package cookie
