// Package account implements user accounts with email and password
// authentication.
//
// The Service owns the account lifecycle: signup, email verification,
// login, password reset and session checks. It depends on four narrow
// collaborators:
//
//   - Storage persists users. MongoStorage, PostgresStorage and
//     MemoryStorage implement it.
//   - password.Hasher hashes and verifies secrets.
//   - SessionIssuer issues signed session tokens (pkg/jwt).
//   - Notifier delivers account emails. EmailNotifier renders templ
//     components and sends them through pkg/email.
//
// Verification codes and reset tokens are single use. Each user carries a
// version counter and every Storage.Update is conditional on it, so two
// requests consuming the same token race on one write and only one wins.
// Expiry is evaluated by the store at query time against the caller's
// clock.
//
// Router mounts the JSON API under a chi router:
//
//	r.Mount("/api/v1/auth", account.Router(svc, account.RouterConfig{
//		Sessions: jwtSvc,
//		Cookies:  cookies,
//		Limiter:  bucket,
//		Logger:   log,
//	}))
//
// Errors are sentinel values from errors.go. ErrorMapper translates them
// to handler.HTTPError values for the HTTP layer.
package account
