// Package errs defines the client-facing error shape of the API.
//
// Every failure a request can end in (missing composer, out of range
// difficulty, database constraint rejection) is expressed as an *HTTPError so
// the global error handler can render one consistent JSON body:
//
//   - Return consistent error shapes to API clients (JSON).
//   - Support field-level validation errors.
//   - Provide errors that play nicely with Go's standard errors package.
package errs
