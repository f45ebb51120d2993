// Package services defines the [Catalog] interface for the read-only music catalog and implements it for Jamendo.
//
// # Catalog Interface
//
// Views depend on [Catalog] rather than a concrete client so they can be exercised against test doubles.
// Every operation is a single GET; there is no retry policy and responses are trusted as-is.
//
// # Jamendo Implementation
//
// [JamendoService] issues GET {base}/{endpoint}?client_id=...&format=jsonpretty plus operation parameters,
// decodes the {headers, results} envelope and returns typed [models] values.
//
// An optional [rate.Limiter] spaces requests client side.
//
// # Error Handling
//
// The two failure channels are distinguishable with errors.As:
//   - [shared.RequestError] : transport failure or non-2xx status (matches [shared.ErrRequestFailed])
//   - [shared.APIError] : headers.code != 0 in a delivered envelope (matches [shared.ErrCatalogAPI])
//
// # Raw Access
//
// [APIService] performs unparsed GETs against the catalog for the `api get` debugging command.
package services
