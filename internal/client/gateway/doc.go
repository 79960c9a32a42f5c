// Package gateway is the client of the AirControl REST API.
//
// # Overview
//
// HTTPClient wraps every endpoint the work-order client uses: login, the
// work-order CRUD and counters, client and technician lookups, staff
// registration and a liveness probe. All calls go through one helper that
// turns transport and HTTP failures into typed errors and normalizes
// response bodies.
//
// # Error Handling
//
// Failures are reported as:
//   - *NetworkError: the request never produced a response.
//   - *StatusError: the server answered outside 2xx; Code and Body are kept.
//   - *MalformedResponseError: a JSON body did not decode.
//   - ErrNoContent: a 204 where a body was expected.
//
// Kind maps any of them to a FailureKind for logging. IsUnauthorized,
// IsForbidden and IsConflict match the status codes with special meaning.
//
// # Response Shapes
//
// List endpoints answer either with a bare array or with an object carrying
// the array under "itens" or "items". ItemsEnvelope accepts all three.
package gateway
