// Package client talks to the neatly server on behalf of the CLI.
//
// HTTPClient covers the REST auth flow under /api/auth. The refresh token
// only ever travels as a cookie, so HTTPClient reads it from Set-Cookie on
// register, login and refresh and sends it back explicitly on refresh and
// logout. GRPCClient reaches the gRPC listener for health checks and the
// Identity/Me call.
//
// Transport failures and well-known HTTP statuses / gRPC codes are mapped to
// the sentinel errors in errors.go; match them with errors.Is.
package client
