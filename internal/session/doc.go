// Package session gates the storefront wizard on a stored login.
//
// Login state lives in the same kvstore.Store as the car selection under
// the keys accessToken, refreshToken, userId and userPhoneNumber. A session
// exists when an access token is stored and, if it is a JWT with an exp
// claim, that claim is still in the future. The token is decoded without
// verifying its signature: the client holds no key, and the API rejects
// forged tokens anyway.
//
// Manager implements catalog.TokenSource, so API requests pick up the
// bearer token directly. Logout removes the four session keys in one batch
// and leaves the car selection alone.
package session
