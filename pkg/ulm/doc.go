// Package ulm provides a client for the ULM authentication service.
//
// # Overview
//
// ULM (User Login Manager) is the central authentication service; this
// package covers the two calls SAM makes against it:
//
//   - [Client.ServiceToken]: log in with service credentials and cache the
//     returned access token until shortly before expiry
//   - [Client.Verify]: check a user's bearer token and return its identity
//
// # Token refresh
//
// The service token is refreshed through a single-flight group: when the
// cached token is within 30 seconds of expiry, concurrent callers all wait
// on one login request instead of each issuing their own. Responses without
// an expires_in field fall back to a 10 minute lifetime.
//
// # Usage
//
//	client := ulm.New(ulm.Config{
//	    BaseURL:   "https://ulm.example.io",
//	    AppSource: "sam",
//	    Username:  os.Getenv("ULM_SERVICE_USERNAME"),
//	    Password:  os.Getenv("ULM_SERVICE_PASSWORD"),
//	})
//
//	identity, err := client.Verify(ctx, r.Header.Get("Authorization"))
//	if errors.Is(err, errors.ErrCodeUnauthorized) {
//	    // reject the request
//	}
//
// Every request carries the X-App-Source header so ULM can attribute calls
// to this service.
package ulm
