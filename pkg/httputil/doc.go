// Package httputil provides HTTP utilities shared by outbound API clients,
// primarily the ULM authentication client.
//
// # Retry
//
// [Retry] wraps HTTP calls with automatic retry for transient failures.
// Callers mark an error as transient by wrapping it in [RetryableError];
// anything else aborts immediately:
//
//	err := httputil.RetryWithBackoff(ctx, func() error {
//	    resp, err := client.Do(req)
//	    if err != nil {
//	        return &httputil.RetryableError{Err: err}
//	    }
//	    defer resp.Body.Close()
//	    if resp.StatusCode >= 500 {
//	        return &httputil.RetryableError{Err: fmt.Errorf("status %d", resp.StatusCode)}
//	    }
//	    return handle(resp)
//	})
//
// Typical candidates are network errors, 5xx server errors, and 429 rate
// limit responses. The delay doubles after each failed attempt and the
// retry loop respects context cancellation.
//
// # Configuration
//
// [RetryWithBackoff] uses 3 attempts with a 1 second initial delay, which
// suits the login and verification calls made against ULM. Use [Retry]
// directly for different budgets.
package httputil
