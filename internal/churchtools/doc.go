// Package churchtools provides a client for the REST API of a ChurchTools
// instance.
//
// The Client in this package handles:
//   - Login token authentication
//   - Paginated song listing via /api/songs
//   - Song tag listing via /api/tags?type=songs
//
// # Basic Usage
//
//	client, err := churchtools.NewClient(url, token, churchtools.WithPageSize(200))
//	if err != nil {
//	    return err
//	}
//
//	// Client implements library.Source
//	lib, err := client.Load(ctx)
//
// # Errors
//
// Responses other than 200 OK are returned as *StatusError:
//
//	var statusErr *churchtools.StatusError
//	if errors.As(err, &statusErr) && statusErr.StatusCode == http.StatusUnauthorized {
//	    // token expired
//	}
package churchtools
