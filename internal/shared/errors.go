package shared

import "fmt"

var (
	// Configuration errors
	ErrMissingConfig = fmt.Errorf("configuration not found")
	ErrInvalidConfig = fmt.Errorf("invalid configuration")

	// Connectivity and authentication errors
	ErrConnection  = fmt.Errorf("connection failed")
	ErrAuthFailed  = fmt.Errorf("authentication failed")
	ErrBadResponse = fmt.Errorf("bad response from server")

	// API payload errors
	ErrMalformedResponse = fmt.Errorf("unexpected response envelope")
	ErrNoMetadata        = fmt.Errorf("response contains no metadata")
	ErrNoPlaylists       = fmt.Errorf("no playlists found")
	ErrSectionNotFound   = fmt.Errorf("library section not found")

	// Merge errors
	ErrIneligibleType = fmt.Errorf("item type cannot be added to a collection")

	// Interaction errors
	ErrCancelled = fmt.Errorf("cancelled by user")

	// Input validation errors
	ErrInvalidInput    = fmt.Errorf("invalid input")
	ErrMissingArgument = fmt.Errorf("missing required argument")
	ErrInvalidArgument = fmt.Errorf("invalid argument")
)
