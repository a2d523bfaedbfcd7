// Package bindings provides golang-based access
// to the LXD REST API.  Users can then interact with API endpoints
// to manage containers, images, aliases, profiles and operations.
//
// This package exposes a series of methods that allow users to firstly
// create their connection with the API endpoints.  Once the connection
// is established, users can then manage the daemon through the resource
// packages, or address any endpoint directly with the path builder:
//
//	ctx, err := bindings.NewConnection(context.Background(), "unix:///var/lib/lxd/unix.socket")
//	conn, err := bindings.GetClient(ctx)
//	response, err := conn.API().Segment("containers").Index("c1").Segment("state").Get(ctx, nil)
//
// Mutating calls answer with an async envelope; the operations package
// waits for them to complete.
package bindings

var (
	// PTrue is a convenience variable that can be used in bindings where
	// a pointer to a bool (optional parameter) is required.
	pTrue = true
	PTrue = &pTrue
	// PFalse is a convenience variable that can be used in bindings where
	// a pointer to a bool (optional parameter) is required.
	pFalse = false
	PFalse = &pFalse
)
