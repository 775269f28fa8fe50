package entities

import "errors"

var (
	// ErrConnection covers unreachable hosts, refused connections, timeouts
	// and protocol negotiation failures.
	ErrConnection = errors.New("connection failed")
	// ErrAuthentication means the device rejected the credentials.
	ErrAuthentication = errors.New("authentication failed")
	// ErrUnsupportedPlatform is returned for a vendor outside the supported set.
	ErrUnsupportedPlatform = errors.New("unsupported platform")
	// ErrCommandRejected means the device refused one of the show commands,
	// which usually points at the wrong vendor being selected.
	ErrCommandRejected = errors.New("command rejected by device")
	// ErrNoInterfaces means the session worked but no interface rows could be parsed.
	ErrNoInterfaces = errors.New("no interface information found")
)
