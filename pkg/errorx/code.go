package errorx

type Code int

var Unknown = Error{Code: 100000, Message: "Request failed"}

const (
	// Common codes
	BadRequest    Code = 100001
	BadResponse   Code = 100002
	NotFound      Code = 100004
	Internal      Code = 100007
	Unavailable   Code = 100008
	Configuration Code = 100012

	// Upstream codes, the image host or the chain failed.
	Upstream      Code = 200001
	UpstreamImage Code = 200002
	UpstreamChain Code = 200003
)
