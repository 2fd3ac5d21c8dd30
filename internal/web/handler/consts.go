package handler

const (
	// RootPath is the root path of the route group.
	RootPath = "/"

	// RouterRootPath is the relative root inside a registered route group.
	RouterRootPath = "/"

	// APIPrefix is the path prefix shared by all admin API routes.
	APIPrefix = "/api"

	// ErrNilACDFatalLogMsg is used if app or cfg or db var pointer is nil.
	ErrNilACDFatalLogMsg = "app, cfg or db is nil"
)
