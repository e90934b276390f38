package server

import "stealdeals/pkg/contextx"

var logger = contextx.LoggerFromContextOrDefault //nolint:gochecknoglobals

// Server joins the HTTP servers of the storefront, the auth endpoints and the
// admin console under one router.
type Server struct {
	DealServer
	AuthServer
	AdminServer
}

func NewServer(
	dealServer DealServer,
	authServer AuthServer,
	adminServer AdminServer,
) Server {
	return Server{
		DealServer:  dealServer,
		AuthServer:  authServer,
		AdminServer: adminServer,
	}
}
