package routes

import (
	"github.com/julienschmidt/httprouter"
	"github.com/victorjacobs/go-cn105/bridge"
)

func New(b *bridge.Bridge) *httprouter.Router {
	router := httprouter.New()
	router.GET("/state", State(b))
	router.PUT("/vane/:axis", Vane(b))

	return router
}
