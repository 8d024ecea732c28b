package routes

import (
	"encoding/json"
	"log"
	"net/http"
	"time"

	"github.com/julienschmidt/httprouter"
	"github.com/victorjacobs/go-cn105/bridge"
)

type stateResponse struct {
	Vertical   string     `json:"vertical"`
	Horizontal string     `json:"horizontal"`
	Phase      string     `json:"phase"`
	Changed    bool       `json:"changed"`
	Sent       bool       `json:"sent"`
	LastChange *time.Time `json:"last_change,omitempty"`
}

func State(b *bridge.Bridge) func(http.ResponseWriter, *http.Request, httprouter.Params) {
	return func(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
		state := b.State()

		resp := stateResponse{
			Vertical:   state.Vertical,
			Horizontal: state.Horizontal,
			Phase:      state.Change.Phase().String(),
			Changed:    state.Change.HasChanged(),
			Sent:       state.Change.HasBeenSent(),
		}

		if state.Change.HasChanged() {
			lastChange := state.Change.LastChangeAt()
			resp.LastChange = &lastChange
		}

		w.Header().Set("Content-Type", "application/json")

		if marshaled, err := json.Marshal(resp); err != nil {
			log.Printf("error marshaling: %v", err)
			w.WriteHeader(http.StatusInternalServerError)
		} else {
			w.Write(marshaled)
		}
	}
}
