package routes

import (
	"errors"
	"io"
	"log"
	"net/http"
	"strings"

	"github.com/julienschmidt/httprouter"
	"github.com/victorjacobs/go-cn105/bridge"
	"github.com/victorjacobs/go-cn105/vane"
)

const maxLabelLength = 64

// Vane sets one vane axis; the request body is the label.
func Vane(b *bridge.Bridge) func(http.ResponseWriter, *http.Request, httprouter.Params) {
	return func(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
		axis, err := vane.ParseAxis(ps.ByName("axis"))
		if err != nil {
			http.Error(w, err.Error(), http.StatusNotFound)
			return
		}

		body, err := io.ReadAll(io.LimitReader(r.Body, maxLabelLength+1))
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}

		if len(body) > maxLabelLength {
			http.Error(w, "label too long", http.StatusRequestEntityTooLarge)
			return
		}

		if err := b.Select(axis, strings.TrimSpace(string(body))); err != nil {
			var unknown *vane.UnknownLabelError
			if errors.As(err, &unknown) {
				http.Error(w, err.Error(), http.StatusUnprocessableEntity)
				return
			}

			log.Printf("Error setting %v vane: %v", axis, err)
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}

		w.WriteHeader(http.StatusNoContent)
	}
}
