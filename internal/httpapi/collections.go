package httpapi

import (
	"net/http"

	"github.com/gorilla/mux"

	"useraccounts/internal/apperr"
	"useraccounts/internal/http/middleware"
)

// mountCollection registers list, add and remove for one collection under prefix.
func (s *Server) mountCollection(r *mux.Router, prefix string, svc CollectionService) {
	r.HandleFunc(prefix, s.collectionHandler(svc, listItems)).Methods(http.MethodGet)
	r.HandleFunc(prefix+"/{id}", s.collectionHandler(svc, addItem)).Methods(http.MethodPut)
	r.HandleFunc(prefix+"/{id}", s.collectionHandler(svc, removeItem)).Methods(http.MethodDelete)
}

type collectionOp int

const (
	listItems collectionOp = iota
	addItem
	removeItem
)

func (s *Server) collectionHandler(svc CollectionService, op collectionOp) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		identity, ok := middleware.IdentityFrom(r.Context())
		if !ok {
			writeJSON(w, http.StatusUnauthorized, errorResponse{Error: "no auth token"})
			return
		}
		itemID := mux.Vars(r)["id"]

		var (
			items []string
			err   error
		)
		switch op {
		case listItems:
			items, err = svc.List(r.Context(), identity.ID)
		case addItem:
			items, err = svc.Add(r.Context(), identity.ID, itemID)
		case removeItem:
			items, err = svc.Remove(r.Context(), identity.ID, itemID)
		}
		if err != nil {
			s.logFailure(r, err)
			writeJSON(w, http.StatusUnprocessableEntity, errorResponse{Error: apperr.Message(err)})
			return
		}

		writeJSON(w, http.StatusOK, items)
	}
}
