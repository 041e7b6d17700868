package main

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/daniacca/potions/internal/instructor"
	"github.com/daniacca/potions/internal/potions"
)

// extractAlchemistID extracts the alchemist ID from a path like
// "/alchemists/{id}/..." and returns it with the remaining path.
func extractAlchemistID(path string) (potions.AlchemistID, string) {
	if !strings.HasPrefix(path, "/alchemists/") {
		return "", ""
	}
	rest := path[len("/alchemists/"):]

	idx := strings.Index(rest, "/")
	if idx == -1 {
		return potions.AlchemistID(rest), ""
	}
	return potions.AlchemistID(rest[:idx]), rest[idx:]
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// statusFor maps domain errors onto HTTP status codes
func statusFor(err error) int {
	switch {
	case errors.Is(err, potions.ErrAlchemistNotFound):
		return http.StatusNotFound
	case errors.Is(err, potions.ErrAlchemistExists),
		errors.Is(err, potions.ErrNotInStock),
		errors.Is(err, potions.ErrEmptyPool),
		errors.Is(err, potions.ErrInsufficientEffects),
		errors.Is(err, potions.ErrEmptyCatalogue):
		return http.StatusConflict
	case errors.Is(err, potions.ErrInvalidArgument):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

// GET /effects
func (s *Server) handleEffects(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	writeJSON(w, http.StatusOK, s.workshop.Catalogue().Effects())
}

// GET /alchemists lists every alchemist id.
// POST /alchemists creates an alchemist with a generated id.
func (s *Server) handleListAlchemists(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		ids := s.workshop.ListAlchemists()
		writeJSON(w, http.StatusOK, map[string]any{
			"alchemists": ids,
			"count":      len(ids),
		})
	case http.MethodPost:
		s.createAlchemist(w, "")
	default:
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
	}
}

// handleAlchemist routes every request under /alchemists/{id}
func (s *Server) handleAlchemist(w http.ResponseWriter, r *http.Request) {
	id, remainingPath := extractAlchemistID(r.URL.Path)
	if id == "" {
		http.Error(w, "alchemist ID is required in path: /alchemists/{id}", http.StatusBadRequest)
		return
	}

	switch {
	case remainingPath == "" && r.Method == http.MethodPost:
		s.createAlchemist(w, id)
	case remainingPath == "" && r.Method == http.MethodDelete:
		s.handleDeleteAlchemist(w, id)
	case remainingPath == "/discover" && r.Method == http.MethodPost:
		s.withAlchemist(w, id, s.handleDiscover)
	case remainingPath == "/forage" && r.Method == http.MethodPost:
		s.withAlchemist(w, id, func(w http.ResponseWriter, a *potions.Alchemist) { s.handleForage(w, r, a) })
	case remainingPath == "/combine" && r.Method == http.MethodPost:
		s.withAlchemist(w, id, func(w http.ResponseWriter, a *potions.Alchemist) { s.handleCombine(w, r, a) })
	case remainingPath == "/instruct" && r.Method == http.MethodPost:
		s.withAlchemist(w, id, func(w http.ResponseWriter, a *potions.Alchemist) { s.handleInstruct(w, r, a) })
	case remainingPath == "/clone" && r.Method == http.MethodPost:
		s.handleClone(w, r, id)
	case remainingPath == "/report" && r.Method == http.MethodGet:
		s.withAlchemist(w, id, s.handleReport)
	case remainingPath == "/ingredients" && r.Method == http.MethodGet:
		s.withAlchemist(w, id, s.handleIngredients)
	default:
		http.NotFound(w, r)
	}
}

func (s *Server) withAlchemist(w http.ResponseWriter, id potions.AlchemistID, h func(http.ResponseWriter, *potions.Alchemist)) {
	a, exists := s.workshop.GetAlchemist(id)
	if !exists {
		http.Error(w, "alchemist not found", http.StatusNotFound)
		return
	}
	h(w, a)
}

func (s *Server) createAlchemist(w http.ResponseWriter, id potions.AlchemistID) {
	a, err := s.workshop.CreateAlchemist(id)
	if err != nil {
		http.Error(w, "cannot create alchemist: "+err.Error(), statusFor(err))
		return
	}
	writeJSON(w, http.StatusCreated, map[string]any{"id": a.ID()})
}

// DELETE /alchemists/{id}
func (s *Server) handleDeleteAlchemist(w http.ResponseWriter, id potions.AlchemistID) {
	if err := s.workshop.DeleteAlchemist(id); err != nil {
		http.Error(w, err.Error(), statusFor(err))
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"status": "ok", "id": id})
}

// POST /alchemists/{id}/discover
func (s *Server) handleDiscover(w http.ResponseWriter, a *potions.Alchemist) {
	ingredient, err := a.DiscoverNewIngredient()
	if err != nil {
		http.Error(w, "cannot discover ingredient: "+err.Error(), statusFor(err))
		return
	}
	writeJSON(w, http.StatusOK, ingredient)
}

// POST /alchemists/{id}/forage
// Body: { "count": 10 }
type forageRequest struct {
	Count int `json:"count"`
}

func (s *Server) handleForage(w http.ResponseWriter, r *http.Request, a *potions.Alchemist) {
	defer r.Body.Close()

	var req forageRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid json: "+err.Error(), http.StatusBadRequest)
		return
	}
	if err := a.Forage(req.Count); err != nil {
		http.Error(w, "cannot forage: "+err.Error(), statusFor(err))
		return
	}
	writeJSON(w, http.StatusOK, a.Report())
}

// POST /alchemists/{id}/combine
// Body: { "first": 1, "second": 2 }
type combineRequest struct {
	First  potions.IngredientID `json:"first"`
	Second potions.IngredientID `json:"second"`
}

func (s *Server) handleCombine(w http.ResponseWriter, r *http.Request, a *potions.Alchemist) {
	defer r.Body.Close()

	var req combineRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid json: "+err.Error(), http.StatusBadRequest)
		return
	}

	// Unknown ids are never in stock, so Combine rejects them.
	first, ok := a.LookupIngredient(req.First)
	if !ok {
		first = potions.Ingredient{ID: req.First}
	}
	second, ok := a.LookupIngredient(req.Second)
	if !ok {
		second = potions.Ingredient{ID: req.Second}
	}

	discovery, err := a.Combine(first, second)
	if err != nil {
		http.Error(w, "cannot combine: "+err.Error(), statusFor(err))
		return
	}
	writeJSON(w, http.StatusOK, discovery)
}

// POST /alchemists/{id}/instruct
// Body: { "strategy": "matching-then-random" }
type instructRequest struct {
	Strategy string `json:"strategy"`
}

type instructResponse struct {
	Result instructor.Result `json:"result"`
	Report potions.Report    `json:"report"`
}

func (s *Server) handleInstruct(w http.ResponseWriter, r *http.Request, a *potions.Alchemist) {
	defer r.Body.Close()

	var req instructRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid json: "+err.Error(), http.StatusBadRequest)
		return
	}

	strategy, err := instructor.Lookup(req.Strategy, potions.NewRand(s.seed+s.runs.Add(1)))
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	res, err := strategy.Instruct(a)
	if err != nil {
		http.Error(w, "strategy failed: "+err.Error(), statusFor(err))
		return
	}
	s.logger.Infof("Strategy finished: alchemist=%s strategy=%s combinations=%d", a.ID(), res.Strategy, res.Combinations)
	writeJSON(w, http.StatusOK, instructResponse{Result: res, Report: a.Report()})
}

// POST /alchemists/{id}/clone
// Body: { "target": "other" }
type cloneRequest struct {
	Target potions.AlchemistID `json:"target"`
}

func (s *Server) handleClone(w http.ResponseWriter, r *http.Request, id potions.AlchemistID) {
	defer r.Body.Close()

	var req cloneRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid json: "+err.Error(), http.StatusBadRequest)
		return
	}
	c, err := s.workshop.CloneAlchemist(id, req.Target)
	if err != nil {
		http.Error(w, "cannot clone alchemist: "+err.Error(), statusFor(err))
		return
	}
	writeJSON(w, http.StatusCreated, map[string]any{"id": c.ID()})
}

// GET /alchemists/{id}/report
func (s *Server) handleReport(w http.ResponseWriter, a *potions.Alchemist) {
	writeJSON(w, http.StatusOK, a.Report())
}

// ingredientView is one row of GET /alchemists/{id}/ingredients
type ingredientView struct {
	Ingredient   potions.Ingredient `json:"ingredient"`
	Stock        int                `json:"stock"`
	KnownEffects []potions.Effect   `json:"known_effects"`
}

// GET /alchemists/{id}/ingredients
func (s *Server) handleIngredients(w http.ResponseWriter, a *potions.Alchemist) {
	known := a.KnownIngredients()
	views := make([]ingredientView, 0, len(known))
	for _, ing := range known {
		v := ingredientView{
			Ingredient:   ing,
			Stock:        a.CountOfIngredient(ing),
			KnownEffects: []potions.Effect{},
		}
		for _, e := range ing.Effects {
			if a.IngredientHasEffect(ing, e) {
				v.KnownEffects = append(v.KnownEffects, e)
			}
		}
		views = append(views, v)
	}
	writeJSON(w, http.StatusOK, views)
}
