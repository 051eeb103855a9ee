package server

import (
	"encoding/json"
	"log"
	"net/http"

	"github.com/jonathan/job-portal/internal/server/middleware"
	"github.com/jonathan/job-portal/internal/types"
)

// handleRecommendations handles GET /recommendations. The authenticated
// seeker's stored profile is ranked against the active catalog; an optional
// ?q= parameter blends free text into the profile signal.
func (s *Server) handleRecommendations(w http.ResponseWriter, r *http.Request) {
	userID, err := middleware.GetUserID(r)
	if err != nil {
		s.errorResponse(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	profile, err := s.store.GetSeekerProfile(r.Context(), userID.String())
	if err != nil {
		log.Printf("Error loading seeker profile %s: %v", userID, err)
		s.errorResponse(w, http.StatusInternalServerError, "failed to load profile")
		return
	}

	extraQuery := r.URL.Query().Get("q")
	if profile == nil && extraQuery == "" {
		notFound := &ErrProfileNotFound{UserID: userID.String()}
		s.errorResponse(w, HTTPStatus(notFound), notFound.Error())
		return
	}
	if profile == nil {
		profile = &types.SeekerProfile{UserID: userID.String()}
	}

	resp, err := s.engine.Recommend(r.Context(), profile, extraQuery)
	if err != nil {
		status := HTTPStatus(err)
		if status == http.StatusInternalServerError {
			log.Printf("Recommendation request failed for %s: %v", userID, err)
			s.errorResponse(w, status, "recommendation request failed")
			return
		}
		s.errorResponse(w, status, err.Error())
		return
	}

	s.jsonResponse(w, http.StatusOK, resp)
}

// handleGetProfile handles GET /recommendations/profile.
func (s *Server) handleGetProfile(w http.ResponseWriter, r *http.Request) {
	userID, err := middleware.GetUserID(r)
	if err != nil {
		s.errorResponse(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	profile, err := s.store.GetSeekerProfile(r.Context(), userID.String())
	if err != nil {
		log.Printf("Error loading seeker profile %s: %v", userID, err)
		s.errorResponse(w, http.StatusInternalServerError, "failed to load profile")
		return
	}
	if profile == nil {
		notFound := &ErrProfileNotFound{UserID: userID.String()}
		s.errorResponse(w, HTTPStatus(notFound), notFound.Error())
		return
	}

	s.jsonResponse(w, http.StatusOK, profile)
}

// handlePutProfile handles PUT /recommendations/profile: store or replace the
// authenticated seeker's ranking signal.
func (s *Server) handlePutProfile(w http.ResponseWriter, r *http.Request) {
	userID, err := middleware.GetUserID(r)
	if err != nil {
		s.errorResponse(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	var profile types.SeekerProfile
	if err := json.NewDecoder(r.Body).Decode(&profile); err != nil {
		s.errorResponse(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	profile.UserID = userID.String()
	if profile.IsEmpty() {
		s.errorResponse(w, http.StatusBadRequest, "profile must carry skills, titles or raw text")
		return
	}

	if err := s.store.UpsertSeekerProfile(r.Context(), &profile); err != nil {
		log.Printf("Error storing seeker profile %s: %v", userID, err)
		s.errorResponse(w, http.StatusInternalServerError, "failed to store profile")
		return
	}

	s.jsonResponse(w, http.StatusOK, profile)
}

// handleReindex handles POST /recommendations/index: reload the active
// catalog from the database and rebuild the in-memory index.
func (s *Server) handleReindex(w http.ResponseWriter, r *http.Request) {
	if err := s.reindexFromStore(r.Context()); err != nil {
		log.Printf("Reindex failed: %v", err)
		s.errorResponse(w, http.StatusInternalServerError, "index rebuild failed")
		return
	}

	resp := map[string]any{"index": s.engine.Stats()}
	if counts, err := s.store.CountJobs(r.Context()); err == nil {
		resp["catalog"] = counts
	}
	s.jsonResponse(w, http.StatusOK, resp)
}
