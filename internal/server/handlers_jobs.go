package server

import (
	"encoding/json"
	"log"
	"net/http"
	"time"

	"github.com/jonathan/job-portal/internal/server/middleware"
	"github.com/jonathan/job-portal/internal/types"
)

// handleCreateJob handles POST /jobs. The posting is stored immediately; it
// enters the ranking index on the next reindex.
func (s *Server) handleCreateJob(w http.ResponseWriter, r *http.Request) {
	employerID, err := middleware.GetUserID(r)
	if err != nil {
		s.errorResponse(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	var req types.CreateJobRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.errorResponse(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if err := req.Validate(); err != nil {
		s.errorResponse(w, http.StatusBadRequest, err.Error())
		return
	}

	job := req.ToJob(employerID.String(), time.Now().UTC())
	if err := s.store.CreateJob(r.Context(), &job); err != nil {
		log.Printf("Error creating job: %v", err)
		s.errorResponse(w, http.StatusInternalServerError, "failed to create job")
		return
	}

	s.jsonResponse(w, http.StatusCreated, job)
}

// handleGetJob handles GET /jobs/{id}.
func (s *Server) handleGetJob(w http.ResponseWriter, r *http.Request) {
	jobID := r.PathValue("id")

	job, err := s.store.GetJob(r.Context(), jobID)
	if err != nil {
		log.Printf("Error getting job %s: %v", jobID, err)
		s.errorResponse(w, http.StatusInternalServerError, "failed to get job")
		return
	}
	if job == nil {
		notFound := &ErrJobNotFound{JobID: jobID}
		s.errorResponse(w, HTTPStatus(notFound), notFound.Error())
		return
	}

	s.jsonResponse(w, http.StatusOK, job)
}

// handleArchiveJob handles DELETE /jobs/{id}: postings are archived, never
// removed. The job leaves the index on the next reindex.
func (s *Server) handleArchiveJob(w http.ResponseWriter, r *http.Request) {
	jobID := r.PathValue("id")

	archived, err := s.store.ArchiveJob(r.Context(), jobID)
	if err != nil {
		log.Printf("Error archiving job %s: %v", jobID, err)
		s.errorResponse(w, http.StatusInternalServerError, "failed to archive job")
		return
	}
	if !archived {
		notFound := &ErrJobNotFound{JobID: jobID}
		s.errorResponse(w, HTTPStatus(notFound), notFound.Error())
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
