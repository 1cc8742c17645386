// Copyright (c) 2025, Pulse Authors.  All rights reserved.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package server

import (
	"net/http"

	"github.com/pulse-bench/pulse/pkg/errors"
)

// handleRuns handles GET /v1/runs.
func (s *Server) handleRuns(w http.ResponseWriter, _ *http.Request) {
	entries, err := s.store.List()
	if err != nil {
		respondError(w, http.StatusInternalServerError,
			string(errors.ErrCodeInternal), "failed to list runs")
		return
	}
	respondJSON(w, http.StatusOK, entries)
}

// handleRun handles GET /v1/runs/{id}.
func (s *Server) handleRun(w http.ResponseWriter, r *http.Request) {
	payload, err := s.store.Get(r.PathValue("id"))
	if err != nil {
		s.respondStoreError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, payload)
}

// handleRunVerify handles GET /v1/runs/{id}/verify.
func (s *Server) handleRunVerify(w http.ResponseWriter, r *http.Request) {
	rep, err := s.store.Verify(r.PathValue("id"))
	if err != nil {
		s.respondStoreError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, rep)
}

func (s *Server) respondStoreError(w http.ResponseWriter, err error) {
	code := errors.CodeOf(err)
	switch code {
	case errors.ErrCodeNotFound:
		respondError(w, http.StatusNotFound, string(code), "run not found")
	case errors.ErrCodeMissingIntegrity:
		respondError(w, http.StatusUnprocessableEntity, string(code), err.Error())
	default:
		respondError(w, http.StatusInternalServerError,
			string(errors.ErrCodeInternal), "failed to load run")
	}
}
