package server

import (
	"encoding/base64"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/id-contact/test-auth/internal/idjwt"
	"github.com/id-contact/test-auth/internal/logging"
)

// handleStartAuthentication begins a session: it validates the requested
// attributes and hands the core a client_url for the user's browser.
func (s *Server) handleStartAuthentication(w http.ResponseWriter, r *http.Request) {
	var req idjwt.StartAuthRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if err := s.store.Verify(req.Attributes); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	attrsJSON, err := json.Marshal(req.Attributes)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}
	attrsSeg := base64.RawURLEncoding.EncodeToString(attrsJSON)
	contSeg := base64.RawURLEncoding.EncodeToString([]byte(req.Continuation))

	var clientURL, delivery string
	if req.AttrURL != nil {
		attrURLSeg := base64.RawURLEncoding.EncodeToString([]byte(*req.AttrURL))
		clientURL = fmt.Sprintf("%s/confirm/%s/%s/%s", s.config.ServerURL, attrsSeg, contSeg, attrURLSeg)
		delivery = "oob"
	} else {
		clientURL = fmt.Sprintf("%s/confirm/%s/%s", s.config.ServerURL, attrsSeg, contSeg)
		delivery = "inline"
	}

	s.metrics.SessionsStarted.WithLabelValues(delivery).Inc()
	logging.InfoContext(r.Context(), "authentication session started",
		"attributes", req.Attributes, "delivery", delivery)

	writeJSON(w, http.StatusOK, idjwt.StartAuthResponse{ClientURL: clientURL})
}

// handleConfirm serves the confirmation page whose login link points at the
// matching /browser URL. Path segments pass through untouched.
func (s *Server) handleConfirm(w http.ResponseWriter, r *http.Request) {
	segments := []string{
		chi.URLParam(r, "attributes"),
		chi.URLParam(r, "continuation"),
	}
	if attrURL := chi.URLParam(r, "attr_url"); attrURL != "" {
		segments = append(segments, attrURL)
	}
	doLogin := s.config.ServerURL + "/browser/" + strings.Join(segments, "/")

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := confirmTemplate.Execute(w, confirmData{DoLogin: doLogin}); err != nil {
		logging.ErrorContext(r.Context(), "failed to render confirm page", "error", err)
	}
}

// handleBrowser completes a session: it maps the requested attributes to
// their configured values, wraps them in a signed and encrypted auth result
// and sends the user back to the continuation URL.
func (s *Server) handleBrowser(w http.ResponseWriter, r *http.Request) {
	names, err := decodeAttributeNames(chi.URLParam(r, "attributes"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid attributes segment")
		return
	}

	attrs, err := s.store.Map(names)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	result := &idjwt.AuthResult{
		Status:     idjwt.StatusSuccess,
		Attributes: attrs,
	}
	if s.config.WithSession {
		result.SessionURL = s.config.SessionBaseURL() + "/session/update"
	}

	token, err := idjwt.SignAndEncrypt(result, s.signer, s.encrypter)
	if err != nil {
		logging.ErrorContext(r.Context(), "failed to build auth result token", "error", err)
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}

	continuation, err := decodeSegment(chi.URLParam(r, "continuation"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid continuation segment")
		return
	}

	if attrURLSeg := chi.URLParam(r, "attr_url"); attrURLSeg != "" {
		attrURL, err := decodeSegment(attrURLSeg)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid attr_url segment")
			return
		}

		// Delivery failures are logged, never surfaced to the user.
		s.deliverer.Deliver(r.Context(), attrURL, token)
		s.metrics.ResultsDelivered.WithLabelValues("oob").Inc()

		logging.InfoContext(r.Context(), "redirecting user", "continuation", continuation)
		http.Redirect(w, r, continuation, http.StatusSeeOther)
		return
	}

	sep := "?"
	if strings.Contains(continuation, "?") {
		sep = "&"
	}
	s.metrics.ResultsDelivered.WithLabelValues("inline").Inc()

	logging.InfoContext(r.Context(), "redirecting user with inline result", "continuation", continuation)
	http.Redirect(w, r, continuation+sep+"result="+token, http.StatusSeeOther)
}

// handleSessionUpdate receives session activity notifications from the core.
func (s *Server) handleSessionUpdate(w http.ResponseWriter, r *http.Request) {
	activity, err := idjwt.ParseSessionActivity(r.FormValue("type"))
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	s.metrics.SessionUpdates.WithLabelValues(string(activity)).Inc()
	logging.InfoContext(r.Context(), "session update received", "type", string(activity))
	w.WriteHeader(http.StatusOK)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status": "healthy",
		"time":   time.Now().Format(time.RFC3339),
	})
}

// decodeSegment decodes a base64 URL-safe no-padding path segment to a string.
func decodeSegment(segment string) (string, error) {
	data, err := base64.RawURLEncoding.DecodeString(segment)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// decodeAttributeNames decodes the attributes path segment to attribute names.
func decodeAttributeNames(segment string) ([]string, error) {
	data, err := base64.RawURLEncoding.DecodeString(segment)
	if err != nil {
		return nil, err
	}
	var names []string
	if err := json.Unmarshal(data, &names); err != nil {
		return nil, err
	}
	return names, nil
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logging.Error("failed to encode response", "error", err)
	}
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}
