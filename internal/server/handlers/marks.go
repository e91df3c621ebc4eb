package handlers

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/35C4n0r/cord-mark/internal/api"
	"github.com/35C4n0r/cord-mark/internal/identity"
	"github.com/35C4n0r/cord-mark/internal/ledger"
	"github.com/35C4n0r/cord-mark/internal/logger"
	"github.com/35C4n0r/cord-mark/internal/mark"
	"github.com/35C4n0r/cord-mark/internal/request"
	"github.com/35C4n0r/cord-mark/internal/schema"
	"github.com/35C4n0r/cord-mark/internal/stream"
)

// IssuerDIDHeader carries the caller's DID on endpoints that act on behalf of
// an issuer.
const IssuerDIDHeader = "X-Issuer-DID"

// VerifyRequest is the body for POST /v1/marks/verify.
type VerifyRequest struct {
	// Mark is the record to verify, in object form.
	Mark *mark.Mark `json:"mark"`

	// Schema optionally checks the mark's claim contents against a schema.
	Schema *schema.Schema `json:"schema,omitempty"`

	// VerifySignatures additionally verifies the creator and issuer
	// signatures against keys resolved from their DIDs.
	VerifySignatures bool `json:"verifySignatures,omitempty"`
}

// VerifyResponse reports the verification verdict. A mark that fails
// verification is a successful request: the verdict is the payload.
type VerifyResponse struct {
	Verified     bool   `json:"verified"`
	StreamID     string `json:"streamId,omitempty"`
	ErrorCode    string `json:"errorCode,omitempty"`
	ErrorMessage string `json:"errorMessage,omitempty"`
}

// AnchorResponse is returned by POST /v1/marks/anchor.
type AnchorResponse struct {
	AnchorID string `json:"anchorId"`
	StreamID string `json:"streamId"`
}

// HandleVerify godoc
//
//	@Summary		Verify a mark
//	@Description	Runs full mark validation: structural checks on the content stream and request,
//	@Description	the cross-entity consistency check, and optionally a schema conformance check
//	@Description	and signature verification.
//	@Description
//	@Description	A mark that fails verification still returns 200: the verdict and failure
//	@Description	details are in the response body. Only malformed requests and server-side
//	@Description	failures produce error status codes.
//	@Tags			Marks
//	@Accept			json
//	@Produce		json
//	@Param			request	body		VerifyRequest	true	"Mark to verify"
//	@Success		200		{object}	VerifyResponse
//	@Failure		400		{object}	api.ErrorResponse	"Malformed request"
//	@Router			/v1/marks/verify [post]
func HandleVerify(keyManager *identity.KeyManager) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req VerifyRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			api.RespondWithError(w, r, api.WrapMalformedRequestError(err, "failed to decode verify request"))
			return
		}

		if err := mark.ErrorCheck(req.Mark); err != nil {
			respondWithVerdict(w, r, req.Mark, err)
			return
		}

		if req.Schema != nil {
			ok, err := mark.VerifyStructure(r.Context(), req.Mark, req.Schema)
			if err != nil {
				api.RespondWithError(w, r, err)
				return
			}
			if !ok {
				api.RespondWithJSON(w, http.StatusOK, VerifyResponse{
					Verified:     false,
					StreamID:     req.Mark.Content.ID,
					ErrorCode:    "structure_mismatch",
					ErrorMessage: "claim contents do not conform to the schema",
				})
				return
			}
		}

		if req.VerifySignatures {
			if err := verifySignatures(r, keyManager, req.Mark); err != nil {
				respondWithVerdict(w, r, req.Mark, err)
				return
			}
		}

		logger.ContextWithLogAttrs(r.Context(),
			slog.String("stream_id", req.Mark.Content.ID),
		)

		api.RespondWithJSON(w, http.StatusOK, VerifyResponse{
			Verified: true,
			StreamID: req.Mark.Content.ID,
		})
	}
}

// verifySignatures checks the request (creator) and content stream (issuer)
// signatures against keys resolved through the KeyManager.
func verifySignatures(r *http.Request, keyManager *identity.KeyManager, m *mark.Mark) error {
	creatorKey, err := keyManager.ResolveDID(r.Context(), m.Request.Content.Creator)
	if err != nil {
		return err
	}
	if err := m.Request.VerifySignature(creatorKey); err != nil {
		return err
	}

	issuerKey, err := keyManager.ResolveDID(r.Context(), m.Content.Issuer)
	if err != nil {
		return err
	}
	return m.Content.VerifySignature(issuerKey)
}

// respondWithVerdict reports a verification failure as a 200 with the
// originating package's error code in the body.
func respondWithVerdict(w http.ResponseWriter, r *http.Request, m *mark.Mark, err error) {
	streamID := ""
	if m != nil && m.Content != nil {
		streamID = m.Content.ID
	}

	code, message := errorDetails(err)

	logger.ContextWithLogAttrs(r.Context(),
		slog.String("verdict_error_code", code),
	)

	api.RespondWithJSON(w, http.StatusOK, VerifyResponse{
		Verified:     false,
		StreamID:     streamID,
		ErrorCode:    code,
		ErrorMessage: message,
	})
}

// errorDetails extracts the structured error code from a validation error.
func errorDetails(err error) (string, string) {
	var markErr *mark.MarkError
	if errors.As(err, &markErr) {
		return string(markErr.Code()), markErr.Error()
	}
	var reqErr *request.RequestError
	if errors.As(err, &reqErr) {
		return string(reqErr.Code()), reqErr.Error()
	}
	var streamErr *stream.StreamError
	if errors.As(err, &streamErr) {
		return string(streamErr.Code()), streamErr.Error()
	}
	var identityErr *identity.IdentityError
	if errors.As(err, &identityErr) {
		return string(identityErr.Code()), identityErr.Error()
	}
	return "internal", err.Error()
}

// HandleAnchor godoc
//
//	@Summary		Anchor a mark
//	@Description	Validates the mark, compresses it, and persists it keyed by its stream ID.
//	@Tags			Marks
//	@Accept			json
//	@Produce		json
//	@Param			mark	body		mark.Mark	true	"Mark to anchor (object form)"
//	@Success		201		{object}	AnchorResponse
//	@Failure		400		{object}	api.ErrorResponse	"Malformed request"
//	@Failure		409		{object}	api.ErrorResponse	"Stream already anchored"
//	@Failure		422		{object}	api.ErrorResponse	"Mark validation failed"
//	@Router			/v1/marks/anchor [post]
func HandleAnchor(store *ledger.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var m mark.Mark
		if err := json.NewDecoder(r.Body).Decode(&m); err != nil {
			api.RespondWithError(w, r, api.WrapMalformedRequestError(err, "failed to decode mark"))
			return
		}

		anchorID, err := store.Anchor(r.Context(), &m)
		if err != nil {
			api.RespondWithError(w, r, err)
			return
		}

		logger.ContextWithLogAttrs(r.Context(),
			slog.String("stream_id", m.Content.ID),
			slog.String("anchor_id", anchorID.String()),
		)

		api.RespondWithJSON(w, http.StatusCreated, AnchorResponse{
			AnchorID: anchorID.String(),
			StreamID: m.Content.ID,
		})
	}
}

// HandleQuery godoc
//
//	@Summary		Query an anchored mark
//	@Description	Loads an anchored mark by stream ID. The stored record is decompressed and
//	@Description	re-validated before it is returned.
//	@Tags			Marks
//	@Produce		json
//	@Param			streamId	path		string	true	"Stream ID"
//	@Success		200			{object}	mark.Mark
//	@Failure		404			{object}	api.ErrorResponse	"No anchor for stream ID"
//	@Router			/v1/marks/{streamId} [get]
func HandleQuery(store *ledger.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		streamID := chi.URLParam(r, "streamId")

		m, err := store.Query(r.Context(), streamID)
		if err != nil {
			api.RespondWithError(w, r, err)
			return
		}

		api.RespondWithJSON(w, http.StatusOK, m)
	}
}

// HandleRevoke godoc
//
//	@Summary		Revoke an anchored mark
//	@Description	Flags an anchored mark as revoked. Only the issuing DID may revoke its own
//	@Description	anchors; the caller's DID is taken from the X-Issuer-DID header.
//	@Tags			Marks
//	@Param			streamId		path	string	true	"Stream ID"
//	@Param			X-Issuer-DID	header	string	true	"Issuer DID"
//	@Success		204
//	@Failure		403	{object}	api.ErrorResponse	"Caller does not own the anchor"
//	@Failure		404	{object}	api.ErrorResponse	"No anchor for stream ID"
//	@Router			/v1/marks/{streamId} [delete]
func HandleRevoke(store *ledger.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		streamID := chi.URLParam(r, "streamId")

		issuerDID := r.Header.Get(IssuerDIDHeader)
		if issuerDID == "" {
			api.RespondWithError(w, r, api.NewMalformedRequestError(IssuerDIDHeader+" header is required"))
			return
		}

		if err := store.Revoke(r.Context(), streamID, issuerDID); err != nil {
			api.RespondWithError(w, r, err)
			return
		}

		api.RespondWithStatusCodeOnly(w, http.StatusNoContent)
	}
}
