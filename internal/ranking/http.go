// Copyright (c) 2026 Husbandometrics. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package ranking

import (
	"crypto/subtle"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/taibuivan/husbandometrics/internal/platform/apperr"
	"github.com/taibuivan/husbandometrics/internal/platform/constants"
	"github.com/taibuivan/husbandometrics/internal/platform/ctxutil"
	requestutil "github.com/taibuivan/husbandometrics/internal/platform/request"
	"github.com/taibuivan/husbandometrics/internal/platform/respond"
	"github.com/taibuivan/husbandometrics/internal/platform/validate"
)

// # Handler Implementation

// Handler exposes the rankings over HTTP.
type Handler struct {
	service      *Service
	refreshToken string
}

// NewHandler constructs a [Handler]. An empty refreshToken leaves the
// refresh endpoint open.
func NewHandler(service *Service, refreshToken string) *Handler {
	return &Handler{service: service, refreshToken: refreshToken}
}

// Routes returns the rankings router, mounted at /api/rankings.
func (handler *Handler) Routes() chi.Router {
	router := chi.NewRouter()

	router.Get("/", handler.listRankings)
	router.Post("/refresh", handler.refresh)
	router.Get("/{id}", handler.getCharacter)

	return router
}

/*
GET /api/rankings.

Description: Returns the full ranked list with its metadata. Optional
filters narrow the list without renumbering ranks.

Request:
  - q: string (Fuzzy search over names, aliases and franchise)
  - source_type: string (ANIME, GAME, MANGA)

Response:
  - 200: Payload
  - 400: VALIDATION_ERROR: Unknown source_type
  - 500: Failed to fetch rankings
*/
func (handler *Handler) listRankings(writer http.ResponseWriter, request *http.Request) {
	filter, err := parseFilter(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	payload, err := handler.service.Rankings(request.Context())
	if err != nil {
		respond.Error(writer, request, apperr.InternalMessage("Failed to fetch rankings", err))
		return
	}

	respond.OK(writer, filter.Apply(payload))
}

/*
GET /api/rankings/{id}.

Response:
  - 200: RankedCharacter
  - 404: NOT_FOUND: Character not found
  - 500: Failed to fetch character
*/
func (handler *Handler) getCharacter(writer http.ResponseWriter, request *http.Request) {
	id := requestutil.Param(request, "id")

	character, err := handler.service.Character(request.Context(), id)
	if err != nil {
		if apperr.IsAppError(err) {
			respond.Error(writer, request, err)
			return
		}
		respond.Error(writer, request, apperr.InternalMessage("Failed to fetch character", err))
		return
	}

	respond.OK(writer, character)
}

/*
POST /api/rankings/refresh.

Description: Invalidates the cache, recomputes the rankings and warms every
per-character entry. When a refresh token is configured the request must
carry it in X-Refresh-Token.

Response:
  - 200: Payload (fresh)
  - 401: UNAUTHORIZED: Token missing or wrong
  - 500: Failed to refresh rankings
*/
func (handler *Handler) refresh(writer http.ResponseWriter, request *http.Request) {
	ctx := request.Context()
	logger := ctxutil.GetLogger(ctx).With(slog.String("client", ctxutil.GetClient(ctx)))

	if !handler.authorized(request) {
		logger.WarnContext(ctx, "refresh_unauthorized")
		respond.Error(writer, request, apperr.Unauthorized("Unauthorized"))
		return
	}

	logger.InfoContext(ctx, "rankings_refresh_requested")
	payload, err := handler.service.Refresh(ctx)
	if err != nil {
		respond.Error(writer, request, apperr.InternalMessage("Failed to refresh rankings", err))
		return
	}

	respond.OK(writer, payload)
}

// authorized compares the presented token in constant time.
func (handler *Handler) authorized(request *http.Request) bool {
	if handler.refreshToken == "" {
		return true
	}

	presented := requestutil.Header(request, constants.HeaderRefreshToken)
	return subtle.ConstantTimeCompare([]byte(presented), []byte(handler.refreshToken)) == 1
}

// parseFilter reads the list filters from the query string.
func parseFilter(request *http.Request) (Filter, error) {
	filter := Filter{Query: requestutil.Query(request, "q")}

	rawType := requestutil.Query(request, "source_type")
	if rawType == "" {
		return filter, nil
	}

	sourceType := SourceType(rawType)
	validator := &validate.Validator{}
	validator.OneOf("source_type", string(sourceType),
		string(SourceTypeAnime), string(SourceTypeGame), string(SourceTypeManga))
	if err := validator.Err(); err != nil {
		return Filter{}, err
	}

	filter.SourceType = sourceType
	return filter, nil
}
