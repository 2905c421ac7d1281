package api

import (
	"log/slog"
	"net/http"
	"strconv"

	"offer-compare/internal/domain/comparison"
	"offer-compare/internal/domain/offer"
	reqdto "offer-compare/internal/handler/dto/request"
	resdto "offer-compare/internal/handler/dto/response"
	"offer-compare/internal/handler/httperr"
	"offer-compare/internal/handler/middleware"
	"offer-compare/internal/pkg/config"
	"offer-compare/internal/pkg/errs"
	"offer-compare/internal/usecase/queries"
	"offer-compare/internal/usecase/session"
	"offer-compare/internal/usecase/share"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type SessionHandler struct {
	manager *session.Manager
	codec   *share.Codec
	origin  string
	logger  *slog.Logger
}

func NewSessionHandler(manager *session.Manager, codec *share.Codec, cfg config.ShareConfig, logger *slog.Logger) *SessionHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &SessionHandler{manager: manager, codec: codec, origin: cfg.Origin, logger: logger}
}

// @Summary Create session
// @Description Open a comparison session; the last query submitted under clientKey (body or X-Client-Key header) is returned when known
// @Tags sessions
// @Accept json
// @Produce json
// @Param request body reqdto.CreateSessionRequest false "Create session request"
// @Success 201 {object} resdto.SessionResponse
// @Failure 400 {object} httperr.Response
// @Router /sessions [post]
func (h *SessionHandler) Create(c *gin.Context) {
	var req reqdto.CreateSessionRequest
	if c.Request.ContentLength != 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			httperr.AbortWithError(c, http.StatusBadRequest, err, "Invalid request", nil)
			return
		}
	}

	clientKey := req.ClientKey
	if clientKey == "" {
		clientKey = c.GetHeader(middleware.ClientKeyHeader)
	}

	ctx := c.Request.Context()
	sess := h.manager.Create(ctx, clientKey)
	middleware.SetSessionID(c, sess.ID().String())

	last, ok, err := sess.LastQuery(ctx)
	if err != nil {
		h.logger.Warn("failed to load last query", "session_id", sess.ID(), "error", err)
		ok = false
	}

	c.Header("Location", "/api/sessions/"+sess.ID().String())
	c.JSON(http.StatusCreated, resdto.FromSession(sess.ID().String(), last, ok))
}

// @Summary Close session
// @Description Stop the running search, end every stream and forget the session
// @Tags sessions
// @Param id path string true "Session ID"
// @Success 204
// @Failure 400 {object} httperr.Response
// @Failure 404 {object} httperr.Response
// @Router /sessions/{id} [delete]
func (h *SessionHandler) Close(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, err, "Invalid session id", nil)
		return
	}
	middleware.SetSessionID(c, id.String())
	if err := h.manager.Remove(id); err != nil {
		abortWithSessionError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// @Summary Submit search
// @Description Start fetching offers for an address; results arrive progressively
// @Tags sessions
// @Accept json
// @Produce json
// @Param id path string true "Session ID"
// @Param request body reqdto.SearchRequest true "Address"
// @Success 202 {object} resdto.SearchAcceptedResponse
// @Failure 400 {object} httperr.Response
// @Failure 404 {object} httperr.Response
// @Failure 422 {object} httperr.Response
// @Router /sessions/{id}/searches [post]
func (h *SessionHandler) Search(c *gin.Context) {
	sess, ok := h.session(c)
	if !ok {
		return
	}
	var req reqdto.SearchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, err, "Invalid request", nil)
		return
	}
	addr, err := req.ToDomain()
	if err != nil {
		abortWithSessionError(c, err)
		return
	}
	q, err := sess.Search(c.Request.Context(), addr)
	if err != nil {
		abortWithSessionError(c, err)
		return
	}
	c.JSON(http.StatusAccepted, resdto.SearchAcceptedResponse{QueryID: q.ID().String()})
}

// @Summary Get snapshot
// @Description Per-provider status and progress of the current search
// @Tags sessions
// @Produce json
// @Param id path string true "Session ID"
// @Success 200 {object} resdto.SnapshotResponse
// @Failure 404 {object} httperr.Response
// @Router /sessions/{id}/snapshot [get]
func (h *SessionHandler) Snapshot(c *gin.Context) {
	sess, ok := h.session(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, resdto.FromSnapshot(sess.Snapshot()))
}

// @Summary List offers
// @Description Current offers with filters applied, sorted by key
// @Tags sessions
// @Produce json
// @Param id path string true "Session ID"
// @Param sort query string false "best_value, lowest_price, fastest_speed or shortest_contract"
// @Param limit query int false "Page size; paging is off unless limit or cursor is given"
// @Param cursor query string false "nextCursor from the previous page"
// @Success 200 {object} resdto.OffersResponse
// @Failure 400 {object} httperr.Response
// @Failure 404 {object} httperr.Response
// @Router /sessions/{id}/offers [get]
func (h *SessionHandler) Offers(c *gin.Context) {
	sess, ok := h.session(c)
	if !ok {
		return
	}
	key, err := queries.ParseSortKey(c.Query("sort"))
	if err != nil {
		abortWithSessionError(c, err)
		return
	}
	view := sess.View(key)

	limitParam, cursor := c.Query("limit"), c.Query("cursor")
	if limitParam == "" && cursor == "" {
		c.JSON(http.StatusOK, resdto.FromView(view))
		return
	}
	limit := 0
	if limitParam != "" {
		if limit, err = strconv.Atoi(limitParam); err != nil {
			httperr.AbortWithError(c, http.StatusBadRequest, err, "Invalid request", nil)
			return
		}
	}
	page, err := queries.Paginate(view.Offers, view.Query.ID(), view.Sort, cursor, limit)
	if err != nil {
		abortWithSessionError(c, err)
		return
	}
	c.JSON(http.StatusOK, resdto.FromViewPage(view, page))
}

// @Summary Update filters
// @Tags filters
// @Accept json
// @Produce json
// @Param id path string true "Session ID"
// @Param request body reqdto.FilterRequest true "Filter patch"
// @Success 200 {object} queries.FilterCriteria
// @Failure 400 {object} httperr.Response
// @Failure 404 {object} httperr.Response
// @Router /sessions/{id}/filters [patch]
func (h *SessionHandler) UpdateFilters(c *gin.Context) {
	sess, ok := h.session(c)
	if !ok {
		return
	}
	var req reqdto.FilterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, err, "Invalid request", nil)
		return
	}
	update, err := req.ToDomain()
	if err != nil {
		abortWithSessionError(c, err)
		return
	}
	criteria, err := sess.UpdateFilters(update)
	if err != nil {
		abortWithSessionError(c, err)
		return
	}
	c.JSON(http.StatusOK, criteria)
}

// @Summary Adjust price range
// @Description Switch the price range to manual with the given bounds
// @Tags filters
// @Accept json
// @Produce json
// @Param id path string true "Session ID"
// @Param request body reqdto.PriceRangeRequest true "Bounds in whole units"
// @Success 200 {object} queries.FilterCriteria
// @Failure 400 {object} httperr.Response
// @Failure 404 {object} httperr.Response
// @Router /sessions/{id}/filters/price-range [put]
func (h *SessionHandler) AdjustPriceRange(c *gin.Context) {
	sess, ok := h.session(c)
	if !ok {
		return
	}
	var req reqdto.PriceRangeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, err, "Invalid request", nil)
		return
	}
	criteria, err := sess.AdjustPriceRange(*req.Min, *req.Max)
	if err != nil {
		abortWithSessionError(c, err)
		return
	}
	c.JSON(http.StatusOK, criteria)
}

// @Summary Reset filters
// @Tags filters
// @Produce json
// @Param id path string true "Session ID"
// @Success 200 {object} queries.FilterCriteria
// @Failure 404 {object} httperr.Response
// @Router /sessions/{id}/filters [delete]
func (h *SessionHandler) ResetFilters(c *gin.Context) {
	sess, ok := h.session(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, sess.ResetFilters())
}

// @Summary Get comparison
// @Tags comparison
// @Produce json
// @Param id path string true "Session ID"
// @Success 200 {object} resdto.ComparisonResponse
// @Failure 404 {object} httperr.Response
// @Router /sessions/{id}/comparison [get]
func (h *SessionHandler) Comparison(c *gin.Context) {
	sess, ok := h.session(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, resdto.FromComparison(sess.Comparison()))
}

// @Summary Add to comparison
// @Description 201 when added, 200 when the offer was already selected
// @Tags comparison
// @Accept json
// @Produce json
// @Param id path string true "Session ID"
// @Param request body reqdto.ComparisonRequest true "Offer key"
// @Success 200 {object} resdto.ComparisonResponse
// @Success 201 {object} resdto.ComparisonResponse
// @Failure 400 {object} httperr.Response
// @Failure 404 {object} httperr.Response
// @Failure 409 {object} httperr.Response
// @Router /sessions/{id}/comparison [post]
func (h *SessionHandler) AddToComparison(c *gin.Context) {
	sess, ok := h.session(c)
	if !ok {
		return
	}
	var req reqdto.ComparisonRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, err, "Invalid request", nil)
		return
	}
	key, err := req.ToDomain()
	if err != nil {
		abortWithSessionError(c, err)
		return
	}
	added, err := sess.AddToComparison(key)
	if err != nil {
		abortWithSessionError(c, err)
		return
	}
	status := http.StatusOK
	if added {
		status = http.StatusCreated
	}
	c.JSON(status, resdto.FromComparison(sess.Comparison()))
}

// @Summary Remove from comparison
// @Tags comparison
// @Param id path string true "Session ID"
// @Param provider path string true "Provider name"
// @Param offerId path string true "Offer ID"
// @Success 204 "No Content"
// @Failure 404 {object} httperr.Response
// @Router /sessions/{id}/comparison/{provider}/{offerId} [delete]
func (h *SessionHandler) RemoveFromComparison(c *gin.Context) {
	sess, ok := h.session(c)
	if !ok {
		return
	}
	p, err := offer.ParseProvider(c.Param("provider"))
	if err != nil {
		abortWithSessionError(c, err)
		return
	}
	if !sess.RemoveFromComparison(offer.Key{Provider: p, OfferID: c.Param("offerId")}) {
		httperr.AbortWithError(c, http.StatusNotFound, session.ErrOfferNotFound, "Offer not in comparison", nil)
		return
	}
	c.Status(http.StatusNoContent)
}

// @Summary Create share link
// @Tags share
// @Accept json
// @Produce json
// @Param id path string true "Session ID"
// @Param request body reqdto.ShareRequest false "Link origin"
// @Success 200 {object} resdto.ShareResponse
// @Failure 404 {object} httperr.Response
// @Failure 409 {object} httperr.Response
// @Router /sessions/{id}/share [post]
func (h *SessionHandler) Share(c *gin.Context) {
	sess, ok := h.session(c)
	if !ok {
		return
	}
	var req reqdto.ShareRequest
	if c.Request.ContentLength != 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			httperr.AbortWithError(c, http.StatusBadRequest, err, "Invalid request", nil)
			return
		}
	}
	origin := req.Origin
	if origin == "" {
		origin = h.origin
	}
	token, link, err := sess.ShareLink(origin)
	if err != nil {
		abortWithSessionError(c, err)
		return
	}
	c.JSON(http.StatusOK, resdto.ShareResponse{Token: token, URL: link})
}

// @Summary Load shared results
// @Description Replace the session's results with a shared token's contents
// @Tags share
// @Accept json
// @Produce json
// @Param id path string true "Session ID"
// @Param request body reqdto.LoadSharedRequest true "Share token"
// @Success 200 {object} resdto.SharedStateResponse
// @Failure 400 {object} httperr.Response
// @Failure 404 {object} httperr.Response
// @Router /sessions/{id}/shared [post]
func (h *SessionHandler) LoadShared(c *gin.Context) {
	sess, ok := h.session(c)
	if !ok {
		return
	}
	var req reqdto.LoadSharedRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, err, "Invalid request", nil)
		return
	}
	st, err := sess.LoadShared(req.Token)
	if err != nil {
		abortWithSessionError(c, err)
		return
	}
	c.JSON(http.StatusOK, resdto.FromSharedState(st))
}

// @Summary Decode shared link
// @Description Decode the shared query parameter; a missing or malformed token yields shared=false
// @Tags share
// @Produce json
// @Param shared query string false "Share token"
// @Success 200 {object} resdto.SharedStateResponse
// @Router /shared [get]
func (h *SessionHandler) GetShared(c *gin.Context) {
	st, ok := h.codec.LoadSharedState(c.Request.URL.Query())
	if !ok {
		c.JSON(http.StatusOK, resdto.FromSharedState(nil))
		return
	}
	c.JSON(http.StatusOK, resdto.FromSharedState(st))
}

func (h *SessionHandler) session(c *gin.Context) (*session.Session, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, err, "Invalid session id", nil)
		return nil, false
	}
	sess, err := h.manager.Get(id)
	if err != nil {
		abortWithSessionError(c, err)
		return nil, false
	}
	middleware.SetSessionID(c, id.String())
	return sess, true
}

func abortWithSessionError(c *gin.Context, err error) {
	switch {
	case errs.Is(err, session.ErrSessionNotFound):
		httperr.AbortWithError(c, http.StatusNotFound, err, "Session not found", nil)
	case errs.Is(err, session.ErrSessionClosed):
		httperr.AbortWithError(c, http.StatusGone, err, "Session closed", nil)
	case errs.Is(err, offer.ErrInvalidAddress):
		httperr.AbortWithError(c, http.StatusUnprocessableEntity, err, "Invalid address", nil)
	case errs.Is(err, session.ErrInvalidFilter),
		errs.Is(err, queries.ErrInvalidPriceRange),
		errs.Is(err, queries.ErrUnknownSortKey),
		errs.Is(err, queries.ErrInvalidCursor),
		errs.Is(err, offer.ErrUnknownProvider),
		errs.Is(err, offer.ErrUnknownConnectionType),
		errs.Is(err, offer.ErrUnknownInstallation):
		httperr.AbortWithError(c, http.StatusBadRequest, err, "Invalid request", nil)
	case errs.Is(err, session.ErrOfferNotFound):
		httperr.AbortWithError(c, http.StatusNotFound, err, "Offer not found", nil)
	case errs.Is(err, comparison.ErrCapacityExceeded):
		httperr.AbortWithError(c, http.StatusConflict, err, "Comparison is full", nil)
	case errs.Is(err, session.ErrNothingToShare):
		httperr.AbortWithError(c, http.StatusConflict, err, "No results to share", nil)
	case errs.Is(err, share.ErrInvalidToken):
		httperr.AbortWithError(c, http.StatusBadRequest, err, "Invalid share token", nil)
	default:
		httperr.AbortWithError(c, http.StatusInternalServerError, err, "Internal error", nil)
	}
}
