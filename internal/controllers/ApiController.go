package controllers

import (
	"errors"
	"net/http"
	"strconv"

	json "github.com/goccy/go-json"
	"travelogue/internal/models"
	"travelogue/internal/providers"
	"travelogue/internal/services"
)

const maxRequestBodySize = 1 << 16 // 64 KB

type ApiController struct {
	logger  providers.Logger
	service services.LogServiceInterface
	cache   providers.CacheProviderInterface
}

func NewApiController(logger providers.Logger, service services.LogServiceInterface, cache providers.CacheProviderInterface) *ApiController {
	return &ApiController{
		logger:  logger,
		service: service,
		cache:   cache,
	}
}

type stateResponse struct {
	View     *models.View              `json:"view"`
	Controls services.ControlValues    `json:"controls"`
	History  providers.HistorySnapshot `json:"history"`
}

type navigateRequest struct {
	Fragment string `json:"fragment"`
}

// cacheKey scopes key to the loaded dataset generation.
func (ac *ApiController) cacheKey(prefix, key string) string {
	return prefix + ":" + strconv.FormatUint(ac.service.Generation(), 10) + ":" + key
}

func (ac *ApiController) serveFromCacheOrCompute(w http.ResponseWriter, r *http.Request, cacheKey string, compute func() (any, error)) {
	if data, ok := ac.cache.Get(cacheKey); ok {
		writeRaw(w, http.StatusOK, data)
		return
	}

	result, err := compute()
	if err != nil {
		ac.writeError(w, r, err)
		return
	}

	gson, err := json.Marshal(result)
	if err != nil {
		ac.writeError(w, r, err)
		return
	}

	ac.cache.Set(cacheKey, gson)
	writeRaw(w, http.StatusOK, gson)
}

// GetView renders the fragment given in the query without touching the
// session. Equivalent fragments share one cache entry.
func (ac *ApiController) GetView(w http.ResponseWriter, r *http.Request) {
	fragment := r.URL.Query().Get("fragment")
	fs, _ := models.Decode(fragment)
	ac.serveFromCacheOrCompute(w, r, ac.cacheKey("view", models.Encode(fs)), func() (any, error) {
		return ac.service.Render(fragment)
	})
}

func (ac *ApiController) GetOptions(w http.ResponseWriter, r *http.Request) {
	ac.serveFromCacheOrCompute(w, r, ac.cacheKey("options", ""), func() (any, error) {
		return ac.service.Options()
	})
}

func (ac *ApiController) GetState(w http.ResponseWriter, r *http.Request) {
	view, err := ac.service.Current()
	ac.respondState(w, r, view, err)
}

func (ac *ApiController) ChangeControls(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxRequestBodySize)
	var values services.ControlValues
	if err := json.NewDecoder(r.Body).Decode(&values); err != nil {
		http.Error(w, "Bad Request", http.StatusBadRequest)
		return
	}
	view, err := ac.service.ChangeControls(values)
	ac.respondState(w, r, view, err)
}

func (ac *ApiController) Navigate(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxRequestBodySize)
	var req navigateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Bad Request", http.StatusBadRequest)
		return
	}
	view, err := ac.service.Navigate(req.Fragment)
	ac.respondState(w, r, view, err)
}

func (ac *ApiController) Back(w http.ResponseWriter, r *http.Request) {
	view, err := ac.service.Back()
	ac.respondState(w, r, view, err)
}

func (ac *ApiController) Forward(w http.ResponseWriter, r *http.Request) {
	view, err := ac.service.Forward()
	ac.respondState(w, r, view, err)
}

func (ac *ApiController) respondState(w http.ResponseWriter, r *http.Request, view *models.View, err error) {
	if err != nil {
		ac.writeError(w, r, err)
		return
	}
	gson, err := json.Marshal(stateResponse{
		View:     view,
		Controls: ac.service.Controls(),
		History:  ac.service.Snapshot(),
	})
	if err != nil {
		ac.writeError(w, r, err)
		return
	}
	writeRaw(w, http.StatusOK, gson)
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, services.ErrInvalidControls),
		errors.Is(err, models.ErrSortOrderWithoutColumn),
		errors.Is(err, models.ErrInvalidSortColumn),
		errors.Is(err, models.ErrInvalidSortOrder),
		errors.Is(err, models.ErrDateTimeframeMismatch):
		return http.StatusBadRequest
	case errors.Is(err, services.ErrNoNavigation):
		return http.StatusNotFound
	case errors.Is(err, services.ErrSyncBusy):
		return http.StatusConflict
	case errors.Is(err, services.ErrNotLoaded):
		return http.StatusServiceUnavailable
	}
	return http.StatusInternalServerError
}

func (ac *ApiController) writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := statusFor(err)
	if status == http.StatusInternalServerError {
		ac.logger.Errorf(providers.GetLogTypeByRequestType(r.Method), "%s %s: %v", r.Method, r.URL.Path, err)
		http.Error(w, "Internal Server Error", status)
		return
	}
	http.Error(w, err.Error(), status)
}

func writeRaw(w http.ResponseWriter, status int, data []byte) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write(data)
}
