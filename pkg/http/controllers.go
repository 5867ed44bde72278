package http

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/gotak/addrdb/pkg/store"

	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	"github.com/julienschmidt/httprouter"
	"go.uber.org/zap"
)

const defaultLimit = 20

type searchAPI struct {
	service  SearchService
	log      *zap.Logger
	validate *validator.Validate
	trans    ut.Translator
}

func newSearchAPI(service SearchService, log *zap.Logger) *searchAPI {
	validate, trans := newValidator()
	return &searchAPI{
		service:  service,
		log:      log,
		validate: validate,
		trans:    trans,
	}
}

func (api *searchAPI) routes(router *httprouter.Router) {
	router.GET("/api/search", api.search)
	router.GET("/api/nearby", api.nearby)
	router.GET("/api/categories", api.categories)
	router.GET("/api/regions", api.regions)
}

type searchRequest struct {
	Query string `validate:"required,max=200"`
	Limit int    `validate:"min=1,max=100"`
}

func (api *searchAPI) search(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	q := r.URL.Query()
	request := searchRequest{
		Query: q.Get("q"),
		Limit: intParam(q.Get("limit"), defaultLimit),
	}

	if err := api.validate.Struct(request); err != nil {
		api.badRequest(w, translateValidation(err, api.trans))
		return
	}

	results, err := api.service.Search(request.Query, request.Limit)
	if err != nil {
		api.serverError(w, err)
		return
	}
	api.writeJSON(w, http.StatusOK, envelope{"data": results})
}

type nearbyRequest struct {
	Category string  `validate:"max=100"`
	MinLat   float64 `validate:"gte=-90,lte=90"`
	MaxLat   float64 `validate:"gte=-90,lte=90,gtefield=MinLat"`
	MinLon   float64 `validate:"gte=-180,lte=180"`
	MaxLon   float64 `validate:"gte=-180,lte=180,gtefield=MinLon"`
	Limit    int     `validate:"min=1,max=500"`
}

func (api *searchAPI) nearby(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	q := r.URL.Query()

	request := nearbyRequest{
		Category: q.Get("category"),
		Limit:    intParam(q.Get("limit"), defaultLimit),
	}

	var err error
	if request.MinLat, err = floatParam(q.Get("min_lat")); err != nil {
		api.badRequest(w, fmt.Errorf("min_lat: %w", err))
		return
	}
	if request.MaxLat, err = floatParam(q.Get("max_lat")); err != nil {
		api.badRequest(w, fmt.Errorf("max_lat: %w", err))
		return
	}
	if request.MinLon, err = floatParam(q.Get("min_lon")); err != nil {
		api.badRequest(w, fmt.Errorf("min_lon: %w", err))
		return
	}
	if request.MaxLon, err = floatParam(q.Get("max_lon")); err != nil {
		api.badRequest(w, fmt.Errorf("max_lon: %w", err))
		return
	}

	if err := api.validate.Struct(request); err != nil {
		api.badRequest(w, translateValidation(err, api.trans))
		return
	}

	bounds := store.Bounds{
		MinLat: request.MinLat,
		MaxLat: request.MaxLat,
		MinLon: request.MinLon,
		MaxLon: request.MaxLon,
	}
	results, err := api.service.Nearby(request.Category, bounds, request.Limit)
	if err != nil {
		api.serverError(w, err)
		return
	}
	api.writeJSON(w, http.StatusOK, envelope{"data": results})
}

func (api *searchAPI) categories(w http.ResponseWriter, _ *http.Request, _ httprouter.Params) {
	api.writeJSON(w, http.StatusOK, envelope{"data": api.service.Categories()})
}

func (api *searchAPI) regions(w http.ResponseWriter, _ *http.Request, _ httprouter.Params) {
	m, err := api.service.Regions()
	if err != nil {
		api.serverError(w, err)
		return
	}
	api.writeJSON(w, http.StatusOK, envelope{"data": m})
}

func intParam(s string, fallback int) int {
	if s == "" {
		return fallback
	}
	v, err := strconv.Atoi(s)
	if err != nil {
		return fallback
	}
	return v
}

func floatParam(s string) (float64, error) {
	if s == "" {
		return 0, fmt.Errorf("missing required parameter")
	}
	return strconv.ParseFloat(s, 64)
}
