package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"

	"github.com/gofiber/fiber/v2"

	"github.com/artem13815/travelinfo/api/http/presenter"
	"github.com/artem13815/travelinfo/pkg/country"
	"github.com/artem13815/travelinfo/pkg/logging"
)

type CountryHandler struct {
	uc  country.UseCase
	log logging.Logger
}

func NewCountryHandler(uc country.UseCase, log logging.Logger) *CountryHandler {
	return &CountryHandler{uc: uc, log: log.With("component", "countries")}
}

// All lists every country.
// @Summary All countries
// @Tags    countries
// @Produce json
// @Success 200 {array} object
// @Failure 500 {object} presenter.UpstreamErrorResponse
// @Router  /countries/all [get]
func (h *CountryHandler) All(c *fiber.Ctx) error {
	return h.relay(c, "Failed to fetch countries", h.uc.All)
}

// ByName searches countries by name.
// @Summary Countries by name
// @Tags    countries
// @Produce json
// @Param   name path string true "Country name"
// @Success 200 {array} object
// @Failure 500 {object} presenter.UpstreamErrorResponse
// @Router  /countries/name/{name} [get]
func (h *CountryHandler) ByName(c *fiber.Ctx) error {
	name := pathParam(c, "name")
	return h.relay(c, "Failed to fetch country: "+name, func(ctx context.Context) (json.RawMessage, error) {
		return h.uc.ByName(ctx, name)
	})
}

// ByRegion lists countries of a region.
// @Summary Countries by region
// @Tags    countries
// @Produce json
// @Param   region path string true "Region, e.g. europe"
// @Success 200 {array} object
// @Failure 500 {object} presenter.UpstreamErrorResponse
// @Router  /countries/region/{region} [get]
func (h *CountryHandler) ByRegion(c *fiber.Ctx) error {
	region := pathParam(c, "region")
	return h.relay(c, "Failed to fetch countries in region: "+region, func(ctx context.Context) (json.RawMessage, error) {
		return h.uc.ByRegion(ctx, region)
	})
}

// ByCode looks a country up by its alpha code.
// @Summary Country by alpha code
// @Tags    countries
// @Produce json
// @Param   code path string true "cca2, cca3 or ccn3 code"
// @Success 200 {array} object
// @Failure 500 {object} presenter.UpstreamErrorResponse
// @Router  /countries/alpha/{code} [get]
func (h *CountryHandler) ByCode(c *fiber.Ctx) error {
	code := pathParam(c, "code")
	return h.relay(c, "Failed to fetch country by code: "+code, func(ctx context.Context) (json.RawMessage, error) {
		return h.uc.ByCode(ctx, code)
	})
}

// ByRegionCode filters all countries by region, case-insensitively.
// @Summary Countries by region code
// @Tags    countries
// @Produce json
// @Param   code path string true "Region name, any case"
// @Success 200 {array} object
// @Failure 500 {object} presenter.UpstreamErrorResponse
// @Router  /countries/regioncode/{code} [get]
func (h *CountryHandler) ByRegionCode(c *fiber.Ctx) error {
	code := pathParam(c, "code")
	return h.relay(c, "Failed to fetch countries with region code: "+code, func(ctx context.Context) (json.RawMessage, error) {
		return h.uc.ByRegionCode(ctx, code)
	})
}

func (h *CountryHandler) relay(c *fiber.Ctx, failure string, fetch func(context.Context) (json.RawMessage, error)) error {
	body, err := fetch(c.UserContext())
	if err != nil {
		h.log.Warn(c.UserContext(), "country lookup failed", "path", c.Path(), "error", err)
		return presenter.JSON(c, http.StatusInternalServerError, presenter.UpstreamErrorResponse{Error: failure})
	}
	return presenter.RawJSON(c, http.StatusOK, body)
}

// pathParam returns the decoded route parameter.
func pathParam(c *fiber.Ctx, key string) string {
	v := c.Params(key)
	if u, err := url.PathUnescape(v); err == nil {
		return u
	}
	return v
}
