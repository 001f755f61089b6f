// weather.go implements the weather proxy endpoint. The tracker forwards the
// lookup to the configured provider and returns a condensed report.
package weather

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/ticket-tracker/ticket-tracker/internal/api/respond"
	upstream "github.com/ticket-tracker/ticket-tracker/internal/weather"
)

// WeatherHandlers handles the weather proxy endpoint
type WeatherHandlers struct {
	client *upstream.Client
}

// NewWeatherHandlers creates a new WeatherHandlers instance
func NewWeatherHandlers(client *upstream.Client) *WeatherHandlers {
	return &WeatherHandlers{client: client}
}

// @Summary      Get weather
// @Description  Look up current conditions for a city via the configured weather provider.
// @Tags         Services
// @Security     ApiKeyAuth
// @Produce      json
// @Param        city  query  string  true  "City name"
// @Success      200  {object}  respond.Envelope  "data: weather.Report"
// @Failure      400  {object}  respond.Envelope  "Missing city parameter"
// @Failure      404  {object}  respond.Envelope  "City not found"
// @Failure      502  {object}  respond.Envelope  "Weather provider unavailable"
// @Router       /api/v1/services/weather [get]
// GetWeatherHandler looks up current conditions for a city
// GET /api/v1/services/weather?city=Berlin
func (h *WeatherHandlers) GetWeatherHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		city := c.Query("city")
		if city == "" {
			respond.Failure(c, http.StatusBadRequest, "Missing required query parameter: city")
			return
		}

		report, err := h.client.Lookup(c.Request.Context(), city)
		switch {
		case err == nil:
			respond.Success(c, http.StatusOK, "Weather retrieved", report)
		case errors.Is(err, upstream.ErrCityNotFound):
			respond.Failure(c, http.StatusNotFound, "City not found: "+city)
		default:
			// Covers a rejected provider key as well as provider outages.
			slog.Error("weather lookup failed", "error", err, "city", city)
			respond.Failure(c, http.StatusBadGateway, "Weather provider unavailable")
		}
	}
}
