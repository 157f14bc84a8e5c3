package httpapi

import (
	"errors"
	"log"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/requestid"

	"github.com/danielfonkaz/WeatherAggregator/internal/store"
	"github.com/danielfonkaz/WeatherAggregator/internal/weather"
)

var validate = validator.New()

const notAvailable = "N / A"

// RegisterRoutes wires the HTTP handlers into the Fiber app.
func RegisterRoutes(app *fiber.App, service *weather.Service, db *store.DB) {
	v1 := app.Group("/api/v1")

	v1.Get("/weather/current", func(c *fiber.Ctx) error {
		var q cityQuery
		q.City = c.Query("city")
		if err := validate.Struct(q); err != nil {
			log.Println("request missing 'city' parameter")
			return respond(c, fiber.StatusBadRequest, fiber.Map{
				"error":   "Bad Request",
				"message": "The required query parameter 'city' is missing.",
				"details": "Please include ?city=CityName in the request URL.",
			})
		}

		ip := c.IP()
		if ip == "" {
			return respondInternalError(c)
		}

		prevAccess, seen, err := db.LastAccess(ip)
		if err != nil {
			log.Printf("ERROR: last access lookup failed for %s: %v", ip, err)
			return respondInternalError(c)
		}

		recentCities, err := db.RecordAccess(ip, q.City, time.Now().Unix())
		if err != nil {
			log.Printf("ERROR: access record failed for %s: %v", ip, err)
			return respondInternalError(c)
		}

		lastAccess := notAvailable
		if seen {
			lastAccess = weather.EpochToISO(prevAccess)
		}

		report, err := service.CityWeather(c.Context(), q.City)
		if err != nil {
			if errors.Is(err, weather.ErrCityNotFound) {
				log.Printf("city %q not found by primary provider", q.City)
				return respond(c, fiber.StatusNotFound, fiber.Map{
					"error":         "Not found",
					"message":       "No data available for the specified city.",
					"details":       "No matching city was found with the name '" + q.City + "'.",
					"last_access":   lastAccess,
					"recent_cities": recentCities,
				})
			}

			// Primary request failure or everything filtered out.
			log.Printf("weather fetch failed for %q: %v", q.City, err)
			return respond(c, fiber.StatusServiceUnavailable, fiber.Map{
				"error":       "Service Unavailable",
				"message":     "Service is currently unavailable.",
				"details":     "Please try again later.",
				"last_access": lastAccess,
			})
		}

		return respond(c, fiber.StatusOK, fiber.Map{
			"city":          q.City,
			"weather":       report,
			"last_access":   lastAccess,
			"recent_cities": recentCities,
		})
	})
}

// cityQuery holds query parameters for identifying a city.
type cityQuery struct {
	City string `validate:"required"`
}

// respond renders a JSON body with the request id included, mirroring the
// X-Request-ID header set by the requestid middleware.
func respond(c *fiber.Ctx, status int, body fiber.Map) error {
	if rid, ok := c.Locals(requestid.ConfigDefault.ContextKey).(string); ok {
		body["requestId"] = rid
	}
	return c.Status(status).JSON(body)
}

func respondInternalError(c *fiber.Ctx) error {
	return respond(c, fiber.StatusInternalServerError, fiber.Map{
		"error":   "Internal Server Error",
		"message": "An unexpected error occurred.",
		"details": "Please try again later.",
	})
}
