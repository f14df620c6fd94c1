package http

import (
	"net/http"
	"os"

	"github.com/ghodss/yaml"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"
	echoSwagger "github.com/swaggo/echo-swagger"

	"github.com/njprem/Todo_APP_BackEnd/internal/util"
)

// RegisterSwagger serves the YAML document at specPath as JSON under
// /swagger/doc.json and the Swagger UI under /swagger.
func RegisterSwagger(e *echo.Echo, specPath string, logger zerolog.Logger) {
	e.GET("/swagger/doc.json", func(c echo.Context) error {
		data, err := os.ReadFile(specPath)
		if err != nil {
			logger.Error().Err(err).Str("path", specPath).Msg("load swagger spec")
			return c.JSON(http.StatusInternalServerError, util.Error("unable to load swagger spec"))
		}
		jsonSpec, err := yaml.YAMLToJSON(data)
		if err != nil {
			logger.Error().Err(err).Str("path", specPath).Msg("convert swagger spec")
			return c.JSON(http.StatusInternalServerError, util.Error("unable to parse swagger spec"))
		}
		return c.Blob(http.StatusOK, echo.MIMEApplicationJSONCharsetUTF8, jsonSpec)
	})
	e.GET("/swagger/*", echoSwagger.WrapHandler)
}
