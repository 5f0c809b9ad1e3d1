package handlers

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/vzahanych/owm-weather-tool/internal/server/utils"
	"github.com/vzahanych/owm-weather-tool/internal/service"
	"github.com/vzahanych/owm-weather-tool/internal/tool"
	"go.uber.org/zap"
)

const maxArgumentsSize = 1 << 20

type ToolHandler struct {
	registry *tool.Registry
	weather  *tool.CurrentWeatherTool
	logger   *zap.Logger
	now      func() time.Time
}

func NewToolHandler(registry *tool.Registry, weather *tool.CurrentWeatherTool, logger *zap.Logger) *ToolHandler {
	return &ToolHandler{
		registry: registry,
		weather:  weather,
		logger:   logger,
		now:      time.Now,
	}
}

// ListTools returns the function-calling schema of every registered tool.
func (h *ToolHandler) ListTools(c *gin.Context) {
	c.JSON(http.StatusOK, ToolsResponse{Tools: h.registry.Schemas()})
}

// CallTool runs the tool named in the path with the JSON body as arguments.
func (h *ToolHandler) CallTool(c *gin.Context) {
	ctx := utils.GetContextFromGinContext(c)
	reqLogger := h.logger.With(zap.String("request_id", utils.GetRequestIDFromGinContext(c)))

	name := c.Param("name")
	if _, ok := h.registry.Get(name); !ok {
		c.JSON(http.StatusNotFound, ErrorResponse{
			Error: "Unknown tool",
			Code:  "TOOL_NOT_FOUND",
		})
		return
	}

	body, err := io.ReadAll(http.MaxBytesReader(c.Writer, c.Request.Body, maxArgumentsSize))
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			reqLogger.Warn("Tool arguments too large", zap.Int64("limit", tooLarge.Limit))
			c.JSON(http.StatusRequestEntityTooLarge, ErrorResponse{
				Error: "Request body too large",
				Code:  "BODY_TOO_LARGE",
			})
			return
		}
		reqLogger.Warn("Failed to read tool arguments", zap.Error(err))
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "Invalid request body",
			Code:    "INVALID_BODY",
			Details: err.Error(),
		})
		return
	}

	res, _ := h.registry.Call(ctx, name, json.RawMessage(body))
	h.respond(c, reqLogger, res)
}

// GetWeather runs get_current_weather with URL query parameters. Both
// mode and Mode are accepted, city and lng stand in for q and lon. A
// successful object payload is returned with local time fields added.
func (h *ToolHandler) GetWeather(c *gin.Context) {
	ctx := utils.GetContextFromGinContext(c)
	reqLogger := h.logger.With(zap.String("request_id", utils.GetRequestIDFromGinContext(c)))

	params, err := queryParameters(c.Request.URL.Query())
	if err != nil {
		reqLogger.Warn("Invalid request parameters", zap.Error(err))
		h.respond(c, reqLogger, h.weather.Reject(ctx, params, err))
		return
	}

	res := h.weather.Execute(ctx, params)
	if res.OK() {
		res = tool.Success(withLocalTime(res.Payload, params, h.now()))
	}
	h.respond(c, reqLogger, res)
}

// GetTimezone returns the current weather payload for lat and lng, which are
// both required.
func (h *ToolHandler) GetTimezone(c *gin.Context) {
	ctx := utils.GetContextFromGinContext(c)
	reqLogger := h.logger.With(zap.String("request_id", utils.GetRequestIDFromGinContext(c)))

	query := c.Request.URL.Query()
	lon := query.Get(lngAlias)
	if lon == "" {
		lon = query.Get(service.LonParam)
	}
	lat := query.Get(service.LatParam)
	if lat == "" || lon == "" {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error: "Latitude and longitude are required",
			Code:  "MISSING_COORDINATES",
		})
		return
	}

	var params service.QueryParameters
	if err := params.Set(service.LatParam, lat); err != nil {
		h.respond(c, reqLogger, h.weather.Reject(ctx, params, err))
		return
	}
	if err := params.Set(service.LonParam, lon); err != nil {
		h.respond(c, reqLogger, h.weather.Reject(ctx, params, err))
		return
	}

	h.respond(c, reqLogger, h.weather.Execute(ctx, params))
}

const (
	cityAlias = "city"
	lngAlias  = "lng"
)

// queryNames lists the accepted query names in the order they are applied;
// Mode follows mode so the wire spelling wins when both are present.
var queryNames = []string{
	service.QParam,
	service.IDParam,
	service.LatParam,
	service.LonParam,
	service.ZipParam,
	service.UnitsParam,
	service.LangParam,
	"mode",
	service.ModeParam,
	service.AppIDParam,
}

// queryParameters reads the accepted names from values. Empty values are
// treated as unset and unknown names are ignored. The params decoded before
// an error are returned with it.
func queryParameters(values url.Values) (service.QueryParameters, error) {
	var params service.QueryParameters
	for _, name := range queryNames {
		if v := values.Get(name); v != "" {
			if err := params.Set(name, v); err != nil {
				return params, err
			}
		}
	}

	if params.Q == "" {
		params.Q = values.Get(cityAlias)
	}
	if params.Lon == nil {
		if v := values.Get(lngAlias); v != "" {
			if err := params.Set(service.LonParam, v); err != nil {
				return params, err
			}
		}
	}
	return params, nil
}

func (h *ToolHandler) respond(c *gin.Context, reqLogger *zap.Logger, res tool.Result) {
	status := http.StatusOK
	switch res.Kind() {
	case 0:
	case service.KindInvalidParameters:
		status = http.StatusBadRequest
	default:
		status = http.StatusBadGateway
	}

	reqLogger.Debug("Tool call completed",
		zap.Bool("success", res.OK()),
		zap.Int("status", status))

	c.JSON(status, res.Value())
}
