package http

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"btc-goods-service/internal/domain/model"
	"btc-goods-service/internal/domain/ports"
	"btc-goods-service/internal/metrics"
	"btc-goods-service/internal/service"
	"btc-goods-service/pkg/logger"
	"btc-goods-service/pkg/utils"
)

type Response struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Error   string      `json:"error,omitempty"`
}

type Handler struct {
	service ports.ConverterService
	log     *logger.Logger
	metrics *metrics.Metrics
}

func NewHandler(service ports.ConverterService, log *logger.Logger, metrics *metrics.Metrics) *Handler {
	return &Handler{
		service: service,
		log:     log,
		metrics: metrics,
	}
}

func (h *Handler) GetItemsHandler(w http.ResponseWriter, r *http.Request) {
	h.metrics.ItemsRequestsTotal.Inc()

	h.sendSuccessResponse(w, h.service.ListItems())
}

func (h *Handler) ConvertHandler(w http.ResponseWriter, r *http.Request) {
	h.metrics.ConversionRequestsTotal.Inc()

	item := r.URL.Query().Get("item")
	if item == "" {
		h.sendErrorResponse(w, http.StatusBadRequest, "missing required parameter: item")
		return
	}

	direction := model.Direction(r.URL.Query().Get("direction"))
	if direction == "" {
		direction = model.BTCToItem
	}

	btcAmount, err := parseOptionalFloat(r.URL.Query().Get("btc_amount"))
	if err != nil {
		h.sendErrorResponse(w, http.StatusBadRequest, "invalid btc_amount parameter")
		return
	}

	quantity, err := parseOptionalFloat(r.URL.Query().Get("quantity"))
	if err != nil {
		h.sendErrorResponse(w, http.StatusBadRequest, "invalid quantity parameter")
		return
	}

	sats, err := parseOptionalBool(r.URL.Query().Get("sats"))
	if err != nil {
		h.sendErrorResponse(w, http.StatusBadRequest, "invalid sats parameter")
		return
	}

	request := model.ConversionRequest{
		Direction: direction,
		ItemKey:   item,
		BTCAmount: btcAmount,
		Quantity:  quantity,
		Sats:      sats,
	}

	ctx := r.Context()
	result, err := h.service.Convert(ctx, request)
	if err != nil {
		h.handleServiceError(w, err)
		return
	}

	h.sendSuccessResponse(w, result)
}

func (h *Handler) GetHistoricalHandler(w http.ResponseWriter, r *http.Request) {
	h.metrics.HistoricalRequestsTotal.Inc()

	item := r.URL.Query().Get("item")
	fromStr := r.URL.Query().Get("from_date")
	toStr := r.URL.Query().Get("to_date")

	if item == "" || fromStr == "" || toStr == "" {
		h.sendErrorResponse(w, http.StatusBadRequest, "missing required parameters: item, from_date, and to_date")
		return
	}

	fromDate, err := utils.ParseDate(fromStr)
	if err != nil {
		h.sendErrorResponse(w, http.StatusBadRequest, "invalid from_date format, use YYYY-MM-DD")
		return
	}

	toDate, err := utils.ParseDate(toStr)
	if err != nil {
		h.sendErrorResponse(w, http.StatusBadRequest, "invalid to_date format, use YYYY-MM-DD")
		return
	}

	request := model.HistoricalRequest{
		ItemKey:  item,
		FromDate: fromDate,
		ToDate:   toDate,
	}

	ctx := r.Context()
	series, err := h.service.Historical(ctx, request)
	if err != nil {
		h.handleServiceError(w, err)
		return
	}

	h.sendSuccessResponse(w, series)
}

func parseOptionalFloat(value string) (*float64, error) {
	if value == "" {
		return nil, nil
	}
	parsed, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return nil, err
	}
	return &parsed, nil
}

func parseOptionalBool(value string) (bool, error) {
	if value == "" {
		return false, nil
	}
	return strconv.ParseBool(value)
}

func (h *Handler) sendSuccessResponse(w http.ResponseWriter, data interface{}) {
	response := Response{
		Success: true,
		Data:    data,
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)

	if err := json.NewEncoder(w).Encode(response); err != nil {
		h.log.Error("Failed to encode response", "error", err)
	}
}

func (h *Handler) sendErrorResponse(w http.ResponseWriter, statusCode int, message string) {
	response := Response{
		Success: false,
		Error:   message,
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)

	if err := json.NewEncoder(w).Encode(response); err != nil {
		h.log.Error("Failed to encode error response", "error", err)
	}
}

func (h *Handler) handleServiceError(w http.ResponseWriter, err error) {
	statusCode := http.StatusInternalServerError
	errorMessage := "internal server error"

	switch {
	case errors.Is(err, service.ErrInvalidDirection):
		statusCode = http.StatusBadRequest
		errorMessage = "direction must be 'btc_to_item' or 'item_to_btc'"
	case errors.Is(err, service.ErrUnknownItem):
		statusCode = http.StatusBadRequest
		errorMessage = "item not found"
	case errors.Is(err, service.ErrInvalidAmount):
		statusCode = http.StatusBadRequest
		errorMessage = "btc_amount is required and must be positive"
	case errors.Is(err, service.ErrInvalidQuantity):
		statusCode = http.StatusBadRequest
		errorMessage = "quantity is required and must be positive"
	case errors.Is(err, service.ErrHistoricalUnsupported):
		statusCode = http.StatusBadRequest
		errorMessage = "historical data not available for item"
	case errors.Is(err, service.ErrNoSeriesConfigured):
		statusCode = http.StatusBadRequest
		errorMessage = "no historical series configured for item"
	case errors.Is(err, service.ErrInvalidDateRange):
		statusCode = http.StatusBadRequest
		errorMessage = "from_date must be before to_date"
	case errors.Is(err, service.ErrDateRangeTooWide):
		statusCode = http.StatusBadRequest
		errorMessage = "date range cannot exceed 2 years"
	case errors.Is(err, service.ErrUpstreamUnavailable):
		statusCode = http.StatusServiceUnavailable
		errorMessage = "upstream data source unavailable"
	case errors.Is(err, service.ErrUpstreamTimeout):
		statusCode = http.StatusGatewayTimeout
		errorMessage = "timeout fetching upstream data"
	case errors.Is(err, service.ErrComputation):
		statusCode = http.StatusInternalServerError
		errorMessage = "conversion computation failed"
	}

	h.log.Error("Service error", "error", err, "status_code", statusCode)
	h.sendErrorResponse(w, statusCode, errorMessage)
}
