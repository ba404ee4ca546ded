package backend

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/go-resty/resty/v2"
	"go.uber.org/zap"

	"simblissima-pedidos/internal/common/pedidosprotocol"
	"simblissima-pedidos/pkg/logging"
)

const (
	currentUserPath  = "/auth/user/"
	ordersPath       = "/pedidos/"
	updateStatusPath = "/pedidos/{id}/update_status/"
)

var (
	ErrRequestFailed = errors.New("backend request failed")
)

// HTTPError is returned for any non-2xx answer of the backend.
type HTTPError struct {
	Method     string
	Path       string
	StatusCode int
	Body       string
}

func (e *HTTPError) Error() string {
	return fmt.Sprintf("%s %s: unexpected status code %d", e.Method, e.Path, e.StatusCode)
}

type Config struct {
	ServerAddress string
	Timeout       time.Duration
}

type Backend struct {
	client *resty.Client
	logger *logging.ZapLogger
}

func New(cfg Config, logger *logging.ZapLogger) *Backend {
	client := resty.New().
		SetBaseURL(cfg.ServerAddress).
		SetHeader("Accept", "application/json")
	if cfg.Timeout > 0 {
		client.SetTimeout(cfg.Timeout)
	}
	return &Backend{
		client: client,
		logger: logger,
	}
}

// CurrentUser resolves the user behind token. A nil user with a nil error means the token
// is not accepted by the backend.
func (b *Backend) CurrentUser(ctx context.Context, token string) (*pedidosprotocol.User, error) {
	resp, err := b.request(ctx, token).Get(currentUserPath)
	if err != nil {
		return nil, fmt.Errorf("%w: get current user: %w", ErrRequestFailed, err)
	}
	switch resp.StatusCode() {
	case http.StatusUnauthorized, http.StatusForbidden:
		b.logger.DebugCtx(ctx, "token rejected by backend", zap.Int("status", resp.StatusCode()))
		return nil, nil
	}
	if !resp.IsSuccess() {
		return nil, newHTTPError(resp)
	}
	user := &pedidosprotocol.User{}
	if err := json.Unmarshal(resp.Body(), user); err != nil {
		b.logger.ErrorCtx(ctx, "Error unmarshalling current user", zap.Error(err))
		return nil, fmt.Errorf("error unmarshalling current user: %w", err)
	}
	return user, nil
}

func (b *Backend) ListOrders(ctx context.Context, token string, clientID int64) ([]pedidosprotocol.Order, error) {
	resp, err := b.request(ctx, token).
		SetQueryParam("cliente", strconv.FormatInt(clientID, 10)).
		Get(ordersPath)
	if err != nil {
		return nil, fmt.Errorf("%w: list orders: %w", ErrRequestFailed, err)
	}
	if !resp.IsSuccess() {
		return nil, newHTTPError(resp)
	}
	res := pedidosprotocol.OrderList{}
	if err := json.Unmarshal(resp.Body(), &res); err != nil {
		b.logger.ErrorCtx(ctx, "Error unmarshalling orders response", zap.Error(err))
		return nil, fmt.Errorf("error unmarshalling orders response: %w", err)
	}
	b.logger.DebugCtx(ctx, "orders fetched", zap.Int64("clientID", clientID), zap.Int("count", len(res.Results)))
	if res.Results == nil {
		return make([]pedidosprotocol.Order, 0), nil
	}
	return res.Results, nil
}

func (b *Backend) CreateOrder(ctx context.Context, token string, order pedidosprotocol.CreateOrderRequest) error {
	resp, err := b.request(ctx, token).
		SetHeader("Content-Type", "application/json").
		SetBody(order).
		Post(ordersPath)
	if err != nil {
		return fmt.Errorf("%w: create order: %w", ErrRequestFailed, err)
	}
	if !resp.IsSuccess() {
		return newHTTPError(resp)
	}
	b.logger.InfoCtx(ctx, "order created", zap.Int("items", len(order.Items)))
	return nil
}

func (b *Backend) UpdateStatus(
	ctx context.Context,
	token string,
	orderID int64,
	update pedidosprotocol.StatusUpdateRequest,
) error {
	resp, err := b.request(ctx, token).
		SetPathParam("id", strconv.FormatInt(orderID, 10)).
		SetHeader("Content-Type", "application/json").
		SetBody(update).
		Post(updateStatusPath)
	if err != nil {
		return fmt.Errorf("%w: update order status: %w", ErrRequestFailed, err)
	}
	if !resp.IsSuccess() {
		return newHTTPError(resp)
	}
	b.logger.InfoCtx(
		ctx,
		"order status updated",
		zap.Int64("orderID", orderID),
		zap.String("status", string(update.Status)),
	)
	return nil
}

func (b *Backend) request(ctx context.Context, token string) *resty.Request {
	req := b.client.R().SetContext(ctx)
	if token != "" {
		req.SetAuthToken(token)
	}
	return req
}

func newHTTPError(resp *resty.Response) *HTTPError {
	return &HTTPError{
		Method:     resp.Request.Method,
		Path:       resp.Request.URL,
		StatusCode: resp.StatusCode(),
		Body:       string(resp.Body()),
	}
}
