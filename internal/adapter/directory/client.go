package directory

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-resty/resty/v2"
	"go.uber.org/zap"

	domain "user-dashboard/internal/domain/user"
	"user-dashboard/internal/identity"
	apperrors "user-dashboard/pkg/errors"
	"user-dashboard/pkg/logger"
)

const usersPath = "/users"

// Config holds the directory client configuration
type Config struct {
	BaseURL string        // BaseURL is the backend origin, without the /users resource
	Timeout time.Duration // Timeout bounds every request
}

// Client talks to the users backend over its REST contract.
type Client struct {
	http *resty.Client
	log  *zap.Logger
}

// errorBody is the {error} envelope the backend sends with failures
type errorBody struct {
	Error string `json:"error"`
}

// New creates a new directory client
func New(cfg Config, log *zap.Logger) *Client {
	rc := resty.New().
		SetBaseURL(cfg.BaseURL).
		SetTimeout(cfg.Timeout).
		SetHeader("Accept", "application/json")

	rc.OnBeforeRequest(func(_ *resty.Client, r *resty.Request) error {
		if id := logger.GetRequestID(r.Context()); id != "" {
			r.SetHeader(logger.RequestIDHeader, id)
		}
		return nil
	})

	return &Client{http: rc, log: log}
}

// authorized returns a request carrying the acting identity as its credential
func (c *Client) authorized(ctx context.Context, id identity.Identity) *resty.Request {
	name, value := identity.AuthorizationHeader(id)
	return c.http.R().SetContext(ctx).SetHeader(name, value)
}

// ListUsers handles GET /users
func (c *Client) ListUsers(ctx context.Context, id identity.Identity) ([]domain.User, error) {
	const op = "list users"
	log := logger.WithContext(ctx, c.log)

	resp, err := c.authorized(ctx, id).Get(usersPath)
	if err != nil {
		log.Warn("directory request failed", zap.String("op", op), zap.Error(err))
		return nil, apperrors.NewNetworkError(op, err)
	}

	log.Debug("directory response", zap.String("op", op), zap.Int("status", resp.StatusCode()))

	switch {
	case resp.StatusCode() == http.StatusForbidden:
		return nil, apperrors.NewAuthorizationError(serverMessage(resp, http.StatusText(http.StatusForbidden)))
	case !resp.IsSuccess():
		return nil, apperrors.NewRequestError(resp.StatusCode(), serverMessage(resp, ""))
	}

	return decodeUsers(op, resp)
}

// ListManagedUsers handles GET /users/managed/:managerId.
// No Authorization header is sent on this route.
func (c *Client) ListManagedUsers(ctx context.Context, managerID string) ([]domain.User, error) {
	const op = "list managed users"
	log := logger.WithContext(ctx, c.log)

	resp, err := c.http.R().
		SetContext(ctx).
		SetPathParam("managerId", managerID).
		Get(usersPath + "/managed/{managerId}")
	if err != nil {
		log.Warn("directory request failed", zap.String("op", op), zap.Error(err))
		return nil, apperrors.NewNetworkError(op, err)
	}

	log.Debug("directory response", zap.String("op", op), zap.Int("status", resp.StatusCode()))

	if !resp.IsSuccess() {
		return nil, apperrors.NewRequestError(resp.StatusCode(), serverMessage(resp, ""))
	}

	return decodeUsers(op, resp)
}

// CreateUser handles POST /users
func (c *Client) CreateUser(ctx context.Context, id identity.Identity, fields domain.Fields) (*domain.User, error) {
	const op = "create user"
	log := logger.WithContext(ctx, c.log)

	resp, err := c.authorized(ctx, id).
		SetHeader("Content-Type", "application/json").
		SetBody(fields).
		Post(usersPath)
	if err != nil {
		log.Warn("directory request failed", zap.String("op", op), zap.Error(err))
		return nil, apperrors.NewNetworkError(op, err)
	}

	log.Debug("directory response", zap.String("op", op), zap.Int("status", resp.StatusCode()))

	if !resp.IsSuccess() {
		return nil, mutationError(resp)
	}

	return decodeUser(op, resp)
}

// UpdateUser handles PATCH /users/:id
func (c *Client) UpdateUser(ctx context.Context, id identity.Identity, userID domain.ID, patch domain.Patch) (*domain.User, error) {
	const op = "update user"
	log := logger.WithContext(ctx, c.log)

	resp, err := c.authorized(ctx, id).
		SetHeader("Content-Type", "application/json").
		SetPathParam("id", userID.String()).
		SetBody(patch).
		Patch(usersPath + "/{id}")
	if err != nil {
		log.Warn("directory request failed", zap.String("op", op), zap.String("user_id", userID.String()), zap.Error(err))
		return nil, apperrors.NewNetworkError(op, err)
	}

	log.Debug("directory response", zap.String("op", op), zap.Int("status", resp.StatusCode()))

	if !resp.IsSuccess() {
		return nil, mutationError(resp)
	}

	return decodeUser(op, resp)
}

// DeleteUser handles DELETE /users/:id. Only 204 counts as success.
func (c *Client) DeleteUser(ctx context.Context, id identity.Identity, userID domain.ID) error {
	const op = "delete user"
	log := logger.WithContext(ctx, c.log)

	resp, err := c.authorized(ctx, id).
		SetPathParam("id", userID.String()).
		Delete(usersPath + "/{id}")
	if err != nil {
		log.Warn("directory request failed", zap.String("op", op), zap.String("user_id", userID.String()), zap.Error(err))
		return apperrors.NewNetworkError(op, err)
	}

	log.Debug("directory response", zap.String("op", op), zap.Int("status", resp.StatusCode()))

	switch resp.StatusCode() {
	case http.StatusNoContent:
		return nil
	case http.StatusForbidden:
		return apperrors.NewAuthorizationError(serverMessage(resp, http.StatusText(http.StatusForbidden)))
	default:
		return apperrors.NewRequestError(resp.StatusCode(), serverMessage(resp, ""))
	}
}

// mutationError maps a failed create/update response onto the error taxonomy
func mutationError(resp *resty.Response) error {
	msg := serverMessage(resp, "")
	switch resp.StatusCode() {
	case http.StatusBadRequest:
		return apperrors.NewValidationError(msg)
	case http.StatusForbidden:
		return apperrors.NewAuthorizationError(msg)
	default:
		return apperrors.NewRequestError(resp.StatusCode(), msg)
	}
}

// serverMessage extracts {error} from a response body, falling back to def
func serverMessage(resp *resty.Response, def string) string {
	var body errorBody
	if err := json.Unmarshal(resp.Body(), &body); err != nil || body.Error == "" {
		return def
	}
	return body.Error
}

func decodeUsers(op string, resp *resty.Response) ([]domain.User, error) {
	var users []domain.User
	if err := json.Unmarshal(resp.Body(), &users); err != nil {
		return nil, apperrors.NewNetworkError(op, err)
	}
	if users == nil {
		users = []domain.User{}
	}
	for i := range users {
		users[i].Normalize()
	}
	return users, nil
}

func decodeUser(op string, resp *resty.Response) (*domain.User, error) {
	var u domain.User
	if err := json.Unmarshal(resp.Body(), &u); err != nil {
		return nil, apperrors.NewNetworkError(op, err)
	}
	u.Normalize()
	return &u, nil
}
