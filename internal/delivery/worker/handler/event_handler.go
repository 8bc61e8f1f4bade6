// Package handler processes marketplace lifecycle events delivered by
// Pub/Sub push subscriptions.
package handler

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"tradegate/config"
	deliverycontext "tradegate/internal/delivery/context"
	"tradegate/internal/domain/repository"
	"tradegate/internal/domain/service"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
	"go.uber.org/fx"
	"google.golang.org/api/idtoken"
)

// Push auth is only enforced for the managed Google provider outside
// development.
const (
	pubsubProviderGoogle = "google"
	envDevelop           = "develop"
)

// PubSubMessage represents the structure of a Pub/Sub push message
type PubSubMessage struct {
	Message struct {
		Data        string            `json:"data"`
		Attributes  map[string]string `json:"attributes,omitempty"`
		MessageID   string            `json:"messageId"`
		PublishTime string            `json:"publishTime"`
	} `json:"message"`
	Subscription string `json:"subscription"`
}

// retryableError wraps an error to indicate it should trigger a Pub/Sub retry
type retryableError struct {
	err error
}

func (e *retryableError) Error() string {
	return fmt.Sprintf("retryable: %v", e.err)
}

func (e *retryableError) Unwrap() error {
	return e.err
}

func newRetryableError(err error) error {
	return &retryableError{err: err}
}

func isRetryableError(err error) bool {
	var re *retryableError

	return errors.As(err, &re)
}

// EventHandler handles Pub/Sub push messages carrying marketplace events.
// Approval decisions fan out to the decided account's device from here, so
// the API request that made the decision never waits on FCM.
type EventHandler struct {
	verifyPushAuth  bool
	logger          *slog.Logger
	notificationSvc service.NotificationService
	userRepo        repository.UserRepository
}

// EventHandlerParams holds dependencies for the EventHandler
type EventHandlerParams struct {
	fx.In

	Config          *config.Config
	Logger          *slog.Logger
	NotificationSvc service.NotificationService
	UserRepo        repository.UserRepository
}

// NewEventHandler creates a new Pub/Sub push handler
func NewEventHandler(params EventHandlerParams) *EventHandler {
	verifyPushAuth := params.Config.PubSub != nil &&
		params.Config.PubSub.Provider == pubsubProviderGoogle &&
		params.Config.Env.Env != envDevelop

	return &EventHandler{
		verifyPushAuth:  verifyPushAuth,
		logger:          params.Logger,
		notificationSvc: params.NotificationSvc,
		userRepo:        params.UserRepo,
	}
}

// HandlePush handles incoming Pub/Sub push messages
func (h *EventHandler) HandlePush(c echo.Context) error {
	ctx := c.Request().Context()

	if h.verifyPushAuth {
		if err := verifyPubSubToken(c.Request()); err != nil {
			h.logger.Warn("[Worker] Invalid Pub/Sub token", slog.Any("error", err))

			return c.NoContent(http.StatusUnauthorized)
		}
	}

	var pushMsg PubSubMessage
	if err := c.Bind(&pushMsg); err != nil {
		h.logger.Error("[Worker] Failed to parse push message", slog.Any("error", err))

		return c.NoContent(http.StatusBadRequest)
	}

	data, err := base64.StdEncoding.DecodeString(pushMsg.Message.Data)
	if err != nil {
		h.logger.Error("[Worker] Failed to decode message data", slog.Any("error", err))

		return c.NoContent(http.StatusBadRequest)
	}

	var event service.MarketplaceEvent
	if err := json.Unmarshal(data, &event); err != nil {
		h.logger.Error("[Worker] Failed to parse marketplace event", slog.Any("error", err))

		return c.NoContent(http.StatusBadRequest)
	}

	// Carry the request_id of the originating API call through for tracing.
	requestID := h.extractRequestID(ctx, &pushMsg, &event)
	reqLogger := h.logger.With(slog.String("request_id", requestID))
	ctx = deliverycontext.WithRequestID(ctx, requestID)
	ctx = deliverycontext.WithLogger(ctx, reqLogger)

	reqLogger.Info("[Worker] Processing marketplace event",
		slog.String("type", event.Type),
		slog.String("subject_kind", event.SubjectKind),
		slog.String("subject_id", event.SubjectID),
	)

	if err := h.processEvent(ctx, &event); err != nil {
		reqLogger.Error("[Worker] Failed to process marketplace event",
			slog.String("type", event.Type),
			slog.String("subject_id", event.SubjectID),
			slog.Any("error", err),
			slog.Bool("retryable", isRetryableError(err)),
		)
		// Return 503 for retryable errors to trigger Pub/Sub retry and 200
		// for non-retryable ones to prevent infinite redelivery.
		if isRetryableError(err) {
			return c.NoContent(http.StatusServiceUnavailable)
		}

		return c.NoContent(http.StatusOK)
	}

	return c.NoContent(http.StatusOK)
}

// extractRequestID extracts request_id from message attributes, event, or generates a new one
func (h *EventHandler) extractRequestID(ctx context.Context, pushMsg *PubSubMessage, event *service.MarketplaceEvent) string {
	if requestID, ok := pushMsg.Message.Attributes["request_id"]; ok && requestID != "" {
		return requestID
	}

	if event.RequestID != "" {
		return event.RequestID
	}

	if requestID := deliverycontext.GetRequestIDFromContext(ctx); requestID != "" {
		return requestID
	}

	return uuid.New().String()
}

// processEvent dispatches a marketplace event to its side effects.
func (h *EventHandler) processEvent(ctx context.Context, event *service.MarketplaceEvent) error {
	switch event.Type {
	case service.EventUserApproved, service.EventUserRejected:
		return h.notifyDecision(ctx, event)
	default:
		// Listing and registration events currently have no worker-side
		// effect. They are consumed by external subscribers.
		deliverycontext.GetLoggerOrDefault(ctx, h.logger).Debug("[Worker] No handler for event type",
			slog.String("type", event.Type),
		)

		return nil
	}
}

// notifyDecision pushes an approval outcome to the decided account's
// registered device. A missing account or device token ends processing
// quietly; the decision itself already happened.
func (h *EventHandler) notifyDecision(ctx context.Context, event *service.MarketplaceEvent) error {
	logger := deliverycontext.GetLoggerOrDefault(ctx, h.logger)

	userID, err := uuid.Parse(event.SubjectID)
	if err != nil {
		return errors.WithStack(err)
	}

	user, err := h.userRepo.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			logger.Info("[Worker] Decided account no longer exists",
				slog.String("user_id", event.SubjectID),
			)

			return nil
		}

		return newRetryableError(errors.WithStack(err))
	}

	if user.Profile == nil || user.Profile.DeviceToken == "" {
		logger.Debug("[Worker] No device registered for decided account",
			slog.String("user_id", event.SubjectID),
		)

		return nil
	}

	var title, body string
	switch event.Type {
	case service.EventUserApproved:
		title = "Account approved"
		body = "Your trade profile has been approved. You can now post listings."
	case service.EventUserRejected:
		title = "Account review update"
		body = "Your trade profile was not approved. Contact support for details."
	}

	data := map[string]string{
		"type":    event.Type,
		"user_id": event.SubjectID,
	}

	if err := h.notificationSvc.SendSingleNotification(ctx, user.Profile.DeviceToken, title, body, data); err != nil {
		// Send failures are not retried; a dead token would loop forever.
		logger.Warn("[Worker] Failed to push decision notification",
			slog.String("user_id", event.SubjectID),
			slog.Any("error", err),
		)

		return nil
	}

	logger.Info("[Worker] Decision notification sent",
		slog.String("type", event.Type),
		slog.String("user_id", event.SubjectID),
	)

	return nil
}

// verifyPubSubToken verifies the JWT token from Google Pub/Sub push requests
// Reference: https://cloud.google.com/pubsub/docs/push#authenticating_standard_push_requests
func verifyPubSubToken(req *http.Request) error {
	authHeader := req.Header.Get("Authorization")
	if authHeader == "" {
		return errors.New("missing authorization header")
	}

	const bearerPrefix = "Bearer "
	if !strings.HasPrefix(authHeader, bearerPrefix) {
		return errors.New("invalid authorization header format")
	}
	token := strings.TrimPrefix(authHeader, bearerPrefix)

	// The audience is the URL of this push endpoint.
	scheme := "https"
	if req.TLS == nil {
		scheme = "http" // For local development
	}
	audience := fmt.Sprintf("%s://%s%s", scheme, req.Host, req.URL.Path)

	ctx := req.Context()
	payload, err := idtoken.Validate(ctx, token, audience)
	if err != nil {
		return errors.Wrap(err, "failed to validate token")
	}

	if payload.Issuer != "accounts.google.com" && payload.Issuer != "https://accounts.google.com" {
		return errors.Errorf("invalid issuer: %s", payload.Issuer)
	}

	if emailVerified, ok := payload.Claims["email_verified"].(bool); ok && !emailVerified {
		return errors.New("email not verified")
	}

	return nil
}
