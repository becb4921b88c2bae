package service

import (
	"context"
	"errors"
	"fmt"
	"html/template"
	"strings"
	"sync"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/microcosm-cc/bluemonday"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/mentorat/leads-api/internal/config"
	"github.com/mentorat/leads-api/internal/dto"
	"github.com/mentorat/leads-api/internal/logging"
	"github.com/mentorat/leads-api/internal/models"
	"github.com/mentorat/leads-api/internal/observability"
	"github.com/mentorat/leads-api/internal/repository"
	"github.com/mentorat/leads-api/internal/validation"
	"github.com/mentorat/leads-api/pkg/resend"
)

var (
	// ErrConfig indicates a required secret is missing. The detail is logged,
	// never returned to the caller.
	ErrConfig = errors.New("server configuration incomplete")
	// ErrEmailSend indicates the notification email could not be delivered.
	ErrEmailSend = errors.New("failed to send notification email")
	// ErrDatabase indicates the lead could not be persisted.
	ErrDatabase = errors.New("failed to save lead")
)

// ValidationError carries the field-level violations of a rejected payload.
type ValidationError struct {
	Fields []validation.FieldError
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("lead payload failed validation (%d violations)", len(e.Fields))
}

// RequestMeta is ambient request metadata passed through to the stored lead.
type RequestMeta struct {
	UserAgent string
	Referrer  string
}

// LeadService exposes the lead submission workflow.
type LeadService interface {
	Submit(ctx context.Context, req dto.LeadRequest, meta RequestMeta) (dto.LeadResponse, error)
}

const submitLeadEndpoint = "/api/submit-lead"

// maxLoggedValidationErrors caps the validation message list carried in a
// single log entry.
const maxLoggedValidationErrors = 10

type leadService struct {
	repo      repository.LeadRepository
	sender    resend.Sender
	validator *validator.Validate
	logger    *logging.Logger
	cfg       config.Config
	stripper  *bluemonday.Policy
	tracer    trace.Tracer

	envOnce sync.Once
	envErr  error
}

// NewLeadService constructs the lead submission service. The email sender and
// repository are injected so the workflow is testable without network access.
func NewLeadService(repo repository.LeadRepository, sender resend.Sender, validate *validator.Validate, logger *logging.Logger, cfg config.Config) LeadService {
	return &leadService{
		repo:      repo,
		sender:    sender,
		validator: validate,
		logger:    logger,
		cfg:       cfg,
		stripper:  bluemonday.StrictPolicy(),
		tracer:    otel.Tracer("github.com/mentorat/leads-api/internal/service/lead"),
	}
}

// Submit validates the payload, emails the notification, then persists the
// lead. Persistence is only attempted after the email succeeds; a failed
// email is never followed by a database write.
func (s *leadService) Submit(ctx context.Context, req dto.LeadRequest, meta RequestMeta) (dto.LeadResponse, error) {
	ctx, span := s.tracer.Start(ctx, "lead.submit")
	defer span.End()

	if err := s.ensureEnvironment(); err != nil {
		span.SetStatus(codes.Error, "environment incomplete")
		observability.LeadSubmissions().WithLabelValues("config_error").Inc()
		return dto.LeadResponse{}, err
	}

	req.Name = strings.TrimSpace(req.Name)
	req.Phone = strings.TrimSpace(req.Phone)
	req.Telegram = strings.TrimSpace(req.Telegram)
	req.Email = strings.TrimSpace(req.Email)

	if err := s.validator.Struct(req); err != nil {
		fields := validation.FieldErrors(err)
		if fields == nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, "validator failure")
			return dto.LeadResponse{}, err
		}

		s.logger.Warn("Lead validation failed", logging.Context{
			"action":           "validate_request",
			"httpStatus":       400,
			"validationErrors": validationMessages(fields),
		}, submitLeadEndpoint)

		span.SetStatus(codes.Error, "validation failed")
		observability.LeadSubmissions().WithLabelValues("invalid").Inc()
		return dto.LeadResponse{}, &ValidationError{Fields: fields}
	}

	req.Telegram = validation.NormalizeTelegram(req.Telegram)
	span.SetAttributes(attribute.String("lead.source", s.cfg.LeadSource))

	emailID, err := s.sendNotification(ctx, req)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "email delivery failed")
		observability.LeadSubmissions().WithLabelValues("email_error").Inc()
		return dto.LeadResponse{}, ErrEmailSend
	}

	lead := models.Lead{
		Name:      req.Name,
		Phone:     req.Phone,
		Telegram:  optional(req.Telegram),
		Email:     optional(req.Email),
		Source:    s.cfg.LeadSource,
		UserAgent: optional(meta.UserAgent),
		Referrer:  optional(meta.Referrer),
	}

	if err := s.repo.Create(ctx, &lead); err != nil {
		s.logger.Error("Database insert failed", logging.Context{
			"action":           "insert_lead",
			"errorCode":        repository.ErrorCode(err),
			"affectedResource": "leads",
		}, submitLeadEndpoint)

		span.RecordError(err)
		span.SetStatus(codes.Error, "persistence failed")
		observability.LeadSubmissions().WithLabelValues("db_error").Inc()
		return dto.LeadResponse{}, ErrDatabase
	}

	s.logger.Info("Lead captured", logging.Context{
		"action":  "submit_lead",
		"leadId":  lead.ID,
		"emailId": emailID,
	}, submitLeadEndpoint)

	span.SetAttributes(attribute.String("lead.id", lead.ID))
	span.SetStatus(codes.Ok, "created")
	observability.LeadSubmissions().WithLabelValues("created").Inc()

	return dto.LeadResponse{LeadID: lead.ID, EmailID: emailID}, nil
}

// requiredSecrets lists the configuration this workflow cannot run without.
func (s *leadService) requiredSecrets() []struct{ name, value string } {
	return []struct{ name, value string }{
		{"LEADS_RESEND_API_KEY", s.cfg.ResendAPIKey},
		{"LEADS_RESEND_FROM_EMAIL", s.cfg.ResendFromEmail},
		{"LEADS_NOTIFICATION_EMAIL", s.cfg.NotificationEmail},
		{"LEADS_DATABASE_URL", s.cfg.DatabaseURL},
	}
}

// ensureEnvironment runs the cold-start configuration check exactly once per
// process. Each missing secret gets its own ERROR entry; the caller only ever
// sees the generic ErrConfig.
func (s *leadService) ensureEnvironment() error {
	s.envOnce.Do(func() {
		start := time.Now()
		validated := make([]string, 0, 4)

		for _, secret := range s.requiredSecrets() {
			if secret.value == "" {
				s.logger.Error("Required environment variable is not set", logging.Context{
					"action":     "validate_env",
					"missingVar": secret.name,
				}, submitLeadEndpoint)
				s.envErr = ErrConfig
				continue
			}
			validated = append(validated, secret.name)
		}

		if s.envErr == nil {
			s.logger.Info("Cold start: environment validated", logging.Context{
				"action":        "validate_env",
				"duration":      time.Since(start).Milliseconds(),
				"validatedVars": validated,
			}, submitLeadEndpoint)
		}
	})
	return s.envErr
}

func (s *leadService) sendNotification(ctx context.Context, req dto.LeadRequest) (string, error) {
	// Strip any markup from the free-text name before it reaches the subject
	// line or the HTML body.
	safeName := s.stripper.Sanitize(req.Name)

	html, err := renderNotification(notificationData{
		Name:     safeName,
		Phone:    req.Phone,
		Telegram: req.Telegram,
		Email:    req.Email,
		Source:   s.cfg.LeadSource,
	})
	if err != nil {
		return "", err
	}

	result, err := s.sender.Send(ctx, resend.Message{
		From:    s.cfg.ResendFromEmail,
		To:      s.cfg.NotificationEmail,
		ReplyTo: req.Email,
		Subject: fmt.Sprintf("New Consultation Request from %s", safeName),
		HTML:    html,
	})
	if err != nil {
		// The recipient identity never reaches the log; [ADMIN] stands in.
		entry := logging.Context{
			"action":           "send_notification",
			"affectedResource": "[ADMIN]",
			"errorCode":        providerErrorCode(err),
		}
		if resend.IsTransient(err) {
			s.logger.Warn("Email provider reported a transient failure", entry, submitLeadEndpoint)
		} else {
			s.logger.Error("Failed to send email via Resend", entry, submitLeadEndpoint)
		}
		return "", err
	}

	return result.ID, nil
}

func providerErrorCode(err error) string {
	var providerErr *resend.ProviderError
	if errors.As(err, &providerErr) {
		return fmt.Sprintf("%d", providerErr.StatusCode)
	}
	return "transport_error"
}

func validationMessages(fields []validation.FieldError) []string {
	limit := len(fields)
	if limit > maxLoggedValidationErrors {
		limit = maxLoggedValidationErrors
	}
	messages := make([]string, 0, limit)
	for _, field := range fields[:limit] {
		messages = append(messages, fmt.Sprintf("%s: %s", field.Field, field.Message))
	}
	return messages
}

func optional(value string) *string {
	if value == "" {
		return nil
	}
	return &value
}

type notificationData struct {
	Name     string
	Phone    string
	Telegram string
	Email    string
	Source   string
}

var notificationTemplate = template.Must(template.New("lead_notification").Parse(`<h2>New Consultation Request</h2>
<p><strong>Name:</strong> {{.Name}}</p>
<p><strong>Phone:</strong> {{.Phone}}</p>
{{- if .Telegram}}
<p><strong>Telegram:</strong> {{.Telegram}}</p>
{{- end}}
{{- if .Email}}
<p><strong>Email:</strong> {{.Email}}</p>
{{- end}}
<p><strong>Source:</strong> {{.Source}}</p>`))

func renderNotification(data notificationData) (string, error) {
	var builder strings.Builder
	if err := notificationTemplate.Execute(&builder, data); err != nil {
		return "", fmt.Errorf("failed to render notification email: %w", err)
	}
	return builder.String(), nil
}
