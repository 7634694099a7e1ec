package gcal

import (
	"context"
	"fmt"

	calendar "google.golang.org/api/calendar/v3"
	"google.golang.org/api/option"

	"github.com/yungbote/skillplanner-backend/internal/platform/envutil"
	"github.com/yungbote/skillplanner-backend/internal/platform/logger"
	"github.com/yungbote/skillplanner-backend/internal/types"
)

const calendarIDPrimary = "primary"

// Inserter inserts one calendar event and returns its htmlLink.
type Inserter interface {
	Insert(ctx context.Context, task types.Task, timeZone string) (string, error)
}

type Service struct {
	calendar   *calendar.Service
	calendarID string
	log        *logger.Logger
}

// NewFromEnv authenticates against Google Calendar with the cached
// OAuth token. GOOGLE_CREDENTIALS_FILE and GOOGLE_TOKEN_FILE override
// the default credentials.json / token.json paths.
func NewFromEnv(ctx context.Context, log *logger.Logger) (*Service, error) {
	credsFile := envutil.Str("GOOGLE_CREDENTIALS_FILE", "credentials.json")
	tokenFile := envutil.Str("GOOGLE_TOKEN_FILE", "token.json")

	config, err := LoadOAuthConfig(credsFile)
	if err != nil {
		return nil, err
	}
	ts, err := TokenSource(ctx, config, tokenFile)
	if err != nil {
		return nil, err
	}
	srv, err := calendar.NewService(ctx, option.WithTokenSource(ts))
	if err != nil {
		return nil, fmt.Errorf("failed to create calendar service: %w", err)
	}
	return &Service{
		calendar:   srv,
		calendarID: envutil.Str("GOOGLE_CALENDAR_ID", calendarIDPrimary),
		log:        log.With("service", "CalendarService"),
	}, nil
}

func (s *Service) Insert(ctx context.Context, task types.Task, timeZone string) (string, error) {
	event := &calendar.Event{
		Summary:     task.Summary,
		Description: task.Description,
		Start: &calendar.EventDateTime{
			DateTime: task.StartTime,
			TimeZone: timeZone,
		},
		End: &calendar.EventDateTime{
			DateTime: task.EndTime,
			TimeZone: timeZone,
		},
	}
	created, err := s.calendar.Events.Insert(s.calendarID, event).Context(ctx).Do()
	if err != nil {
		return "", fmt.Errorf("unable to create event: %w", err)
	}
	return created.HtmlLink, nil
}
