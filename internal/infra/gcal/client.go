package gcal

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"os"
	"time"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	gcalv3 "google.golang.org/api/calendar/v3"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"

	"github.com/BruksfildServices01/clinic-scheduler/internal/domain/calendar"
)

// Client conversa com uma agenda Google em nome do profissional.
type Client struct {
	svc        *gcalv3.Service
	calendarID string
	loc        *time.Location
}

func New(
	ctx context.Context,
	calendarID string,
	loc *time.Location,
	opts ...option.ClientOption,
) (*Client, error) {

	svc, err := gcalv3.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("gcal: new service: %w", err)
	}
	if calendarID == "" {
		calendarID = "primary"
	}

	return &Client{svc: svc, calendarID: calendarID, loc: loc}, nil
}

// CredentialOptions monta as opções do cliente a partir dos arquivos em disco.
//
// Com arquivo de token, credentials é lido como cliente OAuth e o token salvo
// autoriza as requisições. Sem ele, o arquivo vai direto para a biblioteca
// (service account ou JSON de ADC).
func CredentialOptions(
	ctx context.Context,
	credentialsFile string,
	tokenFile string,
) ([]option.ClientOption, error) {

	if tokenFile == "" {
		return []option.ClientOption{option.WithCredentialsFile(credentialsFile)}, nil
	}

	raw, err := os.ReadFile(credentialsFile)
	if err != nil {
		return nil, fmt.Errorf("gcal: read credentials: %w", err)
	}

	cfg, err := google.ConfigFromJSON(raw, gcalv3.CalendarScope)
	if err != nil {
		return nil, fmt.Errorf("gcal: parse credentials: %w", err)
	}

	tok, err := readToken(tokenFile)
	if err != nil {
		return nil, err
	}

	return []option.ClientOption{option.WithHTTPClient(cfg.Client(ctx, tok))}, nil
}

func readToken(path string) (*oauth2.Token, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("gcal: open token: %w", err)
	}
	defer f.Close()

	var tok oauth2.Token
	if err := json.NewDecoder(f).Decode(&tok); err != nil {
		return nil, fmt.Errorf("gcal: decode token: %w", err)
	}
	return &tok, nil
}

// ======================================================
// calendar.Calendar
// ======================================================

func (c *Client) ListEvents(
	ctx context.Context,
	timeMin, timeMax time.Time,
) ([]calendar.Event, error) {

	var (
		out       []calendar.Event
		pageToken string
	)

	for {
		call := c.svc.Events.List(c.calendarID).
			TimeMin(timeMin.Format(time.RFC3339)).
			TimeMax(timeMax.Format(time.RFC3339)).
			SingleEvents(true).
			OrderBy("startTime").
			Context(ctx)
		if pageToken != "" {
			call = call.PageToken(pageToken)
		}

		res, err := call.Do()
		if err != nil {
			return nil, fmt.Errorf("gcal: list events: %w", err)
		}

		for _, item := range res.Items {
			if item.Status == "cancelled" {
				continue
			}
			ev, err := c.toEvent(item)
			if err != nil {
				return nil, err
			}
			out = append(out, ev)
		}

		if res.NextPageToken == "" {
			return out, nil
		}
		pageToken = res.NextPageToken
	}
}

func (c *Client) InsertEvent(
	ctx context.Context,
	ev calendar.NewEvent,
) (calendar.Created, error) {

	body := &gcalv3.Event{
		Summary:     ev.Summary,
		Description: ev.Description,
		Start: &gcalv3.EventDateTime{
			DateTime: ev.Start.In(c.loc).Format(time.RFC3339),
			TimeZone: c.loc.String(),
		},
		End: &gcalv3.EventDateTime{
			DateTime: ev.End.In(c.loc).Format(time.RFC3339),
			TimeZone: c.loc.String(),
		},
	}
	for _, email := range ev.Attendees {
		if email == "" {
			continue
		}
		body.Attendees = append(body.Attendees, &gcalv3.EventAttendee{Email: email})
	}

	created, err := c.svc.Events.Insert(c.calendarID, body).
		SendUpdates("all").
		Context(ctx).
		Do()
	if err != nil {
		return calendar.Created{}, fmt.Errorf("gcal: insert event: %w", err)
	}

	return calendar.Created{ID: created.Id, HTMLLink: created.HtmlLink}, nil
}

func (c *Client) DeleteEvent(ctx context.Context, eventID string) error {
	err := c.svc.Events.Delete(c.calendarID, eventID).
		SendUpdates("all").
		Context(ctx).
		Do()
	if err == nil {
		return nil
	}

	var gerr *googleapi.Error
	if errors.As(err, &gerr) &&
		(gerr.Code == http.StatusNotFound || gerr.Code == http.StatusGone) {
		return calendar.ErrEventNotFound
	}
	return fmt.Errorf("gcal: delete event: %w", err)
}

// ======================================================
// Helpers
// ======================================================

func (c *Client) toEvent(item *gcalv3.Event) (calendar.Event, error) {
	ev := calendar.Event{ID: item.Id, Summary: item.Summary}
	if item.Start == nil || item.End == nil {
		return ev, fmt.Errorf("gcal: event %s without start/end", item.Id)
	}

	// evento de dia inteiro só tem datas; End é exclusivo
	if item.Start.DateTime == "" {
		start, err := time.ParseInLocation("2006-01-02", item.Start.Date, c.loc)
		if err != nil {
			return ev, fmt.Errorf("gcal: event %s start date: %w", item.Id, err)
		}
		end, err := time.ParseInLocation("2006-01-02", item.End.Date, c.loc)
		if err != nil {
			return ev, fmt.Errorf("gcal: event %s end date: %w", item.Id, err)
		}
		ev.Start, ev.End, ev.AllDay = start, end, true
		return ev, nil
	}

	start, err := time.Parse(time.RFC3339, item.Start.DateTime)
	if err != nil {
		return ev, fmt.Errorf("gcal: event %s start: %w", item.Id, err)
	}
	end, err := time.Parse(time.RFC3339, item.End.DateTime)
	if err != nil {
		return ev, fmt.Errorf("gcal: event %s end: %w", item.Id, err)
	}
	ev.Start, ev.End = start.In(c.loc), end.In(c.loc)
	return ev, nil
}

// checagem em tempo de compilação
var _ calendar.Calendar = (*Client)(nil)
