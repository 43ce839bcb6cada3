package services

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"draftday/models"
	"draftday/repositories"
)

// MatchReportOutcome is returned to both racing reporters: the first writer
// sees AlreadyReported=false and its own values, everyone after sees
// AlreadyReported=true with the committed result.
type MatchReportOutcome struct {
	AlreadyReported bool               `json:"alreadyReported"`
	Result          models.MatchResult `json:"result"`
	ReportedBy      string             `json:"reportedBy"`
	ReportedAt      int64              `json:"reportedAt"`
	RoundNumber     int                `json:"roundNumber"`
}

type MatchLookup struct {
	Match       *models.Match `json:"match"`
	RoundNumber int           `json:"roundNumber"`
}

type MatchService interface {
	// ReportResult records a participant-submitted result with first-write-
	// wins semantics: a match that already has a result is never overwritten,
	// the racing reporter gets the committed value back as a success.
	ReportResult(ctx context.Context, eventID, matchID string, result models.MatchResult, reporterID string) (*MatchReportOutcome, error)
	GetMatch(ctx context.Context, eventID, matchID string) (*MatchLookup, error)
}

type matchService struct {
	repo   repositories.EventRepository
	hub    Broadcaster
	logger *slog.Logger
	now    func() time.Time
}

func NewMatchService(repo repositories.EventRepository, hub Broadcaster, logger *slog.Logger) MatchService {
	if hub == nil {
		hub = NopBroadcaster{}
	}
	return &matchService{
		repo:   repo,
		hub:    hub,
		logger: logger,
		now:    time.Now,
	}
}

// errAlreadyReported aborts the CAS write when the first writer got there
// first; it is converted into a success outcome, not an error.
var errAlreadyReported = errors.New("match already reported")

func (s *matchService) ReportResult(ctx context.Context, eventID, matchID string, result models.MatchResult, reporterID string) (*MatchReportOutcome, error) {
	if !result.Validate() {
		return nil, ErrInvalidMatchResult
	}
	if reporterID == "" {
		return nil, ErrReporterNotParticipant
	}

	var outcome MatchReportOutcome

	event, err := s.repo.Update(ctx, eventID, func(event *models.EventSession) error {
		match, roundNumber := event.FindMatch(matchID)
		if match == nil {
			return ErrMatchNotFound
		}
		outcome.RoundNumber = roundNumber

		if match.Result != nil {
			// First write wins: hand the committed value back unchanged.
			outcome.AlreadyReported = true
			outcome.Result = *match.Result
			if match.ReportedBy != nil {
				outcome.ReportedBy = *match.ReportedBy
			}
			if match.ReportedAt != nil {
				outcome.ReportedAt = *match.ReportedAt
			}
			return errAlreadyReported
		}

		if !match.HasPlayer(reporterID) {
			return ErrReporterNotParticipant
		}

		now := s.now()
		reportedAt := models.EpochMillis(now)
		match.Result = &result
		match.ReportedBy = &reporterID
		match.ReportedAt = &reportedAt
		event.Touch(now)

		outcome.AlreadyReported = false
		outcome.Result = result
		outcome.ReportedBy = reporterID
		outcome.ReportedAt = reportedAt
		return nil
	})

	switch {
	case errors.Is(err, errAlreadyReported):
		s.logger.Info("duplicate match report absorbed",
			slog.String("event_id", eventID),
			slog.String("match_id", matchID),
			slog.String("reporter_id", reporterID))
		return &outcome, nil
	case errors.Is(err, repositories.ErrEventNotFound):
		return nil, ErrEventNotFound
	case err != nil:
		return nil, err
	}

	s.hub.BroadcastEvent(event)
	return &outcome, nil
}

func (s *matchService) GetMatch(ctx context.Context, eventID, matchID string) (*MatchLookup, error) {
	event, err := s.repo.Get(ctx, eventID)
	if err != nil {
		if errors.Is(err, repositories.ErrEventNotFound) {
			return nil, ErrEventNotFound
		}
		return nil, err
	}
	match, roundNumber := event.FindMatch(matchID)
	if match == nil {
		return nil, ErrMatchNotFound
	}
	return &MatchLookup{Match: match, RoundNumber: roundNumber}, nil
}
