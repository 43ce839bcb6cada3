package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"draftday/control"
	"draftday/models"
	"draftday/repositories"
	"draftday/sequence"
	"draftday/swiss"
	"draftday/utils"
)

// Broadcaster pushes a fresh event snapshot to subscribed clients after a
// successful write. Clients that do not listen keep polling; nothing is lost
// when nobody is connected.
type Broadcaster interface {
	BroadcastEvent(event *models.EventSession)
}

// NopBroadcaster is used when the live hub is disabled.
type NopBroadcaster struct{}

func (NopBroadcaster) BroadcastEvent(*models.EventSession) {}

// StageInfo is the admin sequence view: the derived stage plus the verdict
// for every reachable target stage.
type StageInfo struct {
	Stage       string            `json:"stage"`
	Transitions []TransitionEntry `json:"transitions"`
}

type TransitionEntry struct {
	Stage string `json:"stage"`
	sequence.TransitionCheck
}

type EventService interface {
	CreateEvent(ctx context.Context, event *models.EventSession) (*models.EventSession, error)
	GetEvent(ctx context.Context, id string) (*models.EventSession, error)
	ReplaceEvent(ctx context.Context, id string, event *models.EventSession) (*models.EventSession, error)
	GetEventByCode(ctx context.Context, code string) (*models.EventSession, error)
	ChangeEventCode(ctx context.Context, id, code string) (*models.EventSession, error)

	AddPlayer(ctx context.Context, id, name string) (*models.EventSession, error)
	RemovePlayer(ctx context.Context, id, playerID string) (*models.EventSession, error)
	RenamePlayer(ctx context.Context, id, playerID, name string) (*models.EventSession, error)
	ShufflePlayers(ctx context.Context, id string) (*models.EventSession, error)

	StartEvent(ctx context.Context, id string) (*models.EventSession, error)
	AdvanceToPhase(ctx context.Context, id string, phase models.Phase) (*models.EventSession, error)
	Stage(ctx context.Context, id string) (*StageInfo, error)
	SyncToStage(ctx context.Context, id, token string) (*models.EventSession, error)

	AdvanceDraftPack(ctx context.Context, id string) (*models.EventSession, error)
	CompleteDraft(ctx context.Context, id string) (*models.EventSession, error)
	AppendDraftLog(ctx context.Context, id, message string) (*models.EventSession, error)

	StartTimer(ctx context.Context, id string) (*models.EventSession, error)
	PauseTimer(ctx context.Context, id string) (*models.EventSession, error)
	ResumeTimer(ctx context.Context, id string) (*models.EventSession, error)
	AdjustTimer(ctx context.Context, id string, deltaSeconds int) (*models.EventSession, error)
	ResetTimer(ctx context.Context, id string) (*models.EventSession, error)

	SetDeckbuildingComplete(ctx context.Context, id string, complete bool) (*models.EventSession, error)

	GeneratePairings(ctx context.Context, id string, round int) (*models.EventSession, error)
	FinalizeRound(ctx context.Context, id string) (*models.EventSession, error)
	SetMatchResult(ctx context.Context, id, matchID string, result *models.MatchResult) (*models.EventSession, error)
	Standings(ctx context.Context, id string) ([]swiss.PlayerStanding, error)
}

type eventService struct {
	repo      repositories.EventRepository
	hub       Broadcaster
	logger    *slog.Logger
	now       func() time.Time
	codeTries int
}

func NewEventService(repo repositories.EventRepository, hub Broadcaster, logger *slog.Logger) EventService {
	if hub == nil {
		hub = NopBroadcaster{}
	}
	return &eventService{
		repo:      repo,
		hub:       hub,
		logger:    logger,
		now:       time.Now,
		codeTries: 20,
	}
}

// apply runs one controller operation inside the repository's CAS loop and
// broadcasts the committed snapshot.
func (s *eventService) apply(ctx context.Context, id string, mutate func(*models.EventSession) error) (*models.EventSession, error) {
	event, err := s.repo.Update(ctx, id, mutate)
	if err != nil {
		if errors.Is(err, repositories.ErrEventNotFound) {
			return nil, ErrEventNotFound
		}
		return nil, err
	}
	s.hub.BroadcastEvent(event)
	return event, nil
}

func (s *eventService) freeCode(ctx context.Context, code string) (bool, error) {
	_, err := s.repo.GetEventIDByCode(ctx, code)
	if errors.Is(err, repositories.ErrCodeNotFound) {
		return true, nil
	}
	if err != nil {
		return false, fmt.Errorf("check code %s: %w", code, err)
	}
	return false, nil
}

func (s *eventService) generateCode(ctx context.Context) (string, error) {
	for i := 0; i < s.codeTries; i++ {
		code := utils.NewEventCode()
		free, err := s.freeCode(ctx, code)
		if err != nil {
			return "", err
		}
		if free {
			return code, nil
		}
	}
	return "", fmt.Errorf("could not find a free event code after %d attempts", s.codeTries)
}

func (s *eventService) CreateEvent(ctx context.Context, event *models.EventSession) (*models.EventSession, error) {
	if event == nil {
		return nil, ErrEventBodyRequired
	}
	if event.ID == "" {
		return nil, ErrEventIDRequired
	}

	now := s.now()
	event.CreatedAt = models.EpochMillis(now)
	event.UpdatedAt = event.CreatedAt
	if event.Type == "" {
		event.Type = models.EventTypeDraft
	}
	if !event.CurrentPhase.Valid() {
		event.CurrentPhase = models.PhaseSetup
	}
	if event.Settings == (models.Settings{}) {
		event.Settings = models.DefaultSettings()
	}

	if event.EventCode == "" {
		code, err := s.generateCode(ctx)
		if err != nil {
			return nil, err
		}
		event.EventCode = code
	} else {
		event.EventCode = utils.NormalizeEventCode(event.EventCode)
		if !utils.IsValidEventCode(event.EventCode) {
			return nil, ErrInvalidEventCode
		}
		if free, err := s.freeCode(ctx, event.EventCode); err != nil {
			return nil, err
		} else if !free {
			return nil, ErrEventCodeConflict
		}
	}

	if err := s.repo.Put(ctx, event); err != nil {
		return nil, err
	}
	if err := s.repo.PutCode(ctx, event.EventCode, event.ID); err != nil {
		return nil, err
	}
	s.logger.Info("event created",
		slog.String("event_id", event.ID),
		slog.String("event_code", event.EventCode),
		slog.String("type", string(event.Type)))
	return event, nil
}

func (s *eventService) GetEvent(ctx context.Context, id string) (*models.EventSession, error) {
	event, err := s.repo.Get(ctx, id)
	if err != nil {
		if errors.Is(err, repositories.ErrEventNotFound) {
			return nil, ErrEventNotFound
		}
		return nil, err
	}
	return event, nil
}

// ReplaceEvent is the legacy full-record write used by clients that mutate
// locally and push the whole session back. The code→id mapping follows an
// eventCode change.
func (s *eventService) ReplaceEvent(ctx context.Context, id string, event *models.EventSession) (*models.EventSession, error) {
	if event == nil {
		return nil, ErrEventBodyRequired
	}
	current, err := s.GetEvent(ctx, id)
	if err != nil {
		return nil, err
	}

	event.ID = id
	event.CreatedAt = current.CreatedAt
	event.Touch(s.now())

	if event.EventCode != "" {
		event.EventCode = utils.NormalizeEventCode(event.EventCode)
		if event.EventCode != current.EventCode {
			if !utils.IsValidEventCode(event.EventCode) {
				return nil, ErrInvalidEventCode
			}
			if free, err := s.freeCode(ctx, event.EventCode); err != nil {
				return nil, err
			} else if !free {
				return nil, ErrEventCodeConflict
			}
			if current.EventCode != "" {
				if err := s.repo.DeleteCode(ctx, current.EventCode); err != nil {
					return nil, err
				}
			}
		}
		if err := s.repo.PutCode(ctx, event.EventCode, id); err != nil {
			return nil, err
		}
	}

	if err := s.repo.Put(ctx, event); err != nil {
		return nil, err
	}
	s.hub.BroadcastEvent(event)
	return event, nil
}

func (s *eventService) GetEventByCode(ctx context.Context, code string) (*models.EventSession, error) {
	code = utils.NormalizeEventCode(code)
	if !utils.IsValidEventCode(code) {
		return nil, ErrInvalidEventCode
	}
	id, err := s.repo.GetEventIDByCode(ctx, code)
	if err != nil {
		if errors.Is(err, repositories.ErrCodeNotFound) {
			return nil, ErrCodeNotFound
		}
		return nil, err
	}
	event, err := s.GetEvent(ctx, id)
	if errors.Is(err, ErrEventNotFound) {
		// The event expired but its code pointer survived; drop the stale
		// mapping so the code can be reused.
		if delErr := s.repo.DeleteCode(ctx, code); delErr != nil {
			s.logger.Error("failed to delete stale event code",
				slog.String("event_code", code), slog.Any("error", delErr))
		}
		return nil, ErrCodeNotFound
	}
	return event, err
}

func (s *eventService) ChangeEventCode(ctx context.Context, id, code string) (*models.EventSession, error) {
	code = utils.NormalizeEventCode(code)
	if !utils.IsValidEventCode(code) {
		return nil, ErrInvalidEventCode
	}
	current, err := s.GetEvent(ctx, id)
	if err != nil {
		return nil, err
	}
	if current.EventCode == code {
		return current, nil
	}
	if free, err := s.freeCode(ctx, code); err != nil {
		return nil, err
	} else if !free {
		return nil, ErrEventCodeConflict
	}

	oldCode := current.EventCode
	event, err := s.apply(ctx, id, func(event *models.EventSession) error {
		event.EventCode = code
		event.Touch(s.now())
		return nil
	})
	if err != nil {
		return nil, err
	}
	if err := s.repo.PutCode(ctx, code, id); err != nil {
		return nil, err
	}
	if oldCode != "" {
		if err := s.repo.DeleteCode(ctx, oldCode); err != nil {
			return nil, err
		}
	}
	return event, nil
}

func (s *eventService) AddPlayer(ctx context.Context, id, name string) (*models.EventSession, error) {
	return s.apply(ctx, id, func(event *models.EventSession) error {
		if control.AddPlayer(event, name, s.now()) == nil {
			return ErrPlayerNameRequired
		}
		return nil
	})
}

func (s *eventService) RemovePlayer(ctx context.Context, id, playerID string) (*models.EventSession, error) {
	return s.apply(ctx, id, func(event *models.EventSession) error {
		player := event.FindPlayer(playerID)
		if player == nil {
			return ErrPlayerNotFound
		}
		if player.IsHost {
			return ErrHostNotRemovable
		}
		control.RemovePlayer(event, playerID, s.now())
		return nil
	})
}

func (s *eventService) RenamePlayer(ctx context.Context, id, playerID, name string) (*models.EventSession, error) {
	return s.apply(ctx, id, func(event *models.EventSession) error {
		if event.FindPlayer(playerID) == nil {
			return ErrPlayerNotFound
		}
		if !control.RenamePlayer(event, playerID, name, s.now()) {
			return ErrPlayerNameRequired
		}
		return nil
	})
}

func (s *eventService) ShufflePlayers(ctx context.Context, id string) (*models.EventSession, error) {
	return s.apply(ctx, id, func(event *models.EventSession) error {
		control.ShufflePlayers(event, s.now())
		return nil
	})
}

func (s *eventService) StartEvent(ctx context.Context, id string) (*models.EventSession, error) {
	return s.apply(ctx, id, func(event *models.EventSession) error {
		if !control.StartEvent(event, s.now()) {
			return ErrOperationNotApplied
		}
		return nil
	})
}

func (s *eventService) AdvanceToPhase(ctx context.Context, id string, phase models.Phase) (*models.EventSession, error) {
	return s.apply(ctx, id, func(event *models.EventSession) error {
		if !control.AdvanceToPhase(event, phase, s.now()) {
			return ErrInvalidPhase
		}
		return nil
	})
}

// stageTargets enumerates the stages the admin sequence control offers.
func stageTargets(event *models.EventSession) []sequence.Stage {
	targets := []sequence.Stage{sequence.Setup()}
	if event.Type == models.EventTypeDraft {
		for pack := 1; pack <= 3; pack++ {
			targets = append(targets, sequence.DraftPack(pack, sequence.SubActive))
		}
		targets = append(targets, sequence.DraftComplete())
	}
	targets = append(targets,
		sequence.Deckbuilding(sequence.SubActive),
		sequence.Deckbuilding(sequence.SubComplete),
	)
	for n := 1; n <= event.Settings.TotalRounds; n++ {
		targets = append(targets, sequence.Round(n, sequence.SubActive))
	}
	return append(targets, sequence.Complete())
}

func (s *eventService) Stage(ctx context.Context, id string) (*StageInfo, error) {
	event, err := s.GetEvent(ctx, id)
	if err != nil {
		return nil, err
	}
	now := s.now()
	current := sequence.DeriveStage(event, now)
	info := &StageInfo{Stage: current.String()}
	for _, target := range stageTargets(event) {
		info.Transitions = append(info.Transitions, TransitionEntry{
			Stage:           target.String(),
			TransitionCheck: sequence.CanTransition(event, current, target, now),
		})
	}
	return info, nil
}

// SyncToStage validates the requested jump against the guard, then applies
// it. The controller itself never re-checks; the guard consultation lives
// here, at the boundary, exactly once.
func (s *eventService) SyncToStage(ctx context.Context, id, token string) (*models.EventSession, error) {
	target, err := sequence.Parse(token)
	if err != nil {
		return nil, ErrInvalidStageToken
	}
	return s.apply(ctx, id, func(event *models.EventSession) error {
		now := s.now()
		current := sequence.DeriveStage(event, now)
		check := sequence.CanTransition(event, current, target, now)
		if !check.Allowed {
			return fmt.Errorf("%w: %s", ErrStageNotAllowed, check.Reason)
		}
		control.SyncToStage(event, target, now)
		return nil
	})
}

func (s *eventService) AdvanceDraftPack(ctx context.Context, id string) (*models.EventSession, error) {
	return s.apply(ctx, id, func(event *models.EventSession) error {
		if !control.AdvanceToNextPack(event, s.now()) {
			return ErrOperationNotApplied
		}
		return nil
	})
}

func (s *eventService) CompleteDraft(ctx context.Context, id string) (*models.EventSession, error) {
	return s.apply(ctx, id, func(event *models.EventSession) error {
		if !control.CompleteDraft(event, s.now()) {
			return ErrOperationNotApplied
		}
		return nil
	})
}

func (s *eventService) AppendDraftLog(ctx context.Context, id, message string) (*models.EventSession, error) {
	return s.apply(ctx, id, func(event *models.EventSession) error {
		if !control.AppendDraftLog(event, message, s.now()) {
			return ErrOperationNotApplied
		}
		return nil
	})
}

func (s *eventService) timerOp(ctx context.Context, id string, op func(*models.EventSession, time.Time) bool) (*models.EventSession, error) {
	return s.apply(ctx, id, func(event *models.EventSession) error {
		if !op(event, s.now()) {
			return ErrOperationNotApplied
		}
		return nil
	})
}

func (s *eventService) StartTimer(ctx context.Context, id string) (*models.EventSession, error) {
	return s.timerOp(ctx, id, control.StartTimer)
}

func (s *eventService) PauseTimer(ctx context.Context, id string) (*models.EventSession, error) {
	return s.timerOp(ctx, id, control.PauseTimer)
}

func (s *eventService) ResumeTimer(ctx context.Context, id string) (*models.EventSession, error) {
	return s.timerOp(ctx, id, control.ResumeTimer)
}

func (s *eventService) AdjustTimer(ctx context.Context, id string, deltaSeconds int) (*models.EventSession, error) {
	return s.apply(ctx, id, func(event *models.EventSession) error {
		if !control.AdjustTimer(event, deltaSeconds, s.now()) {
			return ErrOperationNotApplied
		}
		return nil
	})
}

func (s *eventService) ResetTimer(ctx context.Context, id string) (*models.EventSession, error) {
	return s.timerOp(ctx, id, control.ResetTimer)
}

func (s *eventService) SetDeckbuildingComplete(ctx context.Context, id string, complete bool) (*models.EventSession, error) {
	return s.apply(ctx, id, func(event *models.EventSession) error {
		if !control.MarkDeckbuildingComplete(event, complete, s.now()) {
			return ErrOperationNotApplied
		}
		return nil
	})
}

func (s *eventService) GeneratePairings(ctx context.Context, id string, round int) (*models.EventSession, error) {
	return s.apply(ctx, id, func(event *models.EventSession) error {
		if round < 1 || round > event.Settings.TotalRounds {
			return ErrRoundNotFound
		}
		// Already generated: keep the existing round, do not duplicate.
		if event.RoundByNumber(round) != nil {
			return nil
		}
		control.GeneratePairings(event, round, s.now())
		return nil
	})
}

func (s *eventService) FinalizeRound(ctx context.Context, id string) (*models.EventSession, error) {
	return s.apply(ctx, id, func(event *models.EventSession) error {
		if !control.FinalizeRound(event, s.now()) {
			return ErrRoundNotFound
		}
		return nil
	})
}

func (s *eventService) SetMatchResult(ctx context.Context, id, matchID string, result *models.MatchResult) (*models.EventSession, error) {
	if result != nil && !result.Validate() {
		return nil, ErrInvalidMatchResult
	}
	return s.apply(ctx, id, func(event *models.EventSession) error {
		if !control.UpdateMatchResult(event, matchID, result, s.now()) {
			return ErrMatchNotFound
		}
		return nil
	})
}

func (s *eventService) Standings(ctx context.Context, id string) ([]swiss.PlayerStanding, error) {
	event, err := s.GetEvent(ctx, id)
	if err != nil {
		return nil, err
	}
	return swiss.CalculateStandings(event.Players, event.Rounds), nil
}
