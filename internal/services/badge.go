package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/ebarcelosf/Activelearn-hub/internal/models"
	apperrors "github.com/ebarcelosf/Activelearn-hub/pkg/errors"
	"github.com/ebarcelosf/Activelearn-hub/pkg/logger"
)

// ErrGrantFailed is the only error a user sees when a grant cannot be persisted
var ErrGrantFailed = apperrors.Internal("failed to grant badge")

// PhaseSource reads authoritative phase completion flags for a project
// owned by userID
type PhaseSource interface {
	PhaseFlags(ctx context.Context, userID, projectID string) (PhaseFlags, error)
}

// FeedRecorder is satisfied by *ActivityLog
type FeedRecorder interface {
	Log(ctx context.Context, actorID string, eventType models.FeedEventType, targetID, message string)
}

// cascades lists triggers evaluated right after another trigger, on the
// same resolved payload
var cascades = map[string][]string{
	TriggerActCompleted: {TriggerCycleCompleted},
}

// cycleTriggers need the project's real completion flags in the payload
var cycleTriggers = map[string]bool{
	TriggerActCompleted:   true,
	TriggerCycleCompleted: true,
}

// Engine maps triggers to grants
type Engine struct {
	catalog  *Catalog
	ledger   Ledger
	notifier *Notifier
	phases   PhaseSource
	feed     FeedRecorder
}

func NewEngine(catalog *Catalog, ledger Ledger, notifier *Notifier, phases PhaseSource, feed FeedRecorder) *Engine {
	if notifier == nil {
		notifier = NewNotifier(0)
	}
	return &Engine{
		catalog:  catalog,
		ledger:   ledger,
		notifier: notifier,
		phases:   phases,
		feed:     feed,
	}
}

func (e *Engine) Catalog() *Catalog { return e.catalog }

func (e *Engine) Ledger() Ledger { return e.ledger }

func (e *Engine) Notifier() *Notifier { return e.notifier }

// CheckTrigger grants every eligible, not yet earned badge bound to trigger
// and returns the definitions that were newly granted. An unknown trigger or
// an anonymous caller is a no-op. Every badge is attempted even when an
// earlier one fails; the first failure is returned.
func (e *Engine) CheckTrigger(ctx context.Context, userID, trigger string, payload Payload) ([]BadgeDefinition, error) {
	trigger = strings.TrimSpace(trigger)
	if userID == "" || trigger == "" {
		return nil, nil
	}
	if payload == nil {
		payload = Payload{}
	}

	chain := append([]string{trigger}, cascades[trigger]...)

	if cycleTriggers[trigger] {
		payload = e.resolveCycle(ctx, userID, payload)
	}

	var granted []BadgeDefinition
	var firstErr error
	for _, t := range chain {
		for _, def := range e.catalog.Lookup(t) {
			if !def.Eligible(payload) {
				continue
			}
			ok, err := e.grant(ctx, userID, def)
			if err != nil {
				if firstErr == nil {
					firstErr = err
				}
				continue
			}
			if ok {
				granted = append(granted, def)
			}
		}
	}

	if len(granted) > 0 {
		logger.Debug().Str("user_id", userID).Str("trigger", trigger).Int("granted", len(granted)).Msg("Trigger granted badges")
	}
	return granted, firstErr
}

// resolveCycle replaces any caller supplied allPhasesCompleted with the
// value stored on the caller's project named by projectId. Another user's
// project resolves to false.
func (e *Engine) resolveCycle(ctx context.Context, userID string, payload Payload) Payload {
	resolved := payload.clone()
	resolved[KeyAllPhasesCompleted] = false

	projectID := payload.String(KeyProjectID)
	if projectID == "" || e.phases == nil {
		return resolved
	}

	flags, err := e.phases.PhaseFlags(ctx, userID, projectID)
	if err != nil {
		logger.Warn().Err(err).Str("project_id", projectID).Msg("Could not read phase flags for cycle check")
		return resolved
	}
	resolved[KeyAllPhasesCompleted] = flags.AllCompleted()
	return resolved
}

// Grant awards a single badge by id, bypassing its trigger requirement.
// It reports whether a new ledger row was written.
func (e *Engine) Grant(ctx context.Context, userID, badgeID string) (bool, error) {
	if userID == "" {
		return false, nil
	}
	def, ok := e.catalog.Get(badgeID)
	if !ok {
		return false, apperrors.NotFound(fmt.Sprintf("badge %q not found", badgeID))
	}
	return e.grant(ctx, userID, def)
}

func (e *Engine) grant(ctx context.Context, userID string, def BadgeDefinition) (bool, error) {
	// The cached check only saves a write; the unique index decides
	earned, err := e.ledger.HasEarned(ctx, userID, def.ID)
	if err != nil {
		logger.Warn().Err(err).Str("user_id", userID).Str("badge_id", def.ID).Msg("Ledger read failed, attempting insert")
	} else if earned {
		return false, nil
	}

	inserted, err := e.ledger.Insert(ctx, userID, def.ID)
	if err != nil {
		logger.Error().Err(err).Str("user_id", userID).Str("badge_id", def.ID).Msg("Failed to grant badge")
		return false, ErrGrantFailed
	}
	if !inserted {
		return false, nil
	}

	e.notifier.Publish(Notice{
		UserID:   userID,
		BadgeID:  def.ID,
		Name:     def.Name,
		XP:       def.XP,
		EarnedAt: time.Now(),
	})
	if e.feed != nil {
		e.feed.Log(ctx, userID, models.FeedAchievement, def.ID, fmt.Sprintf("Conquistou a badge %s (+%d XP)", def.Name, def.XP))
	}

	logger.Info().Str("user_id", userID).Str("badge_id", def.ID).Int("xp", def.XP).Msg("Badge granted")
	return true, nil
}

// Profile is a user's badge standing
type Profile struct {
	Earned     []EarnedBadge              `json:"earned"`
	Summary    LevelSummary               `json:"summary"`
	Categories map[string]*CategoryBadges `json:"categories"`
}

type EarnedBadge struct {
	BadgeDefinition
	EarnedAt time.Time `json:"earnedAt"`
}

func (e *Engine) Profile(ctx context.Context, userID string) (*Profile, error) {
	earned, err := e.ledger.AllEarned(ctx, userID)
	if err != nil {
		return nil, err
	}

	list := make([]EarnedBadge, 0, len(earned))
	for _, def := range e.catalog.All() {
		if at, ok := earned[def.ID]; ok {
			list = append(list, EarnedBadge{BadgeDefinition: def, EarnedAt: at})
		}
	}

	return &Profile{
		Earned:     list,
		Summary:    Summarize(e.catalog, earned),
		Categories: e.catalog.ByCategory(earned),
	}, nil
}
