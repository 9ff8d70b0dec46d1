package services

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/ebarcelosf/Activelearn-hub/internal/models"
	apperrors "github.com/ebarcelosf/Activelearn-hub/pkg/errors"
	"github.com/ebarcelosf/Activelearn-hub/pkg/logger"
	"gorm.io/gorm"
)

// PhaseFlags are the three persisted completion booleans of a project
type PhaseFlags struct {
	Engage      bool `json:"engage"`
	Investigate bool `json:"investigate"`
	Act         bool `json:"act"`
}

func FlagsOf(p *models.Project) PhaseFlags {
	if p == nil {
		return PhaseFlags{}
	}
	return PhaseFlags{Engage: p.EngageCompleted, Investigate: p.InvestigateCompleted, Act: p.ActCompleted}
}

func (f PhaseFlags) Count() int {
	n := 0
	for _, b := range []bool{f.Engage, f.Investigate, f.Act} {
		if b {
			n++
		}
	}
	return n
}

func (f PhaseFlags) AllCompleted() bool {
	return f.Engage && f.Investigate && f.Act
}

// ProjectProgress weighs each completed phase equally: 0, 33, 67 or 100
func ProjectProgress(f PhaseFlags) int {
	return int(math.Round(float64(f.Count()) * 100 / 3))
}

// ContentCompleteness is the share of the six headline fields filled in
func ContentCompleteness(p *models.Project) int {
	filled := 0
	for _, ok := range []bool{
		strings.TrimSpace(p.BigIdea) != "",
		strings.TrimSpace(p.EssentialQuestion) != "",
		p.Synthesis.Filled() > 0,
		p.Solution.Filled() > 0,
		p.Implementation.Filled() > 0,
		p.Evaluation.Filled() > 0,
	} {
		if ok {
			filled++
		}
	}
	return int(math.Round(float64(filled) * 100 / 6))
}

// GateInput carries what the phase gates look at
type GateInput struct {
	Project    *models.Project
	Questions  int
	Activities int
	Resources  int
	Prototypes int
}

// EngageGaps lists what still blocks completing Engage
func EngageGaps(p *models.Project) []string {
	var gaps []string
	if strings.TrimSpace(p.BigIdea) == "" {
		gaps = append(gaps, "big idea is required")
	}
	if strings.TrimSpace(p.EssentialQuestion) == "" {
		gaps = append(gaps, "essential question is required")
	}
	return gaps
}

func InvestigateGaps(in GateInput) []string {
	var gaps []string
	if in.Questions < 1 {
		gaps = append(gaps, "at least one guiding question is required")
	}
	if in.Activities < 1 {
		gaps = append(gaps, "at least one activity is required")
	}
	if in.Resources < 1 {
		gaps = append(gaps, "at least one resource is required")
	}
	if !in.Project.Synthesis.Has("mainFindings") {
		gaps = append(gaps, "synthesis main findings are required")
	}
	return gaps
}

func ActGaps(in GateInput) []string {
	var gaps []string
	if !in.Project.Solution.Has("description") {
		gaps = append(gaps, "solution description is required")
	}
	if in.Prototypes < 1 {
		gaps = append(gaps, "at least one prototype is required")
	}
	if !in.Project.Implementation.Has("overview") {
		gaps = append(gaps, "implementation overview is required")
	}
	if !in.Project.Evaluation.Has("objectives") {
		gaps = append(gaps, "evaluation objectives are required")
	}
	return gaps
}

func CanCompleteEngage(p *models.Project) bool { return len(EngageGaps(p)) == 0 }

func CanCompleteInvestigate(in GateInput) bool { return len(InvestigateGaps(in)) == 0 }

func CanCompleteAct(in GateInput) bool { return len(ActGaps(in)) == 0 }

// Gaps dispatches to the gate of phase
func Gaps(phase models.Phase, in GateInput) []string {
	switch phase {
	case models.PhaseEngage:
		return EngageGaps(in.Project)
	case models.PhaseInvestigate:
		return InvestigateGaps(in)
	case models.PhaseAct:
		return ActGaps(in)
	}
	return []string{"unknown phase"}
}

func previousPhase(p models.Phase) (models.Phase, bool) {
	switch p {
	case models.PhaseInvestigate:
		return models.PhaseEngage, true
	case models.PhaseAct:
		return models.PhaseInvestigate, true
	}
	return "", false
}

func nextPhase(p models.Phase) models.Phase {
	switch p {
	case models.PhaseEngage:
		return models.PhaseInvestigate
	}
	return models.PhaseAct
}

var flagColumn = map[models.Phase]string{
	models.PhaseEngage:      "engage_completed",
	models.PhaseInvestigate: "investigate_completed",
	models.PhaseAct:         "act_completed",
}

// PhaseTracker runs gated phase transitions and fires the matching triggers
type PhaseTracker struct {
	store  *ProjectStore
	engine *Engine
	feed   FeedRecorder
}

func NewPhaseTracker(store *ProjectStore, engine *Engine, feed FeedRecorder) *PhaseTracker {
	return &PhaseTracker{store: store, engine: engine, feed: feed}
}

type PhaseResult struct {
	Project          *models.Project   `json:"project"`
	AlreadyCompleted bool              `json:"alreadyCompleted"`
	Progress         int               `json:"progress"`
	Granted          []BadgeDefinition `json:"granted"`
	BadgeError       string            `json:"badgeError,omitempty"`
}

// CompletePhase marks phase complete on the caller's project. Completing a
// phase twice is a no-op. Triggers fire only after the write has committed.
func (t *PhaseTracker) CompletePhase(ctx context.Context, userID, projectID string, phase models.Phase) (*PhaseResult, error) {
	if !phase.Valid() {
		return nil, apperrors.BadRequest(fmt.Sprintf("invalid phase %q", phase))
	}

	project, err := t.store.Get(ctx, userID, projectID)
	if err != nil {
		return nil, err
	}

	if project.Completed(phase) {
		return &PhaseResult{Project: project, AlreadyCompleted: true, Progress: ProjectProgress(FlagsOf(project))}, nil
	}

	if prev, ok := previousPhase(phase); ok && !project.Completed(prev) {
		return nil, apperrors.BadRequest(fmt.Sprintf("complete the %s phase first", prev))
	}

	counts, err := t.store.Counts(ctx, project.ID)
	if err != nil {
		return nil, err
	}
	in := GateInput{
		Project:    project,
		Questions:  counts.Questions,
		Activities: counts.Activities,
		Resources:  counts.Resources,
		Prototypes: counts.Prototypes,
	}
	if gaps := Gaps(phase, in); len(gaps) > 0 {
		return nil, apperrors.BadRequest(strings.Join(gaps, "; "))
	}

	advanced := true
	err = t.store.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&models.Project{}).
			Where("id = ? AND "+flagColumn[phase]+" = ?", project.ID, false).
			Updates(map[string]interface{}{
				flagColumn[phase]: true,
				"phase":           nextPhase(phase),
			})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			advanced = false
			return nil
		}
		return tx.Model(&models.ChecklistItem{}).
			Where("project_id = ? AND phase = ?", project.ID, phase).
			Update("done", true).Error
	})
	if err != nil {
		logger.Error().Err(err).Str("project_id", project.ID).Str("phase", string(phase)).Msg("Failed to complete phase")
		return nil, fmt.Errorf("complete phase: %w", err)
	}

	project, err = t.store.Get(ctx, userID, projectID)
	if err != nil {
		return nil, err
	}
	result := &PhaseResult{Project: project, Progress: ProjectProgress(FlagsOf(project))}
	if !advanced {
		// another request got there first
		result.AlreadyCompleted = true
		return result, nil
	}

	if t.feed != nil {
		t.feed.Log(ctx, userID, models.FeedPhaseCompleted, project.ID, fmt.Sprintf("Concluiu a fase %s de %s", phase, project.Title))
	}

	granted, grantErr := t.fire(ctx, userID, project, phase, counts)
	result.Granted = granted
	if grantErr != nil {
		result.BadgeError = grantErr.Error()
	}
	return result, nil
}

func (t *PhaseTracker) fire(ctx context.Context, userID string, project *models.Project, phase models.Phase, counts ProjectCounts) ([]BadgeDefinition, error) {
	if t.engine == nil {
		return nil, nil
	}

	type call struct {
		trigger string
		payload Payload
	}
	var calls []call
	switch phase {
	case models.PhaseEngage:
		calls = []call{{TriggerEngageCompleted, nil}, {TriggerInvestigateStarted, nil}}
	case models.PhaseInvestigate:
		calls = []call{{TriggerInvestigateCompleted, Payload{KeyQuestionsAnswered: counts.Answered}}}
	case models.PhaseAct:
		calls = []call{{TriggerActCompleted, Payload{KeyProjectID: project.ID}}}
	}

	var granted []BadgeDefinition
	var errs []error
	for _, c := range calls {
		defs, err := t.engine.CheckTrigger(ctx, userID, c.trigger, c.payload)
		granted = append(granted, defs...)
		if err != nil {
			errs = append(errs, err)
		}
	}
	if len(errs) > 0 {
		return granted, errs[0]
	}
	return granted, nil
}

// Progress reports phase and content progress for a project
func (t *PhaseTracker) Progress(ctx context.Context, userID, projectID string) (map[string]interface{}, error) {
	project, err := t.store.Get(ctx, userID, projectID)
	if err != nil {
		return nil, err
	}
	counts, err := t.store.Counts(ctx, project.ID)
	if err != nil {
		return nil, err
	}
	in := GateInput{Project: project, Questions: counts.Questions, Activities: counts.Activities, Resources: counts.Resources, Prototypes: counts.Prototypes}

	gates := map[string][]string{}
	for _, ph := range models.Phases {
		gaps := Gaps(ph, in)
		if gaps == nil {
			gaps = []string{}
		}
		gates[string(ph)] = gaps
	}

	return map[string]interface{}{
		"phase":               project.Phase,
		"flags":               FlagsOf(project),
		"progress":            ProjectProgress(FlagsOf(project)),
		"contentCompleteness": ContentCompleteness(project),
		"counts":              counts,
		"gates":               gates,
	}, nil
}

func isNotFound(err error) bool {
	return errors.Is(err, gorm.ErrRecordNotFound)
}
