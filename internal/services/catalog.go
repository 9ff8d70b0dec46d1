package services

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"time"
)

// Trigger names raised by project actions
const (
	TriggerProjectCreated           = "project_created"
	TriggerBigIdeaCreated           = "big_idea_created"
	TriggerEssentialQuestionCreated = "essential_question_created"
	TriggerChallengeDefined         = "challenge_defined"
	TriggerEngageCompleted          = "engage_completed"
	TriggerInvestigateStarted       = "investigate_started"
	TriggerFirstQuestionAnswered    = "first_question_answered"
	TriggerQuestionsAnswered3       = "questions_answered_3"
	TriggerQuestionsAnswered5       = "questions_answered_5"
	TriggerActivityCreated          = "activity_created"
	TriggerResourcesAdded           = "resources_added"
	TriggerMultipleResources        = "multiple_resources_collected"
	TriggerInvestigateCompleted     = "investigate_completed"
	TriggerPrototypeCreated         = "prototype_created"
	TriggerMultiplePrototypes       = "multiple_prototypes_created"
	TriggerActCompleted             = "act_completed"
	TriggerCycleCompleted           = "cbl_cycle_completed"
)

// Payload keys understood by badge requirements
const (
	KeyProjectID          = "projectId"
	KeyAllPhasesCompleted = "allPhasesCompleted"
	KeyQuestionsAnswered  = "questionsAnswered"
	KeyResourcesCount     = "resourcesCount"
	KeyPrototypesCount    = "prototypesCount"
)

const (
	BadgeImplementador = "implementador"
	BadgeMestreCBL     = "mestre_cbl"
)

// Payload is the optional data attached to a trigger
type Payload map[string]any

// Int reads a numeric payload value. JSON numbers arrive as float64.
func (p Payload) Int(key string) int {
	switch v := p[key].(type) {
	case int:
		return v
	case int64:
		return int(v)
	case float64:
		return int(math.Round(v))
	case json.Number:
		n, _ := v.Int64()
		return int(n)
	case string:
		n, _ := strconv.Atoi(v)
		return n
	}
	return 0
}

func (p Payload) Bool(key string) bool {
	b, _ := p[key].(bool)
	return b
}

func (p Payload) String(key string) string {
	s, _ := p[key].(string)
	return s
}

func (p Payload) clone() Payload {
	out := make(Payload, len(p)+1)
	for k, v := range p {
		out[k] = v
	}
	return out
}

// BadgeDefinition is a static catalog entry
type BadgeDefinition struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	XP          int    `json:"xp"`
	Category    string `json:"category"`
	Trigger     string `json:"trigger"`

	// Requirement narrows eligibility beyond the trigger name. Nil means
	// the trigger alone is enough.
	Requirement func(Payload) bool `json:"-"`
}

func (d BadgeDefinition) Eligible(p Payload) bool {
	if d.Requirement == nil {
		return true
	}
	return d.Requirement(p)
}

// Catalog is an immutable, ordered set of badge definitions
type Catalog struct {
	defs       []BadgeDefinition
	byID       map[string]int
	byTrigger  map[string][]int
	categories []string
}

func NewCatalog(defs []BadgeDefinition) (*Catalog, error) {
	c := &Catalog{
		defs:      make([]BadgeDefinition, len(defs)),
		byID:      make(map[string]int, len(defs)),
		byTrigger: make(map[string][]int),
	}
	copy(c.defs, defs)

	seenCategory := map[string]bool{}
	for i, d := range c.defs {
		if d.ID == "" {
			return nil, fmt.Errorf("badge at index %d has no id", i)
		}
		if d.XP < 0 {
			return nil, fmt.Errorf("badge %q has negative xp", d.ID)
		}
		if _, dup := c.byID[d.ID]; dup {
			return nil, fmt.Errorf("duplicate badge id %q", d.ID)
		}
		c.byID[d.ID] = i
		c.byTrigger[d.Trigger] = append(c.byTrigger[d.Trigger], i)
		if !seenCategory[d.Category] {
			seenCategory[d.Category] = true
			c.categories = append(c.categories, d.Category)
		}
	}
	return c, nil
}

func MustCatalog(defs []BadgeDefinition) *Catalog {
	c, err := NewCatalog(defs)
	if err != nil {
		panic(err)
	}
	return c
}

// Lookup returns every definition bound to trigger, in declaration order
func (c *Catalog) Lookup(trigger string) []BadgeDefinition {
	idx := c.byTrigger[trigger]
	out := make([]BadgeDefinition, 0, len(idx))
	for _, i := range idx {
		out = append(out, c.defs[i])
	}
	return out
}

func (c *Catalog) Get(id string) (BadgeDefinition, bool) {
	i, ok := c.byID[id]
	if !ok {
		return BadgeDefinition{}, false
	}
	return c.defs[i], true
}

func (c *Catalog) All() []BadgeDefinition {
	out := make([]BadgeDefinition, len(c.defs))
	copy(out, c.defs)
	return out
}

func (c *Catalog) Len() int {
	return len(c.defs)
}

// CategoryBadges splits a category into what a user has and has not earned
type CategoryBadges struct {
	Earned   []BadgeDefinition `json:"earned"`
	Unearned []BadgeDefinition `json:"unearned"`
}

// ByCategory groups the catalog by category against a user's ledger
func (c *Catalog) ByCategory(earned map[string]time.Time) map[string]*CategoryBadges {
	out := make(map[string]*CategoryBadges, len(c.categories))
	for _, cat := range c.categories {
		out[cat] = &CategoryBadges{Earned: []BadgeDefinition{}, Unearned: []BadgeDefinition{}}
	}
	for _, d := range c.defs {
		group := out[d.Category]
		if _, ok := earned[d.ID]; ok {
			group.Earned = append(group.Earned, d)
		} else {
			group.Unearned = append(group.Unearned, d)
		}
	}
	return out
}

func atLeast(key string, n int) func(Payload) bool {
	return func(p Payload) bool {
		return p.Int(key) >= n
	}
}

// DefaultBadges is the catalog shipped with the service
var DefaultBadges = []BadgeDefinition{
	{ID: "explorador", Name: "Explorador", Description: "Criou seu primeiro projeto CBL", XP: 50, Category: "inicio", Trigger: TriggerProjectCreated},

	{ID: "visionario", Name: "Visionário", Description: "Definiu a Big Idea do projeto", XP: 50, Category: "engage", Trigger: TriggerBigIdeaCreated},
	{ID: "questionador", Name: "Questionador", Description: "Formulou a Essential Question", XP: 50, Category: "engage", Trigger: TriggerEssentialQuestionCreated},
	{ID: "desafiador", Name: "Desafiador", Description: "Definiu o desafio do projeto", XP: 50, Category: "engage", Trigger: TriggerChallengeDefined},
	{ID: "engajado", Name: "Engajado", Description: "Concluiu a fase Engage", XP: 100, Category: "engage", Trigger: TriggerEngageCompleted},

	{ID: "investigador_iniciante", Name: "Investigador Iniciante", Description: "Iniciou a fase Investigate", XP: 25, Category: "investigate", Trigger: TriggerInvestigateStarted},
	{ID: "primeira_resposta", Name: "Primeira Resposta", Description: "Respondeu a primeira guiding question", XP: 25, Category: "investigate", Trigger: TriggerFirstQuestionAnswered},
	{ID: "curioso", Name: "Curioso", Description: "Respondeu 3 guiding questions", XP: 50, Category: "investigate", Trigger: TriggerQuestionsAnswered3,
		Requirement: atLeast(KeyQuestionsAnswered, 3)},
	{ID: "pesquisador_dedicado", Name: "Pesquisador Dedicado", Description: "Respondeu 5 guiding questions", XP: 75, Category: "investigate", Trigger: TriggerQuestionsAnswered5,
		Requirement: atLeast(KeyQuestionsAnswered, 5)},
	{ID: "planejador", Name: "Planejador", Description: "Planejou a primeira atividade", XP: 25, Category: "investigate", Trigger: TriggerActivityCreated},
	{ID: "bibliotecario", Name: "Bibliotecário", Description: "Adicionou o primeiro recurso", XP: 25, Category: "investigate", Trigger: TriggerResourcesAdded,
		Requirement: atLeast(KeyResourcesCount, 1)},
	{ID: "pesquisador", Name: "Pesquisador", Description: "Coletou 3 ou mais recursos", XP: 50, Category: "investigate", Trigger: TriggerMultipleResources,
		Requirement: atLeast(KeyResourcesCount, 3)},
	{ID: "investigador", Name: "Investigador", Description: "Concluiu a fase Investigate", XP: 100, Category: "investigate", Trigger: TriggerInvestigateCompleted},

	{ID: "inovador", Name: "Inovador", Description: "Criou o primeiro protótipo", XP: 50, Category: "act", Trigger: TriggerPrototypeCreated},
	{ID: "prototipador", Name: "Prototipador", Description: "Criou 3 ou mais protótipos", XP: 75, Category: "act", Trigger: TriggerMultiplePrototypes,
		Requirement: atLeast(KeyPrototypesCount, 3)},
	{ID: BadgeImplementador, Name: "Implementador", Description: "Concluiu a fase Act", XP: 150, Category: "act", Trigger: TriggerActCompleted},

	{ID: BadgeMestreCBL, Name: "Mestre CBL", Description: "Completou um ciclo CBL inteiro", XP: 200, Category: "mestria", Trigger: TriggerCycleCompleted,
		Requirement: func(p Payload) bool { return p.Bool(KeyAllPhasesCompleted) }},
}

// DefaultCatalog builds the shipped catalog
func DefaultCatalog() *Catalog {
	return MustCatalog(DefaultBadges)
}
