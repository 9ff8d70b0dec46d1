package seeds

import (
	"github.com/ebarcelosf/Activelearn-hub/internal/models"
	"github.com/ebarcelosf/Activelearn-hub/pkg/logger"
	"github.com/lib/pq"
	"gorm.io/gorm"
)

const demoProjectTitle = "Água limpa na escola"

// SeedDemoProject creates a project with Engage done and Investigate under way
func SeedDemoProject(db *gorm.DB, owner models.User) (*models.Project, error) {
	var existing models.Project
	if err := db.Where("user_id = ? AND title = ?", owner.ID, demoProjectTitle).First(&existing).Error; err == nil {
		logger.Info().Str("project_id", existing.ID).Msg("Demo project already seeded")
		return &existing, nil
	}

	project := models.Project{
		UserID:            owner.ID,
		Title:             demoProjectTitle,
		Description:       "Como garantir acesso a água potável para todos os alunos?",
		Phase:             models.PhaseInvestigate,
		EngageCompleted:   true,
		BigIdea:           "Sustentabilidade",
		EssentialQuestion: "Como podemos reduzir o desperdício de água na escola?",
		Challenge:         "Reduzir em 20% o consumo de água até o fim do semestre",
		Synthesis:         models.TextFields{},
		Solution:          models.TextFields{},
		Implementation:    models.TextFields{},
		Evaluation:        models.TextFields{},
	}

	err := db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&project).Error; err != nil {
			return err
		}

		questions := []models.GuidingQuestion{
			{ProjectID: project.ID, Question: "Quanto de água a escola consome por mês?", Answer: "Cerca de 120 mil litros"},
			{ProjectID: project.ID, Question: "Onde ocorre o maior desperdício?"},
		}
		activities := []models.Activity{
			{ProjectID: project.ID, Title: "Levantamento das torneiras", Type: "pesquisa de campo", Status: models.ActivityInProgress},
		}
		resources := []models.Resource{
			{ProjectID: project.ID, Title: "Relatório da companhia de saneamento", URL: "https://example.org/relatorio", Type: "artigo", Credibility: "alta", Tags: pq.StringArray{"água", "dados"}},
		}
		checklist := []models.ChecklistItem{
			{ProjectID: project.ID, Phase: models.PhaseEngage, Text: "Definir a Big Idea", Done: true},
			{ProjectID: project.ID, Phase: models.PhaseInvestigate, Text: "Responder as guiding questions"},
			{ProjectID: project.ID, Phase: models.PhaseAct, Text: "Testar o protótipo com a turma"},
		}

		for _, rows := range []interface{}{&questions, &activities, &resources, &checklist} {
			if err := tx.Create(rows).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	logger.Info().Str("project_id", project.ID).Msg("Demo project seeded")
	return &project, nil
}
