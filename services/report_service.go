package services

import (
	"context"
	"coworking_app_go/models"
	"fmt"
	"io"
	"log"
	"strings"
	"time"

	"gorm.io/gorm"
)

// ReportRequest selects the room a report is generated for
type ReportRequest struct {
	SubsectionID string `json:"subsection_id"`
	UnitID       string `json:"unit_id"`
	RoomID       string `json:"room_id"`
	Year         *int   `json:"year"`
	SendEmail    bool   `json:"send_email"`
}

// ReportResult is the generated markdown with the metrics it was built from
type ReportResult struct {
	ID             string     `json:"id,omitempty"`
	Markdown       string     `json:"markdown"`
	SubsectionID   string     `json:"subsection_id"`
	SubsectionName string     `json:"subsection_name"`
	UnitID         string     `json:"unit_id"`
	UnitName       string     `json:"unit_name"`
	UnitHierarchy  string     `json:"unit_hierarchy"`
	RoomID         string     `json:"room_id"`
	RoomName       string     `json:"room_name"`
	GeneratedBy    string     `json:"generated_by"`
	GeneratedByID  string     `json:"generated_by_id"`
	GeneratedAt    time.Time  `json:"generated_at"`
	TotalSessions  int64      `json:"total_sessions"`
	ActiveSessions int64      `json:"active_sessions"`
	StorageKey     string     `json:"storage_key,omitempty"`
	Metrics        *Dashboard `json:"metrics"`
}

// GenerateReport validates the room path, gathers the dashboard metrics and asks gen for a markdown report.
// When store is non-nil the markdown is archived and a Report row records it.
func GenerateReport(ctx context.Context, db *gorm.DB, gen ReportGenerator, store StorageProvider, req ReportRequest, analyst *Principal) (*ReportResult, error) {
	if req.SubsectionID == "" || req.UnitID == "" || req.RoomID == "" {
		return nil, ValidationError("subsection_id, unit_id and room_id are required")
	}
	if analyst == nil || analyst.Role != RoleAnalyst {
		return nil, ForbiddenError("only IT analysts can generate reports")
	}

	scope, err := ValidateDashboardScope(db, req.SubsectionID, req.UnitID, req.RoomID)
	if err != nil {
		return nil, err
	}
	dash, err := buildDashboardForScope(db, scope, req.Year)
	if err != nil {
		return nil, err
	}

	generatedAt := now()
	prompt := BuildReportPrompt(scope, dash, analyst, generatedAt)

	text, err := gen.Generate(ctx, prompt)
	if err != nil {
		log.Printf("[REPORT] Generation failed for room %s: %v", scope.Room.ID, err)
		return nil, UpstreamError(err, "report generation failed")
	}
	if strings.TrimSpace(text) == "" {
		return nil, UpstreamError(nil, "report generator returned no content")
	}

	result := &ReportResult{
		Markdown:       text,
		SubsectionID:   scope.Subsection.ID,
		SubsectionName: scope.Subsection.Name,
		UnitID:         scope.Unit.ID,
		UnitName:       scope.Unit.Name,
		UnitHierarchy:  scope.Unit.Hierarchy,
		RoomID:         scope.Room.ID,
		RoomName:       scope.Room.Name,
		GeneratedBy:    analyst.Name,
		GeneratedByID:  analyst.ID,
		GeneratedAt:    generatedAt,
		TotalSessions:  dash.TotalSessions,
		ActiveSessions: dash.ActiveSessions,
		Metrics:        dash,
	}

	if store != nil {
		if err := archiveReport(ctx, db, store, result, req.Year, gen.ModelName()); err != nil {
			return nil, err
		}
	}

	log.Printf("[REPORT] Generated report for room %s by analyst %s", scope.Room.ID, analyst.ID)
	return result, nil
}

func archiveReport(ctx context.Context, db *gorm.DB, store StorageProvider, result *ReportResult, year *int, model string) error {
	key := GenerateReportKey(result.SubsectionID, result.GeneratedAt)
	if _, err := store.Put(ctx, key, []byte(result.Markdown), contentTypeFor(key)); err != nil {
		return fmt.Errorf("failed to archive report: %w", err)
	}

	report := &models.Report{
		CreatedAt:      result.GeneratedAt,
		AnalystID:      result.GeneratedByID,
		SubsectionID:   result.SubsectionID,
		UnitID:         result.UnitID,
		RoomID:         result.RoomID,
		Year:           year,
		TotalSessions:  result.TotalSessions,
		ActiveSessions: result.ActiveSessions,
		StorageKey:     key,
		Model:          model,
	}
	if err := db.Create(report).Error; err != nil {
		// Orphaned object; the row is the index, so remove the upload
		if delErr := store.Delete(ctx, key); delErr != nil {
			log.Printf("[WARNING] Failed to remove orphaned report %s: %v", key, delErr)
		}
		return err
	}

	result.ID = report.ID
	result.StorageKey = key
	return nil
}

// BuildReportPrompt renders the instructions and metrics sent to the report generator
func BuildReportPrompt(scope *HierarchyScope, dash *Dashboard, analyst *Principal, generatedAt time.Time) string {
	var sb strings.Builder

	sb.WriteString("Você é um assistente especializado em análise de dados de salas de coworking da OAB (Ordem dos Advogados do Brasil).\n\n")
	sb.WriteString("CONTEXTO:\n")
	sb.WriteString("A OAB mantém salas de coworking em subseções e unidades. Cada sala tem computadores usados por advogados em sessões controladas, ")
	sb.WriteString("com registro de início e fim, picos de acesso e padrões de uso.\n\n")

	sb.WriteString("INFORMAÇÕES DO RELATÓRIO:\n")
	fmt.Fprintf(&sb, "- Gerado por: %s (Analista de TI - ID: %s)\n", analyst.Name, analyst.ID)
	fmt.Fprintf(&sb, "- Data e hora: %s UTC\n", generatedAt.Format("02/01/2006 às 15:04"))
	if dash.Year != nil {
		fmt.Fprintf(&sb, "- Período analisado: ano de %d\n", *dash.Year)
	} else {
		sb.WriteString("- Período analisado: todo o histórico\n")
	}

	sb.WriteString("\nLOCALIZAÇÃO:\n")
	fmt.Fprintf(&sb, "- Subseção: %s (ID: %s)\n", scope.Subsection.Name, scope.Subsection.ID)
	fmt.Fprintf(&sb, "- Unidade: %s (ID: %s)\n", scope.Unit.Name, scope.Unit.ID)
	fmt.Fprintf(&sb, "- Hierarquia da unidade: %s\n", scope.Unit.Hierarchy)
	fmt.Fprintf(&sb, "- Sala de coworking: %s (ID: %s)\n", scope.Room.Name, scope.Room.ID)

	sb.WriteString("\nMÉTRICAS DE USO:\n")
	fmt.Fprintf(&sb, "- Sessões ativas no momento: %d\n", dash.ActiveSessions)
	fmt.Fprintf(&sb, "- Total de sessões: %d\n", dash.TotalSessions)
	if dash.PeakAccess != nil {
		fmt.Fprintf(&sb, "- Pico de acesso: %s com %d sessões\n", dash.PeakAccess.Hour.Format("02/01/2006 às 15:04"), dash.PeakAccess.Count)
	} else {
		sb.WriteString("- Pico de acesso: sem dados disponíveis\n")
	}
	if dash.BusiestRoom != nil {
		fmt.Fprintf(&sb, "- Sala mais utilizada da unidade: %s com %d sessões\n", dash.BusiestRoom.Name, dash.BusiestRoom.Count)
	} else {
		sb.WriteString("- Sala mais utilizada da unidade: sem dados de comparação\n")
	}

	sb.WriteString("\nFREQUÊNCIA MENSAL:\n")
	if len(dash.MonthlyFrequency) == 0 {
		sb.WriteString("- Sem dados históricos de frequência mensal\n")
	}
	for _, m := range dash.MonthlyFrequency {
		fmt.Fprintf(&sb, "- %s/%d: %d sessões\n", m.MonthName, m.Year, m.Count)
	}

	sb.WriteString("\nINSTRUÇÕES:\n")
	sb.WriteString("1. Estrutura obrigatória: cabeçalho com título, data e analista; localização da sala; sumário executivo; ")
	sb.WriteString("análise detalhada das métricas; padrões e tendências; comparativo com outras salas quando houver dados; ")
	sb.WriteString("recomendações práticas priorizadas por impacto; conclusão e próximos passos.\n")
	sb.WriteString("2. Calcule percentuais e taxas quando possível e identifique sazonalidade a partir da frequência mensal.\n")
	sb.WriteString("3. Use Markdown com títulos (##), subtítulos (###), listas e tabelas.\n")
	sb.WriteString("4. Inclua todas as informações acima e use linguagem profissional e técnica.\n\n")
	sb.WriteString("Gere o relatório completo em Markdown agora:\n")

	return sb.String()
}

// ReportFilter narrows ListReports; empty fields are ignored
type ReportFilter struct {
	SubsectionID string
	RoomID       string
	AnalystID    string
}

// ListReports returns archived reports, newest first
func ListReports(db *gorm.DB, filter ReportFilter, skip, limit int) ([]models.Report, int64, error) {
	query := db.Model(&models.Report{})
	if filter.SubsectionID != "" {
		query = query.Where("subsection_id = ?", filter.SubsectionID)
	}
	if filter.RoomID != "" {
		query = query.Where("room_id = ?", filter.RoomID)
	}
	if filter.AnalystID != "" {
		query = query.Where("analyst_id = ?", filter.AnalystID)
	}
	return listPage[models.Report](query, "created_at DESC, id DESC", skip, limit)
}

// GetReportContent loads an archived report and its markdown body
func GetReportContent(ctx context.Context, db *gorm.DB, store StorageProvider, id string) (*models.Report, string, error) {
	report, err := findByID[models.Report](db, id, "report")
	if err != nil {
		return nil, "", err
	}
	reader, _, err := store.Get(ctx, report.StorageKey)
	if err != nil {
		return nil, "", NotFoundError("report content not available")
	}
	defer reader.Close()

	content, err := io.ReadAll(reader)
	if err != nil {
		return nil, "", fmt.Errorf("failed to read report content: %w", err)
	}
	return report, string(content), nil
}
