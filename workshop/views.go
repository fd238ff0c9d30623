package workshop

import (
	"sqlworkshop-server/db"
	"sqlworkshop-server/models"
	"sqlworkshop-server/utils"
)

// NavItem is one entry of the section selector.
type NavItem struct {
	View   models.View `json:"view"`
	Label  string      `json:"label"`
	Active bool        `json:"active"`
}

// AssetLink points at a download.
type AssetLink struct {
	Filename string `json:"filename"`
	URL      string `json:"url"`
}

// ObjectiveItem is a checkbox on the home view.
type ObjectiveItem struct {
	Key   models.ObjectiveKey `json:"key"`
	Label string              `json:"label"`
	Done  bool                `json:"done"`
}

// HomeView is the landing section.
type HomeView struct {
	Objectives []ObjectiveItem `json:"objectives"`
}

// ContextView shows the schema, the seed data and previews of the tables.
type ContextView struct {
	Schema    string               `json:"schema"`
	Seed      string               `json:"seed"`
	Tables    []models.SampleTable `json:"tables"`
	Downloads []AssetLink          `json:"downloads"`
}

// GuidedItem is one guided exercise as the student sees it.
type GuidedItem struct {
	ID              string `json:"id"`
	Title           string `json:"title"`
	Prompt          string `json:"prompt"`
	Hint            string `json:"hint"`
	Template        string `json:"template"`
	Code            string `json:"code"`
	Completed       bool   `json:"completed"`
	Revealed        bool   `json:"revealed"`
	SolutionVisible bool   `json:"solution_visible"`
	Solution        string `json:"solution,omitempty"`
}

// GuidedView lists the guided exercises.
type GuidedView struct {
	Exercises []GuidedItem `json:"exercises"`
	Summary   string       `json:"summary"`
}

// ChallengeItem is one sandbox challenge.
type ChallengeItem struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Snippet     string `json:"snippet"`
	Completed   bool   `json:"completed"`
}

// SandboxView is the free-form editor with its challenges.
type SandboxView struct {
	Code       string          `json:"code"`
	Challenges []ChallengeItem `json:"challenges"`
}

// CheatSheetView is the command reference.
type CheatSheetView struct {
	Rows     []models.CheatSheetRow     `json:"rows"`
	Examples []models.CheatSheetExample `json:"examples"`
	Guide    AssetLink                  `json:"guide"`
}

// FAQView is the question board.
type FAQView struct {
	Questions []QuestionView `json:"questions"`
}

// ConnectionView shows the display-only connection settings.
type ConnectionView struct {
	Params       models.ConnectionParams `json:"params"`
	DSN          string                  `json:"dsn"`
	DSNError     string                  `json:"dsn_error,omitempty"`
	Example      string                  `json:"example"`
	Requirements []string                `json:"requirements"`
}

// ViewModel is the read-only projection handed to the presentation layer.
// Exactly one of the section pointers is set, matching View.
type ViewModel struct {
	Title       string            `json:"title"`
	Subtitle    string            `json:"subtitle"`
	View        models.View       `json:"view"`
	Label       string            `json:"label"`
	Nav         []NavItem         `json:"nav"`
	TeacherMode bool              `json:"teacher_mode"`
	Progress    ProgressBreakdown `json:"progress"`
	Note        string            `json:"note,omitempty"`

	Home       *HomeView       `json:"home,omitempty"`
	Context    *ContextView    `json:"context,omitempty"`
	Guided     *GuidedView     `json:"guided,omitempty"`
	Sandbox    *SandboxView    `json:"sandbox,omitempty"`
	CheatSheet *CheatSheetView `json:"cheatsheet,omitempty"`
	FAQ        *FAQView        `json:"faq,omitempty"`
	Connection *ConnectionView `json:"connection,omitempty"`
}

// DownloadURL is where an asset is served.
func DownloadURL(filename string) string {
	return "/downloads/" + filename
}

var objectiveLabels = map[models.ObjectiveKey]string{
	models.ObjectiveReadObjectives:  "I read the objectives",
	models.ObjectiveCompletedGuided: "I completed the guided exercises",
	models.ObjectiveDidAutonomous:   "I did the autonomous practice",
}

var connectionRequirements = []string{
	"PostgreSQL 17 installed and running",
	"Go toolchain with github.com/jackc/pgx/v5",
	"Valid credentials",
}

// Project derives the projection of the current view from the state and the
// catalog. It never mutates st.
func (w *Workshop) Project(st *models.SessionState) ViewModel {
	view := st.CurrentView
	if _, ok := models.ParseView(string(view)); !ok {
		view = models.ViewHome
	}

	vm := ViewModel{
		Title:       w.catalog.Title,
		Subtitle:    w.catalog.Subtitle,
		View:        view,
		Label:       view.Label(),
		TeacherMode: st.TeacherMode,
		Progress:    Breakdown(st),
	}
	for _, v := range models.AllViews {
		vm.Nav = append(vm.Nav, NavItem{View: v, Label: v.Label(), Active: v == view})
	}
	if st.TeacherMode {
		vm.Note = w.catalog.Note(view)
	}

	switch view {
	case models.ViewHome:
		vm.Home = w.home(st)
	case models.ViewContext:
		vm.Context = w.context()
	case models.ViewGuided:
		vm.Guided = w.guided(st)
	case models.ViewSandbox:
		vm.Sandbox = w.sandbox(st)
	case models.ViewCheatSheet:
		vm.CheatSheet = w.cheatSheet()
	case models.ViewFAQ:
		vm.FAQ = &FAQView{Questions: QuestionViews(st)}
	case models.ViewConnection:
		vm.Connection = connection(st)
	}
	return vm
}

func (w *Workshop) home(st *models.SessionState) *HomeView {
	h := &HomeView{}
	for _, k := range models.AllObjectives {
		h.Objectives = append(h.Objectives, ObjectiveItem{
			Key:   k,
			Label: objectiveLabels[k],
			Done:  st.ObjectivesCompleted[k],
		})
	}
	return h
}

func (w *Workshop) context() *ContextView {
	cv := &ContextView{Tables: w.catalog.SampleTables}
	if a, ok := w.catalog.Asset("schema.sql"); ok {
		cv.Schema = string(a.Body)
		cv.Downloads = append(cv.Downloads, AssetLink{Filename: a.Filename, URL: DownloadURL(a.Filename)})
	}
	if a, ok := w.catalog.Asset("seed.sql"); ok {
		cv.Seed = string(a.Body)
		cv.Downloads = append(cv.Downloads, AssetLink{Filename: a.Filename, URL: DownloadURL(a.Filename)})
	}
	return cv
}

func (w *Workshop) guided(st *models.SessionState) *GuidedView {
	gv := &GuidedView{Summary: GuidedSummary(st)}
	for _, e := range w.catalog.Guided {
		item := GuidedItem{
			ID:              e.ID,
			Title:           e.Title,
			Prompt:          e.Prompt,
			Hint:            e.Hint,
			Template:        e.Template,
			Code:            utils.FirstNonEmpty(st.GuidedCode[e.ID], e.Template),
			Completed:       st.GuidedCompleted[e.ID],
			Revealed:        st.SolutionsRevealed[e.ID],
			SolutionVisible: SolutionVisible(st, e.ID),
		}
		if item.SolutionVisible {
			item.Solution = e.Solution
		}
		gv.Exercises = append(gv.Exercises, item)
	}
	return gv
}

func (w *Workshop) sandbox(st *models.SessionState) *SandboxView {
	sv := &SandboxView{Code: st.SandboxCode}
	for _, ch := range w.catalog.Challenges {
		sv.Challenges = append(sv.Challenges, ChallengeItem{
			ID:          ch.ID,
			Title:       ch.Title,
			Description: ch.Description,
			Snippet:     ch.Snippet,
			Completed:   st.AutonomousCompleted[ch.ID],
		})
	}
	return sv
}

func (w *Workshop) cheatSheet() *CheatSheetView {
	cs := &CheatSheetView{
		Rows:     w.catalog.CheatSheet,
		Examples: w.catalog.CheatSheetExamples,
	}
	if a, ok := w.catalog.Asset("guia_taller_sql.txt"); ok {
		cs.Guide = AssetLink{Filename: a.Filename, URL: DownloadURL(a.Filename)}
	}
	return cs
}

func connection(st *models.SessionState) *ConnectionView {
	params := st.Connection
	params.Password = utils.Mask(params.Password)

	cv := &ConnectionView{
		Params:       params,
		DSN:          db.MaskedConnString(st.Connection),
		Example:      db.ExampleProgram(st.Connection),
		Requirements: connectionRequirements,
	}
	if _, err := db.ParseParams(st.Connection); err != nil {
		cv.DSNError = err.Error()
	}
	return cv
}
