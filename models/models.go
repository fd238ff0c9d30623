package models

import (
	"strings"
	"time"
)

// View identifies one of the workshop sections.
type View string

const (
	ViewHome       View = "home"
	ViewContext    View = "context"
	ViewGuided     View = "guided"
	ViewSandbox    View = "sandbox"
	ViewCheatSheet View = "cheatsheet"
	ViewFAQ        View = "faq"
	ViewConnection View = "connection"
)

// AllViews lists the sections in navigation order.
var AllViews = []View{
	ViewHome,
	ViewContext,
	ViewGuided,
	ViewSandbox,
	ViewCheatSheet,
	ViewFAQ,
	ViewConnection,
}

var viewLabels = map[View]string{
	ViewHome:       "Inicio",
	ViewContext:    "Contexto & Schema",
	ViewGuided:     "Ejercicios Guiados",
	ViewSandbox:    "Práctica Autónoma",
	ViewCheatSheet: "Cheat-sheet",
	ViewFAQ:        "FAQ",
	ViewConnection: "Conexión PostgreSQL",
}

// Label returns the navigation title of the view.
func (v View) Label() string {
	return viewLabels[v]
}

// ParseView resolves a view identifier, ignoring case and surrounding blanks.
func ParseView(s string) (View, bool) {
	v := View(strings.ToLower(strings.TrimSpace(s)))
	if _, ok := viewLabels[v]; !ok {
		return "", false
	}
	return v, true
}

// ObjectiveKey names one of the self-reported learning objectives on the home view.
type ObjectiveKey string

const (
	ObjectiveReadObjectives  ObjectiveKey = "readObjectives"
	ObjectiveCompletedGuided ObjectiveKey = "completedGuided"
	ObjectiveDidAutonomous   ObjectiveKey = "didAutonomous"
)

// AllObjectives lists the objective keys in display order.
var AllObjectives = []ObjectiveKey{
	ObjectiveReadObjectives,
	ObjectiveCompletedGuided,
	ObjectiveDidAutonomous,
}

// CompletionKind selects which completion map a checkbox toggles.
type CompletionKind string

const (
	KindGuided     CompletionKind = "guided"
	KindAutonomous CompletionKind = "autonomous"
	KindObjective  CompletionKind = "objective"
)

// ConnectionParams are display-only PostgreSQL settings. Nothing ever dials them.
type ConnectionParams struct {
	Host     string `json:"host"`
	Port     string `json:"port"`
	Database string `json:"database"`
	User     string `json:"user"`
	Password string `json:"password"`
}

// QuestionRecord is an entry on the question board.
type QuestionRecord struct {
	ID        int       `json:"id"`
	Author    string    `json:"author"`
	Body      string    `json:"body"`
	Answer    string    `json:"answer"`
	CreatedAt time.Time `json:"created_at"`
	Resolved  bool      `json:"resolved"`
}

// SessionState holds everything one browser session can change.
// It is owned by exactly one session and never shared.
type SessionState struct {
	GuidedCompleted     map[string]bool       `json:"guided_completed"`
	AutonomousCompleted map[string]bool       `json:"autonomous_completed"`
	SolutionsRevealed   map[string]bool       `json:"solutions_revealed"`
	ObjectivesCompleted map[ObjectiveKey]bool `json:"objectives_completed"`
	TeacherMode         bool                  `json:"teacher_mode"`
	CurrentView         View                  `json:"current_view"`
	GuidedCode          map[string]string     `json:"guided_code"`
	SandboxCode         string                `json:"sandbox_code"`
	Questions           []QuestionRecord      `json:"questions"`
	NextQuestionID      int                   `json:"next_question_id"`
	Connection          ConnectionParams      `json:"connection"`
	CreatedAt           time.Time             `json:"created_at"`
	UpdatedAt           time.Time             `json:"updated_at"`
}

// ExerciseDefinition is a guided exercise with a canonical solution.
type ExerciseDefinition struct {
	ID       string `yaml:"id" json:"id"`
	Title    string `yaml:"title" json:"title"`
	Prompt   string `yaml:"prompt" json:"prompt"`
	Hint     string `yaml:"hint" json:"hint"`
	Template string `yaml:"template" json:"template"`
	Solution string `yaml:"solution" json:"-"`
}

// ChallengeDefinition is a sandbox challenge with a loadable starter snippet.
type ChallengeDefinition struct {
	ID          string `yaml:"id" json:"id"`
	Title       string `yaml:"title" json:"title"`
	Description string `yaml:"description" json:"description"`
	Snippet     string `yaml:"snippet" json:"snippet"`
}

// CheatSheetRow is one line of the command reference table.
type CheatSheetRow struct {
	Command     string `yaml:"command" json:"command"`
	Category    string `yaml:"category" json:"category"`
	Description string `yaml:"description" json:"description"`
}

// CheatSheetExample is a short snippet shown under the reference table.
type CheatSheetExample struct {
	Group string `yaml:"group" json:"group"`
	Title string `yaml:"title" json:"title"`
	Code  string `yaml:"code" json:"code"`
}

// SampleTable previews seed data on the context view.
type SampleTable struct {
	Name    string     `yaml:"name" json:"name"`
	Columns []string   `yaml:"columns" json:"columns"`
	Rows    [][]string `yaml:"rows" json:"rows"`
}

// InstructorNote is shown on a view only while teacher mode is on.
type InstructorNote struct {
	View View   `yaml:"view" json:"view"`
	Text string `yaml:"text" json:"text"`
}

// Asset is a downloadable text file served verbatim.
type Asset struct {
	Name        string `json:"name"`
	Filename    string `json:"filename"`
	ContentType string `json:"content_type"`
	Body        []byte `json:"-"`
}

// ViewSelectRequest selects a section.
type ViewSelectRequest struct {
	View string `json:"view" form:"view" binding:"required"`
}

// TeacherModeRequest switches teacher mode on or off.
type TeacherModeRequest struct {
	Enabled bool `json:"enabled" form:"enabled"`
}

// CompletionRequest sets a checkbox.
type CompletionRequest struct {
	Completed bool `json:"completed" form:"completed"`
}

// CodeCheckRequest submits code for the keyword check.
type CodeCheckRequest struct {
	View       string `json:"view" form:"view" binding:"required,oneof=guided sandbox"`
	ExerciseID string `json:"exercise_id" form:"exercise_id"`
	Code       string `json:"code" form:"code"`
}

// CodeCheckResponse reports the keyword check result.
type CodeCheckResponse struct {
	OK         bool   `json:"ok"`
	Message    string `json:"message"`
	Suggestion string `json:"suggestion,omitempty"`
}

// QuestionSubmitRequest posts a new question.
type QuestionSubmitRequest struct {
	Author string `json:"author" form:"author"`
	Body   string `json:"body" form:"body"`
}

// AnswerRequest answers a question.
type AnswerRequest struct {
	Answer string `json:"answer" form:"answer"`
}

// ResetRequest resets progress. Confirmed must be true for anything to happen.
type ResetRequest struct {
	Confirmed bool `json:"confirmed" form:"confirmed"`
}

// ConnectionParamRequest edits one connection parameter.
type ConnectionParamRequest struct {
	Value string `json:"value" form:"value"`
}
