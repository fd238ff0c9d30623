package handlers

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"sqlworkshop-server/db"
	"sqlworkshop-server/middleware"
	"sqlworkshop-server/models"
	"sqlworkshop-server/utils"
	"sqlworkshop-server/workshop"
)

// stateResponse is the session snapshot with the password masked.
type stateResponse struct {
	*models.SessionState
	Connection models.ConnectionParams    `json:"connection"`
	Progress   workshop.ProgressBreakdown `json:"progress"`
}

func snapshot(st *models.SessionState) stateResponse {
	conn := st.Connection
	conn.Password = utils.Mask(conn.Password)
	return stateResponse{SessionState: st, Connection: conn, Progress: workshop.Breakdown(st)}
}

// GetState returns the whole session state.
// GET /api/v1/state
func GetState(env *Env) gin.HandlerFunc {
	return func(c *gin.Context) {
		st, err := env.Sessions.View(c.Request.Context(), middleware.SessionID(c))
		if err != nil {
			respondError(c, env.Log, err)
			return
		}
		c.JSON(http.StatusOK, snapshot(st))
	}
}

// GetView returns the projection of the current view.
// GET /api/v1/view
func GetView(env *Env) gin.HandlerFunc {
	return func(c *gin.Context) {
		st, err := env.Sessions.View(c.Request.Context(), middleware.SessionID(c))
		if err != nil {
			respondError(c, env.Log, err)
			return
		}
		c.JSON(http.StatusOK, env.Workshop.Project(st))
	}
}

// SelectView switches the current section.
// POST /api/v1/view
func SelectView(env *Env) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req models.ViewSelectRequest
		if err := c.ShouldBind(&req); err != nil {
			badRequest(c, err)
			return
		}
		st, err := env.Sessions.Update(c.Request.Context(), middleware.SessionID(c), func(st *models.SessionState) error {
			return workshop.SelectView(st, req.View)
		})
		if err != nil {
			respondError(c, env.Log, err)
			return
		}
		reply(c, http.StatusOK, st.CurrentView.Label(), levelInfo, env.Workshop.Project(st))
	}
}

// SetTeacherMode switches teacher mode.
// POST /api/v1/teacher-mode
func SetTeacherMode(env *Env) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req models.TeacherModeRequest
		if err := c.ShouldBind(&req); err != nil {
			badRequest(c, err)
			return
		}
		_, err := env.Sessions.Update(c.Request.Context(), middleware.SessionID(c), func(st *models.SessionState) error {
			workshop.SetTeacherMode(st, req.Enabled)
			return nil
		})
		if err != nil {
			respondError(c, env.Log, err)
			return
		}
		notice := "Teacher mode disabled"
		if req.Enabled {
			notice = "Teacher mode enabled"
		}
		reply(c, http.StatusOK, notice, levelInfo, gin.H{"teacher_mode": req.Enabled})
	}
}

// SetCompletion sets a guided, autonomous or objective checkbox.
// POST /api/v1/progress/:kind/:id
func SetCompletion(env *Env) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req models.CompletionRequest
		if err := c.ShouldBind(&req); err != nil {
			badRequest(c, err)
			return
		}
		kind := models.CompletionKind(c.Param("kind"))
		id := c.Param("id")

		st, err := env.Sessions.Update(c.Request.Context(), middleware.SessionID(c), func(st *models.SessionState) error {
			return workshop.SetCompletion(st, kind, id, req.Completed)
		})
		if err != nil {
			respondError(c, env.Log, err)
			return
		}
		p := workshop.Breakdown(st)
		reply(c, http.StatusOK, fmt.Sprintf("Progress: %.1f%%", p.Percent), levelSuccess, p)
	}
}

// CheckCode runs the keyword check. The submitted code is kept as the
// editor contents of the sandbox or of the guided exercise it belongs to.
// POST /api/v1/code/check
func CheckCode(env *Env) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req models.CodeCheckRequest
		if err := c.ShouldBind(&req); err != nil {
			badRequest(c, err)
			return
		}

		switch models.View(req.View) {
		case models.ViewGuided:
			if req.ExerciseID != "" {
				_, err := env.Sessions.Update(c.Request.Context(), middleware.SessionID(c), func(st *models.SessionState) error {
					return env.Workshop.SetGuidedCode(st, req.ExerciseID, req.Code)
				})
				if err != nil {
					respondError(c, env.Log, err)
					return
				}
			}
		case models.ViewSandbox:
			_, err := env.Sessions.Update(c.Request.Context(), middleware.SessionID(c), func(st *models.SessionState) error {
				workshop.SetSandboxCode(st, req.Code)
				return nil
			})
			if err != nil {
				respondError(c, env.Log, err)
				return
			}
		}

		ok, msg := workshop.Classify(req.Code)
		res := models.CodeCheckResponse{OK: ok, Message: msg, Suggestion: workshop.Suggest(req.Code)}

		level := levelSuccess
		notice := msg
		switch {
		case ok:
		case msg == workshop.MsgEmptyCode:
			level = levelWarning
		default:
			level = levelError
			if res.Suggestion != "" {
				notice = fmt.Sprintf("%s. Did you mean %s?", msg, res.Suggestion)
			}
		}
		reply(c, http.StatusOK, notice, level, res)
	}
}

// LoadChallenge copies a challenge snippet into the sandbox editor.
// POST /api/v1/sandbox/challenges/:id/load
func LoadChallenge(env *Env) gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.Param("id")
		st, err := env.Sessions.Update(c.Request.Context(), middleware.SessionID(c), func(st *models.SessionState) error {
			return env.Workshop.LoadChallenge(st, id)
		})
		if err != nil {
			respondError(c, env.Log, err)
			return
		}
		reply(c, http.StatusOK, "Challenge loaded into the editor", levelInfo, gin.H{"code": st.SandboxCode})
	}
}

// ClearSandbox restores the editor placeholder.
// POST /api/v1/sandbox/clear
func ClearSandbox(env *Env) gin.HandlerFunc {
	return func(c *gin.Context) {
		st, err := env.Sessions.Update(c.Request.Context(), middleware.SessionID(c), func(st *models.SessionState) error {
			env.Workshop.ClearSandbox(st)
			return nil
		})
		if err != nil {
			respondError(c, env.Log, err)
			return
		}
		reply(c, http.StatusOK, "Editor cleared", levelInfo, gin.H{"code": st.SandboxCode})
	}
}

// ListQuestions returns the question board as seen in the current mode.
// GET /api/v1/questions
func ListQuestions(env *Env) gin.HandlerFunc {
	return func(c *gin.Context) {
		st, err := env.Sessions.View(c.Request.Context(), middleware.SessionID(c))
		if err != nil {
			respondError(c, env.Log, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"questions": workshop.QuestionViews(st)})
	}
}

// SubmitQuestion posts a question to the board.
// POST /api/v1/questions
func SubmitQuestion(env *Env) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req models.QuestionSubmitRequest
		if err := c.ShouldBind(&req); err != nil {
			badRequest(c, err)
			return
		}
		var q models.QuestionRecord
		_, err := env.Sessions.Update(c.Request.Context(), middleware.SessionID(c), func(st *models.SessionState) error {
			var err error
			q, err = env.Workshop.SubmitQuestion(st, req.Author, req.Body)
			return err
		})
		if err != nil {
			respondError(c, env.Log, err)
			return
		}
		reply(c, http.StatusCreated, "Question submitted", levelSuccess, q)
	}
}

// ResetProgress clears progress, sandbox, questions and connection settings.
// POST /api/v1/reset
func ResetProgress(env *Env) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req models.ResetRequest
		if err := c.ShouldBind(&req); err != nil {
			badRequest(c, err)
			return
		}
		st, err := env.Sessions.Update(c.Request.Context(), middleware.SessionID(c), func(st *models.SessionState) error {
			return env.Workshop.Reset(st, req.Confirmed)
		})
		if err != nil {
			respondError(c, env.Log, err)
			return
		}
		env.Log.Info("session progress reset", "session_id", middleware.SessionID(c))
		reply(c, http.StatusOK, "Progress reset", levelSuccess, snapshot(st))
	}
}

// SetConnectionParam edits one display-only connection parameter.
// POST /api/v1/connection/:param
func SetConnectionParam(env *Env) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req models.ConnectionParamRequest
		if err := c.ShouldBind(&req); err != nil {
			badRequest(c, err)
			return
		}
		param := c.Param("param")
		st, err := env.Sessions.Update(c.Request.Context(), middleware.SessionID(c), func(st *models.SessionState) error {
			return workshop.SetConnectionParam(st, param, req.Value)
		})
		if err != nil {
			respondError(c, env.Log, err)
			return
		}
		env.Log.Debug("connection param updated", "param", param)
		reply(c, http.StatusOK, "Connection parameter saved", levelSuccess, gin.H{"dsn": db.MaskedConnString(st.Connection)})
	}
}

// GetConnectionExample returns the example program for the current parameters.
// GET /api/v1/connection/example
func GetConnectionExample(env *Env) gin.HandlerFunc {
	return func(c *gin.Context) {
		st, err := env.Sessions.View(c.Request.Context(), middleware.SessionID(c))
		if err != nil {
			respondError(c, env.Log, err)
			return
		}
		resp := gin.H{
			"dsn":     db.MaskedConnString(st.Connection),
			"example": db.ExampleProgram(st.Connection),
		}
		if _, err := db.ParseParams(st.Connection); err != nil {
			resp["dsn_error"] = err.Error()
		}
		c.JSON(http.StatusOK, resp)
	}
}

// EndSession drops the session state and the cookie.
// DELETE /api/v1/session
func EndSession(env *Env) gin.HandlerFunc {
	return func(c *gin.Context) {
		id := middleware.SessionID(c)
		if err := env.Sessions.End(c.Request.Context(), id); err != nil {
			respondError(c, env.Log, err)
			return
		}
		middleware.ClearSessionCookie(c, env.Cookie)
		env.Log.Info("session ended", "session_id", id)
		reply(c, http.StatusOK, "Session ended", levelInfo, gin.H{"message": "Session ended"})
	}
}
