package handlers

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"sqlworkshop-server/middleware"
	"sqlworkshop-server/models"
	"sqlworkshop-server/workshop"
)

// Teacher-only intents. Routes are guarded by middleware.RequireTeacherMode
// and the workshop operations refuse again inside the update.

func questionID(c *gin.Context) (int, error) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return 0, fmt.Errorf("%w: question %q", workshop.ErrUnknownItem, c.Param("id"))
	}
	return id, nil
}

// RevealSolution makes a guided solution visible for good.
// POST /api/v1/exercises/:id/reveal
func RevealSolution(env *Env) gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.Param("id")
		_, err := env.Sessions.Update(c.Request.Context(), middleware.SessionID(c), func(st *models.SessionState) error {
			return workshop.RevealSolution(st, id)
		})
		if err != nil {
			respondError(c, env.Log, err)
			return
		}
		ex, _ := env.Workshop.Catalog().Exercise(id)
		reply(c, http.StatusOK, "Solution revealed", levelInfo, gin.H{"id": id, "solution": ex.Solution})
	}
}

// AnswerQuestion stores the teacher's answer.
// POST /api/v1/questions/:id/answer
func AnswerQuestion(env *Env) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := questionID(c)
		if err != nil {
			respondError(c, env.Log, err)
			return
		}
		var req models.AnswerRequest
		if err := c.ShouldBind(&req); err != nil {
			badRequest(c, err)
			return
		}
		st, err := env.Sessions.Update(c.Request.Context(), middleware.SessionID(c), func(st *models.SessionState) error {
			return workshop.AnswerQuestion(st, id, req.Answer)
		})
		if err != nil {
			respondError(c, env.Log, err)
			return
		}
		reply(c, http.StatusOK, "Answer saved", levelSuccess, gin.H{"questions": workshop.QuestionViews(st)})
	}
}

// DeleteQuestion removes a question. The other questions keep their ids.
// DELETE /api/v1/questions/:id
// POST /api/v1/questions/:id/delete
func DeleteQuestion(env *Env) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := questionID(c)
		if err != nil {
			respondError(c, env.Log, err)
			return
		}
		st, err := env.Sessions.Update(c.Request.Context(), middleware.SessionID(c), func(st *models.SessionState) error {
			return workshop.DeleteQuestion(st, id)
		})
		if err != nil {
			respondError(c, env.Log, err)
			return
		}
		reply(c, http.StatusOK, "Question deleted", levelInfo, gin.H{"questions": workshop.QuestionViews(st)})
	}
}
