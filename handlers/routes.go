package handlers

import (
	"github.com/gin-gonic/gin"

	"sqlworkshop-server/middleware"
)

// RegisterRoutes mounts every page and API route. Everything except the
// health check runs inside a session.
func RegisterRoutes(router gin.IRouter, env *Env) {
	router.GET("/healthz", Health(env))

	app := router.Group("/")
	app.Use(middleware.Session(env.Cookie, env.Log))
	{
		app.GET("/", Index(env))
		app.GET("/downloads/:name", Download(env))
	}

	apiV1 := app.Group("/api/v1")
	{
		apiV1.GET("/state", GetState(env))
		apiV1.GET("/view", GetView(env))
		apiV1.POST("/view", SelectView(env))
		apiV1.POST("/teacher-mode", SetTeacherMode(env))
		apiV1.POST("/progress/:kind/:id", SetCompletion(env))
		apiV1.POST("/code/check", CheckCode(env))
		apiV1.POST("/sandbox/challenges/:id/load", LoadChallenge(env))
		apiV1.POST("/sandbox/clear", ClearSandbox(env))
		apiV1.GET("/questions", ListQuestions(env))
		apiV1.POST("/questions", SubmitQuestion(env))
		apiV1.POST("/reset", ResetProgress(env))
		apiV1.POST("/connection/:param", SetConnectionParam(env))
		apiV1.GET("/connection/example", GetConnectionExample(env))
		apiV1.DELETE("/session", EndSession(env))
	}

	teacher := apiV1.Group("")
	teacher.Use(middleware.RequireTeacherMode(env.Sessions, env.Log))
	{
		teacher.POST("/exercises/:id/reveal", RevealSolution(env))
		teacher.POST("/questions/:id/answer", AnswerQuestion(env))
		teacher.POST("/questions/:id/delete", DeleteQuestion(env))
		teacher.DELETE("/questions/:id", DeleteQuestion(env))
	}
}
