package main

import (
	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"

	"gemchat/backend/internal/handlers"
	"gemchat/backend/internal/middleware"
	"gemchat/backend/pkg/auth"
)

func APIEndpoints(r *gin.Engine, authH *handlers.AuthHandler, roomH *handlers.RoomHandler, msgH *handlers.MessageHandler, wsH *handlers.WSHandler, jwtMgr *auth.JWTManager, rdb *redis.Client) {
	// Auth endpoints
	authGroup := r.Group("/auth")
	{
		authGroup.POST("/phone", authH.SubmitPhone)
		authGroup.GET("/flow/:id", authH.GetFlow)
		authGroup.POST("/otp", authH.SubmitOTP)
		authGroup.POST("/resend", authH.Resend)
		authGroup.POST("/logout", authH.Logout)
	}

	// API endpoints
	api := r.Group("/api", middleware.AuthMiddleware(jwtMgr, rdb))
	{
		api.GET("/rooms", roomH.ListRooms)
		api.POST("/rooms", roomH.CreateRoom)
		api.GET("/rooms/:id", roomH.GetRoom)
		api.DELETE("/rooms/:id", roomH.DeleteRoom)

		api.GET("/rooms/:id/messages", msgH.GetMessages)
		api.POST("/rooms/:id/messages", msgH.SendMessage)
	}

	r.GET("/ws", middleware.WSAuthMiddleware(jwtMgr, rdb), wsH.Serve)
}
