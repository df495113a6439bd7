package rest

import "github.com/gin-gonic/gin"

func NewApi(router *gin.Engine, posts *PostsHandler, comments *CommentsHandler) {
	blogV1 := router.Group("api/blog/v1")
	{
		blogV1.GET("/posts", posts.ListPosts)
		blogV1.GET("/posts/search", posts.SearchPosts)
		blogV1.GET("/posts/:slug", posts.GetPost)
		blogV1.GET("/posts/:slug/related", posts.GetRelatedPosts)
		blogV1.GET("/categories", posts.GetCategories)
	}

	commentsV1 := router.Group("api/comments/v1")
	{
		commentsV1.GET("/:slug", comments.GetComments)
		commentsV1.POST("/:slug", comments.PostComment)
	}
}
