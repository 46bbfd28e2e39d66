package todo

import (
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
)

type todoBody struct {
	Title       string `json:"title" binding:"required"`
	Description string `json:"description" binding:"required"`
}

// CreateHandler は POST /api/todo のハンドラーを返します。
func CreateHandler(store Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req todoBody
		if err := c.ShouldBindJSON(&req); err != nil {
			respondInvalidInput(c)
			return
		}

		todo, err := store.Create(c.Request.Context(), req.Title, req.Description)
		if err != nil {
			respondWithStoreError(c, err)
			return
		}
		c.JSON(http.StatusCreated, todo)
	}
}

// ListHandler は GET /api/todo のハンドラーを返します。
func ListHandler(store Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		todos, err := store.List(c.Request.Context())
		if err != nil {
			respondWithStoreError(c, err)
			return
		}
		c.JSON(http.StatusOK, todos)
	}
}

// GetHandler は GET /api/todo/:id のハンドラーを返します。
func GetHandler(store Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		todo, err := store.Get(c.Request.Context(), c.Param("id"))
		if err != nil {
			respondWithStoreError(c, err)
			return
		}
		if todo == nil {
			respondNotFound(c)
			return
		}
		c.JSON(http.StatusOK, todo)
	}
}

// UpdateHandler は PUT /api/todo/:id のハンドラーを返します。
func UpdateHandler(store Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req todoBody
		if err := c.ShouldBindJSON(&req); err != nil {
			respondInvalidInput(c)
			return
		}

		todo, err := store.Update(c.Request.Context(), c.Param("id"), req.Title, req.Description)
		if err != nil {
			respondWithStoreError(c, err)
			return
		}
		if todo == nil {
			respondNotFound(c)
			return
		}
		c.JSON(http.StatusOK, todo)
	}
}

// DeleteHandler は DELETE /api/todo/:id のハンドラーを返します。
func DeleteHandler(store Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		deleted, err := store.Delete(c.Request.Context(), c.Param("id"))
		if err != nil {
			respondWithStoreError(c, err)
			return
		}
		if !deleted {
			respondNotFound(c)
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "削除しました。"})
	}
}

func respondInvalidInput(c *gin.Context) {
	c.JSON(http.StatusBadRequest, gin.H{
		"code":    "INVALID_INPUT",
		"message": "title と description を JSON で送ってください。",
	})
}

func respondNotFound(c *gin.Context) {
	c.JSON(http.StatusNotFound, gin.H{
		"code":    "NOT_FOUND",
		"message": "指定されたTodoは存在しません。",
	})
}

func respondWithStoreError(c *gin.Context, err error) {
	log.Printf("todo handler internal error: %v", err)
	c.JSON(http.StatusInternalServerError, gin.H{
		"code":    "INTERNAL_ERROR",
		"message": "サーバー内部でエラーが発生しました。",
	})
}
