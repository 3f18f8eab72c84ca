package main

import (
	"net/http"

	"spendtrack/models"

	"github.com/gin-gonic/gin"
)

type categoryRequest struct {
	Name        string `json:"name" binding:"required"`
	Description string `json:"description"`
	Color       string `json:"color"`
	Icon        string `json:"icon"`
}

func createCategoryHandler(c *gin.Context) {
	var req categoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	cat := models.Category{Name: req.Name, Description: req.Description, Color: req.Color, Icon: req.Icon}
	if err := catStore.Create(&cat); err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, cat)
}

func listCategoriesHandler(c *gin.Context) {
	cats, err := catStore.All()
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, cats)
}

func getCategoryHandler(c *gin.Context) {
	cat, err := catStore.ByID(c.Param("id"))
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, cat)
}

func updateCategoryHandler(c *gin.Context) {
	var req categoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	cat := models.Category{Name: req.Name, Description: req.Description, Color: req.Color, Icon: req.Icon}
	if err := catStore.Update(c.Param("id"), &cat); err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, cat)
}

func deleteCategoryHandler(c *gin.Context) {
	if err := catStore.Delete(c.Param("id")); err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Category deleted successfully"})
}

func initializeCategoriesHandler(c *gin.Context) {
	if err := catStore.InitializeDefaults(); err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Default categories initialized"})
}
