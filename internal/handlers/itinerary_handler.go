package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stackd-app/stackd-api/internal/models"
	"github.com/stackd-app/stackd-api/internal/services"
)

func ListItinerary(is *services.ItineraryService) gin.HandlerFunc {
	return func(c *gin.Context) {
		_, userID, ok := currentUser(c)
		if !ok {
			return
		}
		accessToken, _ := c.Cookie("access_token")

		items, err := is.ListItems(c.Request.Context(), userID, accessToken)
		if err != nil {
			c.JSON(http.StatusInternalServerError, models.ErrorResponse(err.Error()))
			return
		}
		c.JSON(http.StatusOK, models.SuccessResponse(items, ""))
	}
}

func AddItineraryItem(is *services.ItineraryService) gin.HandlerFunc {
	return func(c *gin.Context) {
		_, userID, ok := currentUser(c)
		if !ok {
			return
		}

		var item models.ItineraryItem
		if err := c.ShouldBindJSON(&item); err != nil {
			c.JSON(http.StatusBadRequest, models.ErrorResponse(err.Error()))
			return
		}
		item.UserID = userID

		accessToken, _ := c.Cookie("access_token")
		created, err := is.AddItem(c.Request.Context(), &item, accessToken)
		if err != nil {
			c.JSON(http.StatusInternalServerError, models.ErrorResponse(err.Error()))
			return
		}
		c.JSON(http.StatusCreated, models.SuccessResponse(created, "Stop added"))
	}
}

func ReorderItinerary(is *services.ItineraryService) gin.HandlerFunc {
	return func(c *gin.Context) {
		_, userID, ok := currentUser(c)
		if !ok {
			return
		}

		var req struct {
			ItemIDs []uuid.UUID `json:"item_ids" binding:"required"`
		}
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, models.ErrorResponse(err.Error()))
			return
		}

		accessToken, _ := c.Cookie("access_token")
		if err := is.Reorder(c.Request.Context(), userID, req.ItemIDs, accessToken); err != nil {
			status := http.StatusInternalServerError
			if strings.Contains(err.Error(), "unknown itinerary item") ||
				strings.Contains(err.Error(), "duplicate itinerary item") ||
				strings.Contains(err.Error(), "must include all") {
				status = http.StatusBadRequest
			}
			c.JSON(status, models.ErrorResponse(err.Error()))
			return
		}
		c.JSON(http.StatusOK, models.SuccessResponse(nil, "Order saved"))
	}
}

func GenerateItinerary(is *services.ItineraryService) gin.HandlerFunc {
	return func(c *gin.Context) {
		_, userID, ok := currentUser(c)
		if !ok {
			return
		}

		var req struct {
			Destination string `json:"destination" binding:"required"`
			StartDate   string `json:"start_date" binding:"required"`
			Days        int    `json:"days" binding:"required"`
		}
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, models.ErrorResponse(err.Error()))
			return
		}

		accessToken, _ := c.Cookie("access_token")
		items, err := is.Generate(c.Request.Context(), userID, req.Destination, req.StartDate, req.Days, accessToken)
		if err != nil {
			if strings.Contains(err.Error(), "invalid start date") {
				c.JSON(http.StatusBadRequest, models.ErrorResponse(err.Error()))
				return
			}
			c.JSON(http.StatusBadGateway, models.ErrorResponse(err.Error()))
			return
		}
		c.JSON(http.StatusCreated, models.SuccessResponse(items, "Itinerary generated"))
	}
}

func DeleteItineraryItem(is *services.ItineraryService) gin.HandlerFunc {
	return func(c *gin.Context) {
		_, userID, ok := currentUser(c)
		if !ok {
			return
		}

		itemID, err := uuid.Parse(strings.TrimSpace(c.Param("id")))
		if err != nil {
			c.JSON(http.StatusBadRequest, models.ErrorResponse("invalid item ID format"))
			return
		}

		accessToken, _ := c.Cookie("access_token")
		if err := is.DeleteItem(c.Request.Context(), userID, itemID, accessToken); err != nil {
			if strings.Contains(err.Error(), "not found") {
				c.JSON(http.StatusNotFound, models.ErrorResponse(err.Error()))
				return
			}
			c.JSON(http.StatusInternalServerError, models.ErrorResponse(err.Error()))
			return
		}
		c.JSON(http.StatusOK, models.SuccessResponse(nil, "Stop removed"))
	}
}
