package router

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Saqib-002/pos-order-to-delivery-sub001/internal/interfaces/http/handler"
)

func RegisterRoutes(r *gin.Engine, cartHandler *handler.CartHandler, menuHandler *handler.MenuHandler) {
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	api := r.Group("/api")
	{
		cart := api.Group("/cart")
		{
			cart.GET("", cartHandler.GetCart)
			cart.DELETE("", cartHandler.ClearCart)
			cart.POST("/items", cartHandler.AddProduct)
			cart.PUT("/items/:id", cartHandler.EditProduct)
			cart.PATCH("/items/:id/quantity", cartHandler.UpdateQuantity)
			cart.DELETE("/items/:id", cartHandler.RemoveItem)
			cart.PATCH("/menus/:menuID/:secondaryID/quantity", cartHandler.UpdateMenuQuantity)
			cart.DELETE("/menus/:menuID/:secondaryID", cartHandler.RemoveMenuGroup)
		}

		session := api.Group("/menu-session")
		{
			session.POST("", menuHandler.StartSession)
			session.GET("", menuHandler.GetSession)
			session.DELETE("", menuHandler.Cancel)
			session.POST("/next", menuHandler.NextPage)
			session.POST("/prev", menuHandler.PrevPage)
			session.POST("/slots", menuHandler.ConfigureSlot)
			session.PUT("/slots/:productID", menuHandler.EditSlot)
			session.DELETE("/slots/:productID", menuHandler.RemoveSlot)
			session.POST("/complete", menuHandler.Complete)
		}
	}
}
