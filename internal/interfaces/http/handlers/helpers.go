package handlers

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"agrimarket.backend/internal/domain/entities"
	domainerrors "agrimarket.backend/internal/domain/errors"
	"agrimarket.backend/internal/interfaces/http/middleware"
	"agrimarket.backend/pkg/utils"
)

func parseIDParam(c *gin.Context, name string) (uint, error) {
	id, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil || id == 0 {
		return 0, domainerrors.BadRequest("Invalid " + name)
	}
	return uint(id), nil
}

func pageParams(c *gin.Context) utils.PaginationParams {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", strconv.Itoa(utils.DefaultPageLimit)))
	return utils.GetPaginationParams(page, limit)
}

func currentUser(c *gin.Context) (*entities.User, error) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		return nil, domainerrors.Unauthorized("User not authenticated")
	}
	return user, nil
}

func authenticatedUserID(c *gin.Context) (uint, error) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		return 0, domainerrors.Unauthorized("User not authenticated")
	}
	return userID, nil
}
