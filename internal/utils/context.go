package utils

import (
	"fmt"

	"github.com/apujo-dev/apujo/internal/types"
	"github.com/gin-gonic/gin"
)

func CurrentUsername(ctx *gin.Context) (string, error) {
	value, exists := ctx.Get(types.ContextUserKey)

	if !exists {
		return "", fmt.Errorf("user not authenticated")
	}

	username, ok := value.(string)

	if !ok {
		return "", fmt.Errorf("invalid user type in context")
	}

	return username, nil
}
